package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/grovetools/sentinel/cli"
	"github.com/grovetools/sentinel/config"
	"github.com/grovetools/sentinel/registry"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewStatusCmd returns the one-shot status command.
func NewStatusCmd() *cobra.Command {
	var registryDir string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print a one-shot snapshot of all environments",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := cli.GetOptions(cmd)

			dir := registryDir
			if dir == "" {
				cfg, err := config.Load(cli.ConfigPath(cmd))
				if err != nil {
					cfg = &config.Config{}
				}
				dir = cfg.RegistryDir()
			}

			snap := registry.BuildSnapshot(dir)

			if opts.JSONOutput {
				data, err := json.MarshalIndent(snap, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal snapshot: %w", err)
				}
				fmt.Println(string(data))
				return nil
			}

			printSnapshot(snap)
			return nil
		},
	}

	cmd.Flags().StringVar(&registryDir, "registry", "", "Registry directory to scan (default ~/.dev-runner)")

	return cmd
}

func printSnapshot(snap registry.Snapshot) {
	if len(snap.Environments) == 0 {
		fmt.Println("No environments found.")
		return
	}

	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	separator := strings.Repeat("─", width)

	now := time.Now()
	for i, env := range snap.Environments {
		if i > 0 {
			fmt.Println(separator)
		}

		alive := "○"
		if env.Alive {
			alive = "●"
		}
		header := fmt.Sprintf("%s %s", alive, env.DisplayName())
		if elapsed := env.Elapsed(now); elapsed != "" {
			header += "  " + elapsed
		}
		fmt.Println(header)
		fmt.Printf("  %s\n", env.Dir)

		for _, unit := range env.Units {
			line := fmt.Sprintf("  %s %-16s", unit.State.Indicator(), unit.Name)
			if port, ok := env.PortFor(unit.Name); ok {
				line += fmt.Sprintf(" :%-5d", port)
			} else {
				line += strings.Repeat(" ", 7)
			}
			line += " " + unit.State.String()
			if unit.Detail != "" {
				line += "  " + unit.Detail
			}
			fmt.Println(line)
		}
	}
}
