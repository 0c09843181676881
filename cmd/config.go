package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/grovetools/sentinel/cli"
	"github.com/grovetools/sentinel/config"
	"github.com/grovetools/sentinel/pkg/paths"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const defaultConfigTemplate = `# sentinel configuration
registry:
  # Directory the environment runner writes its registry to.
  # dir: ~/.dev-runner

monitor:
  # How often to rescan when no filesystem events arrive.
  refresh_interval: 2s
  # Set to false to disable sounds, speech and banners entirely.
  alerts: true

# Override the system sound per severity class.
# sounds:
#   failed: Basso
#   ready: Ping
#   building: Submarine
`

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and initialize the sentinel configuration",
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a commented default sentinel.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := paths.ConfigDir()
			if dir == "" {
				return fmt.Errorf("could not resolve a config directory")
			}
			path := filepath.Join(dir, "sentinel.yml")

			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config file already exists at %s", path)
			}

			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
			if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0644); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	}
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cli.ConfigPath(cmd))
			if err != nil {
				return cli.NewErrorHandler(cli.GetOptions(cmd).Verbose).Handle(err)
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			fmt.Print(string(data))
			return nil
		},
	}
}
