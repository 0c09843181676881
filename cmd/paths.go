package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/grovetools/sentinel/pkg/paths"
	"github.com/spf13/cobra"
)

// PathsOutput represents the XDG-compliant paths used by sentinel.
type PathsOutput struct {
	ConfigDir   string `json:"config_dir"`
	StateDir    string `json:"state_dir"`
	LogDir      string `json:"log_dir"`
	RegistryDir string `json:"registry_dir"`
	SocketPath  string `json:"socket_path"`
	PidFilePath string `json:"pid_file_path"`
}

func NewPathsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Print the XDG-compliant paths used by sentinel",
		Long: `Print the XDG-compliant paths used by sentinel.

This command outputs the paths in JSON format by default, making it easy
to parse from scripts and other tools.

- config_dir: Configuration files (sentinel.yml)
- state_dir: Persisted UI preferences
- log_dir: Component log files
- registry_dir: Environment registry being watched
- socket_path: Read-only status socket of a running monitor
- pid_file_path: Monitor PID file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := PathsOutput{
				ConfigDir:   paths.ConfigDir(),
				StateDir:    paths.StateDir(),
				LogDir:      paths.LogDir(),
				RegistryDir: paths.RegistryDir(),
				SocketPath:  paths.SocketPath(),
				PidFilePath: paths.PidFilePath(),
			}

			jsonData, err := json.MarshalIndent(output, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal paths to JSON: %w", err)
			}
			fmt.Println(string(jsonData))
			return nil
		},
	}

	return cmd
}
