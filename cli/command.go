// Package cli carries the shared cobra plumbing for sentinel commands.
package cli

import (
	"path/filepath"

	"github.com/grovetools/sentinel/logging"
	"github.com/grovetools/sentinel/pkg/paths"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// CommandOptions holds common options for sentinel commands
type CommandOptions struct {
	ConfigFile string
	Verbose    bool
	JSONOutput bool
}

// NewStandardCommand creates a new command with standard sentinel flags
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}

	AddStandardFlags(cmd.PersistentFlags())

	return cmd
}

// AddStandardFlags registers the flags every sentinel command carries.
func AddStandardFlags(flags *pflag.FlagSet) {
	flags.BoolP("verbose", "v", false, "Enable verbose logging")
	flags.Bool("json", false, "Output in JSON format")
	flags.StringP("config", "c", "", "Path to sentinel.yml config file")
}

// GetLogger creates a component logger adjusted by command flags.
func GetLogger(cmd *cobra.Command, component string) *logrus.Entry {
	entry := logging.NewLogger(component)

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		entry.Logger.SetLevel(logrus.DebugLevel)
	}

	return entry
}

// GetOptions extracts common options from a command
func GetOptions(cmd *cobra.Command) CommandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	return CommandOptions{
		ConfigFile: configFile,
		Verbose:    verbose,
		JSONOutput: jsonOutput,
	}
}

// ConfigPath resolves the configuration file path: the --config flag when
// set, otherwise the default location under the config directory.
func ConfigPath(cmd *cobra.Command) string {
	if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
		return configFile
	}
	if dir := paths.ConfigDir(); dir != "" {
		return filepath.Join(dir, "sentinel.yml")
	}
	return ""
}
