package main

import (
	"os"
	"runtime"

	"github.com/grovetools/sentinel/cli"
	"github.com/grovetools/sentinel/cmd"
	"github.com/grovetools/sentinel/version"
)

func main() {
	rootCmd := cli.NewStandardCommand(
		"sentinel",
		"Registry monitor for local development environments",
	)
	rootCmd.Version = version.Version
	cli.SetVersionTemplate(rootCmd, cli.VersionInfo{
		Version:   version.Version,
		Commit:    version.Commit,
		BuildDate: version.BuildDate,
		BuildArch: runtime.GOARCH,
	})

	rootCmd.AddCommand(cmd.NewMonCmd())
	rootCmd.AddCommand(cmd.NewStatusCmd())
	rootCmd.AddCommand(cmd.NewConfigCmd())
	rootCmd.AddCommand(cmd.NewPathsCmd())
	rootCmd.AddCommand(cmd.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
