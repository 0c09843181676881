package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/grovetools/sentinel/cli"
	"github.com/grovetools/sentinel/config"
	"github.com/grovetools/sentinel/internal/monitor/engine"
	"github.com/grovetools/sentinel/internal/monitor/notify"
	"github.com/grovetools/sentinel/internal/monitor/pidfile"
	"github.com/grovetools/sentinel/internal/monitor/server"
	"github.com/grovetools/sentinel/internal/monitor/watcher"
	"github.com/grovetools/sentinel/pkg/paths"
	"github.com/grovetools/sentinel/tui"
	"github.com/spf13/cobra"
)

// NewMonCmd returns the monitor command.
func NewMonCmd() *cobra.Command {
	var (
		registryDir string
		interval    time.Duration
		headless    bool
	)

	cmd := &cobra.Command{
		Use:   "mon",
		Short: "Watch the environment registry and alert on state changes",
		Long: `Watch the environment registry and alert on state changes.

Runs the interactive dashboard by default. With --headless the monitor
runs without a UI; snapshots stay readable over the unix socket.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cli.GetLogger(cmd, "mon")
			handler := cli.NewErrorHandler(cli.GetOptions(cmd).Verbose)

			cfg, err := config.Load(cli.ConfigPath(cmd))
			if err != nil {
				// An explicitly named config file must load. The default
				// location is allowed to be absent or broken.
				if cmd.Flags().Changed("config") {
					return handler.Handle(err)
				}
				cfg = &config.Config{}
				logger.WithError(err).Debug("Using built-in configuration defaults")
			}

			dir := registryDir
			if dir == "" {
				dir = cfg.RegistryDir()
			}
			refresh := interval
			if refresh <= 0 {
				refresh = cfg.Interval()
			}

			var sink notify.Sink = notify.NewCommandSink(cfg.Sounds)
			if !cfg.AlertsEnabled() {
				sink = notify.NopSink{}
			}

			if err := paths.EnsureDirs(); err != nil {
				return handler.Handle(err)
			}

			pidPath := paths.PidFilePath()
			if err := pidfile.Acquire(pidPath); err != nil {
				return handler.Handle(err)
			}
			defer func() {
				if err := pidfile.Release(pidPath); err != nil {
					logger.Errorf("Failed to release pidfile: %v", err)
				}
			}()

			source := watcher.New(dir, refresh)
			eng := engine.New(dir, source, sink)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			srv := server.New(eng)
			go func() {
				if err := srv.ListenAndServe(paths.SocketPath()); err != nil {
					logger.WithError(err).Warn("Status server stopped")
				}
			}()
			defer func() {
				shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer shutdownCancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					logger.Errorf("Server shutdown error: %v", err)
				}
			}()

			go eng.Run(ctx)

			if headless {
				stop := make(chan os.Signal, 1)
				signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
				logger.WithField("pid", os.Getpid()).Info("Monitor running headless")
				<-stop
				logger.Info("Received stop signal")
				return nil
			}

			if err := tui.Run(eng); err != nil {
				return fmt.Errorf("ui error: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&registryDir, "registry", "", "Registry directory to watch (default ~/.dev-runner)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "Rescan interval (default 2s)")
	cmd.Flags().BoolVar(&headless, "headless", false, "Run without the interactive UI")

	return cmd
}
