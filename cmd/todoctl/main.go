// Command todoctl is an interactive task tracker client. It keeps one session
// (cookie jar) for the lifetime of the shell.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tasktrack/tasktrack/internal/client"
	"github.com/tasktrack/tasktrack/internal/client/transport"
	"github.com/tasktrack/tasktrack/internal/pkg/config"
	"github.com/tasktrack/tasktrack/pkg/logger"
)

var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdin, os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	var (
		apiURL   string
		logLevel string
		pretty   bool
	)

	cmd := &cobra.Command{
		Use:   "todoctl",
		Short: "Interactive client for the tasktrack API",
		Long: `todoctl opens a shell bound to one tasktrack session.

Examples:
  todoctl
  todoctl --api http://localhost:8080/api --log-level debug`,
		Version:      Version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			if apiURL != "" {
				cfg.Client.APIURL = apiURL
			}
			if logLevel != "" {
				cfg.Client.LogLevel = logLevel
			}

			logger.Init(logger.Options{
				Level:   cfg.Client.LogLevel,
				Pretty:  pretty,
				Output:  os.Stderr,
				Service: "todoctl",
			})

			gw, err := transport.New(transport.Options{
				BaseURL: cfg.Client.APIURL,
				Timeout: cfg.Client.RequestTimeout,
				Logger:  logger.For("transport"),
			})
			if err != nil {
				return err
			}

			app := client.New(gw, logger.For("client"))
			defer app.Close()

			return newShell(app, in, out).run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&apiURL, "api", "", "API base URL (overrides API_URL)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "diagnostic log level (overrides CLIENT_LOG_LEVEL)")
	cmd.Flags().BoolVar(&pretty, "log-pretty", true, "human-readable diagnostics on stderr")

	return cmd
}
