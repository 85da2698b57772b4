package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/neuroglow/neuroglow/server"
)

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the browser preview server",
		Long:  "Serves an HTML canvas page and streams topology and frame state\nover a websocket so a browser can display the animation.",
		RunE: func(cmd *cobra.Command, args []string) error {
			theme, overrides, err := setup()
			if err != nil {
				return fail(err)
			}
			log := buildLogger(os.Stderr)

			srv, err := server.New(server.Config{
				Port:      port,
				Theme:     theme,
				Width:     widthFlag,
				Height:    heightFlag,
				Overrides: overrides,
				Logger:    log,
			})
			if err != nil {
				return fail(err)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			okf("preview on http://localhost:%d", port)
			if err := srv.Run(ctx); err != nil {
				return fail(err)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8087, "listen port")
	return cmd
}
