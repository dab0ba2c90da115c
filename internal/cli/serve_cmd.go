package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/sprintpilot/internal/cli/formatter"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.HTTPHandler == nil {
				return fmt.Errorf("http handler not configured")
			}
			listen := addr
			if listen == "" {
				listen = app.DefaultAddr
			}
			fmt.Printf("Listening on %s\n", formatter.Bold(listen))
			server := &http.Server{
				Addr:              listen,
				Handler:           app.HTTPHandler,
				ReadHeaderTimeout: 5 * time.Second,
			}
			return server.ListenAndServe()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from SPRINTPILOT_ADDR or :8080)")

	return cmd
}
