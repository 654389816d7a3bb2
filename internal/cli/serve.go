package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/youruser/cardforge/internal/api"
)

func newServeCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			if port == 0 {
				port = cfg.Server.Port
			}
			return api.NewServer(cfg, loggerFromContext(ctx)).Run(ctx, fmt.Sprintf(":%d", port))
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from config)")
	return cmd
}
