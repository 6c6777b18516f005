package main

import (
	"github.com/spf13/cobra"

	httpapi "github.com/legionffl/cpr/internal/interfaces/http"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the rankings HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = a.runtime.HTTPAddr
			}

			cfg := httpapi.Config{
				Addr:      addr,
				LeagueID:  a.runtime.LeagueID,
				Season:    a.runtime.Season,
				Engine:    a.engine,
				Source:    a.provider,
				Metrics:   a.metrics,
				Retention: a.runtime.RunRetention,
			}
			if a.store != nil {
				cfg.Store = a.store
			}
			return httpapi.NewServer(cfg).ListenAndServe(cmd.Context())
		},
	}
	cmd.Flags().String("addr", "", "listen address (overrides HTTP_ADDR)")
	return cmd
}
