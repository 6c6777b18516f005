package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Verify connectivity to the league data source",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()
			if err := a.requireLeague(); err != nil {
				return err
			}

			snap, err := a.provider.Snapshot(cmd.Context(), a.runtime.LeagueID, a.runtime.Season)
			if err != nil {
				return fmt.Errorf("league %s unreachable: %w", a.runtime.LeagueID, err)
			}
			log.Info().
				Int("teams", len(snap.Teams)).
				Int("players", len(snap.Players)).
				Int("matchup_entries", len(snap.Matchups)).
				Int("draft_picks", len(snap.DraftPicks)).
				Msg("league data source healthy")
			fmt.Printf("ok: %d teams, %d players\n", len(snap.Teams), len(snap.Players))
			return nil
		},
	}
}
