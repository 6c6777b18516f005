package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/legionffl/cpr/internal/engine"
	"github.com/legionffl/cpr/internal/persistence"
)

func rankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Compute rankings for a league",
	}
	cmd.PersistentFlags().Bool("save", false, "persist the run (requires DATABASE_URL)")

	teams := &cobra.Command{
		Use:   "teams",
		Short: "Compute team power rankings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRank(cmd, persistence.RunKindTeams)
		},
	}
	players := &cobra.Command{
		Use:   "players",
		Short: "Compute player impact rankings",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRank(cmd, persistence.RunKindPlayers)
		},
	}
	cmd.AddCommand(teams, players)
	return cmd
}

func runRank(cmd *cobra.Command, kind persistence.RunKind) error {
	a, err := buildApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.requireLeague(); err != nil {
		return err
	}

	ctx := cmd.Context()
	snap, err := a.provider.Snapshot(ctx, a.runtime.LeagueID, a.runtime.Season)
	if err != nil {
		return fmt.Errorf("fetching snapshot: %w", err)
	}

	var meta engine.RunMeta
	var payload interface{}
	switch kind {
	case persistence.RunKindTeams:
		out, err := a.engine.RankTeams(*snap)
		if err != nil {
			return err
		}
		meta, payload = out.RunMeta, out
	case persistence.RunKindPlayers:
		out, err := a.engine.RankPlayers(*snap)
		if err != nil {
			return err
		}
		meta, payload = out.RunMeta, out
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		if a.store == nil {
			return fmt.Errorf("--save requires DATABASE_URL")
		}
		if err := saveRun(ctx, a.store, kind, meta, payload); err != nil {
			return err
		}
		if a.runtime.RunRetention > 0 {
			if _, err := a.store.PruneRuns(ctx, a.runtime.RunRetention); err != nil {
				log.Warn().Err(err).Msg("failed to prune stored runs")
			}
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func saveRun(ctx context.Context, store *persistence.Store, kind persistence.RunKind, meta engine.RunMeta, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	runID, err := store.SaveRun(ctx, persistence.Run{
		RunID:       meta.RunID,
		LeagueID:    meta.LeagueID,
		Season:      meta.Season,
		Kind:        kind,
		Payload:     data,
		GeneratedAt: meta.GeneratedAt,
	})
	if err != nil {
		return err
	}
	log.Info().Str("run_id", runID).Str("kind", string(kind)).Msg("run persisted")
	return nil
}
