package main

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/legionffl/cpr/internal/config"
	"github.com/legionffl/cpr/internal/data/sleeper"
	"github.com/legionffl/cpr/internal/engine"
	"github.com/legionffl/cpr/internal/metrics"
	"github.com/legionffl/cpr/internal/persistence"
)

// Execute builds the command tree and runs it.
func Execute(ctx context.Context) error {
	root := &cobra.Command{
		Use:   "cpr",
		Short: "Composite power rankings for Sleeper fantasy leagues",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			levelName, _ := cmd.Flags().GetString("log-level")
			level, err := zerolog.ParseLevel(levelName)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", levelName, err)
			}
			zerolog.SetGlobalLevel(level)
			return nil
		},
	}
	root.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	root.PersistentFlags().String("league", "", "Sleeper league ID (overrides LEAGUE_ID)")
	root.PersistentFlags().Int("season", 0, "season year (overrides SEASON)")
	root.PersistentFlags().String("weights", "", "path to weights YAML (overrides RANKINGS_CONFIG)")

	root.AddCommand(rankCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(healthCmd())
	return root.ExecuteContext(ctx)
}

// app bundles the wired components one command run needs.
type app struct {
	runtime  config.Runtime
	rankings config.RankingsConfig
	engine   *engine.Engine
	provider *sleeper.Provider
	store    *persistence.Store
	metrics  *metrics.Metrics
}

// buildApp resolves configuration and wires the data provider, engines and
// optional persistence. Flags override environment values.
func buildApp(cmd *cobra.Command) (*app, error) {
	rt, err := config.LoadRuntime()
	if err != nil {
		return nil, err
	}
	if league, _ := cmd.Flags().GetString("league"); league != "" {
		rt.LeagueID = league
	}
	if season, _ := cmd.Flags().GetInt("season"); season > 0 {
		rt.Season = season
	}
	if path, _ := cmd.Flags().GetString("weights"); path != "" {
		rt.RankingsConfigPath = path
	}

	rankings, err := config.LoadRankings(rt.RankingsConfigPath)
	if err != nil {
		return nil, err
	}

	var cache sleeper.Cache = sleeper.NoopCache{}
	if rt.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: rt.RedisAddr, Password: rt.RedisPassword})
		cache = sleeper.NewRedisCache(rdb)
		log.Debug().Str("addr", rt.RedisAddr).Msg("response caching enabled")
	}

	m := metrics.NewDefault()
	client := sleeper.NewClient(sleeper.Config{
		BaseURL:        rt.SleeperBaseURL,
		Timeout:        rt.RequestTimeout,
		RateLimitRPS:   rt.RateLimitRPS,
		RateLimitBurst: rt.RateLimitBurst,
		Cache:          cache,
		CacheTTL:       rt.CacheTTL,
		Fetches:        m,
	})

	a := &app{
		runtime:  rt,
		rankings: rankings,
		metrics:  m,
		provider: sleeper.NewProvider(client),
		engine: engine.New(engine.Config{
			CPRWeights:      rankings.CPR.Weights,
			NIVWeights:      rankings.NIV.Weights,
			BenchMultiplier: rankings.CPR.BenchMultiplier,
			Mode:            rankings.EffectiveMode(),
		}),
	}

	if rt.DatabaseURL != "" {
		store, err := persistence.Open(rt.DatabaseURL, 5*time.Second)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(cmd.Context()); err != nil {
			store.Close()
			return nil, err
		}
		a.store = store
	}
	return a, nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
}

func (a *app) requireLeague() error {
	if a.runtime.LeagueID == "" {
		return fmt.Errorf("no league configured: set LEAGUE_ID or pass --league")
	}
	return nil
}
