package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/pable/go-bgg-stats/internal/metrics"
	"github.com/pable/go-bgg-stats/internal/storage"
)

var (
	scheduleCron string
	scheduleNow  bool
)

// scheduleCmd keeps running and refreshes a user's plays and stats on a cron schedule.
var scheduleCmd = &cobra.Command{
	Use:   "schedule [user]",
	Short: "Periodically fetch plays and recompute stats",
	Long: `Runs 'fetch' followed by 'stats' on a cron schedule until interrupted.
The schedule, timezone and optional start date come from the config file
(schedule.cron, schedule.timezone, schedule.since); --cron overrides the
expression. Metrics are written to --metrics-file after every run.

Example:
  bggstats schedule alice --cron "0 6 * * *" --metrics-file /var/lib/node_exporter/bggstats.prom`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleCron, "cron", "", "standard 5-field cron expression (default from config)")
	scheduleCmd.Flags().BoolVar(&scheduleNow, "now", false, "also run once immediately")
}

func runSchedule(cmd *cobra.Command, args []string) error {
	user, err := userArg(args)
	if err != nil {
		return err
	}
	spec := cfg.Schedule.Cron
	if scheduleCron != "" {
		spec = scheduleCron
	}
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	loc := time.UTC
	if cfg.Schedule.Timezone != "" {
		if loc, err = time.LoadLocation(cfg.Schedule.Timezone); err != nil {
			return fmt.Errorf("load timezone: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	job := func() { refresh(ctx, db, user) }

	c := cron.New(cron.WithLocation(loc), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(spec, job); err != nil {
		return fmt.Errorf("schedule job: %w", err)
	}
	c.Start()
	logger.Info("scheduler started", "user", user, "cron", spec, "timezone", loc.String(), "next", sched.Next(time.Now().In(loc)))

	if scheduleNow {
		job()
	}

	<-ctx.Done()
	logger.Info("scheduler stopping")
	<-c.Stop().Done()
	return nil
}

// refresh runs one fetch + stats cycle. Failures are logged so the next tick
// still runs.
func refresh(ctx context.Context, db *storage.DB, user string) {
	log := logger.With("user", user)
	if err := doFetch(ctx, db, user, cfg.Schedule.Since, "", true); err != nil {
		log.Error("scheduled fetch failed", "err", err)
	} else if run, _, err := computeStats(db, user); err != nil {
		log.Error("scheduled stats failed", "err", err)
	} else if run != nil {
		log.Info("scheduled run done", "run", run.RunID, "players", run.Players, "malformed", run.Malformed)
	}
	if err := metrics.WriteTextfile(metricsFile); err != nil {
		log.Warn("write metrics textfile", "path", metricsFile, "err", err)
	}
}
