package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/osse101/npcbot/internal/bootstrap"
	"github.com/osse101/npcbot/internal/config"
	"github.com/osse101/npcbot/internal/database"
)

const usage = "usage: migrate <up|down|status>"

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err := run(context.Background(), os.Args[1]); err != nil {
		slog.Error("Migration failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, subcmd string) error {
	cfg, err := config.LoadFor(config.BinaryMigrate)
	if err != nil {
		return err
	}
	bootstrap.SetupLogger(cfg, config.BinaryMigrate)

	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), database.DefaultPoolConfig())
	if err != nil {
		return err
	}
	defer pool.Close()

	m, err := database.NewMigrator(pool)
	if err != nil {
		return err
	}
	defer m.Close()

	switch subcmd {
	case "up":
		return m.Up(ctx)
	case "down":
		return m.Down(ctx)
	case "status":
		states, err := m.Status(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "VERSION\tAPPLIED\tFILE")
		for _, s := range states {
			fmt.Fprintf(w, "%d\t%t\t%s\n", s.Version, s.Applied, s.Path)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown command %q, %s", subcmd, usage)
	}
}
