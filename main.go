package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/tverdon/backline/internal/catalog"
	"github.com/tverdon/backline/internal/config"
	"github.com/tverdon/backline/internal/errmsg"
	"github.com/tverdon/backline/internal/media"
	"github.com/tverdon/backline/internal/notify"
	"github.com/tverdon/backline/internal/playback"
	"github.com/tverdon/backline/internal/stderr"
	"github.com/tverdon/backline/internal/store"
	"github.com/tverdon/backline/internal/ui"
)

func main() {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(errmsg.Format(errmsg.OpInitialize, err))
	}

	runner := NewRunner(cfg, logger)

	app := &cli.Command{
		Name:     "backline",
		Usage:    "Recording studio catalog and player",
		Version:  "0.1.0",
		Commands: runner.register(),
		Action:   runner.Play,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

func newLogger() *log.Logger {
	opts := log.Options{ReportTimestamp: true}
	return log.NewWithOptions(os.Stderr, opts)
}

func openStore(cfg *config.Config) (*store.Store, error) {
	if cfg.DataDir != "" {
		return store.OpenAt(filepath.Join(cfg.DataDir, "backline.db"))
	}
	return store.Open()
}

// Play is the default action: open the catalog and run the TUI player.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	st, err := openStore(r.config)
	if err != nil {
		return err
	}
	defer st.Close()

	// Keep ALSA and decoder noise off the TUI; log it after exit.
	if err := stderr.Start(); err == nil {
		defer func() {
			stderr.Stop()
			for line := range stderr.Lines {
				r.logger.Debug("audio backend", "msg", line)
			}
		}()
	}

	bus := notify.New()
	repo := r.openRepository(st, bus)

	engine := playback.NewEngine(repo, media.NewSpeaker(), bus,
		playback.WithVolume(r.config.Volume))
	defer engine.Close()

	return ui.Run(repo, engine, bus)
}

func (r *Runner) openRepository(st *store.Store, bus *notify.Broadcaster) *catalog.Repository {
	var opts []catalog.Option
	if r.config.SeedEnabled() {
		opts = append(opts, catalog.WithSeed())
	}
	return catalog.NewRepository(st, bus, opts...)
}
