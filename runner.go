package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/tverdon/backline/internal/catalog"
	"github.com/tverdon/backline/internal/catalogview"
	"github.com/tverdon/backline/internal/config"
	"github.com/tverdon/backline/internal/errmsg"
	"github.com/tverdon/backline/internal/notify"
	"github.com/tverdon/backline/internal/payments"
)

// Runner holds the dependencies for CLI commands and provides a method per
// command action.
type Runner struct {
	config *config.Config
	logger *log.Logger
	output io.Writer
}

func NewRunner(cfg *config.Config, logger *log.Logger) *Runner {
	return &Runner{
		config: cfg,
		logger: logger,
		output: os.Stdout,
	}
}

func (r *Runner) register() []*cli.Command {
	return []*cli.Command{
		artistsCommand(r),
		tracksCommand(r),
		paymentsCommand(r),
		seedCommand(r),
	}
}

// withRepository opens the store and catalog for one admin command.
func (r *Runner) withRepository(fn func(*catalog.Repository) error) error {
	st, err := openStore(r.config)
	if err != nil {
		return fmt.Errorf("%s", errmsg.Format(errmsg.OpStoreOpen, err))
	}
	defer st.Close()

	return fn(catalog.NewRepository(st, notify.New()))
}

func (r *Runner) withProcessor(fn func(*payments.Processor) error) error {
	st, err := openStore(r.config)
	if err != nil {
		return fmt.Errorf("%s", errmsg.Format(errmsg.OpStoreOpen, err))
	}
	defer st.Close()

	pay := r.config.GetPaymentsConfig()
	proc := payments.NewProcessor(st,
		payments.WithFailureRate(pay.GetFailureRate()),
		payments.WithDelayBounds(
			time.Duration(pay.MinDelayMs)*time.Millisecond,
			time.Duration(pay.MaxDelayMs)*time.Millisecond))
	return fn(proc)
}

func (r *Runner) ArtistsList(ctx context.Context, cmd *cli.Command) error {
	return r.withRepository(func(repo *catalog.Repository) error {
		for _, a := range repo.Artists() {
			fmt.Fprintf(r.output, "%s  %-24s %-12s %2d tracks  %s streams\n",
				a.ID, a.Name, a.Genre, a.Tracks, catalogview.FormatCount(a.Streams))
		}
		return nil
	})
}

func (r *Runner) ArtistsAdd(ctx context.Context, cmd *cli.Command) error {
	return r.withRepository(func(repo *catalog.Repository) error {
		artist, err := repo.SaveArtist(catalog.Artist{
			Name:   cmd.String("name"),
			Genre:  cmd.String("genre"),
			Bio:    cmd.String("bio"),
			Status: catalog.ArtistActive,
		})
		if err != nil {
			return fmt.Errorf("%s", errmsg.FormatWith(errmsg.OpArtistSave, cmd.String("name"), err))
		}
		fmt.Fprintf(r.output, "created %s %s\n", artist.ID, artist.Name)
		return nil
	})
}

func (r *Runner) ArtistsRemove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("artist id required")
	}
	return r.withRepository(func(repo *catalog.Repository) error {
		if err := repo.DeleteArtist(id); err != nil {
			return fmt.Errorf("%s", errmsg.FormatWith(errmsg.OpArtistDelete, id, err))
		}
		fmt.Fprintf(r.output, "deleted %s\n", id)
		return nil
	})
}

func (r *Runner) TracksList(ctx context.Context, cmd *cli.Command) error {
	return r.withRepository(func(repo *catalog.Repository) error {
		for _, t := range repo.Tracks() {
			fmt.Fprintf(r.output, "%s  %-28s %-20s %-9s %s streams\n",
				t.ID, t.Title, t.DisplayArtist(), t.Status, catalogview.FormatCount(t.Streams))
		}
		return nil
	})
}

func (r *Runner) TracksAdd(ctx context.Context, cmd *cli.Command) error {
	return r.withRepository(func(repo *catalog.Repository) error {
		track, err := repo.SaveTrack(catalog.Track{
			Title:       cmd.String("title"),
			Artist:      catalog.ArtistRef(cmd.String("artist")),
			Genre:       cmd.String("genre"),
			AudioURL:    cmd.String("audio"),
			ReleaseDate: cmd.String("release"),
			Status:      catalog.TrackStatus(cmd.String("status")),
		})
		if err != nil {
			return fmt.Errorf("%s", errmsg.FormatWith(errmsg.OpTrackSave, cmd.String("title"), err))
		}
		fmt.Fprintf(r.output, "created %s %s\n", track.ID, track.Title)
		return nil
	})
}

func (r *Runner) TracksRemove(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("track id required")
	}
	return r.withRepository(func(repo *catalog.Repository) error {
		if err := repo.DeleteTrack(id); err != nil {
			return fmt.Errorf("%s", errmsg.FormatWith(errmsg.OpTrackDelete, id, err))
		}
		fmt.Fprintf(r.output, "deleted %s\n", id)
		return nil
	})
}

func (r *Runner) PaymentsList(ctx context.Context, cmd *cli.Command) error {
	return r.withProcessor(func(proc *payments.Processor) error {
		entries, err := proc.Payments()
		if err != nil {
			return fmt.Errorf("%s", errmsg.Format(errmsg.OpLedgerLoad, err))
		}
		for _, p := range entries {
			fmt.Fprintf(r.output, "%s  %-20s %-8s UGX %-10d %-6s %s\n",
				p.Reference, p.Member, p.Plan, p.Amount, p.Method, p.Status)
		}
		return nil
	})
}

func (r *Runner) PaymentsCharge(ctx context.Context, cmd *cli.Command) error {
	return r.withProcessor(func(proc *payments.Processor) error {
		pay, err := proc.Charge(ctx, payments.ChargeRequest{
			Member:        cmd.String("member"),
			Email:         cmd.String("email"),
			Phone:         cmd.String("phone"),
			PlanType:      cmd.String("plan"),
			Method:        payments.Method(cmd.String("method")),
			TransactionID: cmd.String("txn"),
		})
		if err != nil {
			return fmt.Errorf("%s", errmsg.FormatWith(errmsg.OpPaymentProcess, cmd.String("member"), err))
		}
		fmt.Fprintf(r.output, "%s  %s  UGX %d  %s\n", pay.Reference, pay.Plan, pay.Amount, pay.Status)
		return nil
	})
}

func (r *Runner) PaymentsRevenue(ctx context.Context, cmd *cli.Command) error {
	return r.withProcessor(func(proc *payments.Processor) error {
		total, err := proc.Revenue()
		if err != nil {
			return fmt.Errorf("%s", errmsg.Format(errmsg.OpLedgerLoad, err))
		}
		fmt.Fprintf(r.output, "UGX %d\n", total)
		return nil
	})
}

func (r *Runner) Seed(ctx context.Context, cmd *cli.Command) error {
	st, err := openStore(r.config)
	if err != nil {
		return fmt.Errorf("%s", errmsg.Format(errmsg.OpStoreOpen, err))
	}
	defer st.Close()

	repo := catalog.NewRepository(st, notify.New(), catalog.WithSeed())
	r.logger.Info("seeded demo catalog",
		"artists", len(repo.Artists()), "tracks", len(repo.Tracks()))
	return nil
}
