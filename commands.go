// Command definitions for the admin CLI.
package main

import "github.com/urfave/cli/v3"

func artistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "artists",
		Usage: "Manage catalog artists",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List artists",
				Action: r.ArtistsList,
			},
			{
				Name:  "add",
				Usage: "Add an artist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Artist name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "genre",
						Usage: "Primary genre",
					},
					&cli.StringFlag{
						Name:  "bio",
						Usage: "Short biography",
					},
				},
				Action: r.ArtistsAdd,
			},
			{
				Name:      "rm",
				Usage:     "Delete an artist (their tracks stay, reassigned to Unknown Artist)",
				ArgsUsage: "<artist-id>",
				Action:    r.ArtistsRemove,
			},
		},
	}
}

func tracksCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "tracks",
		Usage: "Manage catalog tracks",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List tracks",
				Action: r.TracksList,
			},
			{
				Name:  "add",
				Usage: "Add a track",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Track title",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "artist",
						Usage: "Artist id (e.g. A001)",
					},
					&cli.StringFlag{
						Name:  "genre",
						Usage: "Genre",
					},
					&cli.StringFlag{
						Name:  "audio",
						Usage: "Audio URL",
					},
					&cli.StringFlag{
						Name:  "release",
						Usage: "Release date (YYYY-MM-DD)",
					},
					&cli.StringFlag{
						Name:  "status",
						Usage: "published, draft or archived",
						Value: "published",
					},
				},
				Action: r.TracksAdd,
			},
			{
				Name:      "rm",
				Usage:     "Delete a track",
				ArgsUsage: "<track-id>",
				Action:    r.TracksRemove,
			},
		},
	}
}

func paymentsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "payments",
		Usage: "Membership payment ledger",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List processed payments",
				Action: r.PaymentsList,
			},
			{
				Name:  "charge",
				Usage: "Process a membership payment",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "member",
						Usage:    "Member full name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "email",
						Usage: "Member email",
					},
					&cli.StringFlag{
						Name:  "phone",
						Usage: "Member phone number",
					},
					&cli.StringFlag{
						Name:  "plan",
						Usage: "weekly, monthly or yearly",
						Value: "monthly",
					},
					&cli.StringFlag{
						Name:  "method",
						Usage: "mtn, airtel, bank or card",
						Value: "card",
					},
					&cli.StringFlag{
						Name:  "txn",
						Usage: "Gateway transaction id (mobile and bank payments)",
					},
				},
				Action: r.PaymentsCharge,
			},
			{
				Name:   "revenue",
				Usage:  "Total completed revenue",
				Action: r.PaymentsRevenue,
			},
		},
	}
}

func seedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "seed",
		Usage:  "Install the demo catalog into an empty store",
		Action: r.Seed,
	}
}
