package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/keepsakehq/keepsake/internal/config"
	"github.com/keepsakehq/keepsake/internal/detect"
	"github.com/keepsakehq/keepsake/internal/errors"
	"github.com/keepsakehq/keepsake/internal/gallery"
	"github.com/keepsakehq/keepsake/internal/ingest"
	"github.com/keepsakehq/keepsake/internal/photo"
	"github.com/keepsakehq/keepsake/internal/vault"
	"github.com/keepsakehq/keepsake/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "keepsake",
		Usage:   "Personal photo gallery with a PIN-locked vault",
		Version: Version,
		Commands: []*cli.Command{
			addCmd(db),
			listCmd(db, cfg),
			timelineCmd(db),
			showCmd(db),
			searchCmd(db),
			privacyCmd(db),
			filtersCmd(db),
			deleteCmd(db),
			peopleCmd(db),
			vaultCmd(db, cfg),
			serveCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// newKeypad builds the shared vault keypad over the settings store.
func newKeypad(ctx context.Context, db *sql.DB, cfg *config.Config) (*vault.Keypad, error) {
	bio := &vault.Simulated{
		Delay:       time.Duration(cfg.BiometricDelayMS) * time.Millisecond,
		SuccessRate: cfg.BiometricSuccessRate,
	}
	return vault.NewKeypad(ctx, &vault.SettingsStore{DB: db}, bio)
}

// newDetector builds the face detection collaborator.
func newDetector(db *sql.DB) detect.Service {
	return &detect.Simulated{DB: db}
}

// addCmd creates the add command.
func addCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a photo from a local image file",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Photo title (defaults to the file name)"},
			&cli.StringFlag{Name: "caption", Usage: "Markdown caption"},
			&cli.Int64Flag{Name: "taken-at", Usage: "Capture time in Unix milliseconds (defaults to now)"},
			&cli.StringFlag{Name: "people", Usage: "Comma-separated person IDs"},
			&cli.BoolFlag{Name: "detect", Usage: "Run simulated face detection instead of --people"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("image file path is required"))
			}
			path := c.Args().First()

			encoded, err := ingest.FromFile(path)
			if err != nil {
				return outputError(err)
			}

			title := c.String("title")
			if title == "" {
				title = filepath.Base(path)
			}

			input := gallery.AddInput{
				URL:     encoded.URI,
				Title:   &title,
				TakenAt: c.Int64("taken-at"),
			}
			if caption := c.String("caption"); caption != "" {
				input.Caption = &caption
			}

			if c.Bool("detect") {
				detected, err := newDetector(db).Detect(c.Context, encoded.URI)
				if err != nil {
					return outputError(err)
				}
				input.PersonIDs = detected
			} else if people := c.String("people"); people != "" {
				input.PersonIDs = splitList(people)
			}

			output, err := gallery.Add(c.Context, db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	defaultLimit := 50
	if cfg != nil && cfg.PageSize > 0 {
		defaultLimit = cfg.PageSize
	}
	return &cli.Command{
		Name:  "list",
		Usage: "List photo summaries in one partition",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "public", Usage: "Partition: public|vault"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: defaultLimit, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := gallery.List(c.Context, db, gallery.ListInput{
				Mode:   c.String("mode"),
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// timelineCmd creates the timeline command.
func timelineCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "timeline",
		Usage: "Show the day-grouped timeline, most recent first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "public", Usage: "Partition: public|vault"},
			&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Title search text"},
			&cli.StringFlag{Name: "person", Aliases: []string{"p"}, Usage: "Only photos featuring this person ID"},
		},
		Action: func(c *cli.Context) error {
			output, err := gallery.Timeline(c.Context, db, gallery.TimelineInput{
				Mode:     c.String("mode"),
				Query:    c.String("query"),
				PersonID: c.String("person"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// showCmd creates the show command.
func showCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a single photo with its filter descriptor",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("photo ID is required"))
			}

			output, err := gallery.Get(c.Context, db, gallery.GetInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// searchCmd creates the search command (timeline filtered by title text).
func searchCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search photo titles (case-insensitive contains)",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "public", Usage: "Partition: public|vault"},
			&cli.StringFlag{Name: "person", Aliases: []string{"p"}, Usage: "Only photos featuring this person ID"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("search query is required"))
			}

			output, err := gallery.Timeline(c.Context, db, gallery.TimelineInput{
				Mode:     c.String("mode"),
				Query:    strings.Join(c.Args().Slice(), " "),
				PersonID: c.String("person"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// privacyCmd creates the privacy command.
func privacyCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "privacy",
		Usage:     "Toggle a photo between the public gallery and the vault",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("photo ID is required"))
			}

			output, err := gallery.TogglePrivacy(c.Context, db, gallery.ToggleInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// filtersCmd creates the filters command with set/reset subcommands.
func filtersCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "filters",
		Usage: "Manage a photo's non-destructive filter adjustment",
		Subcommands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "Replace the adjustment wholesale (omitted channels reset to defaults)",
				ArgsUsage: "<id>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "brightness", Value: 100, Usage: "Brightness percent"},
					&cli.IntFlag{Name: "contrast", Value: 100, Usage: "Contrast percent"},
					&cli.IntFlag{Name: "saturation", Value: 100, Usage: "Saturation percent"},
					&cli.IntFlag{Name: "sepia", Value: 0, Usage: "Sepia percent"},
					&cli.IntFlag{Name: "grayscale", Value: 0, Usage: "Grayscale percent"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return outputError(errors.NewInvalidRequest("photo ID is required"))
					}

					filters := photoFilters(c)
					output, err := gallery.UpdateFilters(c.Context, db, gallery.UpdateFiltersInput{
						ID:      c.Args().First(),
						Filters: filters,
					})
					if err != nil {
						return outputError(err)
					}

					return outputJSON(output)
				},
			},
			{
				Name:      "reset",
				Usage:     "Clear the adjustment back to the original image",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return outputError(errors.NewInvalidRequest("photo ID is required"))
					}

					output, err := gallery.UpdateFilters(c.Context, db, gallery.UpdateFiltersInput{
						ID:      c.Args().First(),
						Filters: photo.Default(),
					})
					if err != nil {
						return outputError(err)
					}

					return outputJSON(output)
				},
			},
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Permanently delete a photo (no undo)",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("photo ID is required"))
			}

			output, err := gallery.Delete(c.Context, db, gallery.DeleteInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// peopleCmd creates the people command with add/list subcommands.
func peopleCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "people",
		Usage: "Manage the registered people",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Register a known person",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "face", Usage: "Face thumbnail reference"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return outputError(errors.NewInvalidRequest("person name is required"))
					}

					output, err := gallery.AddPerson(c.Context, db, gallery.AddPersonInput{
						Name:    strings.Join(c.Args().Slice(), " "),
						FaceURL: c.String("face"),
					})
					if err != nil {
						return outputError(err)
					}

					return outputJSON(output)
				},
			},
			{
				Name:  "list",
				Usage: "List people with per-partition photo counts",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "public", Usage: "Partition: public|vault"},
				},
				Action: func(c *cli.Context) error {
					output, err := gallery.People(c.Context, db, gallery.PeopleInput{Mode: c.String("mode")})
					if err != nil {
						return outputError(err)
					}

					return outputJSON(output)
				},
			},
		},
	}
}

// vaultCmd creates the vault command with setup/unlock/lock/status subcommands.
func vaultCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "vault",
		Usage: "Manage the vault PIN",
		Subcommands: []*cli.Command{
			{
				Name:      "setup",
				Usage:     "Configure the 4-digit vault PIN (create + confirm)",
				ArgsUsage: "<pin> <confirm>",
				Action: func(c *cli.Context) error {
					if c.NArg() < 2 {
						return outputError(errors.NewInvalidRequest("usage: vault setup <pin> <confirm>"))
					}

					keypad, err := newKeypad(c.Context, db, cfg)
					if err != nil {
						return outputError(err)
					}
					if keypad.Snapshot().State != vault.StateSetup {
						return outputError(errors.NewInvalidRequest("a vault PIN is already configured"))
					}

					snap, err := pressPin(c.Context, keypad, c.Args().Get(0))
					if err != nil {
						return outputError(err)
					}
					snap, err = pressPin(c.Context, keypad, c.Args().Get(1))
					if err != nil {
						return outputError(err)
					}
					if snap.Error != "" {
						return outputError(errors.NewPinMismatch())
					}

					return outputJSON(snap)
				},
			},
			{
				Name:  "unlock",
				Usage: "Verify a PIN against the stored one",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "pin", Required: true, Usage: "4-digit PIN"},
				},
				Action: func(c *cli.Context) error {
					keypad, err := newKeypad(c.Context, db, cfg)
					if err != nil {
						return outputError(err)
					}
					if keypad.Snapshot().State == vault.StateSetup {
						return outputError(errors.NewInvalidRequest("no vault PIN configured; run 'vault setup' first"))
					}

					snap, err := pressPin(c.Context, keypad, c.String("pin"))
					if err != nil {
						return outputError(err)
					}
					if snap.Error != "" {
						return outputError(errors.NewWrongPin())
					}

					return outputJSON(snap)
				},
			},
			{
				Name:  "lock",
				Usage: "Seal the vault",
				Action: func(c *cli.Context) error {
					keypad, err := newKeypad(c.Context, db, cfg)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(keypad.Lock())
				},
			},
			{
				Name:  "status",
				Usage: "Show the keypad state",
				Action: func(c *cli.Context) error {
					keypad, err := newKeypad(c.Context, db, cfg)
					if err != nil {
						return outputError(err)
					}
					return outputJSON(keypad.Snapshot())
				},
			},
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the gallery web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Value: 8418, Usage: "Port"},
		},
		Action: func(c *cli.Context) error {
			keypad, err := newKeypad(c.Context, db, cfg)
			if err != nil {
				return outputError(err)
			}

			srv := web.NewServer(db, cfg, keypad, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// Helper functions

// photoFilters reads the five channel flags into an adjustment.
func photoFilters(c *cli.Context) photo.FilterAdjustment {
	return photo.FilterAdjustment{
		Brightness: c.Int("brightness"),
		Contrast:   c.Int("contrast"),
		Saturation: c.Int("saturation"),
		Sepia:      c.Int("sepia"),
		Grayscale:  c.Int("grayscale"),
	}
}

// pressPin feeds a 4-digit PIN into the keypad one digit at a time.
func pressPin(ctx context.Context, keypad *vault.Keypad, pin string) (vault.Snapshot, error) {
	if len(pin) != vault.PinLength {
		return vault.Snapshot{}, errors.NewInvalidRequest("PIN must be exactly 4 digits")
	}

	var snap vault.Snapshot
	for _, r := range pin {
		if r < '0' || r > '9' {
			return vault.Snapshot{}, errors.NewInvalidRequest("PIN must contain only digits")
		}
		var err error
		snap, err = keypad.Press(ctx, int(r-'0'))
		if err != nil {
			return vault.Snapshot{}, err
		}
	}
	return snap, nil
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if kErr, ok := err.(*errors.KeepsakeError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", kErr.Code, kErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// splitList splits a comma-separated string into trimmed items.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		item := strings.TrimSpace(p)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

