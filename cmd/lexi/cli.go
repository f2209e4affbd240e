package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/lexi/internal/config"
	"github.com/hpungsan/lexi/internal/errors"
	"github.com/hpungsan/lexi/internal/ops"
	"github.com/hpungsan/lexi/internal/vocab"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(engine *ops.Engine, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "lexi",
		Usage:   "Adaptive vocabulary scheduling engine",
		Version: Version,
		Commands: []*cli.Command{
			importCmd(engine),
			manifestCmd(cfg),
			startCmd(engine),
			respondCmd(engine),
			endCmd(engine),
			nextCmd(engine),
			wordsCmd(engine),
			analyticsCmd(engine),
			exportCmd(engine),
			resetCmd(engine),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// userFlag is shared by every command that operates on a learner.
func userFlag() *cli.StringFlag {
	return &cli.StringFlag{Name: "user", Aliases: []string{"u"}, Value: "default", Usage: "Learner id"}
}

// importCmd creates the import command.
func importCmd(engine *ops.Engine) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import a vocabulary CSV and initialize memory records",
		ArgsUsage: "<file.csv>",
		Flags: []cli.Flag{
			userFlag(),
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("a CSV file path is required"))
			}

			ds, err := vocab.LoadCSV(c.Args().First())
			if err != nil {
				return outputError(errors.NewInvalidRequest(err.Error()))
			}
			if err := ds.Validate(); err != nil {
				return outputError(errors.NewInvalidRequest(err.Error()))
			}
			for _, w := range ds.Warnings {
				fmt.Fprintf(os.Stderr, "warning: %s\n", w)
			}

			items := make([]ops.VocabularyItem, 0, len(ds.Pairs))
			for _, p := range ds.Pairs {
				items = append(items, ops.VocabularyItem{Concept: p.Concept, Definition: p.Definition})
			}

			output, err := engine.Initialize(c.Context, ops.InitializeInput{
				UserID:     c.String("user"),
				Vocabulary: items,
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// manifestCmd creates the manifest command.
func manifestCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "manifest",
		Usage: "Regenerate datasets.json from the CSV files in the data directory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "Data directory (default: configured data_dir)"},
		},
		Action: func(c *cli.Context) error {
			dir := c.String("dir")
			if dir == "" {
				dir = cfg.DataDir
			}

			m, err := vocab.WriteManifest(dir, time.Now())
			if err != nil {
				return outputError(errors.NewInternal(err))
			}

			return outputJSON(m)
		},
	}
}

// startCmd creates the start command.
func startCmd(engine *ops.Engine) *cli.Command {
	return &cli.Command{
		Name:  "start",
		Usage: "Start a study session",
		Flags: []cli.Flag{
			userFlag(),
			&cli.IntFlag{Name: "length", Aliases: []string{"l"}, Usage: "Words per session (default: configured target)"},
		},
		Action: func(c *cli.Context) error {
			output, err := engine.StartSession(c.Context, ops.StartSessionInput{
				UserID:        c.String("user"),
				SessionLength: c.Int("length"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// respondCmd creates the respond command.
func respondCmd(engine *ops.Engine) *cli.Command {
	return &cli.Command{
		Name:      "respond",
		Usage:     "Record a response for a word in the active session",
		ArgsUsage: "<word-id>",
		Flags: []cli.Flag{
			userFlag(),
			&cli.BoolFlag{Name: "correct", Usage: "The answer was correct"},
			&cli.Float64Flag{Name: "rt", Value: 5000, Usage: "Response time in milliseconds"},
			&cli.BoolFlag{Name: "hint", Usage: "A hint was used"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("a word id is required"))
			}

			output, err := engine.RecordResponse(c.Context, ops.RecordResponseInput{
				UserID:         c.String("user"),
				WordID:         c.Args().First(),
				IsCorrect:      c.Bool("correct"),
				ResponseTimeMS: c.Float64("rt"),
				UsedHint:       c.Bool("hint"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// endCmd creates the end command.
func endCmd(engine *ops.Engine) *cli.Command {
	return &cli.Command{
		Name:  "end",
		Usage: "End the active session and update learner ability",
		Flags: []cli.Flag{
			userFlag(),
		},
		Action: func(c *cli.Context) error {
			output, err := engine.EndSession(c.Context, ops.EndSessionInput{
				UserID: c.String("user"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// nextCmd creates the next command.
func nextCmd(engine *ops.Engine) *cli.Command {
	return &cli.Command{
		Name:  "next",
		Usage: "Show upcoming due words",
		Flags: []cli.Flag{
			userFlag(),
			&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 10, Usage: "Maximum words to show"},
		},
		Action: func(c *cli.Context) error {
			output, err := engine.NextWords(c.Context, ops.NextWordsInput{
				UserID: c.String("user"),
				Count:  c.Int("count"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// wordsCmd creates the words command.
func wordsCmd(engine *ops.Engine) *cli.Command {
	return &cli.Command{
		Name:  "words",
		Usage: "List all word states for a learner",
		Flags: []cli.Flag{
			userFlag(),
		},
		Action: func(c *cli.Context) error {
			output, err := engine.WordStates(c.Context, ops.WordStatesInput{
				UserID: c.String("user"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// analyticsCmd creates the analytics command.
func analyticsCmd(engine *ops.Engine) *cli.Command {
	return &cli.Command{
		Name:  "analytics",
		Usage: "Show learner statistics and recommendations",
		Flags: []cli.Flag{
			userFlag(),
		},
		Action: func(c *cli.Context) error {
			output, err := engine.Analytics(c.Context, ops.AnalyticsInput{
				UserID: c.String("user"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(engine *ops.Engine) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export a progress report",
		Flags: []cli.Flag{
			userFlag(),
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "json", Usage: "Output format: json|markdown|html"},
		},
		Action: func(c *cli.Context) error {
			output, err := engine.Export(c.Context, ops.ExportInput{
				UserID: c.String("user"),
				Format: ops.ExportFormat(c.String("format")),
			})
			if err != nil {
				return outputError(err)
			}

			// Report content goes to stdout raw so it can be piped to
			// a file.
			fmt.Println(output.Content)
			return nil
		},
	}
}

// resetCmd creates the reset command.
func resetCmd(engine *ops.Engine) *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "Delete all state for a learner",
		Flags: []cli.Flag{
			userFlag(),
			&cli.BoolFlag{Name: "yes", Usage: "Skip confirmation"},
		},
		Action: func(c *cli.Context) error {
			if !c.Bool("yes") {
				return outputError(errors.NewInvalidRequest("reset is destructive; pass --yes to confirm"))
			}

			output, err := engine.Reset(c.Context, ops.ResetInput{
				UserID: c.String("user"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if lexiErr, ok := err.(*errors.LexiError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", lexiErr.Code, lexiErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
