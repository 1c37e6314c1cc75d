package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/kindredapp/kindred/pkg/model"
	"github.com/kindredapp/kindred/pkg/usecase/triage"
)

func analyzeCommand() *cli.Command {
	var (
		cfg         config
		readingID   model.ReadingID
		circleID    model.CareCircleID
		recipientID model.CareRecipientID
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "reading-id",
			Aliases:     []string{"r"},
			Usage:       "Reading ID to analyze",
			Destination: (*string)(&readingID),
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "circle-id",
			Aliases:     []string{"c"},
			Usage:       "Care circle ID",
			Sources:     cli.EnvVars("KINDRED_CIRCLE_ID"),
			Destination: (*string)(&circleID),
			Required:    true,
		},
		&cli.StringFlag{
			Name:        "recipient-id",
			Usage:       "Care recipient ID",
			Sources:     cli.EnvVars("KINDRED_RECIPIENT_ID"),
			Destination: (*string)(&recipientID),
			Required:    true,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, geminiFlags(&cfg)...)

	return &cli.Command{
		Name:  "analyze",
		Usage: "Run severity classification for a logged reading",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg.configureLogging()

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}
			defer repo.Close()

			gemini, err := cfg.newGemini(ctx)
			if err != nil {
				return err
			}

			uc := triage.New(repo, gemini)

			bundle, err := uc.AssembleContext(ctx, circleID, recipientID, readingID)
			if err != nil {
				return goerr.Wrap(err, "failed to assemble context")
			}

			sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
				spinner.WithSuffix(" classifying reading..."))
			sp.Start()
			alert, err := uc.ClassifyReading(ctx, bundle)
			sp.Stop()
			if err != nil {
				return goerr.Wrap(err, "classification failed")
			}

			w := c.Root().Writer
			fmt.Fprintf(w, "Severity: %s\n", alert.Severity)
			fmt.Fprintf(w, "Title:    %s\n", alert.Title)
			fmt.Fprintf(w, "Message:  %s\n", alert.Message)
			if len(alert.Correlations) > 0 {
				fmt.Fprintf(w, "Correlations: %s\n", strings.Join(alert.Correlations, "; "))
			}
			if alert.ActionNeeded != "" {
				fmt.Fprintf(w, "Action:   %s\n", alert.ActionNeeded)
			}
			if alert.Unsaved {
				fmt.Fprintf(w, "Warning: the alert could not be saved\n")
			}
			return nil
		},
	}
}
