package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/kindredapp/kindred/pkg/model"
	"github.com/kindredapp/kindred/pkg/usecase/chat"
)

func chatCommand() *cli.Command {
	var (
		cfg      config
		circleID model.CareCircleID
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "circle-id",
			Aliases:     []string{"c"},
			Usage:       "Care circle ID",
			Sources:     cli.EnvVars("KINDRED_CIRCLE_ID"),
			Destination: (*string)(&circleID),
			Required:    true,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, geminiFlags(&cfg)...)

	return &cli.Command{
		Name:  "chat",
		Usage: "Interactive chat with the care assistant",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg.configureLogging()

			gemini, err := cfg.newGemini(ctx)
			if err != nil {
				return err
			}

			uc := chat.New(gemini)

			rl, err := readline.New("> ")
			if err != nil {
				return goerr.Wrap(err, "failed to open terminal")
			}
			defer rl.Close()

			fmt.Fprintf(c.Root().Writer, "Chat session started. Type 'exit' to quit.\n")

			var history []chat.Message
			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return goerr.Wrap(err, "failed to read input")
				}
				if line == "exit" {
					break
				}
				if line == "" {
					continue
				}

				history = append(history, chat.Message{Role: "user", Content: line})

				sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond,
					spinner.WithSuffix(" thinking..."))
				sp.Start()
				content, err := uc.Send(ctx, circleID, history)
				sp.Stop()
				if err != nil {
					return goerr.Wrap(err, "failed to send message")
				}

				history = append(history, chat.Message{Role: "assistant", Content: content})
				fmt.Fprintf(c.Root().Writer, "%s\n", content)
			}

			fmt.Fprintf(c.Root().Writer, "\nChat session completed\n")
			return nil
		},
	}
}
