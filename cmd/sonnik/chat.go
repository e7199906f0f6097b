package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/sonnik/internal/cli"
)

func newChatCommand() *cobra.Command {
	var requesterID int64
	var name string

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the bot in the terminal",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			p, err := newPipeline(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() {
				err = errors.Join(err, p.Close())
			}()

			chat := cli.NewChatCLI(p.dispatcher, requesterID, name)
			if err := chat.Greet(cmd.Context()); err != nil {
				return fmt.Errorf("chat.Greet() > %w", err)
			}
			return cli.Run(cmd.Context(), cmd.OutOrStdout(), chat)
		},
	}
	cmd.Flags().Int64Var(&requesterID, "requester-id", 1, "Requester id stored with new interpretations")
	cmd.Flags().StringVar(&name, "name", "", "Name the bot greets you with")
	return cmd
}
