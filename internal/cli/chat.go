package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/at-ishikawa/sonnik/internal/conversation"
)

//go:generate mockgen -source=chat.go -destination=../mocks/cli/mock_session.go -package=mock_cli

var errEnd = errors.New("end")

type MessageHandler interface {
	Handle(ctx context.Context, msg conversation.Message) (string, error)
}

type Session interface {
	Session(ctx context.Context) error
}

// ChatCLI is a terminal conversation with the dream bot.
type ChatCLI struct {
	handler        MessageHandler
	conversationID string
	requesterID    int64
	firstName      string
	stdinReader    *bufio.Reader
	stdoutWriter   io.Writer
	bold           *color.Color
	italic         *color.Color
}

func NewChatCLI(handler MessageHandler, requesterID int64, firstName string) *ChatCLI {
	return &ChatCLI{
		handler:        handler,
		conversationID: "cli-" + uuid.NewString(),
		requesterID:    requesterID,
		firstName:      firstName,
		stdinReader:    bufio.NewReader(os.Stdin),
		stdoutWriter:   os.Stdout,
		bold:           color.New(color.Bold),
		italic:         color.New(color.Italic),
	}
}

// Greet sends /start so the user sees the command list.
func (cli *ChatCLI) Greet(ctx context.Context) error {
	return cli.send(ctx, "/start")
}

// Session reads one line and prints the reply. It returns errEnd on EOF or /quit.
func (cli *ChatCLI) Session(ctx context.Context) error {
	_, _ = cli.bold.Fprint(cli.stdoutWriter, "> ")
	line, err := cli.stdinReader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("stdinReader.ReadString() > %w", err)
	}
	eof := errors.Is(err, io.EOF)

	text := strings.TrimSpace(line)
	switch {
	case text == "/quit" || text == "/exit":
		return errEnd
	case text == "":
		if eof {
			_, _ = fmt.Fprintln(cli.stdoutWriter)
			return errEnd
		}
		return nil
	}

	if err := cli.send(ctx, text); err != nil {
		return err
	}
	if eof {
		return errEnd
	}
	return nil
}

func (cli *ChatCLI) send(ctx context.Context, text string) error {
	reply, err := cli.handler.Handle(ctx, conversation.Message{
		ConversationID: cli.conversationID,
		RequesterID:    cli.requesterID,
		FirstName:      cli.firstName,
		Text:           text,
	})
	if err != nil {
		return fmt.Errorf("handler.Handle() > %w", err)
	}
	_, _ = fmt.Fprintf(cli.stdoutWriter, "%s\n\n", cli.italic.Sprint(reply))
	return nil
}

// Run repeats session until it ends, fails or the process is interrupted.
func Run(ctx context.Context, out io.Writer, session Session) error {
	ctx, cancel := signal.NotifyContext(
		ctx,
		os.Interrupt,
	)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)

		for ctx.Err() == nil {
			if err := session.Session(ctx); err != nil {
				if !errors.Is(err, errEnd) {
					errCh <- err
				}
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
		_, _ = fmt.Fprintln(out, "Received interrupt signal, exiting...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("session.Session() > %w", err)
		}
	}
	return nil
}
