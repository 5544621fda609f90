package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/elee1766/taskchat/src/app"
	"github.com/elee1766/taskchat/src/apperr"
	"github.com/elee1766/taskchat/src/executor"
	"github.com/elee1766/taskchat/src/theme"
)

// ChatCmd sends one message, or starts an interactive session when no text
// is given.
type ChatCmd struct {
	Text         []string `arg:"" optional:"" help:"Message to send; omit for an interactive session"`
	Conversation string   `short:"C" help:"Continue this conversation"`
	Raw          bool     `help:"Print only the reply, without tool activity or styling"`
	JSON         bool     `name:"json" help:"Print the turn result as JSON"`
	ShowArgs     bool     `help:"Show tool call arguments"`
	ShowResults  bool     `help:"Show tool call results"`
}

func (c *ChatCmd) Run(kctx *kong.Context, cli *CLI) error {
	cfg, logger, err := cli.setup()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := app.New(ctx, cfg, app.Options{Logger: logger})
	if err != nil {
		return err
	}
	defer a.Close()

	session := &chatSession{
		exec:         a.Executor,
		userID:       cli.User,
		conversation: c.Conversation,
		out:          os.Stdout,
		logger:       logger,
		console: executor.ConsoleProcessorConfig{
			Styles:            theme.NewStyles(),
			ShowToolArguments: c.ShowArgs,
			ShowToolResults:   c.ShowResults,
			RawMode:           c.Raw,
		},
		json: c.JSON,
	}

	if len(c.Text) > 0 {
		return session.send(ctx, strings.Join(c.Text, " "))
	}
	return session.interactive(ctx, os.Stdin)
}

type sender interface {
	Send(ctx context.Context, req *executor.SendRequest) (*executor.SendResult, error)
}

// chatSession tracks the conversation across turns of one CLI invocation.
type chatSession struct {
	exec         sender
	userID       string
	conversation string
	out          io.Writer
	logger       *slog.Logger
	console      executor.ConsoleProcessorConfig
	json         bool
}

func (s *chatSession) send(ctx context.Context, text string) error {
	var sink executor.EventSink
	if !s.json {
		cfg := s.console
		cfg.Output = s.out
		sink = executor.NewChannelEventSink(16, s.logger, executor.NewConsoleEventProcessor(cfg))
	}

	res, err := s.exec.Send(ctx, &executor.SendRequest{
		UserID:         s.userID,
		Message:        text,
		ConversationID: s.conversation,
		EventSink:      sink,
	})
	if sink != nil {
		// flush rendered events before anything else is printed
		sink.Close()
	}
	if err != nil {
		return err
	}
	s.conversation = res.ConversationID

	if s.json {
		return writeJSON(s.out, res)
	}
	return nil
}

func (s *chatSession) interactive(ctx context.Context, in io.Reader) error {
	styles := s.console.Styles
	fmt.Fprintln(s.out, styles.Header.Render("taskchat"))
	fmt.Fprintln(s.out, styles.Muted.Render("/new starts a new conversation, /exit quits"))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, styles.User.Render("> "))
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/new":
			s.conversation = ""
			fmt.Fprintln(s.out, styles.Muted.Render("started a new conversation"))
			continue
		}

		if err := s.send(ctx, line); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// a failed turn leaves the session usable
			fmt.Fprintln(s.out, styles.Error.Render(userMessage(err)))
			if apperr.KindOf(err) == apperr.KindNotFound {
				s.conversation = ""
			}
		}
	}
}
