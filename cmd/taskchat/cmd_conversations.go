package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/samber/lo"

	"github.com/elee1766/taskchat/src/app"
	"github.com/elee1766/taskchat/src/chat"
	"github.com/elee1766/taskchat/src/storage"
	"github.com/elee1766/taskchat/src/theme"
)

// ConversationsCmd groups the conversation inspection commands
type ConversationsCmd struct {
	List   ConversationsListCmd   `cmd:"" default:"1" help:"List conversations"`
	Show   ConversationsShowCmd   `cmd:"" help:"Show a conversation transcript"`
	Delete ConversationsDeleteCmd `cmd:"" aliases:"rm" help:"Delete a conversation"`
}

// openStore opens storage for commands that never call the model.
func openStore(cli *CLI) (*storage.DB, *chat.Service, error) {
	cfg, logger, err := cli.setup()
	if err != nil {
		return nil, nil, err
	}
	store, err := app.OpenStore(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, nil, err
	}
	return store, chat.NewService(chat.Config{Store: store, Logger: logger}), nil
}

// ConversationsListCmd lists the user's conversations
type ConversationsListCmd struct {
	Limit  int  `short:"n" default:"20" help:"Maximum number of conversations"`
	Offset int  `help:"Skip this many conversations"`
	JSON   bool `name:"json" help:"Print JSON"`
}

func (c *ConversationsListCmd) Run(kctx *kong.Context, cli *CLI) error {
	store, svc, err := openStore(cli)
	if err != nil {
		return err
	}
	defer store.Close()

	convs, err := svc.ListConversations(context.Background(), cli.User, c.Limit, c.Offset)
	if err != nil {
		return err
	}
	return printConversations(os.Stdout, convs, c.JSON)
}

func printConversations(w io.Writer, convs []chat.ConversationView, asJSON bool) error {
	if asJSON {
		return writeJSON(w, convs)
	}
	rows := lo.Map(convs, func(c chat.ConversationView, _ int) []string {
		return []string{c.ID, cell(c.Title), strconv.Itoa(c.MessageCount), c.UpdatedAt}
	})
	return renderTable(w, []string{"ID", "TITLE", "MESSAGES", "UPDATED"}, rows)
}

// ConversationsShowCmd prints a transcript
type ConversationsShowCmd struct {
	ID   string `arg:"" help:"Conversation id"`
	JSON bool   `name:"json" help:"Print JSON"`
}

func (c *ConversationsShowCmd) Run(kctx *kong.Context, cli *CLI) error {
	store, svc, err := openStore(cli)
	if err != nil {
		return err
	}
	defer store.Close()

	transcript, err := svc.GetConversation(context.Background(), cli.User, c.ID)
	if err != nil {
		return err
	}
	if c.JSON {
		return writeJSON(os.Stdout, transcript)
	}
	printTranscript(os.Stdout, transcript, theme.NewStyles())
	return nil
}

func printTranscript(w io.Writer, t *chat.Transcript, styles theme.Styles) {
	fmt.Fprintln(w, styles.Title.Render(t.Conversation.Title))
	fmt.Fprintln(w, styles.Muted.Render(fmt.Sprintf("%s · %d messages · updated %s",
		t.Conversation.ID, t.Conversation.MessageCount, t.Conversation.UpdatedAt)))
	fmt.Fprintln(w)

	for _, m := range t.Messages {
		switch {
		case m.Role == string(storage.RoleUser):
			fmt.Fprintln(w, styles.User.Render("you: ")+m.Content)
		case m.Role == string(storage.RoleTool):
			fmt.Fprintln(w, styles.Tool.Render("  "+m.ToolName+" → ")+styles.Muted.Render(cell(m.Content)))
		case len(m.ToolCalls) > 0:
			if m.Content != "" {
				fmt.Fprintln(w, styles.Muted.Render("assistant: "+m.Content))
			}
			for _, name := range m.ToolCalls {
				fmt.Fprintln(w, styles.Tool.Render("  calls "+name))
			}
		default:
			fmt.Fprintln(w, styles.Assistant.Render("assistant: "+m.Content))
		}
	}
}

// ConversationsDeleteCmd deletes a conversation and its messages
type ConversationsDeleteCmd struct {
	ID string `arg:"" help:"Conversation id"`
}

func (c *ConversationsDeleteCmd) Run(kctx *kong.Context, cli *CLI) error {
	store, svc, err := openStore(cli)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := svc.DeleteConversation(context.Background(), cli.User, c.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted conversation %s\n", c.ID)
	return nil
}
