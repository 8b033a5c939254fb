// Package console is the line-oriented front-end of the session script.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/satriahrh/nova-ai/domain"
	"github.com/satriahrh/nova-ai/usecase"
	"github.com/satriahrh/nova-ai/utils/log"
)

const prompt = "> "

// Sessions hands out the conversation bound to a session ID, creating it on
// first use.
type Sessions interface {
	Session(id string) *usecase.Conversation
}

type Console struct {
	in        *bufio.Scanner
	out       io.Writer
	sessions  Sessions
	sessionID string
	conv      *usecase.Conversation
}

func New(in io.Reader, out io.Writer, sessions Sessions, sessionID string) *Console {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Console{
		in:        scanner,
		out:       out,
		sessions:  sessions,
		sessionID: sessionID,
	}
}

// Run reads one turn per line until EOF or an exit command. Each turn
// blocks until the model answers.
func (c *Console) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, "Nova AI. Type /help for commands.")
	c.renderTranscript()

	for {
		fmt.Fprint(c.out, prompt)
		if !c.in.Scan() {
			fmt.Fprintln(c.out)
			return c.in.Err()
		}

		text := strings.TrimRight(c.in.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}

		switch strings.TrimSpace(text) {
		case "/exit", "/bye":
			fmt.Fprintln(c.out, "Bye bye")
			return nil
		case "/help":
			c.listHelp()
			continue
		case "/history":
			c.renderTranscript()
			continue
		}

		c.turn(ctx, text)
	}
}

func (c *Console) conversation() *usecase.Conversation {
	if c.conv == nil {
		c.conv = c.sessions.Session(c.sessionID)
		log.With(zap.String(string(log.SessionIDKey), c.sessionID)).Info("Session created")
	}
	return c.conv
}

func (c *Console) turn(ctx context.Context, text string) {
	conv := c.conversation()
	c.renderTurn(domain.ChatMessage{Role: domain.UserRole, Content: text})

	reply, err := conv.Send(ctx, text)
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n\n", err)
		return
	}
	c.renderTurn(reply)
}

func (c *Console) renderTranscript() {
	if c.conv == nil {
		return
	}
	for _, m := range c.conv.Transcript() {
		c.renderTurn(m)
	}
}

func (c *Console) renderTurn(m domain.ChatMessage) {
	fmt.Fprintf(c.out, "%s: %s\n\n", label(m.Role), m.Content)
}

func (c *Console) listHelp() {
	fmt.Fprintln(c.out, "Commands:")
	fmt.Fprintln(c.out, "- /help: Display this help message")
	fmt.Fprintln(c.out, "- /history: Show the whole conversation")
	fmt.Fprintln(c.out, "- /bye, /exit: Exit the application")
	fmt.Fprintln(c.out)
}

func label(r domain.Role) string {
	if r == domain.UserRole {
		return "You"
	}
	return "Nova"
}
