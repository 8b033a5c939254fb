// Package tui is the terminal UI of the session script.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/satriahrh/nova-ai/adapters/console"
	"github.com/satriahrh/nova-ai/domain"
	"github.com/satriahrh/nova-ai/usecase"
	"github.com/satriahrh/nova-ai/utils/log"
)

type UI struct {
	ctx       context.Context
	app       *tview.Application
	textView  *tview.TextView
	textArea  *tview.TextArea
	sessions  console.Sessions
	sessionID string
	conv      *usecase.Conversation
}

func New(ctx context.Context, sessions console.Sessions, sessionID string) *UI {
	u := &UI{
		ctx:       ctx,
		app:       tview.NewApplication(),
		sessions:  sessions,
		sessionID: sessionID,
	}
	u.app.EnablePaste(true)
	u.textView = initChatViewer()
	u.textArea = initChatInput()
	return u
}

func initChatViewer() *tview.TextView {
	textView := tview.NewTextView().
		SetDynamicColors(true).
		SetRegions(true).
		SetWordWrap(true)

	textView.SetTitle("Nova AI").SetBorder(true)
	textView.SetScrollable(true)
	return textView
}

func initChatInput() *tview.TextArea {
	textArea := tview.NewTextArea().SetPlaceholder("Ask anything (Enter to send, /help for commands)")
	textArea.SetTitle("Message").SetBorder(true)
	return textArea
}

// Run blocks until the user quits.
func (u *UI) Run() error {
	u.textView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEnter {
			u.app.SetFocus(u.textArea)
		}
		return event
	})

	u.textArea.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyESC:
			u.app.SetFocus(u.textView)
			return nil
		case tcell.KeyEnter:
			u.submit(u.textArea.GetText())
			return nil
		}
		return event
	})

	layout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(u.textView, 0, 1, false).
		AddItem(u.textArea, 5, 0, true)

	u.renderTranscript()
	return u.app.SetRoot(layout, true).SetFocus(u.textArea).Run()
}

// submit runs on the event loop. The model call runs off the loop with the
// input disabled, so turns never overlap.
func (u *UI) submit(content string) {
	text := strings.TrimSpace(content)
	if text == "" {
		return
	}
	u.textArea.SetText("", true)

	switch text {
	case "/bye", "/exit":
		u.app.Stop()
		return
	case "/help":
		u.listHelp()
		return
	case "/history":
		u.renderTranscript()
		return
	}

	if u.conv == nil {
		u.conv = u.sessions.Session(u.sessionID)
		log.With(zap.String(string(log.SessionIDKey), u.sessionID)).Info("Session created")
	}
	conv := u.conv

	u.writeTurn(domain.ChatMessage{Role: domain.UserRole, Content: text})
	u.textArea.SetDisabled(true)

	go func() {
		reply, err := conv.Send(u.ctx, text)
		u.app.QueueUpdateDraw(func() {
			if err != nil {
				fmt.Fprintf(u.textView, "[red::b]Error:[-:-:-] %s\n\n", tview.Escape(err.Error()))
			} else {
				u.writeTurn(reply)
			}
			u.textArea.SetDisabled(false)
			u.app.SetFocus(u.textArea)
		})
	}()
}

func (u *UI) renderTranscript() {
	u.textView.Clear()
	if u.conv == nil {
		return
	}
	for _, m := range u.conv.Transcript() {
		u.writeTurn(m)
	}
}

func (u *UI) writeTurn(m domain.ChatMessage) {
	if m.Role == domain.UserRole {
		fmt.Fprintln(u.textView, "[red::b]You:[-:-:-]")
	} else {
		fmt.Fprintln(u.textView, "[green::b]Nova:[-:-:-]")
	}
	fmt.Fprintf(u.textView, "%s\n\n", tview.Escape(m.Content))
	u.textView.ScrollToEnd()
}

func (u *UI) listHelp() {
	fmt.Fprintf(u.textView, "[yellow::]Commands:[-]\n")
	fmt.Fprintf(u.textView, "- /help: Display this help message\n")
	fmt.Fprintf(u.textView, "- /history: Redraw the whole conversation\n")
	fmt.Fprintf(u.textView, "- /bye, /exit: Exit the application\n\n")
}
