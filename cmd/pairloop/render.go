package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/germanamz/pairloop/pkg/agent"
	"github.com/germanamz/pairloop/pkg/chats/content"
	"github.com/germanamz/pairloop/pkg/chats/message"
	"github.com/germanamz/pairloop/pkg/chats/role"
	"github.com/germanamz/pairloop/pkg/engine"
	"github.com/germanamz/pairloop/pkg/modeladapter"
)

// printer streams conversation events to the terminal.
type printer struct {
	mu    sync.Mutex
	out   io.Writer
	width int
	md    *glamour.TermRenderer
}

func newPrinter(out io.Writer, width int) *printer {
	return &printer{out: out, width: width, md: newMarkdownRenderer(width - 4)}
}

func (p *printer) println(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, _ = fmt.Fprintln(p.out, s)
}

// header prints the backend and budget before the run starts.
func (p *printer) header(rc engine.RunConfig) {
	p.println(dimStyle.Render(fmt.Sprintf("%s · %s · max %d auto-replies",
		rc.Backend.Model, rc.Backend.BaseURL, rc.MaxAutoReplies)))
}

// event renders one engine event. Events from nested conversations are
// indented under a tree pipe.
func (p *printer) event(e engine.Event) {
	line := p.format(e)
	if line == "" {
		return
	}

	if e.Depth > 1 {
		line = indent(line, nestedStyle.Render(treePipe))
	}

	p.println(line)
}

func (p *printer) format(e engine.Event) string {
	ae, ok := e.Data.(agent.Event)
	if !ok {
		return ""
	}

	switch e.Kind {
	case engine.EventMessageAdded:
		return p.message(e.Agent, e.Depth, ae.Message)
	case engine.EventTurnRetry:
		return dimStyle.Render(fmt.Sprintf("retrying reasoner turn: %v", ae.Err))
	case engine.EventRunEnd:
		if e.Depth > 1 {
			return nestedStyle.Render(treeCorner + e.Agent + " " + strings.ToLower(ae.State.String()))
		}
	case engine.EventError:
		// Top-level failures are reported by main once Run returns.
		if e.Depth > 1 {
			return toolErrorStyle.Render(treeCorner + e.Agent + " failed: " + ae.Err.Error())
		}
	}

	return ""
}

func (p *printer) message(agentName string, depth int, m message.Message) string {
	var b strings.Builder

	switch m.Role {
	case role.Executor:
		for _, part := range m.Parts {
			switch v := part.(type) {
			case content.Text:
				writeLine(&b, executorPrefixStyle.Render(m.Sender+" > ")+v.Text)
			case content.ToolResult:
				writeLine(&b, p.toolResult(v))
			}
		}

	case role.Reasoner:
		if text := m.TextContent(); text != "" {
			prefix := reasonerPrefixStyle.Render(m.Sender + " > ")
			if depth > 1 {
				writeLine(&b, prefix+truncate(text, p.width-len(agentName)-8))
			} else {
				writeLine(&b, prefix+"\n"+answerBlockStyle.Render(p.markdown(text)))
			}
		}
		for _, tc := range m.ToolCalls() {
			writeLine(&b, "  → "+toolNameStyle.Render(tc.Name)+" "+dimStyle.Render(truncate(tc.Arguments, p.width-len(tc.Name)-7)))
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func (p *printer) toolResult(tr content.ToolResult) string {
	text := truncate(tr.Content, p.width-6)
	if tr.IsError {
		return "  ← " + toolErrorStyle.Render(text)
	}
	return "  ← " + toolResultStyle.Render(text)
}

func (p *printer) markdown(text string) string {
	if p.md == nil {
		return text
	}
	out, err := p.md.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

// summary prints the final state, the auto-reply count, token usage when the
// backend reports it, and the elapsed time.
func (p *printer) summary(res agent.Result, c modeladapter.Completer, elapsed time.Duration) {
	style := terminatedStyle
	if res.State == agent.StateExhausted {
		style = exhaustedStyle
	}

	parts := []string{
		fmt.Sprintf("%d auto-replies", res.AutoReplies),
		fmtDuration(elapsed),
	}

	if ur, ok := c.(modeladapter.UsageReporter); ok {
		if total := ur.UsageTracker().Total(); total.Total() > 0 {
			parts = append(parts, fmt.Sprintf("%s in / %s out tokens", fmtTokens(total.InputTokens), fmtTokens(total.OutputTokens)))
		}
	}

	p.println(style.Render(res.State.String()) + " " + dimStyle.Render(strings.Join(parts, " · ")))
}

// dropped notes events the transcript could not keep up with.
func (p *printer) dropped(n int64) {
	if n == 0 {
		return
	}
	p.println(exhaustedStyle.Render(fmt.Sprintf("%d transcript events were not shown (output fell behind)", n)))
}

// renderError formats err for stderr. Configuration errors get a hint.
func renderError(err error) string {
	msg := "error: " + err.Error()

	var cfgErr *engine.ConfigError
	if errors.As(err, &cfgErr) {
		msg += "\n" + dimStyle.Render("check config.yaml (or "+envConfigPath+") and your environment")
	}

	return errorBlockStyle.Render(msg)
}

func writeLine(b *strings.Builder, s string) {
	b.WriteString(s)
	b.WriteByte('\n')
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
