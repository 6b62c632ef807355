package view

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/phrazzld/taskwatch/internal/domain"
	"github.com/phrazzld/taskwatch/internal/events"
)

// TextRenderer writes one line per task event. Statuses are colored when
// the writer is a terminal.
type TextRenderer struct {
	mu     sync.Mutex
	out    io.Writer
	styles map[domain.TaskStatus]lipgloss.Style
	dim    lipgloss.Style
	warn   lipgloss.Style
}

// NewTextRenderer creates a TextRenderer writing to out.
func NewTextRenderer(out io.Writer) *TextRenderer {
	r := lipgloss.NewRenderer(out)
	return &TextRenderer{
		out: out,
		styles: map[domain.TaskStatus]lipgloss.Style{
			domain.TaskStatusPending:   r.NewStyle().Foreground(lipgloss.Color("244")),
			domain.TaskStatusRunning:   r.NewStyle().Foreground(lipgloss.Color("33")),
			domain.TaskStatusSuccess:   r.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
			domain.TaskStatusFailure:   r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			domain.TaskStatusCancelled: r.NewStyle().Foreground(lipgloss.Color("214")),
		},
		dim:  r.NewStyle().Faint(true),
		warn: r.NewStyle().Foreground(lipgloss.Color("208")),
	}
}

func (t *TextRenderer) OnTaskCreated(taskID string) {
	t.printf("Task %s: %s\n", taskID, t.status(domain.TaskStatusPending))
}

func (t *TextRenderer) OnStatusChanged(taskID string, status domain.TaskStatus) {
	t.printf("Task %s: %s\n", taskID, t.status(status))
}

func (t *TextRenderer) OnOutcomeReady(taskID string, outcome domain.Outcome) {
	switch {
	case outcome.Result != "":
		t.printf("Task %s result: %s\n", taskID, outcome.Result)
	case outcome.Error != "":
		t.printf("Task %s error: %s\n", taskID, outcome.Error)
	default:
		t.printf("Task %s %s\n", taskID, t.dim.Render("finished without output"))
	}
}

func (t *TextRenderer) OnTaskRemoved(taskID string) {
	t.printf("Task %s %s\n", taskID, t.dim.Render("removed"))
}

func (t *TextRenderer) OnPollFailed(taskID string, reason string) {
	t.printf("Task %s: %s %s\n", taskID, t.warn.Render("status check failed:"), reason)
}

func (t *TextRenderer) OnPollRecovered(taskID string) {
	t.printf("Task %s %s\n", taskID, t.dim.Render("status check recovered"))
}

func (t *TextRenderer) status(status domain.TaskStatus) string {
	style, ok := t.styles[status]
	if !ok {
		return string(status)
	}
	return style.Render(string(status))
}

func (t *TextRenderer) printf(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = fmt.Fprintf(t.out, format, args...)
}

var _ events.View = (*TextRenderer)(nil)
