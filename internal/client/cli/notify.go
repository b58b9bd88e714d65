package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/dmitrijs2005/userdir/internal/common"
)

// notifier prints one-line styled messages for command outcomes.
type notifier struct {
	mu sync.Mutex
	w  io.Writer

	success lipgloss.Style
	info    lipgloss.Style
	warn    lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
}

func newNotifier(w io.Writer) *notifier {
	r := lipgloss.NewRenderer(w)
	return &notifier{
		w:       w,
		success: r.NewStyle().Foreground(lipgloss.Color("#2e9f5b")).Bold(true),
		info:    r.NewStyle().Foreground(lipgloss.Color("#4a90d9")),
		warn:    r.NewStyle().Foreground(lipgloss.Color("#d9a441")).Bold(true),
		failure: r.NewStyle().Foreground(lipgloss.Color("#d16d7a")).Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#6c757d")),
	}
}

func (n *notifier) Success(format string, args ...any) { n.print(n.success, "✔ ", format, args...) }
func (n *notifier) Info(format string, args ...any)    { n.print(n.info, "", format, args...) }
func (n *notifier) Warn(format string, args ...any)    { n.print(n.warn, "! ", format, args...) }
func (n *notifier) Muted(format string, args ...any)   { n.print(n.muted, "", format, args...) }

// Error turns err into a message the operator can act on. A cancelled
// operation is not a failure and is reported as info.
func (n *notifier) Error(err error) {
	if err == nil {
		return
	}

	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		n.print(n.failure, "✘ ", "Invalid %s: %s", ve.Field, ve.Message)
	case errors.Is(err, common.ErrCancelled):
		n.Info("Cancelled")
	case errors.Is(err, common.ErrInvalidCredentials):
		n.print(n.failure, "✘ ", "Invalid email or password")
	case errors.Is(err, common.ErrNotFound):
		n.print(n.failure, "✘ ", "Not found: %v", err)
	case errors.Is(err, common.ErrUnavailable):
		n.print(n.warn, "! ", "Service unavailable: %v", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		n.print(n.warn, "! ", "Interrupted: %v", err)
	default:
		n.print(n.failure, "✘ ", "Error: %v", err)
	}
}

func (n *notifier) print(style lipgloss.Style, prefix, format string, args ...any) {
	msg := prefix + fmt.Sprintf(format, args...)
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintln(n.w, style.Render(msg))
}
