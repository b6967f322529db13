package notify

import (
	"fmt"
	"io"
	"log/slog"
)

// Empty type to represent the _type_ Notifier. Genesis is to support a key in a Context
type Key struct{}

// NotifierKey is a global instance of the Key type
var NotifierKey = Key{}

// Notifier reports operation outcomes to the user. Interactive views install
// their own implementation so messages land in the status line instead of
// the terminal scrollback.
type Notifier interface {
	// Handle reports a failed operation. The context string names what was
	// being attempted, e.g. "cargar clientes".
	Handle(err error, context string)
	// ShowSuccess reports a completed operation.
	ShowSuccess(msg string)
}

type writerNotifier struct {
	out    io.Writer
	logger *slog.Logger
}

// NewWriterNotifier builds a Notifier that prints messages to out and records
// them on the logger.
func NewWriterNotifier(out io.Writer, logger *slog.Logger) Notifier {
	return &writerNotifier{out: out, logger: logger}
}

func (n *writerNotifier) Handle(err error, context string) {
	if err == nil {
		return
	}
	if n.logger != nil {
		n.logger.Error("operation failed", "context", context, "error", err)
	}
	if n.out != nil {
		fmt.Fprintf(n.out, "Error al %s: %v\n", context, err)
	}
}

func (n *writerNotifier) ShowSuccess(msg string) {
	if n.logger != nil {
		n.logger.Info("operation succeeded", "message", msg)
	}
	if n.out != nil {
		fmt.Fprintln(n.out, msg)
	}
}

// FuncNotifier adapts a pair of callbacks into a Notifier. Interactive views
// use it to route messages into their status line.
type FuncNotifier struct {
	OnError   func(err error, context string)
	OnSuccess func(msg string)
}

func (n FuncNotifier) Handle(err error, context string) {
	if err == nil || n.OnError == nil {
		return
	}
	n.OnError(err, context)
}

func (n FuncNotifier) ShowSuccess(msg string) {
	if n.OnSuccess == nil {
		return
	}
	n.OnSuccess(msg)
}
