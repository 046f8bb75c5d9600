package xsdimport

import (
	"fmt"
	"log/slog"
)

// Options controls how a schema description is turned into a registry.
type Options struct {
	// Root names the top-level element to use as the registry root. Empty
	// selects the first top-level element in the document.
	Root string
	// Logger receives debug diagnostics. Nil uses slog.Default().
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Diag carries non-fatal warnings produced during import.
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

type simpleDiag struct{ ws []string }

func (d *simpleDiag) HasWarnings() bool        { return len(d.ws) > 0 }
func (d *simpleDiag) Warnings() []string       { return append([]string(nil), d.ws...) }
func (d *simpleDiag) warnf(f string, a ...any) { d.ws = append(d.ws, fmt.Sprintf(f, a...)) }
