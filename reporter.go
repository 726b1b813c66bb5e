package flagreg

import (
	"fmt"
	"os"
)

// Reporter receives usage diagnostics from the registry. Fatal reports
// describe configuration-identity conflicts; the registry terminates
// the process immediately after emitting them. Non-fatal reports are
// warnings (for example accessing a retired flag) and execution
// continues.
type Reporter interface {
	ReportUsage(message string, fatal bool)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(message string, fatal bool)

// ReportUsage implements Reporter.
func (f ReporterFunc) ReportUsage(message string, fatal bool) {
	if f != nil {
		f(message, fatal)
	}
}

type stderrReporter struct{}

func (stderrReporter) ReportUsage(message string, fatal bool) {
	prefix := "WARNING"
	if fatal {
		prefix = "ERROR"
	}
	fmt.Fprintf(os.Stderr, "%s: %s\n", prefix, message)
}

// WithReporter routes registry diagnostics to reporter. A nil reporter
// restores the stderr default.
func WithReporter(reporter Reporter) Option {
	return func(cfg *registryConfig) {
		if reporter == nil {
			cfg.reporter = stderrReporter{}
			return
		}
		cfg.reporter = reporter
	}
}

// WithExitFunc replaces the process-termination hook invoked after a
// fatal diagnostic. The default is os.Exit. Tests install a recording
// hook here; production code has no reason to.
func WithExitFunc(exit func(code int)) Option {
	return func(cfg *registryConfig) {
		if exit == nil {
			cfg.exit = os.Exit
			return
		}
		cfg.exit = exit
	}
}
