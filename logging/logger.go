// Package logging provides the dispatcher's Logger: a logrus singleton in
// ncobase/ncore's StdLogger style (logging/logger/logger.go), trimmed of
// its meilisearch/opensearch/elasticsearch log-sink hooks (this module
// already uses the elasticsearch client as a *lookup backend*, not as a
// place to ship logs), plus a TaintPanic level that additionally mirrors
// to Sentry via getsentry/sentry-go when configured — spec.md §7 calls
// tainted-filename rejection a "panic level" event without prescribing
// where it goes; ncobase/ncore's own logging/observes/sentry.go is the
// precedent for "where do severe events go" (it initializes exactly
// this client).
package logging

import (
	"fmt"
	"os"
	"sync"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"

	"github.com/ncobase/lookup/config"
)

// Logger satisfies core.Logger (and metrics/driver logging needs beyond
// it) over a *logrus.Logger.
type Logger struct {
	*logrus.Logger
	sentryEnabled bool
}

var (
	std  *Logger
	once sync.Once
)

// Std returns the process-wide Logger, constructing it with sane defaults
// on first use.
func Std() *Logger {
	once.Do(func() {
		l := logrus.New()
		l.SetFormatter(&logrus.JSONFormatter{})
		std = &Logger{Logger: l}
	})
	return std
}

// Init applies cfg to the standard logger: level, format, output stream,
// and Sentry mirroring for TaintPanic events.
func Init(cfg config.Logger) error {
	l := Std()

	if level, err := logrus.ParseLevel(cfg.Level); err == nil {
		l.SetLevel(level)
	}

	switch cfg.Format {
	case "text":
		l.SetFormatter(&logrus.TextFormatter{})
	default:
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	switch cfg.Output {
	case "stderr":
		l.SetOutput(os.Stderr)
	default:
		l.SetOutput(os.Stdout)
	}

	if cfg.Sentry != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry}); err != nil {
			return err
		}
		l.sentryEnabled = true
	}

	return nil
}

// Warnf implements core.Logger.
func (l *Logger) Warnf(format string, args ...any) {
	l.Logger.Warnf(format, args...)
}

// TaintPanic implements core.Logger: it logs at Error level (logrus has no
// dedicated "tainted filename" level, and calling logrus.Panic would
// unwind the dispatcher's own goroutine, which spec.md §7 does not ask
// for — rejection must return an error to the caller, not crash the
// process) and mirrors the event to Sentry when configured.
func (l *Logger) TaintPanic(format string, args ...any) {
	l.Logger.Errorf(format, args...)
	if l.sentryEnabled {
		sentry.CaptureMessage(sentryf(format, args...))
	}
}

func sentryf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
