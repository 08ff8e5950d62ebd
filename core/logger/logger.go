package logger

// Logger is the logging contract the scheduling engine depends on. Solve
// lifecycle events carry structured fields (solve_id, status, objective) so
// downstream log pipelines can correlate them with metrics; everything else
// is formatted text.
type Logger interface {
	Debugf(format string, args ...any)
	// Debugw logs a debug message with structured fields.
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	// Infow logs an info message with structured fields. The engine uses it
	// for per-solve summaries keyed by solve_id.
	Infow(msg string, fields map[string]any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
