// Package log provides a leveled structured logger built on [log/slog].
//
// A [Logger] is configured with functional options when it is made:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithCaller(true))
//
// Loggers are immutable values. [Logger.With] and [Logger.Wrap] return new
// loggers that add attributes or change configuration, so one Logger may be
// handed to any number of goroutines.
//
// # Levels
//
// Besides the four slog levels, the package defines [LevelTrace] for the
// step-by-step records of expression evaluation and argument binding.
//
// # Formats
//
// [FormatText] writes key=value lines and [FormatJSON] writes one JSON object
// per record. With [WithPretty], text output is colored for terminals and
// JSON output is indented.
//
// # Default logger
//
// The package-level functions [Trace], [Debug], [Info], [Warn] and [Error]
// log through a default logger writing to standard error, reconfigured with
// [Config]. Functions and methods without a context argument use the context
// returned by [DefaultContextProvider].
package log
