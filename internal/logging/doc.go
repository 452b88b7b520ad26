// Package logging builds the slog loggers used by booksum.
//
// Two formats are supported: a compact console format meant for a
// terminal (optionally colorized when stderr is a TTY) and JSON lines.
// Components tag their loggers with a "component" attribute through
// NewComponentLogger; the console handler lifts it in front of the
// message.
package logging
