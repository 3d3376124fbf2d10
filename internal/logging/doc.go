// Package logging assembles the structured slog loggers used by the Hauski
// host tools.
//
// Diagnostics always go to stderr (and optionally a file) so that stdout
// stays reserved for the human or JSON result of a command. The package owns
// the console and JSON handlers, the standard field names, and a no-op logger
// for tests and wiring code that cannot fail.
package logging
