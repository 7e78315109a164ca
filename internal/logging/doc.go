// Package logging builds the slog loggers used across presenvid.
//
// Two handler formats are supported: a human-oriented console handler that
// colorizes level tags when writing to a terminal, and a line-delimited JSON
// handler for log files and machine consumption. NewFromConfig wires both
// stdout and a rotating-free log file under the configured log directory.
//
// The attr helpers (String, Int64, Error, ...) keep call sites terse and are
// the only way the rest of the codebase constructs attributes.
package logging
