// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor runs git and gh through a CommandRunner using argument lists
// rather than shell strings, logs each invocation through zap, and reports
// lifecycle events to an optional CommandEventObserver. OSCommandRunner is the
// os/exec backed runner used outside of tests.
package execshell
