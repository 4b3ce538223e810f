// Package cli constructs the prpublish command-line interface, wiring the
// Cobra command hierarchy, the layered configuration loader, and structured
// logging around the publish command.
package cli
