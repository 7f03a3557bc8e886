// Package cli provides shared command-line helpers: signal-cancelled
// contexts and progress reporting for long-running exports.
package cli
