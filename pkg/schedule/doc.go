// Package schedule runs recurring exports on a cron expression.
//
// Each tick executes one export cycle with the current configuration. A
// tick is skipped when the previous cycle is still running, so cycles
// never overlap. A file watcher can reload the configuration between
// cycles, letting operators change batch size or index lists without
// restarting the process.
package schedule
