// Package logging provides the log output of the module. Loggers implement
// dragonboats logger.ILogger and write lines of the form
//
//	2025/01/02 15:04:05 INFO  | fsstore         | created root directory /data
//
// Components obtain their logger once with logger.GetLogger(name); InitLoggers
// swaps in this package's factory and sets the level for all of them.
package logging
