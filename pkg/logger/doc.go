/*
Package logger provides the structured logging used across file-combiner.
It wraps uber-go/zap behind a small interface so components can be tested
with a hand-written mock.

Verbosity is the count of -v flags:

	(none)  warnings and errors
	-v      adds info (VerbosityInfo)
	-vv     adds debug (VerbosityDebug)
	-vvv    adds trace lines, logged at debug with a "TRACE: " prefix

Structured Logging:

	log.WithFields(logger.Fields{
	    "root":  "./src",
	    "files": 42,
	}).Info("Enumeration finished")

Each entry is one JSON object with level, ts and message first and the
fields after them in key order. Entries go to stderr unless Config.Output
says otherwise.
Console notices meant for the user (warnings, summaries) are not log lines
and are printed by the app package instead.
*/
package logger
