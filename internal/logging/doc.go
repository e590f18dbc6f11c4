// Package logging provides structured logging for ceph-telemetry.
//
// It wraps a package-level zap logger with a few helpers for the events the
// tool cares about: dashboard API calls, wizard step changes and requests
// served by the stub dashboard.
//
// Logging is silent unless a level is given with --log-level or through the
// CEPH_TELEMETRY_LOG_LEVEL environment variable:
//
//	if err := logging.Initialize(logging.Options{Level: "debug", File: "wizard.log"}); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
//	logging.Info("Report fetched", zap.String("report_id", id))
//
// The interactive wizard owns the terminal, so it should always be given a
// log file; other commands log to stderr.
package logging
