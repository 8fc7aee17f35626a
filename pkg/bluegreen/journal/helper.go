package journal

import "github.com/go-logr/logr"

// RecordSafe stores an entry, logging instead of failing when the journal
// is unavailable. Journal writes must never abort an operation.
func RecordSafe(rec Recorder, logger logr.Logger, entry Entry) {
	if rec == nil {
		return
	}
	if err := rec.Record(entry); err != nil {
		logger.V(1).Info("failed to record journal entry",
			"error", err,
			"op", entry.Op,
			"subject", entry.Subject,
			"message", entry.Message)
	}
}
