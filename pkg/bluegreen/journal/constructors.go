package journal

import "time"

func Success(op, subject, message string) Entry {
	return Entry{
		Level:   LevelSuccess,
		Op:      op,
		Subject: subject,
		Message: message,
		Time:    time.Now(),
	}
}

func Info(op, subject, message string) Entry {
	return Entry{
		Level:   LevelInfo,
		Op:      op,
		Subject: subject,
		Message: message,
		Time:    time.Now(),
	}
}

func Warning(op, subject, message string) Entry {
	return Entry{
		Level:   LevelWarning,
		Op:      op,
		Subject: subject,
		Message: message,
		Time:    time.Now(),
	}
}

func Failure(op, subject, message string, err error) Entry {
	entry := Entry{
		Level:   LevelError,
		Op:      op,
		Subject: subject,
		Message: message,
		Time:    time.Now(),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	return entry
}
