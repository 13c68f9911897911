package config

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

// LogWriter receives application, request and SQL logs. It defaults to stdout
// and is upgraded to stdout+file by InitLogging.
var LogWriter io.Writer = os.Stdout

// LogFilePath is where the API log lands; the /logs endpoint serves this file.
func LogFilePath() string {
	return filepath.Join("logs", "grievance-api.log")
}

// InitLogging opens the log file and points the standard logger at it. A
// missing or unwritable file degrades to stdout-only logging rather than
// failing startup.
func InitLogging() (*os.File, io.Writer) {
	if err := os.MkdirAll(filepath.Dir(LogFilePath()), os.ModePerm); err != nil {
		log.Printf("Warning: Failed to create logs directory: %v", err)
	}

	logFile, err := os.OpenFile(LogFilePath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		log.Printf("Warning: Failed to open log file: %v", err)
		log.SetOutput(LogWriter)
		return nil, LogWriter
	}

	LogWriter = io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(LogWriter)
	return logFile, LogWriter
}
