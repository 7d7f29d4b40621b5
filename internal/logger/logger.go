package logger

import (
	"log"
	"os"
)

// Log is the shared application logger. It writes to stderr until Init
// points it at a file.
var Log = log.New(os.Stderr, "", log.LstdFlags)

func Init(logFilePath string) error {
	if logFilePath == "" {
		return nil
	}
	file, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return err
	}
	Log = log.New(file, "", log.LstdFlags)
	return nil
}
