// Package main provides debug logging for the batchdeck TUI.
//
// The terminal is owned by the UI, so log output goes to debug.log in the
// config directory.
package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"batchdeck/internal/config"
)

var logger = logrus.New()

func initLogger() error {
	logger.SetOutput(io.Discard)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(logrus.DebugLevel)

	dir, err := config.Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	file, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}

	logger.SetOutput(file)
	logger.Info("batchdeck started")
	return nil
}

func logDebug(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}
