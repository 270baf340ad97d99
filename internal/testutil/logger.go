package testutil

import (
	"bytes"
	"io"

	"github.com/dtroode/backup-auth-server/internal/logger"
)

// MakeNoopLogger returns a logger that discards everything.
func MakeNoopLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, 0)
}

// MakeBufferLogger returns a debug-level logger writing into the returned buffer.
func MakeBufferLogger() (*logger.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return logger.NewWithWriter(buf, -4), buf
}
