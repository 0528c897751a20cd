package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/jrick/logrotate/rotator"
	"github.com/pkg/errors"
)

const (
	defaultThresholdKB = 100 * 1000 // 100 MB logs by default.
	defaultMaxRolls    = 8          // keep 8 last logs by default.
)

// logWriter is a destination the backend fans log entries out to, gated by
// its own log level.
type logWriter struct {
	io.WriteCloser
	logLevel Level
}

// Backend is a logging backend. Subsystem loggers created from the backend
// write to the backend's writers. All writes are serialized by the backend's
// mutex so interleaved output from concurrent subsystems stays line-atomic.
type Backend struct {
	mtx     sync.Mutex
	writers []logWriter
}

// NewBackend creates a new logger backend with no writers attached.
func NewBackend() *Backend {
	return &Backend{}
}

// AddLogWriter adds an io.WriteCloser which the log will write into for
// entries at or above the given log level.
func (b *Backend) AddLogWriter(writer io.WriteCloser, logLevel Level) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.writers = append(b.writers, logWriter{WriteCloser: writer, logLevel: logLevel})
}

// AddLogFile adds a file which the log will write into on a certain log
// level with the default log rotation settings. It'll create the file if it
// doesn't exist.
func (b *Backend) AddLogFile(logFile string, logLevel Level) error {
	return b.AddLogFileWithCustomRotator(logFile, logLevel, defaultThresholdKB, defaultMaxRolls)
}

// AddLogFileWithCustomRotator adds a file which the log will write into on a
// certain log level, with the specified log rotation settings. It'll create
// the file if it doesn't exist.
func (b *Backend) AddLogFileWithCustomRotator(logFile string, logLevel Level, thresholdKB int64, maxRolls int) error {
	logDir, _ := filepath.Split(logFile)
	// If the logDir is empty then logFile is in the cwd and there's no
	// need to create any directory.
	if logDir != "" {
		err := os.MkdirAll(logDir, 0700)
		if err != nil {
			return errors.Wrapf(err, "failed to create log directory %s", logDir)
		}
	}
	r, err := rotator.New(logFile, thresholdKB, false, maxRolls)
	if err != nil {
		return errors.Wrapf(err, "failed to create file rotator for %s", logFile)
	}
	b.AddLogWriter(r, logLevel)
	return nil
}

// write sends a formatted log entry to every writer whose level permits it.
func (b *Backend) write(level Level, entry []byte) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	for _, writer := range b.writers {
		if level >= writer.logLevel {
			_, _ = writer.Write(entry)
		}
	}
}

// Close finalizes all writers attached to this backend.
func (b *Backend) Close() {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	for _, writer := range b.writers {
		_ = writer.Close()
	}
	b.writers = nil
}

// nopWriteCloser wraps a plain io.Writer so it can be attached to a backend.
type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// NopCloser returns a WriteCloser with a no-op Close method wrapping the
// provided writer. It is used to attach os.Stdout and friends to a backend.
func NopCloser(w io.Writer) io.WriteCloser {
	return nopWriteCloser{w}
}
