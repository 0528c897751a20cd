package logger

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Logger is a subsystem logger. A Logger tags every entry it writes with the
// subsystem name it was registered under.
type Logger struct {
	level   uint32
	tag     string
	backend *Backend
}

var (
	registryMtx sync.Mutex
	registry    = make(map[string]*Logger)

	// defaultBackend receives all subsystem output until InitBackend
	// replaces it with one wired to real writers.
	defaultBackend = NewBackend()
	activeBackend  = defaultBackend
)

// RegisterSubSystem returns the logger for the given subsystem tag, creating
// it with the info level if it was not registered before. Packages call this
// once from their log.go.
func RegisterSubSystem(tag string) *Logger {
	registryMtx.Lock()
	defer registryMtx.Unlock()
	if log, ok := registry[tag]; ok {
		return log
	}
	log := &Logger{level: uint32(LevelInfo), tag: tag, backend: activeBackend}
	registry[tag] = log
	return log
}

// InitBackend attaches all registered (and future) subsystem loggers to the
// given backend. It should be called once, early in the program's life.
func InitBackend(backend *Backend) {
	registryMtx.Lock()
	defer registryMtx.Unlock()
	activeBackend = backend
	for _, log := range registry {
		log.backend = backend
	}
}

// SetLogLevels sets the log level of every registered subsystem logger.
func SetLogLevels(level Level) {
	registryMtx.Lock()
	defer registryMtx.Unlock()
	for _, log := range registry {
		log.SetLevel(level)
	}
}

// Level returns the current logging level of the logger.
func (l *Logger) Level() Level {
	return Level(atomic.LoadUint32(&l.level))
}

// SetLevel changes the logging level of the logger.
func (l *Logger) SetLevel(level Level) {
	atomic.StoreUint32(&l.level, uint32(level))
}

func (l *Logger) write(level Level, format string, args ...interface{}) {
	if level < l.Level() {
		return
	}
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	var message string
	if format == "" {
		message = fmt.Sprint(args...)
	} else {
		message = fmt.Sprintf(format, args...)
	}
	entry := fmt.Sprintf("%s [%s] %s: %s\n", timestamp, level, l.tag, message)
	l.backend.write(level, []byte(entry))
}

// Tracef formats message according to format specifier and writes to the
// logger with LevelTrace.
func (l *Logger) Tracef(format string, args ...interface{}) {
	l.write(LevelTrace, format, args...)
}

// Debugf formats message according to format specifier and writes to the
// logger with LevelDebug.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.write(LevelDebug, format, args...)
}

// Infof formats message according to format specifier and writes to the
// logger with LevelInfo.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.write(LevelInfo, format, args...)
}

// Warnf formats message according to format specifier and writes to the
// logger with LevelWarn.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.write(LevelWarn, format, args...)
}

// Errorf formats message according to format specifier and writes to the
// logger with LevelError.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.write(LevelError, format, args...)
}

// Criticalf formats message according to format specifier and writes to the
// logger with LevelCritical.
func (l *Logger) Criticalf(format string, args ...interface{}) {
	l.write(LevelCritical, format, args...)
}

// Trace writes args to the logger with LevelTrace.
func (l *Logger) Trace(args ...interface{}) { l.write(LevelTrace, "", args...) }

// Debug writes args to the logger with LevelDebug.
func (l *Logger) Debug(args ...interface{}) { l.write(LevelDebug, "", args...) }

// Info writes args to the logger with LevelInfo.
func (l *Logger) Info(args ...interface{}) { l.write(LevelInfo, "", args...) }

// Warn writes args to the logger with LevelWarn.
func (l *Logger) Warn(args ...interface{}) { l.write(LevelWarn, "", args...) }

// Error writes args to the logger with LevelError.
func (l *Logger) Error(args ...interface{}) { l.write(LevelError, "", args...) }

// Critical writes args to the logger with LevelCritical.
func (l *Logger) Critical(args ...interface{}) { l.write(LevelCritical, "", args...) }
