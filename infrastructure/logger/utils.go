package logger

import (
	"time"
)

// LogAndMeasureExecutionTime logs the start of functionName and returns a
// closure that logs how long it took. Intended for defer at debug level.
func LogAndMeasureExecutionTime(log *Logger, functionName string) (onEnd func()) {
	start := time.Now()
	log.Debugf("%s start", functionName)
	return func() {
		log.Debugf("%s end. Took: %s", functionName, time.Since(start))
	}
}
