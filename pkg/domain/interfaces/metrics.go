package interfaces

import "time"

// MetricsRecorder records pipeline observations
type MetricsRecorder interface {
	// ObserveStage records the duration and outcome of a single stage
	ObserveStage(stage string, d time.Duration, err error)

	// ObserveRun records the duration and outcome of a whole pipeline run
	ObserveRun(d time.Duration, err error)
}
