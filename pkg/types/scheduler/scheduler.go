package scheduler

import "time"

type Scheduler interface {
	Start() error
	Stop()
}

// Factory builds a stopped scheduler that calls handler every interval.
type Factory func(interval time.Duration, handler func() error) (Scheduler, error)
