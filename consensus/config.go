package consensus

import "time"

const (
	maxParallelFetch         = 16
	maxFetchWorkerFails      = 3
	fetchWorkerStartInterval = 20 * time.Millisecond
	miningRetryDelay         = time.Second
)
