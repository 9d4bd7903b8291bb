package seedtool

import "time"

// HTTP status code constants.
const (
	StatusOK        = 200
	StatusCreated   = 201
	StatusNoContent = 204
	StatusConflict  = 409
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	RecomputeSettleDelay = 3 * time.Second
	PercentageMultiplier = 100
)
