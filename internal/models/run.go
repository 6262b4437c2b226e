package models

import "time"

// TaskState is the lifecycle state of a task invocation.
type TaskState string

const (
	StateIdle      TaskState = "idle"
	StateRunning   TaskState = "running"
	StateSucceeded TaskState = "succeeded"
	StateFailed    TaskState = "failed"
)

// StepResult records the outcome of a single pipeline step.
type StepResult struct {
	Task        string     `json:"task"`
	State       TaskState  `json:"state"`
	Error       *TaskError `json:"error,omitempty"`
	Warning     string     `json:"warning,omitempty"`
	DurationSec float64    `json:"duration_sec"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     time.Time  `json:"ended_at"`
}

// RunResult aggregates a pipeline invocation across its steps.
type RunResult struct {
	Selector         string       `json:"selector"`
	State            TaskState    `json:"state"`
	Error            *TaskError   `json:"error,omitempty"`
	Steps            []StepResult `json:"steps"`
	TotalDurationSec float64      `json:"total_duration_sec"`
	StartedAt        time.Time    `json:"started_at"`
	EndedAt          time.Time    `json:"ended_at"`
}
