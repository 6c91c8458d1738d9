package submit

import (
	"strconv"
)

// JobStatus mirrors the job server's numeric status codes.
type JobStatus int

const (
	StatusInactive JobStatus = 0
	StatusQueued   JobStatus = 1
	StatusRunning  JobStatus = 2
	StatusSuccess  JobStatus = 3
	StatusError    JobStatus = 4
	StatusCanceled JobStatus = 5
)

var statusNames = map[JobStatus]string{
	StatusInactive: "inactive",
	StatusQueued:   "queued",
	StatusRunning:  "running",
	StatusSuccess:  "success",
	StatusError:    "error",
	StatusCanceled: "canceled",
}

func (s JobStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "status(" + strconv.Itoa(int(s)) + ")"
}

// Done reports whether the job reached a terminal state.
func (s JobStatus) Done() bool {
	return s == StatusSuccess || s == StatusError || s == StatusCanceled
}

// Job is the job document returned after a run request.
type Job struct {
	ID      string         `json:"_id" yaml:"id"`
	Title   string         `json:"title" yaml:"title"`
	Type    string         `json:"type,omitempty" yaml:"type,omitempty"`
	Handler string         `json:"handler,omitempty" yaml:"handler,omitempty"`
	Status  JobStatus      `json:"status" yaml:"status"`
	UserID  string         `json:"userId,omitempty" yaml:"userId,omitempty"`
	Created string         `json:"created,omitempty" yaml:"created,omitempty"`
	Updated string         `json:"updated,omitempty" yaml:"updated,omitempty"`
	Extra   map[string]any `json:"-" yaml:"-"`
}
