package model

import "time"

type RunState string

const (
	StateIdle       RunState = "idle"
	StateLoggingIn  RunState = "logging_in"
	StateAuthorized RunState = "authorized"
	StateRunning    RunState = "running"
	StateCompleted  RunState = "completed"
	StateFailed     RunState = "failed"
)

const (
	StageFetch        = "fetch"
	StageRewriteTitle = "rewrite_title"
	StageRewriteBody  = "rewrite_body"
	StagePublish      = "publish"
)

type FeedOutcome struct {
	Feed  FeedSource `json:"feed"`
	Items int        `json:"items"`
	Error string     `json:"error,omitempty"`
}

type ItemOutcome struct {
	Feed   FeedSource `json:"feed"`
	Title  string     `json:"title"`
	Stage  string     `json:"stage"`
	PostID string     `json:"post_id,omitempty"`
	Error  string     `json:"error,omitempty"`
}

func (o ItemOutcome) OK() bool {
	return o.Error == ""
}

// RunReport is the aggregate result of one pipeline invocation. Published is
// the run's publish counter.
type RunReport struct {
	State      RunState      `json:"state"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Published  int           `json:"published"`
	Failed     int           `json:"failed"`
	Pauses     int           `json:"pauses"`
	Error      string        `json:"error,omitempty"`
	Feeds      []FeedOutcome `json:"feeds"`
	Items      []ItemOutcome `json:"items"`
}
