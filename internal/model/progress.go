package model

// BatchProgress describes where a batch currently is
type BatchProgress struct {
	Index           int // 1-based index of the item in flight
	Total           int
	Title           string
	Percent         float64 // 0 to 100 for the item in flight
	DownloadedBytes int64
	TotalBytes      int64 // 0 if unknown
}

// EventType identifies a progress event
type EventType int

const (
	EventItemStarted EventType = iota
	EventItemProgress
	EventItemFinished
	EventBatchCompleted
)

// String returns a short name for the event type
func (e EventType) String() string {
	switch e {
	case EventItemStarted:
		return "item_started"
	case EventItemProgress:
		return "item_progress"
	case EventItemFinished:
		return "item_finished"
	case EventBatchCompleted:
		return "batch_completed"
	default:
		return "unknown"
	}
}

// ProgressEvent is delivered to a progress sink by the batch orchestrator.
// Status is the state of the item in flight and is empty for
// EventBatchCompleted. Result is set for EventItemFinished, Summary for
// EventBatchCompleted.
type ProgressEvent struct {
	Type     EventType
	Status   ItemStatus
	Progress BatchProgress
	Result   *DownloadResult
	Summary  *BatchSummary
}

// IsLifecycle reports whether the event must never be dropped by a consumer
func (e ProgressEvent) IsLifecycle() bool {
	return e.Type != EventItemProgress || e.Progress.Percent >= 100
}
