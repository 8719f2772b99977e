package model

// ItemStatus represents the state of a single item within a batch
type ItemStatus string

const (
	// ItemStatusDownloading means the item is being transferred or post-processed
	ItemStatusDownloading ItemStatus = "Downloading"

	// ItemStatusSucceeded means the file was produced and recorded in the manifest
	ItemStatusSucceeded ItemStatus = "Succeeded"

	// ItemStatusFailed means the download attempt ended with an error
	ItemStatusFailed ItemStatus = "Failed"
)

// String returns the string representation of ItemStatus
func (s ItemStatus) String() string {
	return string(s)
}

// IsActive returns true if the item is currently being processed
func (s ItemStatus) IsActive() bool {
	return s == ItemStatusDownloading
}

// IsFinished returns true if the item reached a terminal state
func (s ItemStatus) IsFinished() bool {
	return s == ItemStatusSucceeded || s == ItemStatusFailed
}

// BatchStatus represents the lifecycle of a whole batch
type BatchStatus string

const (
	BatchStatusPending    BatchStatus = "Pending"
	BatchStatusInProgress BatchStatus = "InProgress"
	BatchStatusCompleted  BatchStatus = "Completed"
)

// String returns the string representation of BatchStatus
func (s BatchStatus) String() string {
	return string(s)
}
