package types

import "time"

type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusVerified SubmissionStatus = "verified"
	// SubmissionStatusRejected is rendered by the dashboard but never assigned.
	SubmissionStatusRejected SubmissionStatus = "rejected"
)

func (s SubmissionStatus) Label() string {
	switch s {
	case SubmissionStatusPending:
		return "Pending"
	case SubmissionStatusVerified:
		return "Verified"
	case SubmissionStatusRejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

// Submission is one contributed observation and its lifecycle state.
type Submission struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Category     string           `json:"category"`
	Description  string           `json:"description"`
	Location     string           `json:"location"`
	Temperature  string           `json:"temperature,omitempty"`
	Humidity     string           `json:"humidity,omitempty"`
	SoilMoisture string           `json:"soilMoisture,omitempty"`
	Media        *MediaRef        `json:"media,omitempty"`
	Status       SubmissionStatus `json:"status"`
	Reward       *int             `json:"reward,omitempty"`
	SubmittedAt  time.Time        `json:"submittedAt"`
	VerifiedAt   *time.Time       `json:"verifiedAt,omitempty"`
}

// MediaRef describes a user-selected file. The file body is never kept.
type MediaRef struct {
	FileName    string `json:"fileName"`
	SizeBytes   int64  `json:"sizeBytes"`
	ContentType string `json:"contentType"`
}

type SubmissionForm struct {
	Category     string `form:"category"`
	Title        string `form:"title"`
	Description  string `form:"description"`
	Location     string `form:"location"`
	Temperature  string `form:"temperature"`
	Humidity     string `form:"humidity"`
	SoilMoisture string `form:"soil_moisture"`

	// Action is "preview" when the contributor asked for the node JSON
	// without storing anything.
	Action string    `form:"action"`
	Media  *MediaRef `form:"-"`
}

const (
	DefaultSubmissionTitle       = "Recent Observation"
	DefaultSubmissionCategory    = CategoryEnvironment
	DefaultSubmissionDescription = "No description provided"
	DefaultSubmissionLocation    = "Not specified"
)

type RewardSummary struct {
	TotalEarned    int
	PendingCount   int
	ValidatedCount int
	Submitted      int
}
