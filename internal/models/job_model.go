package models

import "time"

// JobStatus is the lifecycle state of a job post.
type JobStatus string

const (
	JobStatusOpen       JobStatus = "Open"
	JobStatusInProgress JobStatus = "In Progress"
	JobStatusCompleted  JobStatus = "Completed"
	JobStatusClosed     JobStatus = "Closed"
)

// JobStatuses lists every valid job status, in lifecycle order.
var JobStatuses = []JobStatus{JobStatusOpen, JobStatusInProgress, JobStatusCompleted, JobStatusClosed}

// Valid reports whether s is one of the known job statuses.
func (s JobStatus) Valid() bool {
	for _, known := range JobStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// BudgetType describes how a job's budget amount is charged.
type BudgetType string

const (
	BudgetFixed   BudgetType = "Fixed"
	BudgetDaily   BudgetType = "Daily"
	BudgetMonthly BudgetType = "Monthly"
)

// Budget is the client's offered price for a job.
type Budget struct {
	Amount     float64    `json:"amount" firestore:"amount"`
	Type       BudgetType `json:"type" firestore:"type"`
	Negotiable bool       `json:"negotiable" firestore:"negotiable"`
}

// Job is a client-posted request for service.
type Job struct {
	ID                string    `json:"id" firestore:"-"` // Document ID
	Title             string    `json:"title" firestore:"title"`
	Description       string    `json:"description" firestore:"description"`
	CategoryName      string    `json:"categoryName" firestore:"categoryName"`
	Budget            Budget    `json:"budget" firestore:"budget"`
	Location          string    `json:"location" firestore:"location"`
	ClientID          string    `json:"clientId" firestore:"clientId"`
	ClientName        string    `json:"clientName" firestore:"clientName"`
	ClientIsVerified  *bool     `json:"clientIsVerified,omitempty" firestore:"clientIsVerified,omitempty"`
	Status            JobStatus `json:"status" firestore:"status"`
	Applications      []string  `json:"applications" firestore:"applications"` // Provider IDs, kept as a set via ArrayUnion
	AwardedProviderID string    `json:"awardedProviderId,omitempty" firestore:"awardedProviderId,omitempty"`
	CreatedAt         time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt         time.Time `json:"updatedAt" firestore:"updatedAt"`
}

// HasApplicant reports whether providerID has applied to the job.
func (j *Job) HasApplicant(providerID string) bool {
	for _, id := range j.Applications {
		if id == providerID {
			return true
		}
	}
	return false
}

// JobStats aggregates a client's jobs by status.
type JobStats struct {
	Total             int `json:"total"`
	Open              int `json:"open"`
	InProgress        int `json:"inProgress"`
	Completed         int `json:"completed"`
	Closed            int `json:"closed"`
	TotalApplications int `json:"totalApplications"`
}
