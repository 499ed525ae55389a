package queue

import (
	"encoding/json"
	"errors"
	"time"
)

// CategorizationJob asks a worker to categorize one transaction. The worker
// loads the transaction itself, so the message carries IDs only.
type CategorizationJob struct {
	TransactionID string    `json:"transactionId"`
	UserID        string    `json:"userId"`
	EnqueuedAt    time.Time `json:"enqueuedAt"`
}

// NewCategorizationJob creates a job stamped with the current UTC time.
func NewCategorizationJob(userID, transactionID string) *CategorizationJob {
	return &CategorizationJob{
		TransactionID: transactionID,
		UserID:        userID,
		EnqueuedAt:    time.Now().UTC(),
	}
}

// ToJSON encodes the job for publishing.
func (j *CategorizationJob) ToJSON() ([]byte, error) {
	return json.Marshal(j)
}

// CategorizationJobFromJSON decodes a job and checks that both IDs are set.
func CategorizationJobFromJSON(data []byte) (*CategorizationJob, error) {
	var job CategorizationJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, err
	}
	if job.TransactionID == "" || job.UserID == "" {
		return nil, errors.New("job is missing transactionId or userId")
	}
	return &job, nil
}
