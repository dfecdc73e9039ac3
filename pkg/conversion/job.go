package conversion

import (
	"github.com/docmark/docmark/pkg/quality"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

type Metadata struct {
	PageCount       int     `json:"pageCount"`
	ProcessingTime  float64 `json:"processingTime"`
	Accuracy        float64 `json:"accuracy"`
	ExtractedTables int     `json:"extractedTables"`
	CharacterCount  int     `json:"characterCount"`
}

// Job is one document's conversion request from submission to terminal
// status. Mutated only by the orchestrator; terminal once completed or failed.
type Job struct {
	DocumentID string            `json:"documentId"`
	SourcePath string            `json:"-"`
	Options    map[string]string `json:"-"`

	Status   Status `json:"status"`
	Progress int    `json:"progress"`

	Markdown string   `json:"markdown"`
	Images   []string `json:"images"`
	Metadata Metadata `json:"metadata"`

	Quality *quality.Report `json:"quality,omitempty"`

	Errors []string `json:"errors"`
}

func newJob(documentID, path string, options map[string]string) *Job {
	return &Job{
		DocumentID: documentID,
		SourcePath: path,
		Options:    options,

		Status: StatusPending,

		Images: []string{},
		Errors: []string{},
	}
}

func (j *Job) terminal() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}
