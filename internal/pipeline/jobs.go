package pipeline

import (
	"sync"
	"time"

	"github.com/docsift/docsift/internal/report"
	"github.com/docsift/docsift/internal/task"
)

// JobStatus represents the state of an analysis job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusParsing   JobStatus = "parsing"
	StatusRanking   JobStatus = "ranking"
	StatusReporting JobStatus = "reporting"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusPartial   JobStatus = "partial"
)

// DocumentFile is one uploaded document held in memory for processing.
type DocumentFile struct {
	Name string
	Data []byte
}

// Job tracks the state of a single collection analysis: one task descriptor
// plus the documents it applies to.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Task *task.Descriptor `json:"-"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	files  []DocumentFile
	result *report.Report
	errors []string
}

// Progress tracks processing progress.
type Progress struct {
	TotalDocuments    int      `json:"total_documents"`
	DocumentsParsed   int      `json:"documents_parsed"`
	SectionsExtracted int      `json:"sections_extracted"`
	SectionsRanked    int      `json:"sections_ranked"`
	Errors            []string `json:"errors"`
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		if now.Sub(job.UpdatedAt) > s.ttl {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// IncrDocumentsParsed atomically increments the parsed-document count.
func (j *Job) IncrDocumentsParsed() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.DocumentsParsed++
	j.UpdatedAt = time.Now()
}

// AddSections records how many sections were extracted.
func (j *Job) AddSections(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.SectionsExtracted += n
	j.UpdatedAt = time.Now()
}

// SetSectionsRanked records how many sections survived filtering and were
// scored.
func (j *Job) SetSectionsRanked(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.SectionsRanked = n
	j.UpdatedAt = time.Now()
}

// SetTotalDocuments records the collection size.
func (j *Job) SetTotalDocuments(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalDocuments = n
	j.UpdatedAt = time.Now()
}

// SetFiles sets the documents to analyze.
func (j *Job) SetFiles(files []DocumentFile) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.files = files
}

// Files returns the documents to analyze.
func (j *Job) Files() []DocumentFile {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.files
}

// SetResult stores the finished report.
func (j *Job) SetResult(r *report.Report) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.result = r
	j.UpdatedAt = time.Now()
}

// Result returns the finished report, or nil if the job has not completed.
func (j *Job) Result() *report.Report {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string    `json:"job_id"`
	Status   JobStatus `json:"status"`
	Phase    string    `json:"phase"`
	Progress Progress  `json:"progress"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := j.Progress.Errors
	if errs == nil {
		errs = []string{}
	}
	return JobSnapshot{
		ID:     j.ID,
		Status: j.Status,
		Phase:  j.Phase,
		Progress: Progress{
			TotalDocuments:    j.Progress.TotalDocuments,
			DocumentsParsed:   j.Progress.DocumentsParsed,
			SectionsExtracted: j.Progress.SectionsExtracted,
			SectionsRanked:    j.Progress.SectionsRanked,
			Errors:            errs,
		},
	}
}
