package task

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Descriptor is the declarative description of one analysis run: who is
// asking, what they need done, and the hard keyword constraints candidate
// sections must satisfy.
type Descriptor struct {
	Documents []DocumentRef `json:"documents"`
	Persona   Persona       `json:"persona"`
	Job       Job           `json:"job_to_be_done"`
}

// DocumentRef names one input document of the collection.
type DocumentRef struct {
	Filename string `json:"filename"`
	Title    string `json:"title,omitempty"`
}

// Persona describes the user on whose behalf relevance is judged.
type Persona struct {
	Role string `json:"role"`
}

// Job is the task statement plus its keyword constraints.
type Job struct {
	Task        string      `json:"task"`
	Constraints Constraints `json:"constraints"`
}

// Constraints are hard keyword filters. Exclude keywords drop a section on
// any whole-word match; include keywords, when present, require at least
// one whole-word match.
type Constraints struct {
	IncludeKeywords []string `json:"include_keywords"`
	ExcludeKeywords []string `json:"exclude_keywords"`
}

// Parse decodes and validates a task descriptor from JSON.
func Parse(r io.Reader) (*Descriptor, error) {
	var d Descriptor
	dec := json.NewDecoder(r)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decode task descriptor: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// ParseFile reads a task descriptor from a JSON file.
func ParseFile(path string) (*Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open task descriptor: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Validate rejects descriptors missing the persona role or task statement.
// These are caller input errors and are surfaced immediately rather than
// silently defaulted.
func (d *Descriptor) Validate() error {
	if d.Persona.Role == "" {
		return fmt.Errorf("task descriptor: persona role is required")
	}
	if d.Job.Task == "" {
		return fmt.Errorf("task descriptor: task statement is required")
	}
	return nil
}
