// Package knowledge loads the campus Q&A knowledge base from disk.
package knowledge

import (
	"fmt"
	"os"

	"github.com/kart-io/campus-chat/internal/model"
	"github.com/kart-io/campus-chat/pkg/utils/json"
)

// Status describes the outcome of loading the knowledge file.
type Status int

const (
	// StatusLoaded means the file was read and parsed successfully.
	StatusLoaded Status = iota

	// StatusUnavailable means the file is missing or unreadable. The
	// service still starts; retrieval is simply disabled.
	StatusUnavailable
)

// Result is the outcome of Load.
type Result struct {
	Status    Status
	Documents []model.Document

	// Reason explains StatusUnavailable, empty otherwise.
	Reason string
}

// entry is the on-disk shape of one knowledge record.
type entry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Load reads a JSON array of question/answer pairs from path and converts
// each into an indexable document. A missing or malformed file yields
// StatusUnavailable rather than an error so callers can degrade to plain
// chat.
func Load(path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{
			Status: StatusUnavailable,
			Reason: fmt.Sprintf("read %s: %v", path, err),
		}
	}

	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return Result{
			Status: StatusUnavailable,
			Reason: fmt.Sprintf("parse %s: %v", path, err),
		}
	}

	docs := make([]model.Document, len(entries))
	for i, e := range entries {
		docs[i] = model.Document{
			ID:       i,
			Question: e.Question,
			Answer:   e.Answer,
			Text:     fmt.Sprintf("Q: %s\nA: %s", e.Question, e.Answer),
		}
	}

	return Result{Status: StatusLoaded, Documents: docs}
}
