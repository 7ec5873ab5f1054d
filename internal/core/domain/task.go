package domain

import "strings"

// TaskInfo describes a registered training task. The host's plugin
// registry consumes these records for display and keyword search.
type TaskInfo struct {
	// Name is the unique task identifier (e.g. "train_yolo_v8_classification").
	Name string
	// ShortDescription is a one-line summary.
	ShortDescription string
	// Description provides a longer explanation of the task.
	Description string
	// Path is the task's position in the host's process tree.
	Path string
	// Version is the task version string.
	Version string
	// Authors credits the algorithm authors.
	Authors string
	// Article is the reference publication title.
	Article string
	// Year is the publication year.
	Year int
	// License is the SPDX identifier of the wrapped implementation.
	License string
	// DocumentationLink points at the wrapped library's documentation.
	DocumentationLink string
	// Repository is the wrapped library's source repository.
	Repository string
	// Keywords are search terms for the host's plugin search.
	Keywords []string
}

// MatchesKeyword reports whether the task matches a search term.
// Matching is case-insensitive over name, descriptions and keywords.
func (i TaskInfo) MatchesKeyword(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(i.Name), term) {
		return true
	}
	if strings.Contains(strings.ToLower(i.ShortDescription), term) {
		return true
	}
	if strings.Contains(strings.ToLower(i.Description), term) {
		return true
	}
	for _, kw := range i.Keywords {
		if strings.Contains(strings.ToLower(kw), term) {
			return true
		}
	}
	return false
}
