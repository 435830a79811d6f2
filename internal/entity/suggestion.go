package entity

import (
	"path/filepath"
	"strings"
)

// Source types reported by the retrieval daemon
const (
	SourceTypeFile = "file"
)

// DeliveryMode controls how an attached suggestion is delivered with the task
type DeliveryMode string

const (
	DeliveryModeFileReference     DeliveryMode = "file-reference"
	DeliveryModeInlineSnippet     DeliveryMode = "inline-snippet"
	DeliveryModeStructuredSummary DeliveryMode = "structured-summary"
)

// DefaultDeliveryMode returns the delivery mode used when the user has not
// overridden it: file references for file sources, structured summaries otherwise.
func DefaultDeliveryMode(sourceType string) DeliveryMode {
	if sourceType == SourceTypeFile {
		return DeliveryModeFileReference
	}
	return DeliveryModeStructuredSummary
}

// Suggestion is a candidate piece of context returned by the retrieval daemon.
// ID is the identity key: two suggestions with the same ID are the same resource.
type Suggestion struct {
	ID             string   `json:"id"`
	SourceType     string   `json:"sourceType"`
	Title          string   `json:"title"`
	Snippet        string   `json:"snippet"`
	SourceID       string   `json:"sourceId"`
	SourcePath     string   `json:"sourcePathOrHandle"`
	RelevanceScore float64  `json:"relevanceScore"`
	Risk           string   `json:"risk,omitempty"`
	Reasons        []string `json:"reasons,omitempty"`
}

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".svg":  true,
	".ico":  true,
	".tiff": true,
	".heic": true,
}

// IsImagePath reports whether the path carries an image extension.
func IsImagePath(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// IsSearchable reports whether the suggestion is usable as attachable context.
// File suggestions pointing at images are excluded: they cannot be spliced into
// a prompt and are not indexed as text.
func (s Suggestion) IsSearchable() bool {
	if s.SourceType != SourceTypeFile {
		return true
	}
	return !IsImagePath(s.SourcePath) && !IsImagePath(s.Title)
}
