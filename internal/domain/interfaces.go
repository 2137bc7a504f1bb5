package domain

import (
	"context"
	"errors"
)

var (
	// ErrUnsupportedType is returned when an upload is neither a PDF nor an image.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrNoText is returned when a summary is requested before any text was extracted.
	ErrNoText = errors.New("no text to summarize")
	// ErrDocumentNotFound is returned for unknown document IDs.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrFileTooLarge is returned when an upload exceeds the configured size limit.
	ErrFileTooLarge = errors.New("file too large")
)

// Kind is the broad category of an uploaded file.
type Kind string

const (
	KindPDF   Kind = "pdf"
	KindImage Kind = "image"
)

// Document is an uploaded file after text extraction.
type Document struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MIMEType string `json:"mimeType"`
	Kind     Kind   `json:"kind"`
	Pages    int    `json:"pages"`
	Text     string `json:"text"`
}

// Extractor turns raw file bytes into a Document.
type Extractor interface {
	Extract(ctx context.Context, name string, data []byte) (Document, error)
	ExtractFile(ctx context.Context, path string) (Document, error)
}

// Summarizer produces an extractive summary of the provided text.
type Summarizer interface {
	Summarize(text string, length Length) Result
}

// DocumentStore keeps extracted documents in memory for later summaries.
type DocumentStore interface {
	Put(doc Document) error
	Get(id string) (Document, bool)
	Delete(id string) bool
	Clear()
	Len() int
}
