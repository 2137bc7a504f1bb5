package service

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"docsum/internal/domain"
)

// SummaryService ties extraction, the document store and the summarizer together.
type SummaryService struct {
	extractor     domain.Extractor
	summarizer    domain.Summarizer
	store         domain.DocumentStore
	defaultLength domain.Length
	log           logrus.FieldLogger
}

func NewSummaryService(extractor domain.Extractor, summarizer domain.Summarizer, store domain.DocumentStore, defaultLength domain.Length, log logrus.FieldLogger) *SummaryService {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &SummaryService{
		extractor:     extractor,
		summarizer:    summarizer,
		store:         store,
		defaultLength: domain.ParseLength(string(defaultLength)),
		log:           log,
	}
}

// DefaultLength is the tier used when a caller does not pick one.
func (s *SummaryService) DefaultLength() domain.Length { return s.defaultLength }

// IngestFile extracts the text of a file on disk and keeps the document.
func (s *SummaryService) IngestFile(ctx context.Context, path string) (domain.Document, error) {
	doc, err := s.extractor.ExtractFile(ctx, path)
	if err != nil {
		s.log.WithError(err).WithField("path", path).Warn("extraction failed")
		return domain.Document{}, err
	}
	return s.keep(doc)
}

// IngestBytes extracts the text of an uploaded file and keeps the document.
func (s *SummaryService) IngestBytes(ctx context.Context, name string, data []byte) (domain.Document, error) {
	doc, err := s.extractor.Extract(ctx, name, data)
	if err != nil {
		s.log.WithError(err).WithField("file", name).Warn("extraction failed")
		return domain.Document{}, err
	}
	return s.keep(doc)
}

func (s *SummaryService) keep(doc domain.Document) (domain.Document, error) {
	if err := s.store.Put(doc); err != nil {
		return domain.Document{}, err
	}
	s.log.WithFields(logrus.Fields{"id": doc.ID, "file": doc.Name, "kind": doc.Kind}).Info("document ingested")
	return doc, nil
}

// Summarize requires non-empty text; whitespace-only text is summarized to ".".
func (s *SummaryService) Summarize(text string, length domain.Length) (domain.Result, error) {
	if text == "" {
		return domain.Result{}, domain.ErrNoText
	}
	if length == "" {
		length = s.defaultLength
	}
	res := s.summarizer.Summarize(text, length)
	s.log.WithFields(logrus.Fields{
		"length":    length,
		"sentences": len(res.SelectedSentences),
		"keywords":  len(res.TopWords),
	}).Debug("summarized")
	return res, nil
}

// SummarizeDocument summarizes a previously ingested document.
func (s *SummaryService) SummarizeDocument(id string, length domain.Length) (domain.Result, error) {
	doc, ok := s.store.Get(id)
	if !ok {
		return domain.Result{}, domain.ErrDocumentNotFound
	}
	return s.Summarize(doc.Text, length)
}

// Document returns a previously ingested document.
func (s *SummaryService) Document(id string) (domain.Document, error) {
	doc, ok := s.store.Get(id)
	if !ok {
		return domain.Document{}, domain.ErrDocumentNotFound
	}
	return doc, nil
}

// Forget drops one document.
func (s *SummaryService) Forget(id string) error {
	if !s.store.Delete(id) {
		return domain.ErrDocumentNotFound
	}
	return nil
}

// Clear drops every document.
func (s *SummaryService) Clear() { s.store.Clear() }
