package extract

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"

	"docsum/internal/domain"
)

// OCREngine recognizes text in an encoded image.
type OCREngine interface {
	Name() string
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Options configures an Extractor.
type Options struct {
	// MaxBytes rejects larger inputs. Zero disables the check.
	MaxBytes int64
	// NormalizeUnicode applies NFKC so ligatures and full-width letters become ASCII.
	NormalizeUnicode bool
}

// Extractor dispatches uploads to the PDF parser or the OCR engine.
type Extractor struct {
	ocr  OCREngine
	opts Options
	log  logrus.FieldLogger
}

// New creates an extractor. ocr may be nil, in which case images fail to extract.
func New(ocr OCREngine, opts Options, log logrus.FieldLogger) *Extractor {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Extractor{ocr: ocr, opts: opts, log: log}
}

// Detect sniffs the content type of data.
func Detect(data []byte) (domain.Kind, string, error) {
	mt := mimetype.Detect(data)
	switch {
	case mt.Is("application/pdf"):
		return domain.KindPDF, mt.String(), nil
	case strings.HasPrefix(mt.String(), "image/"):
		return domain.KindImage, mt.String(), nil
	default:
		return "", mt.String(), fmt.Errorf("%w: %s", domain.ErrUnsupportedType, mt.String())
	}
}

// ExtractFile reads path and extracts its text.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (domain.Document, error) {
	if e.opts.MaxBytes > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return domain.Document{}, err
		}
		if info.Size() > e.opts.MaxBytes {
			return domain.Document{}, fmt.Errorf("%w: %s is %d bytes", domain.ErrFileTooLarge, path, info.Size())
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Document{}, err
	}
	return e.Extract(ctx, filepath.Base(path), data)
}

// Extract detects the type of data and returns its text as a Document.
func (e *Extractor) Extract(ctx context.Context, name string, data []byte) (domain.Document, error) {
	if e.opts.MaxBytes > 0 && int64(len(data)) > e.opts.MaxBytes {
		return domain.Document{}, fmt.Errorf("%w: %s is %d bytes", domain.ErrFileTooLarge, name, len(data))
	}
	kind, mime, err := Detect(data)
	if err != nil {
		return domain.Document{}, err
	}
	log := e.log.WithFields(logrus.Fields{"file": name, "mime": mime})

	doc := domain.Document{ID: hashBytes(data), Name: name, MIMEType: mime, Kind: kind}
	switch kind {
	case domain.KindPDF:
		text, pages, err := pdfText(ctx, data)
		if err != nil {
			return domain.Document{}, fmt.Errorf("extract pdf %s: %w", name, err)
		}
		doc.Text, doc.Pages = text, pages
	case domain.KindImage:
		if e.ocr == nil {
			return domain.Document{}, fmt.Errorf("extract image %s: no OCR engine configured", name)
		}
		text, err := e.ocr.Recognize(ctx, data)
		if err != nil {
			return domain.Document{}, fmt.Errorf("ocr %s with %s: %w", name, e.ocr.Name(), err)
		}
		doc.Text, doc.Pages = text, 1
	}
	if e.opts.NormalizeUnicode {
		doc.Text = norm.NFKC.String(doc.Text)
	}
	log.WithFields(logrus.Fields{"pages": doc.Pages, "chars": len(doc.Text)}).Debug("extracted text")
	return doc, nil
}

func hashBytes(b []byte) string {
	h := sha1.Sum(b)
	return hex.EncodeToString(h[:8])
}
