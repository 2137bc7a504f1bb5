package tesseract

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Config configures the Tesseract OCR engine.
type Config struct {
	Languages []string
	// DPI is passed as user_defined_dpi when positive.
	DPI int
	// Variables are passed through to Tesseract unchanged, e.g. tessedit_pageseg_mode.
	Variables map[string]string
}

// Engine recognizes image text with a fresh gosseract client per call.
type Engine struct {
	cfg           Config
	clientFactory func() *gosseract.Client
}

// New creates an engine, defaulting to English.
func New(cfg Config) *Engine {
	if len(cfg.Languages) == 0 {
		cfg.Languages = []string{"eng"}
	}
	return &Engine{cfg: cfg, clientFactory: gosseract.NewClient}
}

// Name returns the engine identifier.
func (e *Engine) Name() string { return "tesseract" }

// Recognize runs OCR over an encoded image.
func (e *Engine) Recognize(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c := e.clientFactory()
	defer c.Close()

	if err := c.SetLanguage(e.cfg.Languages...); err != nil {
		return "", fmt.Errorf("set languages: %w", err)
	}
	if e.cfg.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(e.cfg.DPI)); err != nil {
			return "", fmt.Errorf("set dpi: %w", err)
		}
	}
	for k, v := range e.cfg.Variables {
		if err := c.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return "", fmt.Errorf("set variable %s: %w", k, err)
		}
	}
	if err := c.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return strings.TrimSpace(text), nil
}
