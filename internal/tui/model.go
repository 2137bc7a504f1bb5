package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docsum/internal/domain"
	"docsum/internal/summarizer"
)

// SummaryPort is the TUI-facing subset of the summary service.
type SummaryPort interface {
	IngestFile(ctx context.Context, path string) (domain.Document, error)
	Summarize(text string, length domain.Length) (domain.Result, error)
	DefaultLength() domain.Length
}

// extractedMsg carries the load sequence number so results of a cancelled or
// superseded load are dropped.
type extractedMsg struct {
	seq int
	doc domain.Document
	err error
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	service  SummaryPort
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	length   domain.Length
	doc      *domain.Document
	result   *domain.Result
	status   string
	loading  bool
	ready    bool
	copyFn   func(string) error

	loadSeq  int
	cancel   context.CancelFunc
	initLoad tea.Cmd
}

// New creates a new TUI model instance. A non-empty path is loaded on start.
func New(service SummaryPort, path string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Path to a PDF or image, then Enter"
	ti.Focus()
	ti.CharLimit = 0
	m := Model{
		service:  service,
		input:    ti,
		viewport: viewport.New(0, 0),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		length:   service.DefaultLength(),
		status:   "Type a file path and press Enter.",
		copyFn:   clipboard.WriteAll,
	}
	if path = strings.TrimSpace(path); path != "" {
		m.initLoad = m.startLoad(path)
	}
	return m
}

// Init starts the cursor blink and loads the initial file, if any.
func (m Model) Init() tea.Cmd {
	if m.initLoad == nil {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.initLoad)
}

// startLoad cancels any running extraction and starts a new one.
func (m *Model) startLoad(path string) tea.Cmd {
	m.stopLoad()
	m.loadSeq++
	m.loading = true
	m.status = "Extracting " + path + "..."
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	return m.ingest(ctx, m.loadSeq, path)
}

func (m Model) ingest(ctx context.Context, seq int, path string) tea.Cmd {
	service := m.service
	return func() tea.Msg {
		doc, err := service.IngestFile(ctx, path)
		return extractedMsg{seq: seq, doc: doc, err: err}
	}
}

// stopLoad cancels the running extraction, if any. Its result is ignored when it arrives.
func (m *Model) stopLoad() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.loading = false
}

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around result and input boxes
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := inputBoxStyle.GetFrameSize()
		reserved := 3 + 1 + qh + 1 // header, file, length + status + input + spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width-2)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderResult())
		return m, nil
	case extractedMsg:
		if !m.loading || msg.seq != m.loadSeq {
			return m, nil
		}
		m.stopLoad()
		if msg.err != nil {
			m.status = "Error: " + describe(msg.err)
			return m, nil
		}
		doc := msg.doc
		m.doc = &doc
		m.result = nil
		m.status = fmt.Sprintf("Loaded %s (%d chars). Press ctrl+s to summarize.", doc.Name, len(doc.Text))
		m.viewport.SetContent(m.renderResult())
		return m, nil
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d", "esc":
			m.stopLoad()
			return m, tea.Quit
		case "enter":
			path := strings.TrimSpace(m.input.Value())
			if path == "" || m.loading {
				return m, nil
			}
			m.input.SetValue("")
			return m, tea.Batch(m.spinner.Tick, m.startLoad(path))
		case "tab":
			m.length = m.length.Next()
			if m.result != nil {
				m.summarize()
			}
			m.viewport.SetContent(m.renderResult())
			return m, nil
		case "ctrl+s":
			m.summarize()
			m.viewport.SetContent(m.renderResult())
			return m, nil
		case "ctrl+y":
			m.copySummary()
			return m, nil
		case "ctrl+x":
			m.stopLoad()
			m.doc, m.result = nil, nil
			m.status = "Cleared."
			m.viewport.SetContent(m.renderResult())
			return m, nil
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) summarize() {
	text := ""
	if m.doc != nil {
		text = m.doc.Text
	}
	res, err := m.service.Summarize(text, m.length)
	if err != nil {
		m.status = "Warning: " + describe(err)
		return
	}
	m.result = &res
	m.status = fmt.Sprintf("%s summary: %d sentences, %d keywords.", m.length, len(res.SelectedSentences), len(res.TopWords))
}

func (m *Model) copySummary() {
	if m.result == nil {
		m.status = "Nothing to copy yet."
		return
	}
	if err := m.copyFn(summarizer.PlainText(m.result.SummaryText)); err != nil {
		m.status = "Copy failed: " + err.Error()
		return
	}
	m.status = "Summary copied to clipboard."
}

func describe(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoText):
		return "upload a file first!"
	case errors.Is(err, domain.ErrUnsupportedType):
		return "unsupported file type! Use a PDF or an image."
	default:
		return err.Error()
	}
}

// View renders the TUI layout and current summary.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Document Summary Assistant")
	file := dimStyle.Render("No document loaded.")
	if m.doc != nil {
		file = dimStyle.Render(fmt.Sprintf("%s · %s · %d page(s)", m.doc.Name, m.doc.MIMEType, m.doc.Pages))
	}
	status := statusStyle.Render(m.status)
	if m.loading {
		status = m.spinner.View() + " " + status
	}
	return header + "\n" + file + "\n" + m.renderLengths() + "\n" +
		resultBoxStyle.Render(m.viewport.View()) + "\n" +
		inputBoxStyle.Render(m.input.View()) + "\n" + status
}

func (m Model) renderLengths() string {
	parts := make([]string, 0, len(domain.Lengths))
	for _, l := range domain.Lengths {
		label := fmt.Sprintf("%s (%d)", l, l.Count())
		if l == m.length {
			parts = append(parts, selectedStyle.Render("["+label+"]"))
		} else {
			parts = append(parts, dimStyle.Render(" "+label+" "))
		}
	}
	return "Length: " + strings.Join(parts, " ") + dimStyle.Render("  tab: change · ctrl+s: summarize · ctrl+y: copy · ctrl+x: clear")
}

var terminalHighlighter = summarizer.Highlighter{
	Wrap: func(match, _ string) string { return highlightStyle.Render(match) },
}

func (m Model) renderResult() string {
	if m.result == nil {
		return "Load a file and press ctrl+s to see its summary."
	}
	r := m.result
	width := max(20, m.viewport.Width)
	base := strings.Join(r.SelectedSentences, ". ") + "."
	var b strings.Builder
	b.WriteString(titleStyle.Render("Summary"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(width).Render(terminalHighlighter.Highlight(base, r.TopWords)))
	b.WriteString("\n\n")
	b.WriteString(titleStyle.Render("Top keywords"))
	b.WriteString("\n")
	if len(r.TopWords) == 0 {
		b.WriteString(dimStyle.Render("none"))
	}
	for i, k := range r.TopWords {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(keywordStyle.Render("#" + k))
	}
	if len(r.SummarySentences) > 0 {
		b.WriteString("\n\n")
		b.WriteString(titleStyle.Render("Key sentences"))
		for _, s := range r.SummarySentences {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Width(width).Render("• " + s))
		}
	}
	return b.String()
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	keywordStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11")).Padding(0, 1)
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	titleStyle     = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)
