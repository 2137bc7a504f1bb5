package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsum/internal/domain"
	"docsum/internal/summarizer"
)

type fakePort struct {
	doc     domain.Document
	err     error
	ingests []string
}

func (f *fakePort) IngestFile(ctx context.Context, path string) (domain.Document, error) {
	f.ingests = append(f.ingests, path)
	return f.doc, f.err
}

func (f *fakePort) Summarize(text string, length domain.Length) (domain.Result, error) {
	if text == "" {
		return domain.Result{}, domain.ErrNoText
	}
	return summarizer.New().Summarize(text, length), nil
}

func (f *fakePort) DefaultLength() domain.Length { return domain.LengthShort }

const report = "Revenue grew in every region this year. The key result is sustained growth in revenue. Costs stayed flat across most regions. In conclusion the main driver was revenue."

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func sized(t *testing.T, port SummaryPort) Model {
	m, _ := update(t, New(port, ""), tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func TestViewBeforeResize(t *testing.T) {
	assert.Equal(t, "Loading...", New(&fakePort{}, "").View())
}

func TestLoadAndSummarize(t *testing.T) {
	port := &fakePort{doc: domain.Document{ID: "d1", Name: "report.pdf", MIMEType: "application/pdf", Pages: 1, Text: report}}
	m := sized(t, port)

	m.input.SetValue("report.pdf")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.loading)

	assert.Equal(t, 1, m.loadSeq)
	msg := m.ingest(context.Background(), m.loadSeq, "report.pdf")()
	m, _ = update(t, m, msg)
	assert.False(t, m.loading)
	require.NotNil(t, m.doc)
	assert.Equal(t, []string{"report.pdf"}, port.ingests)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, m.result)
	assert.Len(t, m.result.SelectedSentences, 3)
	view := m.View()
	assert.Contains(t, view, "#revenue")
	assert.Contains(t, view, "report.pdf")
}

func TestTabCyclesLengthAndResummarizes(t *testing.T) {
	m := sized(t, &fakePort{})
	doc := domain.Document{Name: "r.pdf", Text: report}
	m.loading, m.loadSeq = true, 1
	m, _ = update(t, m, extractedMsg{seq: 1, doc: doc})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, m.result)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, domain.LengthMedium, m.length)
	assert.Len(t, m.result.SelectedSentences, 4)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, domain.LengthShort, m.length)
}

func TestSummarizeWithoutDocumentWarns(t *testing.T) {
	m := sized(t, &fakePort{})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Nil(t, m.result)
	assert.Contains(t, m.status, "upload a file first")
}

func TestExtractionError(t *testing.T) {
	m := sized(t, &fakePort{})
	m.loading, m.loadSeq = true, 1
	m, _ = update(t, m, extractedMsg{seq: 1, err: domain.ErrUnsupportedType})
	assert.Nil(t, m.doc)
	assert.Contains(t, m.status, "unsupported file type")
}

func TestCopyAndClear(t *testing.T) {
	var copied string
	m := sized(t, &fakePort{})
	m.copyFn = func(s string) error { copied = s; return nil }

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Equal(t, "Nothing to copy yet.", m.status)

	m.loading, m.loadSeq = true, 1
	m, _ = update(t, m, extractedMsg{seq: 1, doc: domain.Document{Text: report}})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.NotContains(t, copied, "<mark")
	assert.Contains(t, copied, "revenue")

	m.copyFn = func(string) error { return errors.New("no clipboard") }
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Contains(t, m.status, "no clipboard")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.Nil(t, m.doc)
	assert.Nil(t, m.result)
}

func TestInitLoadsInitialPath(t *testing.T) {
	assert.NotNil(t, New(&fakePort{}, "report.pdf").Init())
	assert.NotNil(t, New(&fakePort{}, "").Init())
}

// blockingPort holds IngestFile until its context is cancelled.
type blockingPort struct {
	fakePort
	started chan struct{}
}

func (b *blockingPort) IngestFile(ctx context.Context, path string) (domain.Document, error) {
	close(b.started)
	<-ctx.Done()
	return domain.Document{Name: path, Text: report}, ctx.Err()
}

func runLoad(t *testing.T, port *blockingPort, m *Model, path string) <-chan tea.Msg {
	t.Helper()
	load := m.startLoad(path)
	done := make(chan tea.Msg, 1)
	go func() { done <- load() }()
	select {
	case <-port.started:
	case <-time.After(2 * time.Second):
		t.Fatal("extraction did not start")
	}
	return done
}

func waitMsg(t *testing.T, done <-chan tea.Msg) tea.Msg {
	t.Helper()
	select {
	case msg := <-done:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("extraction was not cancelled")
		return nil
	}
}

func TestClearCancelsRunningExtraction(t *testing.T) {
	port := &blockingPort{started: make(chan struct{})}
	m := sized(t, port)
	done := runLoad(t, port, &m, "slow.png")
	require.True(t, m.loading)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlX})
	assert.False(t, m.loading)

	msg := waitMsg(t, done)
	em, ok := msg.(extractedMsg)
	require.True(t, ok)
	assert.ErrorIs(t, em.err, context.Canceled)

	m, _ = update(t, m, msg)
	assert.Nil(t, m.doc)
	assert.Equal(t, "Cleared.", m.status)
}

func TestStaleExtractionIsIgnored(t *testing.T) {
	m := sized(t, &fakePort{})
	m.loading, m.loadSeq = true, 2

	m, _ = update(t, m, extractedMsg{seq: 1, doc: domain.Document{Name: "old.pdf", Text: report}})
	assert.Nil(t, m.doc)
	assert.True(t, m.loading)

	m, _ = update(t, m, extractedMsg{seq: 2, doc: domain.Document{Name: "new.pdf", Text: report}})
	require.NotNil(t, m.doc)
	assert.Equal(t, "new.pdf", m.doc.Name)
	assert.False(t, m.loading)

	m, _ = update(t, m, extractedMsg{seq: 2, doc: domain.Document{Name: "again.pdf"}})
	assert.Equal(t, "new.pdf", m.doc.Name)
}

func TestQuitCancelsRunningExtraction(t *testing.T) {
	port := &blockingPort{started: make(chan struct{})}
	m := sized(t, port)
	done := runLoad(t, port, &m, "slow.png")

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	em, ok := waitMsg(t, done).(extractedMsg)
	require.True(t, ok)
	assert.ErrorIs(t, em.err, context.Canceled)
}
