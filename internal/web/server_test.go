package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsum/internal/domain"
	"docsum/internal/service"
	"docsum/internal/store/memory"
	"docsum/internal/summarizer"
)

const report = "Revenue grew in every region this year. The key result is sustained growth in revenue. Costs stayed flat across most regions. In conclusion the main driver was revenue."

// textExtractor treats "%PDF" payloads as documents whose text follows the marker.
type textExtractor struct{ seq int }

func (e *textExtractor) Extract(ctx context.Context, name string, data []byte) (domain.Document, error) {
	body, ok := bytes.CutPrefix(data, []byte("%PDF"))
	if !ok {
		return domain.Document{}, fmt.Errorf("%w: text/plain", domain.ErrUnsupportedType)
	}
	e.seq++
	return domain.Document{
		ID:       fmt.Sprintf("doc-%d", e.seq),
		Name:     name,
		MIMEType: "application/pdf",
		Kind:     domain.KindPDF,
		Pages:    1,
		Text:     string(body),
	}, nil
}

func (e *textExtractor) ExtractFile(ctx context.Context, path string) (domain.Document, error) {
	return domain.Document{}, domain.ErrUnsupportedType
}

func newTestServer(t *testing.T) (*httptest.Server, *service.SummaryService) {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	svc := service.NewSummaryService(&textExtractor{}, summarizer.New(), memory.NewStorage(4), domain.LengthShort, log)
	srv := NewServer(Config{MaxUploadBytes: 1 << 20}, svc, log)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, svc
}

func upload(t *testing.T, url, name string, data []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(url+"/api/documents", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url+"/api/summarize", "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealthAndIndex(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "running")

	resp, err = http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `<option value="short" selected>`)
	assert.Contains(t, string(body), "up to 1 MB")

	resp, err = http.Get(ts.URL + "/missing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUploadAndSummarizeDocument(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := upload(t, ts.URL, "report.pdf", []byte("%PDF"+report))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[struct {
		Document domain.Document `json:"document"`
	}](t, resp)
	assert.Equal(t, "report.pdf", created.Document.Name)
	require.NotEmpty(t, created.Document.ID)

	resp = postJSON(t, ts.URL, map[string]string{"documentId": created.Document.ID, "length": "medium"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decodeBody[domain.Result](t, resp)
	assert.Len(t, res.SelectedSentences, 4)
	assert.Contains(t, res.TopWords, "revenue")
	assert.Contains(t, res.SummaryText, `<mark class="keyword" data-keyword="revenue">`)
}

func TestUploadErrors(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := upload(t, ts.URL, "notes.txt", []byte("plain text"))
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
	assert.Contains(t, decodeBody[map[string]string](t, resp)["error"], "Unsupported file type")

	resp, err := http.Post(ts.URL+"/api/documents", "text/plain", strings.NewReader("x"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: text/plain", domain.ErrUnsupportedType), http.StatusUnsupportedMediaType},
		{domain.ErrNoText, http.StatusBadRequest},
		{domain.ErrDocumentNotFound, http.StatusNotFound},
		{fmt.Errorf("read: %w", domain.ErrFileTooLarge), http.StatusRequestEntityTooLarge},
		{&httpError{Code: http.StatusTeapot, Message: "tea"}, http.StatusTeapot},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
	assert.Equal(t, "Internal server error", userMessage(io.ErrUnexpectedEOF))
	assert.Equal(t, "tea", userMessage(&httpError{Code: http.StatusTeapot, Message: "tea"}))
}

func TestSummarizeInline(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL, map[string]string{"text": report})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	res := decodeBody[domain.Result](t, resp)
	assert.Len(t, res.SelectedSentences, 3)

	resp = postJSON(t, ts.URL, map[string]string{"text": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Upload a file first!", decodeBody[map[string]string](t, resp)["error"])

	resp = postJSON(t, ts.URL, map[string]string{"documentId": "nope"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	bad, err := http.Post(ts.URL+"/api/summarize", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)

	form, err := http.Post(ts.URL+"/api/summarize", "text/plain", strings.NewReader("{}"))
	require.NoError(t, err)
	defer form.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, form.StatusCode)
}

func del(t *testing.T, url string) int {
	t.Helper()
	req, err := http.NewRequest(http.MethodDelete, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestForgetAndClear(t *testing.T) {
	ts, svc := newTestServer(t)

	first := decodeBody[struct {
		Document domain.Document `json:"document"`
	}](t, upload(t, ts.URL, "a.pdf", []byte("%PDF"+report))).Document
	upload(t, ts.URL, "b.pdf", []byte("%PDF"+report))

	assert.Equal(t, http.StatusNoContent, del(t, ts.URL+"/api/documents/"+first.ID))
	assert.Equal(t, http.StatusNotFound, del(t, ts.URL+"/api/documents/"+first.ID))

	_, err := svc.Document("doc-2")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, del(t, ts.URL+"/api/documents"))
	_, err = svc.Document("doc-2")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestWebsocketSummaries(t *testing.T) {
	ts, _ := newTestServer(t)
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(summarizeRequest{Text: report, Length: "long"}))
	var resp wsResponse
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "summary", resp.Type)
	require.NotNil(t, resp.Result)
	assert.Len(t, resp.Result.SelectedSentences, 4)

	require.NoError(t, conn.WriteJSON(summarizeRequest{DocumentID: "missing"}))
	resp = wsResponse{}
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "error", resp.Type)
	assert.Nil(t, resp.Result)
	assert.NotEmpty(t, resp.Error)
}

func TestWebsocketMalformedMessageKeepsConnection(t *testing.T) {
	ts, _ := newTestServer(t)
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	for _, raw := range []string{"{not json", `{"text": 42}`} {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(raw)))
		var resp wsResponse
		require.NoError(t, conn.ReadJSON(&resp))
		assert.Equal(t, "error", resp.Type, raw)
		assert.Equal(t, "Invalid JSON payload", resp.Error, raw)
	}

	require.NoError(t, conn.WriteJSON(summarizeRequest{Text: report}))
	var resp wsResponse
	require.NoError(t, conn.ReadJSON(&resp))
	assert.Equal(t, "summary", resp.Type)
	require.NotNil(t, resp.Result)
	assert.Len(t, resp.Result.SelectedSentences, 3)
}

func TestCheckOrigin(t *testing.T) {
	s := NewServer(Config{AllowedOrigins: []string{"https://docs.example.com"}}, nil, logrus.New())

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{"no origin", "", true},
		{"same host", "http://localhost:8080", true},
		{"allowed", "https://docs.example.com", true},
		{"foreign", "https://evil.example.com", false},
		{"garbage", "://", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "http://localhost:8080/ws", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, s.checkOrigin(r))
		})
	}

	wildcard := NewServer(Config{AllowedOrigins: []string{"*"}}, nil, logrus.New())
	r := httptest.NewRequest(http.MethodGet, "http://localhost:8080/ws", nil)
	r.Header.Set("Origin", "https://anywhere.example")
	assert.True(t, wildcard.checkOrigin(r))
}
