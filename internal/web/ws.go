package web

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"docsum/internal/domain"
)

const (
	wsMaxMessageBytes = 1 << 20
	wsWriteWait       = 10 * time.Second
)

type wsResponse struct {
	Type   string         `json:"type"`
	Result *domain.Result `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// handleWebsocket answers summarize requests on a long-lived connection so the
// page can switch length tiers without uploading again.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsMaxMessageBytes)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.WithError(err).Debug("websocket closed")
			}
			return
		}
		resp := s.answer(data)
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(resp); err != nil {
			s.log.WithError(err).Debug("websocket write failed")
			return
		}
	}
}

// answer handles one websocket message. A malformed message gets an error
// reply and leaves the connection open.
func (s *Server) answer(data []byte) wsResponse {
	var req summarizeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return wsResponse{Type: "error", Error: "Invalid JSON payload"}
	}
	res, err := s.summarize(req)
	if err != nil {
		return wsResponse{Type: "error", Error: userMessage(err)}
	}
	return wsResponse{Type: "summary", Result: &res}
}

// checkOrigin allows same-host pages plus any configured origins.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}
