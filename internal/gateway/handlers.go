package gateway

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/soyeahso/adaudit/internal/channel/telegram"
	"github.com/soyeahso/adaudit/internal/domain"
	"github.com/soyeahso/adaudit/internal/version"
)

// HealthResponse is returned by /healthz.
type HealthResponse struct {
	Status   string                 `json:"status"`
	Version  string                 `json:"version"`
	Uptime   string                 `json:"uptime"`
	Channels []domain.ChannelStatus `json:"channels,omitempty"`
}

func handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "ok")
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: version.Version,
		Uptime:  s.uptime().Truncate(time.Second).String(),
	}
	if s.channels != nil {
		resp.Channels = s.channels.Status()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// handleTelegramWebhook answers 401 for a bad secret, 500 when the turn
// failed and 200 "OK" otherwise. The secret may come from the ?secret=
// query or Telegram's X-Telegram-Bot-Api-Secret-Token header.
func (s *Server) handleTelegramWebhook(w http.ResponseWriter, r *http.Request) {
	secret := r.URL.Query().Get("secret")
	if secret == "" {
		secret = r.Header.Get("X-Telegram-Bot-Api-Secret-Token")
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUpdateBytes))
	if err != nil {
		writeText(w, http.StatusRequestEntityTooLarge, "ERROR")
		return
	}

	if err := s.telegram.HandleUpdate(r.Context(), secret, body); err != nil {
		if errors.Is(err, telegram.ErrUnauthorized) {
			s.log.Warn().Str("remote", r.RemoteAddr).Msg("webhook secret mismatch")
			writeText(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		s.log.Error().Err(err).Msg("webhook update failed")
		writeText(w, http.StatusInternalServerError, "ERROR")
		return
	}
	writeText(w, http.StatusOK, "OK")
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": "not found",
		"path":  r.URL.Path,
	})
}

func writeText(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, body)
}
