package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"booking_relay/internal/adapters/observability"
	"booking_relay/internal/app"
	"booking_relay/internal/catalog"
	"booking_relay/internal/domain"
	"booking_relay/internal/i18n"
	"booking_relay/internal/shared"
)

const serviceName = "booking-relay"

type Handlers struct {
	Relay     *app.RelayService
	Catalog   *domain.Catalog
	Limiter   domain.RateLimiter
	ChatID    string
	BodyLimit int64
	Dev       bool
	Clock     shared.Clock
}

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Detail  string `json:"detail,omitempty"`
	Path    string `json:"path,omitempty"`
}

type validationBody struct {
	Success bool                `json:"success"`
	Errors  []domain.FieldError `json:"errors"`
}

type bookingAccepted struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	MessageID    int64  `json:"messageId,omitempty"`
	SubmissionID string `json:"submissionId"`
}

func (s *Server) MountHandlers(h *Handlers) {
	if h.Clock == nil {
		h.Clock = shared.RealClock{}
	}
	s.mux.NotFound(notFound)
	s.mux.MethodNotAllowed(methodNotAllowed)

	s.mux.Route("/api", func(r chi.Router) {
		r.Use(RateLimit(h.Limiter))
		r.Get("/health", h.health)
		r.Post("/booking/submit", h.submitBooking)
		r.Get("/rentals", h.listCatalog(domain.ActionRent))
		r.Get("/products", h.listCatalog(domain.ActionBuy))
		r.Post("/telegram/test", h.telegramTest)
		r.Post("/telegram/webhook", h.telegramWebhook)
		r.Get("/telegram/chat-id", h.telegramChatID)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorBody{
		Error: i18n.T(langOf(r), i18n.EndpointNotFound),
		Path:  r.URL.RequestURI(),
	})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: i18n.T(langOf(r), i18n.MethodNotAllowed)})
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": h.Clock.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		"service":   serviceName,
		"tls":       r.TLS != nil,
	})
}

func (h *Handlers) submitBooking(w http.ResponseWriter, r *http.Request) {
	lang := langOf(r)
	limit := h.BodyLimit
	if limit <= 0 {
		limit = 10 << 10
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	var req domain.BookingRequest
	if err := decodeOne(r.Body, &req); err != nil {
		log.Warn().Err(err).Str("remote", remoteIP(r)).Msg("malformed booking body")
		observability.ObserveBooking("invalid")
		writeJSON(w, http.StatusBadRequest, validationBody{
			Errors: []domain.FieldError{{Field: "body", Message: i18n.T(lang, i18n.BodyInvalid)}},
		})
		return
	}

	meta := domain.RequestMeta{IP: remoteIP(r), UserAgent: r.UserAgent(), ReceivedAt: h.Clock.Now()}
	res, err := h.Relay.Submit(r.Context(), req, meta, lang)
	if err == nil {
		observability.ObserveBooking("delivered")
		writeJSON(w, http.StatusOK, bookingAccepted{
			Success:      true,
			Message:      i18n.T(lang, i18n.BookingSent),
			MessageID:    res.MessageID,
			SubmissionID: res.SubmissionID,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		observability.ObserveBooking("invalid")
		var verrs domain.ValidationErrors
		_ = errors.As(err, &verrs)
		log.Info().Str("remote", meta.IP).Str("errors", verrs.Error()).Msg("booking rejected")
		writeJSON(w, http.StatusBadRequest, validationBody{Errors: verrs})
	case errors.Is(err, domain.ErrConfiguration):
		observability.ObserveBooking("unconfigured")
		log.Error().Err(err).Msg("booking relay is not configured")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: i18n.T(lang, i18n.ConfigurationError)})
	default:
		observability.ObserveBooking("failed")
		body := errorBody{Error: i18n.T(lang, i18n.BookingFailed)}
		if h.Dev {
			body.Detail = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, body)
	}
}

// decodeOne reads exactly one JSON value from body.
func decodeOne(body io.Reader, v any) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

func (h *Handlers) listCatalog(kind domain.ActionType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sections := catalog.Sections(h.Catalog, kind)
		var data any = sections
		lang := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("lang")))
		if lang != "" {
			views := make(map[string][]domain.ItemView, len(sections))
			for key, items := range sections {
				vs := make([]domain.ItemView, 0, len(items))
				for _, it := range items {
					vs = append(vs, it.View(lang))
				}
				views[key] = vs
			}
			data = views
			w.Header().Set("Content-Language", lang)
		}

		etag, body := calcETagAndBody(map[string]any{"success": true, "data": data})
		if body == nil {
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: i18n.T(lang, i18n.InternalServerError)})
			return
		}
		// If client already has this version, short-circuit.
		if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
			w.Header().Set("ETag", etag)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", etag)
		w.Header().Set("Cache-Control", "public, max-age=300")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			log.Error().Err(err).Msg("failed to write catalog body")
		}
	}
}

func (h *Handlers) telegramTest(w http.ResponseWriter, r *http.Request) {
	lang := langOf(r)
	d, err := h.Relay.SendTest(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"message":   i18n.T(lang, i18n.TestSent),
			"messageId": d.MessageID,
		})
	case errors.Is(err, domain.ErrConfiguration):
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: i18n.T(lang, i18n.ConfigurationError)})
	default:
		log.Error().Err(err).Msg("telegram test message failed")
		body := errorBody{Error: i18n.T(lang, i18n.InternalServerError)}
		if h.Dev {
			body.Detail = err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, body)
	}
}

// update is the subset of a Bot API Update the webhook logs.
type update struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
		From struct {
			Username  string `json:"username"`
			FirstName string `json:"first_name"`
		} `json:"from"`
	} `json:"message"`
}

func (h *Handlers) telegramWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var u update
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"ok": false})
		return
	}
	ev := log.Info().Int64("update_id", u.UpdateID)
	if m := u.Message; m != nil {
		username := m.From.Username
		if username == "" {
			username = "no_username"
		}
		ev = ev.Int64("chat_id", m.Chat.ID).
			Str("username", username).
			Str("first_name", m.From.FirstName).
			Str("text", m.Text)
	}
	ev.Msg("telegram update received")
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handlers) telegramChatID(w http.ResponseWriter, _ *http.Request) {
	if h.ChatID == "" {
		writeJSON(w, http.StatusOK, map[string]string{"chatId": "Not configured", "status": "missing"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"chatId": maskID(h.ChatID), "status": "configured"})
}

// maskID keeps the last four characters.
func maskID(id string) string {
	r := []rune(id)
	if len(r) <= 4 {
		return strings.Repeat("*", len(r))
	}
	return strings.Repeat("*", len(r)-4) + string(r[len(r)-4:])
}
