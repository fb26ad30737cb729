package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"

	"moves/store"
)

const (
	recentLimit  = 10
	maxFormBytes = 64 << 10
)

type Handlers struct {
	store   store.Store
	title   string
	log     *slog.Logger
	metrics *Metrics
}

func NewHandlers(st store.Store, title string, log *slog.Logger, metrics *Metrics) *Handlers {
	return &Handlers{
		store:   st,
		title:   title,
		log:     log,
		metrics: metrics,
	}
}

// Moves records a submission on POST and always renders the latest moves.
func (h *Handlers) Moves(w http.ResponseWriter, r *http.Request) {
	data := &pageData{
		Title:     h.title,
		Action:    r.URL.Path,
		CSRFField: csrf.TemplateField(r),
	}

	var sub *submission
	if r.Method == http.MethodPost {
		r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
		sub = readSubmission(r)
	}

	if err := h.load(r.Context(), data, sub, clientIP(r)); err != nil {
		msg := "failed to read moves"
		if errors.Is(err, store.ErrStoreUnavailable) {
			h.metrics.storeUnavailable.Inc()
			msg = "store unavailable"
		}
		h.log.Error(msg,
			"error", err,
			"request_id", requestIDFromContext(r.Context()),
		)
		http.Error(w, msgUnavailable, http.StatusServiceUnavailable)
		return
	}

	if err := renderPage(w, data); err != nil {
		h.log.Error("failed to render page",
			"error", err,
			"request_id", requestIDFromContext(r.Context()),
		)
	}
}

// load runs the store work for one request on a single connection that is
// released before anything is written to the client. Only a store outage is
// returned; a rejected write becomes a flash message.
func (h *Handlers) load(ctx context.Context, data *pageData, sub *submission, ip string) error {
	conn, err := h.store.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if sub != nil {
		data.Flash, err = h.record(ctx, conn, sub, ip)
		if err != nil {
			return err
		}
	}

	moves, err := conn.ListRecent(ctx, recentLimit)
	if err != nil {
		return err
	}
	data.Moves = toViews(moves)
	return nil
}

func (h *Handlers) record(ctx context.Context, conn *store.Conn, sub *submission, ip string) (*flash, error) {
	requestID := requestIDFromContext(ctx)

	var tooLarge *http.MaxBytesError
	if errors.As(sub.err, &tooLarge) {
		h.metrics.submission(outcomeInvalid)
		h.log.Info("submission too large", "limit", tooLarge.Limit, "ip", ip, "request_id", requestID)
		return errorFlash(msgTooLarge), nil
	}
	if sub.err != nil {
		h.log.Info("unreadable form", "error", sub.err, "ip", ip, "request_id", requestID)
	}

	if !sub.complete() {
		h.metrics.submission(outcomeInvalid)
		h.log.Info("incomplete submission", "ip", ip, "request_id", requestID)
		return errorFlash(msgMissingFields), nil
	}

	id, err := conn.Insert(ctx, sub.Name, sub.Email, sub.Move, ip)
	switch {
	case errors.Is(err, store.ErrStoreUnavailable):
		return nil, err
	case err != nil:
		h.metrics.submission(outcomeWriteFailed)
		h.log.Error("failed to record move", "error", err, "request_id", requestID)
		return errorFlash(msgWriteFailed), nil
	}

	h.metrics.submission(outcomeRecorded)
	h.log.Info("move recorded", "id", id, "ip", ip, "request_id", requestID)
	return successFlash(msgRecorded), nil
}

type submission struct {
	Name  string
	Email string
	Move  string
	err   error
}

// readSubmission trims the posted fields. An unreadable body yields an
// empty, and therefore incomplete, submission carrying the parse error.
func readSubmission(r *http.Request) *submission {
	if err := r.ParseForm(); err != nil {
		return &submission{err: err}
	}
	return &submission{
		Name:  strings.TrimSpace(r.PostForm.Get("name")),
		Email: strings.TrimSpace(r.PostForm.Get("email")),
		Move:  strings.TrimSpace(r.PostForm.Get("move")),
	}
}

func (s *submission) complete() bool {
	return s.Name != "" && s.Email != "" && s.Move != ""
}
