package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/gateway"
	"fintrack/internal/log"
	"fintrack/internal/middleware/trace"
)

// context30 bounds a handler's gateway work, covering pages that fan out
// several gateway calls.
func context30(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 30*time.Second)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// formID reads a positive integer id from form or query data.
func formID(r *http.Request, key string) (int64, bool) {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// formAmount parses a user-typed positive amount into Money.
func formAmount(r *http.Request, key string) (core.Money, error) {
	cents, err := core.ParseAmountToCents(sanitizeInput(r.FormValue(key)))
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

// render executes a named template, logging failures. Handlers that need a
// non-200 status must write the header before calling render.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "templates not loaded",
			log.FieldOperation, log.OpRender, log.FieldPath, r.URL.Path,
			log.FieldRequestID, trace.RequestID(r.Context()))
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "template execution failed",
			log.FieldOperation, log.OpRender, log.FieldError, err, "template", name,
			log.FieldRequestID, trace.RequestID(r.Context()))
	}
}

// formAmountValue renders an amount the way the amount inputs accept it,
// e.g. "120,50".
func formAmountValue(m core.Money) string {
	cents := m.Cents
	if cents < 0 {
		cents = -cents
	}
	return strconv.FormatInt(cents/100, 10) + "," + fmt.Sprintf("%02d", cents%100)
}

// statusForGatewayError maps a gateway failure onto the status of the page
// rendered around it.
func statusForGatewayError(err error) int {
	switch {
	case gateway.IsBusiness(err):
		return http.StatusUnprocessableEntity
	case gateway.IsNotFound(err):
		return http.StatusNotFound
	case gateway.IsUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func methodNotAllowed(w http.ResponseWriter, allow string) {
	w.Header().Set("Allow", allow)
	w.WriteHeader(http.StatusMethodNotAllowed)
}
