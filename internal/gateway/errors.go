package gateway

import (
	"errors"
	"fmt"
)

// Kind classifies a gateway failure so call sites can react per policy:
// business rejections surface the server's own message, not-found redirects
// to a listing page, everything else renders a generic notification.
type Kind int

const (
	// KindTransport covers connection, timeout and malformed-response failures.
	KindTransport Kind = iota
	// KindNotFound is a 404 for an entity that no longer exists.
	KindNotFound
	// KindBusiness is a server-rejected business rule (e.g. insufficient
	// balance, duplicate constraint). Message carries the server's reason.
	KindBusiness
	// KindInternal is a 5xx from the gateway.
	KindInternal
	// KindUnavailable means the circuit breaker is open; no request was sent.
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindNotFound:
		return "not_found"
	case KindBusiness:
		return "business"
	case KindInternal:
		return "internal"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Error is the typed failure returned by every client method.
type Error struct {
	Kind    Kind
	Status  int
	Op      string
	Message string
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("gateway %s: %s (%s, status %d)", e.Op, e.Message, e.Kind, e.Status)
	}
	return fmt.Sprintf("gateway %s: %s (%s)", e.Op, e.Message, e.Kind)
}

// Reason returns the user-facing message for this failure.
func (e *Error) Reason() string {
	return e.Message
}

func isKind(err error, k Kind) bool {
	var ge *Error
	return errors.As(err, &ge) && ge.Kind == k
}

// IsNotFound reports whether err is a gateway not-found.
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }

// IsBusiness reports whether err is a server-rejected business rule.
func IsBusiness(err error) bool { return isKind(err, KindBusiness) }

// IsUnavailable reports whether err comes from an open circuit breaker.
func IsUnavailable(err error) bool { return isKind(err, KindUnavailable) }

// UserMessage extracts a message suitable for display: the server's reason
// for business rejections, a generic fallback otherwise.
func UserMessage(err error, fallback string) string {
	var ge *Error
	if errors.As(err, &ge) && ge.Kind == KindBusiness && ge.Message != "" {
		return ge.Message
	}
	return fallback
}
