package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// TransportError is a failure reported by the backend or by the way to it.
// Status follows HTTP semantics whatever the transport; 0 means no response
// was received.
type TransportError struct {
	Status  int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	switch {
	case e.Status == 0:
		return fmt.Sprintf("Erreur: %s", e.Message)
	case e.Message == "":
		return fmt.Sprintf("Erreur %d", e.Status)
	default:
		return fmt.Sprintf("Erreur %d: %s", e.Status, e.Message)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is lets callers match transport failures against the package sentinels.
func (e *TransportError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrUnavailable:
		return e.Status == 0 || e.Status == http.StatusBadGateway ||
			e.Status == http.StatusServiceUnavailable || e.Status == http.StatusGatewayTimeout
	}
	return false
}
