package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// FetchKind labels why a search page could not be fetched.
type FetchKind string

const (
	KindTimeout     FetchKind = "timeout"
	KindConnection  FetchKind = "connection"
	KindForbidden   FetchKind = "forbidden"
	KindNotFound    FetchKind = "not_found"
	KindRateLimited FetchKind = "rate_limited"
	// KindBlocked is a bot-check interstitial served instead of results.
	KindBlocked FetchKind = "blocked"
)

// ErrBlocked is wrapped by fetch errors for bot-check pages.
var ErrBlocked = errors.New("bot check page served")

// FetchError is a classified page fetch failure.
type FetchError struct {
	Kind   FetchKind
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func errorTypeLabel(err error) string {
	if err == nil {
		return "unknown"
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return string(fe.Kind)
	}
	return "other"
}

func classifyError(err error, statusCode int) error {
	if err == nil && statusCode == 0 {
		return nil
	}

	if errors.Is(err, ErrBlocked) {
		return &FetchError{Kind: KindBlocked, Status: statusCode, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &FetchError{Kind: KindTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &FetchError{Kind: KindTimeout, Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &FetchError{Kind: KindConnection, Err: err}
	}

	if statusCode != 0 {
		wrapped := err
		if wrapped == nil {
			wrapped = fmt.Errorf("http status %d", statusCode)
		}
		switch statusCode {
		case http.StatusForbidden:
			return &FetchError{Kind: KindForbidden, Status: statusCode, Err: wrapped}
		case http.StatusNotFound:
			return &FetchError{Kind: KindNotFound, Status: statusCode, Err: wrapped}
		case http.StatusTooManyRequests:
			return &FetchError{Kind: KindRateLimited, Status: statusCode, Err: wrapped}
		case http.StatusServiceUnavailable:
			return &FetchError{Kind: KindBlocked, Status: statusCode, Err: wrapped}
		}
	}

	return err
}

var blockedMarkers = [][]byte{
	[]byte("/errors/validateCaptcha"),
	[]byte("Type the characters you see in this image"),
	[]byte("<title>Robot Check</title>"),
	[]byte("api-services-support@amazon.com"),
}

// isBlockedPage reports whether body is a bot-check page rather than
// search results.
func isBlockedPage(body []byte) bool {
	for _, marker := range blockedMarkers {
		if bytes.Contains(body, marker) {
			return true
		}
	}
	return false
}
