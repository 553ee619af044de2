package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// --- Sentinel Errors for Categorization ---
var (
	ErrRetryFailed       = errors.New("request failed after all retries") // Wraps the last underlying error
	ErrClientHTTPError   = errors.New("client HTTP error (4xx)")
	ErrServerHTTPError   = errors.New("server HTTP error (5xx)")
	ErrOtherHTTPError    = errors.New("other HTTP error (non-2xx)")
	ErrRobotsDisallowed  = errors.New("disallowed by robots.txt")
	ErrScopeViolation    = errors.New("URL out of scope (origin/pattern)")
	ErrInvalidSeed       = errors.New("invalid seed URL")
	ErrRenderFailed      = errors.New("page render failed")
	ErrNoPagesRendered   = errors.New("could not extract from this source: no pages rendered")
	ErrVisionUnavailable = errors.New("vision capability unavailable")
	ErrVisionFailed      = errors.New("vision analysis failed")
	ErrParsing           = errors.New("parsing error") // Wraps specific parsing error (HTML, URL, JSON, XML)
	ErrDatabase          = errors.New("database error")
	ErrRequestCreation   = errors.New("failed to create HTTP request")
	ErrResponseBodyRead  = errors.New("failed to read response body")
	ErrConfigValidation  = errors.New("configuration validation error")
)

// WrapErrorf wraps sentinel with a formatted message, keeping it matchable with errors.Is
func WrapErrorf(sentinel error, format string, args ...any) error {
	if sentinel == nil {
		return nil
	}
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// CategorizeError maps an error to a category string for logging.
func CategorizeError(err error) string {
	if err == nil {
		return "None"
	}

	switch {
	case errors.Is(err, ErrRetryFailed):
		// errors.Is walks both branches of a "%w: %w" wrap
		if errors.Is(err, ErrServerHTTPError) {
			return "RetryFailed_HTTPServer"
		}
		if errors.Is(err, ErrClientHTTPError) {
			return "RetryFailed_HTTPClient"
		}
		if errors.Unwrap(err) == nil && err == ErrRetryFailed {
			return "RetryFailed_Unknown"
		}
		return "RetryFailed_" + networkCategory(err)
	case errors.Is(err, ErrClientHTTPError):
		errMsg := err.Error()
		for _, code := range []string{"404", "403", "401", "429"} {
			if strings.Contains(errMsg, " "+code+" ") {
				return "HTTP_" + code
			}
		}
		return "HTTP_4xx"
	case errors.Is(err, ErrServerHTTPError):
		return "HTTP_5xx"
	case errors.Is(err, ErrOtherHTTPError):
		return "HTTP_OtherStatus"
	case errors.Is(err, ErrRobotsDisallowed):
		return "Policy_Robots"
	case errors.Is(err, ErrScopeViolation):
		return "Policy_Scope"
	case errors.Is(err, ErrInvalidSeed):
		return "Crawl_InvalidSeed"
	case errors.Is(err, ErrNoPagesRendered):
		return "Crawl_NoPages"
	case errors.Is(err, ErrVisionUnavailable):
		return "Vision_Unavailable"
	case errors.Is(err, ErrVisionFailed):
		return "Vision_Failed"
	case errors.Is(err, ErrParsing):
		errMsg := err.Error()
		for _, kind := range []string{"URL", "HTML", "JSON", "XML"} {
			if strings.Contains(errMsg, kind) {
				return "Content_Parsing" + kind
			}
		}
		return "Content_ParsingOther"
	case errors.Is(err, ErrDatabase):
		return "Database_Other"
	case errors.Is(err, ErrRequestCreation):
		return "Internal_RequestCreation"
	case errors.Is(err, ErrResponseBodyRead):
		return "Network_BodyRead"
	case errors.Is(err, ErrConfigValidation):
		return "Config_Validation"
	case errors.Is(err, ErrRenderFailed):
		// Render errors usually wrap a context or network cause
		if errors.Is(err, context.DeadlineExceeded) {
			return "Render_Timeout"
		}
		return "Render_Failed"
	}

	if errors.Is(err, context.Canceled) {
		return "System_ContextCanceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "System_ContextDeadlineExceeded"
	}
	return networkCategory(err)
}

func networkCategory(err error) string {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "Network_Timeout"
	}
	lowerErrMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lowerErrMsg, "timeout"), strings.Contains(lowerErrMsg, "deadline exceeded"):
		return "Network_TimeoutGeneric"
	case strings.Contains(lowerErrMsg, "connection refused"):
		return "Network_ConnectionRefused"
	case strings.Contains(lowerErrMsg, "no such host"):
		return "Network_DNSLookup"
	case strings.Contains(lowerErrMsg, "tls"), strings.Contains(lowerErrMsg, "certificate"):
		return "Network_TLS"
	case strings.Contains(lowerErrMsg, "reset by peer"):
		return "Network_ConnectionReset"
	case strings.Contains(lowerErrMsg, "broken pipe"):
		return "Network_BrokenPipe"
	}
	return "Unknown"
}
