package collector

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Kind classifies a fetch failure so callers can branch on it: the dashboard
// gives different guidance for "daily quota spent" (try tomorrow) than for a
// per-minute throttle (wait 60s).
type Kind int

const (
	KindConfiguration Kind = iota
	KindTransport
	KindQuotaExhausted
	KindThrottled
	KindInvalidSymbol
	KindNoData
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindTransport:
		return "transport"
	case KindQuotaExhausted:
		return "quota exhausted"
	case KindThrottled:
		return "throttled"
	case KindInvalidSymbol:
		return "invalid symbol"
	case KindNoData:
		return "no data"
	case KindMalformed:
		return "malformed response"
	default:
		return "unknown"
	}
}

// Error is a classified fetch failure. Message is already redacted.
type Error struct {
	Kind    Kind
	Symbol  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Symbol != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Symbol, msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the Kind from err, or ok=false if err carries none.
func KindOf(err error) (Kind, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return 0, false
}

// tokenPattern matches provider API keys embedded in error text: long runs
// of uppercase alphanumerics never occur in the provider's prose.
var tokenPattern = regexp.MustCompile(`\b[A-Z0-9]{16,}\b`)

// redact strips the configured API key and any key-shaped token from a
// provider message before it is surfaced to callers or logs.
func redact(msg, apiKey string) string {
	if apiKey != "" {
		msg = strings.ReplaceAll(msg, apiKey, "[REDACTED]")
	}
	return tokenPattern.ReplaceAllString(msg, "[REDACTED]")
}
