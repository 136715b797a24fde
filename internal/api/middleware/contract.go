package middleware

import (
	"time"

	"github.com/m04kA/SMC-EventScheduling/pkg/auth"
)

// TokenParser verifies bearer tokens
type TokenParser interface {
	ParseValidate(token string) (*auth.Claims, error)
}

// Metrics records served requests
type Metrics interface {
	RecordHTTPRequest(method, path string, status int, duration time.Duration)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
