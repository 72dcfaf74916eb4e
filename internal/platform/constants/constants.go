// Copyright (c) 2026 camp-sub001 contributors.

/*
Package constants centralizes the timeouts, header names, and field
identifiers shared by ayano's middleware chain and handlers, so they are not
duplicated as magic strings across the HTTP layer.
*/
package constants

import "time"

const (
	AppName    = "camp"
	AppVersion = "0.1.0-dev"
)

// Server timing.
const (
	DefaultReadTimeout       = 5 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
	DefaultReadHeaderTimeout = 2 * time.Second
	GlobalRequestTimeout     = 30 * time.Second
	ShutdownTimeout          = 30 * time.Second
)

// Rate limiting.
const (
	DefaultRateLimitRPS      = 20.0
	DefaultRateLimitBurst    = 40
	RateLimitCleanupInterval = 1 * time.Minute
	RateLimitClientTTL       = 3 * time.Minute
)

// HTTP header names.
const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
)

// JSON field identifiers.
const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldMessage = "message"
)
