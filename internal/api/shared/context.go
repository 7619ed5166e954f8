package shared

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ContextKey is the type of context keys owned by the api packages.
type ContextKey string

const (
	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"

	// TraceIDHeader carries the trace ID in requests and responses.
	TraceIDHeader = "X-Trace-ID"

	// TraceIDLength is the number of bytes of a trace ID (32 hex characters).
	TraceIDLength = 16
)

var fallbackSeq atomic.Uint32

// SetTraceID adds a freshly generated trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// WithTraceID adds id to the context when it is a well-formed trace ID and
// generates a new one otherwise.
func WithTraceID(ctx context.Context, id string) context.Context {
	if !ValidTraceID(id) {
		return SetTraceID(ctx)
	}
	return context.WithValue(ctx, TraceIDKey, strings.ToLower(id))
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// ValidTraceID reports whether id is 32 hex characters.
func ValidTraceID(id string) bool {
	if len(id) != TraceIDLength*2 {
		return false
	}
	_, err := hex.DecodeString(id)
	return err == nil
}

// generateTraceID returns a random version 4 UUID as 32 hex characters.
func generateTraceID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		slog.Error("failed to generate random trace ID",
			"error", err,
			"fallback", "time-based generation")
		return generateFallbackTraceID()
	}
	return hex.EncodeToString(id[:])
}

// generateFallbackTraceID builds a trace ID from the clock and a process-wide
// sequence number, so two IDs generated in the same nanosecond still differ.
func generateFallbackTraceID() string {
	b := make([]byte, TraceIDLength)
	binary.BigEndian.PutUint64(b[:8], uint64(time.Now().UnixNano()))
	binary.BigEndian.PutUint32(b[8:12], fallbackSeq.Add(1))
	binary.BigEndian.PutUint32(b[12:], uint32(time.Now().Unix()))
	return hex.EncodeToString(b)
}
