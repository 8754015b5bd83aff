// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const keySubject ctxKey = "subject"

// WithRequest annotates context with the request id
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID != "" {
		// set chi RequestID so chimw.GetReqID can retrieve it
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	return ctx
}

// subjectHolder is a mutable cell so inner middleware can publish the
// authenticated subject to outer middleware that installed the holder
// before the handler ran
type subjectHolder struct{ s string }

// WithSubjectHolder installs an empty subject cell on the context
// outer middleware (the access log) calls this; inner middleware fills it
func WithSubjectHolder(ctx context.Context) context.Context {
	return context.WithValue(ctx, keySubject, &subjectHolder{})
}

// SetSubject records the authenticated caller subject when a holder exists
func SetSubject(ctx context.Context, subject string) {
	if h, ok := ctx.Value(keySubject).(*subjectHolder); ok {
		h.s = subject
	}
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	return chimw.GetReqID(ctx)
}

// Subject returns the authenticated caller subject if present
func Subject(ctx context.Context) string {
	if h, ok := ctx.Value(keySubject).(*subjectHolder); ok {
		return h.s
	}
	return ""
}
