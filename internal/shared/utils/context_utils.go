// Package utils carries request-scoped values through context.Context.
package utils

import (
	"context"

	"agency-cms/internal/shared/contextkeys"
)

// Admin is the authenticated identity attached to a request context
type Admin struct {
	ID    string
	Email string
	Name  string
}

// WithAdmin attaches the authenticated admin to ctx
func WithAdmin(ctx context.Context, id, email, name string) context.Context {
	ctx = context.WithValue(ctx, contextkeys.AdminIDKey, id)
	ctx = context.WithValue(ctx, contextkeys.AdminEmailKey, email)
	if name != "" {
		ctx = context.WithValue(ctx, contextkeys.AdminNameKey, name)
	}
	return ctx
}

// AdminFromContext reports the admin stored by WithAdmin; ok is false on public requests
func AdminFromContext(ctx context.Context) (Admin, bool) {
	id, _ := ctx.Value(contextkeys.AdminIDKey).(string)
	if id == "" {
		return Admin{}, false
	}
	email, _ := ctx.Value(contextkeys.AdminEmailKey).(string)
	name, _ := ctx.Value(contextkeys.AdminNameKey).(string)
	return Admin{ID: id, Email: email, Name: name}, true
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
}

// RequestID returns the id set by the request middleware, or ""
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(contextkeys.RequestIDKey).(string)
	return id
}
