package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "agency-cms context key " + string(c)
}

const (
	// AdminIDKey is the key for the authenticated admin's ID in context.Context
	AdminIDKey = contextKey("adminID")
	// AdminEmailKey is the key for the authenticated admin's email in context.Context
	AdminEmailKey = contextKey("adminEmail")
	// AdminNameKey is the key for the authenticated admin's display name
	AdminNameKey = contextKey("adminName")
	// RequestIDKey is the key for the request ID set by the requestid middleware
	RequestIDKey = contextKey("requestID")
)
