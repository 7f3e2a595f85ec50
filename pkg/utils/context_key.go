package utils

// ContextKey is the key type for request-scoped auth values.
type ContextKey string
