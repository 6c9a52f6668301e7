package domain

import (
	"errors"  // Sentinel errors
	"sort"    // Stable field order
	"strings" // Message joining
)

var (
	ErrNotFound           = errors.New("not found")                    // Missing user or feedback
	ErrInvalidCredentials = errors.New("invalid username or password") // Generic login failure
	ErrUnauthenticated    = errors.New("authentication required")      // No active session
	ErrForbidden          = errors.New("permission denied")            // Session does not own the resource
)

// Conflict reports which unique fields are already taken. Both flags may be set.
type Conflict struct {
	Username bool
	Email    bool
}

// Any reports whether at least one field conflicts
func (c Conflict) Any() bool { return c.Username || c.Email }

// ConflictError is returned when a username or email is already registered
type ConflictError struct {
	Conflict
}

func (e *ConflictError) Error() string {
	var fields []string
	if e.Username {
		fields = append(fields, "username")
	}
	if e.Email {
		fields = append(fields, "email")
	}
	if len(fields) == 0 {
		return "conflict"
	}
	return strings.Join(fields, " and ") + " already taken"
}

// Messages returns one user-facing line per conflicting field
func (e *ConflictError) Messages() []string {
	var out []string
	if e.Username {
		out = append(out, "Username already exists. Please choose a different one.")
	}
	if e.Email {
		out = append(out, "Email already exists. Please choose a different one.")
	}
	return out
}

// ValidationError maps form field names to the message shown next to them
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "invalid fields: " + strings.Join(keys, ", ")
}
