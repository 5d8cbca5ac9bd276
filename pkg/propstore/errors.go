package propstore

// StoreError wraps a backend failure with enough context to tell which
// operation on which key went wrong. Absent keys are not errors; this type
// covers genuine I/O and serialization failures.
type StoreError struct {
	// Backend is the backend type name, e.g. "file" or "bolt".
	Backend string

	// Op is the failed operation: "copy", "set", "synchronize" or "open".
	Op string

	// Key is the logical key involved, if any.
	Key string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e StoreError) Error() string {
	msg := "property store " + e.Op + " failed"
	if e.Backend != "" {
		msg += " (backend " + e.Backend + ")"
	}
	if e.Key != "" {
		msg += " for key " + `"` + e.Key + `"`
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e StoreError) Unwrap() error {
	return e.Err
}
