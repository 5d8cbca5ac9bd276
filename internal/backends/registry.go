package backends

import (
	"fmt"

	"github.com/iscsikit/iscsiconf/pkg/propstore"
)

// Registry manages property store backend creation.
type Registry struct {
	supportedTypes map[string]bool
}

// NewRegistry creates a registry with the built-in backends.
func NewRegistry() *Registry {
	registry := &Registry{
		supportedTypes: make(map[string]bool),
	}

	backendTypes := []string{
		"memory",
		"file",
		"bolt",
	}

	for _, backendType := range backendTypes {
		registry.supportedTypes[backendType] = true
	}

	return registry
}

// Open creates a property store of the given backend type. An empty path
// selects the default location for the application identifier.
func (r *Registry) Open(backendType, appID, path string) (propstore.Store, error) {
	if !r.IsSupported(backendType) {
		return nil, fmt.Errorf("unknown property store backend: %s", backendType)
	}

	switch backendType {
	case "memory":
		return NewMemoryStore(), nil
	case "file":
		if path == "" {
			path = DefaultFilePath(appID)
		}
		return NewFileStore(path), nil
	case "bolt":
		if path == "" {
			path = DefaultBoltPath(appID)
		}
		return NewBoltStore(path)
	}

	// Unreachable; IsSupported gates the switch.
	return nil, fmt.Errorf("unknown property store backend: %s", backendType)
}

// GetSupportedTypes returns a list of supported backend types.
func (r *Registry) GetSupportedTypes() []string {
	types := make([]string, 0, len(r.supportedTypes))
	for backendType := range r.supportedTypes {
		types = append(types, backendType)
	}
	return types
}

// IsSupported checks if a backend type is supported.
func (r *Registry) IsSupported(backendType string) bool {
	return r.supportedTypes[backendType]
}
