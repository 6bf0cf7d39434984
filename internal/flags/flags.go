// Package flags provides the feature flags read from the "flags" config map.
// Flags are read-only after initialization. Known flags fall back to their
// defaults when absent; unknown flags are disabled.
package flags

import (
	"maps"

	"github.com/zjrosen/marginalia/internal/log"
)

// Flag names.
const (
	// FlagNormalizeOnSave round-trips raw HTML through the codec before it is stored.
	FlagNormalizeOnSave = "normalize-on-save"

	// FlagMarkdownExport enables the markdown export format.
	FlagMarkdownExport = "markdown-export"
)

var defaults = map[string]bool{
	FlagNormalizeOnSave: true,
	FlagMarkdownExport:  true,
}

// Defaults returns a copy of the built-in flag values.
func Defaults() map[string]bool {
	return maps.Clone(defaults)
}

// Registry holds feature flag state loaded from configuration.
type Registry struct {
	flags map[string]bool
}

// New creates a Registry from a config map layered over the defaults.
func New(flags map[string]bool) *Registry {
	merged := Defaults()
	maps.Copy(merged, flags)
	r := &Registry{flags: merged}
	log.Debug(log.CatConfig, "Feature flags initialized", "count", len(merged), "flags", merged)
	return r
}

// Enabled returns true if the named flag is enabled.
// Returns false for unknown flags and on a nil registry.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	value, exists := r.flags[name]
	if !exists {
		log.Debug(log.CatConfig, "Unknown flag accessed", "flag", name)
		return false
	}
	return value
}

// All returns a copy of all flags. Returns an empty map if the registry is nil.
func (r *Registry) All() map[string]bool {
	if r == nil {
		return make(map[string]bool)
	}
	return maps.Clone(r.flags)
}
