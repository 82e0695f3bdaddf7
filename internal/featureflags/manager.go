// Package featureflags evaluates runtime switches configured through FEATURE_FLAGS.
package featureflags

import (
	"sort"
	"strings"
)

// Known flags.
const (
	// AdminPanel exposes the /admin/posts JSON surface.
	AdminPanel = "admin_panel"
	// SanitizePostHTML passes admin-authored post bodies through an HTML sanitizer.
	SanitizePostHTML = "sanitize_post_html"
	// CommentMirror forwards stored comments to the remote mirror.
	CommentMirror = "comment_mirror"
)

var defaults = map[string]string{
	AdminPanel:       "on",
	SanitizePostHTML: "off",
	CommentMirror:    "on",
}

// Manager evaluates feature flags defined in a simple key=value list.
// Example: "admin_panel=off,sanitize_post_html=on"
type Manager struct {
	flags map[string]string
}

// NewManager creates a feature-flag manager from a comma-separated config string.
// Flags missing from raw keep their built-in default.
func NewManager(raw string) *Manager {
	out := make(map[string]string, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := normalize(parts[0])
		value := normalize(parts[1])
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}

	return &Manager{flags: out}
}

// Enabled returns whether a flag is switched on.
// Supported values:
// - on/true/1
// - off/false/0
// Anything else, and unknown flags, evaluate to false.
func (m *Manager) Enabled(name string) bool {
	if m == nil {
		return false
	}

	switch m.flags[normalize(name)] {
	case "on", "true", "1":
		return true
	}
	return false
}

// Raw returns a copy of configured flags.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.flags))
	for k, v := range m.flags {
		out[k] = v
	}
	return out
}

// Snapshot returns the evaluated status of every configured flag.
func (m *Manager) Snapshot() map[string]bool {
	out := make(map[string]bool, len(m.flags))
	for name := range m.flags {
		out[name] = m.Enabled(name)
	}
	return out
}

// Names returns the configured flag names in sorted order.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.flags))
	for name := range m.flags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
