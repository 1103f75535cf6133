package gate

import (
	"sort"
	"strings"
)

// Capabilities is a normalised set of capability names.
type Capabilities struct {
	set map[string]struct{}
}

// NewCapabilities trims, lower-cases and deduplicates names.
func NewCapabilities(names ...string) Capabilities {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	return Capabilities{set: set}
}

// ParseCapabilities splits a comma separated list.
func ParseCapabilities(raw string) Capabilities {
	return NewCapabilities(strings.Split(raw, ",")...)
}

// Has reports whether name is granted.
func (c Capabilities) Has(name string) bool {
	if name == "" {
		return false
	}
	_, ok := c.set[strings.ToLower(name)]
	return ok
}

// HasAll reports whether every name is granted.
func (c Capabilities) HasAll(names ...string) bool {
	for _, name := range names {
		if !c.Has(name) {
			return false
		}
	}
	return true
}

// With returns a superset containing names.
func (c Capabilities) With(names ...string) Capabilities {
	return NewCapabilities(append(c.List(), names...)...)
}

// List returns the names in sorted order.
func (c Capabilities) List() []string {
	out := make([]string, 0, len(c.set))
	for name := range c.set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of granted capabilities.
func (c Capabilities) Len() int {
	return len(c.set)
}
