package domain

import "strings"

const FlagBasic = "basic"
const FlagDetails = "details"

// Flags is an ordered set of capability tags. Order is kept for display and
// the wire; membership is what matters for coverage.
type Flags []string

func ParseFlags(raw string) Flags {
	return NewFlags(strings.Split(raw, ",")...)
}

func NewFlags(tags ...string) Flags {
	flags := make(Flags, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		flags = append(flags, trimmed)
	}

	return flags
}

func (f Flags) Contains(tag string) bool {
	for _, existing := range f {
		if existing == tag {
			return true
		}
	}
	return false
}

// Covers reports whether every tag in required is present in f.
func (f Flags) Covers(required Flags) bool {
	for _, tag := range required {
		if !f.Contains(tag) {
			return false
		}
	}
	return true
}

func (f Flags) With(tags ...string) Flags {
	merged := make([]string, 0, len(f)+len(tags))
	merged = append(merged, f...)
	merged = append(merged, tags...)
	return NewFlags(merged...)
}

func (f Flags) String() string {
	return strings.Join(f, ",")
}
