package topic

import "strings"

// Topic names a notification with dot-separated segments, for example
// "page.sections.changed". A subscription pattern may also use the
// wildcards below.
type Topic string

const (
	// Any matches exactly one segment.
	Any = "*"
	// Rest matches zero or more segments.
	Rest = "**"
)

func (t Topic) String() string { return string(t) }

// Segments splits t on dots. The empty topic has no segments.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), ".")
}

// IsValid reports whether t is non-empty and has no empty segment.
func (t Topic) IsValid() bool {
	if t == "" {
		return false
	}
	for _, seg := range t.Segments() {
		if seg == "" {
			return false
		}
	}
	return true
}

// IsPattern reports whether t contains a wildcard segment.
func (t Topic) IsPattern() bool {
	for _, seg := range t.Segments() {
		if seg == Any || seg == Rest {
			return true
		}
	}
	return false
}

// Matches reports whether the concrete topic t is selected by pattern.
func (t Topic) Matches(pattern Topic) bool {
	segs, pat := t.Segments(), pattern.Segments()

	// reach[i] is true when the pattern consumed so far can end right
	// before segs[i].
	reach := make([]bool, len(segs)+1)
	reach[0] = true
	for _, p := range pat {
		next := make([]bool, len(segs)+1)
		switch p {
		case Rest:
			on := false
			for i := range reach {
				on = on || reach[i]
				next[i] = on
			}
		default:
			for i := 0; i < len(segs); i++ {
				if reach[i] && (p == Any || p == segs[i]) {
					next[i+1] = true
				}
			}
		}
		reach = next
	}
	return reach[len(segs)]
}
