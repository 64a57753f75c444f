package signal

import "strings"

// Topic is a dotted signal name.
type Topic string

// Wildcards and separator used in topic patterns.
const (
	WildcardSingle = "*"
	WildcardMulti  = "**"
	Separator      = "."
)

// Segments returns the topic split by the separator.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// IsValid returns true if the topic is non-empty and has no empty segments.
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

// Matches reports whether the concrete topic t matches pattern.
func (t Topic) Matches(pattern Topic) bool {
	return matchSegments(pattern.Segments(), t.Segments())
}

func matchSegments(pattern, topic []string) bool {
	for i, seg := range pattern {
		switch seg {
		case WildcardMulti:
			return true
		case WildcardSingle:
			if i >= len(topic) {
				return false
			}
		default:
			if i >= len(topic) || topic[i] != seg {
				return false
			}
		}
	}
	return len(pattern) == len(topic)
}
