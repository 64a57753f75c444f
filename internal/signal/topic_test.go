package signal

import "testing"

func TestTopicMatches(t *testing.T) {
	tests := []struct {
		topic   Topic
		pattern Topic
		want    bool
	}{
		{"buffer.entered", "buffer.entered", true},
		{"buffer.entered", "buffer.*", true},
		{"buffer.text.changed", "buffer.*", false},
		{"buffer.text.changed", "buffer.**", true},
		{"buffer.text.changed", "buffer.text.*", true},
		{"cursor.moved", "**", true},
		{"cursor", "cursor.**", true},
		{"cursor.moved", "buffer.**", false},
		{"cursor.moved", "cursor.moved.extra", false},
		{"cursor.moved", "*.moved", true},
	}
	for _, tt := range tests {
		if got := tt.topic.Matches(tt.pattern); got != tt.want {
			t.Errorf("%q.Matches(%q) = %v, want %v", tt.topic, tt.pattern, got, tt.want)
		}
	}
}

func TestTopicIsValid(t *testing.T) {
	tests := []struct {
		topic Topic
		want  bool
	}{
		{"buffer.entered", true},
		{"", false},
		{".buffer", false},
		{"buffer..x", false},
		{"buffer.", false},
	}
	for _, tt := range tests {
		if got := tt.topic.IsValid(); got != tt.want {
			t.Errorf("%q.IsValid() = %v, want %v", tt.topic, got, tt.want)
		}
	}
}

func TestModeString(t *testing.T) {
	if ModeInsert.String() != "insert" || ModeNormal.String() != "normal" || Mode(9).String() != "unknown" {
		t.Error("Mode.String mismatch")
	}
}
