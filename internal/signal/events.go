package signal

// Lifecycle topics.
const (
	// TopicBufferEntered is published when a buffer becomes current.
	TopicBufferEntered Topic = "buffer.entered"

	// TopicTextChanged is published after the buffer text changes.
	TopicTextChanged Topic = "buffer.text.changed"

	// TopicCursorMoved is published after the cursor moves.
	TopicCursorMoved Topic = "cursor.moved"
)

// Mode is the editing mode a signal was raised in.
type Mode uint8

const (
	ModeNormal Mode = iota
	ModeInsert
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeInsert:
		return "insert"
	default:
		return "unknown"
	}
}

// BufferEntered is the payload of TopicBufferEntered.
type BufferEntered struct {
	BufferID string

	// Matches is true when the buffer's document type is handled by the
	// subscriber.
	Matches bool
}

// TextChanged is the payload of TopicTextChanged.
type TextChanged struct {
	BufferID string
	Mode     Mode
}

// CursorMoved is the payload of TopicCursorMoved.
type CursorMoved struct {
	BufferID string
	Mode     Mode

	// Row and Col are zero-based.
	Row int
	Col int
}
