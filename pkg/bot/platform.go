package bot

// Button is one option of an inline control: a visible label and the
// choice token delivered back when the user taps it.
type Button struct {
	Label string
	Data  string
}

// Platform is the outbound surface of the chat platform. The production
// implementation is Telegram (telegram.go); tests substitute a fake.
type Platform interface {
	// SendText sends a plain text message and returns its message id.
	SendText(chatID int64, text string) (int, error)
	// SendWithControl sends a message carrying an inline control laid out
	// as rows of buttons, and returns the message id.
	SendWithControl(chatID int64, text string, rows [][]Button) (int, error)
	EditText(chatID int64, messageID int, text string) error
	Delete(chatID int64, messageID int) error
	// Acknowledge answers one selection event. Every selection event must
	// be acknowledged exactly once or the client-side control hangs.
	Acknowledge(callbackID string) error
}

// TextMessage is an inbound user message.
type TextMessage struct {
	ID        int
	ChatID    int64
	UserID    string
	Username  string
	Text      string
	ReplyToID int // 0 when the message is not a reply
}

// Selection is an inbound control interaction carrying a choice token.
type Selection struct {
	CallbackID       string
	ControlMessageID int
	ChatID           int64
	UserID           string
	Data             string
}
