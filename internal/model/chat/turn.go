package chat

// Roles a turn may carry. The web client is free to send richer tags;
// anything outside user/assistant is dropped before the model sees it.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message of a conversation, as sent by the client and as
// persisted. Ordering is significant and always preserved as given.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Reply is the structured output extracted from one model completion.
// Emotion is lower-cased and defaults to "neutral"; it is never
// persisted directly, only folded into the next assistant turn by the
// frontend.
type Reply struct {
	Emotion string `json:"emotion"`
	Reply   string `json:"reply"`
}
