package ai

import (
	"encoding/json"
	"strings"

	"github.com/aseed/a-seed/backend/internal/model/chat"
)

// FallbackReply is used when the model produced nothing usable at all.
const FallbackReply = "I'm not sure how to respond to that. Could you rephrase?"

// parseReply extracts the structured {reply, emotion} object the system
// prompt asks the model to emit. Models wrap the JSON in prose, so the
// span between the first '{' and the last '}' is parsed as a whole.
// The span is greedy, not brace-matched: text containing several
// brace-delimited fragments parses as one outer span and usually falls
// through to the plain-text path. The frontend has been tuned against
// this exact behavior; do not tighten it without re-validating against
// real backend traffic. parseReply never fails — malformed output
// degrades to the trimmed raw text with a neutral emotion.
func parseReply(raw string) chat.Reply {
	trimmed := strings.TrimSpace(raw)

	var reply, emotion string
	if start, end := strings.Index(raw, "{"), strings.LastIndex(raw, "}"); start >= 0 && end > start {
		var fields struct {
			Reply   string `json:"reply"`
			Emotion string `json:"emotion"`
		}
		if err := json.Unmarshal([]byte(raw[start:end+1]), &fields); err == nil {
			reply = fields.Reply
			emotion = fields.Emotion
		}
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		reply = trimmed
	}
	if reply == "" {
		reply = FallbackReply
	}

	emotion = strings.ToLower(strings.TrimSpace(emotion))
	if emotion == "" {
		emotion = "neutral"
	}

	return chat.Reply{Emotion: emotion, Reply: reply}
}
