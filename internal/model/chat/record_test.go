package chat_test

import (
	"strings"
	"testing"

	"github.com/aseed/a-seed/backend/internal/model/chat"
)

func TestTitleFromTurnsUsesFirstUserTurn(t *testing.T) {
	turns := []chat.Turn{
		{Role: chat.RoleAssistant, Text: "hi"},
		{Role: chat.RoleUser, Text: "Hello there, how are you?"},
		{Role: chat.RoleUser, Text: "second question"},
	}

	if got := chat.TitleFromTurns(turns); got != "Hello there, how are you?" {
		t.Fatalf("unexpected title: %q", got)
	}
}

func TestTitleFromTurnsTruncates(t *testing.T) {
	long := strings.Repeat("x", 200)
	turns := []chat.Turn{{Role: chat.RoleUser, Text: long}}

	got := chat.TitleFromTurns(turns)
	if len([]rune(got)) != 60 {
		t.Fatalf("expected 60 runes, got %d", len([]rune(got)))
	}
	if !strings.HasPrefix(long, got) {
		t.Fatalf("title is not a prefix of the turn text")
	}
}

func TestTitleFromTurnsPlaceholder(t *testing.T) {
	turns := []chat.Turn{{Role: chat.RoleAssistant, Text: "hi"}}
	if got := chat.TitleFromTurns(turns); got != chat.DefaultTitle {
		t.Fatalf("expected %q, got %q", chat.DefaultTitle, got)
	}
	if got := chat.TitleFromTurns(nil); got != chat.DefaultTitle {
		t.Fatalf("expected %q for empty transcript, got %q", chat.DefaultTitle, got)
	}
}
