package chat

// DefaultTitle labels a transcript that has no user turn yet.
const DefaultTitle = "New Chat"

// titleLimit caps derived titles, in runes.
const titleLimit = 60

// Record is one persisted conversation transcript. The JSON field names
// are the on-disk format; they must stay stable so files written by
// earlier versions of the server keep loading.
type Record struct {
	SID     string `json:"sid"`
	Title   string `json:"title"`
	Turns   []Turn `json:"chat"`
	Updated int64  `json:"updated"`
}

// Summary is the listing projection of a Record. It is derived, never
// persisted on its own.
type Summary struct {
	SID     string `json:"sid"`
	Title   string `json:"title"`
	Count   int    `json:"count"`
	Updated int64  `json:"updated"`
}

// TitleFromTurns derives a listing title from the first user turn,
// truncated to 60 characters, or DefaultTitle when no user turn exists.
func TitleFromTurns(turns []Turn) string {
	for _, turn := range turns {
		if turn.Role == RoleUser {
			return truncate(turn.Text, titleLimit)
		}
	}
	return DefaultTitle
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
