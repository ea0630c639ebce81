package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aseed/a-seed/backend/internal/model/chat"
	"github.com/aseed/a-seed/backend/pkg/sanitize"
)

var (
	ErrInvalidIdentifier  = errors.New("invalid identifier")
	ErrNotFound           = errors.New("session not found")
	ErrCorruptRecord      = errors.New("session record corrupt")
	ErrStorageUnavailable = errors.New("session storage unavailable")
)

// Service persists one JSON file per conversation under a per-user
// directory. A save goes to a temp file first and is renamed over the
// final path, so readers never observe a half-written record. Two
// concurrent saves to the same sid race benignly: whichever rename
// lands last wins wholesale, there is no merge.
type Service struct {
	root string
	now  func() int64
}

// NewService returns a store rooted at the given sessions directory.
// Per-user subdirectories are created lazily on first save.
func NewService(root string) *Service {
	return &Service{
		root: root,
		now:  func() int64 { return time.Now().Unix() },
	}
}

// EnsureUserNamespace creates (idempotently) the storage directory for
// the sanitized user id and returns its path.
func (s *Service) EnsureUserNamespace(userID string) (string, error) {
	safeUser := sanitize.Identifier(userID)
	if safeUser == "" {
		return "", fmt.Errorf("%w: user id %q", ErrInvalidIdentifier, userID)
	}

	dir := filepath.Join(s.root, safeUser)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return dir, nil
}

// Save writes the full transcript as one record, generating a fresh sid
// when none is supplied, and returns the record as persisted. Records
// are always replaced wholesale; there is no partial update.
func (s *Service) Save(_ context.Context, userID, sid string, turns []chat.Turn) (chat.Record, error) {
	if strings.TrimSpace(sid) == "" {
		sid = uuid.NewString()
	}
	safeSID := sanitize.Identifier(sid)
	if safeSID == "" {
		return chat.Record{}, fmt.Errorf("%w: session id %q", ErrInvalidIdentifier, sid)
	}

	dir, err := s.EnsureUserNamespace(userID)
	if err != nil {
		return chat.Record{}, err
	}

	record := chat.Record{
		SID:     sid,
		Title:   chat.TitleFromTurns(turns),
		Turns:   turns,
		Updated: s.now(),
	}

	payload, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return chat.Record{}, fmt.Errorf("%w: encoding record: %v", ErrStorageUnavailable, err)
	}
	if err := writeAtomic(dir, safeSID, payload); err != nil {
		return chat.Record{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return record, nil
}

// List enumerates the user's records as summaries sorted by update time,
// newest first. Ties keep directory enumeration order, which is
// unspecified. Records that fail to parse are skipped: listing is
// best-effort, only explicit loads surface corruption.
func (s *Service) List(_ context.Context, userID string) ([]chat.Summary, error) {
	safeUser := sanitize.Identifier(userID)
	if safeUser == "" {
		return nil, fmt.Errorf("%w: user id %q", ErrInvalidIdentifier, userID)
	}

	dir := filepath.Join(s.root, safeUser)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return []chat.Summary{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	summaries := make([]chat.Summary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		record, err := readRecord(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}

		stem := strings.TrimSuffix(entry.Name(), ".json")
		fillRecordDefaults(&record, stem, func() int64 {
			info, err := entry.Info()
			if err != nil {
				return 0
			}
			return info.ModTime().Unix()
		})

		summaries = append(summaries, chat.Summary{
			SID:     record.SID,
			Title:   record.Title,
			Count:   len(record.Turns),
			Updated: record.Updated,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Updated > summaries[j].Updated
	})
	return summaries, nil
}

// Load retrieves one record. A missing file is ErrNotFound; a file that
// exists but does not parse is ErrCorruptRecord — an explicit load must
// never silently succeed with empty data.
func (s *Service) Load(_ context.Context, userID, sid string) (chat.Record, error) {
	safeUser := sanitize.Identifier(userID)
	safeSID := sanitize.Identifier(sid)
	if safeUser == "" || safeSID == "" {
		return chat.Record{}, fmt.Errorf("%w: user %q session %q", ErrInvalidIdentifier, userID, sid)
	}

	path := filepath.Join(s.root, safeUser, safeSID+".json")
	record, err := readRecord(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return chat.Record{}, fmt.Errorf("%w: %s", ErrNotFound, safeSID)
	case err != nil:
		return chat.Record{}, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}

	fillRecordDefaults(&record, safeSID, func() int64 {
		info, err := os.Stat(path)
		if err != nil {
			return 0
		}
		return info.ModTime().Unix()
	})
	return record, nil
}

func readRecord(path string) (chat.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return chat.Record{}, err
	}

	var record chat.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return chat.Record{}, err
	}
	return record, nil
}

// fillRecordDefaults tolerates files written by earlier versions that
// lack sid, title or updated fields.
func fillRecordDefaults(record *chat.Record, stem string, mtime func() int64) {
	if record.SID == "" {
		record.SID = stem
	}
	if record.Title == "" {
		record.Title = stem
	}
	if record.Updated == 0 {
		record.Updated = mtime()
	}
}

func writeAtomic(dir, stem string, payload []byte) error {
	tmp, err := os.CreateTemp(dir, stem+"-*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, stem+".json")); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
