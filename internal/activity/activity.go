package activity

import (
	"log/slog"
	"time"
)

// Entry is one audit line, append-only.
type Entry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

type Repository interface {
	Insert(userID int64, action string) error
	Latest(limit int) ([]*Entry, error)
}

// Recorder writes audit entries without ever failing the caller; a lost
// entry is logged and dropped.
type Recorder struct {
	repo   Repository
	logger *slog.Logger
}

func NewRecorder(repo Repository, logger *slog.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

func (r *Recorder) Record(userID int64, action string) {
	if err := r.repo.Insert(userID, action); err != nil {
		r.logger.Warn("failed to record activity", "error", err, "user_id", userID, "action", action)
	}
}

// Latest returns the newest entries for the HR audit view.
func (r *Recorder) Latest(limit int) ([]*Entry, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	return r.repo.Latest(limit)
}
