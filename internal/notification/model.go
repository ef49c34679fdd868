package notification

import (
	"net/http"
	"time"

	"github.com/playspot/playspot-backend/internal/pkg/apperror"
)

var ErrNotFound = apperror.New(http.StatusNotFound, "notification not found")

// Notification is one entry in a user's persisted feed.
type Notification struct {
	ID        string
	UserID    string
	Kind      string
	Title     string
	Message   string
	Metadata  map[string]string
	IsRead    bool
	CreatedAt time.Time
}
