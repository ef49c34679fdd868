package notification

import (
	"context"

	"go.uber.org/zap"
)

// Service exposes the persisted feed to the HTTP layer.
type Service interface {
	ListForUser(ctx context.Context, userID string, page, pageSize int) ([]*Notification, int, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListForUser(ctx context.Context, userID string, page, pageSize int) ([]*Notification, int, error) {
	return s.repo.ListByUser(ctx, userID, page, pageSize)
}

func (s *service) MarkRead(ctx context.Context, id, userID string) error {
	return s.repo.MarkRead(ctx, id, userID)
}

// StoreNotifier is the default sink: each notification becomes a row
// in the user's feed.
type StoreNotifier struct {
	repo   Repository
	logger *zap.Logger
}

func NewStoreNotifier(repo Repository, logger *zap.Logger) *StoreNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreNotifier{repo: repo, logger: logger}
}

func (n *StoreNotifier) Notify(ctx context.Context, userID, kind, title, message string, metadata map[string]string) error {
	err := n.repo.Create(ctx, &Notification{
		UserID:   userID,
		Kind:     kind,
		Title:    title,
		Message:  message,
		Metadata: metadata,
	})
	if err != nil {
		n.logger.Warn("store notification failed",
			zap.String("user_id", userID),
			zap.String("kind", kind),
			zap.Error(err),
		)
	}
	return err
}
