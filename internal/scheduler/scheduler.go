// Package scheduler runs the periodic group viability sweep. Groups
// whose meeting time is approaching and whose joined headcount is
// below their minimum get disbanded, and everyone involved is told.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/playspot/playspot-backend/internal/group"
	"github.com/playspot/playspot-backend/internal/metrics"
	"github.com/playspot/playspot-backend/internal/notification"
)

type Scheduler struct {
	Groups    group.Repository
	Notifier  notification.Notifier
	Logger    *zap.Logger
	Interval  time.Duration
	Lookahead time.Duration

	// Now is swappable in tests. Defaults to time.Now.
	Now func() time.Time
}

func New(groups group.Repository, notifier notification.Notifier, logger *zap.Logger, interval, lookahead time.Duration) *Scheduler {
	return &Scheduler{
		Groups:    groups,
		Notifier:  notifier,
		Logger:    logger,
		Interval:  interval,
		Lookahead: lookahead,
		Now:       time.Now,
	}
}

// Run sweeps once immediately, then on every tick until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	t := time.NewTicker(s.Interval)
	defer t.Stop()

	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			s.sweep(ctx)
		}
	}
}

// Sweep examines every group whose meeting time falls inside the band
// [now+lookahead, now+lookahead+interval). The band width matches the
// tick interval so consecutive sweeps tile the timeline without gaps;
// the idempotent disband makes any overlap harmless.
func (s *Scheduler) Sweep(ctx context.Context) error {
	now := s.Now()
	from := now.Add(s.Lookahead)
	to := from.Add(s.Interval)

	metrics.ViabilitySweep()

	due, err := s.Groups.ListDueBetween(ctx, from, to)
	if err != nil {
		return fmt.Errorf("list due groups failed: %w", err)
	}

	for _, g := range due {
		if err := s.checkGroup(ctx, g); err != nil {
			s.Logger.Error("viability check failed",
				zap.String("group_id", g.ID),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (s *Scheduler) sweep(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Error("sweep panicked", zap.Any("panic", r))
		}
	}()

	if err := s.Sweep(ctx); err != nil {
		s.Logger.Error("sweep failed", zap.Error(err))
	}
}

func (s *Scheduler) checkGroup(ctx context.Context, g *group.Group) error {
	if g.MinParticipants == nil {
		return nil
	}

	joined, err := s.Groups.CountJoined(ctx, g.ID)
	if err != nil {
		return fmt.Errorf("count joined failed: %w", err)
	}

	// The creator counts toward the headcount but has no row.
	headcount := 1 + joined
	if headcount >= *g.MinParticipants {
		return nil
	}

	disbanded, err := s.Groups.Disband(ctx, g.ID)
	if err != nil {
		return fmt.Errorf("disband failed: %w", err)
	}
	if !disbanded {
		// Another sweep got here first.
		return nil
	}

	metrics.GroupDisbanded()
	s.Logger.Info("group disbanded",
		zap.String("group_id", g.ID),
		zap.String("title", g.Title),
		zap.Int("headcount", headcount),
		zap.Int("min_participants", *g.MinParticipants),
	)

	s.notifyDisband(ctx, g)
	return nil
}

func (s *Scheduler) notifyDisband(ctx context.Context, g *group.Group) {
	title := "Group disbanded"
	message := fmt.Sprintf("%q was disbanded because not enough people joined.", g.Title)
	metadata := map[string]string{"group_id": g.ID}

	recipients := []string{g.CreatorID}
	joined, err := s.Groups.ListJoinedUserIDs(ctx, g.ID)
	if err != nil {
		s.Logger.Warn("list participants for notification failed",
			zap.String("group_id", g.ID),
			zap.Error(err),
		)
	} else {
		recipients = append(recipients, joined...)
	}

	for _, userID := range recipients {
		if err := s.Notifier.Notify(ctx, userID, notification.KindGroupDisbanded, title, message, metadata); err != nil {
			metrics.NotificationFailure()
			s.Logger.Warn("disband notification failed",
				zap.String("group_id", g.ID),
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}
	}
}
