package group

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, g *Group) error
	GetByID(ctx context.Context, id string) (*Group, error)
	List(ctx context.Context, filter Filter) ([]*Group, int, error)
	// Join inserts or reactivates the participant row and bumps the
	// cached count in one transaction. The capacity check repeats
	// inside that transaction and returns ErrFull when it fails.
	Join(ctx context.Context, groupID, userID string) error
	Leave(ctx context.Context, groupID, userID string) error

	// Sweep support. ListDueBetween selects active, non-closed groups
	// with a viability threshold whose meeting time falls in [from, to).
	ListDueBetween(ctx context.Context, from, to time.Time) ([]*Group, error)
	CountJoined(ctx context.Context, groupID string) (int, error)
	ListJoinedUserIDs(ctx context.Context, groupID string) ([]string, error)
	// Disband marks the group inactive and closed. Returns false when
	// the group was already disbanded, making the operation idempotent.
	Disband(ctx context.Context, groupID string) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, g *Group) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.groups").
		Columns(
			"creator_id", "title", "sport", "description", "meeting_at",
			"min_participants", "max_participants", "participant_count", "is_active", "is_closed",
		).
		Values(
			g.CreatorID, g.Title, g.Sport, g.Description, g.MeetingAt,
			g.MinParticipants, g.MaxParticipants, g.ParticipantCount, g.IsActive, g.IsClosed,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create group query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).
		Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
}

const groupColumns = `
	g.id, g.creator_id, u.display_name, g.title, g.sport, g.description,
	g.meeting_at, g.min_participants, g.max_participants, g.participant_count,
	g.is_active, g.is_closed, g.created_at, g.updated_at
`

func scanGroup(row pgx.Row) (*Group, error) {
	var g Group
	var creatorName *string
	if err := row.Scan(
		&g.ID, &g.CreatorID, &creatorName, &g.Title, &g.Sport, &g.Description,
		&g.MeetingAt, &g.MinParticipants, &g.MaxParticipants, &g.ParticipantCount,
		&g.IsActive, &g.IsClosed, &g.CreatedAt, &g.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if creatorName != nil {
		g.CreatorName = *creatorName
	}
	return &g, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Group, error) {
	query := `SELECT` + groupColumns + `
		FROM public.groups g
		JOIN public.users u ON g.creator_id = u.id
		WHERE g.id = $1`

	g, err := scanGroup(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get group failed: %w", err)
	}
	return g, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Group, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"g.id", "g.creator_id", "u.display_name", "g.title", "g.sport", "g.description",
		"g.meeting_at", "g.min_participants", "g.max_participants", "g.participant_count",
		"g.is_active", "g.is_closed", "g.created_at", "g.updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.groups g").
		Join("public.users u ON g.creator_id = u.id").
		Where(squirrel.Eq{"g.is_active": true})

	if filter.Sport != "" {
		query = query.Where(squirrel.Eq{"g.sport": filter.Sport})
	}
	if filter.CreatorID != "" {
		query = query.Where(squirrel.Eq{"g.creator_id": filter.CreatorID})
	}

	query = query.OrderBy("g.meeting_at ASC NULLS LAST")

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list groups query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list groups failed: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	var total int

	for rows.Next() {
		var g Group
		var creatorName *string
		if err := rows.Scan(
			&g.ID, &g.CreatorID, &creatorName, &g.Title, &g.Sport, &g.Description,
			&g.MeetingAt, &g.MinParticipants, &g.MaxParticipants, &g.ParticipantCount,
			&g.IsActive, &g.IsClosed, &g.CreatedAt, &g.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan group failed: %w", err)
		}
		if creatorName != nil {
			g.CreatorName = *creatorName
		}
		groups = append(groups, &g)
	}

	return groups, total, nil
}

func (r *pgxRepository) Join(ctx context.Context, groupID, userID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin join tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// Reactivate a cancelled row or insert a fresh one. The WHERE on
	// the conflict update makes a second join of an active row a
	// zero-row no-op, which we report as already joined.
	ct, err := tx.Exec(ctx, `
		INSERT INTO public.group_participants (group_id, user_id, status, joined_at)
		VALUES ($1, $2, 'joined', now())
		ON CONFLICT (group_id, user_id) DO UPDATE
		SET status = 'joined', joined_at = now()
		WHERE group_participants.status = 'cancelled'
	`, groupID, userID)
	if err != nil {
		return fmt.Errorf("insert participant failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrAlreadyJoined
	}

	// Cached count and participant rows move together or not at all.
	// The capacity predicate runs under the group's row lock, so two
	// concurrent joins cannot both pass a stale count and overfill.
	ct, err = tx.Exec(ctx, `
		UPDATE public.groups
		SET participant_count = participant_count + 1, updated_at = now()
		WHERE id = $1
		  AND (max_participants IS NULL OR participant_count < max_participants)
	`, groupID)
	if err != nil {
		return fmt.Errorf("increment participant count failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrFull
	}

	return tx.Commit(ctx)
}

func (r *pgxRepository) Leave(ctx context.Context, groupID, userID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin leave tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx, `
		UPDATE public.group_participants
		SET status = 'cancelled'
		WHERE group_id = $1 AND user_id = $2 AND status = 'joined'
	`, groupID, userID)
	if err != nil {
		return fmt.Errorf("cancel participant failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotJoined
	}

	if _, err := tx.Exec(ctx, `
		UPDATE public.groups
		SET participant_count = participant_count - 1, updated_at = now()
		WHERE id = $1
	`, groupID); err != nil {
		return fmt.Errorf("decrement participant count failed: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *pgxRepository) ListDueBetween(ctx context.Context, from, to time.Time) ([]*Group, error) {
	query := `SELECT` + groupColumns + `
		FROM public.groups g
		JOIN public.users u ON g.creator_id = u.id
		WHERE g.is_active = true
		  AND g.is_closed = false
		  AND g.min_participants IS NOT NULL
		  AND g.meeting_at >= $1
		  AND g.meeting_at < $2
		ORDER BY g.meeting_at ASC`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("list due groups failed: %w", err)
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scan due group failed: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func (r *pgxRepository) CountJoined(ctx context.Context, groupID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM public.group_participants
		WHERE group_id = $1 AND status = 'joined'
	`, groupID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count joined participants failed: %w", err)
	}
	return count, nil
}

func (r *pgxRepository) ListJoinedUserIDs(ctx context.Context, groupID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id FROM public.group_participants
		WHERE group_id = $1 AND status = 'joined'
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("list joined participants failed: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan participant failed: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *pgxRepository) Disband(ctx context.Context, groupID string) (bool, error) {
	// The is_active guard is the idempotence gate: disbanding an
	// already-disbanded group affects zero rows.
	ct, err := r.pool.Exec(ctx, `
		UPDATE public.groups
		SET is_active = false, is_closed = true, updated_at = now()
		WHERE id = $1 AND is_active = true
	`, groupID)
	if err != nil {
		return false, fmt.Errorf("disband group failed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}
