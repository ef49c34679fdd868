package facility

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, f *Facility) error
	GetByID(ctx context.Context, id string) (*Facility, error)
	List(ctx context.Context, filter Filter) ([]*Facility, int, error)
	Update(ctx context.Context, f *Facility) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, f *Facility) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.facilities").
		Columns("owner_id", "name", "sport", "description", "operating_hours", "reservation_slot_hours", "is_active").
		Values(f.OwnerID, f.Name, f.Sport, f.Description, f.OperatingHours, f.ReservationSlotHours, f.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create facility query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).
		Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Facility, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"f.id", "f.owner_id", "u.display_name", "f.name", "f.sport", "f.description",
		"f.operating_hours", "f.reservation_slot_hours", "f.is_active",
		"f.created_at", "f.updated_at",
	).
		From("public.facilities f").
		Join("public.users u ON f.owner_id = u.id").
		Where(squirrel.Eq{"f.id": id}).
		Where(squirrel.Eq{"f.is_active": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get facility query failed: %w", err)
	}

	row := r.pool.QueryRow(ctx, query, args...)

	var f Facility
	var ownerName *string
	if err := row.Scan(
		&f.ID, &f.OwnerID, &ownerName, &f.Name, &f.Sport, &f.Description,
		&f.OperatingHours, &f.ReservationSlotHours, &f.IsActive,
		&f.CreatedAt, &f.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get facility failed: %w", err)
	}
	if ownerName != nil {
		f.OwnerName = *ownerName
	}
	return &f, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Facility, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"f.id", "f.owner_id", "u.display_name", "f.name", "f.sport", "f.description",
		"f.operating_hours", "f.reservation_slot_hours", "f.is_active",
		"f.created_at", "f.updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.facilities f").
		Join("public.users u ON f.owner_id = u.id").
		Where(squirrel.Eq{"f.is_active": true})

	if filter.OwnerID != "" {
		query = query.Where(squirrel.Eq{"f.owner_id": filter.OwnerID})
	}
	if filter.Sport != "" {
		query = query.Where(squirrel.Eq{"f.sport": filter.Sport})
	}

	query = query.OrderBy("f.created_at DESC")

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
		return nil, 0, fmt.Errorf("build list facilities query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list facilities failed: %w", err)
	}
	defer rows.Close()

	var facilities []*Facility
	var total int

	for rows.Next() {
		var f Facility
		var ownerName *string
		if err := rows.Scan(
			&f.ID, &f.OwnerID, &ownerName, &f.Name, &f.Sport, &f.Description,
			&f.OperatingHours, &f.ReservationSlotHours, &f.IsActive,
			&f.CreatedAt, &f.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan facility failed: %w", err)
		}
		if ownerName != nil {
			f.OwnerName = *ownerName
		}
		facilities = append(facilities, &f)
	}

	return facilities, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, f *Facility) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.facilities").
		Set("name", f.Name).
		Set("sport", f.Sport).
		Set("description", f.Description).
		Set("operating_hours", f.OperatingHours).
		Set("reservation_slot_hours", f.ReservationSlotHours).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": f.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update facility query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update facility failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
