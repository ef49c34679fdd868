package reservation

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
	// Create inserts the reservation after re-checking the overlap
	// invariant inside the same transaction. Returns ErrTimeConflict
	// when a live (or completed) reservation already covers part of
	// the requested window.
	Create(ctx context.Context, r *Reservation) error
	GetByID(ctx context.Context, id string) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)
	ListForDate(ctx context.Context, facilityID string, date time.Time, statuses []Status) ([]*Reservation, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

// blockingStatuses are the statuses that make an interval unavailable
// for new bookings: live ones plus completed (consumed past slots).
var blockingStatuses = []string{
	string(StatusPending),
	string(StatusConfirmed),
	string(StatusCompleted),
}

func (r *pgxRepository) Create(ctx context.Context, res *Reservation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create reservation tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialize concurrent creates per (facility, date). Two requests
	// for the same day queue behind this lock, so both cannot pass the
	// overlap check below and insert conflicting rows. The lock is
	// released automatically at commit/rollback.
	lockKey := res.FacilityID + ":" + res.Date.Format("2006-01-02")
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))", lockKey); err != nil {
		return fmt.Errorf("acquire reservation lock failed: %w", err)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	overlapSQL, args, err := psql.Select("1").
		From("public.reservations").
		Where(squirrel.Eq{"facility_id": res.FacilityID}).
		Where(squirrel.Eq{"reservation_date": res.Date}).
		Where(squirrel.Eq{"status": blockingStatuses}).
		Where(squirrel.Lt{"start_min": res.EndMin}).
		Where(squirrel.Gt{"end_min": res.StartMin}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build overlap query failed: %w", err)
	}

	var exists bool
	if err := tx.QueryRow(ctx, "SELECT EXISTS ("+overlapSQL+")", args...).Scan(&exists); err != nil {
		return fmt.Errorf("check overlap failed: %w", err)
	}
	if exists {
		return ErrTimeConflict
	}

	insertSQL, args, err := psql.Insert("public.reservations").
		Columns(
			"facility_id", "user_id", "reservation_date", "start_min", "end_min",
			"number_of_people", "contact_phone", "memo", "status", "total_amount", "is_paid",
		).
		Values(
			res.FacilityID, res.UserID, res.Date, res.StartMin, res.EndMin,
			res.NumberOfPeople, res.ContactPhone, res.Memo, res.Status, res.TotalAmount, res.IsPaid,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create reservation query failed: %w", err)
	}

	if err := tx.QueryRow(ctx, insertSQL, args...).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return fmt.Errorf("create reservation failed: %w", err)
	}

	return tx.Commit(ctx)
}

const reservationColumns = `
	r.id, r.facility_id, f.name, f.owner_id, r.user_id, u.display_name,
	r.reservation_date, r.start_min, r.end_min, r.number_of_people,
	r.contact_phone, r.memo, r.status, r.total_amount, r.is_paid,
	r.created_at, r.updated_at
`

const reservationJoins = `
	FROM public.reservations r
	JOIN public.facilities f ON r.facility_id = f.id
	JOIN public.users u ON r.user_id = u.id
`

func scanReservation(row pgx.Row) (*Reservation, error) {
	var res Reservation
	var userName *string
	if err := row.Scan(
		&res.ID, &res.FacilityID, &res.FacilityName, &res.OwnerID, &res.UserID, &userName,
		&res.Date, &res.StartMin, &res.EndMin, &res.NumberOfPeople,
		&res.ContactPhone, &res.Memo, &res.Status, &res.TotalAmount, &res.IsPaid,
		&res.CreatedAt, &res.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if userName != nil {
		res.UserName = *userName
	}
	return &res, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Reservation, error) {
	query := `SELECT` + reservationColumns + reservationJoins + `WHERE r.id = $1`

	res, err := scanReservation(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get reservation failed: %w", err)
	}
	return res, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"r.id", "r.facility_id", "f.name", "f.owner_id", "r.user_id", "u.display_name",
		"r.reservation_date", "r.start_min", "r.end_min", "r.number_of_people",
		"r.contact_phone", "r.memo", "r.status", "r.total_amount", "r.is_paid",
		"r.created_at", "r.updated_at",
		"count(*) OVER() as total_count",
	).
		From("public.reservations r").
		Join("public.facilities f ON r.facility_id = f.id").
		Join("public.users u ON r.user_id = u.id")

	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"r.user_id": filter.UserID})
	}
	if filter.FacilityID != "" {
		query = query.Where(squirrel.Eq{"r.facility_id": filter.FacilityID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"r.status": filter.Status})
	}
	if filter.Date != nil {
		query = query.Where(squirrel.Eq{"r.reservation_date": *filter.Date})
	}

	query = query.OrderBy("r.reservation_date DESC", "r.start_min DESC")

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
		return nil, 0, fmt.Errorf("build list reservations query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations failed: %w", err)
	}
	defer rows.Close()

	var reservations []*Reservation
	var total int

	for rows.Next() {
		var res Reservation
		var userName *string
		if err := rows.Scan(
			&res.ID, &res.FacilityID, &res.FacilityName, &res.OwnerID, &res.UserID, &userName,
			&res.Date, &res.StartMin, &res.EndMin, &res.NumberOfPeople,
			&res.ContactPhone, &res.Memo, &res.Status, &res.TotalAmount, &res.IsPaid,
			&res.CreatedAt, &res.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan reservation failed: %w", err)
		}
		if userName != nil {
			res.UserName = *userName
		}
		reservations = append(reservations, &res)
	}

	return reservations, total, nil
}

func (r *pgxRepository) ListForDate(ctx context.Context, facilityID string, date time.Time, statuses []Status) ([]*Reservation, error) {
	statusStrs := make([]string, len(statuses))
	for i, s := range statuses {
		statusStrs[i] = string(s)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select(
		"r.id", "r.facility_id", "f.name", "f.owner_id", "r.user_id", "u.display_name",
		"r.reservation_date", "r.start_min", "r.end_min", "r.number_of_people",
		"r.contact_phone", "r.memo", "r.status", "r.total_amount", "r.is_paid",
		"r.created_at", "r.updated_at",
	).
		From("public.reservations r").
		Join("public.facilities f ON r.facility_id = f.id").
		Join("public.users u ON r.user_id = u.id").
		Where(squirrel.Eq{"r.facility_id": facilityID}).
		Where(squirrel.Eq{"r.reservation_date": date}).
		Where(squirrel.Eq{"r.status": statusStrs}).
		OrderBy("r.start_min ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list for date query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations for date failed: %w", err)
	}
	defer rows.Close()

	var reservations []*Reservation
	for rows.Next() {
		var res Reservation
		var userName *string
		if err := rows.Scan(
			&res.ID, &res.FacilityID, &res.FacilityName, &res.OwnerID, &res.UserID, &userName,
			&res.Date, &res.StartMin, &res.EndMin, &res.NumberOfPeople,
			&res.ContactPhone, &res.Memo, &res.Status, &res.TotalAmount, &res.IsPaid,
			&res.CreatedAt, &res.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan reservation failed: %w", err)
		}
		if userName != nil {
			res.UserName = *userName
		}
		reservations = append(reservations, &res)
	}

	return reservations, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.reservations").
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update status query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update reservation status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
