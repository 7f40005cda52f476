package rental

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// Create inserts a new PENDING rental after verifying that no
	// APPROVED/ACTIVE rental of the same book overlaps the requested dates.
	// The check and the insert run in one transaction holding a per-book
	// advisory lock, so concurrent requests for the same book serialize.
	// Returns ErrDateConflict when the dates are taken.
	Create(ctx context.Context, r *Rental) error

	GetByID(ctx context.Context, id string) (*Rental, error)
	ListByRenter(ctx context.Context, renterID string) ([]*Rental, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Rental, error)

	// CompareAndSetStatus transitions a rental from one status to another
	// atomically (UPDATE ... WHERE status = from). It returns false when the
	// rental was not in the expected status, and ErrDateConflict when moving
	// to APPROVED trips the no-overlap exclusion constraint.
	CompareAndSetStatus(ctx context.Context, id string, from, to Status) (bool, error)

	// BusyRanges returns the occupied date ranges of a book, computed from
	// its APPROVED/ACTIVE rentals, ordered by start date.
	BusyRanges(ctx context.Context, bookID string) ([]DateRange, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, rt *Rental) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create rental tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialize conflict checks per book. The lock is transaction-scoped and
	// released on commit/rollback.
	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`,
		rt.BookID,
	); err != nil {
		return fmt.Errorf("acquire book lock failed: %w", err)
	}

	// Inclusive overlap test: existing.start <= newEnd AND existing.end >= newStart.
	var conflict bool
	if err := tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM public.rentals
			WHERE book_id = $1
			  AND status IN ('APPROVED', 'ACTIVE')
			  AND start_date <= $3
			  AND end_date >= $2
		)
	`, rt.BookID, rt.StartDate, rt.EndDate).Scan(&conflict); err != nil {
		return fmt.Errorf("check date conflict failed: %w", err)
	}
	if conflict {
		return ErrDateConflict
	}

	if err := tx.QueryRow(ctx, `
		INSERT INTO public.rentals (book_id, renter_id, start_date, end_date, total_price, status, pickup_secret)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`,
		rt.BookID, rt.RenterID, rt.StartDate, rt.EndDate, rt.TotalPrice, rt.Status, rt.PickupSecret,
	).Scan(&rt.ID, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
		return fmt.Errorf("insert rental failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create rental tx failed: %w", err)
	}
	return nil
}

const rentalSelectColumns = `
	r.id, r.book_id, r.renter_id, r.start_date, r.end_date, r.total_price,
	r.status, r.pickup_secret, r.created_at, r.updated_at,
	b.title, b.daily_price, b.images, b.owner_id,
	u.email, u.avatar_url
`

func scanRental(row pgx.Row) (*Rental, error) {
	var rt Rental
	if err := row.Scan(
		&rt.ID, &rt.BookID, &rt.RenterID, &rt.StartDate, &rt.EndDate, &rt.TotalPrice,
		&rt.Status, &rt.PickupSecret, &rt.CreatedAt, &rt.UpdatedAt,
		&rt.BookTitle, &rt.BookDailyPrice, &rt.BookImages, &rt.BookOwnerID,
		&rt.RenterEmail, &rt.RenterAvatarURL,
	); err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Rental, error) {
	query := `
		SELECT ` + rentalSelectColumns + `
		FROM public.rentals r
		JOIN public.books b ON r.book_id = b.id
		JOIN public.users u ON r.renter_id = u.id
		WHERE r.id = $1
	`

	rt, err := scanRental(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get rental failed: %w", err)
	}
	return rt, nil
}

func (r *pgxRepository) listWhere(ctx context.Context, cond squirrel.Sqlizer) ([]*Rental, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"r.id", "r.book_id", "r.renter_id", "r.start_date", "r.end_date", "r.total_price",
		"r.status", "r.pickup_secret", "r.created_at", "r.updated_at",
		"b.title", "b.daily_price", "b.images", "b.owner_id",
		"u.email", "u.avatar_url",
	).
		From("public.rentals r").
		Join("public.books b ON r.book_id = b.id").
		Join("public.users u ON r.renter_id = u.id").
		Where(cond).
		OrderBy("r.created_at DESC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list rentals query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list rentals failed: %w", err)
	}
	defer rows.Close()

	var rentals []*Rental
	for rows.Next() {
		rt, err := scanRental(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rental failed: %w", err)
		}
		rentals = append(rentals, rt)
	}

	return rentals, nil
}

func (r *pgxRepository) ListByRenter(ctx context.Context, renterID string) ([]*Rental, error) {
	return r.listWhere(ctx, squirrel.Eq{"r.renter_id": renterID})
}

func (r *pgxRepository) ListByOwner(ctx context.Context, ownerID string) ([]*Rental, error) {
	return r.listWhere(ctx, squirrel.Eq{"b.owner_id": ownerID})
}

func (r *pgxRepository) CompareAndSetStatus(ctx context.Context, id string, from, to Status) (bool, error) {
	const query = `
		UPDATE public.rentals
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
	`

	ct, err := r.pool.Exec(ctx, query, to, id, from)
	if err != nil {
		// Approving a rental whose dates clash with another APPROVED/ACTIVE
		// rental trips the rentals_no_overlap exclusion constraint.
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.ExclusionViolation {
			return false, ErrDateConflict
		}
		return false, fmt.Errorf("update rental status failed: %w", err)
	}

	return ct.RowsAffected() == 1, nil
}

func (r *pgxRepository) BusyRanges(ctx context.Context, bookID string) ([]DateRange, error) {
	const query = `
		SELECT start_date, end_date
		FROM public.rentals
		WHERE book_id = $1 AND status IN ('APPROVED', 'ACTIVE')
		ORDER BY start_date
	`

	rows, err := r.pool.Query(ctx, query, bookID)
	if err != nil {
		return nil, fmt.Errorf("list busy ranges failed: %w", err)
	}
	defer rows.Close()

	var ranges []DateRange
	for rows.Next() {
		var dr DateRange
		if err := rows.Scan(&dr.Start, &dr.End); err != nil {
			return nil, fmt.Errorf("scan busy range failed: %w", err)
		}
		ranges = append(ranges, dr)
	}

	return ranges, nil
}
