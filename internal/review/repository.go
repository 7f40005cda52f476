package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// Create inserts a review. Returns ErrAlreadyReviewed when the rental
	// already has one (unique rental_id).
	Create(ctx context.Context, rv *Review) error
	ListByBook(ctx context.Context, bookID string) ([]*Review, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, rv *Review) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.reviews").
		Columns("rental_id", "book_id", "author_id", "rating", "comment").
		Values(rv.RentalID, rv.BookID, rv.AuthorID, rv.Rating, rv.Comment).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create review query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&rv.ID, &rv.CreatedAt); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrAlreadyReviewed
		}
		return fmt.Errorf("create review failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) ListByBook(ctx context.Context, bookID string) ([]*Review, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"rv.id", "rv.rental_id", "rv.book_id", "rv.author_id", "rv.rating", "rv.comment", "rv.created_at",
		"u.email", "u.avatar_url",
	).
		From("public.reviews rv").
		Join("public.users u ON rv.author_id = u.id").
		Where(squirrel.Eq{"rv.book_id": bookID}).
		OrderBy("rv.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list reviews query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reviews failed: %w", err)
	}
	defer rows.Close()

	var reviews []*Review
	for rows.Next() {
		var rv Review
		if err := rows.Scan(
			&rv.ID, &rv.RentalID, &rv.BookID, &rv.AuthorID, &rv.Rating, &rv.Comment, &rv.CreatedAt,
			&rv.AuthorEmail, &rv.AuthorAvatarURL,
		); err != nil {
			return nil, fmt.Errorf("scan review failed: %w", err)
		}
		reviews = append(reviews, &rv)
	}

	return reviews, nil
}
