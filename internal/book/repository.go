package book

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, b *Book) error
	GetByID(ctx context.Context, id string) (*Book, error)
	ListPublic(ctx context.Context, filter Filter) ([]*Book, int, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Book, error)
	ListNewest(ctx context.Context, limit int) ([]*Book, error)
	ListTopRated(ctx context.Context, limit int) ([]*Book, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, b *Book) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.books").
		Columns(
			"owner_id", "title", "author", "isbn", "description", "genre", "images",
			"publish_year", "language", "daily_price", "deposit", "status",
			"latitude", "longitude",
		).
		Values(
			b.OwnerID, b.Title, b.Author, b.ISBN, b.Description, b.Genre, b.Images,
			b.PublishYear, b.Language, b.DailyPrice, b.Deposit, b.Status,
			b.Latitude, b.Longitude,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create book query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt)
}

const bookSelectColumns = `
	b.id, b.owner_id, b.title, b.author, b.isbn, b.description, b.genre, b.images,
	b.publish_year, b.language, b.daily_price, b.deposit, b.status,
	b.latitude, b.longitude, b.created_at,
	u.email, u.avatar_url
`

func scanBook(row pgx.Row) (*Book, error) {
	var b Book
	if err := row.Scan(
		&b.ID, &b.OwnerID, &b.Title, &b.Author, &b.ISBN, &b.Description, &b.Genre, &b.Images,
		&b.PublishYear, &b.Language, &b.DailyPrice, &b.Deposit, &b.Status,
		&b.Latitude, &b.Longitude, &b.CreatedAt,
		&b.OwnerEmail, &b.OwnerAvatarURL,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Book, error) {
	query := `
		SELECT ` + bookSelectColumns + `
		FROM public.books b
		JOIN public.users u ON b.owner_id = u.id
		WHERE b.id = $1
	`

	b, err := scanBook(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get book failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) ListPublic(ctx context.Context, filter Filter) ([]*Book, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"b.id", "b.owner_id", "b.title", "b.author", "b.isbn", "b.description", "b.genre", "b.images",
		"b.publish_year", "b.language", "b.daily_price", "b.deposit", "b.status",
		"b.latitude", "b.longitude", "b.created_at",
		"u.email", "u.avatar_url",
		"count(*) OVER() as total_count",
	).
		From("public.books b").
		Join("public.users u ON b.owner_id = u.id").
		Where(squirrel.Eq{"b.status": StatusAvailable})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"b.title": pattern},
			squirrel.ILike{"b.author": pattern},
		})
	}
	if filter.Genre != "" {
		query = query.Where(squirrel.Eq{"b.genre": filter.Genre})
	}
	if filter.MinPrice != nil {
		query = query.Where(squirrel.GtOrEq{"b.daily_price": *filter.MinPrice})
	}
	if filter.MaxPrice != nil {
		query = query.Where(squirrel.LtOrEq{"b.daily_price": *filter.MaxPrice})
	}

	query = query.OrderBy("b.created_at DESC")

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 12
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list books query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list books failed: %w", err)
	}
	defer rows.Close()

	var books []*Book
	var total int

	for rows.Next() {
		var b Book
		if err := rows.Scan(
			&b.ID, &b.OwnerID, &b.Title, &b.Author, &b.ISBN, &b.Description, &b.Genre, &b.Images,
			&b.PublishYear, &b.Language, &b.DailyPrice, &b.Deposit, &b.Status,
			&b.Latitude, &b.Longitude, &b.CreatedAt,
			&b.OwnerEmail, &b.OwnerAvatarURL,
			&total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan book failed: %w", err)
		}
		books = append(books, &b)
	}

	return books, total, nil
}

func (r *pgxRepository) ListByOwner(ctx context.Context, ownerID string) ([]*Book, error) {
	query := `
		SELECT ` + bookSelectColumns + `
		FROM public.books b
		JOIN public.users u ON b.owner_id = u.id
		WHERE b.owner_id = $1
		ORDER BY b.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list books by owner failed: %w", err)
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book failed: %w", err)
		}
		books = append(books, b)
	}

	return books, nil
}

func (r *pgxRepository) ListNewest(ctx context.Context, limit int) ([]*Book, error) {
	query := `
		SELECT ` + bookSelectColumns + `
		FROM public.books b
		JOIN public.users u ON b.owner_id = u.id
		WHERE b.status = $1
		ORDER BY b.created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, StatusAvailable, limit)
	if err != nil {
		return nil, fmt.Errorf("list newest books failed: %w", err)
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book failed: %w", err)
		}
		books = append(books, b)
	}

	return books, nil
}

func (r *pgxRepository) ListTopRated(ctx context.Context, limit int) ([]*Book, error) {
	// Average is computed at read time; reviews are never aggregated into a
	// stored column.
	query := `
		SELECT ` + bookSelectColumns + `,
			avg(rv.rating) AS avg_rating
		FROM public.books b
		JOIN public.users u ON b.owner_id = u.id
		JOIN public.reviews rv ON rv.book_id = b.id
		WHERE b.status = $1
		GROUP BY b.id, u.email, u.avatar_url
		ORDER BY avg(rv.rating) DESC, b.created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, StatusAvailable, limit)
	if err != nil {
		return nil, fmt.Errorf("list top rated books failed: %w", err)
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(
			&b.ID, &b.OwnerID, &b.Title, &b.Author, &b.ISBN, &b.Description, &b.Genre, &b.Images,
			&b.PublishYear, &b.Language, &b.DailyPrice, &b.Deposit, &b.Status,
			&b.Latitude, &b.Longitude, &b.CreatedAt,
			&b.OwnerEmail, &b.OwnerAvatarURL,
			&b.AvgRating,
		); err != nil {
			return nil, fmt.Errorf("scan top rated book failed: %w", err)
		}
		books = append(books, &b)
	}

	return books, nil
}

func (r *pgxRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	const query = `SELECT count(*) FROM public.books WHERE owner_id = $1 AND status <> 'ARCHIVED'`

	var count int
	if err := r.pool.QueryRow(ctx, query, ownerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count books by owner failed: %w", err)
	}
	return count, nil
}

func (r *pgxRepository) Update(ctx context.Context, b *Book) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.books").
		Set("title", b.Title).
		Set("author", b.Author).
		Set("isbn", b.ISBN).
		Set("description", b.Description).
		Set("genre", b.Genre).
		Set("images", b.Images).
		Set("publish_year", b.PublishYear).
		Set("language", b.Language).
		Set("daily_price", b.DailyPrice).
		Set("deposit", b.Deposit).
		Set("status", b.Status).
		Set("latitude", b.Latitude).
		Set("longitude", b.Longitude).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update book query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update book failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM public.books WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete book failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
