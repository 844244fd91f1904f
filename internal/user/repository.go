package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists users. Create assigns the identifier and timestamps;
// lookups by email are case-insensitive.
type Repository interface {
	Create(ctx context.Context, fields NewUser) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	List(ctx context.Context) ([]Public, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed user repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user and returns the stored record. A duplicate email
// surfaces as ErrEmailTaken via the unique index on LOWER(email).
func (r *PostgresRepository) Create(ctx context.Context, fields NewUser) (User, error) {
	now := time.Now().UTC()
	user := User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(fields.Email),
		FirstName:    fields.FirstName,
		LastName:     fields.LastName,
		PasswordHash: fields.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := r.db.Exec(ctx, `INSERT INTO users (id, email, first_name, last_name, password_hash, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.MustParse(user.ID), user.Email, user.FirstName, user.LastName, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}

	return user, nil
}

// FindByEmail fetches a user by email, ignoring case.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	row := r.db.QueryRow(ctx, `SELECT id, email, first_name, last_name, password_hash, created_at, updated_at
        FROM users WHERE LOWER(email) = LOWER($1)`, email)
	return scanUser(row)
}

// FindByID fetches a user by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return User{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, email, first_name, last_name, password_hash, created_at, updated_at
        FROM users WHERE id = $1`, userID)
	return scanUser(row)
}

// List returns every user as a client-safe view. The query never selects the
// password hash.
func (r *PostgresRepository) List(ctx context.Context) ([]Public, error) {
	rows, err := r.db.Query(ctx, `SELECT id, email, first_name, last_name, created_at, updated_at
        FROM users ORDER BY created_at, email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []Public{}
	for rows.Next() {
		var (
			id                   uuid.UUID
			p                    Public
			createdAt, updatedAt time.Time
		)
		if err := rows.Scan(&id, &p.Email, &p.FirstName, &p.LastName, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		p.ID = id.String()
		p.CreatedAt = createdAt.UTC()
		p.UpdatedAt = updatedAt.UTC()
		users = append(users, p)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (User, error) {
	var (
		id                   uuid.UUID
		u                    User
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	u.ID = id.String()
	u.CreatedAt = createdAt.UTC()
	u.UpdatedAt = updatedAt.UTC()
	return u, nil
}
