package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taggerly/taggerly-api/internal/models"
)

// UserRepository описывает операции хранилища пользователей
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// PostgresUserRepository реализует UserRepository поверх pgx
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository создает новый экземпляр PostgresUserRepository
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

const userColumns = `id, name, email, password_hash, phone, role, avatar, bio, location, created_at, updated_at`

// Create сохраняет нового пользователя
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password_hash, phone, role, avatar, bio, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`, user.ID, user.Name, user.Email, user.PasswordHash, user.Phone,
		user.Role, user.Avatar, user.Bio, user.Location).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("ошибка при создании пользователя: %w", err)
	}
	return nil
}

// GetByID получает пользователя по ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByEmail получает пользователя по email
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanOne(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// Update сохраняет измененные поля профиля пользователя
func (r *PostgresUserRepository) Update(ctx context.Context, user *models.User) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = $1, phone = $2, avatar = $3, bio = $4, location = $5,
			password_hash = $6, updated_at = NOW()
		WHERE id = $7
	`, user.Name, user.Phone, user.Avatar, user.Bio, user.Location, user.PasswordHash, user.ID)

	if err != nil {
		return fmt.Errorf("ошибка при обновлении пользователя: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) scanOne(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&user.Phone, &user.Role, &user.Avatar, &user.Bio, &user.Location,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}
	return &user, nil
}
