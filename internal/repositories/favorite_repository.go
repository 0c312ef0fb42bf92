package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taggerly/taggerly-api/internal/models"
)

// FavoriteRepository описывает операции хранилища избранного
type FavoriteRepository interface {
	Exists(ctx context.Context, userID, adID uuid.UUID) (bool, error)
	Add(ctx context.Context, favorite *models.Favorite) error
	Remove(ctx context.Context, userID, adID uuid.UUID) error
	ListActiveAds(ctx context.Context, userID uuid.UUID) ([]models.Ad, error)
}

// PostgresFavoriteRepository реализует FavoriteRepository поверх pgx
type PostgresFavoriteRepository struct {
	pool *pgxpool.Pool
}

// NewFavoriteRepository создает новый экземпляр PostgresFavoriteRepository
func NewFavoriteRepository(pool *pgxpool.Pool) *PostgresFavoriteRepository {
	return &PostgresFavoriteRepository{pool: pool}
}

// Exists проверяет, есть ли объявление в избранном пользователя
func (r *PostgresFavoriteRepository) Exists(ctx context.Context, userID, adID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND ad_id = $2)
	`, userID, adID).Scan(&exists)

	if err != nil {
		return false, fmt.Errorf("ошибка при проверке избранного: %w", err)
	}
	return exists, nil
}

// Add добавляет объявление в избранное.
// Повторная вставка той же пары молча игнорируется.
func (r *PostgresFavoriteRepository) Add(ctx context.Context, favorite *models.Favorite) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO favorites (id, user_id, ad_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, ad_id) DO NOTHING
	`, favorite.ID, favorite.UserID, favorite.AdID)

	if err != nil {
		return fmt.Errorf("ошибка при добавлении в избранное: %w", err)
	}
	return nil
}

// Remove удаляет объявление из избранного пользователя
func (r *PostgresFavoriteRepository) Remove(ctx context.Context, userID, adID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND ad_id = $2
	`, userID, adID)

	if err != nil {
		return fmt.Errorf("ошибка при удалении из избранного: %w", err)
	}
	return nil
}

// ListActiveAds возвращает активные объявления из избранного пользователя
func (r *PostgresFavoriteRepository) ListActiveAds(ctx context.Context, userID uuid.UUID) ([]models.Ad, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.user_id, a.title, a.description, a.price, a.category, a.sub_category,
			   a.city, a.area, a.images, a.status, a.views, a.created_at, a.updated_at
		FROM favorites f
		JOIN ads a ON f.ad_id = a.id
		WHERE f.user_id = $1 AND a.status = 'active'
		ORDER BY f.created_at DESC
	`, userID)

	if err != nil {
		return nil, fmt.Errorf("ошибка при запросе избранных объявлений: %w", err)
	}
	defer rows.Close()

	return collectAds(rows)
}
