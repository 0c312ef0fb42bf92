package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taggerly/taggerly-api/internal/models"
)

// AdFilter содержит параметры фильтрации и пагинации публичного списка объявлений
type AdFilter struct {
	Category string
	City     string
	MinPrice *float64
	MaxPrice *float64
	Search   string
	Page     int
	Limit    int
}

// AdRepository описывает операции хранилища объявлений
type AdRepository interface {
	Create(ctx context.Context, ad *models.Ad) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Ad, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error
	ListActive(ctx context.Context, filter AdFilter) ([]models.Ad, int, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Ad, error)
	Update(ctx context.Context, ad *models.Ad) error
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	OwnerStats(ctx context.Context, ownerID uuid.UUID) (*models.DashboardStats, error)
}

// PostgresAdRepository реализует AdRepository поверх pgx
type PostgresAdRepository struct {
	pool *pgxpool.Pool
}

// NewAdRepository создает новый экземпляр PostgresAdRepository
func NewAdRepository(pool *pgxpool.Pool) *PostgresAdRepository {
	return &PostgresAdRepository{pool: pool}
}

const adColumns = `id, user_id, title, description, price, category, sub_category, city, area, images, status, views, created_at, updated_at`

// Create сохраняет новое объявление
func (r *PostgresAdRepository) Create(ctx context.Context, ad *models.Ad) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO ads (id, user_id, title, description, price, category, sub_category, city, area, images, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING views, created_at, updated_at
	`, ad.ID, ad.UserID, ad.Title, ad.Description, ad.Price, ad.Category,
		ad.SubCategory, ad.City, ad.Area, ad.Images, ad.Status).Scan(&ad.Views, &ad.CreatedAt, &ad.UpdatedAt)

	if err != nil {
		return fmt.Errorf("ошибка при создании объявления: %w", err)
	}
	return nil
}

// GetByID получает объявление по ID
func (r *PostgresAdRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Ad, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+adColumns+` FROM ads WHERE id = $1`, id)
	ad, err := scanAd(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка при получении объявления: %w", err)
	}
	return ad, nil
}

// IncrementViews увеличивает счетчик просмотров объявления
func (r *PostgresAdRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE ads SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении счетчика просмотров: %w", err)
	}
	return nil
}

// ListActive возвращает активные объявления по фильтру вместе с общим количеством
func (r *PostgresAdRepository) ListActive(ctx context.Context, filter AdFilter) ([]models.Ad, int, error) {
	where := `status = 'active'`
	args := []interface{}{}

	addCond := func(cond string, value interface{}) {
		args = append(args, value)
		where += fmt.Sprintf(" AND "+cond, len(args))
	}

	if filter.Category != "" {
		addCond("category = $%d", filter.Category)
	}
	if filter.City != "" {
		addCond("city = $%d", filter.City)
	}
	if filter.MinPrice != nil {
		addCond("price >= $%d", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		addCond("price <= $%d", *filter.MaxPrice)
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}

	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ads WHERE `+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка при подсчете объявлений: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)
	query := fmt.Sprintf(`SELECT `+adColumns+` FROM ads WHERE `+where+`
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ошибка при запросе объявлений: %w", err)
	}
	defer rows.Close()

	ads, err := collectAds(rows)
	if err != nil {
		return nil, 0, err
	}
	return ads, total, nil
}

// ListByOwner возвращает все объявления пользователя, новые первыми
func (r *PostgresAdRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Ad, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+adColumns+` FROM ads
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при запросе объявлений пользователя: %w", err)
	}
	defer rows.Close()

	return collectAds(rows)
}

// Update сохраняет измененные поля объявления
func (r *PostgresAdRepository) Update(ctx context.Context, ad *models.Ad) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE ads
		SET title = $1, description = $2, price = $3, category = $4, sub_category = $5,
			city = $6, area = $7, images = $8, status = $9, updated_at = NOW()
		WHERE id = $10
	`, ad.Title, ad.Description, ad.Price, ad.Category, ad.SubCategory,
		ad.City, ad.Area, ad.Images, ad.Status, ad.ID)

	if err != nil {
		return fmt.Errorf("ошибка при обновлении объявления: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus переводит объявление в указанный статус (мягкое удаление — это status = deleted)
func (r *PostgresAdRepository) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE ads SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("ошибка при смене статуса объявления: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// OwnerStats агрегирует статистику по объявлениям пользователя
func (r *PostgresAdRepository) OwnerStats(ctx context.Context, ownerID uuid.UUID) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			   COUNT(*) FILTER (WHERE status = 'active'),
			   COUNT(*) FILTER (WHERE status = 'sold'),
			   COALESCE(SUM(views), 0)
		FROM ads
		WHERE user_id = $1
	`, ownerID).Scan(&stats.TotalAds, &stats.ActiveAds, &stats.SoldAds, &stats.TotalViews)

	if err != nil {
		return nil, fmt.Errorf("ошибка при подсчете статистики: %w", err)
	}
	return &stats, nil
}

func scanAd(row pgx.Row) (*models.Ad, error) {
	var ad models.Ad
	err := row.Scan(
		&ad.ID, &ad.UserID, &ad.Title, &ad.Description, &ad.Price,
		&ad.Category, &ad.SubCategory, &ad.City, &ad.Area, &ad.Images,
		&ad.Status, &ad.Views, &ad.CreatedAt, &ad.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ad, nil
}

func collectAds(rows pgx.Rows) ([]models.Ad, error) {
	var ads []models.Ad
	for rows.Next() {
		ad, err := scanAd(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка при сканировании объявления: %w", err)
		}
		ads = append(ads, *ad)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при чтении объявлений: %w", err)
	}
	return ads, nil
}
