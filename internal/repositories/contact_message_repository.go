package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taggerly/taggerly-api/internal/models"
)

// ContactMessageRepository описывает операции хранилища сообщений контактной формы
type ContactMessageRepository interface {
	Create(ctx context.Context, message *models.ContactMessage) error
	List(ctx context.Context) ([]models.ContactMessage, error)
}

// PostgresContactMessageRepository реализует ContactMessageRepository поверх pgx
type PostgresContactMessageRepository struct {
	pool *pgxpool.Pool
}

// NewContactMessageRepository создает новый экземпляр PostgresContactMessageRepository
func NewContactMessageRepository(pool *pgxpool.Pool) *PostgresContactMessageRepository {
	return &PostgresContactMessageRepository{pool: pool}
}

// Create сохраняет сообщение контактной формы
func (r *PostgresContactMessageRepository) Create(ctx context.Context, message *models.ContactMessage) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO contact_messages (id, name, email, subject, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, message.ID, message.Name, message.Email, message.Subject, message.Message).Scan(&message.CreatedAt)

	if err != nil {
		return fmt.Errorf("ошибка при сохранении сообщения: %w", err)
	}
	return nil
}

// List возвращает все сообщения контактной формы, новые первыми
func (r *PostgresContactMessageRepository) List(ctx context.Context) ([]models.ContactMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, subject, message, is_read, created_at
		FROM contact_messages
		ORDER BY created_at DESC
	`)

	if err != nil {
		return nil, fmt.Errorf("ошибка при запросе сообщений: %w", err)
	}
	defer rows.Close()

	var messages []models.ContactMessage
	for rows.Next() {
		var msg models.ContactMessage
		if err := rows.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Subject, &msg.Message, &msg.IsRead, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("ошибка при сканировании сообщения: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при чтении сообщений: %w", err)
	}

	return messages, nil
}
