package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taggerly/taggerly-api/internal/models"
)

// ConversationRepository описывает операции хранилища диалогов и сообщений
type ConversationRepository interface {
	FindOrCreate(ctx context.Context, adID, buyerID, sellerID uuid.UUID) (*models.Conversation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error)
	AppendMessage(ctx context.Context, message *models.ChatMessage) error
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]models.ChatMessage, error)
	MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) error
}

// PostgresConversationRepository реализует ConversationRepository поверх pgx
type PostgresConversationRepository struct {
	pool *pgxpool.Pool
}

// NewConversationRepository создает новый экземпляр PostgresConversationRepository
func NewConversationRepository(pool *pgxpool.Pool) *PostgresConversationRepository {
	return &PostgresConversationRepository{pool: pool}
}

const conversationColumns = `id, ad_id, buyer_id, seller_id, created_at, updated_at`

// FindOrCreate находит диалог по тройке (объявление, покупатель, продавец)
// или создает новый. Вставка идет через ON CONFLICT DO NOTHING с повторным
// чтением, поэтому два одновременных первых запроса сходятся на одной строке.
func (r *PostgresConversationRepository) FindOrCreate(ctx context.Context, adID, buyerID, sellerID uuid.UUID) (*models.Conversation, error) {
	conv, err := r.findByTriple(ctx, adID, buyerID, sellerID)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO conversations (id, ad_id, buyer_id, seller_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ad_id, buyer_id, seller_id) DO NOTHING
	`, uuid.New(), adID, buyerID, sellerID)

	if err != nil {
		return nil, fmt.Errorf("ошибка при создании диалога: %w", err)
	}

	return r.findByTriple(ctx, adID, buyerID, sellerID)
}

// GetByID получает диалог по ID
func (r *PostgresConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+conversationColumns+` FROM conversations WHERE id = $1`, id)
	return scanConversation(row)
}

// ListByUser возвращает все диалоги пользователя с краткой информацией
// о собеседнике и объявлении, последние обновленные первыми
func (r *PostgresConversationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+conversationColumns+` FROM conversations
		WHERE buyer_id = $1 OR seller_id = $1
		ORDER BY updated_at DESC
	`, userID)

	if err != nil {
		return nil, fmt.Errorf("ошибка при запросе диалогов: %w", err)
	}
	defer rows.Close()

	var conversations []models.Conversation
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, *conv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при чтении диалогов: %w", err)
	}

	// Дополняем каждую строку краткой информацией об участниках и объявлении
	for i := range conversations {
		conv := &conversations[i]
		conv.Buyer = r.userSummary(ctx, conv.BuyerID)
		conv.Seller = r.userSummary(ctx, conv.SellerID)
		conv.Ad = r.adSummary(ctx, conv.AdID)
	}

	return conversations, nil
}

// AppendMessage сохраняет сообщение и поднимает диалог наверх списка,
// обновляя его updated_at в той же транзакции
func (r *PostgresConversationRepository) AppendMessage(ctx context.Context, message *models.ChatMessage) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO chat_messages (id, conversation_id, sender_id, message, is_read)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING created_at
	`, message.ID, message.ConversationID, message.SenderID, message.Message).Scan(&message.CreatedAt)

	if err != nil {
		return fmt.Errorf("ошибка при сохранении сообщения: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE conversations SET updated_at = NOW() WHERE id = $1
	`, message.ConversationID)

	if err != nil {
		return fmt.Errorf("ошибка при обновлении диалога: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}
	return nil
}

// ListMessages возвращает сообщения диалога от старых к новым.
// Вторичная сортировка по id делает порядок устойчивым при равных created_at.
func (r *PostgresConversationRepository) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]models.ChatMessage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT m.id, m.conversation_id, m.sender_id, m.message, m.is_read, m.created_at,
			   u.id, u.name, u.avatar
		FROM chat_messages m
		JOIN users u ON m.sender_id = u.id
		WHERE m.conversation_id = $1
		ORDER BY m.created_at ASC, m.id ASC
	`, conversationID)

	if err != nil {
		return nil, fmt.Errorf("ошибка при запросе сообщений: %w", err)
	}
	defer rows.Close()

	var messages []models.ChatMessage
	for rows.Next() {
		var msg models.ChatMessage
		var sender models.UserSummary

		if err := rows.Scan(
			&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.Message, &msg.IsRead, &msg.CreatedAt,
			&sender.ID, &sender.Name, &sender.Avatar,
		); err != nil {
			return nil, fmt.Errorf("ошибка при сканировании сообщения: %w", err)
		}

		msg.Sender = &sender
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка при чтении сообщений: %w", err)
	}

	return messages, nil
}

// MarkRead помечает прочитанными все сообщения диалога, отправленные не читателем
func (r *PostgresConversationRepository) MarkRead(ctx context.Context, conversationID, readerID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE chat_messages
		SET is_read = TRUE
		WHERE conversation_id = $1 AND sender_id != $2 AND is_read = FALSE
	`, conversationID, readerID)

	if err != nil {
		return fmt.Errorf("ошибка при обновлении статуса прочтения: %w", err)
	}
	return nil
}

func (r *PostgresConversationRepository) findByTriple(ctx context.Context, adID, buyerID, sellerID uuid.UUID) (*models.Conversation, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+conversationColumns+` FROM conversations
		WHERE ad_id = $1 AND buyer_id = $2 AND seller_id = $3
	`, adID, buyerID, sellerID)
	return scanConversation(row)
}

// userSummary получает краткую информацию о пользователе
func (r *PostgresConversationRepository) userSummary(ctx context.Context, userID uuid.UUID) *models.UserSummary {
	var user models.UserSummary
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, avatar FROM users WHERE id = $1
	`, userID).Scan(&user.ID, &user.Name, &user.Avatar)

	if err != nil {
		log.Printf("Ошибка получения данных пользователя %s: %v", userID, err)
		return nil
	}
	return &user
}

// adSummary получает краткую информацию об объявлении (с первым изображением)
func (r *PostgresConversationRepository) adSummary(ctx context.Context, adID uuid.UUID) *models.AdSummary {
	var summary models.AdSummary
	var images []string
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, price, images FROM ads WHERE id = $1
	`, adID).Scan(&summary.ID, &summary.Title, &summary.Price, &images)

	if err != nil {
		log.Printf("Ошибка получения данных объявления %s: %v", adID, err)
		return nil
	}
	if len(images) > 0 {
		summary.Image = images[0]
	}
	return &summary
}

func scanConversation(row pgx.Row) (*models.Conversation, error) {
	var conv models.Conversation
	err := row.Scan(&conv.ID, &conv.AdID, &conv.BuyerID, &conv.SellerID, &conv.CreatedAt, &conv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка при получении диалога: %w", err)
	}
	return &conv, nil
}
