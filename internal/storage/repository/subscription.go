package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// Теги хранятся колонкой JSONB, поэтому на границе хранилища
// они сериализуются и разбираются вручную.
func marshalTags(tags []string) (any, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	return json.Marshal(tags)
}

func scanSubscriptionRow(scan func(dest ...any) error) (*models.Subscription, error) {
	var item models.Subscription
	var notes sql.NullString
	var tags []byte
	if err := scan(&item.ID, &item.Name, &item.ProviderID, &item.Username, &item.UserUID,
		&item.Amount, &item.BillingCycle, &item.NextPaymentDate, &notes, &tags, &item.CreatedAt); err != nil {
		return nil, err
	}
	if notes.Valid {
		item.Notes = &notes.String
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &item.Tags); err != nil {
			return nil, err
		}
	}
	return &item, nil
}

const subscriptionColumns = `id, name, provider_id, username, user_uid, amount,
			      billing_cycle, next_payment_date, notes, tags, created_at`

// CreateSubscription вставляет новую подписку и возвращает её ID.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (int, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tags, err := marshalTags(sub.Tags)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO subscriptions (name, provider_id, username, user_uid, amount,
			      billing_cycle, next_payment_date, notes, tags)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`
	var newID int
	err = s.DB.QueryRowContext(ctx, query,
		sub.Name, sub.ProviderID, sub.Username, sub.UserUID, sub.Amount,
		sub.BillingCycle, sub.NextPaymentDate, sub.Notes, tags).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadSubscription возвращает подписку пользователя по её ID.
// Чужая подписка не возвращается.
func (s *Storage) ReadSubscription(ctx context.Context, id int, username string) (*models.Subscription, error) {
	const op = "storage.ReadSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions WHERE id = $1 AND username = $2`
	row := s.DB.QueryRowContext(ctx, query, id, username)

	result, err := scanSubscriptionRow(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateSubscription обновляет данные подписки пользователя
// и возвращает количество изменённых строк.
func (s *Storage) UpdateSubscription(ctx context.Context, sub models.Subscription, id int, username string) (int, error) {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tags, err := marshalTags(sub.Tags)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE subscriptions
			  SET name = $1, provider_id = $2, amount = $3, billing_cycle = $4,
			      next_payment_date = $5, notes = $6, tags = $7
			  WHERE id = $8 AND username = $9`
	result, err := s.DB.ExecContext(ctx, query,
		sub.Name, sub.ProviderID, sub.Amount, sub.BillingCycle,
		sub.NextPaymentDate, sub.Notes, tags, id, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return int(rowsAffected), nil
}

// UpdateNextPaymentDate сдвигает дату следующего списания подписки.
// Единственная запись, которую выполняет продление.
func (s *Storage) UpdateNextPaymentDate(ctx context.Context, id int, next time.Time) (int, error) {
	const op = "storage.UpdateNextPaymentDate"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions SET next_payment_date = $1 WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, next, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveSubscription удаляет подписку пользователя по ID
// и возвращает количество удалённых строк.
func (s *Storage) RemoveSubscription(ctx context.Context, id int, username string) (int, error) {
	const op = "storage.RemoveSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM subscriptions WHERE id = $1 AND username = $2`
	result, err := s.DB.ExecContext(ctx, query, id, username)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListSubscriptions возвращает список подписок пользователя с пагинацией.
func (s *Storage) ListSubscriptions(ctx context.Context, username string, limit, offset int) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  WHERE username = $1
			  ORDER BY id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, username, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		item, err := scanSubscriptionRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAllSubscriptions возвращает подписки всех пользователей с пагинацией.
// Используется административной панелью, записи не изменяются.
func (s *Storage) ListAllSubscriptions(ctx context.Context, limit, offset int) ([]*models.Subscription, error) {
	const op = "storage.ListAllSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		item, err := scanSubscriptionRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindSubscriptionsDueWithin находит подписки, списание по которым
// наступает в ближайшие days дней, вместе с почтой владельца.
func (s *Storage) FindSubscriptionsDueWithin(ctx context.Context, days int) ([]*models.SubscriptionNotice, error) {
	const op = "storage.FindSubscriptionsDueWithin"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT s.id, u.email, s.username, s.name, s.amount, s.next_payment_date
			  FROM subscriptions s
			  JOIN users u ON s.user_uid = u.uid
			  WHERE s.next_payment_date >= CURRENT_DATE
			    AND s.next_payment_date <= CURRENT_DATE + $1 * INTERVAL '1 day'`
	rows, err := s.DB.QueryContext(ctx, query, days)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.SubscriptionNotice
	for rows.Next() {
		var item models.SubscriptionNotice
		if err := rows.Scan(&item.SubscriptionID, &item.Email, &item.Username,
			&item.Name, &item.Amount, &item.NextPaymentDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
