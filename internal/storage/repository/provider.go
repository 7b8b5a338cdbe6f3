package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// ListProviders возвращает всех провайдеров.
func (s *Storage) ListProviders(ctx context.Context) ([]*models.Provider, error) {
	const op = "storage.ListProviders"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, logo_path FROM providers ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Provider
	for rows.Next() {
		var item models.Provider
		if err := rows.Scan(&item.ID, &item.Name, &item.LogoPath); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ProviderExists проверяет существование провайдера по ID.
func (s *Storage) ProviderExists(ctx context.Context, id int) (bool, error) {
	const op = "storage.ProviderExists"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM providers WHERE id = $1)`
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// CreateProvider добавляет нового провайдера и возвращает его ID.
func (s *Storage) CreateProvider(ctx context.Context, provider models.Provider) (int, error) {
	const op = "storage.CreateProvider"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	query := `INSERT INTO providers (name, logo_path) VALUES ($1, $2) RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query, provider.Name, provider.LogoPath).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// UpdateProvider обновляет провайдера и возвращает количество изменённых строк.
func (s *Storage) UpdateProvider(ctx context.Context, provider models.Provider, id int) (int, error) {
	const op = "storage.UpdateProvider"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE providers SET name = $1, logo_path = $2 WHERE id = $3`
	result, err := s.DB.ExecContext(ctx, query, provider.Name, provider.LogoPath, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveProvider удаляет провайдера и возвращает количество удалённых строк.
func (s *Storage) RemoveProvider(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveProvider"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM providers WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
