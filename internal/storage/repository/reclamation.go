package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// CreateReclamation сохраняет новое обращение и возвращает его ID.
func (s *Storage) CreateReclamation(ctx context.Context, rec models.Reclamation) (int, error) {
	const op = "storage.CreateReclamation"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int
	query := `INSERT INTO reclamations (name, email, subject, message, status)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		rec.Name, rec.Email, rec.Subject, rec.Message, models.ReclamationPending).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListReclamations возвращает все обращения, новые первыми.
func (s *Storage) ListReclamations(ctx context.Context) ([]*models.Reclamation, error) {
	const op = "storage.ListReclamations"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, email, subject, message, status, created_at
			  FROM reclamations
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Reclamation
	for rows.Next() {
		var item models.Reclamation
		if err := rows.Scan(&item.ID, &item.Name, &item.Email, &item.Subject,
			&item.Message, &item.Status, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ReadReclamation возвращает обращение по ID.
func (s *Storage) ReadReclamation(ctx context.Context, id int) (*models.Reclamation, error) {
	const op = "storage.ReadReclamation"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, email, subject, message, status, created_at
			  FROM reclamations
			  WHERE id = $1`
	var item models.Reclamation
	row := s.DB.QueryRowContext(ctx, query, id)
	if err := row.Scan(&item.ID, &item.Name, &item.Email, &item.Subject,
		&item.Message, &item.Status, &item.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &item, nil
}

// UpdateReclamationStatus меняет статус обращения
// и возвращает количество изменённых строк.
func (s *Storage) UpdateReclamationStatus(ctx context.Context, id int, status string) (int, error) {
	const op = "storage.UpdateReclamationStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE reclamations SET status = $1 WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveReclamation удаляет обращение и возвращает количество удалённых строк.
func (s *Storage) RemoveReclamation(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveReclamation"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM reclamations WHERE id = $1`
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
