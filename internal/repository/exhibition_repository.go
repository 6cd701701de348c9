package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/gallery_booking/internal/model"
	"github.com/Freeeeeet/gallery_booking/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

const exhibitionColumns = `id, name, description, duration_minutes, price, capacity, schedule_days, is_active, created_at`

type ExhibitionRepository struct {
	*base.Repository
}

func NewExhibitionRepository(pool *pgxpool.Pool) *ExhibitionRepository {
	return &ExhibitionRepository{Repository: base.NewRepository(pool)}
}

// GetActiveByID получает активную выставку по ID
func (r *ExhibitionRepository) GetActiveByID(ctx context.Context, id int64) (*model.Exhibition, error) {
	query := `SELECT ` + exhibitionColumns + ` FROM exhibitions WHERE id = $1 AND is_active = true`

	exhibition, err := scanExhibition(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active exhibition: %w", err)
	}

	return exhibition, nil
}

// GetByID получает выставку по ID независимо от активности
func (r *ExhibitionRepository) GetByID(ctx context.Context, id int64) (*model.Exhibition, error) {
	query := `SELECT ` + exhibitionColumns + ` FROM exhibitions WHERE id = $1`

	exhibition, err := scanExhibition(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get exhibition by id: %w", err)
	}

	return exhibition, nil
}

// ListActive получает все активные выставки
func (r *ExhibitionRepository) ListActive(ctx context.Context) ([]*model.Exhibition, error) {
	query := `SELECT ` + exhibitionColumns + ` FROM exhibitions WHERE is_active = true ORDER BY id`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active exhibitions: %w", err)
	}
	defer rows.Close()

	exhibitions := make([]*model.Exhibition, 0)
	for rows.Next() {
		exhibition, err := scanExhibition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan exhibition: %w", err)
		}
		exhibitions = append(exhibitions, exhibition)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate exhibitions: %w", err)
	}

	return exhibitions, nil
}

func scanExhibition(row rowScanner) (*model.Exhibition, error) {
	var exhibition model.Exhibition
	err := row.Scan(
		&exhibition.ID,
		&exhibition.Name,
		&exhibition.Description,
		&exhibition.DurationMinutes,
		&exhibition.Price,
		&exhibition.Capacity,
		&exhibition.ScheduleDays,
		&exhibition.IsActive,
		&exhibition.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &exhibition, nil
}
