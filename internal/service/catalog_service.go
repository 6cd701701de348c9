package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/gallery_booking/internal/formatting"
	"github.com/Freeeeeet/gallery_booking/internal/model"
)

// CatalogService каталог активных выставок
type CatalogService struct {
	exhibitions ExhibitionStore
}

func NewCatalogService(exhibitions ExhibitionStore) *CatalogService {
	return &CatalogService{exhibitions: exhibitions}
}

// List возвращает активные выставки
func (s *CatalogService) List(ctx context.Context) ([]*model.ExhibitionView, error) {
	exhibitions, err := s.exhibitions.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exhibitions: %w", err)
	}

	views := make([]*model.ExhibitionView, 0, len(exhibitions))
	for _, e := range exhibitions {
		views = append(views, toExhibitionView(e))
	}
	return views, nil
}

// Get возвращает активную выставку по ID
func (s *CatalogService) Get(ctx context.Context, id int64) (*model.ExhibitionView, error) {
	exhibition, err := s.exhibitions.GetActiveByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get exhibition: %w", err)
	}
	if exhibition == nil {
		return nil, ErrExhibitionNotFound
	}
	return toExhibitionView(exhibition), nil
}

func toExhibitionView(e *model.Exhibition) *model.ExhibitionView {
	return &model.ExhibitionView{
		Exhibition:   *e,
		ScheduleText: formatting.ScheduleText(e),
	}
}
