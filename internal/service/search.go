package service

import (
	"LinkKeeper/internal/model"
	"LinkKeeper/internal/repo"
	"context"

	"go.uber.org/zap"
)

// SearchService держит полнотекстовый индекс в согласии с опубликованными
// ссылками. Инвариант: строка индекса существует ⇔ ссылка опубликована.
type SearchService struct {
	repo   repo.SearchRepository
	logger *zap.SugaredLogger
}

func NewSearchService(r repo.SearchRepository, logger *zap.SugaredLogger) *SearchService {
	return &SearchService{repo: r, logger: logger}
}

// indexRow собирает строку индекса из финальных (user*) полей ссылки.
func indexRow(link *model.Link) *model.LinkSearchIndex {
	return &model.LinkSearchIndex{
		LinkID:      link.ID,
		Title:       link.Title,
		Description: link.FinalDescription(),
		Tags:        link.FinalTags(),
		Domain:      link.Domain,
		Category:    link.FinalCategory(),
	}
}

// OnPublish апсертит строку индекса после записи ссылки.
func (s *SearchService) OnPublish(ctx context.Context, link *model.Link) error {
	return s.repo.Upsert(ctx, indexRow(link))
}

// OnUnpublish убирает строку индекса при снятии с публикации/удалении.
func (s *SearchService) OnUnpublish(ctx context.Context, linkID uint) error {
	return s.repo.Delete(ctx, linkID)
}

// Search возвращает id подходящих опубликованных ссылок.
func (s *SearchService) Search(ctx context.Context, query string) ([]uint, error) {
	return s.repo.Search(ctx, query)
}

// Rebuild пересобирает индекс из текущего набора опубликованных ссылок.
// Идемпотентен и безопасен при параллельных обычных записях: только
// апсертит строки текущих published-id и вычищает лишние.
func (s *SearchService) Rebuild(ctx context.Context, published []model.Link) error {
	keep := make([]uint, 0, len(published))
	for i := range published {
		link := &published[i]
		if link.Status != model.StatusPublished {
			continue
		}
		if err := s.repo.Upsert(ctx, indexRow(link)); err != nil {
			return err
		}
		keep = append(keep, link.ID)
	}
	return s.repo.DeleteExcept(ctx, keep)
}
