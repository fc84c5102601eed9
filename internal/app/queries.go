package app

import (
	"context"
	"fmt"
	"time"

	"bookparse/internal/domain"
)

type QueryService struct {
	repo     domain.ReservationRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.ReservationRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) GetReservation(ctx context.Context, id int64) (domain.Reservation, error) {
	key := fmt.Sprintf("reservation:%d", id)
	var r domain.Reservation
	if ok, _ := s.cache.Get(ctx, key, &r); ok {
		return r, nil
	}
	r, err := s.repo.GetReservation(ctx, id)
	if err != nil {
		return domain.Reservation{}, err
	}
	_ = s.cache.Set(ctx, key, r, int(s.cacheTTL.Seconds()))
	return r, nil
}

func (s *QueryService) GetDocument(ctx context.Context, id int64) (domain.Document, error) {
	return s.repo.GetDocument(ctx, id)
}

func (s *QueryService) ListAudit(ctx context.Context, reservationID int64, limit int) ([]domain.AuditNote, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListAudit(ctx, reservationID, limit)
}
