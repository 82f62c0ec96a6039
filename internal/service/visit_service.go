package service

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/snapspot/snapspot-api/internal/domain"
	"github.com/snapspot/snapspot-api/internal/repository/ports"
)

const (
	visitHistoryCap    = 10
	visitRecordTimeout = 5 * time.Second
)

type VisitService struct {
	visits ports.VisitRepository
}

func NewVisitService(visitRepo ports.VisitRepository) *VisitService {
	return &VisitService{visits: visitRepo}
}

// RecordAsync writes a visit on a detached goroutine. Recording is a
// side-effect of viewing a venue and must never affect the primary call,
// so errors are logged and discarded.
func (s *VisitService) RecordAsync(userID, venueID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), visitRecordTimeout)
		defer cancel()

		if err := s.visits.Record(ctx, userID, venueID); err != nil {
			log.Warnf("visit record failed: user=%s venue=%s: %v", userID, venueID, err)
			return
		}
		if err := s.trim(ctx, userID); err != nil {
			log.Warnf("visit history trim failed: user=%s: %v", userID, err)
		}
	}()
}

// Recent returns the caller's visit history, newest first.
func (s *VisitService) Recent(ctx context.Context, userID string) ([]domain.VisitListItem, error) {
	return s.visits.Recent(ctx, userID, visitHistoryCap)
}

func (s *VisitService) trim(ctx context.Context, userID string) error {
	count, err := s.visits.CountByUser(ctx, userID)
	if err != nil {
		return err
	}
	if count <= visitHistoryCap {
		return nil
	}
	return s.visits.DeleteOldest(ctx, userID, int(count)-visitHistoryCap)
}
