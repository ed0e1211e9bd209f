package service

import (
	"context"
	"fmt"

	"book_catalog/internal/common"
	"book_catalog/internal/models"
	"book_catalog/internal/repository"
)

type ReviewService struct {
	catalog repository.Catalog
	events  eventRecorder
}

func NewReviewService(catalog repository.Catalog, events repository.EventRepo) *ReviewService {
	return &ReviewService{catalog: catalog, events: eventRecorder{repo: events}}
}

// AddOrModifyReview sets username's review on isbn, replacing any previous one.
func (s *ReviewService) AddOrModifyReview(ctx context.Context, isbn, username, review string) error {
	if username == "" {
		return common.ErrUnauthorized
	}
	if err := s.catalog.PutReview(ctx, isbn, username, review); err != nil {
		return fmt.Errorf("put review %s/%s: %w", isbn, username, err)
	}
	s.events.record(ctx, models.EventReviewSet, username, isbn, "review added or modified")
	return nil
}

// DeleteReview removes username's review on isbn.
func (s *ReviewService) DeleteReview(ctx context.Context, isbn, username string) error {
	if username == "" {
		return common.ErrUnauthorized
	}
	if err := s.catalog.DeleteReview(ctx, isbn, username); err != nil {
		return fmt.Errorf("delete review %s/%s: %w", isbn, username, err)
	}
	s.events.record(ctx, models.EventReviewDeleted, username, isbn, "review deleted")
	return nil
}
