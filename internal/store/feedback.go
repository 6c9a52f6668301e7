package store

import (
	"context" // Request-scoped cancellation
	"errors"  // Error inspection
	"fmt"     // Error wrapping

	"feedback_board/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// FeedbackStore persists feedback entries
type FeedbackStore struct {
	db *gorm.DB
}

// NewFeedbackStore returns a FeedbackStore backed by db
func NewFeedbackStore(db *gorm.DB) *FeedbackStore {
	return &FeedbackStore{db: db}
}

// Create inserts a feedback entry owned by owner; the id comes from the database
func (s *FeedbackStore) Create(ctx context.Context, title, content, owner string) (domain.Feedback, error) {
	fb := domain.Feedback{Title: title, Content: content, Username: owner}
	if err := s.db.WithContext(ctx).Create(&fb).Error; err != nil {
		return domain.Feedback{}, fmt.Errorf("create feedback: %w", err)
	}
	return fb, nil
}

// FindByID returns the feedback or domain.ErrNotFound
func (s *FeedbackStore) FindByID(ctx context.Context, id uint) (domain.Feedback, error) {
	var fb domain.Feedback
	err := s.db.WithContext(ctx).First(&fb, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Feedback{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("find feedback: %w", err)
	}
	return fb, nil
}

// ListByOwner returns the user's feedback in insertion order
func (s *FeedbackStore) ListByOwner(ctx context.Context, username string) ([]domain.Feedback, error) {
	var list []domain.Feedback
	err := s.db.WithContext(ctx).
		Where("username = ?", username).
		Order("id asc").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return list, nil
}

// Update replaces title and content; id and owner are left untouched
func (s *FeedbackStore) Update(ctx context.Context, id uint, title, content string) (domain.Feedback, error) {
	var fb domain.Feedback
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&fb, id).Error; err != nil {
			return err
		}
		fb.Title, fb.Content = title, content
		return tx.Model(&fb).Updates(map[string]any{"title": title, "content": content}).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Feedback{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Feedback{}, fmt.Errorf("update feedback: %w", err)
	}
	return fb, nil
}

// Delete removes one feedback entry
func (s *FeedbackStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&domain.Feedback{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete feedback: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
