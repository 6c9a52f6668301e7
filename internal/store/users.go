package store

import (
	"context" // Request-scoped cancellation
	"errors"  // Error inspection
	"fmt"     // Error wrapping
	"strings" // Case-insensitive fallback comparison

	"feedback_board/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// UserStore persists users and enforces username/email uniqueness
type UserStore struct {
	db *gorm.DB
}

// NewUserStore returns a UserStore backed by db
func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a user. A taken username or email yields *domain.ConflictError.
func (s *UserStore) Create(ctx context.Context, user domain.User) (domain.User, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		conflict, err := findConflict(tx, user.Username, user.Email)
		if err != nil {
			return err
		}
		if conflict.Any() {
			return &domain.ConflictError{Conflict: conflict}
		}
		return tx.Create(&user).Error
	})
	if err == nil {
		return user, nil
	}
	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) {
		return domain.User{}, conflictErr
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// A concurrent registration won the insert; report what it took
		conflict, lookupErr := s.FindByUsernameOrEmail(ctx, user.Username, user.Email)
		if lookupErr != nil || !conflict.Any() {
			conflict = domain.Conflict{Username: true}
		}
		return domain.User{}, &domain.ConflictError{Conflict: conflict}
	}
	return domain.User{}, fmt.Errorf("create user: %w", err)
}

// FindByUsername returns the user or domain.ErrNotFound
func (s *UserStore) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// FindByUsernameOrEmail reports whether the username, the email, or both are taken
func (s *UserStore) FindByUsernameOrEmail(ctx context.Context, username, email string) (domain.Conflict, error) {
	return findConflict(s.db.WithContext(ctx), username, email)
}

// Delete removes the user and all of its feedback in one transaction
func (s *UserStore) Delete(ctx context.Context, username string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("username = ?", username).Delete(&domain.Feedback{}).Error; err != nil {
			return fmt.Errorf("delete feedback of %s: %w", username, err)
		}
		res := tx.Where("username = ?", username).Delete(&domain.User{})
		if res.Error != nil {
			return fmt.Errorf("delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound // Rolls back the feedback delete too
		}
		return nil
	})
}

// findConflict checks every row matching either field, so both flags are set when both apply
func findConflict(tx *gorm.DB, username, email string) (domain.Conflict, error) {
	var rows []domain.User
	err := tx.Select("username", "email").
		Where("username = ? OR email = ?", username, email).
		Limit(2).
		Find(&rows).Error
	if err != nil {
		return domain.Conflict{}, fmt.Errorf("lookup username/email: %w", err)
	}
	var c domain.Conflict
	for _, row := range rows {
		matched := false
		if row.Username == username {
			c.Username, matched = true, true
		}
		if row.Email == email {
			c.Email, matched = true, true
		}
		if !matched {
			// The database matched under a case-insensitive collation
			c.Username = c.Username || strings.EqualFold(row.Username, username)
			c.Email = c.Email || strings.EqualFold(row.Email, email)
		}
	}
	return c, nil
}
