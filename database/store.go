package database

import (
	"errors"

	"github.com/chxlky/canvas-trello-sync/internal/models"
	"gorm.io/gorm"
)

// AssignmentStore remembers which Canvas assignments already have a Trello card.
type AssignmentStore struct {
	DB *gorm.DB
}

// Find returns the record for the assignment url, or nil if it has not been synced.
func (s *AssignmentStore) Find(url string) (*models.SyncedAssignment, error) {
	var rec models.SyncedAssignment
	err := s.DB.First(&rec, "url = ?", url).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *AssignmentStore) Save(rec *models.SyncedAssignment) error {
	return s.DB.Save(rec).Error
}

func (s *AssignmentStore) Count() (int64, error) {
	var n int64
	err := s.DB.Model(&models.SyncedAssignment{}).Count(&n).Error
	return n, err
}
