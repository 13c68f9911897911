package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"grievance-management-api/models"
)

// GormComplaintStore persists complaints through GORM. Update takes a row
// lock on the complaint for the duration of the mutation, which serializes
// concurrent transitions on the same record.
type GormComplaintStore struct {
	db *gorm.DB
}

func NewGormComplaintStore(db *gorm.DB) *GormComplaintStore {
	return &GormComplaintStore{db: db}
}

func (s *GormComplaintStore) Get(id uint) (*models.Complaint, error) {
	var cm models.Complaint
	if err := s.db.Where("complaint_id = ?", id).First(&cm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComplaintNotFound
		}
		return nil, err
	}
	return &cm, nil
}

func (s *GormComplaintStore) Update(id uint, meta ChangeMeta, mutate func(cm *models.Complaint) (bool, error)) (*models.Complaint, error) {
	var out *models.Complaint

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cm models.Complaint
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("complaint_id = ?", id).
			First(&cm).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrComplaintNotFound
			}
			return err
		}

		oldStatus := cm.Status
		changed, err := mutate(&cm)
		if err != nil {
			return err
		}
		if !changed {
			out = &cm
			return nil
		}

		now := time.Now()
		cm.UpdateAt = &now
		if err := tx.Save(&cm).Error; err != nil {
			return err
		}

		if cm.Status != oldStatus || meta.Transition == TransitionChangeDepartment ||
			meta.Transition == TransitionAERemarkWhenCRNotSatisfied ||
			meta.Transition == TransitionEERemarkWhenCRNotSatisfied {
			old := oldStatus
			history := models.ComplaintStatusHistory{
				ComplaintID: cm.ComplaintID,
				OldStatus:   &old,
				NewStatus:   cm.Status,
				ChangedBy:   meta.ActorID,
				Transition:  string(meta.Transition),
				CreatedAt:   now,
			}
			if meta.Remark != "" {
				remark := meta.Remark
				history.Remark = &remark
			}
			if err := tx.Create(&history).Error; err != nil {
				return err
			}
		}

		out = &cm
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new complaint in RAISED status.
func (s *GormComplaintStore) Create(cm *models.Complaint) error {
	return s.db.Create(cm).Error
}
