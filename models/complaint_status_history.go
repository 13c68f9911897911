package models

import "time"

// ComplaintStatusHistory tracks historical status changes for complaints.
// A row is written in the same transaction as the status change itself.
type ComplaintStatusHistory struct {
	HistoryID   int              `gorm:"primaryKey;column:history_id" json:"history_id"`
	ComplaintID uint             `gorm:"column:complaint_id" json:"complaint_id"`
	OldStatus   *ComplaintStatus `gorm:"column:old_status" json:"old_status"`
	NewStatus   ComplaintStatus  `gorm:"column:new_status" json:"new_status"`
	ChangedBy   int              `gorm:"column:changed_by" json:"changed_by"`
	Transition  string           `gorm:"column:transition" json:"transition"`
	Remark      *string          `gorm:"column:remark" json:"remark"`
	CreatedAt   time.Time        `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table for ComplaintStatusHistory.
func (ComplaintStatusHistory) TableName() string {
	return "complaint_status_history"
}
