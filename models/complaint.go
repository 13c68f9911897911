package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ComplaintStatus is the workflow state of a complaint. Transitions between
// statuses are owned by services.WorkflowEngine; nothing else writes this field.
type ComplaintStatus string

const (
	StatusRaised           ComplaintStatus = "RAISED"
	StatusJEAcknowledged   ComplaintStatus = "JE_ACKNOWLEDGED"
	StatusJEWorkDone       ComplaintStatus = "JE_WORKDONE"
	StatusResourceRequired ComplaintStatus = "RESOURCE_REQUIRED"
	StatusAEAcknowledged   ComplaintStatus = "AE_ACKNOWLEDGED"
	StatusAENotSatisfied   ComplaintStatus = "AE_NOT_SATISFIED"
	StatusAENotTerminated  ComplaintStatus = "AE_NOT_TERMINATED"
	StatusAETerminated     ComplaintStatus = "AE_TERMINATED"
	StatusEEAcknowledged   ComplaintStatus = "EE_ACKNOWLEDGED"
	StatusEENotSatisfied   ComplaintStatus = "EE_NOT_SATISFIED"
	StatusEENotTerminated  ComplaintStatus = "EE_NOT_TERMINATED"
	StatusEETerminated     ComplaintStatus = "EE_TERMINATED"
	StatusCRNotSatisfied   ComplaintStatus = "CR_NOT_SATISFIED"
	StatusResolved         ComplaintStatus = "RESOLVED"
	StatusTerminated       ComplaintStatus = "TERMINATED"
)

// AllStatuses lists every valid complaint status.
var AllStatuses = []ComplaintStatus{
	StatusRaised, StatusJEAcknowledged, StatusJEWorkDone, StatusResourceRequired,
	StatusAEAcknowledged, StatusAENotSatisfied, StatusAENotTerminated, StatusAETerminated,
	StatusEEAcknowledged, StatusEENotSatisfied, StatusEENotTerminated, StatusEETerminated,
	StatusCRNotSatisfied, StatusResolved, StatusTerminated,
}

// IsValid reports whether s is a member of the status set.
func (s ComplaintStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition leaves s.
func (s ComplaintStatus) IsTerminal() bool {
	return s == StatusResolved || s == StatusTerminated
}

// Department a complaint is assigned to.
type Department string

const (
	DepartmentCivil      Department = "CIVIL"
	DepartmentElectrical Department = "ELECTRICAL"
	DepartmentIT         Department = "IT"
)

// IsValid reports whether d is a known department.
func (d Department) IsValid() bool {
	return d == DepartmentCivil || d == DepartmentElectrical || d == DepartmentIT
}

// StringList stores an ordered list of strings as a JSON column.
// Used for media path lists and the CR-not-satisfied remark threads.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	return json.Unmarshal(data, l)
}

// Complaint represents the complaints table. Descriptive fields are immutable
// after creation; workflow fields are mutated only through engine transitions.
type Complaint struct {
	ComplaintID uint   `gorm:"primaryKey;column:complaint_id" json:"complaint_id"`
	TrackingID  string `gorm:"column:tracking_id;unique" json:"tracking_id"`

	ComplainantName  string     `gorm:"column:complainant_name" json:"complainant_name"`
	Subject          string     `gorm:"column:subject" json:"subject"`
	IncidentDate     *time.Time `gorm:"column:incident_date" json:"incident_date,omitempty"`
	Details          string     `gorm:"column:details" json:"details"`
	Department       Department `gorm:"column:department" json:"department"`
	Premises         string     `gorm:"column:premises" json:"premises"`
	Location         string     `gorm:"column:location" json:"location"`
	SpecificLocation string     `gorm:"column:specific_location" json:"specific_location"`
	Emergency        bool       `gorm:"column:emergency" json:"emergency"`

	Status         ComplaintStatus `gorm:"column:status" json:"status"`
	ReRaised       bool            `gorm:"column:re_raised" json:"re_raised"`
	IsPriceEntered bool            `gorm:"column:is_price_entered" json:"is_price_entered"`
	Price          float64         `gorm:"column:price" json:"price"`
	ResolvedName   string          `gorm:"column:resolved_name" json:"resolved_name"`

	RemarkJE string `gorm:"column:remark_je" json:"remark_je"`
	RemarkAE string `gorm:"column:remark_ae" json:"remark_ae"`
	RemarkEE string `gorm:"column:remark_ee" json:"remark_ee"`
	RemarkCR string `gorm:"column:remark_cr" json:"remark_cr"`

	MultipleRemarkAE StringList `gorm:"column:multiple_remark_ae;type:json" json:"multiple_remark_ae"`
	MultipleRemarkEE StringList `gorm:"column:multiple_remark_ee;type:json" json:"multiple_remark_ee"`

	ImagesBefore StringList `gorm:"column:images_before;type:json" json:"images_before"`
	VideosBefore StringList `gorm:"column:videos_before;type:json" json:"videos_before"`
	ImagesAfter  StringList `gorm:"column:images_after;type:json" json:"images_after"`
	VideosAfter  StringList `gorm:"column:videos_after;type:json" json:"videos_after"`

	CreateAt      time.Time  `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at,omitempty"`
	AcknowledgeAt *time.Time `gorm:"column:acknowledge_at" json:"acknowledge_at,omitempty"`
	ResolvedAt    *time.Time `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
	TerminatedAt  *time.Time `gorm:"column:terminated_at" json:"terminated_at,omitempty"`
}

// TableName overrides
func (Complaint) TableName() string {
	return "complaints"
}
