package services

import (
	"errors"
	"fmt"
	"time"

	"grievance-management-api/models"
)

// Sentinel errors returned by the workflow engine. "Wrong current state" is
// deliberately not among them: re-invoking a transition on a complaint already
// past it degrades to a no-op success so duplicate submissions stay harmless.
var (
	ErrComplaintNotFound = errors.New("complaint not found")
	ErrInvalidPayload    = errors.New("invalid payload")
)

// TransitionName identifies a workflow operation. The values double as event
// keys for notification message templates.
type TransitionName string

const (
	TransitionRaisedToJEAcknowledged            TransitionName = "raised_to_je_acknowledged"
	TransitionRaisedToResourceRequired          TransitionName = "raised_to_resource_required"
	TransitionJEAcknowledgedToJEWorkDone        TransitionName = "je_acknowledged_to_je_workdone"
	TransitionCRNotSatisfiedToJEWorkDone        TransitionName = "cr_not_satisfied_to_je_workdone"
	TransitionJEWorkDoneToAEAcknowledged        TransitionName = "je_workdone_to_ae_acknowledged"
	TransitionJEWorkDoneToAENotSatisfied        TransitionName = "je_workdone_to_ae_not_satisfied"
	TransitionJEWorkDoneToResolved              TransitionName = "je_workdone_to_resolved"
	TransitionJEWorkDoneToCRNotSatisfied        TransitionName = "je_workdone_to_cr_not_satisfied"
	TransitionAEAcknowledgedToEEAcknowledged    TransitionName = "ae_acknowledged_to_ee_acknowledged"
	TransitionAEAcknowledgedToEENotSatisfied    TransitionName = "ae_acknowledged_to_ee_not_satisfied"
	TransitionEEAcknowledgedToResolved          TransitionName = "ee_acknowledged_to_resolved"
	TransitionEEAcknowledgedToCRNotSatisfied    TransitionName = "ee_acknowledged_to_cr_not_satisfied"
	TransitionChangeDepartment                  TransitionName = "change_department"
	TransitionResourceRequiredToAENotTerminated TransitionName = "resource_required_to_ae_not_terminated"
	TransitionResourceRequiredToAETerminated    TransitionName = "resource_required_to_ae_terminated"
	TransitionResourceRequiredToRaised          TransitionName = "resource_required_to_raised"
	TransitionAENotTerminatedToRaised           TransitionName = "ae_not_terminated_to_raised"
	TransitionAENotTerminatedToResourceRequired TransitionName = "ae_not_terminated_to_resource_required"
	TransitionAETerminatedToEENotTerminated     TransitionName = "ae_terminated_to_ee_not_terminated"
	TransitionAETerminatedToEETerminated        TransitionName = "ae_terminated_to_ee_terminated"
	TransitionEENotTerminatedToAETerminated     TransitionName = "ee_not_terminated_to_ae_terminated"
	TransitionEENotTerminatedToAENotTerminated  TransitionName = "ee_not_terminated_to_ae_not_terminated"
	TransitionEETerminatedToTerminated          TransitionName = "ee_terminated_to_terminated"
	TransitionCRNotSatisfiedToEEAcknowledged    TransitionName = "cr_not_satisfied_to_ee_acknowledged"

	// Remark-append operations. They mutate only the discussion threads and
	// never touch the status; the table keeps From == To so they share the
	// same no-op guard as real transitions.
	TransitionAERemarkWhenCRNotSatisfied TransitionName = "ae_remark_when_cr_not_satisfied"
	TransitionEERemarkWhenCRNotSatisfied TransitionName = "ee_remark_when_cr_not_satisfied"
)

// Actor is the authenticated caller applying a workflow operation.
type Actor struct {
	UserID     int
	Name       string
	Role       models.WorkRole
	Department models.Department
}

// Payload carries the optional fields a transition may require.
type Payload struct {
	Remark        string
	Price         *float64
	PriceLater    bool
	ImagesAfter   []string
	VideosAfter   []string
	NewDepartment models.Department
}

// Transition is one edge of the workflow graph. Roles nil means any
// authenticated role may trigger it.
type Transition struct {
	From     []models.ComplaintStatus
	To       models.ComplaintStatus
	Roles    []models.WorkRole
	Validate func(p *Payload) error
	Apply    func(cm *models.Complaint, actor Actor, p *Payload, now time.Time)
}

// ChangeMeta describes who changed a complaint and through which operation,
// for the status history trail.
type ChangeMeta struct {
	ActorID    int
	Transition TransitionName
	Remark     string
}

// ComplaintStore persists complaints. Update must serialize concurrent calls
// on the same record (row lock or equivalent) and run mutate inside that
// critical section; a mutate returning changed=false must not write anything.
type ComplaintStore interface {
	Get(id uint) (*models.Complaint, error)
	Update(id uint, meta ChangeMeta, mutate func(cm *models.Complaint) (changed bool, err error)) (*models.Complaint, error)
}

// Notifier receives a side-effect request after every applied operation.
// Implementations are fire-and-forget: failures are logged, never returned.
type Notifier interface {
	Notify(complaintID uint, subject string, status models.ComplaintStatus, message string)
}

// Result of a workflow operation. Applied=false means the complaint was not in
// a source state of the transition and nothing was written.
type Result struct {
	Complaint *models.Complaint `json:"complaint"`
	Message   string            `json:"message"`
	Applied   bool              `json:"applied"`
}

// WorkflowEngine owns the complaint status field and executes transitions
// against the declared table.
type WorkflowEngine struct {
	store    ComplaintStore
	notifier Notifier
	now      func() time.Time
}

func NewWorkflowEngine(store ComplaintStore, notifier Notifier) *WorkflowEngine {
	return &WorkflowEngine{store: store, notifier: notifier, now: time.Now}
}

func requireRemark(p *Payload) error {
	if p.Remark == "" {
		return fmt.Errorf("%w: remark is required", ErrInvalidPayload)
	}
	return nil
}

func requireAfterMedia(p *Payload) error {
	if len(p.ImagesAfter)+len(p.VideosAfter) == 0 {
		return fmt.Errorf("%w: at least one after-work image or video is required", ErrInvalidPayload)
	}
	return nil
}

func requirePrice(p *Payload) error {
	if p.Price == nil || *p.Price <= 0 {
		return fmt.Errorf("%w: price must be greater than zero", ErrInvalidPayload)
	}
	return nil
}

func requirePriceOrDeferral(p *Payload) error {
	if p.PriceLater {
		return nil
	}
	return requirePrice(p)
}

func requireDepartment(p *Payload) error {
	if !p.NewDepartment.IsValid() {
		return fmt.Errorf("%w: new department must be one of CIVIL, ELECTRICAL, IT", ErrInvalidPayload)
	}
	return nil
}

func setRemarkJE(cm *models.Complaint, _ Actor, p *Payload, _ time.Time) { cm.RemarkJE = p.Remark }
func setRemarkAE(cm *models.Complaint, _ Actor, p *Payload, _ time.Time) { cm.RemarkAE = p.Remark }
func setRemarkEE(cm *models.Complaint, _ Actor, p *Payload, _ time.Time) { cm.RemarkEE = p.Remark }
func setRemarkCR(cm *models.Complaint, _ Actor, p *Payload, _ time.Time) { cm.RemarkCR = p.Remark }

func markResolved(cm *models.Complaint, _ Actor, _ *Payload, now time.Time) {
	if cm.ResolvedAt == nil {
		t := now
		cm.ResolvedAt = &t
	}
}

func setAfterMedia(cm *models.Complaint, _ Actor, p *Payload, _ time.Time) {
	cm.ImagesAfter = append(models.StringList{}, p.ImagesAfter...)
	cm.VideosAfter = append(models.StringList{}, p.VideosAfter...)
}

// transitionTable declares every edge of the workflow graph. Illegal edges are
// unrepresentable and the no-op-on-mismatch rule lives in Execute, not in the
// individual handlers.
var transitionTable = map[TransitionName]Transition{
	TransitionRaisedToJEAcknowledged: {
		From:  []models.ComplaintStatus{models.StatusRaised},
		To:    models.StatusJEAcknowledged,
		Roles: []models.WorkRole{models.RoleJE},
		Apply: func(cm *models.Complaint, actor Actor, _ *Payload, now time.Time) {
			if cm.AcknowledgeAt == nil {
				t := now
				cm.AcknowledgeAt = &t
			}
			if cm.ResolvedName == "" {
				cm.ResolvedName = actor.Name
			}
		},
	},
	TransitionRaisedToResourceRequired: {
		From:     []models.ComplaintStatus{models.StatusRaised},
		To:       models.StatusResourceRequired,
		Roles:    []models.WorkRole{models.RoleJE},
		Validate: requireRemark,
		Apply:    setRemarkJE,
	},
	TransitionJEAcknowledgedToJEWorkDone: {
		From:     []models.ComplaintStatus{models.StatusJEAcknowledged},
		To:       models.StatusJEWorkDone,
		Roles:    []models.WorkRole{models.RoleJE},
		Validate: requireAfterMedia,
		Apply:    setAfterMedia,
	},
	TransitionCRNotSatisfiedToJEWorkDone: {
		From:     []models.ComplaintStatus{models.StatusCRNotSatisfied},
		To:       models.StatusJEWorkDone,
		Roles:    []models.WorkRole{models.RoleJE},
		Validate: requireAfterMedia,
		Apply: func(cm *models.Complaint, actor Actor, p *Payload, now time.Time) {
			setAfterMedia(cm, actor, p, now)
			// Rework closes the discussion thread.
			cm.MultipleRemarkAE = nil
			cm.MultipleRemarkEE = nil
		},
	},
	TransitionJEWorkDoneToAEAcknowledged: {
		From:  []models.ComplaintStatus{models.StatusJEWorkDone},
		To:    models.StatusAEAcknowledged,
		Roles: []models.WorkRole{models.RoleAE},
	},
	TransitionJEWorkDoneToAENotSatisfied: {
		From:     []models.ComplaintStatus{models.StatusJEWorkDone},
		To:       models.StatusAENotSatisfied,
		Roles:    []models.WorkRole{models.RoleAE},
		Validate: requireRemark,
		Apply: func(cm *models.Complaint, actor Actor, p *Payload, now time.Time) {
			setRemarkAE(cm, actor, p, now)
			cm.ReRaised = true
		},
	},
	TransitionJEWorkDoneToResolved: {
		From:  []models.ComplaintStatus{models.StatusJEWorkDone},
		To:    models.StatusResolved,
		Roles: models.ComplainantSideRoles,
		Apply: markResolved,
	},
	TransitionJEWorkDoneToCRNotSatisfied: {
		From:     []models.ComplaintStatus{models.StatusJEWorkDone},
		To:       models.StatusCRNotSatisfied,
		Roles:    models.ComplainantSideRoles,
		Validate: requireRemark,
		Apply: func(cm *models.Complaint, actor Actor, p *Payload, now time.Time) {
			setRemarkCR(cm, actor, p, now)
			cm.ReRaised = true
		},
	},
	TransitionAEAcknowledgedToEEAcknowledged: {
		From:     []models.ComplaintStatus{models.StatusAEAcknowledged},
		To:       models.StatusEEAcknowledged,
		Roles:    []models.WorkRole{models.RoleEE},
		Validate: requirePriceOrDeferral,
		Apply: func(cm *models.Complaint, _ Actor, p *Payload, _ time.Time) {
			if p.PriceLater {
				cm.IsPriceEntered = false
				return
			}
			cm.Price = *p.Price
			cm.IsPriceEntered = true
		},
	},
	TransitionAEAcknowledgedToEENotSatisfied: {
		From:     []models.ComplaintStatus{models.StatusAEAcknowledged},
		To:       models.StatusEENotSatisfied,
		Roles:    []models.WorkRole{models.RoleEE},
		Validate: requireRemark,
		Apply: func(cm *models.Complaint, actor Actor, p *Payload, now time.Time) {
			setRemarkEE(cm, actor, p, now)
			cm.ReRaised = true
		},
	},
	TransitionEEAcknowledgedToResolved: {
		From:  []models.ComplaintStatus{models.StatusEEAcknowledged},
		To:    models.StatusResolved,
		Roles: models.ComplainantSideRoles,
		Apply: markResolved,
	},
	TransitionEEAcknowledgedToCRNotSatisfied: {
		From:     []models.ComplaintStatus{models.StatusEEAcknowledged},
		To:       models.StatusCRNotSatisfied,
		Roles:    models.ComplainantSideRoles,
		Validate: requireRemark,
		Apply: func(cm *models.Complaint, actor Actor, p *Payload, now time.Time) {
			setRemarkCR(cm, actor, p, now)
			cm.ReRaised = true
		},
	},
	TransitionChangeDepartment: {
		From:     []models.ComplaintStatus{models.StatusRaised},
		To:       models.StatusRaised,
		Roles:    []models.WorkRole{models.RoleJE},
		Validate: requireDepartment,
		Apply: func(cm *models.Complaint, _ Actor, p *Payload, _ time.Time) {
			cm.Department = p.NewDepartment
		},
	},
	TransitionResourceRequiredToAENotTerminated: {
		From:     []models.ComplaintStatus{models.StatusResourceRequired},
		To:       models.StatusAENotTerminated,
		Roles:    []models.WorkRole{models.RoleAE},
		Validate: requireRemark,
		Apply:    setRemarkAE,
	},
	TransitionResourceRequiredToAETerminated: {
		From:     []models.ComplaintStatus{models.StatusResourceRequired},
		To:       models.StatusAETerminated,
		Roles:    []models.WorkRole{models.RoleAE},
		Validate: requireRemark,
		Apply:    setRemarkAE,
	},
	TransitionResourceRequiredToRaised: {
		From:     []models.ComplaintStatus{models.StatusResourceRequired},
		To:       models.StatusRaised,
		Roles:    models.ComplainantSideRoles,
		Validate: requireRemark,
		Apply:    setRemarkCR,
	},
	TransitionAENotTerminatedToRaised: {
		From: []models.ComplaintStatus{models.StatusAENotTerminated},
		To:   models.StatusRaised,
	},
	TransitionAENotTerminatedToResourceRequired: {
		From:     []models.ComplaintStatus{models.StatusAENotTerminated},
		To:       models.StatusResourceRequired,
		Roles:    []models.WorkRole{models.RoleJE},
		Validate: requireRemark,
		Apply:    setRemarkJE,
	},
	TransitionAETerminatedToEENotTerminated: {
		From:     []models.ComplaintStatus{models.StatusAETerminated},
		To:       models.StatusEENotTerminated,
		Roles:    []models.WorkRole{models.RoleEE},
		Validate: requireRemark,
		Apply:    setRemarkEE,
	},
	TransitionAETerminatedToEETerminated: {
		From:     []models.ComplaintStatus{models.StatusAETerminated},
		To:       models.StatusEETerminated,
		Roles:    []models.WorkRole{models.RoleEE},
		Validate: requireRemark,
		Apply:    setRemarkEE,
	},
	TransitionEENotTerminatedToAETerminated: {
		From:     []models.ComplaintStatus{models.StatusEENotTerminated},
		To:       models.StatusAETerminated,
		Roles:    []models.WorkRole{models.RoleAE},
		Validate: requireRemark,
		Apply:    setRemarkAE,
	},
	TransitionEENotTerminatedToAENotTerminated: {
		From:     []models.ComplaintStatus{models.StatusEENotTerminated},
		To:       models.StatusAENotTerminated,
		Roles:    []models.WorkRole{models.RoleAE},
		Validate: requireRemark,
		Apply:    setRemarkAE,
	},
	TransitionEETerminatedToTerminated: {
		From: []models.ComplaintStatus{models.StatusEETerminated},
		To:   models.StatusTerminated,
		Apply: func(cm *models.Complaint, _ Actor, _ *Payload, now time.Time) {
			if cm.TerminatedAt == nil {
				t := now
				cm.TerminatedAt = &t
			}
		},
	},
	TransitionCRNotSatisfiedToEEAcknowledged: {
		From:     []models.ComplaintStatus{models.StatusCRNotSatisfied},
		To:       models.StatusEEAcknowledged,
		Roles:    []models.WorkRole{models.RoleEE},
		Validate: requirePrice,
		Apply: func(cm *models.Complaint, _ Actor, p *Payload, _ time.Time) {
			cm.Price = *p.Price
			cm.IsPriceEntered = true
		},
	},
	TransitionAERemarkWhenCRNotSatisfied: {
		From:     []models.ComplaintStatus{models.StatusCRNotSatisfied},
		To:       models.StatusCRNotSatisfied,
		Roles:    []models.WorkRole{models.RoleAE},
		Validate: requireRemark,
		Apply: func(cm *models.Complaint, _ Actor, p *Payload, _ time.Time) {
			cm.MultipleRemarkAE = append(cm.MultipleRemarkAE, p.Remark)
		},
	},
	TransitionEERemarkWhenCRNotSatisfied: {
		From:     []models.ComplaintStatus{models.StatusCRNotSatisfied},
		To:       models.StatusCRNotSatisfied,
		Roles:    []models.WorkRole{models.RoleEE},
		Validate: requireRemark,
		Apply: func(cm *models.Complaint, _ Actor, p *Payload, _ time.Time) {
			cm.MultipleRemarkEE = append(cm.MultipleRemarkEE, p.Remark)
		},
	},
}

// AllowedRoles reports which roles may trigger the named operation, so the
// permission gate can enforce it before calling the engine. An empty slice
// means any authenticated role.
func AllowedRoles(name TransitionName) []models.WorkRole {
	t, ok := transitionTable[name]
	if !ok {
		return nil
	}
	return t.Roles
}

// RolesForPriceEntry reports who may backfill a deferred expenditure amount.
func RolesForPriceEntry() []models.WorkRole {
	return []models.WorkRole{models.RoleEE}
}

// TransitionNames lists every operation the engine exposes.
func TransitionNames() []TransitionName {
	names := make([]TransitionName, 0, len(transitionTable))
	for name := range transitionTable {
		names = append(names, name)
	}
	return names
}

func statusIn(status models.ComplaintStatus, set []models.ComplaintStatus) bool {
	for _, s := range set {
		if status == s {
			return true
		}
	}
	return false
}

// Execute runs one workflow operation against a complaint.
//
// The status check, payload validation and mutation all happen inside the
// store's critical section, so two concurrent callers cannot both observe a
// pre-transition status. A complaint that is not in a source state of the
// transition yields a no-op success with the unchanged record.
func (e *WorkflowEngine) Execute(name TransitionName, complaintID uint, actor Actor, payload Payload) (*Result, error) {
	t, ok := transitionTable[name]
	if !ok {
		return nil, fmt.Errorf("unknown transition %q", name)
	}

	applied := false
	meta := ChangeMeta{ActorID: actor.UserID, Transition: name, Remark: payload.Remark}
	cm, err := e.store.Update(complaintID, meta, func(cm *models.Complaint) (bool, error) {
		if !statusIn(cm.Status, t.From) {
			return false, nil
		}
		if t.Validate != nil {
			if err := t.Validate(&payload); err != nil {
				return false, err
			}
		}
		if t.Apply != nil {
			t.Apply(cm, actor, &payload, e.now())
		}
		cm.Status = t.To
		applied = true
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	if !applied {
		return &Result{Complaint: cm, Message: "Complaint already updated", Applied: false}, nil
	}

	msg := TransitionMessage(name, cm.Department)
	e.notifier.Notify(cm.ComplaintID, cm.Subject, cm.Status, msg)
	return &Result{Complaint: cm, Message: msg, Applied: true}, nil
}

// EnterPrice backfills a deferred expenditure amount. It is not a status
// transition: it applies regardless of the complaint's current status and is
// idempotent for a given price.
func (e *WorkflowEngine) EnterPrice(complaintID uint, actor Actor, price float64) (*models.Complaint, error) {
	if price <= 0 {
		return nil, fmt.Errorf("%w: price must be greater than zero", ErrInvalidPayload)
	}
	meta := ChangeMeta{ActorID: actor.UserID, Transition: "price_entry"}
	return e.store.Update(complaintID, meta, func(cm *models.Complaint) (bool, error) {
		cm.Price = price
		cm.IsPriceEntered = true
		return true, nil
	})
}

// GetComplaint loads a single complaint.
func (e *WorkflowEngine) GetComplaint(complaintID uint) (*models.Complaint, error) {
	return e.store.Get(complaintID)
}
