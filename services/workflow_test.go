package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grievance-management-api/models"
)

// memStore keeps complaints in a map and records every committed change,
// mirroring the Update contract of the GORM store.
type memStore struct {
	complaints map[uint]*models.Complaint
	changes    []ChangeMeta
}

func newMemStore(cms ...*models.Complaint) *memStore {
	s := &memStore{complaints: make(map[uint]*models.Complaint)}
	for _, cm := range cms {
		s.complaints[cm.ComplaintID] = cm
	}
	return s
}

func (s *memStore) Get(id uint) (*models.Complaint, error) {
	cm, ok := s.complaints[id]
	if !ok {
		return nil, ErrComplaintNotFound
	}
	copied := *cm
	return &copied, nil
}

func (s *memStore) Update(id uint, meta ChangeMeta, mutate func(cm *models.Complaint) (bool, error)) (*models.Complaint, error) {
	cm, ok := s.complaints[id]
	if !ok {
		return nil, ErrComplaintNotFound
	}
	working := *cm
	changed, err := mutate(&working)
	if err != nil {
		return nil, err
	}
	if !changed {
		return &working, nil
	}
	s.complaints[id] = &working
	s.changes = append(s.changes, meta)
	result := working
	return &result, nil
}

type notifyEvent struct {
	ComplaintID uint
	Subject     string
	Status      models.ComplaintStatus
	Message     string
}

type recordingNotifier struct {
	events []notifyEvent
}

func (n *recordingNotifier) Notify(complaintID uint, subject string, status models.ComplaintStatus, message string) {
	n.events = append(n.events, notifyEvent{complaintID, subject, status, message})
}

func newTestEngine(cms ...*models.Complaint) (*WorkflowEngine, *memStore, *recordingNotifier) {
	store := newMemStore(cms...)
	notifier := &recordingNotifier{}
	engine := NewWorkflowEngine(store, notifier)
	engine.now = func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) }
	return engine, store, notifier
}

func newComplaint(id uint, status models.ComplaintStatus, dept models.Department) *models.Complaint {
	return &models.Complaint{
		ComplaintID: id,
		Subject:     "Leaking pipe in block A",
		Department:  dept,
		Status:      status,
	}
}

func jeActor() Actor {
	return Actor{UserID: 7, Name: "Asha Verma", Role: models.RoleJE, Department: models.DepartmentCivil}
}

func TestAcknowledgeRaisedComplaint(t *testing.T) {
	engine, _, notifier := newTestEngine(newComplaint(1, models.StatusRaised, models.DepartmentCivil))

	res, err := engine.Execute(TransitionRaisedToJEAcknowledged, 1, jeActor(), Payload{})
	require.NoError(t, err)

	assert.True(t, res.Applied)
	assert.Equal(t, models.StatusJEAcknowledged, res.Complaint.Status)
	assert.NotNil(t, res.Complaint.AcknowledgeAt)
	assert.Equal(t, "Asha Verma", res.Complaint.ResolvedName)

	require.Len(t, notifier.events, 1)
	assert.Contains(t, notifier.events[0].Message, "ACKNOWLEDGED")
	assert.Contains(t, notifier.events[0].Message, "Junior Engineer")
	assert.Equal(t, models.StatusJEAcknowledged, notifier.events[0].Status)
}

func TestDuplicateTransitionIsNoOp(t *testing.T) {
	engine, store, notifier := newTestEngine(newComplaint(1, models.StatusRaised, models.DepartmentCivil))

	first, err := engine.Execute(TransitionRaisedToJEAcknowledged, 1, jeActor(), Payload{})
	require.NoError(t, err)
	require.True(t, first.Applied)

	second, err := engine.Execute(TransitionRaisedToJEAcknowledged, 1, jeActor(), Payload{})
	require.NoError(t, err)

	assert.False(t, second.Applied)
	assert.Equal(t, "Complaint already updated", second.Message)
	assert.Equal(t, models.StatusJEAcknowledged, second.Complaint.Status)
	assert.Len(t, notifier.events, 1, "no-op must not renotify")
	assert.Len(t, store.changes, 1, "no-op must not write")
}

func TestTerminatedComplaintStaysTerminal(t *testing.T) {
	engine, store, notifier := newTestEngine(newComplaint(3, models.StatusTerminated, models.DepartmentCivil))

	res, err := engine.Execute(TransitionRaisedToJEAcknowledged, 3, jeActor(), Payload{})
	require.NoError(t, err)

	assert.False(t, res.Applied)
	assert.Equal(t, models.StatusTerminated, res.Complaint.Status)
	assert.Empty(t, notifier.events)
	assert.Empty(t, store.changes)
}

func TestUnknownComplaintIsNotFound(t *testing.T) {
	engine, _, _ := newTestEngine()

	_, err := engine.Execute(TransitionRaisedToJEAcknowledged, 99, jeActor(), Payload{})
	assert.ErrorIs(t, err, ErrComplaintNotFound)
}

func TestMissingRemarkIsInvalid(t *testing.T) {
	engine, store, _ := newTestEngine(newComplaint(1, models.StatusRaised, models.DepartmentCivil))

	_, err := engine.Execute(TransitionRaisedToResourceRequired, 1, jeActor(), Payload{})
	assert.ErrorIs(t, err, ErrInvalidPayload)

	cm, err := engine.GetComplaint(1)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRaised, cm.Status)
	assert.Empty(t, store.changes)
}

func TestWorkDoneRequiresAfterMedia(t *testing.T) {
	engine, _, _ := newTestEngine(newComplaint(1, models.StatusJEAcknowledged, models.DepartmentCivil))

	_, err := engine.Execute(TransitionJEAcknowledgedToJEWorkDone, 1, jeActor(), Payload{})
	assert.ErrorIs(t, err, ErrInvalidPayload)

	res, err := engine.Execute(TransitionJEAcknowledgedToJEWorkDone, 1, jeActor(), Payload{
		ImagesAfter: []string{"uploads/after/1.jpg"},
	})
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, models.StatusJEWorkDone, res.Complaint.Status)
	assert.Equal(t, models.StringList{"uploads/after/1.jpg"}, res.Complaint.ImagesAfter)
}

func TestComplainantRejectionSetsReRaised(t *testing.T) {
	engine, _, _ := newTestEngine(newComplaint(1, models.StatusJEWorkDone, models.DepartmentCivil))

	actor := Actor{UserID: 11, Name: "Estate Officer", Role: models.RoleEstateOfficer}
	res, err := engine.Execute(TransitionJEWorkDoneToCRNotSatisfied, 1, actor, Payload{Remark: "leak persists"})
	require.NoError(t, err)

	assert.True(t, res.Applied)
	assert.Equal(t, models.StatusCRNotSatisfied, res.Complaint.Status)
	assert.True(t, res.Complaint.ReRaised)
	assert.Equal(t, "leak persists", res.Complaint.RemarkCR)
}

func TestRemarkAppendKeepsStatus(t *testing.T) {
	engine, _, notifier := newTestEngine(newComplaint(1, models.StatusCRNotSatisfied, models.DepartmentCivil))

	aeActor := Actor{UserID: 4, Name: "AE", Role: models.RoleAE}
	res, err := engine.Execute(TransitionAERemarkWhenCRNotSatisfied, 1, aeActor, Payload{Remark: "checked pipe"})
	require.NoError(t, err)

	assert.True(t, res.Applied)
	assert.Equal(t, models.StatusCRNotSatisfied, res.Complaint.Status)
	require.NotEmpty(t, res.Complaint.MultipleRemarkAE)
	assert.Equal(t, "checked pipe", res.Complaint.MultipleRemarkAE[len(res.Complaint.MultipleRemarkAE)-1])

	res, err = engine.Execute(TransitionAERemarkWhenCRNotSatisfied, 1, aeActor, Payload{Remark: "ordered replacement"})
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"checked pipe", "ordered replacement"}, res.Complaint.MultipleRemarkAE)
	assert.Len(t, notifier.events, 2)
}

func TestReworkClearsDiscussionThreads(t *testing.T) {
	cm := newComplaint(1, models.StatusCRNotSatisfied, models.DepartmentCivil)
	cm.ReRaised = true
	cm.MultipleRemarkAE = models.StringList{"checked pipe"}
	cm.MultipleRemarkEE = models.StringList{"approved rework"}
	engine, _, _ := newTestEngine(cm)

	res, err := engine.Execute(TransitionCRNotSatisfiedToJEWorkDone, 1, jeActor(), Payload{
		ImagesAfter: []string{"uploads/after/2.jpg"},
		VideosAfter: []string{"uploads/after/2.mp4"},
	})
	require.NoError(t, err)

	assert.True(t, res.Applied)
	assert.Equal(t, models.StatusJEWorkDone, res.Complaint.Status)
	assert.Empty(t, res.Complaint.MultipleRemarkAE)
	assert.Empty(t, res.Complaint.MultipleRemarkEE)
	assert.True(t, res.Complaint.ReRaised, "contested flag stays set once raised")
}

func TestPriceDeferralThenBackfill(t *testing.T) {
	engine, _, _ := newTestEngine(newComplaint(1, models.StatusAEAcknowledged, models.DepartmentCivil))

	eeActor := Actor{UserID: 5, Name: "EE", Role: models.RoleEE}
	res, err := engine.Execute(TransitionAEAcknowledgedToEEAcknowledged, 1, eeActor, Payload{PriceLater: true})
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, models.StatusEEAcknowledged, res.Complaint.Status)
	assert.False(t, res.Complaint.IsPriceEntered)

	cm, err := engine.EnterPrice(1, eeActor, 1500)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, cm.Price)
	assert.True(t, cm.IsPriceEntered)
	assert.Equal(t, models.StatusEEAcknowledged, cm.Status, "price backfill never touches status")

	// Re-entry is harmless.
	cm, err = engine.EnterPrice(1, eeActor, 1500)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, cm.Price)
}

func TestPriceMustBePositive(t *testing.T) {
	engine, _, _ := newTestEngine(newComplaint(1, models.StatusEEAcknowledged, models.DepartmentCivil))

	eeActor := Actor{UserID: 5, Name: "EE", Role: models.RoleEE}
	_, err := engine.EnterPrice(1, eeActor, 0)
	assert.ErrorIs(t, err, ErrInvalidPayload)

	price := -10.0
	engine2, _, _ := newTestEngine(newComplaint(2, models.StatusAEAcknowledged, models.DepartmentCivil))
	_, err = engine2.Execute(TransitionAEAcknowledgedToEEAcknowledged, 2, eeActor, Payload{Price: &price})
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestEEApprovalWithImmediatePrice(t *testing.T) {
	engine, _, _ := newTestEngine(newComplaint(1, models.StatusAEAcknowledged, models.DepartmentCivil))

	price := 870.50
	eeActor := Actor{UserID: 5, Name: "EE", Role: models.RoleEE}
	res, err := engine.Execute(TransitionAEAcknowledgedToEEAcknowledged, 1, eeActor, Payload{Price: &price})
	require.NoError(t, err)

	assert.True(t, res.Applied)
	assert.Equal(t, 870.50, res.Complaint.Price)
	assert.True(t, res.Complaint.IsPriceEntered)
}

func TestChangeDepartmentKeepsStatusAndRenotifies(t *testing.T) {
	engine, _, notifier := newTestEngine(newComplaint(1, models.StatusRaised, models.DepartmentCivil))

	res, err := engine.Execute(TransitionChangeDepartment, 1, jeActor(), Payload{NewDepartment: models.DepartmentElectrical})
	require.NoError(t, err)

	assert.True(t, res.Applied)
	assert.Equal(t, models.StatusRaised, res.Complaint.Status)
	assert.Equal(t, models.DepartmentElectrical, res.Complaint.Department)
	require.Len(t, notifier.events, 1)
	assert.Equal(t, CreationMessage(models.DepartmentElectrical), notifier.events[0].Message)

	_, err = engine.Execute(TransitionChangeDepartment, 1, jeActor(), Payload{NewDepartment: "PLUMBING"})
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestResolutionTimestampSetOnce(t *testing.T) {
	engine, _, _ := newTestEngine(newComplaint(1, models.StatusEEAcknowledged, models.DepartmentCivil))

	actor := Actor{UserID: 2, Name: "Complainant", Role: models.RoleComplainant}
	res, err := engine.Execute(TransitionEEAcknowledgedToResolved, 1, actor, Payload{})
	require.NoError(t, err)

	assert.True(t, res.Applied)
	assert.Equal(t, models.StatusResolved, res.Complaint.Status)
	require.NotNil(t, res.Complaint.ResolvedAt)

	again, err := engine.Execute(TransitionEEAcknowledgedToResolved, 1, actor, Payload{})
	require.NoError(t, err)
	assert.False(t, again.Applied)
}

func TestTerminationChainRecordsRemarksAndTimestamp(t *testing.T) {
	engine, _, _ := newTestEngine(newComplaint(1, models.StatusResourceRequired, models.DepartmentCivil))

	aeActor := Actor{UserID: 4, Name: "AE", Role: models.RoleAE}
	eeActor := Actor{UserID: 5, Name: "EE", Role: models.RoleEE}

	res, err := engine.Execute(TransitionResourceRequiredToAETerminated, 1, aeActor, Payload{Remark: "beyond repair"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusAETerminated, res.Complaint.Status)
	assert.Equal(t, "beyond repair", res.Complaint.RemarkAE)

	res, err = engine.Execute(TransitionAETerminatedToEETerminated, 1, eeActor, Payload{Remark: "concur"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusEETerminated, res.Complaint.Status)

	res, err = engine.Execute(TransitionEETerminatedToTerminated, 1, Actor{UserID: 2, Role: models.RoleComplainant}, Payload{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusTerminated, res.Complaint.Status)
	assert.NotNil(t, res.Complaint.TerminatedAt)
	assert.True(t, res.Complaint.Status.IsTerminal())
}

func TestAllowedRoles(t *testing.T) {
	assert.Equal(t, []models.WorkRole{models.RoleJE}, AllowedRoles(TransitionRaisedToJEAcknowledged))
	assert.Equal(t, models.ComplainantSideRoles, AllowedRoles(TransitionJEWorkDoneToResolved))
	assert.Empty(t, AllowedRoles(TransitionAENotTerminatedToRaised), "re-open is open to any authenticated role")
	assert.Empty(t, AllowedRoles(TransitionName("bogus")))
}

func TestUnknownTransitionName(t *testing.T) {
	engine, _, _ := newTestEngine(newComplaint(1, models.StatusRaised, models.DepartmentCivil))

	_, err := engine.Execute(TransitionName("bogus"), 1, jeActor(), Payload{})
	assert.Error(t, err)
}

func TestEveryTransitionTargetsValidStatus(t *testing.T) {
	for name, tr := range transitionTable {
		assert.True(t, tr.To.IsValid(), "transition %s targets unknown status %q", name, tr.To)
		require.NotEmpty(t, tr.From, "transition %s has no source states", name)
		for _, from := range tr.From {
			assert.True(t, from.IsValid(), "transition %s leaves unknown status %q", name, from)
			assert.False(t, from.IsTerminal(), "transition %s leaves terminal status %q", name, from)
		}
	}
}
