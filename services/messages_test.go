package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"grievance-management-api/models"
)

func TestRoleTitleUsesITDesignations(t *testing.T) {
	assert.Equal(t, "System Analyst", RoleTitle(models.RoleJE, models.DepartmentIT))
	assert.Equal(t, "Officer in Charge", RoleTitle(models.RoleAE, models.DepartmentIT))
	assert.Equal(t, "Head of Office", RoleTitle(models.RoleEE, models.DepartmentIT))

	assert.Equal(t, "Junior Engineer", RoleTitle(models.RoleJE, models.DepartmentCivil))
	assert.Equal(t, "Assistant Engineer", RoleTitle(models.RoleAE, models.DepartmentElectrical))
	assert.Equal(t, "Executive Engineer", RoleTitle(models.RoleEE, models.DepartmentCivil))

	// Non-engineer roles are department-independent.
	assert.Equal(t, "Estate Officer", RoleTitle(models.RoleEstateOfficer, models.DepartmentIT))
}

func TestTransitionMessageSubstitutesTitles(t *testing.T) {
	civil := TransitionMessage(TransitionRaisedToJEAcknowledged, models.DepartmentCivil)
	assert.Contains(t, civil, "ACKNOWLEDGED")
	assert.Contains(t, civil, "Junior Engineer")
	assert.Contains(t, civil, "CIVIL")

	it := TransitionMessage(TransitionRaisedToJEAcknowledged, models.DepartmentIT)
	assert.Contains(t, it, "System Analyst")
	assert.NotContains(t, it, "Junior Engineer")
	assert.NotContains(t, it, "{{")
}

func TestEveryTransitionHasAMessage(t *testing.T) {
	for name := range transitionTable {
		msg := TransitionMessage(name, models.DepartmentElectrical)
		assert.NotEmpty(t, msg)
		assert.NotContains(t, msg, "{{", "unresolved placeholder in message for %s", name)
	}
}

func TestUnknownTransitionFallsBackToGenericMessage(t *testing.T) {
	msg := TransitionMessage(TransitionName("bogus"), models.DepartmentCivil)
	assert.Contains(t, msg, "bogus")
}

func TestCreationMessageNamesDepartment(t *testing.T) {
	msg := CreationMessage(models.DepartmentIT)
	assert.Contains(t, msg, "IT")
	assert.Contains(t, msg, "new complaint")
}
