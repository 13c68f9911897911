package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListValue(t *testing.T) {
	v, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = StringList{"uploads/a.jpg", "uploads/b.jpg"}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `["uploads/a.jpg","uploads/b.jpg"]`, v.(string))
}

func TestStringListScan(t *testing.T) {
	var l StringList
	require.NoError(t, l.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, StringList{"a", "b"}, l)

	require.NoError(t, l.Scan(`["c"]`))
	assert.Equal(t, StringList{"c"}, l)

	require.NoError(t, l.Scan(nil))
	assert.Nil(t, l)

	assert.Error(t, l.Scan(42))
}

func TestStatusValidity(t *testing.T) {
	for _, s := range AllStatuses {
		assert.True(t, s.IsValid(), "%s", s)
	}
	assert.False(t, ComplaintStatus("PENDING").IsValid())

	assert.True(t, StatusResolved.IsTerminal())
	assert.True(t, StatusTerminated.IsTerminal())
	assert.False(t, StatusEETerminated.IsTerminal(), "EE_TERMINATED still awaits final confirmation")
}

func TestDepartmentValidity(t *testing.T) {
	assert.True(t, DepartmentIT.IsValid())
	assert.False(t, Department("PLUMBING").IsValid())
	assert.False(t, Department("").IsValid())
}

func TestComplainantSideRoles(t *testing.T) {
	assert.True(t, RoleComplainant.IsComplainantSide())
	assert.True(t, RoleEstateOfficer.IsComplainantSide())
	assert.True(t, RolePrincipal.IsComplainantSide())
	assert.False(t, RoleJE.IsComplainantSide())
}

func TestUserDisplayName(t *testing.T) {
	assert.Equal(t, "Asha Verma", User{UserFname: "Asha", UserLname: "Verma"}.DisplayName())
	assert.Equal(t, "Asha", User{UserFname: "Asha"}.DisplayName())
}
