package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"assetverse/events"
	"assetverse/models"
)

func member(employee, hr, company string) models.EmployeeAffiliation {
	return models.EmployeeAffiliation{
		ID:            primitive.NewObjectID(),
		EmployeeEmail: employee,
		HREmail:       hr,
		CompanyName:   company,
		Status:        models.AffiliationActive,
		JoinedAt:      fixedNow.Add(-24 * time.Hour),
	}
}

func teamEnv(t *testing.T) *testEnv {
	e := newTestEnv(t)
	e.users.users = []models.User{
		{Email: "hr@acme.com", Role: models.RoleHR},
		{Email: "a@x.com", Role: models.RoleEmployee, Name: "Ann", PhotoURL: "ann.png", DateOfBirth: "1990-01-01"},
		{Email: "b@x.com", Role: models.RoleEmployee, Name: "Ben"},
		{Email: "loner@x.com", Role: models.RoleEmployee},
	}
	removed := member("gone@x.com", "hr@acme.com", "Acme")
	removed.Status = models.AffiliationRemoved
	e.affs.affs = []models.EmployeeAffiliation{
		member("a@x.com", "hr@acme.com", "Acme"),
		member("b@x.com", "hr@acme.com", "Acme"),
		member("c@x.com", "hr@globex.com", "Globex"),
		removed,
	}
	e.granted.assets = []models.AssignedAsset{
		{ID: primitive.NewObjectID(), EmployeeEmail: "a@x.com", AssetName: "Laptop"},
		{ID: primitive.NewObjectID(), EmployeeEmail: "a@x.com", AssetName: "Phone"},
	}
	return e
}

func emails(members []models.TeamMember) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		out = append(out, m.EmployeeEmail)
	}
	return out
}

func TestListEmployees(t *testing.T) {
	t.Run("hr sees own roster", func(t *testing.T) {
		e := teamEnv(t)
		var got []models.TeamMember
		decodeJSON(t, e.do(http.MethodGet, "/hr/employees/hr@acme.com", nil), &got)
		assert.Equal(t, []string{"a@x.com", "b@x.com"}, emails(got))
	})

	t.Run("employee sees company peers", func(t *testing.T) {
		e := teamEnv(t)
		var got []models.TeamMember
		decodeJSON(t, e.do(http.MethodGet, "/hr/employees/b@x.com", nil), &got)
		assert.ElementsMatch(t, []string{"a@x.com", "b@x.com"}, emails(got))
	})

	t.Run("employee without company", func(t *testing.T) {
		e := teamEnv(t)
		rec := e.do(http.MethodGet, "/hr/employees/loner@x.com", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("unknown user", func(t *testing.T) {
		e := teamEnv(t)
		rec := e.do(http.MethodGet, "/hr/employees/nobody@x.com", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"message":"User not found"}`, rec.Body.String())
	})

	t.Run("store failure", func(t *testing.T) {
		e := teamEnv(t)
		e.users.err = errors.New("socket closed")
		rec := e.do(http.MethodGet, "/hr/employees/hr@acme.com", nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestListEmployeesEnrichment(t *testing.T) {
	e := teamEnv(t)
	var got []models.TeamMember
	decodeJSON(t, e.do(http.MethodGet, "/hr/employees/hr@acme.com", nil), &got)
	require.Len(t, got, 2)

	ann := got[0]
	assert.Equal(t, "Ann", ann.EmployeeName)
	assert.Equal(t, "ann.png", ann.EmployeeImage)
	assert.Equal(t, "Employee", ann.Position)
	require.NotNil(t, ann.DateOfBirth)
	assert.Equal(t, "1990-01-01", *ann.DateOfBirth)
	require.NotNil(t, ann.JoinDate)
	assert.True(t, fixedNow.Add(-24*time.Hour).Equal(*ann.JoinDate))
	assert.Equal(t, int64(2), ann.AssetsCount)

	ben := got[1]
	assert.Nil(t, ben.DateOfBirth)
	assert.Equal(t, int64(0), ben.AssetsCount)
}

func TestRemoveEmployee(t *testing.T) {
	e := teamEnv(t)
	id := e.affs.affs[0].ID

	rec := e.do(http.MethodPatch, "/hr/remove-employee/"+id.Hex(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Employee removed successfully"}`, rec.Body.String())

	// the record stays, marked removed
	assert.Equal(t, models.AffiliationRemoved, e.affs.affs[0].Status)
	require.NotNil(t, e.affs.affs[0].RemovedAt)
	assert.Equal(t, []events.Type{events.EmployeeRemoved}, e.events.types())
	assert.Equal(t, []string{"a@x.com", "hr@acme.com"}, e.events.got[0].Audience)

	var roster []models.TeamMember
	decodeJSON(t, e.do(http.MethodGet, "/hr/employees/hr@acme.com", nil), &roster)
	assert.Equal(t, []string{"b@x.com"}, emails(roster))

	assert.Equal(t, http.StatusNotFound, e.do(http.MethodPatch, "/hr/remove-employee/"+id.Hex(), nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodPatch, "/hr/remove-employee/"+primitive.NewObjectID().Hex(), nil).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPatch, "/hr/remove-employee/not-an-id", nil).Code)
}
