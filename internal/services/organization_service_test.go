package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"access-service/internal/entitlements"
	"access-service/internal/models"
)

type orgServiceFixture struct {
	svc   *OrganizationService
	users *fakeUserRepo
	orgs  *fakeOrgRepo
	depts *fakeDeptRepo
}

func newOrgServiceFixture() *orgServiceFixture {
	users := newFakeUserRepo()
	orgs := newFakeOrgRepo()
	depts := newFakeDeptRepo()
	svc := NewOrganizationService(orgs, users, depts, entitlements.NewEvaluator(), nil)
	return &orgServiceFixture{svc: svc, users: users, orgs: orgs, depts: depts}
}

func (f *orgServiceFixture) actor(org *models.Organization) *OrganizationContext {
	actor := f.users.add(&models.User{
		Name:                  "Admin",
		Email:                 "admin@" + uuid.NewString()[:8] + ".example",
		Role:                  models.RoleAdmin,
		CurrentOrganizationID: org.ID,
		IsActive:              true,
		Organizations:         []models.Organization{*org},
	})
	return &OrganizationContext{User: actor, Organization: org}
}

func TestCreateDepartmentRequiresMembership(t *testing.T) {
	f := newOrgServiceFixture()

	clinic := f.orgs.add(&models.Organization{Name: "Riverside Clinic", Type: models.OrgTypeClinic})
	foreign := f.orgs.add(&models.Organization{Name: "Other Clinic", Type: models.OrgTypeClinic})
	actor := f.actor(clinic)

	t.Run("member can create in own organization", func(t *testing.T) {
		dept, err := f.svc.CreateDepartment(actor, clinic.ID, &models.CreateDepartmentRequest{Name: "Cardiology"})
		require.NoError(t, err)
		assert.Equal(t, clinic.ID, dept.OrganizationID)
	})

	t.Run("foreign organization is forbidden", func(t *testing.T) {
		_, err := f.svc.CreateDepartment(actor, foreign.ID, &models.CreateDepartmentRequest{Name: "Cardiology"})
		assert.ErrorIs(t, err, ErrForbidden)

		depts, err := f.depts.ListByOrganization(foreign.ID)
		require.NoError(t, err)
		assert.Empty(t, depts)
	})
}

func TestListDepartmentsRequiresMembership(t *testing.T) {
	f := newOrgServiceFixture()

	clinic := f.orgs.add(&models.Organization{Name: "Riverside Clinic", Type: models.OrgTypeClinic})
	foreign := f.orgs.add(&models.Organization{Name: "Other Clinic", Type: models.OrgTypeClinic})
	f.depts.add(&models.Department{OrganizationID: foreign.ID, Name: "Front Desk"})
	actor := f.actor(clinic)

	_, err := f.svc.ListDepartments(actor, foreign.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	depts, err := f.svc.ListDepartments(actor, clinic.ID)
	require.NoError(t, err)
	assert.Empty(t, depts)
}

func TestRegisterOrganization(t *testing.T) {
	f := newOrgServiceFixture()

	req := &models.RegisterOrganizationRequest{
		Organization: models.CreateOrganizationRequest{
			Name: "MedGroup HQ",
			Type: models.OrgTypeHeadquarters,
		},
		AdminName:     "Morgan",
		AdminEmail:    "Morgan@MedGroup.Example",
		AdminPassword: "Clinic2024!",
	}

	org, admin, err := f.svc.Register(req)
	require.NoError(t, err)
	assert.Equal(t, models.PlanBasic, org.Plan)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Equal(t, "morgan@medgroup.example", admin.Email)
	assert.Equal(t, org.ID, admin.CurrentOrganizationID)
	assert.True(t, admin.MemberOf(org.ID))

	t.Run("duplicate admin email", func(t *testing.T) {
		_, _, err := f.svc.Register(req)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, CodeDuplicateEmail, ve.Code)
	})

	t.Run("weak admin password", func(t *testing.T) {
		weak := *req
		weak.AdminEmail = "other@medgroup.example"
		weak.AdminPassword = "clinic24"
		_, _, err := f.svc.Register(&weak)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, CodeWeakPassword, ve.Code)
	})
}
