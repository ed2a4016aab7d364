package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"access-service/internal/models"
)

func newResolverFixture() (*ContextResolver, *fakeUserRepo, *fakeOrgRepo) {
	users := newFakeUserRepo()
	orgs := newFakeOrgRepo()
	return NewContextResolver(users, orgs), users, orgs
}

func TestResolveUsesStoredCurrentOrganization(t *testing.T) {
	resolver, users, orgs := newResolverFixture()

	clinic := orgs.add(&models.Organization{Name: "Riverside Clinic", Type: models.OrgTypeClinic, Plan: models.PlanBasic})
	user := users.add(&models.User{
		Name:                  "Dana",
		Email:                 "dana@riverside.example",
		Role:                  models.RoleHCW,
		CurrentOrganizationID: clinic.ID,
		IsActive:              true,
		Organizations:         []models.Organization{*clinic},
	})

	ctx, err := resolver.Resolve(user.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, user.ID, ctx.User.ID)
	assert.Equal(t, clinic.ID, ctx.Organization.ID)
}

func TestResolveRequestedOrganizationMustBeMembership(t *testing.T) {
	resolver, users, orgs := newResolverFixture()

	clinic := orgs.add(&models.Organization{Name: "Riverside Clinic", Type: models.OrgTypeClinic})
	lab := orgs.add(&models.Organization{Name: "Central Lab", Type: models.OrgTypeLaboratory})
	other := orgs.add(&models.Organization{Name: "Other Clinic", Type: models.OrgTypeClinic})

	user := users.add(&models.User{
		Name:                  "Dana",
		Email:                 "dana@riverside.example",
		Role:                  models.RoleHCW,
		CurrentOrganizationID: clinic.ID,
		IsActive:              true,
		Organizations:         []models.Organization{*clinic, *lab},
	})

	ctx, err := resolver.Resolve(user.ID, &lab.ID)
	require.NoError(t, err)
	assert.Equal(t, lab.ID, ctx.Organization.ID)

	_, err = resolver.Resolve(user.ID, &other.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestResolveFailsClosed(t *testing.T) {
	resolver, users, orgs := newResolverFixture()

	clinic := orgs.add(&models.Organization{Name: "Riverside Clinic", Type: models.OrgTypeClinic})
	revoked := orgs.add(&models.Organization{Name: "Former Employer", Type: models.OrgTypeClinic})

	t.Run("unknown user", func(t *testing.T) {
		_, err := resolver.Resolve(uuid.New(), nil)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("inactive user", func(t *testing.T) {
		user := users.add(&models.User{
			Email:                 "inactive@riverside.example",
			CurrentOrganizationID: clinic.ID,
			IsActive:              false,
			Organizations:         []models.Organization{*clinic},
		})
		_, err := resolver.Resolve(user.ID, nil)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("stored current organization no longer a membership", func(t *testing.T) {
		user := users.add(&models.User{
			Email:                 "drifted@riverside.example",
			CurrentOrganizationID: revoked.ID,
			IsActive:              true,
			Organizations:         []models.Organization{*clinic},
		})
		_, err := resolver.Resolve(user.ID, nil)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestSwitchOrganization(t *testing.T) {
	resolver, users, orgs := newResolverFixture()

	clinic := orgs.add(&models.Organization{Name: "Riverside Clinic", Type: models.OrgTypeClinic})
	lab := orgs.add(&models.Organization{Name: "Central Lab", Type: models.OrgTypeLaboratory})
	other := orgs.add(&models.Organization{Name: "Other Clinic", Type: models.OrgTypeClinic})

	user := users.add(&models.User{
		Email:                 "dana@riverside.example",
		CurrentOrganizationID: clinic.ID,
		IsActive:              true,
		Organizations:         []models.Organization{*clinic, *lab},
	})

	require.NoError(t, resolver.SwitchOrganization(user.ID, lab.ID))
	assert.Equal(t, lab.ID, users.users[user.ID].CurrentOrganizationID)

	err := resolver.SwitchOrganization(user.ID, other.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, lab.ID, users.users[user.ID].CurrentOrganizationID)
}
