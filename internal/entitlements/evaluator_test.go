package entitlements

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"access-service/internal/models"
)

func TestCanAccessFeature(t *testing.T) {
	evaluator := NewEvaluator()

	basicClinic := &models.Organization{Type: models.OrgTypeClinic, Plan: models.PlanBasic}
	professionalHospital := &models.Organization{Type: models.OrgTypeHospital, Plan: models.PlanProfessional}
	headquarters := &models.Organization{Type: models.OrgTypeHeadquarters, Plan: models.PlanBasic}
	unsetPlan := &models.Organization{Type: models.OrgTypeClinic}

	tests := []struct {
		name    string
		org     *models.Organization
		feature FeatureKey
		want    bool
	}{
		{"basic clinic holds scheduling", basicClinic, FeatureScheduling, true},
		{"basic clinic denied lab", basicClinic, FeatureLab, false},
		{"professional hospital holds lab", professionalHospital, FeatureLab, true},
		{"professional hospital denied audit log", professionalHospital, FeatureAuditLog, false},
		{"headquarters passes every check regardless of plan", headquarters, FeatureAuditLog, true},
		{"headquarters holds enterprise roles", headquarters, FeatureRoleAdmin, true},
		{"unset plan treated as basic", unsetPlan, FeatureScheduling, true},
		{"unset plan denied professional feature", unsetPlan, FeatureTriage, false},
		{"nil organization always denied", nil, FeatureScheduling, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, evaluator.CanAccessFeature(tt.org, tt.feature))
		})
	}
}

func TestFeaturesForOrganization(t *testing.T) {
	evaluator := NewEvaluator()

	assert.Empty(t, evaluator.Features(nil))

	hq := &models.Organization{Type: models.OrgTypeHeadquarters}
	assert.Equal(t, len(allFeatures), len(evaluator.Features(hq)))

	clinic := &models.Organization{Type: models.OrgTypeClinic, Plan: models.PlanBasic}
	assert.Equal(t, Features(models.PlanBasic), evaluator.Features(clinic))
}

func TestAssignableRoles(t *testing.T) {
	evaluator := NewEvaluator()

	tests := []struct {
		name string
		org  *models.Organization
		want []models.UserRole
	}{
		{
			name: "basic clinic",
			org:  &models.Organization{Type: models.OrgTypeClinic, Plan: models.PlanBasic},
			want: []models.UserRole{models.RoleHCW, models.RoleReceptionist},
		},
		{
			name: "professional hospital",
			org:  &models.Organization{Type: models.OrgTypeHospital, Plan: models.PlanProfessional},
			want: []models.UserRole{
				models.RoleHCW, models.RoleReceptionist, models.RoleNurse,
				models.RolePharmacist, models.RoleLabTechnician,
			},
		},
		{
			name: "enterprise hospital",
			org:  &models.Organization{Type: models.OrgTypeHospital, Plan: models.PlanEnterprise},
			want: models.AllRoles,
		},
		{
			name: "headquarters",
			org:  &models.Organization{Type: models.OrgTypeHeadquarters, Plan: models.PlanBasic},
			want: models.AllRoles,
		},
		{
			name: "nil organization",
			org:  nil,
			want: []models.UserRole{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, evaluator.AssignableRoles(tt.org))
		})
	}
}

func TestFeatureForRole(t *testing.T) {
	for _, role := range models.AllRoles {
		feature, ok := FeatureForRole(role)
		assert.True(t, ok, "role %s has no licensing feature", role)
		assert.True(t, allFeatures.Has(feature))
	}

	_, ok := FeatureForRole(models.UserRole("superuser"))
	assert.False(t, ok)
}
