package entitlements

import (
	"access-service/internal/models"
)

// Evaluator answers feature and role queries for an organization. Inject the
// same instance into route guards, navigation handlers and the staff
// assignment validator; a second implementation is the failure mode this
// package exists to prevent.
type Evaluator interface {
	// CanAccessFeature reports whether the organization holds the feature.
	// A nil organization is always denied; a headquarters organization is
	// always allowed regardless of plan.
	CanAccessFeature(org *models.Organization, feature FeatureKey) bool

	// Features returns every feature the organization holds.
	Features(org *models.Organization) FeatureSet

	// AssignableRoles returns the staff roles whose gating feature key the
	// organization holds, in display order.
	AssignableRoles(org *models.Organization) []models.UserRole
}

type planEvaluator struct{}

// NewEvaluator returns the canonical plan-based evaluator
func NewEvaluator() Evaluator {
	return planEvaluator{}
}

func (planEvaluator) CanAccessFeature(org *models.Organization, feature FeatureKey) bool {
	if org == nil {
		return false
	}
	if org.IsHeadquarters() {
		return true
	}
	return Features(org.PlanOrDefault()).Has(feature)
}

func (e planEvaluator) Features(org *models.Organization) FeatureSet {
	if org == nil {
		return emptyFeatures
	}
	if org.IsHeadquarters() {
		return allFeatures
	}
	return Features(org.PlanOrDefault())
}

func (e planEvaluator) AssignableRoles(org *models.Organization) []models.UserRole {
	roles := make([]models.UserRole, 0, len(models.AllRoles))
	for _, role := range models.AllRoles {
		feature, ok := FeatureForRole(role)
		if !ok {
			continue
		}
		if e.CanAccessFeature(org, feature) {
			roles = append(roles, role)
		}
	}
	return roles
}
