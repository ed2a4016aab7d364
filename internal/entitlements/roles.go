package entitlements

import (
	"access-service/internal/models"
)

// roleFeatures maps each staff role to the feature key that licenses it.
// The staff-form role selector and the server-side assignment check both
// derive from this table through Evaluator.AssignableRoles.
var roleFeatures = map[models.UserRole]FeatureKey{
	models.RoleHCW:           FeatureRoleHCW,
	models.RoleReceptionist:  FeatureRoleReceptionist,
	models.RoleNurse:         FeatureRoleNurse,
	models.RolePharmacist:    FeatureRolePharmacist,
	models.RoleLabTechnician: FeatureRoleLabTechnician,
	models.RoleLogistics:     FeatureRoleLogistics,
	models.RoleAdmin:         FeatureRoleAdmin,
}

// FeatureForRole returns the feature key licensing a role. The second return
// is false for unknown roles, which are therefore never assignable.
func FeatureForRole(role models.UserRole) (FeatureKey, bool) {
	feature, ok := roleFeatures[role]
	return feature, ok
}
