// Package entitlements decides, for any (organization, capability) pair,
// whether that capability is enabled under the organization's subscription
// plan. It is the single implementation shared by route guards, navigation
// and the staff assignment validator; permission logic is never re-derived
// at a call site.
package entitlements

import (
	"fmt"
	"sort"

	"access-service/internal/models"
)

// FeatureKey identifies one gated capability: a dashboard section, a
// functional module, or an assignable staff role.
type FeatureKey string

const (
	FeatureScheduling     FeatureKey = "scheduling"
	FeatureEHR            FeatureKey = "ehr"
	FeaturePrescribing    FeatureKey = "prescribing"
	FeaturePatientPortal  FeatureKey = "patient_portal"
	FeatureAISummary      FeatureKey = "ai_summary"
	FeatureLab            FeatureKey = "lab"
	FeaturePharmacy       FeatureKey = "pharmacy"
	FeatureInpatient      FeatureKey = "inpatient"
	FeatureTriage         FeatureKey = "triage"
	FeatureAIProactive    FeatureKey = "ai_proactive_care"
	FeatureAdminDashboard FeatureKey = "admin_dashboard"
	FeatureLogistics      FeatureKey = "logistics"
	FeatureDataIO         FeatureKey = "data_io"
	FeatureAuditLog       FeatureKey = "audit_log"
	FeatureAPIAccess      FeatureKey = "api_access"
	FeatureMultiTenancy   FeatureKey = "multi_tenancy"
	FeatureStaffMgmt      FeatureKey = "staff_management"

	FeatureRoleHCW           FeatureKey = "role_hcw"
	FeatureRoleReceptionist  FeatureKey = "role_receptionist"
	FeatureRoleNurse         FeatureKey = "role_nurse"
	FeatureRolePharmacist    FeatureKey = "role_pharmacist"
	FeatureRoleLabTechnician FeatureKey = "role_lab_technician"
	FeatureRoleLogistics     FeatureKey = "role_logistics"
	FeatureRoleAdmin         FeatureKey = "role_admin"
)

// FeatureSet is a set of feature keys. Treat instances from this package as
// immutable.
type FeatureSet map[FeatureKey]struct{}

// Has reports whether the set contains the feature
func (s FeatureSet) Has(f FeatureKey) bool {
	_, ok := s[f]
	return ok
}

// Keys returns the features in sorted order for stable API responses
func (s FeatureSet) Keys() []FeatureKey {
	keys := make([]FeatureKey, 0, len(s))
	for f := range s {
		keys = append(keys, f)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

var allFeatures = FeatureSet{
	FeatureScheduling: {}, FeatureEHR: {}, FeaturePrescribing: {},
	FeaturePatientPortal: {}, FeatureAISummary: {}, FeatureLab: {},
	FeaturePharmacy: {}, FeatureInpatient: {}, FeatureTriage: {},
	FeatureAIProactive: {}, FeatureAdminDashboard: {}, FeatureLogistics: {},
	FeatureDataIO: {}, FeatureAuditLog: {}, FeatureAPIAccess: {},
	FeatureMultiTenancy: {}, FeatureStaffMgmt: {},
	FeatureRoleHCW: {}, FeatureRoleReceptionist: {}, FeatureRoleNurse: {},
	FeatureRolePharmacist: {}, FeatureRoleLabTechnician: {},
	FeatureRoleLogistics: {}, FeatureRoleAdmin: {},
}

// Each tier is derived from the previous one plus its extras, so the
// enterprise ⊇ professional ⊇ basic containment holds by construction.
var planCatalog = func() map[models.Plan]FeatureSet {
	basic := newTier(nil,
		FeatureScheduling, FeatureEHR, FeaturePrescribing, FeaturePatientPortal,
		FeatureAISummary, FeatureRoleHCW, FeatureRoleReceptionist, FeatureAdminDashboard,
	)
	professional := newTier(basic,
		FeatureLab, FeaturePharmacy, FeatureInpatient, FeatureTriage,
		FeatureAIProactive, FeatureRoleNurse, FeatureRolePharmacist, FeatureRoleLabTechnician,
	)
	enterprise := newTier(professional,
		FeatureLogistics, FeatureDataIO, FeatureAuditLog, FeatureAPIAccess,
		FeatureRoleLogistics, FeatureRoleAdmin, FeatureMultiTenancy, FeatureStaffMgmt,
	)
	return map[models.Plan]FeatureSet{
		models.PlanBasic:        basic,
		models.PlanProfessional: professional,
		models.PlanEnterprise:   enterprise,
	}
}()

// newTier builds a plan tier as base ∪ extras, rejecting unknown keys at
// startup rather than at call time.
func newTier(base FeatureSet, extras ...FeatureKey) FeatureSet {
	tier := make(FeatureSet, len(base)+len(extras))
	for f := range base {
		tier[f] = struct{}{}
	}
	for _, f := range extras {
		if !allFeatures.Has(f) {
			panic(fmt.Sprintf("entitlements: unknown feature key %q in plan catalog", f))
		}
		tier[f] = struct{}{}
	}
	return tier
}

var emptyFeatures = FeatureSet{}

// Features returns the feature set licensed by a plan. Unknown plans resolve
// to the empty set: absence of features is the safe failure mode.
func Features(plan models.Plan) FeatureSet {
	if set, ok := planCatalog[plan]; ok {
		return set
	}
	return emptyFeatures
}
