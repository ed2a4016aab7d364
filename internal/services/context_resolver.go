package services

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"access-service/internal/models"
	"access-service/internal/repository"
)

// OrganizationContext is the resolved (user, organization) pair a request
// acts under. It is built once per request, treated as immutable for the
// request's lifetime and never cached across requests.
type OrganizationContext struct {
	User         *models.User
	Organization *models.Organization
}

// ContextResolver resolves the acting organization context for an
// authenticated identity, re-validating membership on every call so a
// revoked membership takes effect on the very next request.
type ContextResolver struct {
	users  repository.UserRepository
	orgs   repository.OrganizationRepository
	logger *logrus.Entry
}

func NewContextResolver(users repository.UserRepository, orgs repository.OrganizationRepository) *ContextResolver {
	return &ContextResolver{
		users:  users,
		orgs:   orgs,
		logger: logrus.WithField("component", "context_resolver"),
	}
}

// Resolve loads the identity's memberships and produces the acting context.
// When requestedOrgID is set it must be one of the identity's memberships;
// otherwise the stored current organization is used. Every failure mode
// resolves to ErrUnauthorized without distinguishing why.
func (r *ContextResolver) Resolve(userID uuid.UUID, requestedOrgID *uuid.UUID) (*OrganizationContext, error) {
	user, err := r.users.GetByID(userID)
	if err != nil || user == nil {
		return nil, ErrUnauthorized
	}
	if !user.IsActive {
		return nil, ErrUnauthorized
	}

	orgID := user.CurrentOrganizationID
	if requestedOrgID != nil {
		orgID = *requestedOrgID
	}

	// Membership check applies to the stored current organization too:
	// fail closed if the pointer ever drifts out of the membership set.
	if !user.MemberOf(orgID) {
		r.logger.WithFields(logrus.Fields{
			"user_id":         userID,
			"organization_id": orgID,
		}).Warn("Organization context denied: not a member")
		return nil, ErrUnauthorized
	}

	org, err := r.orgs.GetByID(orgID)
	if err != nil || org == nil {
		return nil, ErrUnauthorized
	}

	return &OrganizationContext{User: user, Organization: org}, nil
}

// SwitchOrganization changes the identity's stored current organization
// after validating the membership
func (r *ContextResolver) SwitchOrganization(userID, orgID uuid.UUID) error {
	user, err := r.users.GetByID(userID)
	if err != nil || user == nil {
		return ErrUnauthorized
	}
	if !user.MemberOf(orgID) {
		return ErrUnauthorized
	}
	return r.users.SetCurrentOrganization(userID, orgID)
}
