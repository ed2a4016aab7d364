package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"access-service/internal/cache"
	"access-service/internal/entitlements"
	"access-service/internal/models"
	"access-service/internal/repository"
)

// OrganizationService manages the organization directory and the cached
// entitlement lookups derived from it
type OrganizationService struct {
	orgs        repository.OrganizationRepository
	users       repository.UserRepository
	departments repository.DepartmentRepository
	evaluator   entitlements.Evaluator
	entCache    *cache.EntitlementCache
	logger      *logrus.Entry
}

func NewOrganizationService(orgs repository.OrganizationRepository, users repository.UserRepository, departments repository.DepartmentRepository, evaluator entitlements.Evaluator, entCache *cache.EntitlementCache) *OrganizationService {
	return &OrganizationService{
		orgs:        orgs,
		users:       users,
		departments: departments,
		evaluator:   evaluator,
		entCache:    entCache,
		logger:      logrus.WithField("component", "organization_service"),
	}
}

// Register creates an organization together with its first admin account.
// Self-service onboarding is the only path that creates an admin without an
// existing actor context.
func (s *OrganizationService) Register(req *models.RegisterOrganizationRequest) (*models.Organization, *models.User, error) {
	if !emailPattern.MatchString(req.AdminEmail) {
		return nil, nil, newValidationError(CodeInvalidEmail, "Email address is not valid")
	}
	existing, err := s.users.FindByEmail(req.AdminEmail)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, newValidationError(CodeDuplicateEmail, "A user with this email already exists")
	}
	if PasswordScore(req.AdminPassword) < MinPasswordScore {
		return nil, nil, newValidationError(CodeWeakPassword, "Password does not meet the strength policy")
	}

	hash, err := HashPassword(req.AdminPassword)
	if err != nil {
		return nil, nil, err
	}

	org := &models.Organization{
		Name:     req.Organization.Name,
		Type:     req.Organization.Type,
		IsActive: true,
	}
	if req.Organization.Plan != nil {
		org.Plan = *req.Organization.Plan
	}
	if err := s.orgs.Create(org); err != nil {
		return nil, nil, err
	}

	admin := &models.User{
		Name:                  req.AdminName,
		Email:                 strings.ToLower(req.AdminEmail),
		PasswordHash:          hash,
		Role:                  models.RoleAdmin,
		CurrentOrganizationID: org.ID,
		IsActive:              true,
	}
	if err := s.users.Create(admin, []uuid.UUID{org.ID}, nil); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, newValidationError(CodeDuplicateEmail, "A user with this email already exists")
		}
		return nil, nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"organization_id": org.ID,
		"admin_id":        admin.ID,
	}).Info("Organization registered")
	return org, admin, nil
}

func (s *OrganizationService) Create(req *models.CreateOrganizationRequest) (*models.Organization, error) {
	org := &models.Organization{
		Name:     req.Name,
		Type:     req.Type,
		IsActive: true,
	}
	if req.Plan != nil {
		org.Plan = *req.Plan
	}
	if err := s.orgs.Create(org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *OrganizationService) Get(id uuid.UUID) (*models.Organization, error) {
	return s.orgs.GetByID(id)
}

func (s *OrganizationService) List(page, limit int) ([]models.Organization, *models.PaginationInfo, error) {
	return s.orgs.List(page, limit)
}

// Update applies directory changes. A plan change invalidates the cached
// entitlements so the next feature lookup reflects the new tier.
func (s *OrganizationService) Update(ctx context.Context, id uuid.UUID, req *models.UpdateOrganizationRequest) (*models.Organization, error) {
	if err := s.orgs.Update(id, req); err != nil {
		return nil, err
	}
	if req.Plan != nil {
		if err := s.entCache.Invalidate(ctx, id); err != nil {
			s.logger.WithError(err).WithField("organization_id", id).Warn("Entitlement cache invalidation failed")
		}
	}
	return s.orgs.GetByID(id)
}

func (s *OrganizationService) ListChildren(parentID uuid.UUID) ([]models.Organization, error) {
	return s.orgs.ListChildren(parentID)
}

// CreateDepartment creates a department. The actor must be a member of the
// target organization; department writes never cross organization boundaries.
func (s *OrganizationService) CreateDepartment(actor *OrganizationContext, orgID uuid.UUID, req *models.CreateDepartmentRequest) (*models.Department, error) {
	if !actor.User.MemberOf(orgID) {
		return nil, ErrForbidden
	}
	dept := &models.Department{
		OrganizationID: orgID,
		Name:           req.Name,
	}
	if err := s.departments.Create(dept); err != nil {
		return nil, err
	}
	return dept, nil
}

// ListDepartments lists the departments of one of the actor's organizations
func (s *OrganizationService) ListDepartments(actor *OrganizationContext, orgID uuid.UUID) ([]models.Department, error) {
	if !actor.User.MemberOf(orgID) {
		return nil, ErrForbidden
	}
	return s.departments.ListByOrganization(orgID)
}

// Features returns the organization's feature list, serving from the
// entitlement cache when possible. Only the plan-derived list is cached;
// membership checks never go through here.
func (s *OrganizationService) Features(ctx context.Context, org *models.Organization) []entitlements.FeatureKey {
	cached, err := s.entCache.Get(ctx, org.ID)
	if err != nil {
		s.logger.WithError(err).WithField("organization_id", org.ID).Warn("Entitlement cache read failed")
	}
	if cached != nil {
		return cached
	}

	features := s.evaluator.Features(org).Keys()
	if err := s.entCache.Set(ctx, org.ID, features); err != nil {
		s.logger.WithError(err).WithField("organization_id", org.ID).Warn("Entitlement cache write failed")
	}
	return features
}
