package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"access-service/internal/entitlements"
	"access-service/internal/events"
	"access-service/internal/models"
	"access-service/internal/repository"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// StaffService validates and persists staff assignments. It composes the
// entitlement evaluator with the membership store: an actor can only assign
// roles its organization's plan licenses, and only into organizations the
// actor itself belongs to.
type StaffService struct {
	users       repository.UserRepository
	departments repository.DepartmentRepository
	audit       repository.AuditRepository
	evaluator   entitlements.Evaluator
	publisher   *events.Publisher
	logger      *logrus.Entry
}

func NewStaffService(users repository.UserRepository, departments repository.DepartmentRepository, audit repository.AuditRepository, evaluator entitlements.Evaluator, publisher *events.Publisher) *StaffService {
	return &StaffService{
		users:       users,
		departments: departments,
		audit:       audit,
		evaluator:   evaluator,
		publisher:   publisher,
		logger:      logrus.WithField("component", "staff_service"),
	}
}

// AssignableRoles returns the roles the actor's organization may assign.
// The staff-form role selector and the create/edit validation below share
// this single derivation.
func (s *StaffService) AssignableRoles(actor *OrganizationContext) []models.UserRole {
	return s.evaluator.AssignableRoles(actor.Organization)
}

// CreateStaff validates a staff assignment request against the actor's
// context and, on success, persists the user with one membership row per
// organization id. The first supplied organization becomes the new account's
// current organization.
func (s *StaffService) CreateStaff(ctx context.Context, actor *OrganizationContext, req *models.StaffAssignmentRequest) (*models.User, error) {
	if err := s.validateAssignment(actor, req.Role, req.OrganizationIDs, req.DepartmentIDs); err != nil {
		return nil, err
	}
	if err := s.validateEmail(req.Email, uuid.Nil); err != nil {
		return nil, err
	}
	if PasswordScore(req.Password) < MinPasswordScore {
		return nil, newValidationError(CodeWeakPassword, "Password does not meet the strength policy")
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:                  req.Name,
		Email:                 strings.ToLower(req.Email),
		PasswordHash:          hash,
		Role:                  req.Role,
		CurrentOrganizationID: req.OrganizationIDs[0],
		IsActive:              true,
	}

	if err := s.users.Create(user, req.OrganizationIDs, req.DepartmentIDs); err != nil {
		// The unique index is what actually closes the duplicate-email
		// race; the pre-check above only improves the error message.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newValidationError(CodeDuplicateEmail, "A user with this email already exists")
		}
		return nil, err
	}

	s.recordAssignment(ctx, models.AuditActionStaffCreated, actor, user, req.OrganizationIDs)
	return user, nil
}

// UpdateStaff applies an edit to an existing staff account, re-running every
// assignment rule against the actor's context. Password is only re-validated
// when a new one is supplied.
func (s *StaffService) UpdateStaff(ctx context.Context, actor *OrganizationContext, userID uuid.UUID, req *models.UpdateStaffRequest) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeTarget(actor, user); err != nil {
		return nil, err
	}

	role := user.Role
	if req.Role != nil {
		role = *req.Role
	}
	orgIDs := user.OrganizationIDs()
	var replaceOrgs []uuid.UUID
	if req.OrganizationIDs != nil {
		orgIDs = *req.OrganizationIDs
		replaceOrgs = orgIDs
	}
	deptIDs := user.DepartmentIDs()
	var replaceDepts []uuid.UUID
	if req.DepartmentIDs != nil {
		deptIDs = *req.DepartmentIDs
		replaceDepts = deptIDs
	}

	if err := s.validateAssignment(actor, role, orgIDs, deptIDs); err != nil {
		return nil, err
	}

	if req.Email != nil && !strings.EqualFold(*req.Email, user.Email) {
		if err := s.validateEmail(*req.Email, user.ID); err != nil {
			return nil, err
		}
		user.Email = strings.ToLower(*req.Email)
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	user.Role = role

	if req.Password != nil {
		if PasswordScore(*req.Password) < MinPasswordScore {
			return nil, newValidationError(CodeWeakPassword, "Password does not meet the strength policy")
		}
		hash, err := HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	// Keep the current-organization pointer inside the membership set when
	// memberships are replaced.
	if req.OrganizationIDs != nil && !containsID(orgIDs, user.CurrentOrganizationID) {
		user.CurrentOrganizationID = orgIDs[0]
	}

	if err := s.users.Update(user, replaceOrgs, replaceDepts); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newValidationError(CodeDuplicateEmail, "A user with this email already exists")
		}
		return nil, err
	}

	s.recordAssignment(ctx, models.AuditActionStaffUpdated, actor, user, orgIDs)
	return user, nil
}

// GetStaff loads a staff account the actor is allowed to see
func (s *StaffService) GetStaff(actor *OrganizationContext, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeTarget(actor, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeactivateStaff soft-disables a staff account
func (s *StaffService) DeactivateStaff(ctx context.Context, actor *OrganizationContext, userID uuid.UUID) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if err := s.authorizeTarget(actor, user); err != nil {
		return err
	}
	if err := s.users.Deactivate(userID); err != nil {
		return err
	}

	s.recordAssignment(ctx, models.AuditActionStaffDeactivated, actor, user, nil)
	_ = s.publisher.PublishStaffDeactivated(ctx, events.StaffEvent{
		StaffID:     user.ID.String(),
		Email:       user.Email,
		Role:        string(user.Role),
		PerformedBy: actor.User.ID.String(),
	})
	return nil
}

// ListStaff pages through the staff of the actor's acting organization
func (s *StaffService) ListStaff(actor *OrganizationContext, page, limit int) ([]models.User, *models.PaginationInfo, error) {
	return s.users.ListByOrganization(actor.Organization.ID, page, limit)
}

// validateAssignment applies the role, organization and department rules in
// order. Each rule is independently testable.
func (s *StaffService) validateAssignment(actor *OrganizationContext, role models.UserRole, orgIDs, deptIDs []uuid.UUID) error {
	feature, known := entitlements.FeatureForRole(role)
	if !known || !s.evaluator.CanAccessFeature(actor.Organization, feature) {
		s.recordDenial(actor, role)
		return ErrForbidden
	}

	if len(orgIDs) == 0 {
		return newValidationError(CodeMissingOrganization, "At least one organization must be assigned")
	}
	for _, id := range orgIDs {
		if !actor.User.MemberOf(id) {
			return ErrForbidden
		}
	}

	if role.RequiresDepartment() {
		if len(deptIDs) == 0 {
			return newValidationError(CodeMissingDepartment, "This role requires at least one department")
		}
		depts, err := s.departments.GetByIDs(deptIDs)
		if err != nil {
			return err
		}
		if len(depts) != len(deptIDs) {
			return newValidationError(CodeMissingDepartment, "One or more departments do not exist")
		}
		for _, dept := range depts {
			if !containsID(orgIDs, dept.OrganizationID) {
				return newValidationError(CodeMissingDepartment, "Departments must belong to an assigned organization")
			}
		}
	}

	return nil
}

// validateEmail checks syntax and case-insensitive uniqueness. excludeID
// skips the account being edited.
func (s *StaffService) validateEmail(email string, excludeID uuid.UUID) error {
	if !emailPattern.MatchString(email) {
		return newValidationError(CodeInvalidEmail, "Email address is not valid")
	}
	existing, err := s.users.FindByEmail(email)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != excludeID {
		return newValidationError(CodeDuplicateEmail, "A user with this email already exists")
	}
	return nil
}

// authorizeTarget allows access only when the target shares at least one
// organization with the actor
func (s *StaffService) authorizeTarget(actor *OrganizationContext, target *models.User) error {
	for _, org := range target.Organizations {
		if actor.User.MemberOf(org.ID) {
			return nil
		}
	}
	return ErrForbidden
}

func (s *StaffService) recordAssignment(ctx context.Context, action string, actor *OrganizationContext, user *models.User, orgIDs []uuid.UUID) {
	actorID := actor.User.ID
	orgID := actor.Organization.ID
	entry := &models.AccessAuditLog{
		Action:         action,
		EntityType:     "user",
		EntityID:       &user.ID,
		OrganizationID: &orgID,
		PerformedBy:    &actorID,
		Details:        &models.JSON{"role": string(user.Role)},
	}
	if err := s.audit.Create(entry); err != nil {
		s.logger.WithError(err).Warn("Failed to write staff audit entry")
	}

	if action == models.AuditActionStaffCreated || action == models.AuditActionStaffUpdated {
		event := events.StaffEvent{
			StaffID:     user.ID.String(),
			Email:       user.Email,
			Role:        string(user.Role),
			PerformedBy: actorID.String(),
		}
		for _, id := range orgIDs {
			event.OrganizationIDs = append(event.OrganizationIDs, id.String())
		}
		if action == models.AuditActionStaffCreated {
			_ = s.publisher.PublishStaffCreated(ctx, event)
		} else {
			_ = s.publisher.PublishStaffUpdated(ctx, event)
		}
	}
}

func (s *StaffService) recordDenial(actor *OrganizationContext, role models.UserRole) {
	actorID := actor.User.ID
	orgID := actor.Organization.ID
	entry := &models.AccessAuditLog{
		Action:         models.AuditActionAssignmentDenied,
		EntityType:     "user",
		OrganizationID: &orgID,
		PerformedBy:    &actorID,
		Details:        &models.JSON{"role": string(role)},
	}
	if err := s.audit.Create(entry); err != nil {
		s.logger.WithError(err).Warn("Failed to write denial audit entry")
	}
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
