package services

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"access-service/internal/models"
)

// In-memory repository fakes for service tests. They mirror the storage
// contracts: GetByID returns gorm.ErrRecordNotFound for unknown ids,
// FindByEmail returns (nil, nil) on no match, and Create surfaces
// gorm.ErrDuplicatedKey when forced to simulate a lost unique-index race.

type fakeUserRepo struct {
	users       map[uuid.UUID]*models.User
	dupOnCreate bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUserRepo) add(user *models.User) *models.User {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.Email = strings.ToLower(user.Email)
	f.users[user.ID] = user
	return user
}

func (f *fakeUserRepo) GetByID(id uuid.UUID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*models.User, error) {
	lowered := strings.ToLower(email)
	for _, user := range f.users {
		if user.Email == lowered {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Create(user *models.User, organizationIDs, departmentIDs []uuid.UUID) error {
	if f.dupOnCreate {
		return gorm.ErrDuplicatedKey
	}
	applyAssociations(user, organizationIDs, departmentIDs)
	f.add(user)
	return nil
}

func (f *fakeUserRepo) Update(user *models.User, organizationIDs, departmentIDs []uuid.UUID) error {
	applyAssociations(user, organizationIDs, departmentIDs)
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) SetCurrentOrganization(userID, orgID uuid.UUID) error {
	user, ok := f.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.CurrentOrganizationID = orgID
	return nil
}

func (f *fakeUserRepo) ListOrganizations(userID uuid.UUID) ([]models.Organization, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user.Organizations, nil
}

func (f *fakeUserRepo) ListByOrganization(orgID uuid.UUID, page, limit int) ([]models.User, *models.PaginationInfo, error) {
	var users []models.User
	for _, user := range f.users {
		if user.MemberOf(orgID) {
			users = append(users, *user)
		}
	}
	return users, models.NewPaginationInfo(page, limit, int64(len(users))), nil
}

func (f *fakeUserRepo) Deactivate(userID uuid.UUID) error {
	user, ok := f.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.IsActive = false
	return nil
}

func applyAssociations(user *models.User, organizationIDs, departmentIDs []uuid.UUID) {
	if organizationIDs != nil {
		user.Organizations = nil
		for _, id := range organizationIDs {
			user.Organizations = append(user.Organizations, models.Organization{ID: id})
		}
	}
	if departmentIDs != nil {
		user.Departments = nil
		for _, id := range departmentIDs {
			user.Departments = append(user.Departments, models.Department{ID: id})
		}
	}
}

type fakeOrgRepo struct {
	orgs map[uuid.UUID]*models.Organization
}

func newFakeOrgRepo() *fakeOrgRepo {
	return &fakeOrgRepo{orgs: make(map[uuid.UUID]*models.Organization)}
}

func (f *fakeOrgRepo) add(org *models.Organization) *models.Organization {
	if org.ID == uuid.Nil {
		org.ID = uuid.New()
	}
	f.orgs[org.ID] = org
	return org
}

func (f *fakeOrgRepo) Create(org *models.Organization) error {
	if org.Plan == "" {
		org.Plan = models.PlanBasic
	}
	f.add(org)
	return nil
}

func (f *fakeOrgRepo) GetByID(id uuid.UUID) (*models.Organization, error) {
	org, ok := f.orgs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return org, nil
}

func (f *fakeOrgRepo) Update(id uuid.UUID, updates *models.UpdateOrganizationRequest) error {
	org, ok := f.orgs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if updates.Name != nil {
		org.Name = *updates.Name
	}
	if updates.Plan != nil {
		org.Plan = *updates.Plan
	}
	if updates.IsActive != nil {
		org.IsActive = *updates.IsActive
	}
	return nil
}

func (f *fakeOrgRepo) List(page, limit int) ([]models.Organization, *models.PaginationInfo, error) {
	var orgs []models.Organization
	for _, org := range f.orgs {
		orgs = append(orgs, *org)
	}
	return orgs, models.NewPaginationInfo(page, limit, int64(len(orgs))), nil
}

func (f *fakeOrgRepo) ListChildren(parentID uuid.UUID) ([]models.Organization, error) {
	var children []models.Organization
	for _, org := range f.orgs {
		if org.ParentOrganizationID != nil && *org.ParentOrganizationID == parentID {
			children = append(children, *org)
		}
	}
	return children, nil
}

func (f *fakeOrgRepo) SetParent(childID uuid.UUID, parentID *uuid.UUID, validate func(child, parent *models.Organization) error) error {
	child, ok := f.orgs[childID]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	var parent *models.Organization
	if parentID != nil {
		parent, ok = f.orgs[*parentID]
		if !ok {
			return gorm.ErrRecordNotFound
		}
	}

	if validate != nil {
		if err := validate(child, parent); err != nil {
			return err
		}
	}

	child.ParentOrganizationID = parentID
	return nil
}

type fakeDeptRepo struct {
	depts map[uuid.UUID]*models.Department
}

func newFakeDeptRepo() *fakeDeptRepo {
	return &fakeDeptRepo{depts: make(map[uuid.UUID]*models.Department)}
}

func (f *fakeDeptRepo) add(dept *models.Department) *models.Department {
	if dept.ID == uuid.Nil {
		dept.ID = uuid.New()
	}
	f.depts[dept.ID] = dept
	return dept
}

func (f *fakeDeptRepo) Create(dept *models.Department) error {
	f.add(dept)
	return nil
}

func (f *fakeDeptRepo) GetByIDs(ids []uuid.UUID) ([]models.Department, error) {
	var depts []models.Department
	for _, id := range ids {
		if dept, ok := f.depts[id]; ok {
			depts = append(depts, *dept)
		}
	}
	return depts, nil
}

func (f *fakeDeptRepo) ListByOrganization(orgID uuid.UUID) ([]models.Department, error) {
	var depts []models.Department
	for _, dept := range f.depts {
		if dept.OrganizationID == orgID {
			depts = append(depts, *dept)
		}
	}
	return depts, nil
}

type fakeAuditRepo struct {
	entries []models.AccessAuditLog
}

func (f *fakeAuditRepo) Create(entry *models.AccessAuditLog) error {
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) List(filters map[string]interface{}, page, limit int) ([]models.AccessAuditLog, *models.PaginationInfo, error) {
	return f.entries, models.NewPaginationInfo(page, limit, int64(len(f.entries))), nil
}

func (f *fakeAuditRepo) actions() []string {
	var actions []string
	for _, entry := range f.entries {
		actions = append(actions, entry.Action)
	}
	return actions
}
