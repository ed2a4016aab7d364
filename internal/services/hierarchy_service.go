package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"access-service/internal/cache"
	"access-service/internal/events"
	"access-service/internal/models"
	"access-service/internal/repository"
)

// HierarchyService is the only legal writer of the parent-organization edge.
// The tree is capped at two levels: a headquarters root and one level of
// child facilities.
type HierarchyService struct {
	orgs      repository.OrganizationRepository
	audit     repository.AuditRepository
	entCache  *cache.EntitlementCache
	publisher *events.Publisher
	logger    *logrus.Entry
}

func NewHierarchyService(orgs repository.OrganizationRepository, audit repository.AuditRepository, entCache *cache.EntitlementCache, publisher *events.Publisher) *HierarchyService {
	return &HierarchyService{
		orgs:      orgs,
		audit:     audit,
		entCache:  entCache,
		publisher: publisher,
		logger:    logrus.WithField("component", "hierarchy_service"),
	}
}

// Link attaches child to parent. The shape invariants are re-checked under
// row locks inside the storage transaction, so concurrent links cannot
// produce a depth-3 or cyclic hierarchy.
func (s *HierarchyService) Link(ctx context.Context, childID, parentID uuid.UUID, actorID *uuid.UUID) error {
	if childID == parentID {
		return ErrSelfLink
	}

	err := s.orgs.SetParent(childID, &parentID, func(child, parent *models.Organization) error {
		if child.IsHeadquarters() {
			return ErrHeadquartersChild
		}
		if !parent.IsHeadquarters() {
			return ErrParentNotHeadquarters
		}
		if parent.ParentOrganizationID != nil {
			return ErrParentAlreadyLinked
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.afterHierarchyChange(ctx, childID, models.AuditActionOrgLinked, actorID, &parentID)
	return nil
}

// Unlink clears the parent edge. Unlinking an already-unlinked organization
// succeeds as a no-op.
func (s *HierarchyService) Unlink(ctx context.Context, childID uuid.UUID, actorID *uuid.UUID) error {
	if err := s.orgs.SetParent(childID, nil, nil); err != nil {
		return err
	}

	s.afterHierarchyChange(ctx, childID, models.AuditActionOrgUnlinked, actorID, nil)
	return nil
}

func (s *HierarchyService) afterHierarchyChange(ctx context.Context, childID uuid.UUID, action string, actorID, parentID *uuid.UUID) {
	if err := s.entCache.Invalidate(ctx, childID); err != nil {
		s.logger.WithError(err).WithField("organization_id", childID).Warn("Entitlement cache invalidation failed")
	}

	entry := &models.AccessAuditLog{
		Action:         action,
		EntityType:     "organization",
		EntityID:       &childID,
		OrganizationID: &childID,
		PerformedBy:    actorID,
	}
	if parentID != nil {
		details := models.JSON{"parentOrganizationId": parentID.String()}
		entry.Details = &details
	}
	if err := s.audit.Create(entry); err != nil {
		s.logger.WithError(err).Warn("Failed to write hierarchy audit entry")
	}

	event := events.OrgEvent{OrganizationID: childID.String()}
	if parentID != nil {
		event.ParentOrganizationID = parentID.String()
	}
	if action == models.AuditActionOrgLinked {
		_ = s.publisher.PublishOrgLinked(ctx, event)
	} else {
		_ = s.publisher.PublishOrgUnlinked(ctx, event)
	}
}
