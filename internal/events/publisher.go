package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

const (
	streamName = "ACCESS_EVENTS"

	SubjectStaffCreated     = "staff.created"
	SubjectStaffUpdated     = "staff.updated"
	SubjectStaffDeactivated = "staff.deactivated"
	SubjectOrgLinked        = "org.linked"
	SubjectOrgUnlinked      = "org.unlinked"
)

// StaffEvent is the payload published for staff lifecycle changes
type StaffEvent struct {
	StaffID         string    `json:"staffId"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	OrganizationIDs []string  `json:"organizationIds,omitempty"`
	PerformedBy     string    `json:"performedBy,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// OrgEvent is the payload published for hierarchy changes
type OrgEvent struct {
	OrganizationID       string    `json:"organizationId"`
	ParentOrganizationID string    `json:"parentOrganizationId,omitempty"`
	Timestamp            time.Time `json:"timestamp"`
}

// Publisher emits staff and organization events to NATS JetStream.
// All publish methods are safe on a nil publisher so the service keeps
// working when NATS is not configured.
type Publisher struct {
	conn   *nats.Conn
	js     nats.JetStreamContext
	logger *logrus.Entry
}

// NewPublisher connects to NATS and ensures the events stream exists
func NewPublisher(url string, logger *logrus.Logger) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("access-service"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, err
	}

	entry := logger.WithField("component", "events.publisher")
	if _, err := js.StreamInfo(streamName); err != nil {
		_, err = js.AddStream(&nats.StreamConfig{
			Name:     streamName,
			Subjects: []string{"staff.>", "org.>"},
		})
		if err != nil {
			entry.WithError(err).Warn("Failed to ensure events stream")
		}
	}

	return &Publisher{
		conn:   conn,
		js:     js,
		logger: entry,
	}, nil
}

func (p *Publisher) publish(ctx context.Context, subject string, payload interface{}) error {
	if p == nil || p.js == nil {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if _, err := p.js.Publish(subject, data, nats.Context(ctx)); err != nil {
		p.logger.WithError(err).WithField("subject", subject).Warn("Failed to publish event")
		return err
	}
	return nil
}

// PublishStaffCreated publishes a staff created event
func (p *Publisher) PublishStaffCreated(ctx context.Context, event StaffEvent) error {
	event.Timestamp = time.Now().UTC()
	return p.publish(ctx, SubjectStaffCreated, event)
}

// PublishStaffUpdated publishes a staff updated event
func (p *Publisher) PublishStaffUpdated(ctx context.Context, event StaffEvent) error {
	event.Timestamp = time.Now().UTC()
	return p.publish(ctx, SubjectStaffUpdated, event)
}

// PublishStaffDeactivated publishes a staff deactivated event
func (p *Publisher) PublishStaffDeactivated(ctx context.Context, event StaffEvent) error {
	event.Timestamp = time.Now().UTC()
	return p.publish(ctx, SubjectStaffDeactivated, event)
}

// PublishOrgLinked publishes an organization linked event
func (p *Publisher) PublishOrgLinked(ctx context.Context, event OrgEvent) error {
	event.Timestamp = time.Now().UTC()
	return p.publish(ctx, SubjectOrgLinked, event)
}

// PublishOrgUnlinked publishes an organization unlinked event
func (p *Publisher) PublishOrgUnlinked(ctx context.Context, event OrgEvent) error {
	event.Timestamp = time.Now().UTC()
	return p.publish(ctx, SubjectOrgUnlinked, event)
}

// IsConnected returns true if connected to NATS
func (p *Publisher) IsConnected() bool {
	return p != nil && p.conn != nil && p.conn.IsConnected()
}

// Close closes the publisher connection
func (p *Publisher) Close() {
	if p != nil && p.conn != nil {
		p.conn.Close()
	}
}
