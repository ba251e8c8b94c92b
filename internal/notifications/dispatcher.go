package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"go.uber.org/multierr"

	"github.com/amaldonado/fixpoint-backend/pkg/db/models"
	"github.com/amaldonado/fixpoint-backend/pkg/enums"
	"github.com/amaldonado/fixpoint-backend/pkg/logger"
	"github.com/amaldonado/fixpoint-backend/pkg/metrics"
)

const defaultDispatchTimeout = 2 * time.Second

// ConnectionEventMessage is the payload published on the connection
// event topic.
type ConnectionEventMessage struct {
	Event         enums.ConnectionEvent  `json:"event"`
	ConnectionID  string                 `json:"connection_id"`
	StoreOrgID    string                 `json:"store_org_id"`
	ProviderOrgID string                 `json:"provider_org_id"`
	Status        enums.ConnectionStatus `json:"status"`
	OccurredAt    time.Time              `json:"occurred_at"`
}

type publishResult interface {
	Get(ctx context.Context) (string, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, msg *pubsub.Message) publishResult
}

type rowWriter interface {
	Create(ctx context.Context, notification *models.Notification) error
}

// Dispatcher delivers connection transition notifications: one in-app
// row per recipient org plus one event on the Pub/Sub channel. Delivery
// runs after the transition commits, bounded by its own timeout, and
// never surfaces errors to the caller.
type Dispatcher struct {
	rows      rowWriter
	publisher eventPublisher
	logg      *logger.Logger
	metrics   *metrics.ConnectionMetrics
	timeout   time.Duration
}

// NewDispatcher wires the production dispatcher. The publisher may be
// nil (dev without Pub/Sub); in-app rows are still written.
func NewDispatcher(rows rowWriter, publisher eventPublisher, logg *logger.Logger, connMetrics *metrics.ConnectionMetrics, timeout time.Duration) (*Dispatcher, error) {
	if rows == nil {
		return nil, fmt.Errorf("notifications repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if timeout <= 0 {
		timeout = defaultDispatchTimeout
	}
	return &Dispatcher{
		rows:      rows,
		publisher: publisher,
		logg:      logg,
		metrics:   connMetrics,
		timeout:   timeout,
	}, nil
}

// ConnectionEvent delivers the notifications for one effective
// transition. Failures are logged and swallowed.
func (d *Dispatcher) ConnectionEvent(ctx context.Context, event enums.ConnectionEvent, conn *models.Connection) {
	if conn == nil || !event.IsValid() {
		return
	}

	// The request transaction has already committed; delivery gets its
	// own deadline so a slow broker cannot stall the response.
	dispatchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	defer cancel()

	var errs error
	for _, row := range buildRows(event, conn) {
		if err := d.rows.Create(dispatchCtx, row); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("in-app row for org %s: %w", row.OrgID, err))
		}
	}
	if err := d.publishEvent(dispatchCtx, event, conn); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("publish event: %w", err))
	}

	if errs != nil {
		d.metrics.IncDispatchFailure()
		d.logg.Warn(d.logg.WithFields(ctx, map[string]any{
			"event":         event.String(),
			"connection_id": conn.ID.String(),
		}), "notification dispatch incomplete: "+errs.Error())
		return
	}
	d.metrics.IncDispatchSuccess()
}

func (d *Dispatcher) publishEvent(ctx context.Context, event enums.ConnectionEvent, conn *models.Connection) error {
	if d.publisher == nil {
		return nil
	}

	payload := ConnectionEventMessage{
		Event:         event,
		ConnectionID:  conn.ID.String(),
		StoreOrgID:    conn.StoreOrgID.String(),
		ProviderOrgID: conn.ProviderOrgID.String(),
		Status:        conn.Status,
		OccurredAt:    time.Now().UTC(),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	result := d.publisher.Publish(ctx, &pubsub.Message{
		Data: data,
		Attributes: map[string]string{
			"event":         event.String(),
			"connection_id": payload.ConnectionID,
		},
	})
	if result == nil {
		return fmt.Errorf("publisher returned nil result")
	}
	_, err = result.Get(ctx)
	return err
}

// buildRows fans an event out to its recipient orgs. The acting org is
// informed too so both dashboards stay in sync.
func buildRows(event enums.ConnectionEvent, conn *models.Connection) []*models.Notification {
	var (
		kind        enums.NotificationType
		storeMsg    string
		providerMsg string
	)
	switch event {
	case enums.ConnectionEventRequested:
		kind = enums.NotificationTypeConnectionRequest
		storeMsg = "Your connection request was sent."
		providerMsg = "A store requested a connection with your organization."
	case enums.ConnectionEventAccepted:
		kind = enums.NotificationTypeConnectionAccepted
		storeMsg = "Your connection request was accepted."
		providerMsg = "Your organization accepted a connection."
	case enums.ConnectionEventRejected:
		kind = enums.NotificationTypeConnectionRejected
		storeMsg = "Your connection request was declined."
		providerMsg = "Your organization declined a connection."
	default:
		return nil
	}

	title := titleForEvent(event)
	link := "/connections/" + conn.ID.String()
	return []*models.Notification{
		{OrgID: conn.StoreOrgID, Type: kind, Title: title, Message: storeMsg, Link: &link},
		{OrgID: conn.ProviderOrgID, Type: kind, Title: title, Message: providerMsg, Link: &link},
	}
}

func titleForEvent(event enums.ConnectionEvent) string {
	switch event {
	case enums.ConnectionEventRequested:
		return "Connection requested"
	case enums.ConnectionEventAccepted:
		return "Connection accepted"
	default:
		return "Connection declined"
	}
}

// TopicPublisher adapts a Pub/Sub publisher handle to the dispatcher's
// interface.
type TopicPublisher struct {
	publisher *pubsub.Publisher
}

// NewTopicPublisher wraps the provided publisher handle. A nil handle
// yields a nil adapter, which the dispatcher treats as "no channel".
func NewTopicPublisher(publisher *pubsub.Publisher) eventPublisher {
	if publisher == nil {
		return nil
	}
	return &TopicPublisher{publisher: publisher}
}

// Publish forwards to the underlying Pub/Sub publisher.
func (t *TopicPublisher) Publish(ctx context.Context, msg *pubsub.Message) publishResult {
	if t == nil || t.publisher == nil {
		return nil
	}
	return t.publisher.Publish(ctx, msg)
}
