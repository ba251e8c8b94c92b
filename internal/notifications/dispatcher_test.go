package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amaldonado/fixpoint-backend/pkg/db/models"
	"github.com/amaldonado/fixpoint-backend/pkg/enums"
	"github.com/amaldonado/fixpoint-backend/pkg/logger"
)

type fakePublishResult struct {
	err error
}

func (f *fakePublishResult) Get(ctx context.Context) (string, error) {
	return "msg-1", f.err
}

type fakePublisher struct {
	messages []*pubsub.Message
	err      error
}

func (f *fakePublisher) Publish(ctx context.Context, msg *pubsub.Message) publishResult {
	f.messages = append(f.messages, msg)
	return &fakePublishResult{err: f.err}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

func testConnection() *models.Connection {
	return &models.Connection{
		ID:            uuid.New(),
		StoreOrgID:    uuid.New(),
		ProviderOrgID: uuid.New(),
		Status:        enums.ConnectionStatusPending,
	}
}

func newTestDispatcher(t *testing.T, repo rowWriter, publisher eventPublisher) *Dispatcher {
	t.Helper()
	d, err := NewDispatcher(repo, publisher, testLogger(), nil, time.Second)
	if err != nil {
		t.Fatalf("unexpected constructor error: %v", err)
	}
	return d
}

func TestDispatcherWritesRowsForBothOrgs(t *testing.T) {
	repo := &fakeRepository{}
	publisher := &fakePublisher{}
	d := newTestDispatcher(t, repo, publisher)
	conn := testConnection()

	d.ConnectionEvent(context.Background(), enums.ConnectionEventRequested, conn)

	if len(repo.created) != 2 {
		t.Fatalf("expected one row per org, got %d", len(repo.created))
	}
	seen := map[uuid.UUID]enums.NotificationType{}
	for _, row := range repo.created {
		seen[row.OrgID] = row.Type
	}
	if seen[conn.StoreOrgID] != enums.NotificationTypeConnectionRequest {
		t.Fatalf("store org row missing or mistyped: %v", seen)
	}
	if seen[conn.ProviderOrgID] != enums.NotificationTypeConnectionRequest {
		t.Fatalf("provider org row missing or mistyped: %v", seen)
	}
}

func TestDispatcherPublishesEventPayload(t *testing.T) {
	repo := &fakeRepository{}
	publisher := &fakePublisher{}
	d := newTestDispatcher(t, repo, publisher)
	conn := testConnection()
	conn.Status = enums.ConnectionStatusActive

	d.ConnectionEvent(context.Background(), enums.ConnectionEventAccepted, conn)

	if len(publisher.messages) != 1 {
		t.Fatalf("expected 1 published message, got %d", len(publisher.messages))
	}
	msg := publisher.messages[0]
	if msg.Attributes["event"] != enums.ConnectionEventAccepted.String() {
		t.Fatalf("unexpected event attribute %q", msg.Attributes["event"])
	}

	var payload ConnectionEventMessage
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		t.Fatalf("payload should be JSON: %v", err)
	}
	if payload.ConnectionID != conn.ID.String() {
		t.Fatalf("unexpected connection id %q", payload.ConnectionID)
	}
	if payload.Status != enums.ConnectionStatusActive {
		t.Fatalf("unexpected status %q", payload.Status)
	}
	if payload.OccurredAt.IsZero() {
		t.Fatal("occurred_at should be set")
	}
}

func TestDispatcherSwallowsFailures(t *testing.T) {
	repo := &fakeRepository{createErr: errors.New("insert failed")}
	publisher := &fakePublisher{err: errors.New("broker down")}
	d := newTestDispatcher(t, repo, publisher)

	// Must not panic or propagate; the transition already committed.
	d.ConnectionEvent(context.Background(), enums.ConnectionEventRejected, testConnection())
}

func TestDispatcherWithoutPublisherStillWritesRows(t *testing.T) {
	repo := &fakeRepository{}
	d := newTestDispatcher(t, repo, nil)

	d.ConnectionEvent(context.Background(), enums.ConnectionEventRejected, testConnection())

	if len(repo.created) != 2 {
		t.Fatalf("expected in-app rows without a publisher, got %d", len(repo.created))
	}
	for _, row := range repo.created {
		if row.Type != enums.NotificationTypeConnectionRejected {
			t.Fatalf("unexpected type %q", row.Type)
		}
	}
}

func TestDispatcherIgnoresUnknownEvent(t *testing.T) {
	repo := &fakeRepository{}
	publisher := &fakePublisher{}
	d := newTestDispatcher(t, repo, publisher)

	d.ConnectionEvent(context.Background(), enums.ConnectionEvent("bogus"), testConnection())
	d.ConnectionEvent(context.Background(), enums.ConnectionEventRequested, nil)

	if len(repo.created) != 0 || len(publisher.messages) != 0 {
		t.Fatal("no delivery expected for invalid input")
	}
}

func TestDispatcherOutlivesCanceledRequestContext(t *testing.T) {
	repo := &fakeRepository{}
	publisher := &fakePublisher{}
	d := newTestDispatcher(t, repo, publisher)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.ConnectionEvent(ctx, enums.ConnectionEventRequested, testConnection())

	if len(repo.created) != 2 || len(publisher.messages) != 1 {
		t.Fatal("delivery should proceed after the request context ends")
	}
}
