//go:build integration

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"parichay/internal/audit"
	"parichay/internal/audit/store/postgres"
	"parichay/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = postgres.New(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "audit_events")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) newTestEvent(scanID uuid.UUID) audit.Event {
	return audit.Event{
		Timestamp:    time.Now().UTC().Truncate(time.Microsecond),
		Action:       audit.ActionScanDecoded,
		ScanID:       scanID,
		SourceFormat: "secure_numeric",
		Degraded:     false,
		ClientIP:     "203.0.113.0",
		DeviceLabel:  "Chrome on Linux",
		RequestID:    uuid.NewString(),
		ClientID:     "client-1",
	}
}

func (s *PostgresStoreSuite) TestAppendAndListByScan() {
	ctx := context.Background()
	scanID := uuid.New()

	base := time.Now().UTC().Truncate(time.Microsecond)

	first := s.newTestEvent(scanID)
	first.Timestamp = base
	s.Require().NoError(s.store.Append(ctx, first))

	second := s.newTestEvent(scanID)
	second.Action = audit.ActionScanViewed
	second.Timestamp = base.Add(time.Second)
	s.Require().NoError(s.store.Append(ctx, second))

	// Event for a different scan must not leak in.
	other := s.newTestEvent(uuid.New())
	s.Require().NoError(s.store.Append(ctx, other))

	events, err := s.store.ListByScan(ctx, scanID.String())
	s.Require().NoError(err)
	s.Require().Len(events, 2)

	// Newest first.
	s.Equal(audit.ActionScanViewed, events[0].Action)
	s.Equal(audit.ActionScanDecoded, events[1].Action)
	s.Equal(scanID, events[0].ScanID)
	s.Equal(first.RequestID, events[1].RequestID)
	s.Equal("client-1", events[1].ClientID)
}

func (s *PostgresStoreSuite) TestAppendWithoutScanID() {
	ctx := context.Background()

	event := s.newTestEvent(uuid.Nil)
	event.Action = audit.ActionScanDecodeFail
	event.Reason = "unrecognized_format"
	s.Require().NoError(s.store.Append(ctx, event))

	events, err := s.store.ListRecent(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(events, 1)

	s.Equal(uuid.Nil, events[0].ScanID)
	s.Equal("unrecognized_format", events[0].Reason)
}

func (s *PostgresStoreSuite) TestListRecentLimit() {
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Microsecond)
	for i := 0; i < 5; i++ {
		event := s.newTestEvent(uuid.New())
		event.Timestamp = base.Add(time.Duration(i) * time.Second)
		s.Require().NoError(s.store.Append(ctx, event))
	}

	events, err := s.store.ListRecent(ctx, 3)
	s.Require().NoError(err)
	s.Require().Len(events, 3)

	// Newest first within the limit.
	s.WithinDuration(base.Add(4*time.Second), events[0].Timestamp, time.Millisecond)
	s.WithinDuration(base.Add(2*time.Second), events[2].Timestamp, time.Millisecond)
}
