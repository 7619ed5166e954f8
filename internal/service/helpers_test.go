package service_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/sqlstore"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/phrazzld/scry-study/internal/testdb"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC)

func fixedClock() domain.Clock {
	return domain.Clock{NowFunc: func() time.Time { return testNow }}
}

func ptr[T any](v T) *T { return &v }

// env wires the services over one fresh in-memory database.
type env struct {
	db       *sql.DB
	cards    *sqlstore.CardStore
	srs      *sqlstore.SRSStore
	reviews  *sqlstore.ReviewStore
	cardSvc  service.CardService
	stats    service.StatsService
	content  service.ContentService
	settings service.SettingsService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testdb.Open(t)
	d := testdb.Dialect()

	cards := sqlstore.NewCardStore(db, d, nil)
	srs := sqlstore.NewSRSStore(db, d, nil)
	return &env{
		db:      db,
		cards:   cards,
		srs:     srs,
		reviews: sqlstore.NewReviewStore(db, d, nil),
		cardSvc: service.NewCardService(db, cards, srs, fixedClock(), nil),
		stats:   service.NewStatsService(sqlstore.NewStatsStore(db, d, nil), fixedClock(), nil),
		content: service.NewContentService(
			sqlstore.NewNoteStore(db, d, nil),
			sqlstore.NewDocumentStore(db, d, nil),
			nil,
			nil,
		),
		settings: service.NewSettingsService(sqlstore.NewSettingsStore(db, d, nil), nil),
	}
}

func (e *env) create(t *testing.T, docID *int64, question, answer string) int64 {
	t.Helper()
	id, created, err := e.cardSvc.CreateCard(context.Background(), question, answer, docID, nil)
	require.NoError(t, err)
	require.True(t, created, "expected %q to be a new card", question)
	return id
}

// review logs a verdict without touching the schedule.
func (e *env) review(t *testing.T, cardID int64, correct bool) {
	t.Helper()
	r, err := domain.NewReview(cardID, correct, domain.ReviewSourceSession, testNow)
	require.NoError(t, err)
	require.NoError(t, e.reviews.Create(context.Background(), r))
}

// moveTo rewrites a card's schedule.
func (e *env) moveTo(t *testing.T, cardID int64, box int, due time.Time) {
	t.Helper()
	require.NoError(t, e.srs.Update(context.Background(), &domain.SRSState{
		CardID: cardID,
		Box:    box,
		DueAt:  domain.DateOf(due),
	}))
}
