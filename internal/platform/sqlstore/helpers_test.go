package sqlstore_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/sqlstore"
	"github.com/phrazzld/scry-study/internal/store"
	"github.com/phrazzld/scry-study/internal/testdb"
	"github.com/stretchr/testify/require"
)

// fixture bundles every store over one fresh database.
type fixture struct {
	db        *sql.DB
	cards     *sqlstore.CardStore
	srs       *sqlstore.SRSStore
	reviews   *sqlstore.ReviewStore
	stats     *sqlstore.StatsStore
	notes     *sqlstore.NoteStore
	documents *sqlstore.DocumentStore
	settings  *sqlstore.SettingsStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.Open(t)
	d := testdb.Dialect()
	return &fixture{
		db:        db,
		cards:     sqlstore.NewCardStore(db, d, nil),
		srs:       sqlstore.NewSRSStore(db, d, nil),
		reviews:   sqlstore.NewReviewStore(db, d, nil),
		stats:     sqlstore.NewStatsStore(db, d, nil),
		notes:     sqlstore.NewNoteStore(db, d, nil),
		documents: sqlstore.NewDocumentStore(db, d, nil),
		settings:  sqlstore.NewSettingsStore(db, d, nil),
	}
}

var testToday = time.Date(2024, 5, 20, 9, 30, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

// addCard inserts a card with an SRS row in the given box, due on due.
func (f *fixture) addCard(t *testing.T, docID *int64, question, answer string, box int, due time.Time) int64 {
	t.Helper()
	ctx := context.Background()

	card, err := domain.NewCard(question, answer, docID, nil)
	require.NoError(t, err)

	var id int64
	err = store.RunInTransaction(ctx, f.db, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		id, err = f.cards.WithTx(tx).Create(ctx, card)
		if err != nil {
			return err
		}
		return f.srs.WithTx(tx).Create(ctx, &domain.SRSState{
			CardID: id,
			Box:    box,
			DueAt:  domain.DateOf(due),
		})
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) addReview(t *testing.T, cardID int64, correct bool) {
	t.Helper()
	review, err := domain.NewReview(cardID, correct, domain.ReviewSourceSession, testToday)
	require.NoError(t, err)
	require.NoError(t, f.reviews.Create(context.Background(), review))
}

func (f *fixture) addDocument(t *testing.T, title string) int64 {
	t.Helper()
	doc, err := domain.NewDocument(title, title+".pdf", "text of "+title, 1)
	require.NoError(t, err)
	require.NoError(t, f.documents.Create(context.Background(), doc))
	return doc.ID
}

func ids(cards []domain.CardWithSchedule) []int64 {
	out := make([]int64, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.ID)
	}
	return out
}
