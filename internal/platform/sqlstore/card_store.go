package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/store"
)

// CardStore implements the store.CardStore interface on database/sql.
type CardStore struct {
	db      store.DBTX
	dialect Dialect
	logger  *slog.Logger
}

// NewCardStore creates a new SQL implementation of the CardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewCardStore(db store.DBTX, dialect Dialect, logger *slog.Logger) *CardStore {
	// Validate inputs
	if db == nil {
		panic("db cannot be nil")
	}
	if dialect == nil {
		panic("dialect cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &CardStore{
		db:      db,
		dialect: dialect,
		logger:  logger.With(slog.String("component", "card_store")),
	}
}

// Ensure CardStore implements store.CardStore interface
var _ store.CardStore = (*CardStore)(nil)

// Create implements store.CardStore.Create
func (s *CardStore) Create(ctx context.Context, card *domain.Card) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()))
		return 0, err
	}

	query := `
		INSERT INTO study_cards (document_id, note_id, question, answer, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`

	var id int64
	err := s.db.QueryRowContext(
		ctx,
		s.dialect.Rebind(query),
		card.DocumentID,
		card.NoteID,
		card.Question,
		card.Answer,
		card.CreatedAt.UTC(),
	).Scan(&id)
	if err != nil {
		log.Error("failed to create card",
			slog.String("error", err.Error()))
		return 0, store.NewStoreError("card", "create", s.dialect.MapError(err))
	}

	card.ID = id
	log.Debug("card created", slog.Int64("card_id", id))
	return id, nil
}

// FindID implements store.CardStore.FindID
func (s *CardStore) FindID(ctx context.Context, key domain.DedupKey) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		query string
		args  []any
	)
	if key.HasDocument {
		query = `
			SELECT id FROM study_cards
			WHERE document_id = ? AND question = ? AND answer = ?
			ORDER BY id ASC
			LIMIT 1
		`
		args = []any{key.DocumentID, key.Question, key.Answer}
	} else {
		query = `
			SELECT id FROM study_cards
			WHERE document_id IS NULL AND question = ? AND answer = ?
			ORDER BY id ASC
			LIMIT 1
		`
		args = []any{key.Question, key.Answer}
	}

	var id int64
	if err := s.db.QueryRowContext(ctx, s.dialect.Rebind(query), args...).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, store.ErrCardNotFound
		}
		log.Error("failed to look up card by key",
			slog.String("error", err.Error()))
		return 0, s.dialect.MapError(err)
	}

	return id, nil
}

// ExistingKeys implements store.CardStore.ExistingKeys
func (s *CardStore) ExistingKeys(
	ctx context.Context,
	documentIDs []*int64,
) (map[domain.DedupKey]struct{}, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	keys := make(map[domain.DedupKey]struct{})

	var (
		ids         []any
		includeNull bool
	)
	seen := make(map[int64]struct{}, len(documentIDs))
	for _, id := range documentIDs {
		if id == nil {
			includeNull = true
			continue
		}
		if _, ok := seen[*id]; ok {
			continue
		}
		seen[*id] = struct{}{}
		ids = append(ids, *id)
	}

	var conds []string
	if len(ids) > 0 {
		conds = append(conds, "document_id IN ("+placeholders(len(ids))+")")
	}
	if includeNull {
		conds = append(conds, "document_id IS NULL")
	}
	if len(conds) == 0 {
		return keys, nil
	}

	query := "SELECT document_id, question, answer FROM study_cards WHERE " + strings.Join(conds, " OR ")

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), ids...)
	if err != nil {
		log.Error("failed to query existing card keys",
			slog.String("error", err.Error()),
			slog.Int("document_count", len(documentIDs)))
		return nil, s.dialect.MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	for rows.Next() {
		var (
			documentID sql.NullInt64
			question   string
			answer     string
		)
		if err := rows.Scan(&documentID, &question, &answer); err != nil {
			return nil, s.dialect.MapError(err)
		}
		keys[domain.NewDedupKey(int64Ptr(documentID), question, answer)] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, s.dialect.MapError(err)
	}

	log.Debug("loaded existing card keys", slog.Int("key_count", len(keys)))
	return keys, nil
}

// Update implements store.CardStore.Update
func (s *CardStore) Update(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("card_id", card.ID))
		return err
	}

	query := `
		UPDATE study_cards
		SET question = ?, answer = ?, document_id = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(
		ctx,
		s.dialect.Rebind(query),
		card.Question,
		card.Answer,
		card.DocumentID,
		card.ID,
	)
	if err != nil {
		log.Error("failed to update card",
			slog.String("error", err.Error()),
			slog.Int64("card_id", card.ID))
		return store.NewStoreError("card", "update", s.dialect.MapError(err))
	}

	if err := checkRowsAffected(result, store.ErrCardNotFound); err != nil {
		return err
	}

	log.Debug("card updated", slog.Int64("card_id", card.ID))
	return nil
}

// Delete implements store.CardStore.Delete
func (s *CardStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, s.dialect.Rebind(`DELETE FROM study_cards WHERE id = ?`), id)
	if err != nil {
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.Int64("card_id", id))
		return store.NewStoreError("card", "delete", s.dialect.MapError(err))
	}

	if err := checkRowsAffected(result, store.ErrCardNotFound); err != nil {
		return err
	}

	log.Info("card deleted", slog.Int64("card_id", id))
	return nil
}

// GetByID implements store.CardStore.GetByID
func (s *CardStore) GetByID(ctx context.Context, id int64) (*domain.CardWithSchedule, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := "SELECT" + cardScheduleColumns + cardScheduleFrom + `
		WHERE c.id = ?
	`

	card, err := scanCardWithSchedule(s.db.QueryRowContext(ctx, s.dialect.Rebind(query), id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found", slog.Int64("card_id", id))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card by ID",
			slog.String("error", err.Error()),
			slog.Int64("card_id", id))
		return nil, s.dialect.MapError(err)
	}

	return card, nil
}

// List implements store.CardStore.List
func (s *CardStore) List(ctx context.Context, filter store.CardFilter) ([]domain.CardWithSchedule, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	limit := filter.Limit
	if limit <= 0 {
		limit = store.DefaultListLimit
	}

	var (
		conds []string
		args  []any
	)
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + q + "%"
		lower := s.dialect.Lower
		conds = append(conds, "("+lower("c.question")+" LIKE "+lower("?")+
			" OR "+lower("c.answer")+" LIKE "+lower("?")+")")
		args = append(args, pattern, pattern)
	}
	if filter.DocumentID != nil {
		conds = append(conds, "c.document_id = ?")
		args = append(args, *filter.DocumentID)
	}

	where := ""
	if len(conds) > 0 {
		where = "\n\t\tWHERE " + strings.Join(conds, " AND ")
	}

	query := "SELECT" + cardScheduleColumns + cardScheduleFrom + where + `
		ORDER BY s.due_at ASC NULLS FIRST, s.box ASC NULLS FIRST, c.id DESC
		LIMIT ?
	`
	args = append(args, limit)

	cards, err := s.queryCards(ctx, query, args...)
	if err != nil {
		log.Error("failed to list cards",
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed cards", slog.Int("count", len(cards)))
	return cards, nil
}

// GetNextDue implements store.CardStore.GetNextDue
func (s *CardStore) GetNextDue(
	ctx context.Context,
	documentID *int64,
	today time.Time,
) (*domain.CardWithSchedule, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := documentScope(documentID, "s.due_at <= ?", s.dialect.DateValue(today))
	query := "SELECT" + cardScheduleColumns + cardScheduleFrom + where + `
		ORDER BY s.due_at ASC, s.box ASC, c.id ASC
		LIMIT 1
	`

	card, err := scanCardWithSchedule(s.db.QueryRowContext(ctx, s.dialect.Rebind(query), args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get next due card",
			slog.String("error", err.Error()))
		return nil, s.dialect.MapError(err)
	}

	return card, nil
}

// GetRandom implements store.CardStore.GetRandom
func (s *CardStore) GetRandom(ctx context.Context, documentID *int64) (*domain.CardWithSchedule, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := documentScope(documentID, "")
	query := "SELECT" + cardScheduleColumns + cardScheduleFrom + where + `
		ORDER BY RANDOM()
		LIMIT 1
	`

	card, err := scanCardWithSchedule(s.db.QueryRowContext(ctx, s.dialect.Rebind(query), args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get random card",
			slog.String("error", err.Error()))
		return nil, s.dialect.MapError(err)
	}

	return card, nil
}

// RandomAnswers implements store.CardStore.RandomAnswers
func (s *CardStore) RandomAnswers(
	ctx context.Context,
	excludeID int64,
	documentID *int64,
	limit int,
) ([]string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	answers := make([]string, 0, max(limit, 0))
	if limit <= 0 {
		return answers, nil
	}

	query := `SELECT answer FROM study_cards WHERE id <> ?`
	args := []any{excludeID}
	if documentID != nil {
		query += ` AND document_id = ?`
		args = append(args, *documentID)
	}
	query += ` ORDER BY RANDOM() LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		log.Error("failed to query random answers",
			slog.String("error", err.Error()),
			slog.Int64("exclude_card_id", excludeID))
		return nil, s.dialect.MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	for rows.Next() {
		var answer string
		if err := rows.Scan(&answer); err != nil {
			return nil, s.dialect.MapError(err)
		}
		answers = append(answers, answer)
	}
	if err := rows.Err(); err != nil {
		return nil, s.dialect.MapError(err)
	}

	return answers, nil
}

// WithTx implements store.CardStore.WithTx
func (s *CardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &CardStore{
		db:      tx,
		dialect: s.dialect,
		logger:  s.logger,
	}
}

// queryCards runs a query selecting cardScheduleColumns (plus nothing else)
// and collects the rows.
func (s *CardStore) queryCards(ctx context.Context, query string, args ...any) ([]domain.CardWithSchedule, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return nil, s.dialect.MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	cards := make([]domain.CardWithSchedule, 0)
	for rows.Next() {
		card, err := scanCardWithSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", s.dialect.MapError(err))
		}
		cards = append(cards, *card)
	}
	if err := rows.Err(); err != nil {
		return nil, s.dialect.MapError(err)
	}

	return cards, nil
}

// documentScope builds a WHERE clause from an optional base condition and an
// optional document filter on c.document_id.
func documentScope(documentID *int64, cond string, condArgs ...any) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if cond != "" {
		conds = append(conds, cond)
		args = append(args, condArgs...)
	}
	if documentID != nil {
		conds = append(conds, "c.document_id = ?")
		args = append(args, *documentID)
	}
	if len(conds) == 0 {
		return "", args
	}
	return "\n\t\tWHERE " + strings.Join(conds, " AND "), args
}

// checkRowsAffected returns notFound when an UPDATE or DELETE touched no rows.
func checkRowsAffected(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
