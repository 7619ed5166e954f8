package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/store"
)

// Generation limits used when Options leaves a field at zero.
const (
	DefaultNoteLimit        = 500
	DefaultDocumentLimit    = 8
	DefaultPairsPerDocument = 300
	DefaultMaxItems         = 350
)

// Options tunes how much content one Generate call reads and returns.
type Options struct {
	NoteLimit        int
	DocumentLimit    int
	PairsPerDocument int
	MaxItems         int
}

func (o Options) withDefaults() Options {
	if o.NoteLimit <= 0 {
		o.NoteLimit = DefaultNoteLimit
	}
	if o.DocumentLimit <= 0 {
		o.DocumentLimit = DefaultDocumentLimit
	}
	if o.PairsPerDocument <= 0 {
		o.PairsPerDocument = DefaultPairsPerDocument
	}
	if o.MaxItems <= 0 {
		o.MaxItems = DefaultMaxItems
	}
	return o
}

// ErrNoSource is returned by Generate when neither notes nor documents are
// selected. It wraps domain.ErrInvalidInput.
var ErrNoSource = fmt.Errorf("%w: select notes, documents or both", domain.ErrInvalidInput)

// GenerateRequest selects the content a batch is extracted from.
type GenerateRequest struct {
	IncludeNotes bool   `json:"include_notes"`
	IncludeDocs  bool   `json:"include_docs"`
	DocumentID   *int64 `json:"document_id"`
}

// GenerateResult describes a stored batch.
type GenerateResult struct {
	Token      string               `json:"token"`
	Items      []domain.PreviewItem `json:"items"`
	Total      int                  `json:"total"`
	NewCount   int                  `json:"new_count"`
	DupCount   int                  `json:"dup_count"`
	EmptyNotes int                  `json:"empty_notes"`
	EmptyDocs  int                  `json:"empty_docs"`
}

// CommitResult reports what a commit did with the picked items.
type CommitResult struct {
	Created    int `json:"created"`
	SkippedDup int `json:"skipped_dup"`
	Selected   int `json:"selected"`
}

// CardCreator persists committed items. service.CardService satisfies it.
type CardCreator interface {
	CreateCard(ctx context.Context, question, answer string, documentID, noteID *int64) (int64, bool, error)
}

// KeyLister reports which dedup keys already exist. service.DedupIndex
// satisfies it.
type KeyLister interface {
	ExistingKeys(ctx context.Context, documentIDs []*int64) (map[domain.DedupKey]struct{}, error)
}

// Service runs the generate/commit workflow.
type Service struct {
	notes     store.NoteStore
	documents store.DocumentStore
	keys      KeyLister
	cards     CardCreator
	extractor generation.Extractor
	cache     Cache
	clock     domain.Clock
	opts      Options
	logger    *slog.Logger
}

// Deps groups the collaborators of Service.
type Deps struct {
	Notes     store.NoteStore
	Documents store.DocumentStore
	Keys      KeyLister
	Cards     CardCreator
	Extractor generation.Extractor
	Cache     Cache
	Clock     domain.Clock
}

// NewService creates a preview Service. Every dependency except Clock is
// required.
func NewService(deps Deps, opts Options, logger *slog.Logger) *Service {
	if deps.Notes == nil || deps.Documents == nil {
		panic("content stores cannot be nil")
	}
	if deps.Keys == nil {
		panic("keys cannot be nil")
	}
	if deps.Cards == nil {
		panic("cards cannot be nil")
	}
	if deps.Extractor == nil {
		panic("extractor cannot be nil")
	}
	if deps.Cache == nil {
		panic("cache cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		notes:     deps.Notes,
		documents: deps.Documents,
		keys:      deps.Keys,
		cards:     deps.Cards,
		extractor: deps.Extractor,
		cache:     deps.Cache,
		clock:     deps.Clock,
		opts:      opts.withDefaults(),
		logger:    logger.With(slog.String("component", "preview_service")),
	}
}

// sourced is the extraction output of one source before batching.
type sourced struct {
	items []domain.PreviewItem
	empty int
}

// Generate extracts candidates from the selected sources and stores them as
// a new batch.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !req.IncludeNotes && !req.IncludeDocs {
		return nil, ErrNoSource
	}

	var fromNotes, fromDocs sourced
	g, gctx := errgroup.WithContext(ctx)
	if req.IncludeNotes {
		g.Go(func() error {
			var err error
			fromNotes, err = s.noteItems(gctx, req.DocumentID)
			return err
		})
	}
	if req.IncludeDocs {
		g.Go(func() error {
			var err error
			fromDocs, err = s.documentItems(gctx, req.DocumentID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("failed to extract preview items", slog.String("error", err.Error()))
		return nil, err
	}

	items := s.batchItems(append(fromNotes.items, fromDocs.items...))
	if err := s.tagDuplicates(ctx, items); err != nil {
		return nil, err
	}

	batch := &domain.PreviewBatch{
		Token:     newToken(),
		CreatedAt: s.clock.Now().UTC(),
		Items:     items,
	}
	if err := s.cache.Put(ctx, batch); err != nil {
		log.Error("failed to store preview batch", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to store preview batch: %w", err)
	}

	result := &GenerateResult{
		Token:      batch.Token,
		Items:      items,
		Total:      len(items),
		EmptyNotes: fromNotes.empty,
		EmptyDocs:  fromDocs.empty,
	}
	for _, item := range items {
		if item.IsDup {
			result.DupCount++
		} else {
			result.NewCount++
		}
	}

	log.Info("preview generated",
		slog.Int("total", result.Total),
		slog.Int("new", result.NewCount),
		slog.Int("dup", result.DupCount),
		slog.Int("empty_notes", result.EmptyNotes),
		slog.Int("empty_docs", result.EmptyDocs))
	return result, nil
}

// noteItems extracts candidates from notes. When documentID is set the notes
// of that document are read and their cards are attributed to it.
func (s *Service) noteItems(ctx context.Context, documentID *int64) (sourced, error) {
	notes, err := s.notes.List(ctx, documentID, s.opts.NoteLimit)
	if err != nil {
		return sourced{}, fmt.Errorf("failed to list notes: %w", err)
	}

	var out sourced
	for _, note := range notes {
		if strings.TrimSpace(note.Body) == "" {
			out.empty++
			continue
		}
		pairs, err := s.extractor.ExtractPairs(ctx, note.Body)
		if err != nil {
			return sourced{}, fmt.Errorf("failed to extract pairs from note %d: %w", note.ID, err)
		}

		docID := note.DocumentID
		if documentID != nil {
			docID = documentID
		}
		noteID := note.ID
		for _, p := range pairs {
			out.items = append(out.items, domain.PreviewItem{
				Question:   p.Question,
				Answer:     p.Answer,
				DocumentID: docID,
				NoteID:     &noteID,
				Source:     domain.PreviewSourceNotes,
			})
		}
	}
	return out, nil
}

// documentItems extracts candidates from the selected document, or from the
// newest documents when none is selected. A selected document that does not
// exist contributes nothing.
func (s *Service) documentItems(ctx context.Context, documentID *int64) (sourced, error) {
	var docs []domain.Document
	if documentID != nil {
		doc, err := s.documents.GetByID(ctx, *documentID)
		switch {
		case err == nil:
			docs = []domain.Document{*doc}
		case errors.Is(err, store.ErrDocumentNotFound):
			logger.FromContextOrDefault(ctx, s.logger).Debug("selected document not found",
				slog.Int64("document_id", *documentID))
		default:
			return sourced{}, fmt.Errorf("failed to load document: %w", err)
		}
	} else {
		var err error
		docs, err = s.documents.List(ctx, s.opts.DocumentLimit)
		if err != nil {
			return sourced{}, fmt.Errorf("failed to list documents: %w", err)
		}
	}

	var out sourced
	for _, doc := range docs {
		if strings.TrimSpace(doc.SearchText) == "" {
			out.empty++
			continue
		}
		pairs, err := s.extractor.ExtractPairs(ctx, doc.SearchText)
		if err != nil {
			return sourced{}, fmt.Errorf("failed to extract pairs from document %d: %w", doc.ID, err)
		}
		if len(pairs) > s.opts.PairsPerDocument {
			pairs = pairs[:s.opts.PairsPerDocument]
		}

		docID := doc.ID
		for _, p := range pairs {
			out.items = append(out.items, domain.PreviewItem{
				Question:   p.Question,
				Answer:     p.Answer,
				DocumentID: &docID,
				Source:     domain.PreviewSourceDocs,
			})
		}
	}
	return out, nil
}

// batchItems trims candidates, drops the ones with an empty side, removes
// repeated keys keeping the first and caps the batch at MaxItems.
func (s *Service) batchItems(candidates []domain.PreviewItem) []domain.PreviewItem {
	items := make([]domain.PreviewItem, 0, min(len(candidates), s.opts.MaxItems))
	seen := make(map[domain.DedupKey]struct{}, len(candidates))
	for _, item := range candidates {
		if len(items) == s.opts.MaxItems {
			break
		}
		item.Question = strings.TrimSpace(item.Question)
		item.Answer = strings.TrimSpace(item.Answer)
		if item.Question == "" || item.Answer == "" {
			continue
		}
		key := item.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		items = append(items, item)
	}
	return items
}

// tagDuplicates marks items whose key is already stored, using one lookup
// for every document the batch touches.
func (s *Service) tagDuplicates(ctx context.Context, items []domain.PreviewItem) error {
	if len(items) == 0 {
		return nil
	}

	var ids []*int64
	seen := make(map[domain.DedupKey]struct{})
	for _, item := range items {
		partition := domain.NewDedupKey(item.DocumentID, "", "")
		if _, ok := seen[partition]; ok {
			continue
		}
		seen[partition] = struct{}{}
		ids = append(ids, partition.DocumentRef())
	}

	existing, err := s.keys.ExistingKeys(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to look up existing cards: %w", err)
	}
	for i := range items {
		_, items[i].IsDup = existing[items[i].Key()]
	}
	return nil
}

// Commit creates the picked items of a batch. The token is consumed even
// when the commit fails part way; items created before a failure stay.
func (s *Service) Commit(ctx context.Context, token string, picks []int) (*CommitResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	batch, err := s.cache.Pop(ctx, token)
	if err != nil {
		if errors.Is(err, ErrExpiredOrUnknownToken) {
			return nil, ErrExpiredOrUnknownToken
		}
		return nil, fmt.Errorf("failed to load preview batch: %w", err)
	}

	selected := normalizePicks(picks, len(batch.Items))
	result := &CommitResult{Selected: len(selected)}
	for _, i := range selected {
		item := batch.Items[i]
		if item.IsDup {
			result.SkippedDup++
			continue
		}

		_, created, err := s.cards.CreateCard(ctx, item.Question, item.Answer, item.DocumentID, item.NoteID)
		if err != nil {
			log.Error("commit aborted",
				slog.String("error", err.Error()),
				slog.Int("created", result.Created),
				slog.Int("index", i))
			return nil, fmt.Errorf("failed to create card %d of batch: %w", i, err)
		}
		if created {
			result.Created++
		} else {
			result.SkippedDup++
		}
	}

	log.Info("preview committed",
		slog.Int("selected", result.Selected),
		slog.Int("created", result.Created),
		slog.Int("skipped_dup", result.SkippedDup))
	return result, nil
}

// normalizePicks removes repeated and out-of-range indexes and sorts the rest.
func normalizePicks(picks []int, n int) []int {
	out := make([]int, 0, len(picks))
	for _, p := range picks {
		if p >= 0 && p < n {
			out = append(out, p)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// newToken returns a random 32 character hex token.
func newToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
