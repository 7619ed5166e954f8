package sqlstore_test

import (
	"context"
	"testing"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteStore(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	docID := f.addDocument(t, "Chemistry")
	first, err := domain.NewNote("Loose", "Q: 2+2?\nA: 4", nil)
	require.NoError(t, err)
	require.NoError(t, f.notes.Create(ctx, first))
	second, err := domain.NewNote("Attached", "Term: definition", &docID)
	require.NoError(t, err)
	require.NoError(t, f.notes.Create(ctx, second))

	got, err := f.notes.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "Attached", got.Title)
	assert.Equal(t, "Term: definition", got.Body)
	require.NotNil(t, got.DocumentID)
	assert.Equal(t, docID, *got.DocumentID)

	_, err = f.notes.GetByID(ctx, 999)
	assert.ErrorIs(t, err, store.ErrNoteNotFound)

	all, err := f.notes.List(ctx, nil, 500)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	scoped, err := f.notes.List(ctx, &docID, 500)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, second.ID, scoped[0].ID)

	limited, err := f.notes.List(ctx, nil, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestDocumentStore(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	doc, err := domain.NewDocument("Physics", "physics.pdf", "F = m a", 12)
	require.NoError(t, err)
	require.NoError(t, f.documents.Create(ctx, doc))
	assert.NotZero(t, doc.ID)

	got, err := f.documents.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Physics", got.Title)
	assert.Equal(t, "physics.pdf", got.OriginalName)
	assert.Equal(t, "F = m a", got.SearchText)
	assert.Equal(t, 12, got.Pages)
	assert.Equal(t, "auto", got.Language)
	assert.Equal(t, "pdf", got.DocType)

	_, err = f.documents.GetByID(ctx, doc.ID+1)
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)

	other := f.addDocument(t, "Maths")
	docs, err := f.documents.List(ctx, 8)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, other, docs[0].ID)
}

func TestSettingsStore(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.settings.Get(ctx, "theme")
	assert.ErrorIs(t, err, store.ErrSettingNotFound)

	require.NoError(t, f.settings.SetDefault(ctx, "theme", "dark"))
	require.NoError(t, f.settings.SetDefault(ctx, "theme", "light"))
	value, err := f.settings.Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", value, "SetDefault must not overwrite")

	require.NoError(t, f.settings.Set(ctx, "theme", "light"))
	require.NoError(t, f.settings.Set(ctx, "ui_lang", "en"))

	all, err := f.settings.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"theme": "light", "ui_lang": "en"}, all)

	assert.ErrorIs(t, f.settings.Set(ctx, "", "x"), domain.ErrEmptySettingKey)
}
