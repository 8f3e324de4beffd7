package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pustakalab/pustaka-be/config"
	"github.com/pustakalab/pustaka-be/database"
	"github.com/pustakalab/pustaka-be/repository"
	"github.com/pustakalab/pustaka-be/service/mock"
	"github.com/pustakalab/pustaka-be/types"
)

type searchFixture struct {
	embedder *mock.Embedder
	store    *repository.MemoryDocumentStore
	index    *database.MemoryIndex
	ingester *IngestService
	search   *SearchService
}

func newSearchFixture(t *testing.T) *searchFixture {
	t.Helper()
	chunker, err := NewChunkerService(config.ChunkerConfig{
		TargetSize: 400,
		Overlap:    0,
		Themes:     config.DefaultThemes(),
	})
	require.NoError(t, err)

	f := &searchFixture{
		embedder: mock.NewEmbedder(8),
		store:    repository.NewMemoryDocumentStore(),
		index:    database.NewMemoryIndex(),
	}
	f.ingester = NewIngestService(chunker, f.embedder, f.store, f.index, testLogger(), IngestOptions{
		MinLength:   20,
		MaxAttempts: 1,
		BaseDelay:   time.Millisecond,
	})
	f.search = NewSearchService(f.embedder, f.index, f.store, testLogger())
	return f
}

func (f *searchFixture) ingest(t *testing.T, title string, sourceType types.SourceType, content string) *types.Document {
	t.Helper()
	doc, err := f.ingester.Ingest(context.Background(), &types.IngestRequest{
		Title:      title,
		Content:    content,
		SourceType: sourceType,
	})
	require.NoError(t, err)
	return doc
}

func TestSearchValidation(t *testing.T) {
	f := newSearchFixture(t)
	ctx := context.Background()

	_, err := f.search.Search(ctx, &types.SearchRequest{Query: "  ", Limit: 5})
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	_, err = f.search.Search(ctx, &types.SearchRequest{Query: "q", Limit: 0})
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	_, err = f.search.Search(ctx, &types.SearchRequest{Query: "q", Limit: -3})
	assert.ErrorIs(t, err, types.ErrInvalidInput)

	_, err = f.search.Search(ctx, &types.SearchRequest{
		Query: "q", Limit: 5,
		Filters: types.SearchFilters{SourceType: "wiki"},
	})
	assert.ErrorIs(t, err, types.ErrInvalidSourceType)

	_, err = f.search.Search(ctx, &types.SearchRequest{
		Query: "q", Limit: 5,
		Filters: types.SearchFilters{AuthorityLevel: "supreme"},
	})
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestSearchEmptyIndexReturnsEmptyResults(t *testing.T) {
	f := newSearchFixture(t)

	resp, err := f.search.Search(context.Background(), &types.SearchRequest{Query: "anything", Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
}

func TestSearchReturnsProvenance(t *testing.T) {
	f := newSearchFixture(t)
	ctx := context.Background()
	doc := f.ingest(t, "Kampung Digital", types.SourceCommunity,
		"Arsip komunitas menyimpan cerita kampung. Relawan merawat katalog bersama warga setempat setiap pekan.")

	resp, err := f.search.Search(ctx, &types.SearchRequest{Query: "cerita kampung", Limit: 3})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)

	hit := resp.Results[0]
	assert.Equal(t, doc.ID, hit.Provenance.DocumentID)
	assert.Equal(t, "Kampung Digital", hit.Provenance.Title)
	assert.Equal(t, types.SourceCommunity, hit.Provenance.SourceType)
	assert.Equal(t, types.AuthoritySituated, hit.Provenance.Epistemic.AuthorityLevel)
	assert.Equal(t, types.OriginCommunityArchive, hit.Provenance.Epistemic.EpistemicOrigin)
	assert.Equal(t, "mock-fnv-v1", hit.Provenance.EmbeddingModel)
	assert.NotEmpty(t, hit.Chunk.Text)
}

func TestSearchFiltersRestrictPopulation(t *testing.T) {
	f := newSearchFixture(t)
	ctx := context.Background()

	f.ingest(t, "Community Notes", types.SourceCommunity,
		"Warga mendokumentasikan upacara adat secara mandiri di balai desa setiap musim panen tiba.")
	f.ingest(t, "Journal Article", types.SourceAcademic,
		"The peer reviewed study examines language shift across three generations of speakers in the region.")
	f.ingest(t, "News Report", types.SourceMedia,
		"Koran lokal memberitakan pembukaan arsip kota yang baru direnovasi oleh pemerintah daerah kemarin.")

	resp, err := f.search.Search(ctx, &types.SearchRequest{
		Query: "arsip", Limit: 10,
		Filters: types.SearchFilters{SourceType: types.SourceAcademic},
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)
	for _, hit := range resp.Results {
		assert.Equal(t, types.SourceAcademic, hit.Provenance.SourceType)
	}

	resp, err = f.search.Search(ctx, &types.SearchRequest{
		Query: "arsip", Limit: 10,
		Filters: types.SearchFilters{AuthorityLevel: types.AuthorityMedia},
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)
	for _, hit := range resp.Results {
		assert.Equal(t, types.AuthorityMedia, hit.Provenance.Epistemic.AuthorityLevel)
	}

	// A filter matching nothing yields an empty result, not an error.
	resp, err = f.search.Search(ctx, &types.SearchRequest{
		Query: "arsip", Limit: 10,
		Filters: types.SearchFilters{SourceType: types.SourceArchival},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
}

func TestSearchSkipsUnreadyDocuments(t *testing.T) {
	f := newSearchFixture(t)
	ctx := context.Background()
	doc := f.ingest(t, "Visible Then Hidden", types.SourceCommunity,
		"Dokumen ini awalnya bisa dicari lalu disembunyikan untuk menguji konsistensi indeks dan metadata.")

	// Force the document back to unready, simulating a half-finished
	// ingestion whose index write landed but whose ready flip did not.
	stored, err := f.store.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	stored.Ready = false
	chunks, err := f.store.GetChunks(ctx, doc.ID)
	require.NoError(t, err)
	require.NoError(t, f.store.DeleteDocument(ctx, doc.ID))
	require.NoError(t, f.store.CreateDocument(ctx, stored, chunks))

	resp, err := f.search.Search(ctx, &types.SearchRequest{Query: "dokumen indeks", Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
}

func TestSearchLimitBoundsResults(t *testing.T) {
	f := newSearchFixture(t)
	ctx := context.Background()

	f.ingest(t, "One", types.SourceGeneral,
		"Paragraf pertama membahas katalog. Paragraf kedua membahas indeks. Paragraf ketiga membahas arsip digital bersama.")
	f.ingest(t, "Two", types.SourceGeneral,
		"Catatan lain tentang koleksi buku langka dan upaya digitalisasi naskah kuno di perpustakaan daerah.")

	resp, err := f.search.Search(ctx, &types.SearchRequest{Query: "arsip", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, resp.Results, 1)
}
