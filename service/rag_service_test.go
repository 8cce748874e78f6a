package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/cortex-be/types"
)

// fakeEmbedder produces deterministic bag-of-words vectors so that related
// texts end up with a high cosine similarity.
type fakeEmbedder struct {
	queryErr     error
	docErr       error
	docFailAfter int // fail document embeds after this many successes; 0 means never fail
	docCalls     int
	docTitles    []string
}

var embedVocabulary = []string{"neptune", "ocean", "submarine", "mars", "rover", "crater"}

func bagOfWords(text string) []float32 {
	vec := make([]float32, len(embedVocabulary)+1)
	vec[len(embedVocabulary)] = 0.1 // keeps vectors away from zero
	lower := strings.ToLower(text)
	for i, word := range embedVocabulary {
		vec[i] = float32(strings.Count(lower, word))
	}
	return vec
}

func (f *fakeEmbedder) EmbedDocument(_ context.Context, text, title string) ([]float32, error) {
	f.docCalls++
	if f.docErr != nil && (f.docFailAfter == 0 || f.docCalls > f.docFailAfter) {
		return nil, f.docErr
	}
	f.docTitles = append(f.docTitles, title)
	return bagOfWords(text), nil
}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return bagOfWords(text), nil
}

type storedSection struct {
	section types.Section
	vector  []float32
}

// fakeStore keeps everything in memory and answers searches with a cosine
// similarity scan scoped to the owner.
type fakeStore struct {
	createErr     error
	addErr        error
	addFailAfter  int
	searchErr     error
	docs          map[string]types.Document
	sections      []storedSection
	searchedOwner string
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[string]types.Document)}
}

func (s *fakeStore) CreateDocument(_ context.Context, doc *types.Document) (string, error) {
	if s.createErr != nil {
		return "", s.createErr
	}
	id := "doc-" + doc.Metadata.Source
	stored := *doc
	stored.ID = id
	s.docs[id] = stored
	return id, nil
}

func (s *fakeStore) AddSection(_ context.Context, section *types.Section, embedding []float32) (string, error) {
	if s.addErr != nil && (s.addFailAfter == 0 || len(s.sections) >= s.addFailAfter) {
		return "", s.addErr
	}
	stored := *section
	stored.ID = "sec"
	s.sections = append(s.sections, storedSection{section: stored, vector: embedding})
	return stored.ID, nil
}

func (s *fakeStore) Search(_ context.Context, ownerID string, queryEmbedding []float32, threshold float32, limit int) ([]types.SearchMatch, error) {
	s.searchedOwner = ownerID
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	var matches []types.SearchMatch
	for _, stored := range s.sections {
		if stored.section.OwnerID != ownerID {
			continue
		}
		score := cosine(queryEmbedding, stored.vector)
		if score < threshold {
			continue
		}
		matches = append(matches, types.SearchMatch{
			Content:    stored.section.Content,
			Metadata:   stored.section.Metadata,
			ChunkIndex: stored.section.ChunkIndex,
			Score:      score,
		})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (s *fakeStore) DeleteDocument(_ context.Context, ownerID, documentID string) error {
	delete(s.docs, documentID)
	return nil
}

func cosine(a, b []float32) float32 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}

const notAvailableText = "I don't have that information in my knowledge base."

// fakeAI records the prompts it was given. When echoContext is set it
// behaves like a model following the system instruction: it repeats the
// context when there is one and refuses otherwise.
type fakeAI struct {
	response    string
	err         error
	echoContext bool
	lastSystem  string
	lastUser    string
	calls       int
}

func (f *fakeAI) Generate(_ context.Context, systemPrompt, userMessage string) (string, error) {
	f.calls++
	f.lastSystem = systemPrompt
	f.lastUser = userMessage
	if f.err != nil {
		return "", f.err
	}
	if f.echoContext {
		if !strings.Contains(systemPrompt, "Source:") {
			return notAvailableText, nil
		}
		return "According to your documents: " + systemPrompt, nil
	}
	return f.response, nil
}

func newTestService(embedder *fakeEmbedder, store *fakeStore, ai *fakeAI) RAGService {
	return NewRAGService(NewDefaultChunker(), embedder, store, ai)
}

func TestChatReturnsResponseAndSources(t *testing.T) {
	store := newFakeStore()
	store.sections = []storedSection{
		{
			section: types.Section{
				OwnerID: "u1",
				Content: "Project Neptune explores ocean worlds with a submarine drone.",
				Metadata: types.DocumentMetadata{
					Source: "neptune.txt",
					Type:   types.SourceTypeDocument,
				},
			},
			vector: bagOfWords("neptune ocean submarine"),
		},
		{
			section: types.Section{
				OwnerID: "u1",
				Content: "The Neptune submarine dives below the ice crust.",
				Metadata: types.DocumentMetadata{
					Source: "neptune.txt",
					Type:   types.SourceTypeDocument,
				},
			},
			vector: bagOfWords("neptune submarine"),
		},
	}
	ai := &fakeAI{response: "Neptune is an ocean exploration project."}
	svc := newTestService(&fakeEmbedder{}, store, ai)

	result, err := svc.Chat(context.Background(), "u1", "What is Project Neptune?")
	require.NoError(t, err)
	assert.Equal(t, "Neptune is an ocean exploration project.", result.Response)
	// Both matches share one source; it appears exactly once.
	assert.Equal(t, []string{"neptune.txt"}, result.Sources)

	assert.Contains(t, ai.lastSystem, "Source: neptune.txt")
	assert.Contains(t, ai.lastSystem, "Project Neptune explores ocean worlds")
	assert.Equal(t, "What is Project Neptune?", ai.lastUser)
}

func TestChatEmptyRetrievalStillResponds(t *testing.T) {
	ai := &fakeAI{echoContext: true}
	svc := newTestService(&fakeEmbedder{}, newFakeStore(), ai)

	result, err := svc.Chat(context.Background(), "u1", "What is Project Neptune?")
	require.NoError(t, err)
	assert.Equal(t, notAvailableText, result.Response)
	assert.Empty(t, result.Sources)
	assert.NotNil(t, result.Sources)
}

func TestChatRetrievalFailureDegradesToEmptyContext(t *testing.T) {
	store := newFakeStore()
	store.searchErr = types.ErrRetrieval
	ai := &fakeAI{echoContext: true}
	svc := newTestService(&fakeEmbedder{}, store, ai)

	result, err := svc.Chat(context.Background(), "u1", "anything")
	require.NoError(t, err)
	assert.Equal(t, notAvailableText, result.Response)
	assert.Empty(t, result.Sources)
	assert.Equal(t, 1, ai.calls)
}

func TestChatQueryEmbeddingFailureIsFatal(t *testing.T) {
	embedder := &fakeEmbedder{queryErr: types.ErrEmbeddingBackend}
	ai := &fakeAI{}
	svc := newTestService(embedder, newFakeStore(), ai)

	_, err := svc.Chat(context.Background(), "u1", "anything")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrEmbeddingBackend)
	assert.Zero(t, ai.calls)
}

func TestChatGenerationFailureIsFatal(t *testing.T) {
	ai := &fakeAI{err: types.ErrGenerationBackend}
	svc := newTestService(&fakeEmbedder{}, newFakeStore(), ai)

	_, err := svc.Chat(context.Background(), "u1", "anything")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrGenerationBackend)
}

func TestIngestRejectsEmptyContent(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(&fakeEmbedder{}, store, &fakeAI{})

	for _, content := range []string{"", "   \n\t  "} {
		_, err := svc.IngestDocument(context.Background(), "u1", "empty.txt", content)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrEmptyContent)
	}
	assert.Empty(t, store.docs)
	assert.Empty(t, store.sections)
}

func TestIngestDocumentCreateFailureWritesNoSections(t *testing.T) {
	store := newFakeStore()
	store.createErr = types.ErrStoreWrite
	svc := newTestService(&fakeEmbedder{}, store, &fakeAI{})

	_, err := svc.IngestDocument(context.Background(), "u1", "a.txt", "some content")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrStoreWrite)
	assert.Empty(t, store.sections)
}

func TestIngestDocumentChunksInOrder(t *testing.T) {
	store := newFakeStore()
	embedder := &fakeEmbedder{}
	svc := newTestService(embedder, store, &fakeAI{})

	// 2500 chars with 1000/200 defaults -> 4 chunks at 0, 800, 1600, 2400.
	content := strings.Repeat("x", 2500)
	result, err := svc.IngestDocument(context.Background(), "u1", "big.txt", content)
	require.NoError(t, err)
	assert.Equal(t, 4, result.ChunksProcessed)

	require.Len(t, store.sections, 4)
	for i, stored := range store.sections {
		assert.Equal(t, i, stored.section.ChunkIndex)
		assert.Equal(t, "u1", stored.section.OwnerID)
		assert.Equal(t, "doc-big.txt", stored.section.DocumentID)
		assert.Equal(t, "big.txt", stored.section.Metadata.Source)
		assert.Equal(t, types.SourceTypeDocument, stored.section.Metadata.Type)
	}
	// The filename rides along as the embedding title hint.
	assert.Equal(t, []string{"big.txt", "big.txt", "big.txt", "big.txt"}, embedder.docTitles)
}

func TestIngestURLMetadata(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(&fakeEmbedder{}, store, &fakeAI{})

	_, err := svc.IngestURL(context.Background(), "u1", "https://example.com/a", "Example Page", "page text")
	require.NoError(t, err)
	require.Len(t, store.sections, 1)
	meta := store.sections[0].section.Metadata
	assert.Equal(t, "https://example.com/a", meta.Source)
	assert.Equal(t, types.SourceTypeURL, meta.Type)
	assert.Equal(t, "Example Page", meta.Title)
}

func TestIngestPartialFailureKeepsWrittenChunks(t *testing.T) {
	store := newFakeStore()
	// 3400 chars -> 5 chunks at 0, 800, 1600, 2400, 3200. Embedding fails
	// on the fourth chunk; the first three stay written.
	embedder := &fakeEmbedder{docErr: types.ErrEmbeddingBackend, docFailAfter: 3}
	svc := newTestService(embedder, store, &fakeAI{})

	result, err := svc.IngestDocument(context.Background(), "u1", "partial.txt", strings.Repeat("y", 3400))
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrEmbeddingBackend)
	require.NotNil(t, result)
	assert.Equal(t, 3, result.ChunksProcessed)
	assert.Len(t, store.sections, 3)
}

func TestIngestSectionWriteFailureAborts(t *testing.T) {
	store := newFakeStore()
	store.addErr = types.ErrStoreWrite
	store.addFailAfter = 2
	svc := newTestService(&fakeEmbedder{}, store, &fakeAI{})

	result, err := svc.IngestDocument(context.Background(), "u1", "w.txt", strings.Repeat("z", 2500))
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrStoreWrite)
	assert.Equal(t, 2, result.ChunksProcessed)
	assert.Len(t, store.sections, 2)
}

func TestChatScopesSearchToOwner(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(&fakeEmbedder{}, store, &fakeAI{response: "ok"})

	_, err := svc.Chat(context.Background(), "tenant-42", "hello")
	require.NoError(t, err)
	assert.Equal(t, "tenant-42", store.searchedOwner)
}

func TestIngestThenChatIsTenantIsolated(t *testing.T) {
	store := newFakeStore()
	embedder := &fakeEmbedder{}
	ai := &fakeAI{echoContext: true}
	svc := newTestService(embedder, store, ai)

	content := "Project Neptune studies ocean worlds. The submarine drone dives deep. Neptune reports ship monthly."
	_, err := svc.IngestDocument(context.Background(), "u1", "neptune.txt", content)
	require.NoError(t, err)

	// Owner sees their document.
	result, err := svc.Chat(context.Background(), "u1", "Tell me about the Neptune submarine")
	require.NoError(t, err)
	assert.Contains(t, result.Sources, "neptune.txt")
	assert.Contains(t, result.Response, "ocean worlds")

	// A different user asking the same question gets nothing.
	result, err = svc.Chat(context.Background(), "u2", "Tell me about the Neptune submarine")
	require.NoError(t, err)
	assert.Empty(t, result.Sources)
	assert.Equal(t, notAvailableText, result.Response)
}

func TestAssembleContextOrderAndDedup(t *testing.T) {
	matches := []types.SearchMatch{
		{Content: "first", Metadata: types.DocumentMetadata{Source: "a.txt"}},
		{Content: "second", Metadata: types.DocumentMetadata{Source: "b.txt"}},
		{Content: "third", Metadata: types.DocumentMetadata{Source: "a.txt"}},
		{Content: "fourth", Metadata: types.DocumentMetadata{}},
	}

	block, sources := assembleContext(matches)
	assert.Equal(t, []string{"a.txt", "b.txt", "Unknown"}, sources)

	// Chunks stay in retrieval order inside the block.
	assert.Less(t, strings.Index(block, "first"), strings.Index(block, "second"))
	assert.Less(t, strings.Index(block, "second"), strings.Index(block, "third"))
	assert.Contains(t, block, "---\nSource: a.txt\nContent: first\n")
}

func TestAssembleContextEmpty(t *testing.T) {
	block, sources := assembleContext(nil)
	assert.Empty(t, block)
	assert.Empty(t, sources)
}

func TestChatWrappedErrorsAreMatchable(t *testing.T) {
	wrapped := errors.New("transport: connection refused")
	embedder := &fakeEmbedder{queryErr: errors.Join(types.ErrEmbeddingBackend, wrapped)}
	svc := newTestService(embedder, newFakeStore(), &fakeAI{})

	_, err := svc.Chat(context.Background(), "u1", "q")
	assert.ErrorIs(t, err, types.ErrEmbeddingBackend)
}
