package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tieubaoca/cortex-be/config"
	"github.com/tieubaoca/cortex-be/types"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

var (
	DOCUMENT_CLASS        = "KnowledgeDocument"
	DOCUMENT_CLASS_OBJECT = &models.Class{
		Class: DOCUMENT_CLASS,
		Properties: []*models.Property{
			{Name: "ownerId", DataType: []string{"text"}},
			{Name: "rawContent", DataType: []string{"text"}},
			{Name: "source", DataType: []string{"text"}},
			{Name: "sourceType", DataType: []string{"text"}},
			{Name: "title", DataType: []string{"text"}},
			{Name: "createdAt", DataType: []string{"int"}},
		},
		// Embeddings are computed by the application, not the store.
		Vectorizer: "none",
	}

	SECTION_CLASS        = "KnowledgeSection"
	SECTION_CLASS_OBJECT = &models.Class{
		Class: SECTION_CLASS,
		Properties: []*models.Property{
			{Name: "documentId", DataType: []string{"text"}},
			{Name: "ownerId", DataType: []string{"text"}},
			{Name: "content", DataType: []string{"text"}},
			{Name: "chunkIndex", DataType: []string{"int"}},
			{Name: "source", DataType: []string{"text"}},
			{Name: "sourceType", DataType: []string{"text"}},
			{Name: "title", DataType: []string{"text"}},
			{Name: "createdAt", DataType: []string{"int"}},
		},
		Vectorizer:      "none",
		VectorIndexType: "hnsw",
	}
)

// WeaviateStore implements DocumentStore on top of a Weaviate instance with
// two classes: one for documents, one for their embedded sections.
type WeaviateStore struct {
	client *weaviate.Client
}

func NewWeaviateStore(cfg config.WeaviateStoreConfig) (*WeaviateStore, error) {
	var scheme string
	if strings.Contains(cfg.Host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host := strings.TrimPrefix(cfg.Host, scheme+"://")
	clientConfig := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if cfg.APIKey != "" {
		clientConfig.AuthConfig = auth.ApiKey{
			Value: cfg.APIKey,
		}
	}

	client, err := weaviate.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %v", err)
	}

	store := &WeaviateStore{client: client}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *WeaviateStore) ensureSchema(ctx context.Context) error {
	schema, err := s.client.Schema().Getter().Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to get schema: %v", err)
	}

	existing := make(map[string]bool)
	for _, class := range schema.Classes {
		existing[class.Class] = true
	}
	for _, class := range []*models.Class{DOCUMENT_CLASS_OBJECT, SECTION_CLASS_OBJECT} {
		if existing[class.Class] {
			continue
		}
		if err := s.client.Schema().ClassCreator().WithClass(class).Do(ctx); err != nil {
			return fmt.Errorf("failed to create %s class: %v", class.Class, err)
		}
	}
	return nil
}

// ReInit drops and recreates both classes. All stored documents are lost.
func (s *WeaviateStore) ReInit(ctx context.Context) error {
	for _, name := range []string{DOCUMENT_CLASS, SECTION_CLASS} {
		if err := s.client.Schema().ClassDeleter().WithClassName(name).Do(ctx); err != nil {
			return fmt.Errorf("failed to delete %s class: %v", name, err)
		}
	}
	return s.ensureSchema(ctx)
}

func (s *WeaviateStore) CreateDocument(ctx context.Context, doc *types.Document) (string, error) {
	id := uuid.NewString()
	properties := map[string]interface{}{
		"ownerId":    doc.OwnerID,
		"rawContent": doc.Content,
		"source":     doc.Metadata.Source,
		"sourceType": string(doc.Metadata.Type),
		"title":      doc.Metadata.Title,
		"createdAt":  time.Now().Unix(),
	}

	result, err := s.client.Data().Creator().
		WithClassName(DOCUMENT_CLASS).
		WithID(id).
		WithProperties(properties).
		Do(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrStoreWrite, err)
	}
	if result == nil || result.Object == nil || result.Object.ID == "" {
		return "", fmt.Errorf("%w: no document id returned", types.ErrStoreWrite)
	}
	return string(result.Object.ID), nil
}

func (s *WeaviateStore) AddSection(ctx context.Context, section *types.Section, embedding []float32) (string, error) {
	id := uuid.NewString()
	properties := map[string]interface{}{
		"documentId": section.DocumentID,
		"ownerId":    section.OwnerID,
		"content":    section.Content,
		"chunkIndex": section.ChunkIndex,
		"source":     section.Metadata.Source,
		"sourceType": string(section.Metadata.Type),
		"title":      section.Metadata.Title,
		"createdAt":  time.Now().Unix(),
	}

	result, err := s.client.Data().Creator().
		WithClassName(SECTION_CLASS).
		WithID(id).
		WithProperties(properties).
		WithVector(embedding).
		Do(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrStoreWrite, err)
	}
	if result == nil || result.Object == nil || result.Object.ID == "" {
		return "", fmt.Errorf("%w: no section id returned", types.ErrStoreWrite)
	}
	return string(result.Object.ID), nil
}

func (s *WeaviateStore) Search(ctx context.Context, ownerID string, queryEmbedding []float32, threshold float32, limit int) ([]types.SearchMatch, error) {
	fields := []graphql.Field{
		{Name: "content"},
		{Name: "source"},
		{Name: "sourceType"},
		{Name: "title"},
		{Name: "chunkIndex"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "certainty"}, {Name: "id"}}},
	}

	nearVector := s.client.GraphQL().NearVectorArgBuilder().
		WithVector(queryEmbedding).
		WithCertainty(threshold)

	// Owner scoping happens here, on every search. There is no unfiltered
	// query path.
	where := filters.Where().
		WithPath([]string{"ownerId"}).
		WithOperator(filters.Equal).
		WithValueString(ownerID)

	result, err := s.client.GraphQL().Get().
		WithClassName(SECTION_CLASS).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithWhere(where).
		WithLimit(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrRetrieval, err)
	}
	if len(result.Errors) > 0 {
		return nil, fmt.Errorf("%w: %v", types.ErrRetrieval, result.Errors[0].Message)
	}

	data := make(map[string]interface{}, len(result.Data))
	for k, v := range result.Data {
		data[k] = v
	}
	return parseSearchMatches(data), nil
}

// parseSearchMatches walks the GraphQL response shape defensively; a
// response missing any level yields no matches rather than a panic.
func parseSearchMatches(data map[string]interface{}) []types.SearchMatch {
	var matches []types.SearchMatch
	get, ok := data["Get"].(map[string]interface{})
	if !ok {
		return matches
	}
	items, ok := get[SECTION_CLASS].([]interface{})
	if !ok {
		return matches
	}
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		match := types.SearchMatch{
			Content: asString(obj["content"]),
			Metadata: types.DocumentMetadata{
				Source: asString(obj["source"]),
				Type:   types.SourceType(asString(obj["sourceType"])),
				Title:  asString(obj["title"]),
			},
		}
		if idx, ok := obj["chunkIndex"].(float64); ok {
			match.ChunkIndex = int(idx)
		}
		if additional, ok := obj["_additional"].(map[string]interface{}); ok {
			if certainty, ok := additional["certainty"].(float64); ok {
				match.Score = float32(certainty)
			}
		}
		matches = append(matches, match)
	}
	return matches
}

// DeleteDocument removes a document record and its sections. The document's
// stored ownerId must match the caller's; the sections are deleted through an
// owner-scoped filter.
func (s *WeaviateStore) DeleteDocument(ctx context.Context, ownerID, documentID string) error {
	objects, err := s.client.Data().ObjectsGetter().
		WithClassName(DOCUMENT_CLASS).
		WithID(documentID).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to load document: %v", err)
	}
	if len(objects) == 0 {
		return fmt.Errorf("document %s not found", documentID)
	}
	if documentOwner(objects[0].Properties) != ownerID {
		return fmt.Errorf("document %s does not belong to owner %s", documentID, ownerID)
	}

	sectionFilter := filters.Where().
		WithOperator(filters.And).
		WithOperands([]*filters.WhereBuilder{
			filters.Where().WithPath([]string{"documentId"}).WithOperator(filters.Equal).WithValueString(documentID),
			filters.Where().WithPath([]string{"ownerId"}).WithOperator(filters.Equal).WithValueString(ownerID),
		})

	_, err = s.client.Batch().ObjectsBatchDeleter().
		WithClassName(SECTION_CLASS).
		WithWhere(sectionFilter).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete sections: %v", err)
	}

	return s.client.Data().Deleter().
		WithClassName(DOCUMENT_CLASS).
		WithID(documentID).
		Do(ctx)
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func documentOwner(props interface{}) string {
	m, ok := props.(map[string]interface{})
	if !ok {
		return ""
	}
	return asString(m["ownerId"])
}
