package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
	"github.com/fileclerk/fileclerkai/internal/core/ports"
)

// defaultUploadTags is applied when the caller supplies no tags.
var defaultUploadTags = []string{"uploaded", "new"}

type DocumentsUseCase struct {
	docs       ports.DocumentRepository
	activities ports.ActivityRepository
	storage    ports.ObjectStorage

	// relevance produces the stand-in search score in [0.7, 1.0).
	// Overridable in tests.
	relevance func() float64
}

func NewDocumentsUseCase(
	docs ports.DocumentRepository,
	activities ports.ActivityRepository,
	storage ports.ObjectStorage,
) *DocumentsUseCase {
	return &DocumentsUseCase{
		docs:       docs,
		activities: activities,
		storage:    storage,
		relevance:  func() float64 { return 0.7 + rand.Float64()*0.3 },
	}
}

func (uc *DocumentsUseCase) List(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, error) {
	docs, err := uc.docs.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

func (uc *DocumentsUseCase) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := uc.docs.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// Upload builds a document from the file descriptor. The raw bytes go to
// object storage untouched; auto-categorization pins the category to
// "general" rather than inspecting content.
func (uc *DocumentsUseCase) Upload(
	ctx context.Context,
	file domain.FileMeta,
	body io.Reader,
	category domain.DocumentCategory,
	tags []string,
	autoCategorize bool,
) (*domain.Document, error) {
	if strings.TrimSpace(file.Name) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload document", errors.New("filename is required"))
	}

	if autoCategorize || category == "" {
		category = domain.CategoryGeneral
	}
	if len(tags) == 0 {
		tags = append([]string(nil), defaultUploadTags...)
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(file.Name))

	if body != nil {
		if err := uc.storage.Save(ctx, storageKey, body); err != nil {
			return nil, fmt.Errorf("save to object storage: %w", err)
		}
	}

	doc := &domain.Document{
		ID:               id,
		Filename:         sanitizeFilename(file.Name),
		OriginalFilename: file.Name,
		StoragePath:      storageKey,
		FileSize:         file.Size,
		FileType:         fileExtension(file.Name),
		MimeType:         file.MimeType,
		Category:         category,
		Status:           domain.StatusUploaded,
		Tags:             tags,
		CreatedAt:        now,
		UpdatedAt:        now,
		ExtractedText:    fmt.Sprintf("Mock extracted text from %s", file.Name),
		ContentSummary:   fmt.Sprintf("Auto-generated summary for %s", file.Name),
	}

	activity := &domain.Activity{
		ID:           uuid.NewString(),
		Action:       "Document Uploaded",
		Description:  fmt.Sprintf("Uploaded document: %s", file.Name),
		ActivityType: domain.ActivityUpload,
		Actor:        domain.ActorUser,
		Files:        []string{file.Name},
		CreatedAt:    now,
		Metadata:     map[string]any{"file_size": file.Size},
	}

	// Document and activity land in one store commit.
	if err := uc.docs.CreateWithActivity(ctx, doc, activity); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return doc, nil
}

// Search runs substring matching over filename, summary and tags, then
// narrows by category and tag inclusion. Scores are bounded-random
// placeholders, not a ranking.
func (uc *DocumentsUseCase) Search(ctx context.Context, query string, filter domain.DocumentFilter) ([]domain.SearchResult, error) {
	docs, err := uc.docs.List(ctx, domain.DocumentFilter{})
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}

	needle := strings.ToLower(query)
	results := make([]domain.SearchResult, 0, limit)
	for _, doc := range docs {
		if needle != "" && !matchesQuery(doc, needle) {
			continue
		}
		if len(filter.Categories) > 0 && !containsCategory(filter.Categories, doc.Category) {
			continue
		}
		if len(filter.Tags) > 0 && !anyTagOverlap(doc.Tags, filter.Tags) {
			continue
		}
		results = append(results, domain.SearchResult{
			Document:        doc,
			RelevanceScore:  uc.relevance(),
			MatchingContent: doc.ContentSummary,
		})
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

func (uc *DocumentsUseCase) Delete(ctx context.Context, id string) error {
	doc, err := uc.docs.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get document: %w", err)
	}
	if err := uc.docs.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	activity := &domain.Activity{
		ID:           uuid.NewString(),
		Action:       "Document Deleted",
		Description:  fmt.Sprintf("Deleted document: %s", doc.OriginalFilename),
		ActivityType: domain.ActivityDelete,
		Actor:        domain.ActorUser,
		Files:        []string{doc.OriginalFilename},
		CreatedAt:    time.Now().UTC(),
		Metadata:     map[string]any{"document_id": doc.ID},
	}
	if err := uc.activities.Append(ctx, activity); err != nil {
		return fmt.Errorf("log delete activity: %w", err)
	}
	return nil
}

// Open streams stored document bytes for download.
func (uc *DocumentsUseCase) Open(ctx context.Context, id string) (*domain.Document, io.ReadCloser, error) {
	doc, err := uc.docs.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("get document: %w", err)
	}
	rc, err := uc.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return nil, nil, domain.WrapError(domain.ErrNotFound, "open document file", err)
	}
	return doc, rc, nil
}

func matchesQuery(doc domain.Document, needle string) bool {
	if strings.Contains(strings.ToLower(doc.OriginalFilename), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(doc.ContentSummary), needle) {
		return true
	}
	for _, tag := range doc.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func containsCategory(categories []domain.DocumentCategory, category domain.DocumentCategory) bool {
	for _, c := range categories {
		if c == category {
			return true
		}
	}
	return false
}

func anyTagOverlap(docTags, wanted []string) bool {
	for _, w := range wanted {
		w = strings.TrimSpace(w)
		for _, t := range docTags {
			if t == w {
				return true
			}
		}
	}
	return false
}

func sanitizeFilename(name string) string {
	base := strings.ToLower(filepath.Base(name))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.':
			return r
		default:
			return '_'
		}
	}, base)
}

func fileExtension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}
