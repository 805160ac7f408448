package localstore

import (
	"context"
	"fmt"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
)

// DocumentRepository keeps the document collection newest-first: creates
// prepend, listings preserve stored order.
type DocumentRepository struct {
	store *Store
}

func NewDocumentRepository(store *Store) *DocumentRepository {
	return &DocumentRepository{store: store}
}

func (r *DocumentRepository) List(_ context.Context, filter domain.DocumentFilter) ([]domain.Document, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var docs []domain.Document
	r.store.get(keyDocuments, &docs)

	out := make([]domain.Document, 0, len(docs))
	for _, doc := range docs {
		if filter.Category != "" && doc.Category != filter.Category {
			continue
		}
		if len(filter.Categories) > 0 && !categoryIn(filter.Categories, doc.Category) {
			continue
		}
		if len(filter.Tags) > 0 && !tagOverlap(doc.Tags, filter.Tags) {
			continue
		}
		out = append(out, doc)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (r *DocumentRepository) GetByID(_ context.Context, id string) (*domain.Document, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var docs []domain.Document
	r.store.get(keyDocuments, &docs)
	for _, doc := range docs {
		if doc.ID == id {
			found := doc
			return &found, nil
		}
	}
	return nil, domain.WrapError(domain.ErrNotFound, "get document", fmt.Errorf("id=%s", id))
}

func (r *DocumentRepository) GetByIDs(_ context.Context, ids []string) ([]domain.Document, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	var docs []domain.Document
	r.store.get(keyDocuments, &docs)

	out := make([]domain.Document, 0, len(ids))
	for _, doc := range docs {
		if _, ok := wanted[doc.ID]; ok {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (r *DocumentRepository) CreateWithActivity(_ context.Context, doc *domain.Document, activity *domain.Activity) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var docs []domain.Document
	r.store.get(keyDocuments, &docs)
	docs = append([]domain.Document{*doc}, docs...)
	if err := r.store.put(keyDocuments, docs); err != nil {
		return err
	}

	if activity == nil {
		return nil
	}
	var activities []domain.Activity
	r.store.get(keyActivities, &activities)
	activities = append([]domain.Activity{*activity}, activities...)
	return r.store.put(keyActivities, activities)
}

func (r *DocumentRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var docs []domain.Document
	r.store.get(keyDocuments, &docs)

	kept := docs[:0]
	removed := false
	for _, doc := range docs {
		if doc.ID == id {
			removed = true
			continue
		}
		kept = append(kept, doc)
	}
	if !removed {
		return domain.WrapError(domain.ErrNotFound, "delete document", fmt.Errorf("id=%s", id))
	}
	return r.store.put(keyDocuments, kept)
}

func categoryIn(categories []domain.DocumentCategory, category domain.DocumentCategory) bool {
	for _, c := range categories {
		if c == category {
			return true
		}
	}
	return false
}

func tagOverlap(docTags, wanted []string) bool {
	for _, w := range wanted {
		for _, t := range docTags {
			if t == w {
				return true
			}
		}
	}
	return false
}
