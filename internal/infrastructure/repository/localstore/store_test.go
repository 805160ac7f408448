package localstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return store
}

func TestOpenSeedsDemoCollections(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	docs, err := NewDocumentRepository(store).List(ctx, domain.DocumentFilter{})
	if err != nil {
		t.Fatalf("list documents: %v", err)
	}
	if len(docs) != 5 {
		t.Fatalf("expected 5 seeded documents, got %d", len(docs))
	}
	if docs[0].ID != "doc-acme-contract-q4" {
		t.Errorf("unexpected first document %q", docs[0].ID)
	}

	activities, err := NewActivityRepository(store).List(ctx, 0, "")
	if err != nil {
		t.Fatalf("list activities: %v", err)
	}
	if len(activities) != 5 {
		t.Errorf("expected 5 seeded activities, got %d", len(activities))
	}

	memories, err := NewMemoryRepository(store).List(ctx, domain.MemoryFilter{})
	if err != nil {
		t.Fatalf("list memories: %v", err)
	}
	if len(memories) != 5 {
		t.Errorf("expected 5 seeded memories, got %d", len(memories))
	}

	tasks, err := NewTaskRepository(store).List(ctx, 0, "")
	if err != nil {
		t.Fatalf("list tasks: %v", err)
	}
	if len(tasks) != 4 {
		t.Errorf("expected 4 seeded tasks, got %d", len(tasks))
	}

	user, err := NewUserRepository(store).GetUser(ctx)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.Username != "demo_user" {
		t.Errorf("unexpected seeded username %q", user.Username)
	}
}

func TestReopenKeepsEdits(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(dir)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	repo := NewDocumentRepository(store)
	if err := repo.Delete(ctx, "doc-acme-contract-q4"); err != nil {
		t.Fatalf("delete document: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	docs, err := NewDocumentRepository(reopened).List(ctx, domain.DocumentFilter{})
	if err != nil {
		t.Fatalf("list documents: %v", err)
	}
	if len(docs) != 4 {
		t.Fatalf("expected reseed to skip existing collection, got %d documents", len(docs))
	}
	for _, doc := range docs {
		if doc.ID == "doc-acme-contract-q4" {
			t.Fatal("deleted document came back after reopen")
		}
	}
}

func TestGetFallsBackOnCorruptKey(t *testing.T) {
	store := openStore(t)

	if err := os.WriteFile(filepath.Join(store.dir, keyMemories+".json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt key: %v", err)
	}

	memories, err := NewMemoryRepository(store).List(context.Background(), domain.MemoryFilter{})
	if err != nil {
		t.Fatalf("list memories: %v", err)
	}
	if len(memories) != 0 {
		t.Errorf("expected empty fallback for corrupt key, got %d memories", len(memories))
	}
}

func TestDocumentListFilters(t *testing.T) {
	store := openStore(t)
	repo := NewDocumentRepository(store)
	ctx := context.Background()

	byCategory, err := repo.List(ctx, domain.DocumentFilter{Category: domain.CategoryCompliance})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(byCategory) != 2 {
		t.Errorf("expected 2 compliance documents, got %d", len(byCategory))
	}

	byCategories, err := repo.List(ctx, domain.DocumentFilter{
		Categories: []domain.DocumentCategory{domain.CategoryContracts, domain.CategoryInvoices},
	})
	if err != nil {
		t.Fatalf("list by categories: %v", err)
	}
	if len(byCategories) != 2 {
		t.Errorf("expected 2 contract/invoice documents, got %d", len(byCategories))
	}

	byTag, err := repo.List(ctx, domain.DocumentFilter{Tags: []string{"urgent"}})
	if err != nil {
		t.Fatalf("list by tag: %v", err)
	}
	if len(byTag) != 2 {
		t.Errorf("expected 2 urgent-tagged documents, got %d", len(byTag))
	}

	limited, err := repo.List(ctx, domain.DocumentFilter{Limit: 3})
	if err != nil {
		t.Fatalf("list with limit: %v", err)
	}
	if len(limited) != 3 {
		t.Errorf("expected limit of 3, got %d", len(limited))
	}
}

func TestDocumentCreateWithActivityPrepends(t *testing.T) {
	store := openStore(t)
	repo := NewDocumentRepository(store)
	ctx := context.Background()

	doc := &domain.Document{
		ID:       "doc-new",
		Filename: "new.pdf",
		Category: domain.CategoryGeneral,
		Status:   domain.StatusUploaded,
		Tags:     []string{"uploaded", "new"},
	}
	activity := &domain.Activity{
		ID:           "act-new",
		Action:       "Document Upload",
		ActivityType: domain.ActivityUpload,
		Actor:        domain.ActorUser,
	}
	if err := repo.CreateWithActivity(ctx, doc, activity); err != nil {
		t.Fatalf("create with activity: %v", err)
	}

	docs, err := repo.List(ctx, domain.DocumentFilter{})
	if err != nil {
		t.Fatalf("list documents: %v", err)
	}
	if docs[0].ID != "doc-new" {
		t.Errorf("expected new document first, got %q", docs[0].ID)
	}

	activities, err := NewActivityRepository(store).List(ctx, 1, "")
	if err != nil {
		t.Fatalf("list activities: %v", err)
	}
	if len(activities) != 1 || activities[0].ID != "act-new" {
		t.Errorf("expected upload activity first, got %+v", activities)
	}
}

func TestDocumentGetByIDsPreservesStoredOrder(t *testing.T) {
	store := openStore(t)
	repo := NewDocumentRepository(store)

	docs, err := repo.GetByIDs(context.Background(), []string{
		"doc-compliance-report-q4",
		"doc-acme-contract-q4",
		"doc-missing",
	})
	if err != nil {
		t.Fatalf("get by ids: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(docs))
	}
	if docs[0].ID != "doc-acme-contract-q4" || docs[1].ID != "doc-compliance-report-q4" {
		t.Errorf("unexpected order: %q, %q", docs[0].ID, docs[1].ID)
	}
}

func TestDocumentNotFound(t *testing.T) {
	store := openStore(t)
	repo := NewDocumentRepository(store)
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, "doc-missing"); !domain.IsKind(err, domain.ErrNotFound) {
		t.Errorf("expected not-found kind, got %v", err)
	}
	if err := repo.Delete(ctx, "doc-missing"); !domain.IsKind(err, domain.ErrNotFound) {
		t.Errorf("expected not-found kind, got %v", err)
	}
}

func TestActivityListFiltersByType(t *testing.T) {
	store := openStore(t)
	repo := NewActivityRepository(store)

	uploads, err := repo.List(context.Background(), 0, domain.ActivityUpload)
	if err != nil {
		t.Fatalf("list uploads: %v", err)
	}
	if len(uploads) != 1 || uploads[0].ID != "act-upload-acme-contract" {
		t.Errorf("unexpected upload activities: %+v", uploads)
	}
}

func TestActivityListSince(t *testing.T) {
	store := openStore(t)
	repo := NewActivityRepository(store)
	ctx := context.Background()

	recent := &domain.Activity{
		ID:           "act-recent",
		Action:       "Voice Command",
		ActivityType: domain.ActivityVoiceCommand,
		Actor:        domain.ActorUser,
		CreatedAt:    time.Now(),
	}
	if err := repo.Append(ctx, recent); err != nil {
		t.Fatalf("append activity: %v", err)
	}

	since, err := repo.ListSince(ctx, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(since) != 1 || since[0].ID != "act-recent" {
		t.Errorf("expected only the fresh activity, got %+v", since)
	}
}

func TestMemoryCRUD(t *testing.T) {
	store := openStore(t)
	repo := NewMemoryRepository(store)
	ctx := context.Background()

	memory := &domain.Memory{
		ID:         "mem-new",
		Title:      "Renewal reminder",
		Content:    "Check the ACME renewal clause in March.",
		MemoryType: domain.MemoryRoutine,
		Tags:       []string{"renewal"},
	}
	if err := repo.Create(ctx, memory); err != nil {
		t.Fatalf("create memory: %v", err)
	}

	got, err := repo.GetByID(ctx, "mem-new")
	if err != nil {
		t.Fatalf("get memory: %v", err)
	}
	got.Starred = true
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("update memory: %v", err)
	}

	starred := true
	listed, err := repo.List(ctx, domain.MemoryFilter{Starred: &starred})
	if err != nil {
		t.Fatalf("list starred: %v", err)
	}
	found := false
	for _, m := range listed {
		if m.ID == "mem-new" {
			found = true
		}
	}
	if !found {
		t.Error("starred update not visible in listing")
	}

	if err := repo.Delete(ctx, "mem-new"); err != nil {
		t.Fatalf("delete memory: %v", err)
	}
	if _, err := repo.GetByID(ctx, "mem-new"); !domain.IsKind(err, domain.ErrNotFound) {
		t.Errorf("expected not-found after delete, got %v", err)
	}
}

func TestMemorySearchMatchesTitleContentTags(t *testing.T) {
	store := openStore(t)
	repo := NewMemoryRepository(store)
	ctx := context.Background()

	byTag, err := repo.Search(ctx, "gdpr", 0)
	if err != nil {
		t.Fatalf("search memories: %v", err)
	}
	for _, m := range byTag {
		hit := false
		for _, tag := range m.Tags {
			if tag == "gdpr" {
				hit = true
			}
		}
		if !hit && m.ID != "mem-compliance-review" {
			t.Errorf("unexpected match %q", m.ID)
		}
	}

	byTitle, err := repo.Search(ctx, "onboarding", 1)
	if err != nil {
		t.Fatalf("search memories: %v", err)
	}
	if len(byTitle) != 1 {
		t.Fatalf("expected limit 1, got %d", len(byTitle))
	}
}

func TestTaskUpdateIfActiveRewritesInPlace(t *testing.T) {
	store := openStore(t)
	repo := NewTaskRepository(store)
	ctx := context.Background()

	task, err := repo.GetByID(ctx, "task-merge-invoices")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	task.Status = domain.TaskStatusCancelled
	task.UpdatedAt = time.Now()
	if err := repo.UpdateIfActive(ctx, task); err != nil {
		t.Fatalf("update task: %v", err)
	}

	got, err := repo.GetByID(ctx, "task-merge-invoices")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Status != domain.TaskStatusCancelled {
		t.Errorf("expected cancelled status, got %q", got.Status)
	}

	missing := &domain.Task{ID: "task-missing"}
	if err := repo.UpdateIfActive(ctx, missing); !domain.IsKind(err, domain.ErrNotFound) {
		t.Errorf("expected not-found kind, got %v", err)
	}
}

func TestTaskUpdateIfActiveRejectsTerminalTask(t *testing.T) {
	store := openStore(t)
	repo := NewTaskRepository(store)
	ctx := context.Background()

	task, err := repo.GetByID(ctx, "task-merge-invoices")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	task.Status = domain.TaskStatusCancelled
	if err := repo.UpdateIfActive(ctx, task); err != nil {
		t.Fatalf("cancel task: %v", err)
	}

	// A late completion must bounce off the terminal state.
	task.Status = domain.TaskStatusCompleted
	task.Progress = 100
	task.Result = &domain.TaskResult{Action: "merge", Message: "done", Documents: 2}
	if err := repo.UpdateIfActive(ctx, task); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid-input kind, got %v", err)
	}

	got, err := repo.GetByID(ctx, "task-merge-invoices")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Status != domain.TaskStatusCancelled || got.Result != nil {
		t.Errorf("terminal task was overwritten: %+v", got)
	}
}

func TestTaskListFiltersByStatus(t *testing.T) {
	store := openStore(t)
	repo := NewTaskRepository(store)

	completed, err := repo.List(context.Background(), 0, domain.TaskStatusCompleted)
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != "task-summarize-compliance" {
		t.Errorf("unexpected completed tasks: %+v", completed)
	}
}

func TestUserSettingsRoundTrip(t *testing.T) {
	store := openStore(t)
	repo := NewUserRepository(store)
	ctx := context.Background()

	settings := domain.UserSettings{Theme: "dark", Notifications: false, AutoCategorize: false}
	if err := repo.UpdateSettings(ctx, settings); err != nil {
		t.Fatalf("update settings: %v", err)
	}

	user, err := repo.GetUser(ctx)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.Settings != settings {
		t.Errorf("settings not persisted: %+v", user.Settings)
	}
}

func TestSessionLifecycle(t *testing.T) {
	store := openStore(t)
	repo := NewSessionRepository(store)
	ctx := context.Background()
	now := time.Now()

	live := &domain.Session{ID: "sess-live", Token: "fclk_live", UserID: "user-demo", ExpiresAt: now.Add(time.Hour)}
	stale := &domain.Session{ID: "sess-stale", Token: "fclk_stale", UserID: "user-demo", ExpiresAt: now.Add(-time.Hour)}
	for _, s := range []*domain.Session{live, stale} {
		if err := repo.Create(ctx, s); err != nil {
			t.Fatalf("create session: %v", err)
		}
	}

	got, err := repo.GetByToken(ctx, "fclk_live")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.ID != "sess-live" {
		t.Errorf("unexpected session %q", got.ID)
	}

	removed, err := repo.DeleteExpired(ctx, now)
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 expired session removed, got %d", removed)
	}
	if _, err := repo.GetByToken(ctx, "fclk_stale"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected stale session gone, got %v", err)
	}

	if err := repo.DeleteByToken(ctx, "fclk_live"); err != nil {
		t.Fatalf("delete by token: %v", err)
	}
	if err := repo.DeleteByToken(ctx, "fclk_live"); !domain.IsKind(err, domain.ErrNotFound) {
		t.Errorf("expected not-found on second delete, got %v", err)
	}
}
