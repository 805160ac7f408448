package mcpadapter

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
	"github.com/fileclerk/fileclerkai/internal/core/usecase"
	"github.com/fileclerk/fileclerkai/internal/infrastructure/queue/inline"
	"github.com/fileclerk/fileclerkai/internal/infrastructure/repository/localstore"
	"github.com/fileclerk/fileclerkai/internal/infrastructure/storage/localfs"
)

func newTestServices(t *testing.T) Services {
	t.Helper()

	store, err := localstore.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	storage, err := localfs.New(t.TempDir())
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}

	docRepo := localstore.NewDocumentRepository(store)
	actRepo := localstore.NewActivityRepository(store)
	memRepo := localstore.NewMemoryRepository(store)
	taskRepo := localstore.NewTaskRepository(store)

	scheduler := inline.NewScheduler()
	scheduler.Bind(usecase.NewProcessTaskUseCase(taskRepo, 20*time.Millisecond))
	t.Cleanup(scheduler.Shutdown)

	return Services{
		Documents: usecase.NewDocumentsUseCase(docRepo, actRepo, storage),
		Actions:   usecase.NewActionsUseCase(docRepo, taskRepo, actRepo, scheduler),
		Voice:     usecase.NewVoiceUseCase(docRepo, actRepo, true),
		Memories:  usecase.NewMemoriesUseCase(memRepo),
		Tasks:     usecase.NewTasksUseCase(taskRepo, scheduler),
	}
}

func TestNewServerRegistersTools(t *testing.T) {
	srv := NewServer("test", newTestServices(t), nil)
	if srv == nil {
		t.Fatal("expected a server")
	}
}

func TestSearchDocumentsTool(t *testing.T) {
	svcs := newTestServices(t)
	handler := searchDocumentsHandler(svcs.Documents, nil)

	res, err := handler(context.Background(), nil, &mcp.CallToolParamsFor[SearchDocumentsParams]{
		Arguments: SearchDocumentsParams{Query: "contract"},
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %+v", res.Content)
	}
	if res.StructuredContent.Total == 0 {
		t.Fatal("expected seeded contract documents to match")
	}
	for _, hit := range res.StructuredContent.Results {
		if hit.RelevanceScore < 0.7 || hit.RelevanceScore >= 1.0 {
			t.Fatalf("relevance score %v out of range", hit.RelevanceScore)
		}
	}
}

func TestSearchDocumentsToolRequiresQuery(t *testing.T) {
	svcs := newTestServices(t)
	handler := searchDocumentsHandler(svcs.Documents, nil)

	res, err := handler(context.Background(), nil, &mcp.CallToolParamsFor[SearchDocumentsParams]{
		Arguments: SearchDocumentsParams{Query: "   "},
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected a validation error for blank query")
	}
}

func TestListDocumentsToolFiltersByCategory(t *testing.T) {
	svcs := newTestServices(t)
	handler := listDocumentsHandler(svcs.Documents, nil)

	res, err := handler(context.Background(), nil, &mcp.CallToolParamsFor[ListDocumentsParams]{
		Arguments: ListDocumentsParams{Category: "compliance"},
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.StructuredContent.Total != 2 {
		t.Fatalf("expected 2 compliance documents, got %d", res.StructuredContent.Total)
	}
	for _, doc := range res.StructuredContent.Documents {
		if doc.Category != domain.CategoryCompliance {
			t.Fatalf("unexpected category %s", doc.Category)
		}
	}
}

func TestPerformActionToolStartsTask(t *testing.T) {
	svcs := newTestServices(t)
	perform := performActionHandler(svcs.Actions, nil)
	getTask := getTaskHandler(svcs.Tasks, nil)

	res, err := perform(context.Background(), nil, &mcp.CallToolParamsFor[PerformActionParams]{
		Arguments: PerformActionParams{Action: "summarize", DocumentIDs: []string{"doc-acme-contract-q4"}},
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %+v", res.Content)
	}
	receipt := res.StructuredContent
	if receipt.TaskID == "" || receipt.Status != domain.TaskStatusProcessing {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		taskRes, err := getTask(context.Background(), nil, &mcp.CallToolParamsFor[GetTaskParams]{
			Arguments: GetTaskParams{ID: receipt.TaskID},
		})
		if err != nil {
			t.Fatalf("get task: %v", err)
		}
		if taskRes.StructuredContent.Status == domain.TaskStatusCompleted {
			if taskRes.StructuredContent.Result == nil || taskRes.StructuredContent.Result.Action != "summarize" {
				t.Fatalf("unexpected result: %+v", taskRes.StructuredContent.Result)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("task never completed, status %s", taskRes.StructuredContent.Status)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestPerformActionToolUnknownDocuments(t *testing.T) {
	svcs := newTestServices(t)
	handler := performActionHandler(svcs.Actions, nil)

	res, err := handler(context.Background(), nil, &mcp.CallToolParamsFor[PerformActionParams]{
		Arguments: PerformActionParams{Action: "merge", DocumentIDs: []string{"doc-nope"}},
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected a tool error for unknown documents")
	}
}

func TestCancelTaskTool(t *testing.T) {
	svcs := newTestServices(t)
	perform := performActionHandler(svcs.Actions, nil)
	cancel := cancelTaskHandler(svcs.Tasks, nil)

	res, err := perform(context.Background(), nil, &mcp.CallToolParamsFor[PerformActionParams]{
		Arguments: PerformActionParams{Action: "analyze", DocumentIDs: []string{"doc-acme-contract-q4"}},
	})
	if err != nil {
		t.Fatalf("perform: %v", err)
	}

	cancelRes, err := cancel(context.Background(), nil, &mcp.CallToolParamsFor[CancelTaskParams]{
		Arguments: CancelTaskParams{ID: res.StructuredContent.TaskID},
	})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelRes.StructuredContent.Status != domain.TaskStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelRes.StructuredContent.Status)
	}

	again, err := cancel(context.Background(), nil, &mcp.CallToolParamsFor[CancelTaskParams]{
		Arguments: CancelTaskParams{ID: res.StructuredContent.TaskID},
	})
	if err != nil {
		t.Fatalf("second cancel: %v", err)
	}
	if !again.IsError {
		t.Fatal("expected a tool error when cancelling a terminal task")
	}
}

func TestSaveAndSearchMemoryTools(t *testing.T) {
	svcs := newTestServices(t)
	save := saveMemoryHandler(svcs.Memories, nil)
	search := searchMemoriesHandler(svcs.Memories, nil)

	res, err := save(context.Background(), nil, &mcp.CallToolParamsFor[SaveMemoryParams]{
		Arguments: SaveMemoryParams{
			Title:      "Renewal window",
			Content:    "Acme contract renews in March",
			MemoryType: "bookmark",
			Tags:       []string{"contracts"},
		},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if res.IsError || res.StructuredContent.ID == "" {
		t.Fatalf("unexpected save result: %+v", res.StructuredContent)
	}

	found, err := search(context.Background(), nil, &mcp.CallToolParamsFor[SearchMemoriesParams]{
		Arguments: SearchMemoriesParams{Query: "renewal"},
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if found.StructuredContent.Total == 0 {
		t.Fatal("expected the saved memory to match")
	}
}

func TestSaveMemoryToolRequiresTitle(t *testing.T) {
	svcs := newTestServices(t)
	handler := saveMemoryHandler(svcs.Memories, nil)

	res, err := handler(context.Background(), nil, &mcp.CallToolParamsFor[SaveMemoryParams]{
		Arguments: SaveMemoryParams{Content: "orphan content"},
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected a validation error for missing title")
	}
}

func TestVoiceCommandTool(t *testing.T) {
	svcs := newTestServices(t)
	handler := voiceCommandHandler(svcs.Voice, nil)

	res, err := handler(context.Background(), nil, &mcp.CallToolParamsFor[VoiceCommandParams]{
		Arguments: VoiceCommandParams{Command: "find my contracts"},
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	result := res.StructuredContent
	if result.Intent != domain.IntentSearchDocuments {
		t.Fatalf("expected search intent, got %s", result.Intent)
	}
	if result.Confidence < 0.8 || result.Confidence >= 1.0 {
		t.Fatalf("confidence %v out of range", result.Confidence)
	}
	if len(res.Content) == 0 {
		t.Fatal("expected a text response")
	}
	if text, ok := res.Content[0].(*mcp.TextContent); !ok || strings.TrimSpace(text.Text) == "" {
		t.Fatal("expected non-empty text content")
	}
}
