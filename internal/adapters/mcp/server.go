// Package mcpadapter exposes the document library, memories, tasks and the
// voice classifier as Model Context Protocol tools over stdio, so AI
// assistants can drive the same operations the dashboard uses.
package mcpadapter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
	"github.com/fileclerk/fileclerkai/internal/core/ports"
)

// Services are the inbound ports the MCP tools call into. Auth is absent on
// purpose: the stdio transport is a local, single-user surface.
type Services struct {
	Documents ports.DocumentService
	Actions   ports.ActionService
	Voice     ports.VoiceService
	Memories  ports.MemoryService
	Tasks     ports.TaskService
}

// NewServer builds an MCP server with every FileClerk tool registered.
// Run it with srv.Run(ctx, mcp.NewStdioTransport()).
func NewServer(version string, svcs Services, logger *slog.Logger) *mcp.Server {
	impl := &mcp.Implementation{
		Name:    "fileclerkai",
		Version: version,
	}
	server := mcp.NewServer(impl, &mcp.ServerOptions{})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_documents",
		Description: "Search the document library by keyword. Matches filenames, content summaries and extracted text, and returns scored results.",
	}, searchDocumentsHandler(svcs.Documents, logger))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List documents in the library, newest first. Supports filtering by category and tags and an optional result limit.",
	}, listDocumentsHandler(svcs.Documents, logger))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_document",
		Description: "Retrieve a single document record by ID, including its category, tags, summary and timestamps.",
	}, getDocumentHandler(svcs.Documents, logger))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "perform_action",
		Description: "Start an asynchronous action (summarize, merge, analyze, extract) over one or more documents. Returns a task receipt; poll get_task to observe completion.",
	}, performActionHandler(svcs.Actions, logger))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_task",
		Description: "Retrieve a background task by ID, including status, progress and the result once the task has completed.",
	}, getTaskHandler(svcs.Tasks, logger))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "cancel_task",
		Description: "Cancel a pending or processing task. Completed, failed or already cancelled tasks cannot be cancelled again.",
	}, cancelTaskHandler(svcs.Tasks, logger))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "save_memory",
		Description: "Save a memory (summary, routine, bookmark or history entry) so it shows up on the dashboard and in later searches.",
	}, saveMemoryHandler(svcs.Memories, logger))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_memories",
		Description: "Search saved memories by substring across titles, content and tags.",
	}, searchMemoriesHandler(svcs.Memories, logger))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "process_voice_command",
		Description: "Classify a free-text command into an intent (search_documents, merge_documents, summarize_documents or general_query) and return the matching documents and suggested actions.",
	}, voiceCommandHandler(svcs.Voice, logger))

	return server
}

func searchDocumentsHandler(docs ports.DocumentService, logger *slog.Logger) mcp.ToolHandlerFor[SearchDocumentsParams, SearchDocumentsResponse] {
	return func(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[SearchDocumentsParams]) (*mcp.CallToolResultFor[SearchDocumentsResponse], error) {
		args := params.Arguments
		logToolCall(logger, "search_documents", args)

		if strings.TrimSpace(args.Query) == "" {
			return validationError[SearchDocumentsResponse]("query", "search query is required")
		}

		filter := domain.DocumentFilter{
			Category: domain.DocumentCategory(args.Category),
			Limit:    args.Limit,
		}
		results, err := docs.Search(ctx, args.Query, filter)
		if err != nil {
			return toolError[SearchDocumentsResponse](err)
		}

		return &mcp.CallToolResultFor[SearchDocumentsResponse]{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Found %d document(s) for %q", len(results), args.Query)},
			},
			StructuredContent: SearchDocumentsResponse{Results: results, Total: len(results)},
		}, nil
	}
}

func listDocumentsHandler(docs ports.DocumentService, logger *slog.Logger) mcp.ToolHandlerFor[ListDocumentsParams, ListDocumentsResponse] {
	return func(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[ListDocumentsParams]) (*mcp.CallToolResultFor[ListDocumentsResponse], error) {
		args := params.Arguments
		logToolCall(logger, "list_documents", args)

		filter := domain.DocumentFilter{
			Category: domain.DocumentCategory(args.Category),
			Tags:     args.Tags,
			Limit:    args.Limit,
		}
		documents, err := docs.List(ctx, filter)
		if err != nil {
			return toolError[ListDocumentsResponse](err)
		}

		return &mcp.CallToolResultFor[ListDocumentsResponse]{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("%d document(s) in the library", len(documents))},
			},
			StructuredContent: ListDocumentsResponse{Documents: documents, Total: len(documents)},
		}, nil
	}
}

func getDocumentHandler(docs ports.DocumentService, logger *slog.Logger) mcp.ToolHandlerFor[GetDocumentParams, domain.Document] {
	return func(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[GetDocumentParams]) (*mcp.CallToolResultFor[domain.Document], error) {
		args := params.Arguments
		logToolCall(logger, "get_document", args)

		if strings.TrimSpace(args.ID) == "" {
			return validationError[domain.Document]("id", "document id is required")
		}
		doc, err := docs.GetByID(ctx, args.ID)
		if err != nil {
			return toolError[domain.Document](err)
		}

		return &mcp.CallToolResultFor[domain.Document]{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("%s (%s, %s)", doc.OriginalFilename, doc.Category, doc.Status)},
			},
			StructuredContent: *doc,
		}, nil
	}
}

func performActionHandler(actions ports.ActionService, logger *slog.Logger) mcp.ToolHandlerFor[PerformActionParams, domain.ActionReceipt] {
	return func(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[PerformActionParams]) (*mcp.CallToolResultFor[domain.ActionReceipt], error) {
		args := params.Arguments
		logToolCall(logger, "perform_action", args)

		if strings.TrimSpace(args.Action) == "" {
			return validationError[domain.ActionReceipt]("action", "action is required")
		}
		receipt, err := actions.PerformAction(ctx, args.Action, args.DocumentIDs, nil)
		if err != nil {
			return toolError[domain.ActionReceipt](err)
		}

		return &mcp.CallToolResultFor[domain.ActionReceipt]{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Started %s over %d document(s); poll task %s", args.Action, len(args.DocumentIDs), receipt.TaskID)},
			},
			StructuredContent: *receipt,
		}, nil
	}
}

func getTaskHandler(tasks ports.TaskService, logger *slog.Logger) mcp.ToolHandlerFor[GetTaskParams, domain.Task] {
	return func(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[GetTaskParams]) (*mcp.CallToolResultFor[domain.Task], error) {
		args := params.Arguments
		logToolCall(logger, "get_task", args)

		if strings.TrimSpace(args.ID) == "" {
			return validationError[domain.Task]("id", "task id is required")
		}
		task, err := tasks.GetByID(ctx, args.ID)
		if err != nil {
			return toolError[domain.Task](err)
		}

		return &mcp.CallToolResultFor[domain.Task]{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Task %s is %s (%.0f%%)", task.ID, task.Status, task.Progress)},
			},
			StructuredContent: *task,
		}, nil
	}
}

func cancelTaskHandler(tasks ports.TaskService, logger *slog.Logger) mcp.ToolHandlerFor[CancelTaskParams, domain.Task] {
	return func(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[CancelTaskParams]) (*mcp.CallToolResultFor[domain.Task], error) {
		args := params.Arguments
		logToolCall(logger, "cancel_task", args)

		if strings.TrimSpace(args.ID) == "" {
			return validationError[domain.Task]("id", "task id is required")
		}
		task, err := tasks.Cancel(ctx, args.ID)
		if err != nil {
			return toolError[domain.Task](err)
		}

		return &mcp.CallToolResultFor[domain.Task]{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Task %s cancelled", task.ID)},
			},
			StructuredContent: *task,
		}, nil
	}
}

func saveMemoryHandler(memories ports.MemoryService, logger *slog.Logger) mcp.ToolHandlerFor[SaveMemoryParams, domain.Memory] {
	return func(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[SaveMemoryParams]) (*mcp.CallToolResultFor[domain.Memory], error) {
		args := params.Arguments
		logToolCall(logger, "save_memory", args)

		if strings.TrimSpace(args.Title) == "" {
			return validationError[domain.Memory]("title", "memory title is required")
		}
		memory, err := memories.Create(ctx, args.Title, args.Content, domain.MemoryType(args.MemoryType), args.Tags, args.Starred)
		if err != nil {
			return toolError[domain.Memory](err)
		}

		return &mcp.CallToolResultFor[domain.Memory]{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Saved memory %q with ID %s", memory.Title, memory.ID)},
			},
			StructuredContent: *memory,
		}, nil
	}
}

func searchMemoriesHandler(memories ports.MemoryService, logger *slog.Logger) mcp.ToolHandlerFor[SearchMemoriesParams, SearchMemoriesResponse] {
	return func(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[SearchMemoriesParams]) (*mcp.CallToolResultFor[SearchMemoriesResponse], error) {
		args := params.Arguments
		logToolCall(logger, "search_memories", args)

		found, err := memories.Search(ctx, args.Query, args.Limit)
		if err != nil {
			return toolError[SearchMemoriesResponse](err)
		}

		return &mcp.CallToolResultFor[SearchMemoriesResponse]{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Found %d memory(ies) for %q", len(found), args.Query)},
			},
			StructuredContent: SearchMemoriesResponse{Memories: found, Total: len(found)},
		}, nil
	}
}

func voiceCommandHandler(voice ports.VoiceService, logger *slog.Logger) mcp.ToolHandlerFor[VoiceCommandParams, domain.VoiceResult] {
	return func(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[VoiceCommandParams]) (*mcp.CallToolResultFor[domain.VoiceResult], error) {
		args := params.Arguments
		logToolCall(logger, "process_voice_command", args)

		if strings.TrimSpace(args.Command) == "" {
			return validationError[domain.VoiceResult]("command", "command is required")
		}
		result, err := voice.ProcessCommand(ctx, domain.VoiceCommand{Command: args.Command})
		if err != nil {
			return toolError[domain.VoiceResult](err)
		}

		return &mcp.CallToolResultFor[domain.VoiceResult]{
			Content: []mcp.Content{
				&mcp.TextContent{Text: result.Response},
			},
			StructuredContent: *result,
		}, nil
	}
}

// toolError reports a failed tool call in the result so the client model can
// see it and self-correct, instead of surfacing a protocol error.
func toolError[R any](err error) (*mcp.CallToolResultFor[R], error) {
	return &mcp.CallToolResultFor[R]{
		Content: []mcp.Content{&mcp.TextContent{Text: "Error: " + err.Error()}},
		IsError: true,
	}, nil
}

func validationError[R any](field, message string) (*mcp.CallToolResultFor[R], error) {
	return &mcp.CallToolResultFor[R]{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Invalid %s: %s", field, message)}},
		IsError: true,
	}, nil
}

func logToolCall(logger *slog.Logger, tool string, args any) {
	if logger != nil {
		logger.Debug("mcp tool call", "tool", tool, "args", fmt.Sprintf("%+v", args))
	}
}
