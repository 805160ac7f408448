package mcpadapter

import "github.com/fileclerk/fileclerkai/internal/core/domain"

// SearchDocumentsParams are the arguments of the search_documents tool.
type SearchDocumentsParams struct {
	Query    string `json:"query" mcp:"Search query matched against filenames, summaries and extracted text (required)"`
	Category string `json:"category,omitempty" mcp:"Filter by category: contracts, invoices, hr, compliance, general"`
	Limit    int    `json:"limit,omitempty" mcp:"Maximum number of results"`
}

type SearchDocumentsResponse struct {
	Results []domain.SearchResult `json:"results"`
	Total   int                   `json:"total"`
}

// ListDocumentsParams are the arguments of the list_documents tool.
type ListDocumentsParams struct {
	Category string   `json:"category,omitempty" mcp:"Filter by category: contracts, invoices, hr, compliance, general"`
	Tags     []string `json:"tags,omitempty" mcp:"Keep documents carrying at least one of these tags"`
	Limit    int      `json:"limit,omitempty" mcp:"Maximum number of documents"`
}

type ListDocumentsResponse struct {
	Documents []domain.Document `json:"documents"`
	Total     int               `json:"total"`
}

// GetDocumentParams are the arguments of the get_document tool.
type GetDocumentParams struct {
	ID string `json:"id" mcp:"Document ID to retrieve (required)"`
}

// PerformActionParams are the arguments of the perform_action tool.
type PerformActionParams struct {
	Action      string   `json:"action" mcp:"Action to run: summarize, merge, analyze, extract (required)"`
	DocumentIDs []string `json:"document_ids" mcp:"Documents the action operates on (required)"`
}

// GetTaskParams are the arguments of the get_task tool.
type GetTaskParams struct {
	ID string `json:"id" mcp:"Task ID to retrieve (required)"`
}

// CancelTaskParams are the arguments of the cancel_task tool.
type CancelTaskParams struct {
	ID string `json:"id" mcp:"Task ID to cancel (required)"`
}

// SaveMemoryParams are the arguments of the save_memory tool.
type SaveMemoryParams struct {
	Title      string   `json:"title" mcp:"Memory title (required)"`
	Content    string   `json:"content" mcp:"Memory content (required)"`
	MemoryType string   `json:"memory_type,omitempty" mcp:"Memory type: summary, routine, bookmark, history"`
	Tags       []string `json:"tags,omitempty" mcp:"Tags attached to the memory"`
	Starred    bool     `json:"starred,omitempty" mcp:"Pin the memory to the top of the dashboard"`
}

// SearchMemoriesParams are the arguments of the search_memories tool.
type SearchMemoriesParams struct {
	Query string `json:"query" mcp:"Substring matched against memory titles, content and tags (required)"`
	Limit int    `json:"limit,omitempty" mcp:"Maximum number of memories"`
}

type SearchMemoriesResponse struct {
	Memories []domain.Memory `json:"memories"`
	Total    int             `json:"total"`
}

// VoiceCommandParams are the arguments of the process_voice_command tool.
type VoiceCommandParams struct {
	Command string `json:"command" mcp:"Free-text command to classify, e.g. \"find my contracts\" (required)"`
}
