package domain

type Intent string

const (
	IntentSearchDocuments    Intent = "search_documents"
	IntentMergeDocuments     Intent = "merge_documents"
	IntentSummarizeDocuments Intent = "summarize_documents"
	IntentGeneralQuery       Intent = "general_query"
)

type VoiceCommand struct {
	Command   string         `json:"command"`
	SessionID string         `json:"session_id,omitempty"`
	Context   map[string]any `json:"context,omitempty"`
}

type VoiceResult struct {
	Intent     Intent         `json:"intent"`
	Parameters map[string]any `json:"parameters"`
	Response   string         `json:"response"`
	Documents  []Document     `json:"documents"`
	Actions    []string       `json:"actions"`
	Confidence float64        `json:"confidence"`
}
