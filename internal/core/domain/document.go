package domain

import "time"

type DocumentCategory string

const (
	CategoryContracts  DocumentCategory = "contracts"
	CategoryInvoices   DocumentCategory = "invoices"
	CategoryHR         DocumentCategory = "hr"
	CategoryCompliance DocumentCategory = "compliance"
	CategoryGeneral    DocumentCategory = "general"
)

type DocumentStatus string

const (
	StatusUploaded  DocumentStatus = "uploaded"
	StatusPending   DocumentStatus = "pending"
	StatusProcessed DocumentStatus = "processed"
	StatusApproved  DocumentStatus = "approved"
	StatusUrgent    DocumentStatus = "urgent"
)

type Document struct {
	ID               string           `json:"id"`
	Filename         string           `json:"filename"`
	OriginalFilename string           `json:"original_filename"`
	StoragePath      string           `json:"file_path,omitempty"`
	FileSize         int64            `json:"file_size"`
	FileType         string           `json:"file_type"`
	MimeType         string           `json:"mime_type"`
	Category         DocumentCategory `json:"category"`
	Status           DocumentStatus   `json:"status"`
	Tags             []string         `json:"tags"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
	ExtractedText    string           `json:"extracted_text,omitempty"`
	ContentSummary   string           `json:"content_summary,omitempty"`
}

// FileMeta describes an uploaded file by name, size and MIME type.
// Stored bytes are never parsed.
type FileMeta struct {
	Name     string
	Size     int64
	MimeType string
}

// SearchResult wraps a matched document. The relevance score is a
// bounded-random stand-in carried over from the demo backend, not a ranking.
type SearchResult struct {
	Document        Document `json:"document"`
	RelevanceScore  float64  `json:"relevance_score"`
	MatchingContent string   `json:"matching_content,omitempty"`
}

type DocumentFilter struct {
	Category   DocumentCategory
	Categories []DocumentCategory
	Tags       []string
	Limit      int
}
