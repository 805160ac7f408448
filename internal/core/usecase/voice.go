package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
	"github.com/fileclerk/fileclerkai/internal/core/ports"
)

const voiceResultLimit = 3

// categoryNouns narrow the search branch. Order matters: the first noun
// contained in the command wins.
var categoryNouns = []struct {
	noun     string
	category domain.DocumentCategory
	response string
}{
	{"contract", domain.CategoryContracts, "I found several contracts. Let me show you the most relevant ones."},
	{"invoice", domain.CategoryInvoices, "I found invoices in your document library. Here are the recent ones."},
	{"compliance", domain.CategoryCompliance, "I found compliance documents that need your attention."},
	{"hr", domain.CategoryHR, "I found HR documents in your library."},
}

// demoTranscriptions back the transcription stub.
var demoTranscriptions = []string{
	"Find the signed contract from last October for ACME Corp",
	"Merge the three most recent invoices from Vendor A into one PDF",
	"Summarize all HR onboarding forms signed this month",
	"Show me all compliance documents that need review",
	"Convert this document to PDF format",
	"Send the quarterly report to the team",
}

// VoiceUseCase is a deterministic keyword classifier. Rules are evaluated
// in fixed priority order and the first match wins; a command containing
// both "find" and "merge" resolves to the search intent.
type VoiceUseCase struct {
	docs          ports.DocumentRepository
	activities    ports.ActivityRepository
	transcription bool

	// confidence produces the stand-in score in [0.8, 1.0).
	confidence func() float64
	pick       func(n int) int
}

// NewVoiceUseCase builds the classifier. transcription gates the demo
// transcription stub (DEMO_TRANSCRIPTION).
func NewVoiceUseCase(docs ports.DocumentRepository, activities ports.ActivityRepository, transcription bool) *VoiceUseCase {
	return &VoiceUseCase{
		docs:          docs,
		activities:    activities,
		transcription: transcription,
		confidence:    func() float64 { return 0.8 + rand.Float64()*0.2 },
		pick:          rand.IntN,
	}
}

type voiceRule struct {
	keywords []string
	classify func(ctx context.Context, uc *VoiceUseCase, lower string, result *domain.VoiceResult) error
}

// voiceRules fire in order; keep search before merge before summarize.
var voiceRules = []voiceRule{
	{keywords: []string{"find", "search"}, classify: classifySearch},
	{keywords: []string{"merge"}, classify: classifyMerge},
	{keywords: []string{"summarize"}, classify: classifySummarize},
}

func (uc *VoiceUseCase) ProcessCommand(ctx context.Context, cmd domain.VoiceCommand) (*domain.VoiceResult, error) {
	lower := strings.ToLower(cmd.Command)

	result := &domain.VoiceResult{
		Intent:     domain.IntentGeneralQuery,
		Parameters: map[string]any{},
		Response:   fmt.Sprintf("I understand you want to: %s. Let me help you with that.", cmd.Command),
		Documents:  []domain.Document{},
		Actions:    []string{},
		Confidence: uc.confidence(),
	}

rules:
	for _, rule := range voiceRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				if err := rule.classify(ctx, uc, lower, result); err != nil {
					return nil, err
				}
				break rules
			}
		}
	}

	activity := &domain.Activity{
		ID:           uuid.NewString(),
		Action:       "Voice Command Processed",
		Description:  fmt.Sprintf("Processed voice command: %q", cmd.Command),
		ActivityType: domain.ActivityVoiceCommand,
		Actor:        domain.ActorAI,
		Files:        []string{},
		CreatedAt:    time.Now().UTC(),
		Metadata: map[string]any{
			"intent":          string(result.Intent),
			"confidence":      result.Confidence,
			"documents_found": len(result.Documents),
		},
	}
	if err := uc.activities.Append(ctx, activity); err != nil {
		return nil, fmt.Errorf("log voice activity: %w", err)
	}

	return result, nil
}

// Transcribe is a stub: it returns one of the fixed demo phrases instead
// of decoding audio. Deployments without the demo flow disable it.
func (uc *VoiceUseCase) Transcribe(_ context.Context) (string, error) {
	if !uc.transcription {
		return "", domain.WrapError(domain.ErrNotFound, "transcribe", fmt.Errorf("demo transcription is disabled"))
	}
	return demoTranscriptions[uc.pick(len(demoTranscriptions))], nil
}

func classifySearch(ctx context.Context, uc *VoiceUseCase, lower string, result *domain.VoiceResult) error {
	result.Intent = domain.IntentSearchDocuments

	for _, noun := range categoryNouns {
		if !strings.Contains(lower, noun.noun) {
			continue
		}
		docs, err := uc.topDocuments(ctx, noun.category)
		if err != nil {
			return err
		}
		result.Parameters = map[string]any{"query": noun.noun, "category": string(noun.category)}
		result.Response = noun.response
		result.Documents = docs
		return nil
	}
	return nil
}

func classifyMerge(ctx context.Context, uc *VoiceUseCase, lower string, result *domain.VoiceResult) error {
	result.Intent = domain.IntentMergeDocuments
	result.Parameters = map[string]any{"action": "merge"}
	result.Response = "I'll merge the related documents for you. Please review the merged document."
	result.Actions = []string{"merge"}

	if strings.Contains(lower, "invoice") {
		docs, err := uc.topDocuments(ctx, domain.CategoryInvoices)
		if err != nil {
			return err
		}
		result.Documents = docs
	}
	return nil
}

func classifySummarize(ctx context.Context, uc *VoiceUseCase, lower string, result *domain.VoiceResult) error {
	result.Intent = domain.IntentSummarizeDocuments
	result.Parameters = map[string]any{"action": "summarize"}
	result.Response = "I'll create a summary of the documents. This may take a moment."
	result.Actions = []string{"summarize"}

	if strings.Contains(lower, "hr") {
		docs, err := uc.topDocuments(ctx, domain.CategoryHR)
		if err != nil {
			return err
		}
		result.Documents = docs
	}
	return nil
}

func (uc *VoiceUseCase) topDocuments(ctx context.Context, category domain.DocumentCategory) ([]domain.Document, error) {
	docs, err := uc.docs.List(ctx, domain.DocumentFilter{Category: category, Limit: voiceResultLimit})
	if err != nil {
		return nil, fmt.Errorf("load %s documents: %w", category, err)
	}
	return docs, nil
}
