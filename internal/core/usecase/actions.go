package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fileclerk/fileclerkai/internal/core/domain"
	"github.com/fileclerk/fileclerkai/internal/core/ports"
)

// actionResponses is the canned per-action completion table. One entry is
// picked uniformly at random when a task finishes.
var actionResponses = map[string][]string{
	"summarize": {
		"This document contains a comprehensive overview of quarterly business operations, highlighting key performance indicators, financial metrics, and strategic initiatives. The analysis reveals strong growth trends and identifies areas for operational improvement.",
		"The document outlines critical compliance requirements and regulatory standards that must be maintained. It includes detailed procedures, audit findings, and recommended actions for ensuring continued adherence to industry regulations.",
		"This contract document establishes the terms and conditions for service delivery, including scope of work, payment terms, deliverables, and performance metrics. It defines the legal framework for the business relationship between parties.",
	},
	"compare": {
		"Document comparison reveals 3 key differences in pricing structures and 2 variations in service terms. Overall similarity: 78%. Main differences found in sections 4.2 (pricing) and 6.1 (termination clauses).",
		"The documents show substantial alignment in core content with minor variations in formatting and terminology. 5 content differences identified, primarily in appendices and supporting materials.",
		"Comparison analysis shows significant divergence in approach and methodology. Documents differ in 8 major areas including scope, timeline, and resource allocation.",
	},
	"convert": {
		"Document successfully converted to PDF format. Original formatting preserved, including tables, images, and special characters. File size optimized for sharing and archival.",
		"Conversion to Excel format completed. Data extracted and organized into structured spreadsheet with proper column headers and formatting.",
		"Document converted to Word format with full editing capabilities. All content, formatting, and embedded objects transferred successfully.",
	},
	"merge": {
		"Successfully merged 3 documents into a single PDF file. Total pages: 47. Combined file size: 2.8 MB. Table of contents generated automatically.",
		"Document merge completed. 5 files combined with intelligent section organization. Duplicate content removed and formatting standardized.",
		"Merge operation successful. Files consolidated with preserved original formatting and automatic page numbering.",
	},
	"redact": {
		"Sensitive information redacted from document. Items removed: 12 SSNs, 8 phone numbers, 15 email addresses, 5 bank account numbers. Document ready for public distribution.",
		"Privacy protection applied. Personal identifiers, financial data, and confidential business information securely redacted while maintaining document readability.",
		"Redaction complete. 23 sensitive data points removed including names, addresses, and proprietary information. Compliance with data protection regulations ensured.",
	},
	"translate": {
		"Document translated to Spanish. Translation accuracy: 96%. Technical terminology preserved with appropriate business context. Ready for international distribution.",
		"French translation completed with cultural adaptation for business communications. All legal terms and technical specifications accurately translated.",
		"German translation finished. Complex technical content translated with industry-specific terminology. Document reviewed for accuracy and clarity.",
	},
	"extract": {
		"Data extraction complete. Identified: 15 names, 8 dates, 12 monetary amounts, 5 contract numbers, 3 signatures. Information organized in structured format.",
		"Key information extracted: Company details, contact information, financial figures, important dates, and action items. Data ready for database import.",
		"Extraction results: 23 entities identified including people, organizations, locations, and key metrics. Confidence level: 94%.",
	},
	"send": {
		"Document sent to 5 team members via secure email. Recipients: John Smith, Sarah Johnson, Mike Brown, Lisa Davis, Tom Wilson. Delivery confirmation received.",
		"File shared with accounting department. Access permissions configured for view-only. Notification sent to 3 stakeholders.",
		"Document distributed to compliance team with appropriate security clearance. Audit trail created for regulatory tracking.",
	},
}

// ActionsUseCase starts simulated multi-document actions. It creates the
// task and start activity synchronously, then hands completion to the queue.
type ActionsUseCase struct {
	docs       ports.DocumentRepository
	tasks      ports.TaskRepository
	activities ports.ActivityRepository
	queue      ports.TaskQueue
}

func NewActionsUseCase(
	docs ports.DocumentRepository,
	tasks ports.TaskRepository,
	activities ports.ActivityRepository,
	queue ports.TaskQueue,
) *ActionsUseCase {
	return &ActionsUseCase{
		docs:       docs,
		tasks:      tasks,
		activities: activities,
		queue:      queue,
	}
}

func (uc *ActionsUseCase) PerformAction(
	ctx context.Context,
	action string,
	documentIDs []string,
	parameters map[string]any,
) (*domain.ActionReceipt, error) {
	action = strings.ToLower(strings.TrimSpace(action))
	if action == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "perform action", errors.New("action is required"))
	}

	selected, err := uc.docs.GetByIDs(ctx, documentIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve documents: %w", err)
	}
	if len(selected) == 0 {
		return nil, domain.WrapError(domain.ErrDocumentsNotFound, "perform action", fmt.Errorf("no documents resolved from %d id(s)", len(documentIDs)))
	}

	now := time.Now().UTC()
	task := &domain.Task{
		ID:          uuid.NewString(),
		TaskType:    "document_" + action,
		Status:      domain.TaskStatusProcessing,
		Progress:    0,
		DocumentIDs: documentIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	files := make([]string, 0, len(selected))
	for _, doc := range selected {
		files = append(files, doc.OriginalFilename)
	}
	message := fmt.Sprintf("Started %s for %d document(s)", action, len(selected))
	activity := &domain.Activity{
		ID:           uuid.NewString(),
		Action:       fmt.Sprintf("Document %s", titleCase(action)),
		Description:  message,
		ActivityType: domain.ActivityType(action),
		Actor:        domain.ActorAI,
		Files:        files,
		CreatedAt:    now,
		Metadata:     map[string]any{"document_count": len(selected), "task_id": task.ID},
	}
	if err := uc.activities.Append(ctx, activity); err != nil {
		return nil, fmt.Errorf("log action activity: %w", err)
	}

	if err := uc.queue.PublishTaskCreated(ctx, task.ID); err != nil {
		return nil, fmt.Errorf("publish task event: %w", err)
	}

	return &domain.ActionReceipt{
		TaskID:  task.ID,
		Status:  domain.TaskStatusProcessing,
		Message: message,
	}, nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
