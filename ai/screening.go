package ai

import (
	"context"
	"fmt"

	"github.com/LINKA-Service/ai/models"

	"github.com/sashabaranov/go-openai"
)

// ScreeningEngine classifies submitted cases and generates case titles.
type ScreeningEngine struct {
	llm Completer
}

// NewScreeningEngine creates a screening engine backed by the given model.
func NewScreeningEngine(llm Completer) *ScreeningEngine {
	return &ScreeningEngine{llm: llm}
}

// screeningStatusMap is the fixed lookup of model output literals. Anything
// the model returns outside this map defaults to pending: ambiguous output
// must never silently approve or reject a case.
var screeningStatusMap = map[string]models.CaseStatus{
	"통과": models.CaseStatusApproved,
	"검토": models.CaseStatusPending,
	"거부": models.CaseStatusRejected,
}

// Screen classifies a case submission. The scammerInfos argument is a
// flattened rendering of the attached scammer details.
func (e *ScreeningEngine) Screen(ctx context.Context, caseType models.CaseType, statement, scammerInfos string) (models.CaseStatus, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: caseAnalysisPrompt},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: fmt.Sprintf("statement: %s\nscammer_infos: %s\ncase_type: %s", statement, scammerInfos, caseType),
		},
	}

	result, err := e.llm.Complete(ctx, messages, 50, 0.5)
	if err != nil {
		return "", fmt.Errorf("screen case: %w", err)
	}

	if status, ok := screeningStatusMap[result]; ok {
		return status, nil
	}
	return models.CaseStatusPending, nil
}

// Title generates a short human-readable title from the case statement.
func (e *ScreeningEngine) Title(ctx context.Context, statement string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: caseTitlePrompt},
		{Role: openai.ChatMessageRoleUser, Content: statement},
	}

	title, err := e.llm.Complete(ctx, messages, 50, 0.5)
	if err != nil {
		return "", fmt.Errorf("generate title: %w", err)
	}
	return title, nil
}
