package ai

import (
	"context"
	"fmt"

	"github.com/LINKA-Service/ai/models"

	"github.com/sashabaranov/go-openai"
)

// KeywordExtractor derives short legal-search terms from a case and question.
type KeywordExtractor struct {
	llm Completer
}

// NewKeywordExtractor creates a keyword extractor backed by the given model.
func NewKeywordExtractor(llm Completer) *KeywordExtractor {
	return &KeywordExtractor{llm: llm}
}

// Extract returns 1-3 short terms for querying legal sources. On failure the
// caller should skip retrieval rather than fail the consultation turn.
func (e *KeywordExtractor) Extract(ctx context.Context, caseType models.CaseType, statement, question string) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: consultationKeywordPrompt},
		{
			Role:    openai.ChatMessageRoleUser,
			Content: fmt.Sprintf("사건 유형: %s\n사건 내용: %s\n질문: %s", caseType.Label(), statement, question),
		},
	}

	keywords, err := e.llm.Complete(ctx, messages, 50, 0.3)
	if err != nil {
		return "", fmt.Errorf("extract keywords: %w", err)
	}
	return keywords, nil
}
