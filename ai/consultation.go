package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/LINKA-Service/ai/legalsearch"
	"github.com/LINKA-Service/ai/models"

	"github.com/sashabaranov/go-openai"
)

const (
	// Retrieval counts per consultation turn.
	precedentCount = 2
	lawCount       = 2

	// The consultation answer gets a larger budget and warmer sampling than
	// the screening and keyword calls.
	answerMaxTokens   = 1500
	answerTemperature = 0.7
)

// Turn is one prior message of the conversation, already mapped to its
// language-model role.
type Turn struct {
	Role    string
	Content string
}

// LegalSearcher is the retrieval collaborator for grounding context.
type LegalSearcher interface {
	SearchAll(ctx context.Context, query string, precCount, lawCount int) legalsearch.Results
}

// ConsultationEngine drives one multi-turn consultation exchange with the
// language model, optionally grounded by retrieved legal references. It is
// stateless between calls; the caller persists the resulting messages.
type ConsultationEngine struct {
	llm      Completer
	keywords *KeywordExtractor
	legal    LegalSearcher
}

// NewConsultationEngine creates a consultation engine.
func NewConsultationEngine(llm Completer, keywords *KeywordExtractor, legal LegalSearcher) *ConsultationEngine {
	return &ConsultationEngine{llm: llm, keywords: keywords, legal: legal}
}

// GenerateResponse produces the assistant reply for a new user question.
// Keyword extraction or legal search failures degrade to an ungrounded
// answer; a failure of the final model call is fatal to the turn.
func (e *ConsultationEngine) GenerateResponse(
	ctx context.Context,
	caseStatement string,
	caseType models.CaseType,
	history []Turn,
	userQuestion string,
	includeLegalSearch bool,
) (string, error) {
	legalContext := ""

	if includeLegalSearch && e.legal != nil {
		keywords, err := e.keywords.Extract(ctx, caseType, caseStatement, userQuestion)
		if err != nil {
			log.Printf("consultation: keyword extraction failed, skipping legal search: %v", err)
		} else {
			results := e.legal.SearchAll(ctx, keywords, precedentCount, lawCount)
			legalContext = legalsearch.FormatReferences(results.Precedents, results.Laws)
		}
	}

	systemPrompt := consultationAnswerPrompt
	if legalContext != "" {
		systemPrompt += legalContextNote
		systemPrompt += legalContext
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+3)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: fmt.Sprintf("사건 유형: %s\n사건 내용: %s", caseType.Label(), caseStatement),
	})
	for _, turn := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userQuestion,
	})

	answer, err := e.llm.Complete(ctx, messages, answerMaxTokens, answerTemperature)
	if err != nil {
		return "", fmt.Errorf("generate consultation response: %w", err)
	}
	return answer, nil
}
