package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/LINKA-Service/ai/legalsearch"
	"github.com/LINKA-Service/ai/models"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLegalSearcher struct {
	results Results
	queries []string
}

// Results aliases the retrieval bundle so the fake reads naturally.
type Results = legalsearch.Results

func (f *fakeLegalSearcher) SearchAll(ctx context.Context, query string, precCount, lawCount int) Results {
	f.queries = append(f.queries, query)
	return f.results
}

func samplePrecedent() legalsearch.Precedent {
	return legalsearch.Precedent{
		Title:      "사기죄 성립 요건에 관한 판결",
		CaseNumber: "2020도1234",
		Court:      "대법원",
		Date:       "2020.05.14",
		Summary:    "기망행위와 처분행위 사이의 인과관계를 인정한 사례.",
	}
}

func TestGenerateResponseWithLegalContext(t *testing.T) {
	// First call extracts keywords, second call answers.
	llm := &fakeCompleter{responses: []string{"사기 고소", "답변입니다."}}
	legal := &fakeLegalSearcher{results: Results{Precedents: []legalsearch.Precedent{samplePrecedent()}}}
	engine := NewConsultationEngine(llm, NewKeywordExtractor(llm), legal)

	history := []Turn{
		{Role: openai.ChatMessageRoleUser, Content: "고소장은 어디에 내나요?"},
		{Role: openai.ChatMessageRoleAssistant, Content: "관할 경찰서에 제출합니다."},
	}

	answer, err := engine.GenerateResponse(context.Background(), "투자 사기를 당했습니다.", models.CaseTypeInvestmentScam, history, "처벌 수위는 어떻게 되나요?", true)
	require.NoError(t, err)
	assert.Equal(t, "답변입니다.", answer)

	require.Equal(t, []string{"사기 고소"}, legal.queries)
	require.Len(t, llm.calls, 2)

	messages := llm.calls[1]
	require.Len(t, messages, 5)

	// System prompt carries the grounding note and the formatted references.
	assert.Equal(t, openai.ChatMessageRoleSystem, messages[0].Role)
	assert.True(t, strings.HasPrefix(messages[0].Content, consultationAnswerPrompt))
	assert.Contains(t, messages[0].Content, legalContextNote)
	assert.Contains(t, messages[0].Content, "=== 관련 법률 자료 ===")
	assert.Contains(t, messages[0].Content, "2020도1234")

	// Case summary, then history in order, then the new question.
	assert.Equal(t, openai.ChatMessageRoleUser, messages[1].Role)
	assert.Equal(t, "사건 유형: 투자\n사건 내용: 투자 사기를 당했습니다.", messages[1].Content)
	assert.Equal(t, openai.ChatMessageRoleUser, messages[2].Role)
	assert.Equal(t, "고소장은 어디에 내나요?", messages[2].Content)
	assert.Equal(t, openai.ChatMessageRoleAssistant, messages[3].Role)
	assert.Equal(t, openai.ChatMessageRoleUser, messages[4].Role)
	assert.Equal(t, "처벌 수위는 어떻게 되나요?", messages[4].Content)

	assert.Equal(t, 1500, llm.maxTokens[1])
	assert.InDelta(t, 0.7, llm.temps[1], 0.001)
}

func TestGenerateResponseNoResults(t *testing.T) {
	llm := &fakeCompleter{responses: []string{"키워드", "답변"}}
	legal := &fakeLegalSearcher{} // zero results
	engine := NewConsultationEngine(llm, NewKeywordExtractor(llm), legal)

	_, err := engine.GenerateResponse(context.Background(), "내용", models.CaseTypeSmishing, nil, "질문", true)
	require.NoError(t, err)

	// With nothing retrieved the system prompt stays untouched.
	messages := llm.calls[1]
	assert.Equal(t, consultationAnswerPrompt, messages[0].Content)
}

func TestGenerateResponseSearchDisabled(t *testing.T) {
	llm := &fakeCompleter{responses: []string{"답변"}}
	legal := &fakeLegalSearcher{results: Results{Precedents: []legalsearch.Precedent{samplePrecedent()}}}
	engine := NewConsultationEngine(llm, NewKeywordExtractor(llm), legal)

	_, err := engine.GenerateResponse(context.Background(), "내용", models.CaseTypeSmishing, nil, "질문", false)
	require.NoError(t, err)

	// No keyword call, no retrieval, plain system prompt.
	assert.Empty(t, legal.queries)
	require.Len(t, llm.calls, 1)
	assert.Equal(t, consultationAnswerPrompt, llm.calls[0][0].Content)
}

func TestGenerateResponseKeywordFailureDegrades(t *testing.T) {
	keywordLLM := &fakeCompleter{err: errors.New("rate limited")}
	answerLLM := &fakeCompleter{responses: []string{"답변"}}
	legal := &fakeLegalSearcher{results: Results{Precedents: []legalsearch.Precedent{samplePrecedent()}}}
	engine := NewConsultationEngine(answerLLM, NewKeywordExtractor(keywordLLM), legal)

	answer, err := engine.GenerateResponse(context.Background(), "내용", models.CaseTypeRomance, nil, "질문", true)
	require.NoError(t, err)
	assert.Equal(t, "답변", answer)

	// Retrieval was skipped entirely, the answer is ungrounded.
	assert.Empty(t, legal.queries)
	assert.Equal(t, consultationAnswerPrompt, answerLLM.calls[0][0].Content)
}

func TestGenerateResponseAnswerFailureIsFatal(t *testing.T) {
	llm := &fakeCompleter{err: ErrUnavailable}
	engine := NewConsultationEngine(llm, NewKeywordExtractor(llm), nil)

	_, err := engine.GenerateResponse(context.Background(), "내용", models.CaseTypeDelivery, nil, "질문", true)
	assert.ErrorIs(t, err, ErrUnavailable)
}
