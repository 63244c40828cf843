package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/LINKA-Service/ai/models"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompleter records every call and plays back canned responses.
type fakeCompleter struct {
	responses []string
	err       error

	calls     [][]openai.ChatCompletionMessage
	maxTokens []int
	temps     []float32
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []openai.ChatCompletionMessage, maxTokens int, temperature float32) (string, error) {
	f.calls = append(f.calls, messages)
	f.maxTokens = append(f.maxTokens, maxTokens)
	f.temps = append(f.temps, temperature)
	if f.err != nil {
		return "", f.err
	}
	idx := len(f.calls) - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return f.responses[idx], nil
}

func TestScreen(t *testing.T) {
	cases := []struct {
		output string
		want   models.CaseStatus
	}{
		{"통과", models.CaseStatusApproved},
		{"검토", models.CaseStatusPending},
		{"거부", models.CaseStatusRejected},
		// Anything outside the fixed literals must not silently approve.
		{"통과입니다", models.CaseStatusPending},
		{"approved", models.CaseStatusPending},
		{"", models.CaseStatusPending},
	}

	for _, tc := range cases {
		t.Run(tc.output, func(t *testing.T) {
			llm := &fakeCompleter{responses: []string{tc.output}}
			engine := NewScreeningEngine(llm)

			status, err := engine.Screen(context.Background(), models.CaseTypeRental, "전세 계약금을 송금한 뒤 연락이 끊겼습니다.", "전화:010-0000-0000")
			require.NoError(t, err)
			assert.Equal(t, tc.want, status)
		})
	}
}

func TestScreenPromptShape(t *testing.T) {
	llm := &fakeCompleter{responses: []string{"통과"}}
	engine := NewScreeningEngine(llm)

	_, err := engine.Screen(context.Background(), models.CaseTypeRomance, "피해 내용", "이름:홍길동")
	require.NoError(t, err)

	require.Len(t, llm.calls, 1)
	messages := llm.calls[0]
	require.Len(t, messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, messages[0].Role)
	assert.Equal(t, openai.ChatMessageRoleUser, messages[1].Role)
	assert.Equal(t, "statement: 피해 내용\nscammer_infos: 이름:홍길동\ncase_type: romance", messages[1].Content)
	assert.Equal(t, 50, llm.maxTokens[0])
	assert.InDelta(t, 0.5, llm.temps[0], 0.001)
}

func TestScreenError(t *testing.T) {
	llm := &fakeCompleter{err: ErrUnavailable}
	engine := NewScreeningEngine(llm)

	_, err := engine.Screen(context.Background(), models.CaseTypeDelivery, "내용", "없음")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestTitle(t *testing.T) {
	llm := &fakeCompleter{responses: []string{"중고거래 선입금 후 연락 두절 피해"}}
	engine := NewScreeningEngine(llm)

	title, err := engine.Title(context.Background(), "중고 거래 사이트에서 선입금을 했는데 판매자가 잠적했습니다.")
	require.NoError(t, err)
	assert.Equal(t, "중고거래 선입금 후 연락 두절 피해", title)

	require.Len(t, llm.calls, 1)
	assert.Equal(t, openai.ChatMessageRoleSystem, llm.calls[0][0].Role)
}

func TestTitleError(t *testing.T) {
	llm := &fakeCompleter{err: errors.New("timeout")}
	engine := NewScreeningEngine(llm)

	_, err := engine.Title(context.Background(), "내용")
	assert.Error(t, err)
}

func TestKeywordExtract(t *testing.T) {
	llm := &fakeCompleter{responses: []string{"전세사기 계약금 반환"}}
	extractor := NewKeywordExtractor(llm)

	keywords, err := extractor.Extract(context.Background(), models.CaseTypeRental, "전세 계약 피해", "보증금을 돌려받을 수 있나요?")
	require.NoError(t, err)
	assert.Equal(t, "전세사기 계약금 반환", keywords)

	require.Len(t, llm.calls, 1)
	assert.Equal(t, "사건 유형: 전세\n사건 내용: 전세 계약 피해\n질문: 보증금을 돌려받을 수 있나요?", llm.calls[0][1].Content)
	assert.InDelta(t, 0.3, llm.temps[0], 0.001)
}
