package legalsearch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatReferencesEmpty(t *testing.T) {
	assert.Equal(t, "", FormatReferences(nil, nil))
	assert.Equal(t, "", FormatReferences([]Precedent{}, []Law{}))
}

func TestFormatReferencesPrecedentsOnly(t *testing.T) {
	precedents := []Precedent{
		{Title: "사기죄 판결", CaseNumber: "2021도5678", Court: "대법원", Date: "2021.03.11", Summary: "요약문"},
	}

	out := FormatReferences(precedents, nil)
	assert.Contains(t, out, "=== 관련 법률 자료 ===")
	assert.Contains(t, out, "【판례】")
	assert.Contains(t, out, "1. 사기죄 판결")
	assert.Contains(t, out, "사건번호: 2021도5678")
	assert.Contains(t, out, "법원: 대법원 (2021.03.11)")
	assert.Contains(t, out, "요약: 요약문")
	assert.NotContains(t, out, "【관련 법령】")
}

func TestFormatReferencesLawsOnly(t *testing.T) {
	laws := []Law{
		{Title: "전자금융거래법", LawID: "001234", EnforcementDate: "20240101", Content: "법령 내용"},
	}

	out := FormatReferences(nil, laws)
	assert.Contains(t, out, "【관련 법령】")
	assert.Contains(t, out, "1. 전자금융거래법")
	assert.Contains(t, out, "시행일: 20240101")
	assert.Contains(t, out, "내용: 법령 내용")
	assert.NotContains(t, out, "【판례】")
}

func TestFormatReferencesOrderAndNumbering(t *testing.T) {
	precedents := []Precedent{
		{Title: "첫째 판례"},
		{Title: "둘째 판례"},
	}
	laws := []Law{
		{Title: "첫째 법령"},
	}

	out := FormatReferences(precedents, laws)

	// Precedents always precede laws, numbered from one within each section.
	precIdx := strings.Index(out, "【판례】")
	lawIdx := strings.Index(out, "【관련 법령】")
	require.GreaterOrEqual(t, precIdx, 0)
	require.Greater(t, lawIdx, precIdx)

	assert.Contains(t, out, "1. 첫째 판례")
	assert.Contains(t, out, "2. 둘째 판례")
	assert.Contains(t, out, "1. 첫째 법령")
}
