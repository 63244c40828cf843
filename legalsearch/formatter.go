package legalsearch

import (
	"fmt"
	"strings"
)

// FormatReferences renders retrieved precedents and laws as a grounding block
// for the consultation system prompt. Returns the empty string when there is
// nothing to inject. Precedents always come before laws.
func FormatReferences(precedents []Precedent, laws []Law) string {
	if len(precedents) == 0 && len(laws) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n=== 관련 법률 자료 ===\n")

	if len(precedents) > 0 {
		b.WriteString("\n【판례】")
		for i, prec := range precedents {
			fmt.Fprintf(&b, "\n%d. %s", i+1, prec.Title)
			fmt.Fprintf(&b, "\n   사건번호: %s", prec.CaseNumber)
			fmt.Fprintf(&b, "\n   법원: %s (%s)", prec.Court, prec.Date)
			fmt.Fprintf(&b, "\n   요약: %s", prec.Summary)
		}
	}

	if len(laws) > 0 {
		b.WriteString("\n\n【관련 법령】")
		for i, law := range laws {
			fmt.Fprintf(&b, "\n%d. %s", i+1, law.Title)
			fmt.Fprintf(&b, "\n   시행일: %s", law.EnforcementDate)
			fmt.Fprintf(&b, "\n   내용: %s", law.Content)
		}
	}

	return b.String()
}
