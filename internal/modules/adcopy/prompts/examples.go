package prompts

import (
	"fmt"
	"math"
	"strings"

	types "github.com/yungbote/adcopy-backend/internal/domain"
)

const examplesHeader = "## 참고 광고 예시\n아래는 성과가 검증된 광고 문구입니다. 구조와 설득 기법을 참고하세요."

const examplesFooter = "위 예시의 문장을 그대로 복사하지 말고, 공식과 트리거를 응용해 새로운 문구를 작성하세요. " +
	"제품과 타깃에 맞게 톤을 조정하고, 예시에 없는 사실은 지어내지 마세요."

// BuildExamplesBlock renders selected examples for the generation prompt.
// An empty selection yields "", meaning no augmentation.
func BuildExamplesBlock(examples []*types.ReferenceExample) string {
	var items []*types.ReferenceExample
	for _, ex := range examples {
		if ex != nil {
			items = append(items, ex)
		}
	}
	if len(items) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(examplesHeader)
	b.WriteString("\n\n")
	for i, ex := range items {
		fmt.Fprintf(&b, "### 예시 %d [%s]\n", i+1, orDash(ex.Category))
		fmt.Fprintf(&b, "- 문구: %s\n", strings.TrimSpace(ex.CopyText))
		if ex.Headline != nil && strings.TrimSpace(*ex.Headline) != "" {
			fmt.Fprintf(&b, "- 헤드라인: %s\n", strings.TrimSpace(*ex.Headline))
		}
		fmt.Fprintf(&b, "- 공식: %s\n", orDash(ex.Formula))
		if triggers := ex.SortedTriggers(); len(triggers) > 0 {
			fmt.Fprintf(&b, "- 트리거: %s\n", strings.Join(triggers, ", "))
		} else {
			b.WriteString("- 트리거: -\n")
		}
		fmt.Fprintf(&b, "- 성과 점수: %d%%\n\n", scorePercent(ex.PerformanceScore))
	}
	b.WriteString(examplesFooter)
	return b.String()
}

func scorePercent(score float64) int {
	return int(math.Round(types.ClampScore(score) * 100))
}

func orDash(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "-"
	}
	return s
}
