package diagnosis

import (
	"context"
	"fmt"
	"strings"

	"github.com/scancerlabs/scancer-platform/internal/llm"
)

// skinConditions is the closed label set the model must diagnose within.
var skinConditions = []string{
	"광선각화증", "기저세포암", "멜라닌세포모반", "보웬병", "비립종", "사마귀",
	"악성흑색종", "지루각화증", "편평세포암", "표피낭종", "피부선유종",
	"피지샘증식증", "흑관종", "화상 상아종", "흑색점",
}

const analyzePrompt = "이 피부 이미지를 분석하여 위의 형식으로 진단해주세요."

// Result is the parsed diagnosis. Every field is filled; the model's
// instructed fallback values stand in when a line is missing.
type Result struct {
	Diagnosis       string `json:"diagnosis"`
	RiskLevel       string `json:"risk_level"`
	Description     string `json:"description"`
	Recommendations string `json:"recommendations"`
}

// Analyzer runs the dermatologist vision prompt against the model.
type Analyzer struct {
	model llm.Client
}

func NewAnalyzer(model llm.Client) *Analyzer {
	if model == nil {
		panic("diagnosis: model client is required")
	}
	return &Analyzer{model: model}
}

func systemPrompt() string {
	return fmt.Sprintf(`당신은 전문 피부과 의사입니다.
아래 피부 질환 중에서 가장 유사한 것을 진단하고, 반드시 **한국어**로만 답변하세요.

피부 질환 목록: %s

아래 형식으로만, 빈 값이라도 모두 채워서 답변하세요:
- 진단명: [가장 유사한 피부 질환명, 없으면 '불명']
- 위험도: [낮음/보통/높음/위험, 없으면 '불명']
- 설명: [진단 근거와 특징 설명, 없으면 '설명 없음']
- 권장사항: [치료 및 관리 방법, 없으면 '권장사항 없음']

다른 말은 절대 하지 마세요. 반드시 위의 형식과 한국어만 사용하세요.
`, strings.Join(skinConditions, ", "))
}

// Analyze diagnoses the image and parses the model's formatted reply.
func (a *Analyzer) Analyze(ctx context.Context, mimeType string, image []byte) (*Result, error) {
	resp, err := a.model.Complete(ctx, llm.Request{
		System: []string{systemPrompt()},
		Messages: []llm.ChatMessage{
			{Role: llm.RoleUser, Content: analyzePrompt},
		},
		Image:       &llm.ImageInput{MIMEType: mimeType, Data: image},
		MaxTokens:   1024,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("diagnosis: model call failed: %w", err)
	}
	return parseResult(resp.Text), nil
}

// parseResult extracts the labelled lines from the model output. Missing
// lines fall back to the prompt's own placeholder values.
func parseResult(text string) *Result {
	r := &Result{
		Diagnosis:       "불명",
		RiskLevel:       "불명",
		Description:     "설명 없음",
		Recommendations: "권장사항 없음",
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-"))
		label, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		switch strings.TrimSpace(label) {
		case "진단명":
			r.Diagnosis = value
		case "위험도":
			r.RiskLevel = value
		case "설명":
			r.Description = value
		case "권장사항":
			r.Recommendations = value
		}
	}
	return r
}
