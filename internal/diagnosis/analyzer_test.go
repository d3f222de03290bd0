package diagnosis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scancerlabs/scancer-platform/internal/llm"
)

type stubModel struct {
	reply string
	err   error
	last  llm.Request
}

func (s *stubModel) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	s.last = req
	if s.err != nil {
		return llm.Response{}, s.err
	}
	return llm.Response{Text: s.reply, StopReason: "end_turn"}, nil
}

func TestAnalyze(t *testing.T) {
	model := &stubModel{reply: `- 진단명: 멜라닌세포모반
- 위험도: 낮음
- 설명: 경계가 분명한 양성 색소성 병변입니다.
- 권장사항: 정기적으로 크기와 모양 변화를 관찰하세요.`}

	result, err := NewAnalyzer(model).Analyze(context.Background(), "image/jpeg", []byte{0xff, 0xd8})
	require.NoError(t, err)
	assert.Equal(t, "멜라닌세포모반", result.Diagnosis)
	assert.Equal(t, "낮음", result.RiskLevel)
	assert.Equal(t, "경계가 분명한 양성 색소성 병변입니다.", result.Description)
	assert.Equal(t, "정기적으로 크기와 모양 변화를 관찰하세요.", result.Recommendations)

	// The image travels inline and the label list is in the system prompt.
	require.NotNil(t, model.last.Image)
	assert.Equal(t, "image/jpeg", model.last.Image.MIMEType)
	require.Len(t, model.last.System, 1)
	assert.Contains(t, model.last.System[0], "악성흑색종")
}

func TestAnalyzeModelFailure(t *testing.T) {
	model := &stubModel{err: errors.New("quota exceeded")}

	_, err := NewAnalyzer(model).Analyze(context.Background(), "image/png", []byte{1})
	assert.Error(t, err)
}

func TestParseResultDefaults(t *testing.T) {
	r := parseResult("형식을 따르지 않은 응답")
	assert.Equal(t, "불명", r.Diagnosis)
	assert.Equal(t, "불명", r.RiskLevel)
	assert.Equal(t, "설명 없음", r.Description)
	assert.Equal(t, "권장사항 없음", r.Recommendations)
}

func TestParseResultPartial(t *testing.T) {
	r := parseResult(`- 진단명: 사마귀
- 위험도:
- 설명: 바이러스성 병변으로 보입니다.`)
	assert.Equal(t, "사마귀", r.Diagnosis)
	assert.Equal(t, "불명", r.RiskLevel)
	assert.Equal(t, "바이러스성 병변으로 보입니다.", r.Description)
	assert.Equal(t, "권장사항 없음", r.Recommendations)
}
