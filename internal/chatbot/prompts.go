package chatbot

import "strings"

// Domain is the counseling voice selected by the session-id prefix.
type Domain string

const (
	DomainNutrition Domain = "nutrition"
	DomainSkin      Domain = "skin"
	DomainHealth    Domain = "health"
	DomainGeneric   Domain = "generic"
)

// DomainOf maps a session id to its counseling domain.
func DomainOf(sessionID string) Domain {
	switch {
	case strings.HasPrefix(sessionID, "customer002"):
		return DomainNutrition
	case strings.HasPrefix(sessionID, "customer003"):
		return DomainSkin
	case strings.HasPrefix(sessionID, "customer004"):
		return DomainHealth
	default:
		return DomainGeneric
	}
}

const systemPreambleBase = "당신은 사용자의 질문에 답변하는 도우미입니다."

var systemPreambleByDomain = map[Domain]string{
	DomainNutrition: " 영양 상담 관련 질문에 전문적으로 답변해주세요.",
	DomainSkin:      " 피부진단 관련 질문에 전문적으로 답변해주세요.",
	DomainHealth:    " 건강 상담 관련 질문에 전문적으로 답변해주세요.",
}

// SystemPreamble builds the system message for a free-form LLM turn.
// profileContext, when non-empty, is appended so the model can personalize
// its answer.
func SystemPreamble(domain Domain, profileContext string) string {
	var b strings.Builder
	b.WriteString(systemPreambleBase)
	if suffix, ok := systemPreambleByDomain[domain]; ok {
		b.WriteString(suffix)
	}
	if profileContext != "" {
		b.WriteString("\n\n")
		b.WriteString(profileContext)
	}
	return b.String()
}

// apologies are returned, with HTTP success, whenever an external
// collaborator fails mid-turn. The chat surface never shows a hard error.
var apologies = map[Domain]string{
	DomainNutrition: "죄송합니다. 현재 서버에 문제가 있어 영양 상담 서비스를 제공할 수 없습니다. 다시 시도해주세요.",
	DomainSkin:      "죄송합니다. 현재 서버에 문제가 있어 피부진단 서비스를 제공할 수 없습니다. 다시 시도해주세요.",
	DomainHealth:    "죄송합니다. 현재 서버에 문제가 있어 건강 상담 서비스를 제공할 수 없습니다. 다시 시도해주세요.",
	DomainGeneric:   "죄송합니다. 현재 서버에 문제가 있습니다. 다시 시도해주세요.",
}

// Apology returns the per-domain degradation message.
func Apology(domain Domain) string {
	if msg, ok := apologies[domain]; ok {
		return msg
	}
	return apologies[DomainGeneric]
}
