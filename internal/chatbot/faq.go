package chatbot

import "strings"

// faqEntries is the keyword knowledge base checked after every appointment
// intent has been ruled out. First matching key wins; order matters because
// keys can overlap with longer user phrasings.
var faqEntries = []struct {
	keyword string
	answer  string
}{
	{"예약 취소", "예약을 취소하려면 마이페이지 > 예약 내역에서 취소 버튼을 누르세요."},
	{"예약 방법", "예약은 챗봇에게 '7월 19일 16시에 예약해줘'라고 입력하면 됩니다."},
	{"운영 시간", "병원 운영 시간은 평일 09:00~18:00, 토요일 09:00~13:00입니다."},
	{"진료 과목", "피부과, 내과, 정형외과 진료가 가능합니다."},
}

// LookupFAQ returns the canned answer for the first FAQ keyword contained in
// the utterance.
func LookupFAQ(text string) (string, bool) {
	for _, e := range faqEntries {
		if strings.Contains(text, e.keyword) {
			return e.answer, true
		}
	}
	return "", false
}
