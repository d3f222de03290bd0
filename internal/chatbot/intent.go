// Package chatbot routes natural-language appointment commands. Intent
// detection is plain keyword matching over Korean utterances; anything that
// is not an appointment command falls through to the FAQ table and finally to
// the language model.
package chatbot

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Intent is the classified purpose of a chat utterance.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentCreateReservation
	IntentCancelReservation
	IntentUpdateReservation
	IntentQueryReservation
)

// String returns the metric label for the intent.
func (i Intent) String() string {
	switch i {
	case IntentCreateReservation:
		return "create_reservation"
	case IntentCancelReservation:
		return "cancel_reservation"
	case IntentUpdateReservation:
		return "update_reservation"
	case IntentQueryReservation:
		return "query_reservation"
	default:
		return "unknown"
	}
}

// Classify picks exactly one intent for the utterance. Precedence is
// Query > Update > Cancel > Create: "취소" and "변경" utterances also contain
// the generic reservation trigger word, so the more specific intents must be
// checked first.
func Classify(text string) Intent {
	if !strings.Contains(text, "예약") {
		return IntentUnknown
	}
	switch {
	case containsAny(text, "조회", "확인", "내역", "보여"):
		return IntentQueryReservation
	case containsAny(text, "변경", "수정", "바꿔"):
		return IntentUpdateReservation
	case strings.Contains(text, "취소"):
		return IntentCancelReservation
	default:
		return IntentCreateReservation
	}
}

func containsAny(text string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

var (
	dateRe    = regexp.MustCompile(`(\d{1,2})월\s*(\d{1,2})일`)
	hourRe    = regexp.MustCompile(`(\d{1,2})시`)
	oldHourRe = regexp.MustCompile(`(\d{1,2})시 예약[을]? `)
	newHourRe = regexp.MustCompile(`(\d{1,2})시로 바꿔`)
)

// defaultPurpose is assumed when the utterance does not state one.
const defaultPurpose = "진료"

// ReservationInfo is the extracted create/query/cancel payload.
type ReservationInfo struct {
	Date    string // YYYY-MM-DD
	Time    string // HH:00
	Purpose string
}

// UpdateInfo is the extracted reschedule payload.
type UpdateInfo struct {
	Date    string
	OldTime string
	NewTime string
	Purpose string
}

// ParseReservation extracts date and hour from an utterance like
// "7월 19일 16시에 예약해줘". The year is always now's calendar year; a
// December utterance naming a January date silently lands in the past year.
// Extraction is all-or-nothing: a missing sub-field yields ok=false.
func ParseReservation(text string, now time.Time) (ReservationInfo, bool) {
	dateM := dateRe.FindStringSubmatch(text)
	hourM := hourRe.FindStringSubmatch(text)
	if dateM == nil || hourM == nil {
		return ReservationInfo{}, false
	}
	return ReservationInfo{
		Date:    formatDate(now.Year(), atoi(dateM[1]), atoi(dateM[2])),
		Time:    formatHour(atoi(hourM[1])),
		Purpose: defaultPurpose,
	}, true
}

// ParseUpdate extracts date, old hour and new hour from an utterance like
// "7월 19일 16시 예약을 17시로 바꿔줘". Any deviation from that phrasing
// yields ok=false and the caller must re-prompt.
func ParseUpdate(text string, now time.Time) (UpdateInfo, bool) {
	dateM := dateRe.FindStringSubmatch(text)
	oldM := oldHourRe.FindStringSubmatch(text)
	newM := newHourRe.FindStringSubmatch(text)
	if dateM == nil || oldM == nil || newM == nil {
		return UpdateInfo{}, false
	}
	return UpdateInfo{
		Date:    formatDate(now.Year(), atoi(dateM[1]), atoi(dateM[2])),
		OldTime: formatHour(atoi(oldM[1])),
		NewTime: formatHour(atoi(newM[1])),
		Purpose: defaultPurpose,
	}, true
}

func formatDate(year, month, day int) string {
	return fmt.Sprintf("%d-%02d-%02d", year, month, day)
}

func formatHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// atoi is safe here: the regexes only capture digit runs.
func atoi(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
