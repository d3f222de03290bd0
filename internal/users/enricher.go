package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/scancerlabs/scancer-platform/internal/schedules"
)

// recentScheduleLimit caps how much calendar context goes into the prompt.
const recentScheduleLimit = 3

// Enricher renders a short profile summary for the chat system preamble.
// Either collaborator may be nil; missing pieces are simply left out.
type Enricher struct {
	users     *Repository
	schedules *schedules.Repository
}

func NewEnricher(users *Repository, scheds *schedules.Repository) *Enricher {
	return &Enricher{users: users, schedules: scheds}
}

// ProfileContext summarizes the user for prompt injection. An unknown user
// yields an empty summary, not an error.
func (e *Enricher) ProfileContext(ctx context.Context, userID int64) (string, error) {
	var b strings.Builder

	if e.users != nil {
		u, err := e.users.GetByID(ctx, userID)
		if err == nil {
			fmt.Fprintf(&b, "사용자 이름: %s.", u.Name)
			if u.Birth != "" {
				fmt.Fprintf(&b, " 생년월일: %s.", u.Birth)
			}
		} else if !errors.Is(err, ErrUserNotFound) {
			return "", err
		}
	}

	if e.schedules != nil {
		recent, err := e.schedules.Recent(ctx, userID, recentScheduleLimit)
		if err != nil {
			return "", err
		}
		if len(recent) > 0 {
			b.WriteString(" 최근 일정:")
			for _, s := range recent {
				fmt.Fprintf(&b, " %s %s %s.", s.Date, s.Time, s.Title)
			}
		}
	}

	return strings.TrimSpace(b.String()), nil
}
