package entities

import "time"

type SessionStatus string

const (
	SessionStatusDraft     SessionStatus = "draft"
	SessionStatusActive    SessionStatus = "active"
	SessionStatusPaused    SessionStatus = "paused"
	SessionStatusCompleted SessionStatus = "completed"
)

type ResponseOrigin string

const (
	OriginHuman     ResponseOrigin = "human"
	OriginTimerAuto ResponseOrigin = "timer_auto"
	OriginAIAssist  ResponseOrigin = "ai_assist"
)

// Turn durations supported by the countdown, in seconds. Zero disables the
// countdown entirely.
const (
	TurnSecondsRapid   = 15
	TurnSecondsNormal  = 30
	TurnSecondsRelaxed = 60
	TurnSecondsOff     = 0
)

func IsSupportedTurnSeconds(value int) bool {
	switch value {
	case TurnSecondsRapid, TurnSecondsNormal, TurnSecondsRelaxed, TurnSecondsOff:
		return true
	default:
		return false
	}
}

type TurnResponse struct {
	BlankIndex    int
	Tag           string
	Text          string
	ContributorID string
	SubmittedAt   time.Time
	Origin        ResponseOrigin
}

// Session is one collaborative fill-in round over a template. Responses grow
// in lockstep with CurrentTurnIndex; a session completes exactly when every
// blank is filled and never mutates afterwards.
type Session struct {
	SessionID        string
	HostID           string
	Title            string
	Genre            string
	TemplateID       string
	Status           SessionStatus
	Participants     []string
	CurrentTurnIndex int
	TotalTurns       int
	Responses        []TurnResponse
	TurnSeconds      int
	CreatedAt        time.Time
	UpdatedAt        time.Time
	StartedAt        *time.Time
	PausedAt         *time.Time
	ResumedAt        *time.Time
	CompletedAt      *time.Time
}

func (s Session) IsTerminal() bool {
	return s.Status == SessionStatusCompleted
}

// HasParticipant reports membership; the participant list is ordered by
// first contribution and never holds duplicates.
func (s Session) HasParticipant(userID string) bool {
	for _, participant := range s.Participants {
		if participant == userID {
			return true
		}
	}
	return false
}

// TurnDeadline is the persisted countdown for a session's current turn,
// swept by the worker after process restarts.
type TurnDeadline struct {
	SessionID string
	TurnIndex int
	ExpiresAt time.Time
}
