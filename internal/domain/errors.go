package domain

import "errors"

// Kind classifies domain errors for callers that need to pick a response
// (HTTP status, retry, log level) without matching individual sentinels.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidPayload
	KindConflict
	KindNotFound
	KindAccessDenied
)

func (k Kind) String() string {
	switch k {
	case KindInvalidPayload:
		return "invalid_payload"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "resource_not_found"
	case KindAccessDenied:
		return "access_denied"
	default:
		return "internal"
	}
}

// Error is a classified domain error. Code is stable and used as the i18n
// message key; Message is the English fallback.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Domain errors.
var (
	ErrInvalidPayload      = newError(KindInvalidPayload, "invalid_payload", "no event information was provided")
	ErrMissingStartTime    = newError(KindInvalidPayload, "missing_start_time", "event start time is required")
	ErrMissingTitle        = newError(KindInvalidPayload, "missing_title", "event title is required")
	ErrInvalidEventType    = newError(KindInvalidPayload, "invalid_event_type", "unknown event type")
	ErrScheduleConflict    = newError(KindConflict, "schedule_conflict", "another event is scheduled within 30 minutes of this event")
	ErrVotingClosed        = newError(KindConflict, "voting_closed", "voting is closed once the event has started")
	ErrEventNotFound       = newError(KindNotFound, "event_not_found", "event not found")
	ErrUserNotFound        = newError(KindNotFound, "user_not_found", "user not found")
	ErrParticipantNotFound = newError(KindNotFound, "participant_not_found", "participant not found")
	ErrLessonPlanNotFound  = newError(KindNotFound, "lesson_plan_not_found", "lesson plan not found")
	ErrAddressNotFound     = newError(KindNotFound, "address_not_found", "address not found")
	ErrVoteNotFound        = newError(KindNotFound, "vote_not_found", "vote not found")
	ErrAccessDenied        = newError(KindAccessDenied, "access_denied", "current user is not authorized")
	ErrUnauthenticated     = newError(KindAccessDenied, "unauthenticated", "no authorization provided")
)

// KindOf returns the Kind of the first *Error found in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// Code returns the code of the first *Error in err's chain, or "".
func Code(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
