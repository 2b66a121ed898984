package discord

import (
	"time"

	"trainingevents/internal/ports/input"
	"trainingevents/internal/ports/output"
)

// Handler handles Discord interactions using use cases. Discord usernames
// are looked up in the user directory to find the acting user.
type Handler struct {
	eventUseCase       input.EventUseCase
	participantUseCase input.ParticipantUseCase
	users              output.UserDirectory
	translator         output.Translator
	location           *time.Location
}

func NewHandler(
	eventUseCase input.EventUseCase,
	participantUseCase input.ParticipantUseCase,
	users output.UserDirectory,
	translator output.Translator,
	location *time.Location,
) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		eventUseCase:       eventUseCase,
		participantUseCase: participantUseCase,
		users:              users,
		translator:         translator,
		location:           location,
	}
}

func (h *Handler) t(locale, key string, data map[string]any) string {
	if h.translator == nil {
		return key
	}
	return h.translator.T(locale, key, data)
}
