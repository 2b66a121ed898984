package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"trainingevents/internal/domain"
	"trainingevents/internal/domain/entities"
	pkgdiscord "trainingevents/pkg/discord"
)

const commandTimeout = 10 * time.Second

var eventTypeChoices = []*discordgo.ApplicationCommandOptionChoice{
	{Name: "Ground school", Value: string(entities.EventTypeGroundSchool)},
	{Name: "Flight training", Value: string(entities.EventTypeFlightTraining)},
	{Name: "Safety seminar", Value: string(entities.EventTypeSafetySeminar)},
	{Name: "Study group", Value: string(entities.EventTypeStudyGroup)},
	{Name: "Other", Value: string(entities.EventTypeOther)},
}

// Commands are the slash commands the bot registers.
var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "upcoming",
		Description: "List upcoming public events",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionString, Name: "type", Description: "Event type", Required: true, Choices: eventTypeChoices},
			{Type: discordgo.ApplicationCommandOptionInteger, Name: "count", Description: "How many (max 10)"},
		},
	},
	{
		Name:        "summary",
		Description: "Show an event summary",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionInteger, Name: "event", Description: "Event ID", Required: true},
		},
	},
	{
		Name:        "checkin",
		Description: "Check in to a started event",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionInteger, Name: "event", Description: "Event ID", Required: true},
			{Type: discordgo.ApplicationCommandOptionString, Name: "code", Description: "Check-in code"},
		},
	},
}

func optionMap(data discordgo.ApplicationCommandInteractionData) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	opts := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(data.Options))
	for _, o := range data.Options {
		opts[o.Name] = o
	}
	return opts
}

// HandleCommand dispatches a slash command.
func (h *Handler) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	data := i.ApplicationCommandData()
	opts := optionMap(data)
	locale := string(i.Locale)

	var content string
	switch data.Name {
	case "upcoming":
		content = h.upcoming(ctx, locale, opts)
	case "summary":
		content = h.summary(ctx, locale, opts)
	case "checkin":
		content = h.checkin(ctx, locale, interactionUser(i.Interaction), opts)
	default:
		return
	}
	respondEphemeral(s, i.Interaction, content)
}

func (h *Handler) upcoming(ctx context.Context, locale string, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) string {
	count := 0
	if o, ok := opts["count"]; ok {
		count = int(o.IntValue())
	}
	eventType := entities.EventType(opts["type"].StringValue())
	events, err := h.eventUseCase.Upcoming(ctx, eventType, count)
	if err != nil {
		return h.errorMessage(locale, err)
	}
	if len(events) == 0 {
		return h.t(locale, "bot.no_upcoming", nil)
	}
	return formatUpcoming(events, h.location)
}

func (h *Handler) summary(ctx context.Context, locale string, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) string {
	summary, err := h.eventUseCase.Summary(ctx, opts["event"].IntValue())
	if err != nil {
		return h.errorMessage(locale, err)
	}
	return formatSummary(summary, h.location)
}

func (h *Handler) checkin(ctx context.Context, locale string, user *discordgo.User, opts map[string]*discordgo.ApplicationCommandInteractionDataOption) string {
	if user == nil {
		return h.errorMessage(locale, domain.ErrUnauthenticated)
	}
	member, err := h.users.GetUserByUsername(ctx, user.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return h.t(locale, "bot.unknown_user", map[string]any{"Username": user.Username})
		}
		return h.errorMessage(locale, err)
	}
	actor := &entities.Actor{UserID: member.ID, Role: member.Role}
	code := ""
	if o, ok := opts["code"]; ok {
		code = o.StringValue()
	}
	ok, err := h.participantUseCase.Checkin(ctx, actor, opts["event"].IntValue(), member.ID, code)
	if err != nil {
		return h.errorMessage(locale, err)
	}
	if !ok {
		return "❌ " + h.t(locale, "bot.checkin_failed", nil)
	}
	return "✅ " + h.t(locale, "bot.checkin_ok", nil)
}

func (h *Handler) errorMessage(locale string, err error) string {
	code := domain.Code(err)
	if code == "" {
		log.Printf("❌ discord command: %v", err)
		code = "internal"
	}
	return "⚠️ " + h.t(locale, code, nil)
}

func formatUpcoming(events []entities.Event, loc *time.Location) string {
	var b strings.Builder
	for _, e := range events {
		fmt.Fprintf(&b, "**#%d %s** • %s\n", e.ID, e.Title, pkgdiscord.FormatEventDateTime(e.StartTime, loc))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatSummary(s *entities.EventSummary, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n%s", s.Title, pkgdiscord.FormatEventDateTime(s.StartTime, loc))
	if s.Lead != "" {
		fmt.Fprintf(&b, "\n👤 %s", s.Lead)
	}
	fmt.Fprintf(&b, "\n👥 %d", s.ParticipantCount)
	if s.Address != nil {
		fmt.Fprintf(&b, "\n📍 %s, %s", s.Address.Name, s.Address.City)
	}
	for _, l := range s.Lessons {
		fmt.Fprintf(&b, "\n- %s", l)
	}
	return b.String()
}
