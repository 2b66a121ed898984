package discord

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainingevents/internal/application"
	"trainingevents/internal/domain/entities"
	"trainingevents/internal/infrastructure/directory"
	"trainingevents/internal/infrastructure/i18n"
	"trainingevents/internal/infrastructure/memory"
	pkgdiscord "trainingevents/pkg/discord"
)

type recordingSender struct {
	channelID string
	embeds    []*discordgo.MessageEmbed
	err       error
}

func (r *recordingSender) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.channelID = channelID
	r.embeds = append(r.embeds, embed)
	return &discordgo.Message{}, nil
}

func TestAnnouncer(t *testing.T) {
	tr, err := i18n.NewTranslator("en")
	require.NoError(t, err)
	sender := &recordingSender{}
	a := NewAnnouncer(sender, "chan-1", pkgdiscord.Messages{Translator: tr, Locale: "en", Location: time.UTC})
	ctx := context.Background()

	event := entities.Event{ID: 1, Title: "Stalls", StartTime: time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC), CheckinCode: "K7QZ"}
	require.NoError(t, a.EventStarted(ctx, event))
	require.NoError(t, a.LessonPlanAssigned(ctx, event, entities.LessonPlan{ID: 3, Title: "Stall recovery"}))

	assert.Equal(t, "chan-1", sender.channelID)
	require.Len(t, sender.embeds, 2)
	assert.Contains(t, sender.embeds[0].Description, "Stalls has started.")
	assert.Contains(t, sender.embeds[0].Description, "Check-in code: K7QZ")
	assert.Equal(t, "Stalls will cover Stall recovery.", sender.embeds[1].Description)

	sender.err = errors.New("rate limited")
	assert.Error(t, a.EventStarted(ctx, event))
}

func intOption(name string, v int64) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionInteger, Value: float64(v)}
}

func stringOption(name, v string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionString, Value: v}
}

func newTestHandler(t *testing.T) (*Handler, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	dir := directory.NewStatic(directory.Data{Users: []entities.User{
		{ID: 3, Username: "sam", DisplayName: "Sam", Role: entities.RoleStudent},
	}})
	deps := application.Dependencies{UnitOfWork: store, Stores: store.Stores(), Users: dir, LessonPlans: dir, Addresses: dir}
	tr, err := i18n.NewTranslator("en")
	require.NoError(t, err)
	h := NewHandler(application.NewEventService(deps), application.NewParticipantService(deps), dir, tr, time.UTC)
	return h, store
}

func TestHandler_Checkin(t *testing.T) {
	h, store := newTestHandler(t)
	ctx := context.Background()
	event := entities.Event{Title: "Night flying", Type: entities.EventTypeFlightTraining, StartTime: time.Now().Add(time.Hour), LeadID: 3}
	require.NoError(t, store.Stores().Events.Create(ctx, &event))
	require.NoError(t, store.Stores().Participants.Save(ctx, &entities.Participant{EventID: event.ID, UserID: 3}))

	sam := &discordgo.User{Username: "sam"}
	opts := map[string]*discordgo.ApplicationCommandInteractionDataOption{"event": intOption("event", event.ID)}

	assert.Equal(t, "✅ You are checked in.", h.checkin(ctx, "en-US", sam, opts))
	assert.Contains(t, h.checkin(ctx, "en-US", sam, opts), "❌")
	assert.Equal(t, "No member is registered as ghost.", h.checkin(ctx, "en-US", &discordgo.User{Username: "ghost"}, opts))

	opts["event"] = intOption("event", 999)
	assert.Equal(t, "⚠️ Event not found.", h.checkin(ctx, "en-US", sam, opts))
}

func TestHandler_Upcoming(t *testing.T) {
	h, store := newTestHandler(t)
	ctx := context.Background()
	opts := map[string]*discordgo.ApplicationCommandInteractionDataOption{"type": stringOption("type", "STUDY_GROUP")}
	assert.Equal(t, "Aucun événement à venir.", h.upcoming(ctx, "fr", opts))

	start := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Minute)
	event := entities.Event{Title: "Weather", Type: entities.EventTypeStudyGroup, StartTime: start, LeadID: 3}
	require.NoError(t, store.Stores().Events.Create(ctx, &event))
	assert.Equal(t, formatUpcoming([]entities.Event{event}, time.UTC), h.upcoming(ctx, "en", opts))
}

func TestFormatSummary(t *testing.T) {
	s := &entities.EventSummary{
		Title:            "Stalls",
		StartTime:        time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC),
		Lead:             "Ivan",
		ParticipantCount: 4,
		Lessons:          []string{"Power-off"},
		Address:          &entities.Address{Name: "Hangar 2", City: "Toulouse"},
	}
	assert.Equal(t, "**Stalls**\n02/05/2026 09:00 UTC\n👤 Ivan\n👥 4\n📍 Hangar 2, Toulouse\n- Power-off", formatSummary(s, time.UTC))
}
