// Package discord builds the embeds posted by the announcer.
package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"trainingevents/internal/domain/entities"
	"trainingevents/internal/ports/output"
)

const (
	startedColor  = 0x57F287
	assignedColor = 0x5865F2
)

// Messages localizes embed text.
type Messages struct {
	Translator output.Translator
	Locale     string
	Location   *time.Location
}

func (m Messages) t(key string, data map[string]any) string {
	if m.Translator == nil {
		return key
	}
	return m.Translator.T(m.Locale, key, data)
}

func (m Messages) startsAt(t time.Time) *discordgo.MessageEmbedField {
	return &discordgo.MessageEmbedField{
		Name:   m.t("announce.starts_at", nil),
		Value:  fmt.Sprintf("%s (%s)", FormatEventDateTime(t, m.Location), Timestamp(t)),
		Inline: true,
	}
}

// BuildEventStartedEmbed announces a started event, with its check-in code
// when one was issued.
func BuildEventStartedEmbed(event entities.Event, m Messages) *discordgo.MessageEmbed {
	var b strings.Builder
	b.WriteString(m.t("announce.event_started", map[string]any{"Title": event.Title}))
	if event.CheckinCode != "" {
		b.WriteString("\n\n**")
		b.WriteString(m.t("announce.checkin_code", map[string]any{"Code": event.CheckinCode}))
		b.WriteString("**")
	}
	return &discordgo.MessageEmbed{
		Title:       "🛫 " + event.Title,
		Description: b.String(),
		Color:       startedColor,
		Fields:      []*discordgo.MessageEmbedField{m.startsAt(event.StartTime)},
		Footer:      &discordgo.MessageEmbedFooter{Text: string(event.Type)},
	}
}

// BuildLessonPlanAssignedEmbed announces the lesson plan chosen for an
// event, listing its lessons.
func BuildLessonPlanAssignedEmbed(event entities.Event, plan entities.LessonPlan, m Messages) *discordgo.MessageEmbed {
	var b strings.Builder
	b.WriteString(m.t("announce.lesson_plan_assigned", map[string]any{"Title": event.Title, "LessonPlan": plan.Title}))
	if lessons := plan.LessonTitles(); len(lessons) > 0 {
		b.WriteString("\n")
		for _, l := range lessons {
			b.WriteString("\n- ")
			b.WriteString(l)
		}
	}
	return &discordgo.MessageEmbed{
		Title:       "📚 " + plan.Title,
		Description: b.String(),
		Color:       assignedColor,
		Fields:      []*discordgo.MessageEmbedField{m.startsAt(event.StartTime)},
		Footer:      &discordgo.MessageEmbedFooter{Text: string(event.Type)},
	}
}
