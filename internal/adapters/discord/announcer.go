package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"trainingevents/internal/domain/entities"
	"trainingevents/internal/ports/output"
	pkgdiscord "trainingevents/pkg/discord"
)

var _ output.Announcer = (*Announcer)(nil)

// embedSender is the part of *discordgo.Session the announcer uses.
type embedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Announcer posts event notices to one channel.
type Announcer struct {
	sender    embedSender
	channelID string
	messages  pkgdiscord.Messages
}

func NewAnnouncer(sender embedSender, channelID string, messages pkgdiscord.Messages) *Announcer {
	return &Announcer{sender: sender, channelID: channelID, messages: messages}
}

func (a *Announcer) EventStarted(ctx context.Context, event entities.Event) error {
	return a.send(ctx, pkgdiscord.BuildEventStartedEmbed(event, a.messages))
}

func (a *Announcer) LessonPlanAssigned(ctx context.Context, event entities.Event, plan entities.LessonPlan) error {
	return a.send(ctx, pkgdiscord.BuildLessonPlanAssignedEmbed(event, plan, a.messages))
}

func (a *Announcer) send(ctx context.Context, embed *discordgo.MessageEmbed) error {
	if _, err := a.sender.ChannelMessageSendEmbed(a.channelID, embed, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("send embed to %s: %w", a.channelID, err)
	}
	return nil
}
