package discord

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
)

// NewSession creates a bot session; it is not connected yet.
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return s, nil
}

// Bot is the Discord adapter: slash commands in, announcements out.
type Bot struct {
	session *discordgo.Session
	handler *Handler
}

func NewBot(session *discordgo.Session, handler *Handler) *Bot {
	bot := &Bot{session: session, handler: handler}
	bot.session.AddHandler(bot.handleInteraction)
	return bot
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type == discordgo.InteractionApplicationCommand {
		b.handler.HandleCommand(s, i)
	}
}

// Run opens the gateway, registers the commands and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	defer b.session.Close()

	for _, cmd := range Commands {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd); err != nil {
			log.Printf("⚠️ register command %s: %v", cmd.Name, err)
		}
	}
	log.Println("✅ Discord bot online")
	<-ctx.Done()
	return nil
}
