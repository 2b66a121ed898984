package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"

	"trainingevents/internal/adapters/discord"
	"trainingevents/internal/application"
	"trainingevents/internal/config"
	"trainingevents/internal/infrastructure/cache"
	"trainingevents/internal/infrastructure/database"
	"trainingevents/internal/infrastructure/directory"
	"trainingevents/internal/infrastructure/i18n"
	"trainingevents/internal/infrastructure/memory"
	"trainingevents/internal/ports/output"
	pkgdiscord "trainingevents/pkg/discord"
	"trainingevents/pkg/tz"
)

// app holds the wired adapters shared by the commands.
type app struct {
	deps        application.Dependencies
	users       output.UserDirectory
	translator  *i18n.Translator
	location    *time.Location
	session     *discordgo.Session
	closers     []func()
	events      *application.EventService
	participant *application.ParticipantService
	votes       *application.VoteService
	assignment  *application.AssignmentService
}

// newApp wires ports: output adapters -> application (use cases).
func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{}
	ok := false
	defer func() {
		if !ok {
			a.close()
		}
	}()

	var err error
	if a.location, err = tz.Load(cfg.DisplayTimezone); err != nil {
		return nil, err
	}
	if a.translator, err = i18n.NewTranslator(cfg.DefaultLocale); err != nil {
		return nil, err
	}

	switch cfg.Storage {
	case config.StorageMemory:
		store := memory.NewStore()
		a.deps.UnitOfWork, a.deps.Stores = store, store.Stores()
		log.Println("⚠️ using in-memory storage; data is lost on exit")
	default:
		pool, err := database.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		store := database.NewStore(pool)
		a.deps.UnitOfWork, a.deps.Stores = store, store.Stores()
	}

	if cfg.DirectoryFile != "" {
		static, err := directory.LoadFile(cfg.DirectoryFile)
		if err != nil {
			return nil, err
		}
		a.deps.Users, a.deps.LessonPlans, a.deps.Addresses = static, static, static
	} else {
		a.deps.Users = directory.NewUserClient(cfg.UsersURL, cfg.DirectoryTimeout)
		a.deps.LessonPlans = directory.NewLessonPlanClient(cfg.LessonPlansURL, cfg.DirectoryTimeout)
		a.deps.Addresses = directory.NewAddressClient(cfg.AddressesURL, cfg.DirectoryTimeout)
	}
	a.users = a.deps.Users

	if cfg.RedisURL != "" {
		rc := cache.NewRedisCache(cache.Options{Addr: cfg.RedisURL, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err := rc.Ping(ctx); err != nil {
			log.Printf("⚠️ redis unavailable, cache disabled: %v", err)
			_ = rc.Close()
		} else {
			a.deps.Cache = rc
			a.closers = append(a.closers, func() { _ = rc.Close() })
			log.Println("✅ Redis cache connected")
		}
	}

	if cfg.DiscordToken != "" {
		if a.session, err = discord.NewSession(cfg.DiscordToken); err != nil {
			return nil, err
		}
		a.deps.Announcer = discord.NewAnnouncer(a.session, cfg.DiscordChannelID, pkgdiscord.Messages{
			Translator: a.translator,
			Locale:     cfg.DefaultLocale,
			Location:   a.location,
		})
	}

	a.events = application.NewEventService(a.deps)
	a.participant = application.NewParticipantService(a.deps)
	a.votes = application.NewVoteService(a.deps)
	a.assignment = application.NewAssignmentService(a.deps)
	ok = true
	return a, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
