package rest

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"trainingevents/internal/ports/input"
	"trainingevents/internal/ports/output"
)

const shutdownTimeout = 10 * time.Second

// Services are the use cases exposed over HTTP.
type Services struct {
	Events       input.EventUseCase
	Participants input.ParticipantUseCase
	Votes        input.VoteUseCase
	Assignment   input.AssignmentUseCase
}

// Server is the gin HTTP front of the event services.
type Server struct {
	Services
	users      output.UserDirectory
	translator output.Translator
	jwtSecret  []byte
	engine     *gin.Engine
}

func NewServer(services Services, users output.UserDirectory, translator output.Translator, jwtSecret string) *Server {
	s := &Server{
		Services:   services,
		users:      users,
		translator: translator,
		jwtSecret:  []byte(jwtSecret),
		engine:     gin.New(),
	}
	s.engine.Use(gin.Logger(), gin.Recovery(), RequestIDMiddleware(), s.JWTAuthMiddleware())
	s.setupRoutes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) setupRoutes() {
	events := s.engine.Group("/api/events")
	{
		events.POST("", s.createEvent)
		events.GET("", s.listEvents)
		events.POST("/assign", s.runAssignment)
		events.GET("/upcoming/:type/:count", s.upcoming)

		events.GET("/:id", s.getEvent)
		events.PUT("/:id", s.updateEvent)
		events.DELETE("/:id", s.deleteEvent)
		events.GET("/:id/summary", s.summary)
		events.GET("/:id/instructors", s.supportingInstructors)
		events.POST("/:id/start", s.startEvent)
		events.POST("/:id/complete", s.completeEvent)
		events.GET("/:id/checkincode", s.checkinCode)
		events.GET("/:id/checkedin", s.listCheckedIn)
		events.GET("/:id/rsvps", s.listRSVPed)
		events.GET("/:id/participants", s.listParticipants)

		events.POST("/:id/register/:userId", s.register)
		events.POST("/:id/unregister/:userId", s.unregister)
		events.POST("/:id/rsvp/:userId", s.rsvp)
		events.POST("/:id/checkin/:userId", s.checkin)
		events.GET("/:id/member/:userId", s.getMembership)
		events.PUT("/:id/member/:userId", s.setMembership)
		events.PUT("/:id/vote/:userId", s.vote)
		events.DELETE("/:id/vote/:userId", s.withdrawVote)
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("✅ HTTP server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Println("✅ HTTP server stopped")
	return nil
}
