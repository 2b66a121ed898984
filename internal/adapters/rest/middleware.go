package rest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"trainingevents/internal/domain"
	"trainingevents/internal/domain/entities"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	actorKey        = "actor"
)

// RequestIDMiddleware propagates the caller's request ID or assigns one.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// JWTAuthMiddleware resolves the bearer token's subject (a username) into an
// actor. Requests without a token proceed anonymously; the services decide
// what anonymous callers may do. A bad token is rejected.
func (s *Server) JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			s.respondWithError(c, domain.ErrUnauthenticated)
			return
		}
		username, err := s.parseToken(raw)
		if err != nil {
			s.respondWithError(c, domain.ErrUnauthenticated)
			return
		}
		user, err := s.users.GetUserByUsername(c.Request.Context(), username)
		if errors.Is(err, domain.ErrUserNotFound) {
			s.respondWithError(c, domain.ErrUnauthenticated)
			return
		}
		if err != nil {
			s.respondWithError(c, err)
			return
		}
		c.Set(actorKey, &entities.Actor{UserID: user.ID, Role: user.Role})
		c.Next()
	}
}

func (s *Server) parseToken(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", err
	}
	subject, err := token.Claims.GetSubject()
	if err != nil {
		return "", err
	}
	if subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return subject, nil
}

// actorFrom returns nil for anonymous requests.
func actorFrom(c *gin.Context) *entities.Actor {
	v, ok := c.Get(actorKey)
	if !ok {
		return nil
	}
	actor, _ := v.(*entities.Actor)
	return actor
}
