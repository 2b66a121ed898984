package rest

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"trainingevents/internal/domain"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindInvalidPayload:
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindAccessDenied:
		if errors.Is(err, domain.ErrUnauthenticated) {
			return http.StatusUnauthorized
		}
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError renders err with a message localized from the request's
// Accept-Language header. Internal errors are logged and never echoed.
func (s *Server) respondWithError(c *gin.Context, err error) {
	if domain.KindOf(err) == domain.KindAccessDenied && actorFrom(c) == nil {
		err = domain.ErrUnauthenticated
	}
	status := statusFor(err)
	code := domain.Code(err)
	if code == "" {
		code = "internal"
	}
	if status == http.StatusInternalServerError {
		log.Printf("❌ %s %s [%s]: %v", c.Request.Method, c.FullPath(), requestID(c), err)
	}
	message := code
	if s.translator != nil {
		message = s.translator.T(c.GetHeader("Accept-Language"), code, nil)
	}
	if message == code {
		var de *domain.Error
		if errors.As(err, &de) {
			message = de.Message
		}
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     http.StatusText(status),
		Code:      code,
		Message:   message,
		RequestID: requestID(c),
	})
}
