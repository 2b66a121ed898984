package rest

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"trainingevents/internal/domain"
	"trainingevents/internal/domain/access"
	"trainingevents/internal/domain/entities"
)

func int64Param(c *gin.Context, name string) (int64, error) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, domain.ErrInvalidPayload
	}
	return v, nil
}

// eventAndUser parses the :id and :userId path parameters.
func eventAndUser(c *gin.Context) (eventID, userID int64, err error) {
	if eventID, err = int64Param(c, "id"); err != nil {
		return 0, 0, err
	}
	if userID, err = int64Param(c, "userId"); err != nil {
		return 0, 0, err
	}
	return eventID, userID, nil
}

func (s *Server) createEvent(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondWithError(c, domain.ErrInvalidPayload)
		return
	}
	event := req.toEntity(0)
	if err := s.Events.CreateEvent(c.Request.Context(), actorFrom(c), event); err != nil {
		s.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toEventResponse(*event))
}

func (s *Server) listEvents(c *gin.Context) {
	events, err := s.Events.ListEvents(c.Request.Context(), actorFrom(c))
	if err != nil {
		s.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEventResponses(events))
}

func (s *Server) getEvent(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		s.respondWithError(c, err)
		return
	}
	details, err := s.Events.GetEvent(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		s.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEventDetailsResponse(details))
}

func (s *Server) updateEvent(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		s.respondWithError(c, err)
		return
	}
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondWithError(c, domain.ErrInvalidPayload)
		return
	}
	event := req.toEntity(id)
	if err := s.Events.UpdateEvent(c.Request.Context(), actorFrom(c), event); err != nil {
		s.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEventResponse(*event))
}

func (s *Server) deleteEvent(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		s.respondWithError(c, err)
		return
	}
	if err := s.Events.DeleteEvent(c.Request.Context(), actorFrom(c), id); err != nil {
		s.respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) upcoming(c *gin.Context) {
	count, err := strconv.Atoi(c.Param("count"))
	if err != nil {
		s.respondWithError(c, domain.ErrInvalidPayload)
		return
	}
	events, err := s.Events.Upcoming(c.Request.Context(), entities.EventType(c.Param("type")), count)
	if err != nil {
		s.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEventResponses(events))
}

func (s *Server) summary(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		s.respondWithError(c, err)
		return
	}
	summary, err := s.Events.Summary(c.Request.Context(), id)
	if err != nil {
		s.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSummaryResponse(summary))
}

func (s *Server) supportingInstructors(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		s.respondWithError(c, err)
		return
	}
	ids, err := s.Events.SupportingInstructors(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		s.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ids)
}

func (s *Server) startEvent(c *gin.Context) {
	s.lifecycle(c, s.Events.StartEvent)
}

func (s *Server) completeEvent(c *gin.Context) {
	s.lifecycle(c, s.Events.CompleteEvent)
}

func (s *Server) lifecycle(c *gin.Context, transition func(ctx context.Context, actor *entities.Actor, id int64) error) {
	id, err := int64Param(c, "id")
	if err != nil {
		s.respondWithError(c, err)
		return
	}
	if err := transition(c.Request.Context(), actorFrom(c), id); err != nil {
		s.respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) checkinCode(c *gin.Context) {
	id, err := int64Param(c, "id")
	if err != nil {
		s.respondWithError(c, err)
		return
	}
	code, err := s.Events.GetCheckinCode(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		s.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": code})
}

func (s *Server) listCheckedIn(c *gin.Context) {
	s.listUsers(c, s.Participants.ListCheckedIn)
}

func (s *Server) listRSVPed(c *gin.Context) {
	s.listUsers(c, s.Participants.ListRSVPed)
}

func (s *Server) listParticipants(c *gin.Context) {
	s.listUsers(c, s.Participants.ListParticipants)
}

func (s *Server) listUsers(c *gin.Context, list func(ctx context.Context, actor *entities.Actor, eventID int64) ([]int64, error)) {
	id, err := int64Param(c, "id")
	if err != nil {
		s.respondWithError(c, err)
		return
	}
	ids, err := list(c.Request.Context(), actorFrom(c), id)
	if err != nil {
		s.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ids)
}

func (s *Server) register(c *gin.Context) {
	s.transition(c, s.Participants.Register)
}

func (s *Server) unregister(c *gin.Context) {
	s.transition(c, s.Participants.Unregister)
}

func (s *Server) transition(c *gin.Context, apply func(ctx context.Context, actor *entities.Actor, eventID, userID int64) error) {
	eventID, userID, err := eventAndUser(c)
	if err != nil {
		s.respondWithError(c, err)
		return
	}
	if err := apply(c.Request.Context(), actorFrom(c), eventID, userID); err != nil {
		s.respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) rsvp(c *gin.Context) {
	eventID, userID, err := eventAndUser(c)
	if err != nil {
		s.respondWithError(c, err)
		return
	}
	confirm, err := strconv.ParseBool(c.DefaultQuery("confirm", "true"))
	if err != nil {
		s.respondWithError(c, domain.ErrInvalidPayload)
		return
	}
	if err := s.Participants.RSVP(c.Request.Context(), actorFrom(c), eventID, userID, confirm); err != nil {
		s.respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) checkin(c *gin.Context) {
	eventID, userID, err := eventAndUser(c)
	if err != nil {
		s.respondWithError(c, err)
		return
	}
	ok, err := s.Participants.Checkin(c.Request.Context(), actorFrom(c), eventID, userID, c.Query("code"))
	if err != nil {
		s.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"checkedIn": ok})
}

func (s *Server) getMembership(c *gin.Context) {
	eventID, userID, err := eventAndUser(c)
	if err != nil {
		s.respondWithError(c, err)
		return
	}
	member, err := s.Participants.GetMembership(c.Request.Context(), actorFrom(c), eventID, userID)
	if err != nil {
		s.respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"member": member})
}

func (s *Server) setMembership(c *gin.Context) {
	eventID, userID, err := eventAndUser(c)
	if err != nil {
		s.respondWithError(c, err)
		return
	}
	var req membershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondWithError(c, domain.ErrInvalidPayload)
		return
	}
	if err := s.Participants.SetMembership(c.Request.Context(), actorFrom(c), eventID, userID, *req.Member); err != nil {
		s.respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) vote(c *gin.Context) {
	eventID, userID, err := eventAndUser(c)
	if err != nil {
		s.respondWithError(c, err)
		return
	}
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondWithError(c, domain.ErrInvalidPayload)
		return
	}
	if err := s.Votes.Vote(c.Request.Context(), actorFrom(c), eventID, userID, req.LessonPlanID); err != nil {
		s.respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) withdrawVote(c *gin.Context) {
	s.transition(c, s.Votes.WithdrawVote)
}

func (s *Server) runAssignment(c *gin.Context) {
	if err := access.Check(actorFrom(c), access.AdminOnly).Err(); err != nil {
		s.respondWithError(c, err)
		return
	}
	report, err := s.Assignment.Assign(c.Request.Context())
	if err != nil {
		s.respondWithError(c, err)
		return
	}
	resp := assignmentResponse{
		Assigned: report.Assigned,
		Skipped:  report.Skipped,
		Failed:   make(map[int64]string, len(report.Failed)),
	}
	if resp.Skipped == nil {
		resp.Skipped = []int64{}
	}
	for id, err := range report.Failed {
		resp.Failed[id] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}
