package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainingevents/internal/application"
	"trainingevents/internal/domain/entities"
	"trainingevents/internal/infrastructure/directory"
	"trainingevents/internal/infrastructure/i18n"
	"trainingevents/internal/infrastructure/memory"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	t      *testing.T
	server *Server
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := memory.NewStore()
	dir := directory.NewStatic(directory.Data{
		Users: []entities.User{
			{ID: 1, Username: "ada", DisplayName: "Ada", Role: entities.RoleAdmin},
			{ID: 2, Username: "ivan", DisplayName: "Ivan", Role: entities.RoleInstructor},
			{ID: 3, Username: "sam", DisplayName: "Sam", Role: entities.RoleStudent},
		},
		LessonPlans: []entities.LessonPlan{
			{ID: 1, Title: "Stalls", Presentable: true},
			{ID: 2, Title: "Steep turns", Presentable: true},
		},
	})
	deps := application.Dependencies{
		UnitOfWork:  store,
		Stores:      store.Stores(),
		Users:       dir,
		LessonPlans: dir,
		Addresses:   dir,
	}
	tr, err := i18n.NewTranslator("en")
	require.NoError(t, err)
	server := NewServer(Services{
		Events:       application.NewEventService(deps),
		Participants: application.NewParticipantService(deps),
		Votes:        application.NewVoteService(deps),
		Assignment:   application.NewAssignmentService(deps),
	}, dir, tr, testSecret)
	return &testAPI{t: t, server: server}
}

func bearer(t *testing.T, username string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": username,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func (a *testAPI) do(method, path, username string, body any, headers ...string) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if username != "" {
		req.Header.Set("Authorization", bearer(a.t, username))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	a.server.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (a *testAPI) createEvent(username string, req eventRequest) eventResponse {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/events", username, req)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[eventResponse](a.t, w)
}

func eventPath(id int64, suffix string) string {
	return "/api/events/" + strconv.FormatInt(id, 10) + suffix
}

func TestCreateEvent_Access(t *testing.T) {
	api := newTestAPI(t)
	start := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	req := eventRequest{Title: "Ground school", StartTime: start, Type: entities.EventTypeGroundSchool}

	created := api.createEvent("ivan", req)
	assert.NotZero(t, created.ID)
	assert.Equal(t, int64(2), created.LeadID)

	w := api.do(http.MethodPost, "/api/events", "sam", req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "access_denied", decode[ErrorResponse](t, w).Code)

	w = api.do(http.MethodPost, "/api/events", "", req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthenticated", decode[ErrorResponse](t, w).Code)

	w = api.do(http.MethodPost, "/api/events", "nobody", req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateEvent_ConflictIsLocalized(t *testing.T) {
	api := newTestAPI(t)
	start := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	api.createEvent("ada", eventRequest{Title: "First", StartTime: start, Type: entities.EventTypeOther})

	w := api.do(http.MethodPost, "/api/events", "ada",
		eventRequest{Title: "Second", StartTime: start.Add(10 * time.Minute), Type: entities.EventTypeOther},
		"Accept-Language", "fr-FR,fr;q=0.9")
	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decode[ErrorResponse](t, w)
	assert.Equal(t, "schedule_conflict", resp.Code)
	assert.Equal(t, "Un autre événement est prévu à moins de 30 minutes de celui-ci.", resp.Message)
}

func TestInvalidToken(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(http.MethodGet, "/api/events/upcoming/OTHER/3", "", nil, "Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestID(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(http.MethodGet, "/api/events/999", "ada", nil, requestIDHeader, "req-42")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "req-42", w.Header().Get(requestIDHeader))
	assert.Equal(t, "req-42", decode[ErrorResponse](t, w).RequestID)

	w = api.do(http.MethodGet, "/api/events/999", "ada", nil)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestUpcoming_Public(t *testing.T) {
	api := newTestAPI(t)
	start := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	api.createEvent("ada", eventRequest{Title: "Open", StartTime: start, Type: entities.EventTypeStudyGroup})
	api.createEvent("ada", eventRequest{Title: "Closed", StartTime: start.Add(time.Hour), Type: entities.EventTypeStudyGroup, Private: true})

	w := api.do(http.MethodGet, "/api/events/upcoming/STUDY_GROUP/5", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	events := decode[[]eventResponse](t, w)
	require.Len(t, events, 1)
	assert.Equal(t, "Open", events[0].Title)

	w = api.do(http.MethodGet, "/api/events/upcoming/PARTY/5", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = api.do(http.MethodGet, "/api/events/upcoming/OTHER/many", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParticipantFlow(t *testing.T) {
	api := newTestAPI(t)
	start := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	event := api.createEvent("ivan", eventRequest{
		Title:               "Night flying",
		StartTime:           start,
		Type:                entities.EventTypeFlightTraining,
		CheckinCodeRequired: true,
	})

	w := api.do(http.MethodPost, eventPath(event.ID, "/register/3"), "sam", nil)
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = api.do(http.MethodPost, eventPath(event.ID, "/register/2"), "sam", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodPost, eventPath(event.ID, "/rsvp/3?confirm=true"), "sam", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = api.do(http.MethodGet, eventPath(event.ID, "/rsvps"), "ivan", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{3}, decode[[]int64](t, w))

	w = api.do(http.MethodPost, eventPath(event.ID, "/start"), "ivan", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = api.do(http.MethodGet, eventPath(event.ID, "/checkincode"), "sam", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = api.do(http.MethodGet, eventPath(event.ID, "/checkincode"), "ivan", nil)
	require.Equal(t, http.StatusOK, w.Code)
	code := decode[map[string]string](t, w)["code"]
	require.Len(t, code, entities.CheckinCodeLength)

	w = api.do(http.MethodPost, eventPath(event.ID, "/checkin/3?code=0000"), "sam", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]bool{"checkedIn": false}, decode[map[string]bool](t, w))

	w = api.do(http.MethodPost, eventPath(event.ID, "/checkin/3?code="+code), "sam", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]bool{"checkedIn": true}, decode[map[string]bool](t, w))

	w = api.do(http.MethodGet, eventPath(event.ID, "/checkedin"), "ada", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{3}, decode[[]int64](t, w))

	w = api.do(http.MethodPut, eventPath(event.ID, "/member/3"), "ivan", map[string]bool{"member": true})
	require.Equal(t, http.StatusNoContent, w.Code)
	w = api.do(http.MethodGet, eventPath(event.ID, "/member/3"), "sam", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]bool{"member": true}, decode[map[string]bool](t, w))

	w = api.do(http.MethodGet, eventPath(event.ID, ""), "sam", nil)
	require.Equal(t, http.StatusOK, w.Code)
	details := decode[eventDetailsResponse](t, w)
	assert.True(t, details.Started)
	require.Len(t, details.Participants, 1)
	assert.Equal(t, "Sam", details.Participants[0].DisplayName)

	w = api.do(http.MethodGet, eventPath(event.ID, "/summary"), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	summary := decode[summaryResponse](t, w)
	assert.Equal(t, "Ivan", summary.Lead)
	assert.Equal(t, 1, summary.ParticipantCount)

	w = api.do(http.MethodPost, eventPath(event.ID, "/complete"), "ivan", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = api.do(http.MethodGet, eventPath(event.ID, "/checkincode"), "ivan", nil)
	assert.Equal(t, map[string]string{"code": ""}, decode[map[string]string](t, w))
}

func TestVoteAndAssign(t *testing.T) {
	api := newTestAPI(t)
	start := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	event := api.createEvent("ada", eventRequest{Title: "Maneuvers", StartTime: start, Type: entities.EventTypeGroundSchool})

	w := api.do(http.MethodPut, eventPath(event.ID, "/vote/3"), "sam", voteRequest{LessonPlanID: 2})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

	w = api.do(http.MethodPut, eventPath(event.ID, "/vote/3"), "sam", voteRequest{LessonPlanID: 99})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodPut, eventPath(event.ID, "/vote/3"), "sam", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/api/events/assign", "ivan", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodPost, "/api/events/assign", "ada", nil)
	require.Equal(t, http.StatusOK, w.Code)
	report := decode[assignmentResponse](t, w)
	assert.Equal(t, map[int64]int64{event.ID: 2}, report.Assigned)

	w = api.do(http.MethodGet, eventPath(event.ID, ""), "sam", nil)
	require.Equal(t, http.StatusOK, w.Code)
	details := decode[eventDetailsResponse](t, w)
	require.NotNil(t, details.LessonPlanID)
	assert.Equal(t, int64(2), *details.LessonPlanID)

	w = api.do(http.MethodDelete, eventPath(event.ID, "/vote/3"), "sam", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestUpdateAndDelete(t *testing.T) {
	api := newTestAPI(t)
	start := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	event := api.createEvent("ada", eventRequest{Title: "Draft", StartTime: start, Type: entities.EventTypeOther})

	w := api.do(http.MethodPut, eventPath(event.ID, ""), "ada",
		eventRequest{Title: "Final", StartTime: start, Type: entities.EventTypeSafetySeminar})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[eventResponse](t, w)
	assert.Equal(t, "Final", updated.Title)
	assert.Equal(t, entities.EventTypeSafetySeminar, updated.Type)

	w = api.do(http.MethodPut, eventPath(event.ID, ""), "ada", eventRequest{StartTime: start, Type: entities.EventTypeOther})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing_title", decode[ErrorResponse](t, w).Code)

	w = api.do(http.MethodGet, "/api/events", "ivan", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]eventResponse](t, w), 1)

	w = api.do(http.MethodDelete, eventPath(event.ID, ""), "ada", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = api.do(http.MethodGet, eventPath(event.ID, ""), "ada", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = api.do(http.MethodGet, "/api/events/abc", "ada", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
