package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"Child_Shield/internal/handler"
	"Child_Shield/internal/model"
	"Child_Shield/internal/pkg"
	"Child_Shield/internal/repository/memory"
	"Child_Shield/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokenAuth accepts "Bearer <name>" for the users it knows.
type tokenAuth map[string]service.Actor

func (a tokenAuth) Authenticate(_ context.Context, token string) (service.Actor, error) {
	actor, ok := a[token]
	if !ok {
		return service.Actor{}, &service.Error{Kind: service.ErrUnauthorized, Message: "token invalid"}
	}
	return actor, nil
}

type testServer struct {
	engine      *gin.Engine
	reports     *memory.Reports
	discussions *memory.Discussions
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := memory.NewUsers(
		model.User{ID: 1, Username: "alice", Email: "alice@example.org"},
		model.User{ID: 2, Username: "bob", Email: "bob@example.org"},
		model.User{ID: 9, Username: "root", Email: "root@example.org", Role: model.RoleAdmin},
	)
	reports := memory.NewReports()
	discussions := memory.NewDiscussions()

	engine := InitRouter(Deps{
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		RequestTimeout: time.Second,
		Users: service.NewUserService(users, memory.NewSessions(),
			pkg.NewTokenIssuer("a", "r", time.Minute, time.Hour)),
		Discussions: service.NewDiscussionService(discussions, users),
		Reports:     service.NewCaseReportService(reports),
		Events:      service.NewEventService(memory.NewEvents()),
		Auth: tokenAuth{
			"alice": {UserID: 1},
			"bob":   {UserID: 2},
			"root":  {UserID: 9, Role: model.RoleAdmin},
		},
		Checks: map[string]handler.Check{
			"mongo": func(context.Context) error { return nil },
		},
	})
	return &testServer{engine: engine, reports: reports, discussions: discussions}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type discussionResp struct {
	ID        string   `json:"id"`
	Type      string   `json:"type"`
	Hashtag   *string  `json:"hashtag"`
	Link      *string  `json:"link"`
	Likes     []uint64 `json:"likes"`
	Attendees []struct {
		UserID uint64 `json:"userId"`
	} `json:"attendees"`
}

func attendeeIDs(d discussionResp) []uint64 {
	ids := []uint64{}
	for _, a := range d.Attendees {
		ids = append(ids, a.UserID)
	}
	return ids
}

func TestForumScenario(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/discussions", "alice", map[string]string{
		"type": "Forum", "title": "Meetup", "description": "x", "link": "http://x",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[discussionResp](t, w)
	require.NotNil(t, created.Link)
	assert.Equal(t, "http://x", *created.Link)
	assert.Nil(t, created.Hashtag)
	assert.NotContains(t, w.Body.String(), `"hashtag"`)

	base := "/api/discussions/" + created.ID

	w = s.do(t, http.MethodPost, base+"/attend", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []uint64{1}, attendeeIDs(decode[discussionResp](t, w)))

	w = s.do(t, http.MethodPost, base+"/attend", "alice", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	errBody := decode[handler.ErrorBody](t, w)
	assert.Equal(t, "conflict", errBody.Code)
	assert.Equal(t, "already attending", errBody.Message)

	w = s.do(t, http.MethodGet, base, "bob", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint64{1}, attendeeIDs(decode[discussionResp](t, w)))

	w = s.do(t, http.MethodPost, base+"/like", "bob", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint64{2}, decode[discussionResp](t, w).Likes)

	w = s.do(t, http.MethodPost, base+"/like", "bob", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[discussionResp](t, w).Likes)
}

func TestThemeAttendIsRejected(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/discussions", "alice", map[string]string{
		"type": "Theme", "title": "Awareness", "description": "x", "hashtag": "#speak", "link": "http://ignored",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[discussionResp](t, w)
	assert.Nil(t, created.Link)

	w = s.do(t, http.MethodPost, "/api/discussions/"+created.ID+"/attend", "bob", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "attendance can only be marked for forums", decode[handler.ErrorBody](t, w).Message)
}

func TestDiscussionValidationAndRoles(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/discussions", "alice", map[string]string{
		"type": "Theme", "title": "t", "description": "d",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_argument", decode[handler.ErrorBody](t, w).Code)

	w = s.do(t, http.MethodPost, "/api/discussions", "alice", map[string]string{
		"type": "Forum", "title": "t", "description": "d",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/discussions", "alice", map[string]string{
		"type": "Forum", "title": "t", "description": "d", "link": "l",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	path := "/api/discussions/" + decode[discussionResp](t, w).ID

	w = s.do(t, http.MethodPut, path, "bob", map[string]string{"title": "mine now"})
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "permission_denied", decode[handler.ErrorBody](t, w).Code)

	w = s.do(t, http.MethodPut, path, "root", map[string]string{"title": "moderated"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"moderated"`)

	w = s.do(t, http.MethodDelete, path, "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, path, "alice", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decode[handler.ErrorBody](t, w).Code)
}

func TestDiscussionLists(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/discussions", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/discussions/user/1", "alice", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	s.do(t, http.MethodPost, "/api/discussions", "alice", map[string]string{
		"type": "Theme", "title": "t", "description": "d", "hashtag": "#a",
	})

	w = s.do(t, http.MethodGet, "/api/discussions/user/1", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)

	w = s.do(t, http.MethodGet, "/api/discussions/user/abc", "alice", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/discussions"},
		{http.MethodPost, "/api/discussions"},
		{http.MethodGet, "/api/reports"},
		{http.MethodPut, "/api/reports/1"},
		{http.MethodPost, "/api/user/logout"},
	} {
		w := s.do(t, tc.method, tc.path, "", map[string]string{})
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.path)
		assert.Equal(t, "unauthenticated", decode[handler.ErrorBody](t, w).Code)
	}

	w := s.do(t, http.MethodGet, "/api/discussions", "mallory", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/campaign", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func validReport() map[string]any {
	return map[string]any{
		"reportAs":            "Child",
		"typeOfAbuse":         "Emotional",
		"victimName":          "A",
		"victimAge":           0,
		"victimAddress":       "addr",
		"guardianName":        "G",
		"guardianAddress":     "addr",
		"suspectName":         "S",
		"suspectAge":          30,
		"caseSuspectRelation": "No",
		"suspectAddress":      "addr",
	}
}

func TestCaseReportFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/reports", "root", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	bad := validReport()
	delete(bad, "victimAge")
	w = s.do(t, http.MethodPost, "/api/reports", "alice", bad)
	require.Equal(t, http.StatusBadRequest, w.Code)

	bad = validReport()
	bad["typeOfAbuse"] = "Verbal"
	w = s.do(t, http.MethodPost, "/api/reports", "alice", bad)
	require.Equal(t, http.StatusBadRequest, w.Code)

	in := validReport()
	in["status"] = "reported"
	w = s.do(t, http.MethodPost, "/api/reports", "alice", in)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[model.CaseReport](t, w)
	assert.Equal(t, model.ReportPending, created.Status)
	assert.Equal(t, uint64(1), created.UserID)

	path := "/api/reports/" + jsonNumber(created.ID)

	w = s.do(t, http.MethodPut, path, "root", map[string]string{"status": "archived"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, path, "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.ReportPending, decode[model.CaseReport](t, w).Status)

	w = s.do(t, http.MethodPut, path, "root", map[string]string{"status": "reported"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.ReportReported, decode[model.CaseReport](t, w).Status)
	require.Len(t, s.reports.Outbox, 2)

	w = s.do(t, http.MethodGet, "/api/reports/user/1", "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.CaseReport](t, w), 1)

	w = s.do(t, http.MethodGet, "/api/reports/user/2", "bob", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/api/reports", "root", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.CaseReport](t, w), 1)

	w = s.do(t, http.MethodDelete, path, "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(t, http.MethodDelete, path, "alice", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCaseReportsAreScopedToReporter(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/reports", "alice", validReport())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	path := "/api/reports/" + jsonNumber(decode[model.CaseReport](t, w).ID)

	for _, tc := range []struct {
		method, path string
		body         any
	}{
		{http.MethodGet, path, nil},
		{http.MethodPut, path, map[string]string{"victimName": "overwritten"}},
		{http.MethodDelete, path, nil},
		{http.MethodGet, "/api/reports/user/1", nil},
		{http.MethodGet, "/api/reports", nil},
	} {
		w = s.do(t, tc.method, tc.path, "bob", tc.body)
		assert.Equal(t, http.StatusForbidden, w.Code, tc.method+" "+tc.path)
		assert.Equal(t, "permission_denied", decode[handler.ErrorBody](t, w).Code)
	}

	w = s.do(t, http.MethodGet, path, "alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "A", decode[model.CaseReport](t, w).VictimName)

	w = s.do(t, http.MethodGet, path, "root", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestStoreContextErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, "deadline_exceeded"},
		{"canceled", context.Canceled, handler.StatusClientClosedRequest, "canceled"},
		{"other", errors.New("connection reset"), http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			s.discussions.Fail = tt.err

			w := s.do(t, http.MethodGet, "/api/discussions", "alice", nil)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decode[handler.ErrorBody](t, w).Code)
		})
	}
}

func TestCampaignCRUD(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/campaign", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/campaign", "", map[string]string{
		"type": "Event", "meetingType": "Virtual", "date": "2024-09-10", "time": "18:00",
		"location": "Online", "venue": "Zoom",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ev := decode[model.Event](t, w)
	path := "/api/campaign/" + jsonNumber(ev.ID)

	w = s.do(t, http.MethodPut, path, "", map[string]string{"venue": "Meet"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Meet", decode[model.Event](t, w).Venue)

	w = s.do(t, http.MethodPost, "/api/campaign", "", map[string]string{"type": "Event"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	require.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, path, "", nil).Code)
	require.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, path, "", nil).Code)
}

func TestAccountFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	users := memory.NewUsers()
	userSvc := service.NewUserService(users, memory.NewSessions(), pkg.NewTokenIssuer("a", "r", time.Minute, time.Hour))
	s := &testServer{engine: InitRouter(Deps{
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Users:       userSvc,
		Discussions: service.NewDiscussionService(memory.NewDiscussions(), users),
		Reports:     service.NewCaseReportService(memory.NewReports()),
		Events:      service.NewEventService(memory.NewEvents()),
	})}

	body := map[string]string{"username": "carol", "email": "carol@example.org", "password": "s3cretpass"}
	w := s.do(t, http.MethodPost, "/api/user/register", "", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "s3cretpass")

	w = s.do(t, http.MethodPost, "/api/user/register", "", body)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "already_exists", decode[handler.ErrorBody](t, w).Code)

	w = s.do(t, http.MethodPost, "/api/user/login", "", map[string]string{"login": "carol", "password": "nope-nope"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/user/login", "", map[string]string{"login": "carol", "password": "s3cretpass"})
	require.Equal(t, http.StatusOK, w.Code)
	pair := decode[pkg.Pair](t, w)

	w = s.do(t, http.MethodGet, "/api/discussions", pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/user/logout", pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/discussions", pair.AccessToken, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/token/refresh", "", map[string]string{"refreshToken": pair.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)
	next := decode[pkg.Pair](t, w)

	w = s.do(t, http.MethodGet, "/api/discussions", next.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestOperationalEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"mongo":"ok"`)

	s.do(t, http.MethodGet, "/api/campaign", "", nil)
	w = s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `child_shield_http_requests_total{method="GET",route="/api/campaign",status="200"} 1`)

	w = s.do(t, http.MethodGet, "/nope", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	assert.Equal(t, w.Header().Get("X-Request-Id"), decode[handler.ErrorBody](t, w).RequestID)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/discussions", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnhealthyDependency(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := InitRouter(Deps{
		Checks: map[string]handler.Check{
			"mysql": func(context.Context) error { return errors.New("dial tcp: refused") },
		},
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "refused"))
}

func jsonNumber(id uint64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
