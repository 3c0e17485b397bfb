package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MahdiIsse/project-management-sub001/internal/app"
	"github.com/MahdiIsse/project-management-sub001/internal/auth"
	"github.com/MahdiIsse/project-management-sub001/internal/dto"
	"github.com/MahdiIsse/project-management-sub001/internal/events"
	"github.com/MahdiIsse/project-management-sub001/internal/storage"
	"github.com/MahdiIsse/project-management-sub001/internal/testutil"
	"github.com/MahdiIsse/project-management-sub001/internal/types"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type testServer struct {
	*httptest.Server
	app    *app.App
	issuer *auth.Issuer
	token  string
	http   *http.Client
}

func setupServer(t *testing.T) *testServer {
	t.Helper()

	db, _ := testutil.SetupTestDB(t)
	bucket, err := storage.NewBucket(t.TempDir(), "/avatars", 0)
	require.NoError(t, err)
	a := app.New(db, app.WithEventPublisher(events.NewLocal()), app.WithBucket(bucket))

	issuer, err := auth.NewIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	token, err := issuer.Issue(testutil.DefaultOwner)
	require.NoError(t, err)

	s := NewServer(a, issuer)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		srv.Close()
		cancel()
		_ = a.Close()
	})

	return &testServer{
		Server: srv,
		app:    a,
		issuer: issuer,
		token:  token,
		http: &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}},
	}
}

// do sends body as JSON (unless it is already a reader) with the test token
func (ts *testServer) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	return ts.doAs(t, ts.token, method, path, body)
}

func (ts *testServer) doAs(t *testing.T, token, method, path string, body any) *http.Response {
	t.Helper()

	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.URL+path, r)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.http.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func requireStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s: status %d, want %d\n%s", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, want, body)
	}
}

func (ts *testServer) workspace(t *testing.T, title string) dto.WorkspaceDto {
	t.Helper()
	resp := ts.do(t, http.MethodPost, "/api/workspaces", dto.CreateWorkspaceRequest{Title: title})
	requireStatus(t, resp, http.StatusCreated)
	return decodeBody[dto.WorkspaceDto](t, resp)
}

func (ts *testServer) column(t *testing.T, wsID int, title string) dto.ColumnDto {
	t.Helper()
	resp := ts.do(t, http.MethodPost, "/api/workspaces/"+itoa(wsID)+"/columns", dto.CreateColumnRequest{Title: title})
	requireStatus(t, resp, http.StatusCreated)
	return decodeBody[dto.ColumnDto](t, resp)
}

func (ts *testServer) task(t *testing.T, wsID int, req dto.CreateTaskRequest) dto.ProjectTaskDto {
	t.Helper()
	resp := ts.do(t, http.MethodPost, "/api/workspaces/"+itoa(wsID)+"/tasks", req)
	requireStatus(t, resp, http.StatusCreated)
	return decodeBody[dto.ProjectTaskDto](t, resp)
}

func itoa(n int) string { return types.WorkspaceID(n).String() }

func TestGuard_RedirectsToLogin(t *testing.T) {
	ts := setupServer(t)

	tests := []struct {
		name  string
		token string
	}{
		{"no token", ""},
		{"garbage token", "not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.doAs(t, tt.token, http.MethodGet, "/api/workspaces?x=1", nil)
			assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
			assert.Equal(t, "/login?next=%2Fapi%2Fworkspaces%3Fx%3D1", resp.Header.Get("Location"))
		})
	}

	other, err := auth.NewIssuer("another-secret", time.Hour)
	require.NoError(t, err)
	forged, err := other.Issue(testutil.DefaultOwner)
	require.NoError(t, err)
	resp := ts.doAs(t, forged, http.MethodGet, "/api/workspaces", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestGuard_PublicPaths(t *testing.T) {
	ts := setupServer(t)

	resp := ts.doAs(t, "", http.MethodGet, "/healthz", nil)
	requireStatus(t, resp, http.StatusOK)

	resp = ts.doAs(t, "", http.MethodGet, "/login?next=%2Fapi%2Ftags", nil)
	requireStatus(t, resp, http.StatusUnauthorized)
	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, CodeNotAuthenticated, body["code"])
	assert.Equal(t, "/api/tags", body["next"])

	assert.True(t, IsPublic("/avatars/assignees/1/a.png"))
	assert.False(t, IsPublic("/api/ws"))
}

func TestUnknownEndpoint(t *testing.T) {
	ts := setupServer(t)

	resp := ts.do(t, http.MethodGet, "/api/nothing-here", nil)
	requireStatus(t, resp, http.StatusNotFound)
	assert.Equal(t, CodeNotFound, decodeBody[dto.ErrorResponse](t, resp).Code)
}

func TestWorkspaceEndpoints(t *testing.T) {
	ts := setupServer(t)

	first := ts.workspace(t, "Launch")
	second := ts.workspace(t, "Backlog")
	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, second.Position)

	title := "Launch v2"
	resp := ts.do(t, http.MethodPatch, "/api/workspaces/"+itoa(first.ID), dto.UpdateWorkspaceRequest{Title: &title})
	requireStatus(t, resp, http.StatusOK)
	assert.Equal(t, title, decodeBody[dto.WorkspaceDto](t, resp).Title)

	resp = ts.do(t, http.MethodPut, "/api/workspaces/positions", []dto.WorkspacePositionDto{
		{ID: first.ID, Position: 1},
		{ID: second.ID, Position: 0},
	})
	requireStatus(t, resp, http.StatusNoContent)

	resp = ts.do(t, http.MethodGet, "/api/workspaces", nil)
	requireStatus(t, resp, http.StatusOK)
	list := decodeBody[[]dto.WorkspaceDto](t, resp)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	resp = ts.do(t, http.MethodDelete, "/api/workspaces/"+itoa(second.ID), nil)
	requireStatus(t, resp, http.StatusNoContent)

	resp = ts.do(t, http.MethodGet, "/api/workspaces/"+itoa(second.ID), nil)
	requireStatus(t, resp, http.StatusNotFound)
	assert.Equal(t, CodeNotFound, decodeBody[dto.ErrorResponse](t, resp).Code)
}

func TestValidationErrors(t *testing.T) {
	ts := setupServer(t)
	ws := ts.workspace(t, "Launch")
	col := ts.column(t, ws.ID, "To Do")

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"empty title", http.MethodPost, "/api/workspaces", dto.CreateWorkspaceRequest{}},
		{"unknown field", http.MethodPost, "/api/workspaces", map[string]string{"title": "x", "colour": "red"}},
		{"bad tag colour", http.MethodPost, "/api/tags", dto.CreateTagRequest{Name: "Bug", Color: "mauve-ish"}},
		{"priority out of range", http.MethodPost, "/api/workspaces/" + itoa(ws.ID) + "/tasks",
			dto.CreateTaskRequest{ColumnID: col.ID, Title: "x", Priority: 9}},
		{"bad due date", http.MethodPost, "/api/workspaces/" + itoa(ws.ID) + "/tasks",
			dto.CreateTaskRequest{ColumnID: col.ID, Title: "x", DueDate: ptr("next tuesday")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.do(t, tt.method, tt.path, tt.body)
			requireStatus(t, resp, http.StatusBadRequest)
			body := decodeBody[dto.ErrorResponse](t, resp)
			assert.Equal(t, CodeValidation, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestTaskEndpoints(t *testing.T) {
	ts := setupServer(t)
	ws := ts.workspace(t, "Launch")
	todo := ts.column(t, ws.ID, "To Do")
	done := ts.column(t, ws.ID, "Done")

	resp := ts.do(t, http.MethodPost, "/api/tags", dto.CreateTagRequest{Name: "Bug", Color: "red"})
	requireStatus(t, resp, http.StatusCreated)
	bug := decodeBody[dto.TagDto](t, resp)

	resp = ts.do(t, http.MethodPost, "/api/assignees", dto.CreateAssigneeRequest{Name: "Ada"})
	requireStatus(t, resp, http.StatusCreated)
	ada := decodeBody[dto.AssigneeDto](t, resp)

	urgent := ts.task(t, ws.ID, dto.CreateTaskRequest{
		ColumnID:    todo.ID,
		Title:       "Fix login",
		Priority:    3,
		DueDate:     ptr("2026-11-01"),
		AssigneeIDs: []int{ada.ID},
	})
	assert.Equal(t, 3, urgent.Priority)
	require.NotNil(t, urgent.DueDate)
	assert.True(t, strings.HasPrefix(*urgent.DueDate, "2026-11-01"))
	require.Len(t, urgent.Assignees, 1)

	chore := ts.task(t, ws.ID, dto.CreateTaskRequest{ColumnID: todo.ID, Title: "Tidy docs"})
	assert.Equal(t, 1, chore.Priority, "defaults to Low")
	assert.Equal(t, 1, chore.Position)
	assert.NotNil(t, chore.Tags, "relations are never null")

	resp = ts.do(t, http.MethodPut, "/api/tasks/"+itoa(chore.ID)+"/tags/"+itoa(bug.ID), nil)
	requireStatus(t, resp, http.StatusOK)
	tagged := decodeBody[dto.ProjectTaskDto](t, resp)
	require.Len(t, tagged.Tags, 1)
	assert.Equal(t, "Bug", tagged.Tags[0].Name)

	resp = ts.do(t, http.MethodGet, "/api/workspaces/"+itoa(ws.ID)+"/tasks?priorities=High", nil)
	requireStatus(t, resp, http.StatusOK)
	filtered := decodeBody[[]dto.ProjectTaskDto](t, resp)
	require.Len(t, filtered, 1)
	assert.Equal(t, urgent.ID, filtered[0].ID)

	resp = ts.do(t, http.MethodGet, "/api/workspaces/"+itoa(ws.ID)+"/tasks?search=docs", nil)
	requireStatus(t, resp, http.StatusOK)
	filtered = decodeBody[[]dto.ProjectTaskDto](t, resp)
	require.Len(t, filtered, 1)
	assert.Equal(t, chore.ID, filtered[0].ID)

	resp = ts.do(t, http.MethodPut, "/api/tasks/positions", dto.TaskPositionsRequest{
		WorkspaceID: ws.ID,
		Positions: []dto.TaskPositionDto{
			{ID: urgent.ID, ColumnID: done.ID, Position: 0},
			{ID: chore.ID, ColumnID: todo.ID, Position: 0},
		},
	})
	requireStatus(t, resp, http.StatusNoContent)

	resp = ts.do(t, http.MethodGet, "/api/tasks/"+itoa(urgent.ID), nil)
	requireStatus(t, resp, http.StatusOK)
	moved := decodeBody[dto.ProjectTaskDto](t, resp)
	assert.Equal(t, done.ID, moved.ColumnID)

	resp = ts.do(t, http.MethodPatch, "/api/tasks/"+itoa(urgent.ID), dto.UpdateTaskRequest{Priority: ptr(2), ClearDueDate: true})
	requireStatus(t, resp, http.StatusOK)
	updated := decodeBody[dto.ProjectTaskDto](t, resp)
	assert.Equal(t, 2, updated.Priority)
	assert.Nil(t, updated.DueDate)

	resp = ts.do(t, http.MethodDelete, "/api/tasks/"+itoa(urgent.ID)+"/assignees/"+itoa(ada.ID), nil)
	requireStatus(t, resp, http.StatusOK)
	assert.Empty(t, decodeBody[dto.ProjectTaskDto](t, resp).Assignees)

	resp = ts.do(t, http.MethodDelete, "/api/tasks/"+itoa(urgent.ID), nil)
	requireStatus(t, resp, http.StatusNoContent)
	resp = ts.do(t, http.MethodGet, "/api/tasks/"+itoa(urgent.ID), nil)
	requireStatus(t, resp, http.StatusNotFound)
}

func TestOwnersAreIsolated(t *testing.T) {
	ts := setupServer(t)
	ws := ts.workspace(t, "Private")

	bob, err := ts.issuer.Issue("bob")
	require.NoError(t, err)

	resp := ts.doAs(t, bob, http.MethodGet, "/api/workspaces/"+itoa(ws.ID), nil)
	requireStatus(t, resp, http.StatusNotFound)

	resp = ts.doAs(t, bob, http.MethodGet, "/api/workspaces", nil)
	requireStatus(t, resp, http.StatusOK)
	assert.Empty(t, decodeBody[[]dto.WorkspaceDto](t, resp))
}

func TestAvatarUpload(t *testing.T) {
	ts := setupServer(t)

	resp := ts.do(t, http.MethodPost, "/api/assignees", dto.CreateAssigneeRequest{Name: "Ada"})
	requireStatus(t, resp, http.StatusCreated)
	ada := decodeBody[dto.AssigneeDto](t, resp)

	upload := func(t *testing.T, content []byte) *http.Response {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile(avatarField, "face.png")
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/assignees/"+itoa(ada.ID)+"/avatar", &buf)
		require.NoError(t, err)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+ts.token)
		resp, err := ts.http.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { _ = resp.Body.Close() })
		return resp
	}

	resp = upload(t, []byte("plain text, not an image"))
	requireStatus(t, resp, http.StatusBadRequest)

	resp = upload(t, pngHeader)
	requireStatus(t, resp, http.StatusOK)
	withAvatar := decodeBody[dto.AssigneeDto](t, resp)
	require.True(t, strings.HasPrefix(withAvatar.AvatarURL, "/avatars/assignees/"), withAvatar.AvatarURL)
	assert.True(t, strings.HasSuffix(withAvatar.AvatarURL, ".png"))

	// The bucket is public
	resp = ts.doAs(t, "", http.MethodGet, withAvatar.AvatarURL, nil)
	requireStatus(t, resp, http.StatusOK)
	served, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, served)
}

func TestProcedures(t *testing.T) {
	ts := setupServer(t)

	resp := ts.do(t, http.MethodPost, "/api/rpc/seed-onboarding-data", nil)
	requireStatus(t, resp, http.StatusOK)
	assert.True(t, decodeBody[dto.RPCResult](t, resp).Success)

	resp = ts.do(t, http.MethodPost, "/api/rpc/seed-onboarding-data", nil)
	requireStatus(t, resp, http.StatusOK)
	again := decodeBody[dto.RPCResult](t, resp)
	assert.False(t, again.Success)
	assert.Equal(t, "already_seeded", again.ErrorCode)
	assert.NotEmpty(t, again.Error)

	resp = ts.do(t, http.MethodPost, "/api/rpc/cleanup-user-data", nil)
	requireStatus(t, resp, http.StatusOK)
	assert.True(t, decodeBody[dto.RPCResult](t, resp).Success)

	resp = ts.do(t, http.MethodGet, "/api/workspaces", nil)
	requireStatus(t, resp, http.StatusOK)
	assert.Empty(t, decodeBody[[]dto.WorkspaceDto](t, resp))
}

func TestWebSocketFeed(t *testing.T) {
	ts := setupServer(t)
	ws := ts.workspace(t, "Live")

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + wsPath + "?workspace=" + itoa(ws.ID) + "&access_token=" + ts.token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	msgs := make(chan dto.ChangeDto, 16)
	go func() {
		for {
			var m dto.ChangeDto
			if err := conn.ReadJSON(&m); err != nil {
				close(msgs)
				return
			}
			msgs <- m
		}
	}()

	// The client registers with the hub just after the handshake, so keep
	// writing until a change comes through.
	var got dto.ChangeDto
	require.Eventually(t, func() bool {
		ts.column(t, ws.ID, "Column")
		select {
		case m, ok := <-msgs:
			got = m
			return ok
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, string(events.EventDatabaseChanged), got.Type)
	assert.Equal(t, ws.ID, got.WorkspaceID)
	assert.Equal(t, string(events.EntityColumn), got.Entity)
	assert.Positive(t, got.Sequence)
}

func TestWebSocket_RequiresToken(t *testing.T) {
	ts := setupServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + wsPath
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func ptr[T any](v T) *T { return &v }
