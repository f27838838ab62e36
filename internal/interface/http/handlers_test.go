package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ddd-scheduler/internal/application"
	"github.com/oksasatya/go-ddd-scheduler/internal/application/dto"
	"github.com/oksasatya/go-ddd-scheduler/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-scheduler/pkg/helpers"
	"github.com/oksasatya/go-ddd-scheduler/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Kind    string            `json:"kind"`
		Details map[string]string `json:"details"`
		Debug   any               `json:"debug"`
	} `json:"error"`
}

func newEngine(production bool) *gin.Engine {
	store := memory.NewStore()
	log := helpers.NopLogger()
	v := dto.NewValidator()
	users, events := store.Users(), store.Events()
	sync := application.NewSynchronizer(users, events, log, nil)
	errs := ErrorWriter{Logger: log, Production: production}

	uh := NewUserHandler(application.NewUserService(users, events, v, log, !production), errs)
	eh := NewEventHandler(application.NewEventService(events, sync, application.NewConflictDetector(events, application.OverlapEndpoint), nil, v, log, !production), errs)

	r := gin.New()
	r.GET("/user", uh.List)
	r.POST("/user", uh.Create)
	r.GET("/user/:id", uh.Get)
	r.POST("/user/:id", uh.CreateAt)
	r.PUT("/user/:id", uh.Update)
	r.DELETE("/user/:id", uh.Delete)
	r.GET("/user/:id/event", uh.Events)
	r.GET("/event", eh.List)
	r.POST("/event", eh.Create)
	r.GET("/event/:id", eh.Get)
	r.PUT("/event/:id", eh.Update)
	r.DELETE("/event/:id", eh.Delete)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestUserHandler_CRUD(t *testing.T) {
	r := newEngine(false)

	w, env := do(t, r, http.MethodPost, "/user", map[string]any{
		"firstName":   "Grace",
		"email":       "grace@example.com",
		"phoneNumber": "+15550100",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		User struct {
			ID     string   `json:"id"`
			Events []string `json:"events"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	id := created.User.ID
	assert.Len(t, id, 24)
	assert.Empty(t, created.User.Events)

	w, _ = do(t, r, http.MethodGet, "/user/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, http.MethodGet, "/user/"+strings.ToUpper(id), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = do(t, r, http.MethodPut, "/user/"+id, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "nothing to update", env.Message)

	w, _ = do(t, r, http.MethodPut, "/user/"+id, map[string]any{"lastName": "Hopper"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = do(t, r, http.MethodGet, "/user/"+id+"/event", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), `"events":[]`)

	w, _ = do(t, r, http.MethodDelete, "/user/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())

	w, env = do(t, r, http.MethodGet, "/user/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", env.Error.Kind)
}

func TestUserHandler_CreateAtIgnoresID(t *testing.T) {
	r := newEngine(false)
	w, env := do(t, r, http.MethodPost, "/user/507f1f77bcf86cd799439011", map[string]any{
		"firstName":   "Grace",
		"email":       "grace@example.com",
		"phoneNumber": "+15550100",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, string(env.Data), "507f1f77bcf86cd799439011")

	w, _ = do(t, r, http.MethodPost, "/user/nope", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlers_BadIDAndPayload(t *testing.T) {
	r := newEngine(false)

	for _, path := range []string{"/user/123", "/event/zzzzzzzzzzzzzzzzzzzzzzzz"} {
		w, env := do(t, r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		assert.Equal(t, "BAD_REQUEST", env.Error.Kind)
		assert.Equal(t, "must be a valid objectId string", env.Error.Details["id"])
	}

	w, env := do(t, r, http.MethodPost, "/user", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid json", env.Error.Details["payload"])

	w, env = do(t, r, http.MethodPost, "/user", map[string]any{"firstName": "G"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION", env.Error.Kind)
	assert.NotEmpty(t, env.Error.Details)
}

func TestEventHandler_ConflictAndDelete(t *testing.T) {
	r := newEngine(false)
	_, env := do(t, r, http.MethodPost, "/user", map[string]any{
		"firstName":   "Grace",
		"email":       "grace@example.com",
		"phoneNumber": "+15550100",
	})
	var u struct {
		User struct{ ID string } `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &u))

	event := func(start, end string) map[string]any {
		return map[string]any{
			"title":       "Review",
			"description": "Design review with the team",
			"startDate":   start,
			"endDate":     end,
			"user":        u.User.ID,
		}
	}

	w, env := do(t, r, http.MethodPost, "/event", event("2031-01-10T00:00:00Z", "2031-01-20T00:00:00Z"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var ev struct {
		Event struct{ ID string } `json:"event"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &ev))

	w, env = do(t, r, http.MethodPost, "/event", event("2031-01-20T00:00:00Z", "2031-01-25T00:00:00Z"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "CONFLICT", env.Error.Kind)
	assert.Equal(t, "You can't create event for this time window", env.Message)

	_, env = do(t, r, http.MethodGet, "/user/"+u.User.ID, nil)
	assert.Contains(t, string(env.Data), ev.Event.ID)

	w, _ = do(t, r, http.MethodDelete, "/event/"+ev.Event.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	_, env = do(t, r, http.MethodGet, "/user/"+u.User.ID, nil)
	assert.NotContains(t, string(env.Data), ev.Event.ID)

	w, _ = do(t, r, http.MethodDelete, "/event/"+ev.Event.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestErrorWriter_ProductionHidesDetail(t *testing.T) {
	r := newEngine(true)
	w, env := do(t, r, http.MethodPost, "/user", map[string]any{"firstName": "G"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Bad Request", env.Message)
	assert.Empty(t, env.Error.Details)
	assert.Nil(t, env.Error.Debug)

	w, env = do(t, r, http.MethodGet, "/event/507f1f77bcf86cd799439011", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not Found", env.Message)
}
