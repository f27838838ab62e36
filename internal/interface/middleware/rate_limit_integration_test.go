//go:build integration

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var rdb *redis.Client

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, _ := container.Host(ctx)
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		panic(err)
	}
	rdb = redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})

	code := m.Run()
	_ = rdb.Close()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestRateLimit_Window(t *testing.T) {
	r := gin.New()
	r.Use(RealIP(true), RateLimit(rdb, 2, time.Minute, KeyByIPAndMethod(), AllowPrivateIP()))
	r.GET("/api/event", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/event", nil)
		req.Header.Set("CF-Connecting-IP", ip)
		return serve(r, req)
	}

	assert.Equal(t, http.StatusOK, get("203.0.113.50").Code)
	w := get("203.0.113.50")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = get("203.0.113.50")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	// private callers are exempt
	for i := 0; i < 4; i++ {
		assert.Equal(t, http.StatusOK, get("10.0.0.8").Code)
	}
}
