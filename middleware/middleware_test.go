package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/princinho/portfoliobackend/models"
	"github.com/princinho/portfoliobackend/repository"
	"github.com/princinho/portfoliobackend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type gate struct {
	sessions    *services.SessionIssuer
	credentials *services.Credentials
}

func newGate(t *testing.T) gate {
	t.Helper()
	sessions, err := services.NewSessionIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	return gate{sessions: sessions, credentials: services.NewCredentials(repository.NewMemoryStore().Admins)}
}

func (g gate) router(extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(g.sessions, g.credentials)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		admin, _ := CurrentAdmin(c)
		id, _ := AdminID(c)
		c.JSON(http.StatusOK, gin.H{"email": admin.Email, "id": id.Hex(), "role": Role(c)})
	})
	r.GET("/protected", handlers...)
	return r
}

func (g gate) createAdmin(t *testing.T, email string, role models.Role) *models.Admin {
	t.Helper()
	admin, err := g.credentials.Create(context.Background(), services.NewAdmin{
		Name: "Test Admin", Email: email, Password: "secret1", Role: role,
	})
	require.NoError(t, err)
	return admin
}

func get(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthMiddlewareAttachesIdentity(t *testing.T) {
	g := newGate(t)
	admin := g.createAdmin(t, "a@x.com", models.RoleAdmin)
	token, err := g.sessions.Issue(admin.ID.Hex())
	require.NoError(t, err)

	rec := get(g.router(), token)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "a@x.com", body["email"])
	assert.Equal(t, admin.ID.Hex(), body["id"])
	assert.Equal(t, "admin", body["role"])
}

func TestAuthMiddlewareRejects(t *testing.T) {
	g := newGate(t)
	other, err := services.NewSessionIssuer("other-secret", time.Hour)
	require.NoError(t, err)

	unknown, err := g.sessions.Issue(bson.NewObjectID().Hex())
	require.NoError(t, err)
	forged, err := other.Issue(bson.NewObjectID().Hex())
	require.NoError(t, err)

	for name, token := range map[string]string{
		"missing": "",
		"garbage": "abc.def.ghi",
		"forged":  forged,
		"unknown": unknown,
	} {
		t.Run(name, func(t *testing.T) {
			rec := get(g.router(), token)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestAuthMiddlewareRejectsInactiveAdmin(t *testing.T) {
	g := newGate(t)
	admin := g.createAdmin(t, "a@x.com", models.RoleAdmin)
	inactive := false
	_, err := g.credentials.Update(context.Background(), admin.ID, models.AdminUpdate{IsActive: &inactive})
	require.NoError(t, err)

	token, err := g.sessions.Issue(admin.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(g.router(), token).Code)
}

func TestRequireRole(t *testing.T) {
	g := newGate(t)
	plain := g.createAdmin(t, "a@x.com", models.RoleAdmin)
	super := g.createAdmin(t, "s@x.com", models.RoleSuperAdmin)
	r := g.router(RequireRole(models.RoleSuperAdmin))

	token, err := g.sessions.Issue(plain.ID.Hex())
	require.NoError(t, err)
	rec := get(r, token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Role admin is not authorized to access this route"}`, rec.Body.String())

	token, err = g.sessions.Issue(super.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, get(r, token).Code)
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.POST("/contact", RateLimit(2, "slow down"), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/contact", nil)
		req.RemoteAddr = "203.0.113.7:5555"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusCreated, send().Code)
	assert.Equal(t, http.StatusCreated, send().Code)

	rec := send()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "slow down", body["error"])
}

func TestRateLimitDisabled(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(0, ""), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRequestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := gin.New()
	r.Use(RequestLog(logger))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok", "/missing", "/boom"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	var levels []string
	dec := json.NewDecoder(&buf)
	for dec.More() {
		var line map[string]any
		require.NoError(t, dec.Decode(&line))
		levels = append(levels, line["level"].(string))
	}
	assert.Equal(t, []string{"INFO", "WARN", "ERROR"}, levels)
}
