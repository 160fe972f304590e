package help

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"github.com/softionyx/site/internal/database/dbtest"
	"github.com/softionyx/site/internal/middleware"
	"github.com/softionyx/site/internal/models"
	"github.com/softionyx/site/internal/pkg/jwt"
	"github.com/softionyx/site/internal/pkg/mail/mailtest"
	"github.com/softionyx/site/internal/pkg/validate"
)

const body = `{"name":"Ion Rusu","email":"ion@example.com","service_type":"web","subject":"Broken form","description":"The checkout form fails."}`

func setup(t *testing.T) (*gin.Engine, *gorm.DB, *mailtest.Recorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validate.Register()
	jwt.SetSecret("help-test-secret")
	t.Cleanup(func() { jwt.SetSecret("") })

	db := dbtest.Open(t)
	mailer := mailtest.New()
	log := zaptest.NewLogger(t)
	r := gin.New()
	NewHandler(NewService(db, mailer, "ops@softionyx.com", log)).
		RegisterRoutes(r.Group("/api"), middleware.RateLimit(middleware.NewMemoryStore(), middleware.HelpLimit, log))
	return r, db, mailer
}

func call(r *gin.Engine, method, path, payload, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedUser(t *testing.T, db *gorm.DB, email string, role models.Role) (models.User, string) {
	t.Helper()
	u := models.User{Email: email, PasswordHash: "x", FullName: "Someone", Role: role, IsActive: true}
	require.NoError(t, db.Create(&u).Error)
	token, err := jwt.Sign(u.ID, u.Email, string(u.Role), time.Hour)
	require.NoError(t, err)
	return u, token
}

func TestAnonymousCreate(t *testing.T) {
	r, db, mailer := setup(t)

	w := call(r, http.MethodPost, "/api/help", body, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var out struct {
		Success bool               `json:"success"`
		Message string             `json:"message"`
		Request models.HelpRequest `json:"request"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.True(t, out.Success)
	assert.Equal(t, "Help request submitted successfully. We will contact you soon!", out.Message)
	assert.Equal(t, models.PriorityMedium, out.Request.Priority)
	assert.Equal(t, models.HelpStatusPending, out.Request.Status)
	assert.Nil(t, out.Request.UserID)

	var stored models.HelpRequest
	require.NoError(t, db.First(&stored, out.Request.ID).Error)
	assert.Nil(t, stored.UserID)

	sent := mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "ion@example.com", sent[0].ReplyTo)
	assert.Equal(t, "New Help Request: Broken form", sent[0].Subject)
}

func TestAuthenticatedCreateAndMyRequests(t *testing.T) {
	r, db, _ := setup(t)
	u, token := seedUser(t, db, "member@example.com", models.RoleUser)
	_, other := seedUser(t, db, "other@example.com", models.RoleUser)

	require.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/api/help", body, token).Code)
	require.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/api/help", body, other).Code)
	require.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/api/help", body, "").Code)

	w := call(r, http.MethodGet, "/api/help/my-requests", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []models.HelpRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &mine))
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].UserID)
	assert.Equal(t, u.ID, *mine[0].UserID)

	assert.Equal(t, http.StatusUnauthorized, call(r, http.MethodGet, "/api/help/my-requests", "", "").Code)
}

func TestAllRequiresAdmin(t *testing.T) {
	r, db, _ := setup(t)
	_, userToken := seedUser(t, db, "u@example.com", models.RoleUser)
	_, adminToken := seedUser(t, db, "a@example.com", models.RoleAdmin)
	require.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/api/help", body, "").Code)

	assert.Equal(t, http.StatusForbidden, call(r, http.MethodGet, "/api/help/all", "", userToken).Code)

	w := call(r, http.MethodGet, "/api/help/all", "", adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	var all []models.HelpRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 1)
}

func TestValidationAndPriority(t *testing.T) {
	r, _, _ := setup(t)

	w := call(r, http.MethodPost, "/api/help", `{"name":"Ion Rusu","email":"ion@example.com","service_type":"web","subject":"Broken form","description":"short"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Description must be at least 10 characters")

	w = call(r, http.MethodPost, "/api/help", `{"name":"Ion Rusu","email":"ion@example.com","service_type":"web","subject":"Broken form","description":"The checkout form fails.","priority":"asap"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(r, http.MethodPost, "/api/help", `{"name":"Ion Rusu","email":"ion@example.com","service_type":"web","subject":"Broken form","description":"The checkout form fails.","priority":"urgent"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"priority":"urgent"`)
}
