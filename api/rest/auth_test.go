package rest_test

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veyralune/lifequest/api/rest"
	"github.com/veyralune/lifequest/cache"
	"github.com/veyralune/lifequest/config"
	"github.com/veyralune/lifequest/game/progression"
	mw "github.com/veyralune/lifequest/middleware"
	"github.com/veyralune/lifequest/model"
	"github.com/veyralune/lifequest/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	db    *gorm.DB
	cache cache.Cache
	prog  *progression.Service
	sec   config.SecurityConfig
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	c := testutil.SetupTestCache(t)
	cfg := config.ProgressionConfig{
		LevelXPBase:      100,
		WeeklyTargetXP:   60,
		MinActivityXP:    1,
		MaxActivityXP:    50,
		RecommendTopN:    5,
		DailyQuestBatch:  5,
		WeeklyQuestBatch: 3,
		LeaderboardTopN:  100,
	}
	roller := progression.NewRoller(rand.New(rand.NewSource(1)))
	prog := progression.NewService(db, c, roller, cfg, nil, zap.NewNop())
	return &testEnv{
		db:    db,
		cache: c,
		prog:  prog,
		sec:   config.SecurityConfig{JWTSecret: "test-secret", JWTTTLH: 72 * time.Hour},
	}
}

func newAuthRouter(t *testing.T) (*gin.Engine, *testEnv) {
	env := newTestEnv(t)
	h := rest.NewAuthHandler(env.db, env.cache, env.sec, env.prog, zap.NewNop())
	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/logout", mw.Auth(env.sec, env.cache), h.Logout)
	r.POST("/api/auth/refresh", mw.Auth(env.sec, env.cache), h.Refresh)
	return r, env
}

func postJSON(r *gin.Engine, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func getJSON(r *gin.Engine, path string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, r *gin.Engine, username string) (token, userID string) {
	t.Helper()
	w := postJSON(r, "/api/auth/register", map[string]string{
		"username":       username,
		"password":       "pass1234",
		"character_name": "Hero",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["token"].(string), resp["user_id"].(string)
}

func TestRegister_ProvisionsProgression(t *testing.T) {
	r, env := newAuthRouter(t)

	token, userID := registerUser(t, r, "alice")
	assert.NotEmpty(t, token)

	var areaCount int64
	env.db.Model(&model.AreaProgress{}).Where("user_id = ?", userID).Count(&areaCount)
	assert.Equal(t, int64(len(model.AllAreas)), areaCount)

	var profile model.Profile
	require.NoError(t, env.db.Where("user_id = ?", userID).First(&profile).Error)
	assert.Equal(t, 1, profile.CharacterLevel)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	r, _ := newAuthRouter(t)

	registerUser(t, r, "bob")
	w := postJSON(r, "/api/auth/register", map[string]string{
		"username":       "bob",
		"password":       "pass1234",
		"character_name": "Other",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin(t *testing.T) {
	r, _ := newAuthRouter(t)
	registerUser(t, r, "carol")

	w := postJSON(r, "/api/auth/login", map[string]string{"username": "carol", "password": "pass1234"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["token"])

	w = postJSON(r, "/api/auth/login", map[string]string{"username": "carol", "password": "wrongpass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(r, "/api/auth/login", map[string]string{"username": "nobody", "password": "pass1234"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_DisabledAccount(t *testing.T) {
	r, env := newAuthRouter(t)
	_, userID := registerUser(t, r, "dave")

	require.NoError(t, env.db.Model(&model.User{}).Where("id = ?", userID).Update("status", 0).Error)
	w := postJSON(r, "/api/auth/login", map[string]string{"username": "dave", "password": "pass1234"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLogout_InvalidatesSession(t *testing.T) {
	r, _ := newAuthRouter(t)
	token, _ := registerUser(t, r, "erin")

	w := postJSON(r, "/api/auth/logout", nil, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)

	// The same token no longer passes the session check.
	w = postJSON(r, "/api/auth/logout", nil, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefresh_RotatesToken(t *testing.T) {
	r, _ := newAuthRouter(t)
	token, _ := registerUser(t, r, "frank")

	w := postJSON(r, "/api/auth/refresh", nil, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	fresh := resp["token"].(string)
	assert.NotEmpty(t, fresh)

	// Old token is dead, the fresh one works.
	w = postJSON(r, "/api/auth/refresh", nil, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = postJSON(r, "/api/auth/logout", nil, "Authorization", "Bearer "+fresh)
	assert.Equal(t, http.StatusOK, w.Code)
}
