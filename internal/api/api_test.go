package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aulaplay/aulaplay-go/internal/api"
	"github.com/aulaplay/aulaplay-go/internal/api/response"
	"github.com/aulaplay/aulaplay-go/internal/factory"
	"github.com/aulaplay/aulaplay-go/internal/services/auth"
	"github.com/aulaplay/aulaplay-go/internal/storage/memory"
)

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	storage *memory.Storage
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use the production factory with
	// real random/clock
	app, err := factory.New(factory.Config{
		AuthConfig: auth.Config{
			JWTSecret:          "test-secret",
			SuperadminUsername: "superadmin",
			BcryptCost:         bcrypt.MinCost,
		},
	})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:          logger,
		AuthService:     app.AuthService,
		GamesService:    app.GamesService,
		AttemptsService: app.AttemptsService,
		ScoresService:   app.ScoresService,
		RankingService:  app.RankingService,
		Validators:      app.Validators,
	})

	return &testServer{
		handler: router,
		storage: app.Storage.(*memory.Storage),
	}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) registerAdmin(t *testing.T, username string) response.AuthResponse {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/auth/register/admin", map[string]string{
		"username": username,
		"password": "secret123",
		"name":     username,
	}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func (ts *testServer) registerStudent(t *testing.T, username, teacher string) response.AuthResponse {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/auth/register/student", map[string]string{
		"username": username,
		"password": "secret123",
		"name":     username,
		"teacher":  teacher,
	}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func wordsearchGameBody(title string) map[string]any {
	return map[string]any{
		"type":  "wordsearch",
		"title": title,
		"topic": "animals",
		"config": map[string]any{
			"topic":      "animals",
			"gridWidth":  10,
			"gridHeight": 12,
			"words":      []string{"PERRO", "GATO", "SOL"},
		},
		"is_published": true,
	}
}

func (ts *testServer) createGame(t *testing.T, token, title string) response.Game {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/games", wordsearchGameBody(title), token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var game response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &game))
	return game
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	admin := ts.registerAdmin(t, "teacher")
	assert.Equal(t, "admin", admin.User.Role)
	require.NotNil(t, admin.User.OwnerAdmin)
	assert.Equal(t, admin.User.ID, *admin.User.OwnerAdmin)
	assert.NotEmpty(t, admin.Token)

	rr := ts.request(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "teacher",
		"password": "secret123",
	}, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "teacher",
		"password": "wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSuperadminRegistration(t *testing.T) {
	ts := newTestServer(t)

	super := ts.registerAdmin(t, "superadmin")
	assert.True(t, super.User.IsSuperAdmin)
	assert.Nil(t, super.User.OwnerAdmin)
}

func TestGetMe(t *testing.T) {
	ts := newTestServer(t)

	admin := ts.registerAdmin(t, "teacher")

	rr := ts.request(http.MethodGet, "/api/v1/auth/me", nil, admin.Token)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), admin.User.ID)

	rr = ts.request(http.MethodGet, "/api/v1/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGameLifecycle(t *testing.T) {
	ts := newTestServer(t)

	admin := ts.registerAdmin(t, "teacher")
	game := ts.createGame(t, admin.Token, "Animal hunt")
	require.NotNil(t, game.OwnerAdmin)
	assert.Equal(t, admin.User.ID, *game.OwnerAdmin)

	// Read back
	rr := ts.request(http.MethodGet, "/api/v1/games/"+game.ID, nil, admin.Token)
	assert.Equal(t, http.StatusOK, rr.Code)

	// Rename
	rr = ts.request(http.MethodPut, "/api/v1/games/"+game.ID, map[string]any{
		"title": "Animal hunt II",
	}, admin.Token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var updated response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal(t, "Animal hunt II", updated.Title)

	// Changing the type is rejected
	rr = ts.request(http.MethodPut, "/api/v1/games/"+game.ID, map[string]any{
		"type": "hangman",
	}, admin.Token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Delete
	rr = ts.request(http.MethodDelete, "/api/v1/games/"+game.ID, nil, admin.Token)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = ts.request(http.MethodGet, "/api/v1/games/"+game.ID, nil, admin.Token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCreateGameRejectsInvalidConfig(t *testing.T) {
	ts := newTestServer(t)

	admin := ts.registerAdmin(t, "teacher")
	body := wordsearchGameBody("Broken")
	body["config"] = map[string]any{
		"gridWidth":  5,
		"gridHeight": 12,
		"words":      []string{"PERRO", "GATO", "SOL"},
	}

	rr := ts.request(http.MethodPost, "/api/v1/games", body, admin.Token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	// All violations come back at once
	assert.Contains(t, rr.Body.String(), "topic")
	assert.Contains(t, rr.Body.String(), "gridWidth")
}

func TestCreateGameRequiresAdmin(t *testing.T) {
	ts := newTestServer(t)

	admin := ts.registerAdmin(t, "teacher")
	student := ts.registerStudent(t, "pupil", admin.User.ID)

	rr := ts.request(http.MethodPost, "/api/v1/games", wordsearchGameBody("Nope"), student.Token)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/games", wordsearchGameBody("Nope"), "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestTenantIsolation(t *testing.T) {
	ts := newTestServer(t)

	alice := ts.registerAdmin(t, "alice")
	bob := ts.registerAdmin(t, "bob")
	game := ts.createGame(t, alice.Token, "Alice's game")

	// Another tenant's game reads as not found, not forbidden
	rr := ts.request(http.MethodGet, "/api/v1/games/"+game.ID, nil, bob.Token)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request(http.MethodDelete, "/api/v1/games/"+game.ID, nil, bob.Token)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// Bob's list does not include it either
	rr = ts.request(http.MethodGet, "/api/v1/games", nil, bob.Token)
	require.Equal(t, http.StatusOK, rr.Code)
	var games []response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &games))
	assert.Empty(t, games)
}

func TestStudentSeesPublishedRosterGames(t *testing.T) {
	ts := newTestServer(t)

	admin := ts.registerAdmin(t, "teacher")
	student := ts.registerStudent(t, "pupil", admin.User.ID)
	ts.createGame(t, admin.Token, "Published game")

	draft := wordsearchGameBody("Draft game")
	draft["is_published"] = false
	rr := ts.request(http.MethodPost, "/api/v1/games", draft, admin.Token)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/games/student", nil, student.Token)
	require.Equal(t, http.StatusOK, rr.Code)
	var games []response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &games))
	require.Len(t, games, 1)
	assert.Equal(t, "Published game", games[0].Title)
}

func TestPublicCatalogue(t *testing.T) {
	ts := newTestServer(t)

	super := ts.registerAdmin(t, "superadmin")
	body := wordsearchGameBody("Everyone's game")
	body["is_public"] = true
	rr := ts.request(http.MethodPost, "/api/v1/games", body, super.Token)
	require.Equal(t, http.StatusCreated, rr.Code)

	// No token needed for the public catalogue
	rr = ts.request(http.MethodGet, "/api/v1/games/public", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var games []response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &games))
	require.Len(t, games, 1)
	assert.Nil(t, games[0].OwnerAdmin)
}

func TestAttemptFeedsStats(t *testing.T) {
	ts := newTestServer(t)

	admin := ts.registerAdmin(t, "teacher")
	student := ts.registerStudent(t, "pupil", admin.User.ID)
	game := ts.createGame(t, admin.Token, "Animal hunt")

	attemptURL := fmt.Sprintf("/api/v1/games/%s/attempts", game.ID)
	rr := ts.request(http.MethodPost, attemptURL, map[string]any{
		"score": 8, "max_score": 10, "completed": true,
	}, student.Token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var attempt response.Attempt
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &attempt))
	assert.Equal(t, 80, attempt.Percentage)

	rr = ts.request(http.MethodPost, attemptURL, map[string]any{
		"score": 4, "max_score": 10,
	}, student.Token)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/stats/me", nil, student.Token)
	require.Equal(t, http.StatusOK, rr.Code)
	var stats []response.UserGameStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	require.Len(t, stats, 1)
	assert.Equal(t, 2, stats[0].AttemptsCount)
	assert.Equal(t, 1, stats[0].CompletedCount)
	assert.Equal(t, 8, stats[0].BestScore)
	assert.Equal(t, 12, stats[0].TotalScore)
}

func TestAnonymousAttemptOnPublicGame(t *testing.T) {
	ts := newTestServer(t)

	super := ts.registerAdmin(t, "superadmin")
	body := wordsearchGameBody("Everyone's game")
	body["is_public"] = true
	rr := ts.request(http.MethodPost, "/api/v1/games", body, super.Token)
	require.Equal(t, http.StatusCreated, rr.Code)
	var game response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &game))

	rr = ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/attempts", map[string]any{
		"score": 5, "max_score": 10,
	}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var attempt response.Attempt
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &attempt))
	assert.Nil(t, attempt.User)
}

func TestLegacyScoreUpsert(t *testing.T) {
	ts := newTestServer(t)

	admin := ts.registerAdmin(t, "teacher")
	student := ts.registerStudent(t, "pupil", admin.User.ID)

	submit := func(score int) response.ScoreRow {
		rr := ts.request(http.MethodPost, "/api/v1/scores", map[string]any{
			"game_id": "legacy-game", "theme": "animals", "score": score, "max_score": 100,
		}, student.Token)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var row response.ScoreRow
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &row))
		return row
	}

	first := submit(40)
	second := submit(90)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 90, second.Score)

	// The monthly board sees exactly one row for the student
	rr := ts.request(http.MethodGet, "/api/v1/rankings/monthly", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var entries []response.RankingEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].AttemptsCount)
	assert.Equal(t, 90, entries[0].BestScore)
}

func TestGlobalRankingAndPosition(t *testing.T) {
	ts := newTestServer(t)

	admin := ts.registerAdmin(t, "teacher")
	ana := ts.registerStudent(t, "ana", admin.User.ID)
	ben := ts.registerStudent(t, "ben", admin.User.ID)
	game := ts.createGame(t, admin.Token, "Animal hunt")

	attemptURL := fmt.Sprintf("/api/v1/games/%s/attempts", game.ID)
	rr := ts.request(http.MethodPost, attemptURL, map[string]any{"score": 9, "max_score": 10}, ana.Token)
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = ts.request(http.MethodPost, attemptURL, map[string]any{"score": 3, "max_score": 10}, ben.Token)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/rankings/global", nil, ana.Token)
	require.Equal(t, http.StatusOK, rr.Code)
	var entries []response.RankingEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, ana.User.ID, entries[0].User)
	assert.Equal(t, 1, entries[0].Position)

	rr = ts.request(http.MethodGet, "/api/v1/rankings/me", nil, ben.Token)
	require.Equal(t, http.StatusOK, rr.Code)
	var pos response.PositionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &pos))
	assert.Equal(t, 2, pos.Position)

	rr = ts.request(http.MethodGet, "/api/v1/rankings/games/"+game.ID, nil, ana.Token)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, 9, entries[0].BestScore)
}

func TestStatsAccessControl(t *testing.T) {
	ts := newTestServer(t)

	admin := ts.registerAdmin(t, "teacher")
	ana := ts.registerStudent(t, "ana", admin.User.ID)
	ben := ts.registerStudent(t, "ben", admin.User.ID)

	// A student cannot read another user's stats; their teacher can
	rr := ts.request(http.MethodGet, "/api/v1/stats/users/"+ana.User.ID, nil, ben.Token)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/stats/users/"+ana.User.ID, nil, admin.Token)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRebuildStats(t *testing.T) {
	ts := newTestServer(t)

	admin := ts.registerAdmin(t, "teacher")
	student := ts.registerStudent(t, "pupil", admin.User.ID)
	game := ts.createGame(t, admin.Token, "Animal hunt")

	attemptURL := fmt.Sprintf("/api/v1/games/%s/attempts", game.ID)
	rr := ts.request(http.MethodPost, attemptURL, map[string]any{
		"score": 8, "max_score": 10, "completed": true,
	}, student.Token)
	require.Equal(t, http.StatusCreated, rr.Code)

	rebuildURL := fmt.Sprintf("/api/v1/stats/users/%s/games/%s/rebuild", student.User.ID, game.ID)
	rr = ts.request(http.MethodPost, rebuildURL, nil, admin.Token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var stats response.UserGameStats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.AttemptsCount)
	assert.Equal(t, 8, stats.BestScore)

	// Students cannot rebuild other users' stats
	otherURL := fmt.Sprintf("/api/v1/stats/users/%s/games/%s/rebuild", admin.User.ID, game.ID)
	rr = ts.request(http.MethodPost, otherURL, nil, student.Token)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRebuildStatsIsTenantScoped(t *testing.T) {
	ts := newTestServer(t)

	admin := ts.registerAdmin(t, "teacher")
	student := ts.registerStudent(t, "pupil", admin.User.ID)
	game := ts.createGame(t, admin.Token, "Animal hunt")

	attemptURL := fmt.Sprintf("/api/v1/games/%s/attempts", game.ID)
	rr := ts.request(http.MethodPost, attemptURL, map[string]any{
		"score": 8, "max_score": 10, "completed": true,
	}, student.Token)
	require.Equal(t, http.StatusCreated, rr.Code)

	// An admin from another tenant gets not-found, never the stats
	other := ts.registerAdmin(t, "other-teacher")
	rebuildURL := fmt.Sprintf("/api/v1/stats/users/%s/games/%s/rebuild", student.User.ID, game.ID)
	rr = ts.request(http.MethodPost, rebuildURL, nil, other.Token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.NotContains(t, rr.Body.String(), "best_score")

	// The owning teacher still can
	rr = ts.request(http.MethodPost, rebuildURL, nil, admin.Token)
	assert.Equal(t, http.StatusOK, rr.Code)
}
