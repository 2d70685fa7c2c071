package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/delmargolf/club/internal/auth"
	"github.com/delmargolf/club/internal/export"
	"github.com/delmargolf/club/internal/leaderboard"
	"github.com/delmargolf/club/internal/metrics"
	"github.com/delmargolf/club/internal/models"
	"github.com/delmargolf/club/internal/photos"
	"github.com/delmargolf/club/internal/store"
	"github.com/delmargolf/club/internal/websocket"
)

const adminPassword = "let-me-in"

// memPhotos is an in-memory photos.Store.
type memPhotos struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemPhotos() *memPhotos { return &memPhotos{objects: map[string][]byte{}} }

func (m *memPhotos) Put(_ context.Context, key, _ string, body io.Reader, _ int64) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return "https://photos.test/" + key, nil
}

func (m *memPhotos) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memPhotos) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

type testEnv struct {
	app     *fiber.App
	token   string
	photos  *memPhotos
	hub     *websocket.Hub
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T, withPhotos bool) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	hub := websocket.NewHub()
	go hub.Run(ctx)
	t.Cleanup(cancel)

	authn := auth.New(adminPassword, "handler-test-secret", time.Hour)
	token, _, err := authn.Login(adminPassword)
	require.NoError(t, err)

	env := &testEnv{hub: hub, metrics: metrics.New(), token: token}
	var ph photos.Store
	if withPhotos {
		env.photos = newMemPhotos()
		ph = env.photos
	}

	log := zerolog.Nop()
	env.app = fiber.New(fiber.Config{ErrorHandler: ErrorHandler(log)})
	Register(env.app, Deps{
		DB:      db,
		Store:   store.New(db),
		Auth:    authn,
		Photos:  ph,
		Hub:     hub,
		Metrics: env.metrics,
		Log:     log,
	})
	return env
}

// do sends a request; body is JSON-encoded unless it is already an io.Reader.
func (e *testEnv) do(t *testing.T, method, path string, body any, admin bool) *http.Response {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		r = b
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (e *testEnv) createGame(t *testing.T) GameResponse {
	t.Helper()
	resp := e.do(t, "POST", "/api/v1/games", CreateGameRequest{
		Name: "June Monthly",
		Date: "2024-06-02",
		Groups: []store.GroupInput{{Players: []store.PlayerInput{
			{Name: "Kim"}, {Name: "Lee"}, {Name: "Park"}, {Name: "Choi"},
		}}},
	}, true)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return decode[GameResponse](t, resp)
}

func fullCard(member string, score int) SaveScoresRequest {
	id := uuid.MustParse(member)
	req := SaveScoresRequest{}
	for h := 1; h <= 18; h++ {
		s := score
		req.Scores = append(req.Scores, store.ScoreEntry{GroupPlayerID: id, Hole: h, Score: &s})
	}
	return req
}

func TestHealthCheck(t *testing.T) {
	env := newTestEnv(t, false)
	resp := env.do(t, "GET", "/health", nil, false)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode[map[string]string](t, resp)["status"])
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t, false)

	resp := env.do(t, "POST", "/api/auth", LoginRequest{Password: adminPassword}, false)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])
	assert.NotEmpty(t, body["expires_at"])

	resp = env.do(t, "POST", "/api/auth", LoginRequest{Password: "guess"}, false)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	body = decode[map[string]any](t, resp)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["message"])
}

func TestGames_AdminRoutesNeedToken(t *testing.T) {
	env := newTestEnv(t, false)

	resp := env.do(t, "POST", "/api/v1/games", CreateGameRequest{Name: "x", Date: "2024-06-02"}, false)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	game := env.createGame(t)
	resp = env.do(t, "DELETE", "/api/v1/games/"+game.ID, nil, false)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// the public side of the same prefix still works without a token
	resp = env.do(t, "GET", "/api/v1/games/"+game.ID, nil, false)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGames_Lifecycle(t *testing.T) {
	env := newTestEnv(t, false)
	game := env.createGame(t)

	assert.Equal(t, "2024-06-02", game.Date)
	require.Len(t, game.Groups, 1)
	g := game.Groups[0]
	assert.Equal(t, "1조", g.Name)
	assert.Equal(t, []string{"A", "A", "B", "B"}, []string{g.Members[0].Team, g.Members[1].Team, g.Members[2].Team, g.Members[3].Team})

	list := decode[[]GameResponse](t, env.do(t, "GET", "/api/v1/games", nil, false))
	require.Len(t, list, 1)
	assert.Equal(t, game.ID, list[0].ID)

	name := "June Medal"
	resp := env.do(t, "PATCH", "/api/v1/games/"+game.ID, UpdateGameRequest{Name: &name}, true)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	updated := decode[GameResponse](t, resp)
	assert.Equal(t, "June Medal", updated.Name)
	assert.Equal(t, "2024-06-02", updated.Date)

	resp = env.do(t, "DELETE", "/api/v1/games/"+game.ID, nil, true)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = env.do(t, "GET", "/api/v1/games/"+game.ID, nil, false)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGames_BadRequests(t *testing.T) {
	env := newTestEnv(t, false)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"bad id", "GET", "/api/v1/games/not-a-uuid", nil, fiber.StatusBadRequest},
		{"unknown game", "GET", "/api/v1/games/" + uuid.NewString() + "/leaderboard", nil, fiber.StatusNotFound},
		{"bad date", "POST", "/api/v1/games", CreateGameRequest{Name: "x", Date: "June 2nd"}, fiber.StatusBadRequest},
		{"group too small", "POST", "/api/v1/games", CreateGameRequest{
			Name: "x", Date: "2024-06-02",
			Groups: []store.GroupInput{{Players: []store.PlayerInput{{Name: "Solo"}}}},
		}, fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, tt.method, tt.path, tt.body, true)
			assert.Equal(t, tt.want, resp.StatusCode)
			assert.NotEmpty(t, decode[map[string]string](t, resp)["error"])
		})
	}
}

func TestSaveScores_ReturnsAndBroadcastsBoard(t *testing.T) {
	env := newTestEnv(t, false)
	game := env.createGame(t)
	kim := game.Groups[0].Members[0]

	viewer := websocket.NewClient(game.ID)
	env.hub.Register(viewer)

	resp := env.do(t, "PUT", "/api/v1/games/"+game.ID+"/scores", fullCard(kim.ID, 1), false)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	board := decode[leaderboard.Board](t, resp)

	var found bool
	for _, p := range board.Players {
		if p.Name == "Kim" {
			found = true
			assert.Equal(t, 18, p.Total)
			assert.True(t, p.Complete())
			assert.Equal(t, 18, p.CategoryCounts[leaderboard.CategoryBogey])
		}
	}
	assert.True(t, found)
	assert.Equal(t, float64(18), testutil.ToFloat64(env.metrics.ScoreWrites))

	select {
	case data := <-viewer.Send:
		var msg LiveMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, "leaderboard", msg.Type)
		assert.Equal(t, game.ID, msg.Data.GameID)
	case <-time.After(time.Second):
		t.Fatal("no live update")
	}
}

func TestSaveScores_RejectsBadHole(t *testing.T) {
	env := newTestEnv(t, false)
	game := env.createGame(t)

	s := 0
	req := SaveScoresRequest{Scores: []store.ScoreEntry{
		{GroupPlayerID: uuid.MustParse(game.Groups[0].Members[0].ID), Hole: 19, Score: &s},
	}}
	resp := env.do(t, "PUT", "/api/v1/games/"+game.ID+"/scores", req, false)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestStats(t *testing.T) {
	env := newTestEnv(t, false)
	game := env.createGame(t)
	members := game.Groups[0].Members
	env.do(t, "PUT", "/api/v1/games/"+game.ID+"/scores", fullCard(members[0].ID, 1), false)

	stats := decode[[]PlayerStatResponse](t, env.do(t, "GET", "/api/v1/stats", nil, false))
	require.Len(t, stats, 4)
	byName := map[string]PlayerStatResponse{}
	for _, s := range stats {
		byName[s.Name] = s
	}

	require.NotNil(t, byName["Kim"].Average)
	assert.Equal(t, "18.0", *byName["Kim"].Average)
	assert.Equal(t, "18.0", byName["Kim"].Display)
	assert.Len(t, byName["Kim"].Games, 1)

	assert.Nil(t, byName["Lee"].Average)
	assert.Equal(t, "N/A", byName["Lee"].Display)
	assert.Empty(t, byName["Lee"].Games)
}

func TestExportStats(t *testing.T) {
	env := newTestEnv(t, false)
	game := env.createGame(t)
	env.do(t, "PUT", "/api/v1/games/"+game.ID+"/scores", fullCard(game.Groups[0].Members[0].ID, 0), false)

	resp := env.do(t, "GET", "/api/v1/stats/export", nil, false)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, xlsxContentType, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Kim", "0", "1", "0"}, rows[1])
}

func photoForm(t *testing.T, filename string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("photo", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("not really a jpeg"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func (e *testEnv) upload(t *testing.T, gameID, filename string) *http.Response {
	t.Helper()
	body, contentType := photoForm(t, filename)
	req := httptest.NewRequest("POST", "/api/v1/games/"+gameID+"/photos", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestPhotos_UploadLimitAndGallery(t *testing.T) {
	env := newTestEnv(t, true)
	game := env.createGame(t)

	for i := 0; i < models.MaxPhotosPerGame; i++ {
		resp := env.upload(t, game.ID, fmt.Sprintf("shot%d.jpg", i))
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
		photo := decode[PhotoResponse](t, resp)
		assert.True(t, strings.HasPrefix(photo.URL, "https://photos.test/"+game.ID+"_"))
		// keys are millisecond timestamps
		time.Sleep(2 * time.Millisecond)
	}

	resp := env.upload(t, game.ID, "one-too-many.jpg")
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, models.MaxPhotosPerGame, env.photos.len())

	resp = env.upload(t, game.ID, "notes.txt")
	assert.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)

	list := decode[[]PhotoResponse](t, env.do(t, "GET", "/api/v1/games/"+game.ID+"/photos", nil, false))
	assert.Len(t, list, models.MaxPhotosPerGame)

	gallery := decode[[]PhotoResponse](t, env.do(t, "GET", "/api/v1/gallery", nil, false))
	require.Len(t, gallery, models.MaxPhotosPerGame)
	assert.Equal(t, "June Monthly", gallery[0].GameName)

	assert.Equal(t, float64(models.MaxPhotosPerGame), testutil.ToFloat64(env.metrics.PhotoUploads.WithLabelValues("ok")))
	assert.Equal(t, float64(2), testutil.ToFloat64(env.metrics.PhotoUploads.WithLabelValues("rejected")))

	resp = env.do(t, "DELETE", "/api/v1/photos/"+list[0].ID, nil, true)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, models.MaxPhotosPerGame-1, env.photos.len())

	// deleting the game removes the remaining objects too
	resp = env.do(t, "DELETE", "/api/v1/games/"+game.ID, nil, true)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Zero(t, env.photos.len())
}

func TestPhotos_DisabledWithoutStorage(t *testing.T) {
	env := newTestEnv(t, false)
	game := env.createGame(t)

	resp := env.upload(t, game.ID, "shot.jpg")
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

func TestLiveLeaderboard_RequiresUpgrade(t *testing.T) {
	env := newTestEnv(t, false)
	resp := env.do(t, "GET", "/ws/games/"+uuid.NewString(), nil, false)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, false)
	game := env.createGame(t)
	env.do(t, "GET", "/api/v1/games/"+game.ID+"/leaderboard", nil, false)

	resp := env.do(t, "GET", "/metrics", nil, false)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "golfclub_leaderboard_builds_total 1")
}
