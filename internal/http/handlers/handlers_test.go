package handlers

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ludo_client/internal/audio"
	"ludo_client/internal/controller"
	"ludo_client/internal/realtime"
	"ludo_client/internal/ws"

	"github.com/gin-gonic/gin"
)

type fakeGame struct {
	view  controller.View
	err   error
	moves []int
}

func (f *fakeGame) View(context.Context) (controller.View, error) { return f.view, nil }
func (f *fakeGame) RollDice(context.Context) error { return f.err }
func (f *fakeGame) Surrender(context.Context) error { return f.err }
func (f *fakeGame) Rejoin(context.Context) error { return f.err }
func (f *fakeGame) DismissAlert(context.Context) error { return nil }
func (f *fakeGame) MovePiece(_ context.Context, _ string, slot int) error {
	if f.err != nil {
		return f.err
	}
	f.moves = append(f.moves, slot)
	return nil
}

func newRouter(g Game, cues *audio.Recorder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(g, nil, cues, nil)
	r := gin.New()
	r.GET("/api/view", h.View)
	r.POST("/api/roll", h.Roll)
	r.POST("/api/move", h.Move)
	r.GET("/api/cues", h.DrainCues)
	r.GET("/api/board/project", h.Project)
	r.GET("/healthz", NewHealthHandler("test", nil).Liveness)
	return r
}

func serve(r http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestViewJSON(t *testing.T) {
	g := &fakeGame{view: controller.View{RoomID: "AB12C", MyID: "P1", Messages: []string{"hi"}}}
	w := serve(newRouter(g, nil), http.MethodGet, "/api/view", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var v controller.View
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.RoomID != "AB12C" || v.MyID != "P1" || len(v.Messages) != 1 {
		t.Fatalf("view = %+v", v)
	}
}

func TestActionErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusAccepted},
		{controller.ErrNotYourTurn, http.StatusConflict},
		{controller.ErrAlreadyRolled, http.StatusConflict},
		{controller.ErrNotOwner, http.StatusForbidden},
		{ws.ErrNotConnected, http.StatusServiceUnavailable},
		{ws.ErrThrottled, http.StatusTooManyRequests},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		g := &fakeGame{err: tc.err}
		w := serve(newRouter(g, nil), http.MethodPost, "/api/roll", nil)
		if w.Code != tc.want {
			t.Fatalf("%v: status = %d, want %d", tc.err, w.Code, tc.want)
		}
	}
}

func TestMoveValidatesBody(t *testing.T) {
	g := &fakeGame{}
	r := newRouter(g, nil)

	if w := serve(r, http.MethodPost, "/api/move", []byte(`{"playerId":"P1"}`)); w.Code != http.StatusBadRequest {
		t.Fatalf("missing slot = %d", w.Code)
	}
	if w := serve(r, http.MethodPost, "/api/move", []byte(`{"playerId":"P1","slot":0}`)); w.Code != http.StatusAccepted {
		t.Fatalf("slot 0 = %d", w.Code)
	}
	if len(g.moves) != 1 || g.moves[0] != 0 {
		t.Fatalf("moves = %v", g.moves)
	}
}

func TestDrainCues(t *testing.T) {
	rec := audio.NewRecorder(nil)
	rec.Play(audio.CueDice)
	rec.Play(audio.CueKill)
	r := newRouter(&fakeGame{}, rec)

	w := serve(r, http.MethodGet, "/api/cues", nil)
	var body struct{ Cues []string }
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if len(body.Cues) != 2 || body.Cues[0] != "dice" || body.Cues[1] != "kill" {
		t.Fatalf("cues = %v", body.Cues)
	}

	w = serve(r, http.MethodGet, "/api/cues", nil)
	body.Cues = nil
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if len(body.Cues) != 0 {
		t.Fatalf("second drain = %v", body.Cues)
	}
}

func TestProject(t *testing.T) {
	r := newRouter(&fakeGame{}, nil)

	w := serve(r, http.MethodGet, "/api/board/project?pos=103&color=green", nil)
	var body struct {
		Kind     string
		Quadrant int
		Step     int
		Col, Row int
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Kind != "lane" || body.Quadrant != 0 || body.Step != 3 || body.Col != 4 || body.Row != 7 {
		t.Fatalf("body = %+v (%s)", body, w.Body.String())
	}

	if w := serve(r, http.MethodGet, "/api/board/project?pos=x", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad pos = %d", w.Code)
	}
	if w := serve(r, http.MethodGet, "/api/board/project?pos=1&color=purple", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad color = %d", w.Code)
	}
}

func TestHealthChecks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	hh := NewHealthHandler("v1", map[string]Check{
		"transport": func(context.Context) error { return errors.New("offline") },
	})
	r.GET("/health", hh.Health)
	r.GET("/readyz", hh.Readiness)

	if w := serve(r, http.MethodGet, "/health", nil); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("health = %d", w.Code)
	}
	w := serve(r, http.MethodGet, "/readyz", nil)
	var resp HealthResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if w.Code != http.StatusServiceUnavailable || resp.Checks["transport"] != "unhealthy: offline" {
		t.Fatalf("readyz = %d %+v", w.Code, resp)
	}
}

func TestHealthSoftCheckDegrades(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	hh := NewHealthHandler("v1", map[string]Check{
		"transport": func(context.Context) error { return nil },
		"redis":     Soft(func(context.Context) error { return errors.New("refused") }),
	})
	r.GET("/readyz", hh.Readiness)
	r.GET("/health", hh.Health)

	w := serve(r, http.MethodGet, "/readyz", nil)
	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.Code != http.StatusOK || resp.Status != "degraded" {
		t.Fatalf("readyz = %d %+v", w.Code, resp)
	}
	if resp.Checks["redis"] != "degraded: refused" || resp.Checks["transport"] != "healthy" {
		t.Fatalf("checks = %+v", resp.Checks)
	}
	if resp.Uptime == "" {
		t.Fatalf("readyz without uptime")
	}

	w = serve(r, http.MethodGet, "/health", nil)
	resp = HealthResponse{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if w.Code != http.StatusOK || resp.Checks != nil {
		t.Fatalf("health = %d %+v", w.Code, resp)
	}
}

// streamFrames opens the SSE stream and returns the data of the first n view
// events, calling between after each one.
func streamFrames(t *testing.T, url string, n int, between func(i int)) []string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	defer res.Body.Close()

	var frames []string
	sc := bufio.NewScanner(res.Body)
	for sc.Scan() && len(frames) < n {
		line := sc.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		frames = append(frames, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		if between != nil {
			between(len(frames) - 1)
		}
	}
	if len(frames) < n {
		t.Fatalf("got %d frames, want %d: %v", len(frames), n, frames)
	}
	return frames
}

func TestStreamSendsFirstFrameOnce(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stream := realtime.NewBroadcaster()
	g := &fakeGame{view: controller.View{MyID: "live"}}
	h := NewHandler(g, stream, nil, nil)
	r := gin.New()
	r.GET("/api/view/stream", h.StreamView)
	srv := httptest.NewServer(r)
	defer srv.Close()

	stream.Publish([]byte(`{"myId":"published"}`))

	frames := streamFrames(t, srv.URL+"/api/view/stream", 2, func(i int) {
		if i == 0 {
			stream.Publish([]byte(`{"myId":"next"}`))
		}
	})
	if frames[0] != `{"myId":"published"}` || frames[1] != `{"myId":"next"}` {
		t.Fatalf("frames = %v", frames)
	}
}

func TestStreamBuildsFirstFrameWhenNothingPublished(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := &fakeGame{view: controller.View{MyID: "live"}}
	h := NewHandler(g, realtime.NewBroadcaster(), nil, nil)
	r := gin.New()
	r.GET("/api/view/stream", h.StreamView)
	srv := httptest.NewServer(r)
	defer srv.Close()

	frames := streamFrames(t, srv.URL+"/api/view/stream", 1, nil)
	var v controller.View
	if err := json.Unmarshal([]byte(frames[0]), &v); err != nil || v.MyID != "live" {
		t.Fatalf("first frame = %s (%v)", frames[0], err)
	}
}
