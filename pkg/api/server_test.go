package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/MikePehel/vst-param-cascade/pkg/host"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeHost renders via a canned plugin or fails to load.
type fakeHost struct {
	loadErr   error
	renderErr error
}

func (h *fakeHost) Load(path string) (host.Plugin, error) {
	if h.loadErr != nil {
		return nil, h.loadErr
	}
	return &fakePlugin{renderErr: h.renderErr}, nil
}

type fakePlugin struct {
	renderErr error
}

func (p *fakePlugin) Render(events []host.Event, duration float64, sampleRate int) ([][]float32, error) {
	if p.renderErr != nil {
		return nil, p.renderErr
	}
	n := int(duration * float64(sampleRate))
	return [][]float32{make([]float32, n), make([]float32, n)}, nil
}

func (p *fakePlugin) ShowEditor() error { return nil }
func (p *fakePlugin) Close() error      { return nil }

func serve(t *testing.T, backend host.Host, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	NewServer(backend).router().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := serve(t, &fakeHost{}, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d, want 200", w.Code)
	}
}

func TestListRates(t *testing.T) {
	w := serve(t, &fakeHost{}, http.MethodGet, "/api/v1/rates", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/v1/rates = %d, want 200", w.Code)
	}
	var resp struct {
		SampleRates []int `json:"sampleRates"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.SampleRates) != len(SampleRates) {
		t.Errorf("got %d rates, want %d", len(resp.SampleRates), len(SampleRates))
	}
}

func TestListPlugins(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "synth.so"), []byte{0x7f}, 0644); err != nil {
		t.Fatal(err)
	}

	w := serve(t, &fakeHost{}, http.MethodGet, "/api/v1/plugins?dir="+dir, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/v1/plugins = %d, want 200: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Plugins []string `json:"plugins"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Plugins) != 1 {
		t.Errorf("got %d plugins, want 1", len(resp.Plugins))
	}
}

func renderBody(outputDir string) map[string]any {
	return map[string]any{
		"plugin":     "/plugins/test.so",
		"sampleRate": 44100,
		"duration":   0.05,
		"noteMin":    60,
		"noteMax":    60,
		"outputDir":  outputDir,
		"ccMappings": []map[string]any{{"number": 1, "label": "mod"}},
		"ccValues":   []int{0, 127},
	}
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	w := serve(t, &fakeHost{}, http.MethodPost, "/api/v1/render", renderBody(dir))
	if w.Code != http.StatusOK {
		t.Fatalf("POST /api/v1/render = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Files int `json:"files"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Files != 2 {
		t.Errorf("files = %d, want 2", resp.Files)
	}

	for _, name := range []string{"C4_cc1_mod_0.wav", "C4_cc1_mod_127.wav"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing rendered file %s", name)
		}
	}
}

func TestRenderEmptyValues(t *testing.T) {
	dir := t.TempDir()
	body := renderBody(dir)
	body["ccValues"] = []int{}

	w := serve(t, &fakeHost{}, http.MethodPost, "/api/v1/render", body)
	if w.Code != http.StatusOK {
		t.Fatalf("empty values = %d, want 200: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Files int `json:"files"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Files != 0 {
		t.Errorf("files = %d, want 0", resp.Files)
	}
}

func TestRenderBadRequest(t *testing.T) {
	body := renderBody(t.TempDir())
	body["sampleRate"] = -1
	w := serve(t, &fakeHost{}, http.MethodPost, "/api/v1/render", body)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid sample rate = %d, want 400", w.Code)
	}

	w = serve(t, &fakeHost{}, http.MethodPost, "/api/v1/render", map[string]any{"plugin": "x"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing fields = %d, want 400", w.Code)
	}
}

func TestRenderLoadFailure(t *testing.T) {
	backend := &fakeHost{loadErr: errors.New("unsupported format")}
	w := serve(t, backend, http.MethodPost, "/api/v1/render", renderBody(t.TempDir()))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("load failure = %d, want 400", w.Code)
	}
	var resp struct {
		Stage string `json:"stage"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Stage != "load" {
		t.Errorf("stage = %q, want load", resp.Stage)
	}
}

func TestRenderFailure(t *testing.T) {
	backend := &fakeHost{renderErr: errors.New("plugin crashed")}
	w := serve(t, backend, http.MethodPost, "/api/v1/render", renderBody(t.TempDir()))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("render failure = %d, want 500", w.Code)
	}
	var resp struct {
		Stage string `json:"stage"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Stage != "render" {
		t.Errorf("stage = %q, want render", resp.Stage)
	}
}
