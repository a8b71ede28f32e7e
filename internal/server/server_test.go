package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cytsaiap-xyz/skills-manager/internal/config"
	"github.com/cytsaiap-xyz/skills-manager/internal/logging"
	"github.com/cytsaiap-xyz/skills-manager/internal/util"
)

type fixture struct {
	cfg    *config.Config
	server *Server
	home   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := config.Default()
	cfg.Paths.SkillsRepo = filepath.Join(home, "repo")
	cfg.Paths.GlobalSkills = filepath.Join(home, "global")

	util.WriteSkill(t, cfg.Paths.SkillsRepo, "git-helper", "---\nname: Git Helper\ncategory: Development\ntags: [git]\n---\n# Git\n")
	util.WriteSkill(t, cfg.Paths.SkillsRepo, "bare", "")
	util.WriteFile(t, filepath.Join(cfg.Paths.SkillsRepo, "git-helper", "scripts", "run.sh"), "echo hi\n")

	return &fixture{cfg: cfg, server: New(cfg), home: home}
}

func (f *fixture) do(t *testing.T, method, target string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	var decoded map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestListSkills(t *testing.T) {
	f := newFixture(t)

	rec, body := f.do(t, http.MethodGet, "/api/skills", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []any{"Development", "Other"}, body["categories"])

	skills, ok := body["skills"].([]any)
	require.True(t, ok)
	require.Len(t, skills, 2)

	ids := []string{}
	for _, s := range skills {
		ids = append(ids, s.(map[string]any)["id"].(string))
	}
	assert.ElementsMatch(t, []string{"git-helper", "bare"}, ids)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestListSkills_CreatesRepo(t *testing.T) {
	f := newFixture(t)
	f.cfg.Paths.SkillsRepo = filepath.Join(f.home, "fresh")
	srv := New(f.cfg)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/skills", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"skills":[],"categories":[]}`, rec.Body.String())
	assert.DirExists(t, f.cfg.Paths.SkillsRepo)
}

func TestSkillDetail(t *testing.T) {
	f := newFixture(t)

	tests := map[string]struct {
		target     string
		wantStatus int
		wantError  string
	}{
		"found":     {target: "/api/skills/git-helper", wantStatus: http.StatusOK},
		"not found": {target: "/api/skills/missing", wantStatus: http.StatusNotFound},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rec, body := f.do(t, http.MethodGet, tt.target, nil)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, false, body["success"])
				assert.NotEmpty(t, body["error"])
				if tt.wantError != "" {
					assert.Contains(t, body["error"], tt.wantError)
				}
				return
			}

			skill := body["skill"].(map[string]any)
			assert.Equal(t, "Git Helper", skill["name"])
			assert.Contains(t, skill["content"], "# Git")
			files := skill["files"].([]any)
			assert.Len(t, files, 2)
		})
	}
}

func TestInstalled(t *testing.T) {
	f := newFixture(t)
	util.WriteSkill(t, f.cfg.Paths.GlobalSkills, "git-helper", "")
	util.WriteSkill(t, filepath.Join(f.home, "app", ".opencode", "skill"), "bare", "")

	tests := map[string]struct {
		query       string
		wantStatus  int
		wantGlobal  int
		wantProject int
	}{
		"default type":     {query: "", wantStatus: http.StatusOK, wantGlobal: 1},
		"all with project": {query: "?type=all&projectPath=~/app", wantStatus: http.StatusOK, wantGlobal: 1, wantProject: 1},
		"project only":     {query: "?type=project&projectPath=" + filepath.Join(f.home, "app"), wantStatus: http.StatusOK, wantProject: 1},
		"global only":      {query: "?type=global&projectPath=~/app", wantStatus: http.StatusOK, wantGlobal: 1},
		"invalid type":     {query: "?type=everything", wantStatus: http.StatusBadRequest},
		"project, no path": {query: "?type=project", wantStatus: http.StatusOK},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rec, body := f.do(t, http.MethodGet, "/api/installed"+tt.query, nil)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}
			installed := body["installed"].(map[string]any)
			assert.Len(t, installed["global"], tt.wantGlobal)
			assert.Len(t, installed["project"], tt.wantProject)
		})
	}
}

func TestConfig(t *testing.T) {
	f := newFixture(t)

	rec, body := f.do(t, http.MethodGet, "/api/config", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cfg := body["config"].(map[string]any)
	assert.Equal(t, f.cfg.Paths.SkillsRepo, cfg["skillsRepoPath"])
	assert.Equal(t, f.cfg.Paths.GlobalSkills, cfg["globalSkillsPath"])

	dests := cfg["destinations"].([]any)
	require.Len(t, dests, 2)
	assert.Equal(t, "global", dests[0].(map[string]any)["id"])
	assert.Equal(t, ".opencode/skill", dests[1].(map[string]any)["path"])
}

func TestDownload(t *testing.T) {
	f := newFixture(t)

	tests := map[string]struct {
		body       map[string]string
		wantStatus int
		wantPath   string
		wantError  string
	}{
		"global": {
			body:       map[string]string{"skillId": "git-helper", "destination": "global"},
			wantStatus: http.StatusOK,
			wantPath:   filepath.Join(f.home, "global", "git-helper"),
		},
		"project": {
			body:       map[string]string{"skillId": "git-helper", "destination": "project", "projectPath": "~/proj"},
			wantStatus: http.StatusOK,
			wantPath:   filepath.Join(f.home, "proj", ".opencode", "skill", "git-helper"),
		},
		"missing skill id": {
			body:       map[string]string{"destination": "global"},
			wantStatus: http.StatusBadRequest,
			wantError:  `"skillId": is required`,
		},
		"missing destination": {
			body:       map[string]string{"skillId": "git-helper"},
			wantStatus: http.StatusBadRequest,
			wantError:  `"destination": is required`,
		},
		"project inside the source bundle": {
			body:       map[string]string{"skillId": "git-helper", "destination": "project", "projectPath": "~/repo/git-helper"},
			wantStatus: http.StatusBadRequest,
			wantError:  "inside the source bundle",
		},
		"unknown destination": {
			body:       map[string]string{"skillId": "git-helper", "destination": "cloud"},
			wantStatus: http.StatusBadRequest,
		},
		"project without path": {
			body:       map[string]string{"skillId": "git-helper", "destination": "project"},
			wantStatus: http.StatusBadRequest,
		},
		"unknown skill": {
			body:       map[string]string{"skillId": "nope", "destination": "global"},
			wantStatus: http.StatusNotFound,
		},
		"path traversal": {
			body:       map[string]string{"skillId": "../repo", "destination": "global"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rec, body := f.do(t, http.MethodPost, "/api/download", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, false, body["success"])
				assert.NotEmpty(t, body["error"])
				return
			}

			assert.Equal(t, true, body["success"])
			assert.Equal(t, `Skill "git-helper" copied successfully`, body["message"])
			assert.Equal(t, tt.wantPath, body["destination"])
			assert.FileExists(t, filepath.Join(tt.wantPath, "scripts", "run.sh"))
		})
	}
}

func TestDownload_InvalidJSON(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/download", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownloadThenInstalled(t *testing.T) {
	f := newFixture(t)

	rec, _ := f.do(t, http.MethodPost, "/api/download", map[string]string{"skillId": "bare", "destination": "global"})
	require.Equal(t, http.StatusOK, rec.Code)

	_, body := f.do(t, http.MethodGet, "/api/installed?type=global", nil)
	global := body["installed"].(map[string]any)["global"].([]any)
	require.Len(t, global, 1)
	assert.Equal(t, "bare", global[0].(map[string]any)["id"])
}

func TestUnknownAPIRoute(t *testing.T) {
	f := newFixture(t)

	rec, body := f.do(t, http.MethodGet, "/api/nothing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestRequestIDIsEchoed(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/config", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "fixed-id", rec.Header().Get(RequestIDHeader))
}

func TestStaticFiles(t *testing.T) {
	f := newFixture(t)
	static := filepath.Join(f.home, "public")
	util.WriteFile(t, filepath.Join(static, "index.html"), "<h1>skills</h1>")
	util.WriteFile(t, filepath.Join(static, "app.js"), "console.log(1)")
	f.cfg.Server.StaticDir = static
	srv := New(f.cfg)

	tests := map[string]struct {
		target string
		want   string
	}{
		"root":     {target: "/", want: "<h1>skills</h1>"},
		"asset":    {target: "/app.js", want: "console.log(1)"},
		"fallback": {target: "/some/page", want: "<h1>skills</h1>"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	f := newFixture(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.server.Serve(ctx, listener) }()

	url := "http://" + listener.Addr().String() + "/api/config"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url) // #nosec G107 - local test server
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestMain(m *testing.M) {
	logging.SetDefault(logging.New(logging.Options{Output: io.Discard}))
	os.Exit(m.Run())
}
