package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"PawPlanner_WebClient/internal/frontend"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu          sync.Mutex
	loggedIn    bool
	lastProfile map[string]string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	_, cookieErr := r.Cookie("session")
	authed := f.loggedIn && cookieErr == nil

	switch r.URL.Path {
	case "/api/login":
		f.loggedIn = true
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "cli", Path: "/"})
		w.Write([]byte(`{"status":"ok"}`))
	case "/api/logout":
		f.loggedIn = false
		w.Write([]byte(`{"status":"ok"}`))
	case "/api/profile-check":
		if authed {
			w.Write([]byte(`{"logged_in":true,"username":"rex"}`))
			return
		}
		w.Write([]byte(`{"logged_in":false}`))
	case "/api/profile":
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"bad json"}`))
			return
		}
		f.lastProfile = body
		w.Write([]byte(`{"status":"ok","dog_id":"7"}`))
	case "/api/profile/7":
		w.Write([]byte(`{"dog_id":"7","name":"Rex"}`))
	case "/api/recommendations":
		w.Write([]byte(`{"deterministic":{"calorie_estimate_kcal_per_day":812,"category":"adult","exercise_minutes_per_day":45,"details":["split meals"]},"gemini_refinement":"Add a short walk."}`))
	default:
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	}
}

// runCLI executes pawctl against the given backend and local file.
func runCLI(t *testing.T, api, db string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("PAWPLAN_LOG_LEVEL", "error")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--api", api, "--db", db}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLoginPersistsBetweenRuns(t *testing.T) {
	srv := httptest.NewServer(&fakeAPI{})
	defer srv.Close()
	db := filepath.Join(t.TempDir(), "pawctl.db")

	out, err := runCLI(t, srv.URL, db, "--profile", "default", "whoami")
	require.NoError(t, err)
	assert.Equal(t, msgNotLoggedIn+"\n", out)

	out, err = runCLI(t, srv.URL, db, "--profile", "default", "login", "-u", " rex ", "-p", "pw")
	require.NoError(t, err)
	assert.Equal(t, `{"status":"ok"}`+"\n", out)

	out, err = runCLI(t, srv.URL, db, "--profile", "default", "whoami")
	require.NoError(t, err)
	assert.Equal(t, "Welcome back, rex\n", out)

	// another profile in the same file has no cookie
	out, err = runCLI(t, srv.URL, db, "--profile", "other", "whoami")
	require.NoError(t, err)
	assert.Equal(t, msgNotLoggedIn+"\n", out)
}

func TestLoginMissingCredentials(t *testing.T) {
	srv := httptest.NewServer(&fakeAPI{})
	defer srv.Close()
	db := filepath.Join(t.TempDir(), "pawctl.db")

	out, err := runCLI(t, srv.URL, db, "--profile", "default", "login", "-u", "   ", "-p", "pw")
	require.NoError(t, err)
	assert.Equal(t, frontend.MsgMissingCredentials+"\n", out)
}

func TestProfileAndRecommendation(t *testing.T) {
	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()
	db := filepath.Join(t.TempDir(), "pawctl.db")

	out, err := runCLI(t, srv.URL, db, "--profile", "default", "recommend")
	require.NoError(t, err)
	assert.Equal(t, frontend.MsgNoDogProfile+"\n", out)

	out, err = runCLI(t, srv.URL, db, "--profile", "default", "profile", "create",
		"--name", "Rex", "--weight_kg", "30", "--field", "nickname=R")
	require.NoError(t, err)
	assert.Contains(t, out, `"dog_id":"7"`)

	api.mu.Lock()
	sent := api.lastProfile
	api.mu.Unlock()
	assert.Equal(t, "Rex", sent["name"])
	assert.Equal(t, "30", sent["weight_kg"])
	assert.Equal(t, "moderate", sent["activity_level"])
	assert.Equal(t, "R", sent["nickname"])
	assert.Contains(t, sent, "breed")

	out, err = runCLI(t, srv.URL, db, "--profile", "default", "profile", "show")
	require.NoError(t, err)
	assert.Equal(t, `{"dog_id":"7","name":"Rex"}`+"\n", out)

	out, err = runCLI(t, srv.URL, db, "--profile", "default", "recommend")
	require.NoError(t, err)
	assert.Equal(t, "Calories/day: 812\n"+
		"Category: adult\n"+
		"Exercise minutes/day: 45\n"+
		"Details:\n- split meals\n"+
		"\n--- GEMINI REFINEMENT ---\n"+
		"Add a short walk.\n", out)
}

func TestBackendUnavailable(t *testing.T) {
	srv := httptest.NewServer(&fakeAPI{})
	api := srv.URL
	srv.Close()
	db := filepath.Join(t.TempDir(), "pawctl.db")

	out, err := runCLI(t, api, db, "--profile", "default", "logout")
	assert.Error(t, err)
	assert.Empty(t, out)
}

func TestProfileFormRejectsBadField(t *testing.T) {
	cmd := &cobra.Command{}
	addProfileFlags(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{"--field", "novalue"}))

	_, err := profileForm(cmd)
	assert.Error(t, err)
}

func TestProfileFormDefaults(t *testing.T) {
	cmd := &cobra.Command{}
	addProfileFlags(cmd)
	require.NoError(t, cmd.Flags().Parse([]string{"--breed", "Beagle", "--field", "breed=Basset"}))

	form, err := profileForm(cmd)
	require.NoError(t, err)
	assert.Equal(t, "Basset", form["breed"])
	assert.Equal(t, "moderate", form["activity_level"])
	assert.Equal(t, "", form["name"])
}

func TestRequestTimeoutApplies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()
	db := filepath.Join(t.TempDir(), "pawctl.db")

	t.Setenv("PAWPLAN_REQUEST_TIMEOUT", "50ms")
	_, err := runCLI(t, srv.URL, db, "--profile", "default", "logout")
	require.Error(t, err)
	assert.Equal(t, 50*time.Millisecond, requestTimeout)

	t.Setenv("PAWPLAN_REQUEST_TIMEOUT", "")
	out, err := runCLI(t, srv.URL, db, "--profile", "default", "logout")
	require.NoError(t, err)
	assert.Equal(t, `{"status":"ok"}`+"\n", out)
}
