package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"PawPlanner_WebClient/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSendsJSONAndCookies(t *testing.T) {
	var gotContentType, gotBody, gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc", Path: "/"})
			w.Write([]byte(`{"status": "ok"}`))
		case "/api/profile-check":
			gotContentType = r.Header.Get("Content-Type")
			if c, err := r.Cookie("session"); err == nil {
				gotCookie = c.Value
			}
			body, _ := io.ReadAll(r.Body)
			gotBody = string(body)
			w.Write([]byte(`{"logged_in":true,"username":"rex"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, Options{})
	require.NoError(t, err)

	resp, err := client.Login(context.Background(), models.Credentials{Username: "rex", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, `{"status":"ok"}`, resp.Text())

	resp, err = client.ProfileCheck(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "abc", gotCookie)
	assert.Empty(t, gotBody, "GET must not carry a body")

	var check models.ProfileCheckResponse
	require.NoError(t, resp.Decode(&check))
	assert.True(t, check.LoggedIn)
	assert.Equal(t, "rex", check.Username)
}

func TestDoDefaultsToGET(t *testing.T) {
	var method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, Options{})
	require.NoError(t, err)

	_, err = client.Do(context.Background(), "/anything", "", nil)
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, method)
}

func TestDoReturnsErrorStatusBodies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid credentials"}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, Options{})
	require.NoError(t, err)

	resp, err := client.Login(context.Background(), models.Credentials{Username: "a", Password: "b"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, `{"error":"invalid credentials"}`, resp.Text())
}

func TestDoRejectsNonJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>oops</html>`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, Options{})
	require.NoError(t, err)

	_, err = client.Logout(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotJSON))
}

func TestDoNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client, err := NewClient(url, Options{})
	require.NoError(t, err)

	_, err = client.ProfileCheck(context.Background())
	assert.Error(t, err)
}

func TestRecommendationsRequestBody(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/recommendations", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"deterministic":{"category":"ideal","details":[]},"gemini_refinement":null}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, Options{})
	require.NoError(t, err)

	resp, err := client.Recommendations(context.Background(), models.RecommendationRequest{DogID: "42", RefineWithGemini: true})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"dog_id": "42", "refine_with_gemini": true}, got)

	var rec models.RecommendationResponse
	require.NoError(t, resp.Decode(&rec))
	require.NotNil(t, rec.Deterministic)
	assert.Nil(t, rec.GeminiRefinement)
}

func TestGetProfileEscapesID(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.EscapedPath()
		w.Write([]byte(`{"profile":{}}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, Options{})
	require.NoError(t, err)

	_, err = client.GetProfile(context.Background(), "a/b")
	require.NoError(t, err)
	assert.Equal(t, "/api/profile/a%2Fb", path)
}

func TestNewClientRejectsRelativeURL(t *testing.T) {
	_, err := NewClient("/api", Options{})
	assert.Error(t, err)
}

type mapStore struct {
	mu    sync.Mutex
	items map[string]string
}

func (m *mapStore) GetItem(_ context.Context, ns, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[ns+"/"+key]
	return v, ok, nil
}

func (m *mapStore) SetItem(_ context.Context, ns, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[ns+"/"+key] = value
	return nil
}

func TestPersistentJarRestoresSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "s1", Path: "/"})
			w.Write([]byte(`{"status":"ok"}`))
		case "/api/profile-check":
			if c, err := r.Cookie("session"); err == nil && c.Value == "s1" {
				w.Write([]byte(`{"logged_in":true,"username":"rex"}`))
				return
			}
			w.Write([]byte(`{"logged_in":false}`))
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	store := &mapStore{items: map[string]string{}}

	first, err := NewClient(srv.URL, Options{})
	require.NoError(t, err)
	jar1, err := NewPersistentJar(ctx, first.BaseURL(), store, "cli", nil)
	require.NoError(t, err)
	first, err = NewClient(srv.URL, Options{Jar: jar1})
	require.NoError(t, err)

	_, err = first.Login(ctx, models.Credentials{Username: "rex", Password: "pw"})
	require.NoError(t, err)

	// a fresh client over the same store picks up the session
	jar2, err := NewPersistentJar(ctx, first.BaseURL(), store, "cli", nil)
	require.NoError(t, err)
	second, err := NewClient(srv.URL, Options{Jar: jar2})
	require.NoError(t, err)

	resp, err := second.ProfileCheck(ctx)
	require.NoError(t, err)
	var check models.ProfileCheckResponse
	require.NoError(t, resp.Decode(&check))
	assert.True(t, check.LoggedIn)

	// other namespaces stay anonymous
	jar3, err := NewPersistentJar(ctx, first.BaseURL(), store, "other", nil)
	require.NoError(t, err)
	third, err := NewClient(srv.URL, Options{Jar: jar3})
	require.NoError(t, err)
	resp, err = third.ProfileCheck(ctx)
	require.NoError(t, err)
	require.NoError(t, resp.Decode(&check))
	assert.False(t, check.LoggedIn)
}
