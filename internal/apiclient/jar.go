package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
)

// SessionCookiesKey is the local storage key holding the backend session cookies.
const SessionCookiesKey = "session_cookies"

const persistTimeout = 5 * time.Second

// ItemStore is the slice of local storage the jar needs.
type ItemStore interface {
	GetItem(ctx context.Context, namespace, key string) (string, bool, error)
	SetItem(ctx context.Context, namespace, key, value string) error
}

type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PersistentJar is a cookie jar that writes the backend's cookies through
// to local storage, so a restarted client keeps its backend session.
type PersistentJar struct {
	mu        sync.Mutex
	jar       *cookiejar.Jar
	origin    *url.URL
	store     ItemStore
	namespace string
	logger    *zap.Logger
}

// NewPersistentJar creates a jar for origin and loads any cookies previously
// stored under namespace.
func NewPersistentJar(ctx context.Context, origin *url.URL, store ItemStore, namespace string, logger *zap.Logger) (*PersistentJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	pj := &PersistentJar{
		jar:       jar,
		origin:    origin,
		store:     store,
		namespace: namespace,
		logger:    logger,
	}

	raw, found, err := store.GetItem(ctx, namespace, SessionCookiesKey)
	if err != nil {
		return nil, fmt.Errorf("load session cookies: %w", err)
	}
	if found && raw != "" {
		var saved []storedCookie
		if err := json.Unmarshal([]byte(raw), &saved); err != nil {
			logger.Warn("discarding unreadable session cookies",
				zap.String("namespace", namespace), zap.Error(err))
		} else {
			cookies := make([]*http.Cookie, 0, len(saved))
			for _, sc := range saved {
				cookies = append(cookies, &http.Cookie{Name: sc.Name, Value: sc.Value, Path: "/"})
			}
			jar.SetCookies(origin, cookies)
		}
	}
	return pj, nil
}

func (j *PersistentJar) Cookies(u *url.URL) []*http.Cookie {
	return j.jar.Cookies(u)
}

func (j *PersistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.jar.SetCookies(u, cookies)

	current := j.jar.Cookies(j.origin)
	saved := make([]storedCookie, 0, len(current))
	for _, c := range current {
		saved = append(saved, storedCookie{Name: c.Name, Value: c.Value})
	}
	data, err := json.Marshal(saved)
	if err != nil {
		j.logger.Warn("marshal session cookies", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := j.store.SetItem(ctx, j.namespace, SessionCookiesKey, string(data)); err != nil {
		j.logger.Warn("persist session cookies",
			zap.String("namespace", j.namespace), zap.Error(err))
	}
}
