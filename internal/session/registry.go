package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"PawPlanner_WebClient/internal/apiclient"
	"PawPlanner_WebClient/internal/frontend"
	"PawPlanner_WebClient/internal/storage"

	"go.uber.org/zap"
)

type entry struct {
	controller *frontend.Controller
	lastSeen   time.Time
}

// Registry keeps one controller per browser client. Each controller has its
// own backend cookie jar, persisted under the client's namespace, so an
// evicted or restarted client picks up its backend session again.
type Registry struct {
	mu      sync.Mutex
	clients map[string]*entry

	apiBaseURL string
	timeout    time.Duration
	store      storage.LocalStorage
	logger     *zap.Logger
	now        func() time.Time
}

func NewRegistry(apiBaseURL string, timeout time.Duration, store storage.LocalStorage, logger *zap.Logger) *Registry {
	return &Registry{
		clients:    make(map[string]*entry),
		apiBaseURL: apiBaseURL,
		timeout:    timeout,
		store:      store,
		logger:     logger,
		now:        time.Now,
	}
}

// Get returns the client's controller, creating it on first use. A client
// that already has a stored backend session (one that was evicted, or a
// restart) gets the page-load session check before it is handed out.
func (r *Registry) Get(ctx context.Context, clientID string) (*frontend.Controller, error) {
	if c, ok := r.lookup(clientID); ok {
		return c, nil
	}

	controller, err := NewController(ctx, r.apiBaseURL, r.timeout, r.store, clientID, r.logger)
	if err != nil {
		return nil, err
	}
	if _, found, err := r.store.GetItem(ctx, clientID, apiclient.SessionCookiesKey); err != nil {
		r.logger.Warn("failed to read stored session", zap.String("client", clientID), zap.Error(err))
	} else if found {
		_ = controller.RestoreSession(ctx)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// another request may have registered the client meanwhile
	if e, ok := r.clients[clientID]; ok {
		e.lastSeen = r.now()
		return e.controller, nil
	}
	r.clients[clientID] = &entry{controller: controller, lastSeen: r.now()}
	r.logger.Debug("client registered", zap.String("client", clientID))
	return controller, nil
}

func (r *Registry) lookup(clientID string) (*frontend.Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.clients[clientID]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.now()
	return e.controller, true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// Evict drops clients not seen for maxIdle and returns how many were dropped.
// A client with an open view stream is still on the page and is kept.
func (r *Registry) Evict(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	cutoff := now.Add(-maxIdle)
	evicted := 0
	for id, e := range r.clients {
		if e.controller.Subscribers() > 0 {
			e.lastSeen = now
			continue
		}
		if e.lastSeen.Before(cutoff) {
			delete(r.clients, id)
			evicted++
		}
	}
	return evicted
}

// RunSweeper evicts idle clients until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, maxIdle time.Duration) error {
	interval := maxIdle / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.Evict(maxIdle); n > 0 {
				r.logger.Info("evicted idle clients", zap.Int("count", n), zap.Int("remaining", r.Len()))
			}
		}
	}
}

// NewController wires a controller for one namespace: a persistent cookie
// jar, an API client and the local storage.
func NewController(ctx context.Context, apiBaseURL string, timeout time.Duration, store storage.LocalStorage, namespace string, logger *zap.Logger) (*frontend.Controller, error) {
	base, err := apiclient.NewClient(apiBaseURL, apiclient.Options{})
	if err != nil {
		return nil, err
	}
	jar, err := apiclient.NewPersistentJar(ctx, base.BaseURL(), store, namespace, logger)
	if err != nil {
		return nil, fmt.Errorf("cookie jar for %s: %w", namespace, err)
	}
	client, err := apiclient.NewClient(apiBaseURL, apiclient.Options{
		Jar:     jar,
		Timeout: timeout,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}
	return frontend.NewController(client, store, namespace, logger), nil
}
