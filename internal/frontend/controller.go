package frontend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"PawPlanner_WebClient/internal/apiclient"
	"PawPlanner_WebClient/internal/models"
	"PawPlanner_WebClient/internal/storage"

	"go.uber.org/zap"
)

const (
	MsgMissingCredentials = "Please enter username and password"
	MsgNoDogProfile       = "⚠️ No dog profile found. Please create one first."
	welcomeBackFormat     = "Welcome back, %s"
)

var ErrActionInFlight = errors.New("action already in flight")

// API is the set of backend calls the controller makes.
type API interface {
	Register(ctx context.Context, creds models.Credentials) (*apiclient.Response, error)
	Login(ctx context.Context, creds models.Credentials) (*apiclient.Response, error)
	Logout(ctx context.Context) (*apiclient.Response, error)
	ProfileCheck(ctx context.Context) (*apiclient.Response, error)
	CreateProfile(ctx context.Context, form models.ProfileForm) (*apiclient.Response, error)
	GetProfile(ctx context.Context, dogID string) (*apiclient.Response, error)
	Recommendations(ctx context.Context, req models.RecommendationRequest) (*apiclient.Response, error)
}

// ItemStore is the part of local storage the controller uses.
type ItemStore interface {
	GetItem(ctx context.Context, namespace, key string) (string, bool, error)
	SetItem(ctx context.Context, namespace, key, value string) error
}

type Action string

const (
	ActionRegister       Action = "register"
	ActionLogin          Action = "login"
	ActionLogout         Action = "logout"
	ActionRestore        Action = "restore"
	ActionSubmitProfile  Action = "submit_profile"
	ActionShowProfile    Action = "show_profile"
	ActionRecommendation Action = "recommendation"
)

// Controller binds user actions to backend calls and keeps the resulting
// view. One controller serves one browser (or one CLI profile).
//
// A request failure leaves the view as it was before the action and is
// returned to the caller.
type Controller struct {
	api       API
	store     ItemStore
	namespace string
	logger    *zap.Logger

	mu       sync.Mutex
	view     View
	inFlight map[Action]bool
	subs     map[int]func(View)
	nextSub  int
}

func NewController(api API, store ItemStore, namespace string, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		api:       api,
		store:     store,
		namespace: namespace,
		logger:    logger.With(zap.String("client", namespace)),
		view:      View{State: Anonymous}.withDerived(),
		inFlight:  make(map[Action]bool),
		subs:      make(map[int]func(View)),
	}
}

// View returns the current snapshot.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// Subscribe registers fn to run after every view change.
func (c *Controller) Subscribe(fn func(View)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// Subscribers reports how many subscriptions are live.
func (c *Controller) Subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

func (c *Controller) update(fn func(v *View)) {
	c.mu.Lock()
	fn(&c.view)
	c.view = c.view.withDerived()
	snapshot := c.view
	subs := make([]func(View), 0, len(c.subs))
	for _, s := range c.subs {
		subs = append(subs, s)
	}
	c.mu.Unlock()

	for _, s := range subs {
		s(snapshot)
	}
}

func (c *Controller) begin(a Action) (release func(), err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight[a] {
		return nil, fmt.Errorf("%s: %w", a, ErrActionInFlight)
	}
	c.inFlight[a] = true
	return func() {
		c.mu.Lock()
		delete(c.inFlight, a)
		c.mu.Unlock()
	}, nil
}

func validCredentials(username, password string) (models.Credentials, bool) {
	creds := models.Credentials{Username: strings.TrimSpace(username), Password: password}
	return creds, creds.Username != "" && creds.Password != ""
}

func (c *Controller) Register(ctx context.Context, username, password string) error {
	creds, ok := validCredentials(username, password)
	if !ok {
		c.update(func(v *View) { v.AuthMsg = MsgMissingCredentials })
		return nil
	}

	release, err := c.begin(ActionRegister)
	if err != nil {
		return err
	}
	defer release()

	resp, err := c.api.Register(ctx, creds)
	if err != nil {
		return err
	}
	c.update(func(v *View) { v.AuthMsg = resp.Text() })
	return nil
}

func (c *Controller) Login(ctx context.Context, username, password string) error {
	creds, ok := validCredentials(username, password)
	if !ok {
		c.update(func(v *View) { v.AuthMsg = MsgMissingCredentials })
		return nil
	}

	release, err := c.begin(ActionLogin)
	if err != nil {
		return err
	}
	defer release()

	resp, err := c.api.Login(ctx, creds)
	if err != nil {
		return err
	}
	ok = statusOK(resp)
	c.update(func(v *View) {
		v.AuthMsg = resp.Text()
		v.State = Transition(v.State, EventLogin, ok)
	})
	c.logger.Info("login", zap.String("username", creds.Username), zap.Bool("ok", ok))
	return nil
}

func (c *Controller) Logout(ctx context.Context) error {
	release, err := c.begin(ActionLogout)
	if err != nil {
		return err
	}
	defer release()

	resp, err := c.api.Logout(ctx)
	if err != nil {
		return err
	}
	ok := statusOK(resp)
	c.update(func(v *View) {
		v.AuthMsg = resp.Text()
		v.State = Transition(v.State, EventLogout, ok)
	})
	c.logger.Info("logout", zap.Bool("ok", ok))
	return nil
}

// RestoreSession runs on page load. A load starts from the default view, so
// an ended backend session or a failed check leaves the page anonymous.
// Failures are logged and swallowed.
func (c *Controller) RestoreSession(ctx context.Context) error {
	c.update(func(v *View) { *v = View{State: Anonymous} })

	release, err := c.begin(ActionRestore)
	if err != nil {
		c.logger.Debug("session check skipped", zap.Error(err))
		return nil
	}
	defer release()

	resp, err := c.api.ProfileCheck(ctx)
	if err != nil {
		c.logger.Debug("not logged in", zap.Error(err))
		return nil
	}
	var check models.ProfileCheckResponse
	if err := resp.Decode(&check); err != nil {
		c.logger.Debug("not logged in", zap.Error(err))
		return nil
	}
	if !check.LoggedIn {
		return nil
	}
	c.update(func(v *View) {
		v.State = Transition(v.State, EventSessionRestored, true)
		v.AuthMsg = fmt.Sprintf(welcomeBackFormat, check.Username)
	})
	return nil
}

// SubmitProfile posts the form fields and remembers the returned dog id.
func (c *Controller) SubmitProfile(ctx context.Context, form models.ProfileForm) error {
	release, err := c.begin(ActionSubmitProfile)
	if err != nil {
		return err
	}
	defer release()

	if form == nil {
		form = models.ProfileForm{}
	}
	resp, err := c.api.CreateProfile(ctx, form)
	if err != nil {
		return err
	}
	c.update(func(v *View) { v.ProfileMsg = resp.Text() })

	var created models.CreateProfileResponse
	if err := resp.Decode(&created); err != nil {
		return nil
	}
	dogID, ok := truthyText(created.DogID)
	if !ok {
		return nil
	}
	if err := c.store.SetItem(ctx, c.namespace, storage.KeyLastDogID, dogID); err != nil {
		return fmt.Errorf("remember dog id: %w", err)
	}
	c.logger.Info("dog profile created", zap.String("dog_id", dogID))
	return nil
}

// ShowProfile fetches the last created profile into the profile message.
func (c *Controller) ShowProfile(ctx context.Context) error {
	dogID, err := c.lastDogID(ctx)
	if err != nil {
		return err
	}
	if dogID == "" {
		c.update(func(v *View) { v.ProfileMsg = MsgNoDogProfile })
		return nil
	}

	release, err := c.begin(ActionShowProfile)
	if err != nil {
		return err
	}
	defer release()

	resp, err := c.api.GetProfile(ctx, dogID)
	if err != nil {
		return err
	}
	c.update(func(v *View) { v.ProfileMsg = resp.Text() })
	return nil
}

// RequestRecommendation asks for a plan for the last created profile.
func (c *Controller) RequestRecommendation(ctx context.Context) error {
	dogID, err := c.lastDogID(ctx)
	if err != nil {
		return err
	}
	if dogID == "" {
		c.update(func(v *View) { v.RecOutput = MsgNoDogProfile })
		return nil
	}

	release, err := c.begin(ActionRecommendation)
	if err != nil {
		return err
	}
	defer release()

	resp, err := c.api.Recommendations(ctx, models.RecommendationRequest{
		DogID:            dogID,
		RefineWithGemini: true,
	})
	if err != nil {
		return err
	}
	var rec models.RecommendationResponse
	if err := resp.Decode(&rec); err != nil {
		return err
	}
	out, err := FormatRecommendation(&rec)
	if err != nil {
		return fmt.Errorf("dog %s: %w", dogID, err)
	}
	c.update(func(v *View) { v.RecOutput = out })
	return nil
}

func (c *Controller) lastDogID(ctx context.Context) (string, error) {
	dogID, _, err := c.store.GetItem(ctx, c.namespace, storage.KeyLastDogID)
	if err != nil {
		return "", fmt.Errorf("read dog id: %w", err)
	}
	return dogID, nil
}

func statusOK(resp *apiclient.Response) bool {
	var status models.StatusResponse
	if err := resp.Decode(&status); err != nil {
		return false
	}
	return status.OK()
}
