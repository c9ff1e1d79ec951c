/**
* Name: 			user_handler.go
* Description: 		Page and form handlers of the web front end
* Workflow: 		page load (session check), register, login, logout,
*					profile create/show, recommendation request
 */
package handler

import (
	"context"
	"net/http"

	"PawPlanner_WebClient/internal/frontend"
	"PawPlanner_WebClient/internal/middleware"
	"PawPlanner_WebClient/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const pageTemplate = "index.html"

type pageData struct {
	View           frontend.View
	ProfileFields  []string
	ActivityLevels []string
}

func (h *Handler) render(c *gin.Context, status int, ctrl *frontend.Controller) {
	c.HTML(status, pageTemplate, pageData{
		View:           ctrl.View(),
		ProfileFields:  models.ProfileFields,
		ActivityLevels: models.ActivityLevels,
	})
}

// runAction runs one controller action and renders the page in the same
// response. Redirecting would count as a new page load and re-run the
// session check, replacing the message the action just produced.
func (h *Handler) runAction(c *gin.Context, name string, action func(ctx context.Context, ctrl *frontend.Controller) error) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	err := action(c.Request.Context(), ctrl)
	if err != nil {
		h.logger.Warn("action failed",
			zap.String("action", name),
			zap.String("client", middleware.ClientID(c)),
			zap.Error(err))
	}
	h.render(c, statusFor(err), ctrl)
}

// Index GET /
func (h *Handler) Index(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	// errors are swallowed inside RestoreSession
	_ = ctrl.RestoreSession(c.Request.Context())
	h.render(c, http.StatusOK, ctrl)
}

// Register POST /register
func (h *Handler) Register(c *gin.Context) {
	username, password := c.PostForm("username"), c.PostForm("password")
	h.runAction(c, "register", func(ctx context.Context, ctrl *frontend.Controller) error {
		return ctrl.Register(ctx, username, password)
	})
}

// Login POST /login
func (h *Handler) Login(c *gin.Context) {
	username, password := c.PostForm("username"), c.PostForm("password")
	h.runAction(c, "login", func(ctx context.Context, ctrl *frontend.Controller) error {
		return ctrl.Login(ctx, username, password)
	})
}

// Logout POST /logout
func (h *Handler) Logout(c *gin.Context) {
	h.runAction(c, "logout", func(ctx context.Context, ctrl *frontend.Controller) error {
		return ctrl.Logout(ctx)
	})
}

// CreateProfile POST /profile
func (h *Handler) CreateProfile(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid form"})
		return
	}
	form := models.ProfileForm{}
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			form[key] = values[len(values)-1]
		}
	}
	h.runAction(c, "submit_profile", func(ctx context.Context, ctrl *frontend.Controller) error {
		return ctrl.SubmitProfile(ctx, form)
	})
}

// ShowProfile POST /profile/show
func (h *Handler) ShowProfile(c *gin.Context) {
	h.runAction(c, "show_profile", func(ctx context.Context, ctrl *frontend.Controller) error {
		return ctrl.ShowProfile(ctx)
	})
}

// Recommendations POST /recommendations
func (h *Handler) Recommendations(c *gin.Context) {
	h.runAction(c, "recommendation", func(ctx context.Context, ctrl *frontend.Controller) error {
		return ctrl.RequestRecommendation(ctx)
	})
}

// View GET /view
func (h *Handler) View(c *gin.Context) {
	ctrl, ok := h.controller(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ctrl.View())
}
