package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"PawPlanner_WebClient/internal/frontend"
	"PawPlanner_WebClient/internal/models"
	"PawPlanner_WebClient/internal/session"
	"PawPlanner_WebClient/internal/storage"

	"github.com/spf13/cobra"
)

const msgNotLoggedIn = "Not logged in"

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a backend account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, password := credentialFlags(cmd)
		return withController(cmd, func(ctx context.Context, ctrl *frontend.Controller) error {
			if err := ctrl.Register(ctx, username, password); err != nil {
				return err
			}
			return printSlot(cmd.OutOrStdout(), ctrl.View().AuthMsg)
		})
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and keep the session for later commands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		username, password := credentialFlags(cmd)
		return withController(cmd, func(ctx context.Context, ctrl *frontend.Controller) error {
			if err := ctrl.Login(ctx, username, password); err != nil {
				return err
			}
			return printSlot(cmd.OutOrStdout(), ctrl.View().AuthMsg)
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the backend session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(cmd, func(ctx context.Context, ctrl *frontend.Controller) error {
			if err := ctrl.Logout(ctx); err != nil {
				return err
			}
			return printSlot(cmd.OutOrStdout(), ctrl.View().AuthMsg)
		})
	},
}

// whoamiCmd runs the same session check as a page load
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show whether the stored session is still logged in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(cmd, func(ctx context.Context, ctrl *frontend.Controller) error {
			_ = ctrl.RestoreSession(ctx)
			v := ctrl.View()
			if v.State != frontend.Authenticated {
				return printSlot(cmd.OutOrStdout(), msgNotLoggedIn)
			}
			return printSlot(cmd.OutOrStdout(), v.AuthMsg)
		})
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Dog profile commands",
}

var profileCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a dog profile and remember its id",
	Long: `Sends the dog profile form to the backend. Every form field has its own
flag; --field key=value adds or overrides any field, including ones the
form does not know about.

Example:
  pawctl profile create --name Rex --breed Labrador --weight_kg 30`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		form, err := profileForm(cmd)
		if err != nil {
			return err
		}
		return withController(cmd, func(ctx context.Context, ctrl *frontend.Controller) error {
			if err := ctrl.SubmitProfile(ctx, form); err != nil {
				return err
			}
			return printSlot(cmd.OutOrStdout(), ctrl.View().ProfileMsg)
		})
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the last created dog profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(cmd, func(ctx context.Context, ctrl *frontend.Controller) error {
			if err := ctrl.ShowProfile(ctx); err != nil {
				return err
			}
			return printSlot(cmd.OutOrStdout(), ctrl.View().ProfileMsg)
		})
	},
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Get a diet and exercise plan for the last created dog profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withController(cmd, func(ctx context.Context, ctrl *frontend.Controller) error {
			if err := ctrl.RequestRecommendation(ctx); err != nil {
				return err
			}
			return printSlot(cmd.OutOrStdout(), ctrl.View().RecOutput)
		})
	},
}

// withController opens the local store and wires a controller for the
// selected profile, runs fn and closes the store.
func withController(cmd *cobra.Command, fn func(ctx context.Context, ctrl *frontend.Controller) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := storage.Open(ctx, storage.Options{Backend: "sqlite", DBPath: dbPath})
	if err != nil {
		return err
	}
	defer store.Close()

	ctrl, err := session.NewController(ctx, strings.TrimRight(apiURL, "/"), requestTimeout, store, profileName, logger)
	if err != nil {
		return err
	}
	return fn(ctx, ctrl)
}

func credentialFlags(cmd *cobra.Command) (username, password string) {
	username, _ = cmd.Flags().GetString("username")
	password, _ = cmd.Flags().GetString("password")
	return username, password
}

type fieldFlag struct {
	name  string
	value string
}

// profileFieldFlags lists the form fields with their form defaults.
func profileFieldFlags() []fieldFlag {
	flags := make([]fieldFlag, 0, len(models.ProfileFields))
	for _, name := range models.ProfileFields {
		f := fieldFlag{name: name}
		if name == "activity_level" {
			f.value = "moderate"
		}
		flags = append(flags, f)
	}
	return flags
}

func addProfileFlags(cmd *cobra.Command) {
	for _, f := range profileFieldFlags() {
		cmd.Flags().String(f.name, f.value, "dog "+f.name)
	}
	cmd.Flags().StringArray("field", nil, "extra form field as key=value (repeatable)")
}

// profileForm builds the payload the way the page form does: every field is
// present, empty when not given.
func profileForm(cmd *cobra.Command) (models.ProfileForm, error) {
	form := models.ProfileForm{}
	for _, f := range profileFieldFlags() {
		value, err := cmd.Flags().GetString(f.name)
		if err != nil {
			return nil, err
		}
		form[f.name] = value
	}

	extra, err := cmd.Flags().GetStringArray("field")
	if err != nil {
		return nil, err
	}
	for _, kv := range extra {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid --field %q, want key=value", kv)
		}
		form[strings.TrimSpace(key)] = value
	}
	return form, nil
}

func printSlot(w io.Writer, text string) error {
	_, err := fmt.Fprintln(w, text)
	return err
}
