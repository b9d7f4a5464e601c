package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/revtickets/portal/internal/core/ports"
	"github.com/revtickets/portal/internal/core/service"
	"github.com/revtickets/portal/internal/infrastructure/httpclient"
	"github.com/revtickets/portal/internal/infrastructure/session"
	"github.com/revtickets/portal/internal/infrastructure/upstream"
	"github.com/revtickets/portal/internal/pkg/config"
	"github.com/revtickets/portal/internal/pkg/validation"
	"github.com/revtickets/portal/pkg/logger"
)

var (
	profileEmail    string
	profilePassword string
	profileLogout   bool
)

// profileCmd signs in and prints the profile view
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Sign in and show your profile",
	Long: `Sign in with email and password, then print the profile view as JSON.

Administrators are sent to the admin area instead of seeing reviews; the
navigation is printed as "→ <route>". With --logout the session is cleared
afterwards and the command fails if any credential survives.`,
	RunE: runProfile,
}

func init() {
	profileCmd.Flags().StringVar(&profileEmail, "email", "", "Account email")
	profileCmd.Flags().StringVar(&profilePassword, "password", "", "Account password (or set PORTAL_PASSWORD env)")
	profileCmd.Flags().BoolVar(&profileLogout, "logout", false, "Sign out after showing the profile")
	_ = profileCmd.MarkFlagRequired("email")
}

// printNavigator reports navigation on the terminal.
type printNavigator struct {
	w io.Writer
}

func (n printNavigator) Navigate(route string) {
	fmt.Fprintf(n.w, "→ %s\n", route)
}

func runProfile(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if apiURL != "" {
		cfg.APIBaseURL = apiURL
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	password := profilePassword
	if password == "" {
		password = os.Getenv("PORTAL_PASSWORD")
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Pretty: true, Output: cmd.ErrOrStderr(), Service: "portalctl"})

	store := session.NewMemoryStore()
	v := validation.New()
	api, err := upstream.NewAPI(cfg.APIBaseURL, httpclient.New(httpclient.Options{Store: store, Log: log}))
	if err != nil {
		return err
	}
	auth := service.NewAuthService(upstream.NewAuthClient(api, v), store, v, cfg.JWTSecret, log)

	if _, err := auth.Login(ctx, profileEmail, password); err != nil {
		return fmt.Errorf("sign in: %w", err)
	}

	routes := ports.Routes{Admin: cfg.Routes.Admin, Bookings: cfg.Routes.Bookings, Login: cfg.Routes.Login}
	ctrl := service.NewProfileController(auth, upstream.NewReviewClient(api, v, log), printNavigator{w: out}, routes, log)
	ctrl.Init(ctx)
	view := ctrl.Wait(ctx)

	if view.State != service.StateRedirecting {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(view); err != nil {
			return err
		}
	}

	if !profileLogout {
		return nil
	}
	ctrl.Logout(ctx)
	if _, ok := store.Get(ctx); ok {
		return errors.New("sign out: token still present")
	}
	if _, ok := store.Identity(ctx); ok {
		return errors.New("sign out: identity still present")
	}
	return nil
}
