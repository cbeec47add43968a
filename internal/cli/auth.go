package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/ui"
)

func (a *app) authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the API token used by the http backend",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(a.loginCmd(), a.logoutCmd(), a.statusCmd(), a.whoamiCmd())
	return cmd
}

func (a *app) tokens() (*auth.Store, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, failErr(err)
	}
	return auth.NewStore(dir), nil
}

func (a *app) loginCmd() *cobra.Command {
	var expires string
	cmd := &cobra.Command{
		Use:   "login <token>",
		Short: "Save a token to ~/.tada/credentials.json",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			var exp *time.Time
			if expires != "" {
				t, err := time.Parse(time.RFC3339, expires)
				if err != nil {
					return usageErr("login: --expires must be RFC3339: %v", err)
				}
				exp = &t
			}
			s, err := a.tokens()
			if err != nil {
				return err
			}
			if err := s.Set(args[0], exp); err != nil {
				if errors.Is(err, auth.ErrEmptyToken) {
					return usageErr("login: %v", err)
				}
				return failErr(err)
			}
			ui.OK(a.stdout, "token saved to "+s.Path())
			return nil
		},
	}
	cmd.Flags().StringVar(&expires, "expires", "", "expiry (RFC3339); read from the JWT when omitted")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the saved token",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.tokens()
			if err != nil {
				return err
			}
			if err := s.Delete(); err != nil {
				return failErr(err)
			}
			ui.OK(a.stdout, "logged out")
			return nil
		},
	}
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the token comes from and when it expires",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ti, err := a.current()
			if err != nil {
				return err
			}
			t := ui.Current()
			lines := []string{
				ui.C(t.Title, "Auth"),
				"token:   " + mask(ti.Token),
				"source:  " + ti.Source,
			}
			if !ti.CreatedAt.IsZero() {
				lines = append(lines, "saved:   "+ti.CreatedAt.Format(time.RFC3339))
			}
			switch {
			case ti.ExpiresAt == nil:
				lines = append(lines, "expires: "+ui.C(t.Muted, "unknown"))
			case ti.Expired(time.Now()):
				lines = append(lines, "expires: "+ui.C(t.Error, ti.ExpiresAt.Format(time.RFC3339)+" (expired)"))
			default:
				lines = append(lines, "expires: "+ti.ExpiresAt.Format(time.RFC3339))
			}
			ui.Panel(a.stdout, lines)
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Decode the claims of the saved JWT",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ti, err := a.current()
			if err != nil {
				return err
			}
			id, err := auth.Inspect(ti.Token)
			if err != nil {
				return failErr(err)
			}
			lines := []string{"subject: " + orDash(id.Subject), "issuer:  " + orDash(id.Issuer)}
			if len(id.Audience) > 0 {
				lines = append(lines, "audience: "+strings.Join(id.Audience, ", "))
			}
			if id.ExpiresAt != nil {
				lines = append(lines, "expires: "+id.ExpiresAt.Format(time.RFC3339))
			}
			ui.Panel(a.stdout, lines)
			return nil
		},
	}
}

func (a *app) current() (*auth.TokenInfo, error) {
	s, err := a.tokens()
	if err != nil {
		return nil, err
	}
	ti, err := s.Get()
	if err != nil {
		return nil, failErr(err)
	}
	if ti == nil {
		return nil, failErr(fmt.Errorf("not logged in: run `tada auth login <token>` or set %s", auth.EnvToken))
	}
	return ti, nil
}

func mask(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", 4) + token[len(token)-4:]
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
