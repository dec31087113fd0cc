package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/catalogo/storefront-client/internal/core/ports"
	"github.com/catalogo/storefront-client/internal/core/service"
)

// readSecret returns flagValue, or the first line of in when it is empty.
func readSecret(in io.Reader, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLoginCmd(a *app) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login USERNAME",
		Short: "Log in and persist the session",
		Long:  "Log in and persist the session. The password is read from stdin unless --password is given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readSecret(cmd.InOrStdin(), password)
			if err != nil {
				return err
			}
			u, err := a.auth.Login(cmd.Context(), args[0], pw)
			if err != nil {
				return err
			}
			if a.asJSON {
				return a.printJSON(u)
			}
			fmt.Fprintf(a.out, "Logged in as %s (%s)\n", u.Username, u.Role.Label())
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var in ports.RegisterInput
	cmd := &cobra.Command{
		Use:   "register USERNAME EMAIL",
		Short: "Create an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Username, in.Email = args[0], args[1]
			pw, err := readSecret(cmd.InOrStdin(), in.Password)
			if err != nil {
				return err
			}
			in.Password = pw
			u, err := a.auth.Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			if a.asJSON {
				return a.printJSON(u)
			}
			if a.session.State().IsAuthenticated() {
				fmt.Fprintf(a.out, "Registered and logged in as %s (%s)\n", u.Username, u.Role.Label())
			} else {
				fmt.Fprintf(a.out, "Registered %s; run `storefrontctl login %s`\n", u.Username, u.Username)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&in.Password, "password", "p", "", "account password")
	f.StringVar(&in.Role, "role", "USER", "account role: USER or ADMIN")
	f.StringVar(&in.AdminCode, "admin-code", "", "registration code required for ADMIN")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.auth.Logout(cmd.Context())
			fmt.Fprintln(a.out, "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := a.session.State()
			if !st.IsAuthenticated() {
				fmt.Fprintln(a.out, "Not logged in")
				return nil
			}
			info := service.InspectToken(a.session.Token(cmd.Context()))
			if a.asJSON {
				return a.printJSON(struct {
					User      any       `json:"user"`
					ExpiresAt time.Time `json:"expiresAt,omitempty"`
				}{st.User, info.ExpiresAt})
			}
			u := st.User
			fmt.Fprintf(a.out, "%s <%s>\nrole: %s\n", u.Username, u.Email, u.Role.Label())
			if u.UserID > 0 {
				fmt.Fprintf(a.out, "id: %d\n", u.UserID)
			}
			switch {
			case !info.JWT:
			case info.Expired(time.Now()):
				fmt.Fprintf(a.out, "token: expired %s\n", humanize.Time(info.ExpiresAt))
			case !info.ExpiresAt.IsZero():
				fmt.Fprintf(a.out, "token: expires %s\n", humanize.Time(info.ExpiresAt))
			}
			return nil
		},
	}
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Ask the server whether the stored token is still valid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ok, err := a.auth.ValidateToken(cmd.Context())
			if err != nil {
				return err
			}
			if a.asJSON {
				return a.printJSON(map[string]bool{"valid": ok})
			}
			if ok {
				fmt.Fprintln(a.out, "Token is valid")
			} else {
				fmt.Fprintln(a.out, "Token is not valid")
			}
			return nil
		},
	}
}

func newForgotPasswordCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password EMAIL",
		Short: "Request a password reset email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.auth.ForgotPassword(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "If the address is registered, a reset link is on its way")
			return nil
		},
	}
}
