package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/catalogo/storefront-client/internal/core/domain"
	"github.com/catalogo/storefront-client/internal/core/ports"
)

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Administer user accounts (admin only)",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List accounts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				us, err := a.users.List(cmd.Context())
				if err != nil {
					return err
				}
				if a.asJSON {
					return a.printJSON(us)
				}
				rows := make([][]string, 0, len(us))
				for _, u := range us {
					created := "-"
					if !u.CreatedAt.IsZero() {
						created = humanize.Time(u.CreatedAt)
					}
					rows = append(rows, []string{
						strconv.FormatInt(u.ID, 10), u.Username, u.Email,
						string(u.Role), yesNo(u.Locked), created,
					})
				}
				return table(a.out, []string{"ID", "USERNAME", "EMAIL", "ROLE", "LOCKED", "CREATED"}, rows)
			},
		},
		&cobra.Command{
			Use:   "get ID",
			Short: "Show one account",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				u, err := a.users.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				return a.printManaged(u)
			},
		},
		newUserUpdateCmd(a),
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete an account",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := a.users.Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Deleted user %d\n", id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "lock ID",
			Short: "Toggle the lock on an account",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				u, err := a.users.ToggleLock(cmd.Context(), id)
				if err != nil {
					return err
				}
				return a.printManaged(u)
			},
		},
		newUserPasswdCmd(a),
		&cobra.Command{
			Use:   "stats",
			Short: "Show account totals",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := a.users.Stats(cmd.Context())
				if err != nil {
					return err
				}
				if a.asJSON {
					return a.printJSON(s)
				}
				return table(a.out, []string{"TOTAL", "ADMINS", "USERS", "LOCKED"}, [][]string{{
					humanize.Comma(int64(s.Total)), humanize.Comma(int64(s.Admins)),
					humanize.Comma(int64(s.Users)), humanize.Comma(int64(s.Locked)),
				}})
			},
		},
	)
	return cmd
}

func newUserUpdateCmd(a *app) *cobra.Command {
	var in ports.UserUpdateInput
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Edit an account; unset flags are left unchanged",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			u, err := a.users.Update(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			return a.printManaged(u)
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Username, "username", "", "new username")
	f.StringVar(&in.Email, "email", "", "new email")
	f.StringVar(&in.Role, "role", "", "new role: USER or ADMIN")
	return cmd
}

func newUserPasswdCmd(a *app) *cobra.Command {
	var in ports.PasswordChange
	cmd := &cobra.Command{
		Use:   "passwd ID",
		Short: "Change an account password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.users.ChangePassword(cmd.Context(), id, in); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Password changed")
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.CurrentPassword, "current", "", "current password")
	f.StringVar(&in.NewPassword, "new", "", "new password")
	return cmd
}

func (a *app) printManaged(u *domain.ManagedUser) error {
	if a.asJSON {
		return a.printJSON(u)
	}
	fmt.Fprintf(a.out, "#%d %s <%s>\n  role: %s  locked: %s\n", u.ID, u.Username, u.Email, u.Role.Label(), yesNo(u.Locked))
	return nil
}
