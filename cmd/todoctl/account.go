package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tasktrack/tasktrack/internal/client/validation"
	"github.com/tasktrack/tasktrack/internal/core/ports"
)

func (s *shell) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <username-or-email> <password>",
		Short: "Sign in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, errs := s.app.Login(cmd.Context(), args[0], args[1])
			if err := errs.Err(); err != nil {
				return err
			}
			if err := s.report(res); err != nil {
				return err
			}
			fmt.Fprintf(s.out, "Signed in as %s. %d task(s).\n", res.User.DisplayName(), s.app.Tasks.Len())
			return nil
		},
	}
}

func (s *shell) registerCmd() *cobra.Command {
	var in struct {
		username, email, password, confirm, first, last string
	}

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Example: `  register --username ada --email ada@example.com --password Secret1 --confirm Secret1 --first Ada`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form := s.app.SignupForm()
			for _, f := range []struct {
				field validation.Field
				value string
			}{
				{validation.FieldUsername, in.username},
				{validation.FieldEmail, in.email},
				{validation.FieldPassword, in.password},
				{validation.FieldConfirmPassword, in.confirm},
				{validation.FieldFirstName, in.first},
				{validation.FieldLastName, in.last},
			} {
				switch st := form.Set(cmd.Context(), f.field, f.value); st {
				case validation.StatusTaken, validation.StatusError, validation.StatusWeak, validation.StatusMismatch:
					fmt.Fprintf(s.out, "  %s: %s\n", f.field, st)
				}
			}

			res, errs := s.app.Register(cmd.Context(), form)
			if err := errs.Err(); err != nil {
				return err
			}
			if err := s.report(res); err != nil {
				return err
			}
			fmt.Fprintf(s.out, "Welcome, %s.\n", res.User.DisplayName())
			return nil
		},
	}

	cmd.Flags().StringVar(&in.username, "username", "", "username (3-50 letters, digits, - or _)")
	cmd.Flags().StringVar(&in.email, "email", "", "email address")
	cmd.Flags().StringVar(&in.password, "password", "", "password")
	cmd.Flags().StringVar(&in.confirm, "confirm", "", "password again")
	cmd.Flags().StringVar(&in.first, "first", "", "first name")
	cmd.Flags().StringVar(&in.last, "last", "", "last name")
	return cmd
}

func (s *shell) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the task list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s.app.Logout(cmd.Context())
			fmt.Fprintln(s.out, "Signed out.")
			return nil
		},
	}
}

func (s *shell) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := s.app.Session.Snapshot()
			if !st.IsAuthenticated {
				fmt.Fprintln(s.out, "Not signed in.")
				return nil
			}
			u := st.User
			fmt.Fprintf(s.out, "%s (%s)\n  name:  %s\n  email: %s\n", u.Username, u.ID, u.DisplayName(), u.Email)
			return nil
		},
	}
}

func (s *shell) profileCmd() *cobra.Command {
	var first, last, email string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update first name, last name or email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u := s.app.Session.User()
			if u == nil {
				return fmt.Errorf("not signed in")
			}
			in := ports.ProfileInput{FirstName: u.FirstName, LastName: u.LastName, Email: u.Email}
			if cmd.Flags().Changed("first") {
				in.FirstName = first
			}
			if cmd.Flags().Changed("last") {
				in.LastName = last
			}
			if cmd.Flags().Changed("email") {
				if err := validation.ValidateEmail(email); err != nil {
					return err
				}
				in.Email = email
			}
			return s.report(s.app.Session.UpdateProfile(cmd.Context(), in))
		},
	}

	cmd.Flags().StringVar(&first, "first", "", "first name")
	cmd.Flags().StringVar(&last, "last", "", "last name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	return cmd
}

func (s *shell) passwdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "passwd <current> <new>",
		Short: "Change the password",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidatePassword(args[1]); err != nil {
				return err
			}
			return s.report(s.app.Session.ChangePassword(cmd.Context(), args[0], args[1]))
		},
	}
}

func (s *shell) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "check <username|email> <value>",
		Short:     "Check whether a username or email is still free",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"username", "email"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var free bool
			switch args[0] {
			case "username":
				free = s.app.Session.CheckUsernameAvailability(cmd.Context(), args[1])
			case "email":
				free = s.app.Session.CheckEmailAvailability(cmd.Context(), args[1])
			default:
				return fmt.Errorf("unknown field %q, want username or email", args[0])
			}
			if free {
				fmt.Fprintf(s.out, "%s is available\n", args[1])
			} else {
				fmt.Fprintf(s.out, "%s is taken\n", args[1])
			}
			return nil
		},
	}
}
