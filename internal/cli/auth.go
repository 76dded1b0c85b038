package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/suratku/suratku/internal/api"
	"github.com/suratku/suratku/internal/config"
	"github.com/suratku/suratku/internal/session"
)

var (
	errPasswordMismatch = errors.New("new password and confirmation do not match")
	errEmptyField       = errors.New("value must not be empty")
)

func newLoginCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Long: `Signs in with email and password and stores the session token in the
session file (~/.suratku/session.json by default).

The password is read without echo on a terminal, or as the first line of
stdin otherwise.`,
		Example: `  # Sign in interactively
  suratku login

  # Sign in from a script
  echo "$SURATKU_PASSWORD" | suratku login --email admin@example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := newPrompter(cmd)
			var err error
			if email == "" {
				if email, err = p.Line("Email"); err != nil {
					return err
				}
			}
			password, err := p.Secret("Password")
			if err != nil {
				return err
			}
			if email == "" || password == "" {
				return fmt.Errorf("email and password: %w", errEmptyField)
			}

			client, err := newClient("")
			if err != nil {
				return err
			}
			res, err := client.Login(cmd.Context(), api.Credentials{Email: email, Password: password})
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			return saveSession(cmd, client, res)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := newPrompter(cmd)
			var err error
			if name == "" {
				if name, err = p.Line("Nama"); err != nil {
					return err
				}
			}
			if email == "" {
				if email, err = p.Line("Email"); err != nil {
					return err
				}
			}
			password, err := p.Secret("Password")
			if err != nil {
				return err
			}
			if name == "" || email == "" || password == "" {
				return fmt.Errorf("name, email and password: %w", errEmptyField)
			}

			client, err := newClient("")
			if err != nil {
				return err
			}
			res, err := client.Register(cmd.Context(), api.Registration{Name: name, Email: email, Password: password})
			if err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}
			return saveSession(cmd, client, res)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

// saveSession stores a successful login.
func saveSession(cmd *cobra.Command, client *api.Client, res api.AuthResult) error {
	store, err := sessionStore()
	if err != nil {
		return err
	}
	sess := session.New(res, client.BaseURL(), time.Now())
	if err = store.Save(sess); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	logger.Info().Ctx(cmd.Context()).
		Str("email", sess.User.Email).
		Str("role", string(sess.User.Role)).
		Msg("signed in")
	cmd.Printf("Berhasil masuk sebagai %s (%s)\n", sess.User.Name, sess.User.Role)
	return nil
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and remove the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := sessionStore()
			if err != nil {
				return err
			}
			sess, err := store.Load()
			switch {
			case errors.Is(err, session.ErrNotLoggedIn):
				cmd.Println("Belum masuk.")
				return nil
			case err != nil:
				logger.Warn().Err(err).Msg("discarding unreadable session")
			default:
				if client, clientErr := newClient(sess.Token); clientErr == nil {
					if logoutErr := client.Logout(cmd.Context()); logoutErr != nil {
						logger.Warn().Ctx(cmd.Context()).Err(logoutErr).Msg("server logout failed")
					}
				}
			}

			if err = store.Clear(); err != nil {
				return fmt.Errorf("clearing session: %w", err)
			}
			cmd.Println("Berhasil keluar.")
			return nil
		},
	}
}

// whoamiOutput is the JSON form of whoami.
type whoamiOutput struct {
	User      api.User   `json:"user"`
	Server    string     `json:"server"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

func newWhoamiCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveOutput(output)
			if err != nil {
				return err
			}
			a, err := requireSession(cmd)
			if err != nil {
				return err
			}
			user, err := a.client.Profile(cmd.Context())
			if err != nil {
				return a.wrap(err, "loading profile")
			}

			out := whoamiOutput{User: user, Server: a.client.BaseURL()}
			if exp, ok := a.sess.ExpiresAt(); ok {
				out.ExpiresAt = &exp
			}
			if format == outputJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}

			tw := newTabWriter(cmd.OutOrStdout())
			fmt.Fprintf(tw, "Nama:\t%s\n", user.Name)
			fmt.Fprintf(tw, "Email:\t%s\n", user.Email)
			fmt.Fprintf(tw, "Peran:\t%s\n", user.Role)
			if user.CompanyName != "" {
				fmt.Fprintf(tw, "Perusahaan:\t%s\n", user.CompanyName)
			}
			fmt.Fprintf(tw, "Server:\t%s\n", out.Server)
			if out.ExpiresAt != nil {
				loc := config.GetGlobalConfig().Output.Location()
				fmt.Fprintf(tw, "Berlaku sampai:\t%s\n", out.ExpiresAt.In(loc).Format("2006-01-02 15:04"))
			}
			return tw.Flush()
		},
	}

	addOutputFlag(cmd, &output)
	return cmd
}

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "profile", Short: "Manage your own profile"}
	cmd.AddCommand(newProfileUpdateCmd())
	return cmd
}

func newProfileUpdateCmd() *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change your name or email",
		Example: `  suratku profile update --name "Admin Baru"
  suratku profile update --email baru@example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("name") && !cmd.Flags().Changed("email") {
				return errors.New("nothing to update: pass --name or --email")
			}
			a, err := requireSession(cmd)
			if err != nil {
				return err
			}

			in := api.ProfileInput{Name: a.sess.User.Name, Email: a.sess.User.Email}
			if cmd.Flags().Changed("name") {
				in.Name = name
			}
			if cmd.Flags().Changed("email") {
				in.Email = email
			}
			user, err := a.client.UpdateProfile(cmd.Context(), in)
			if err != nil {
				return a.wrap(err, "updating profile")
			}

			a.sess.User = user
			if err = a.store.Save(a.sess); err != nil {
				return fmt.Errorf("saving session: %w", err)
			}
			cmd.Printf("Profil diperbarui: %s <%s>\n", user.Name, user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&email, "email", "", "new email")
	return cmd
}

func newPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "password", Short: "Manage your password"}
	cmd.AddCommand(newPasswordChangeCmd())
	return cmd
}

func newPasswordChangeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "change",
		Short: "Change your password",
		Long: `Prompts for the current password, the new password and its confirmation.
Without a terminal the three values are read as consecutive lines of stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := requireSession(cmd)
			if err != nil {
				return err
			}

			p := newPrompter(cmd)
			var in api.PasswordChange
			if in.CurrentPassword, err = p.Secret("Password lama"); err != nil {
				return err
			}
			if in.NewPassword, err = p.Secret("Password baru"); err != nil {
				return err
			}
			if in.ConfirmPassword, err = p.Secret("Ulangi password baru"); err != nil {
				return err
			}
			if in.NewPassword == "" {
				return fmt.Errorf("new password: %w", errEmptyField)
			}
			if in.NewPassword != in.ConfirmPassword {
				return errPasswordMismatch
			}

			msg, err := a.client.ChangePassword(cmd.Context(), in)
			if err != nil {
				return a.wrap(err, "changing password")
			}
			if msg == "" {
				msg = "Password berhasil diubah"
			}
			cmd.Println(msg)
			return nil
		},
	}
}

func newMenuCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "List the screens available to your role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveOutput(output)
			if err != nil {
				return err
			}
			store, err := sessionStore()
			if err != nil {
				return err
			}
			sess, err := store.Active(time.Now())
			if err != nil {
				return &ExitError{Code: ExitCodeAuth, Err: err}
			}

			items := session.Menu(sess.User.Role)
			if format == outputJSON {
				return writeJSON(cmd.OutOrStdout(), items)
			}
			tw := newTabWriter(cmd.OutOrStdout())
			fmt.Fprintln(tw, "MENU\tPERINTAH")
			for _, item := range items {
				fmt.Fprintf(tw, "%s\t%s\n", item.Label, item.Command)
			}
			return tw.Flush()
		},
	}

	addOutputFlag(cmd, &output)
	return cmd
}
