package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suratku/suratku/internal/api"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts (super admin)",
	}
	cmd.AddCommand(
		newUsersListCmd(), newUsersCreateCmd(), newUsersUpdateCmd(),
		newUsersDeleteCmd(), newUsersResetPasswordCmd(),
	)
	return cmd
}

func newUsersListCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List user accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveOutput(output)
			if err != nil {
				return err
			}
			a, err := requireSuperAdmin(cmd)
			if err != nil {
				return err
			}
			users, err := a.client.ListUsers(cmd.Context())
			if err != nil {
				return a.wrap(err, "listing users")
			}
			if format == outputJSON {
				return writeJSON(cmd.OutOrStdout(), users)
			}

			tw := newTabWriter(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tNAMA\tEMAIL\tPERAN\tPERUSAHAAN")
			for _, u := range users {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role, u.CompanyName)
			}
			return tw.Flush()
		},
	}

	addOutputFlag(cmd, &output)
	return cmd
}

// userFlags are the account fields settable from the command line.
type userFlags struct {
	name    string
	email   string
	role    string
	company int64
}

func (f *userFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "display name")
	cmd.Flags().StringVar(&f.email, "email", "", "account email")
	cmd.Flags().StringVar(&f.role, "role", "", "admin or super_admin")
	cmd.Flags().Int64Var(&f.company, "company", 0, "company an admin is limited to")
}

func (f *userFlags) input(cmd *cobra.Command) (api.UserInput, error) {
	in := api.UserInput{Name: f.name, Email: f.email}
	if f.role != "" {
		switch r := api.Role(f.role); r {
		case api.RoleAdmin, api.RoleSuperAdmin:
			in.Role = r
		default:
			return api.UserInput{}, fmt.Errorf("invalid role %q: use %s or %s", f.role, api.RoleAdmin, api.RoleSuperAdmin)
		}
	}
	if cmd.Flags().Changed("company") {
		company := f.company
		in.CompanyID = &company
	}
	return in, nil
}

func newUsersCreateCmd() *cobra.Command {
	var flags userFlags

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a user account; the password is prompted for",
		Example: `  suratku users create --name "Admin EP" --email admin.ep@example.com --role admin --company 1`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := flags.input(cmd)
			if err != nil {
				return err
			}
			if in.Name == "" || in.Email == "" {
				return errors.New("--name and --email are required")
			}
			a, err := requireSuperAdmin(cmd)
			if err != nil {
				return err
			}
			if in.Password, err = newPrompter(cmd).Secret("Password"); err != nil {
				return err
			}
			if in.Password == "" {
				return fmt.Errorf("password: %w", errEmptyField)
			}

			u, err := a.client.CreateUser(cmd.Context(), in)
			if err != nil {
				return a.wrap(err, "creating user")
			}
			cmd.Printf("Pengguna %s <%s> dibuat dengan id %d\n", u.Name, u.Email, u.ID)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newUsersUpdateCmd() *cobra.Command {
	var flags userFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a user's name, email, role or company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "user")
			if err != nil {
				return err
			}
			in, err := flags.input(cmd)
			if err != nil {
				return err
			}
			if in == (api.UserInput{}) {
				return errors.New("nothing to update: pass --name, --email, --role or --company")
			}
			a, err := requireSuperAdmin(cmd)
			if err != nil {
				return err
			}
			u, err := a.client.UpdateUser(cmd.Context(), id, in)
			if err != nil {
				return a.wrap(err, "updating user")
			}
			cmd.Printf("Pengguna %d diperbarui: %s <%s> (%s)\n", u.ID, u.Name, u.Email, u.Role)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newUsersDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "user")
			if err != nil {
				return err
			}
			a, err := requireSuperAdmin(cmd)
			if err != nil {
				return err
			}
			if id == a.sess.User.ID {
				return errors.New("you cannot delete your own account")
			}
			ok, err := confirmAction(cmd, yes, fmt.Sprintf("Hapus pengguna %d?", id))
			if err != nil || !ok {
				return err
			}
			if err = a.client.DeleteUser(cmd.Context(), id); err != nil {
				return a.wrap(err, "deleting user")
			}
			cmd.Printf("Pengguna %d dihapus\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newUsersResetPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <id>",
		Short: "Set a new password for another user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "user")
			if err != nil {
				return err
			}
			a, err := requireSuperAdmin(cmd)
			if err != nil {
				return err
			}
			password, err := newPrompter(cmd).Secret("Password baru")
			if err != nil {
				return err
			}
			if password == "" {
				return fmt.Errorf("password: %w", errEmptyField)
			}
			if err = a.client.ResetPassword(cmd.Context(), id, password); err != nil {
				return a.wrap(err, "resetting password")
			}
			cmd.Printf("Password pengguna %d direset\n", id)
			return nil
		},
	}
}
