package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suratku/suratku/internal/api"
	"github.com/suratku/suratku/internal/letters"
)

func newCompaniesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "companies",
		Aliases: []string{"perusahaan"},
		Short:   "Manage companies letters are issued for",
	}
	cmd.AddCommand(
		newCompaniesListCmd(), newCompaniesCreateCmd(),
		newCompaniesUpdateCmd(), newCompaniesDeleteCmd(),
	)
	return cmd
}

func newCompaniesListCmd() *cobra.Command {
	var (
		activeOnly bool
		output     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List companies",
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
			companies, err := a.client.ListCompanies(cmd.Context(), activeOnly)
			if err != nil {
				return a.wrap(err, "listing companies")
			}
			if format == outputJSON {
				return writeJSON(cmd.OutOrStdout(), companies)
			}

			tw := newTabWriter(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tNAMA\tKODE\tSTATUS")
			for _, c := range companies {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.ID, c.Name, c.Code, c.Status)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "only companies that may issue letters")
	addOutputFlag(cmd, &output)
	return cmd
}

// companyStatus validates a --status value.
func companyStatus(value string) (api.CompanyStatus, error) {
	switch s := api.CompanyStatus(value); s {
	case api.CompanyActive, api.CompanyInactive:
		return s, nil
	default:
		return "", fmt.Errorf("invalid status %q: use %s or %s", value, api.CompanyActive, api.CompanyInactive)
	}
}

func newCompaniesCreateCmd() *cobra.Command {
	var name, code, status string

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a company (super admin)",
		Example: `  suratku companies create --name "PT Eka Prima" --code EP`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if name == "" || code == "" {
				return errors.New("--name and --code are required")
			}
			st, err := companyStatus(status)
			if err != nil {
				return err
			}
			a, err := requireSuperAdmin(cmd)
			if err != nil {
				return err
			}
			c, err := a.client.CreateCompany(cmd.Context(), api.CompanyInput{Name: name, Code: code, Status: st})
			if err != nil {
				return a.wrap(err, "creating company")
			}
			a.forgetOptions(cmd, letters.OptionCompanies)
			cmd.Printf("Perusahaan %s (%s) dibuat dengan id %d\n", c.Name, c.Code, c.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "company name")
	cmd.Flags().StringVar(&code, "code", "", "code used in reference numbers")
	cmd.Flags().StringVar(&status, "status", string(api.CompanyActive), "aktif or tidak_aktif")
	return cmd
}

func newCompaniesUpdateCmd() *cobra.Command {
	var name, code, status string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename a company, change its code or status (super admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "company")
			if err != nil {
				return err
			}
			in := api.CompanyInput{Name: name, Code: code}
			if cmd.Flags().Changed("status") {
				if in.Status, err = companyStatus(status); err != nil {
					return err
				}
			}
			if in == (api.CompanyInput{}) {
				return errors.New("nothing to update: pass --name, --code or --status")
			}
			a, err := requireSuperAdmin(cmd)
			if err != nil {
				return err
			}
			c, err := a.client.UpdateCompany(cmd.Context(), id, in)
			if err != nil {
				return a.wrap(err, "updating company")
			}
			a.forgetOptions(cmd, letters.OptionCompanies)
			cmd.Printf("Perusahaan %d diperbarui: %s (%s, %s)\n", c.ID, c.Name, c.Code, c.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&code, "code", "", "new code")
	cmd.Flags().StringVar(&status, "status", "", "aktif or tidak_aktif")
	return cmd
}

func newCompaniesDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a company (super admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "company")
			if err != nil {
				return err
			}
			a, err := requireSuperAdmin(cmd)
			if err != nil {
				return err
			}
			ok, err := confirmAction(cmd, yes, fmt.Sprintf("Hapus perusahaan %d?", id))
			if err != nil || !ok {
				return err
			}
			if err = a.client.DeleteCompany(cmd.Context(), id); err != nil {
				return a.wrap(err, "deleting company")
			}
			a.forgetOptions(cmd, letters.OptionCompanies, letters.OptionYears)
			cmd.Printf("Perusahaan %d dihapus\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
