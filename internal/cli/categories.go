package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/suratku/suratku/internal/api"
	"github.com/suratku/suratku/internal/letters"
)

func newCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"kategori"},
		Short:   "Manage letter categories",
	}
	cmd.AddCommand(
		newCategoriesListCmd(), newCategoriesCreateCmd(),
		newCategoriesUpdateCmd(), newCategoriesDeleteCmd(),
	)
	return cmd
}

func newCategoriesListCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
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
			categories, err := a.client.ListCategories(cmd.Context())
			if err != nil {
				return a.wrap(err, "listing categories")
			}
			if format == outputJSON {
				return writeJSON(cmd.OutOrStdout(), categories)
			}

			tw := newTabWriter(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tNAMA\tKODE")
			for _, c := range categories {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", c.ID, c.Name, c.Code)
			}
			return tw.Flush()
		},
	}

	addOutputFlag(cmd, &output)
	return cmd
}

func newCategoriesCreateCmd() *cobra.Command {
	var in api.CategoryInput

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a category",
		Example: `  suratku categories create --name "Surat Perintah" --code SP`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in.Name == "" || in.Code == "" {
				return errors.New("--name and --code are required")
			}
			a, err := requireSession(cmd)
			if err != nil {
				return err
			}
			c, err := a.client.CreateCategory(cmd.Context(), in)
			if err != nil {
				return a.wrap(err, "creating category")
			}
			a.forgetOptions(cmd, letters.OptionCategories)
			cmd.Printf("Kategori %s (%s) dibuat dengan id %d\n", c.Name, c.Code, c.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "category name")
	cmd.Flags().StringVar(&in.Code, "code", "", "code used in reference numbers")
	return cmd
}

func newCategoriesUpdateCmd() *cobra.Command {
	var in api.CategoryInput

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename a category or change its code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "category")
			if err != nil {
				return err
			}
			if in == (api.CategoryInput{}) {
				return errors.New("nothing to update: pass --name or --code")
			}
			a, err := requireSession(cmd)
			if err != nil {
				return err
			}
			c, err := a.client.UpdateCategory(cmd.Context(), id, in)
			if err != nil {
				return a.wrap(err, "updating category")
			}
			a.forgetOptions(cmd, letters.OptionCategories)
			cmd.Printf("Kategori %d diperbarui: %s (%s)\n", c.ID, c.Name, c.Code)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "new name")
	cmd.Flags().StringVar(&in.Code, "code", "", "new code")
	return cmd
}

func newCategoriesDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "category")
			if err != nil {
				return err
			}
			a, err := requireSession(cmd)
			if err != nil {
				return err
			}
			ok, err := confirmAction(cmd, yes, fmt.Sprintf("Hapus kategori %d?", id))
			if err != nil || !ok {
				return err
			}
			if err = a.client.DeleteCategory(cmd.Context(), id); err != nil {
				return a.wrap(err, "deleting category")
			}
			a.forgetOptions(cmd, letters.OptionCategories)
			cmd.Printf("Kategori %d dihapus\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
