package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/suratku/suratku/internal/api"
	"github.com/suratku/suratku/internal/numbering"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "settings",
		Aliases: []string{"pengaturan"},
		Short:   "System settings",
	}
	cmd.AddCommand(newSettingsGetCmd(), newSettingsSetCmd(), newSettingsResetCmd())
	return cmd
}

func newSettingsGetCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show the system settings",
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
			s, err := a.client.Settings(cmd.Context())
			if err != nil {
				return a.wrap(err, "loading settings")
			}
			if format == outputJSON {
				return writeJSON(cmd.OutOrStdout(), s)
			}
			return renderSettings(cmd.OutOrStdout(), s)
		},
	}

	addOutputFlag(cmd, &output)
	return cmd
}

// renderSettings prints s with a sample number in its format.
func renderSettings(w io.Writer, s api.Settings) error {
	tw := newTabWriter(w)
	fmt.Fprintf(tw, "Nama aplikasi:\t%s\n", s.AppName)
	if s.Logo != "" {
		fmt.Fprintf(tw, "Logo:\t%s\n", s.Logo)
	}
	fmt.Fprintf(tw, "Mode gelap:\t%t\n", s.DarkMode)
	fmt.Fprintf(tw, "Format nomor:\t%s\n", s.NumberFormat)
	if tmpl, err := numbering.ParseTemplate(s.NumberFormat); err == nil {
		now := time.Now()
		fmt.Fprintf(tw, "Contoh nomor:\t%s\n", tmpl.Render(numbering.Fields{
			Sequence: 1, CategoryCode: "SP", CompanyCode: "EP",
			Month: int(now.Month()), Year: now.Year(),
		}))
	}
	return tw.Flush()
}

func newSettingsSetCmd() *cobra.Command {
	var (
		appName, logo, numberFormat string
		darkMode                    bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change system settings (super admin)",
		Example: `  suratku settings set --app-name "Suratku PT EP"
  suratku settings set --number-format "{nomor}/{kode_surat}/{kode_perusahaan}/{bulan}/{tahun}"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			patch := api.SettingsPatch{
				AppName:      changedString(cmd, "app-name", appName),
				Logo:         changedString(cmd, "logo", logo),
				NumberFormat: changedString(cmd, "number-format", numberFormat),
			}
			if cmd.Flags().Changed("dark-mode") {
				patch.DarkMode = &darkMode
			}
			if patch.AppName == nil && patch.Logo == nil && patch.NumberFormat == nil && patch.DarkMode == nil {
				return errors.New("nothing to update: pass at least one setting flag")
			}
			if patch.NumberFormat != nil {
				if _, err := numbering.ParseTemplate(*patch.NumberFormat); err != nil {
					return fmt.Errorf("invalid --number-format: %w", err)
				}
			}

			a, err := requireSuperAdmin(cmd)
			if err != nil {
				return err
			}
			s, err := a.client.UpdateSettings(cmd.Context(), patch)
			if err != nil {
				return a.wrap(err, "updating settings")
			}
			cmd.Println("Pengaturan disimpan.")
			return renderSettings(cmd.OutOrStdout(), s)
		},
	}

	cmd.Flags().StringVar(&appName, "app-name", "", "application name")
	cmd.Flags().StringVar(&logo, "logo", "", "logo path or URL")
	cmd.Flags().BoolVar(&darkMode, "dark-mode", false, "dark mode default")
	cmd.Flags().StringVar(&numberFormat, "number-format", "", "reference number template")
	return cmd
}

func newSettingsResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the default settings (super admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := requireSuperAdmin(cmd)
			if err != nil {
				return err
			}
			ok, err := confirmAction(cmd, yes, "Kembalikan semua pengaturan ke bawaan?")
			if err != nil || !ok {
				return err
			}
			s, err := a.client.ResetSettings(cmd.Context())
			if err != nil {
				return a.wrap(err, "resetting settings")
			}
			cmd.Println("Pengaturan dikembalikan ke bawaan.")
			return renderSettings(cmd.OutOrStdout(), s)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
