package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/suratku/suratku/internal/api"
	"github.com/suratku/suratku/internal/numbering"
	"github.com/suratku/suratku/internal/report"
)

func newDashboardCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show letter totals, the twelve-month trend and recent letters",
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
			stats, err := a.client.LetterStats(cmd.Context())
			if err != nil {
				return a.wrap(err, "loading dashboard")
			}
			if format == outputJSON {
				return writeJSON(cmd.OutOrStdout(), stats)
			}
			return newRenderer(cmd).Dashboard(cmd.OutOrStdout(), stats)
		},
	}

	addOutputFlag(cmd, &output)
	return cmd
}

// reportFlags are the filters of the report commands.
type reportFlags struct {
	company  int64
	category int64
	year     int
	month    int
}

func (f *reportFlags) register(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&f.company, "company", 0, "company id")
	cmd.Flags().Int64Var(&f.category, "category", 0, "category id")
	cmd.Flags().IntVar(&f.year, "year", 0, "report year")
	cmd.Flags().IntVar(&f.month, "month", 0, "report month (1-12)")
}

// params builds the report filter. Admins are limited to their company.
func (f *reportFlags) params(a *app) (api.ReportParams, error) {
	if f.month < 0 || f.month > 12 {
		return api.ReportParams{}, fmt.Errorf("month must be between 1 and 12, got %d", f.month)
	}
	p := api.ReportParams{CompanyID: f.company, CategoryID: f.category, Year: f.year, Month: f.month}
	if companyID, ok := a.sess.CompanyScope(); ok {
		p.CompanyID = companyID
	}
	return p, nil
}

// describeReport renders the filter as the report's subtitle.
func describeReport(p api.ReportParams) string {
	var parts []string
	if p.Month > 0 {
		parts = append(parts, "bulan "+numbering.MonthToRoman(p.Month))
	}
	if p.Year > 0 {
		parts = append(parts, fmt.Sprintf("tahun %d", p.Year))
	}
	if p.CompanyID > 0 {
		parts = append(parts, fmt.Sprintf("perusahaan #%d", p.CompanyID))
	}
	if p.CategoryID > 0 {
		parts = append(parts, fmt.Sprintf("kategori #%d", p.CategoryID))
	}
	if len(parts) == 0 {
		return ""
	}
	return "Filter: " + strings.Join(parts, ", ")
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "report",
		Aliases: []string{"laporan"},
		Short:   "Letter reports",
	}
	cmd.AddCommand(newReportShowCmd(), newReportExportCmd())
	return cmd
}

func newReportShowCmd() *cobra.Command {
	var (
		flags  reportFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show letter totals by company and category",
		Example: `  suratku report show --year 2025
  suratku report show --year 2025 --month 8 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveOutput(output)
			if err != nil {
				return err
			}
			a, err := requireSession(cmd)
			if err != nil {
				return err
			}
			params, err := flags.params(a)
			if err != nil {
				return err
			}
			rep, err := a.client.Report(cmd.Context(), params)
			if err != nil {
				return a.wrap(err, "loading report")
			}
			if format == outputJSON {
				return writeJSON(cmd.OutOrStdout(), rep)
			}
			return newRenderer(cmd).Report(cmd.OutOrStdout(), rep, describeReport(params))
		},
	}

	flags.register(cmd)
	addOutputFlag(cmd, &output)
	return cmd
}

func newReportExportCmd() *cobra.Command {
	var (
		flags  reportFlags
		format string
		file   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the server-rendered report as PDF or Excel",
		Long: `Downloads the report document rendered by the server. Without --file it is
saved as laporan-surat-YYYY-MM-DD.pdf (or .xlsx) in the current directory.`,
		Example: `  suratku report export --format pdf --year 2025
  suratku report export --format excel --file /tmp/laporan.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			exportFormat := api.ExportFormat(strings.ToLower(format))
			if exportFormat != api.ExportPDF && exportFormat != api.ExportExcel {
				return fmt.Errorf("unsupported export format %q: use pdf or excel", format)
			}
			a, err := requireSession(cmd)
			if err != nil {
				return err
			}
			params, err := flags.params(a)
			if err != nil {
				return err
			}
			if file == "" {
				file = report.ExportFileName(exportFormat, time.Now().In(a.cfg.Output.Location()))
			}

			n, err := downloadReport(cmd, a, params, exportFormat, file)
			if err != nil {
				return err
			}
			logger.Info().Ctx(cmd.Context()).Str("file", file).Int64("bytes", n).Msg("report exported")
			cmd.Printf("Laporan disimpan ke %s\n", file)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&format, "format", string(api.ExportPDF), "document format: pdf or excel")
	cmd.Flags().StringVar(&file, "file", "", "destination path")
	return cmd
}

// downloadReport streams the export into a temporary file next to path and
// renames it into place once complete.
func downloadReport(
	cmd *cobra.Command,
	a *app,
	params api.ReportParams,
	format api.ExportFormat,
	path string,
) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".laporan-*")
	if err != nil {
		return 0, fmt.Errorf("creating export file: %w", err)
	}
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}

	n, err := a.client.ExportReport(cmd.Context(), params, format, tmp)
	if err != nil {
		cleanup()
		return 0, a.wrap(err, "exporting report")
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return 0, fmt.Errorf("writing export file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return 0, fmt.Errorf("saving export file: %w", err)
	}
	return n, nil
}
