package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/suratku/suratku/internal/api"
	"github.com/suratku/suratku/internal/cli/pagination"
	"github.com/suratku/suratku/internal/config"
	"github.com/suratku/suratku/internal/letters"
	"github.com/suratku/suratku/internal/numbering"
	"github.com/suratku/suratku/internal/pager"
)

const maxSubjectWidth = 40

var errInvalidDate = errors.New("invalid date: use YYYY-MM-DD")

func newLettersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "letters",
		Aliases: []string{"surat"},
		Short:   "List, inspect and manage letters",
	}
	cmd.AddCommand(
		newLettersListCmd(), newLettersShowCmd(), newLettersCreateCmd(),
		newLettersEditCmd(), newLettersDeleteCmd(), newLettersBrowseCmd(),
		newLettersOptionsCmd(),
	)
	return cmd
}

// letterFilterFlags are the listing filters shared by list and browse.
type letterFilterFlags struct {
	search   string
	company  int64
	category int64
	year     int
	month    int
}

func (f *letterFilterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.search, "search", "", "match reference number, subject or recipient")
	cmd.Flags().Int64Var(&f.company, "company", 0, "company id")
	cmd.Flags().Int64Var(&f.category, "category", 0, "category id")
	cmd.Flags().IntVar(&f.year, "year", 0, "letter year")
	cmd.Flags().IntVar(&f.month, "month", 0, "letter month (1-12)")
}

func (f *letterFilterFlags) filter() (api.LetterFilter, error) {
	if f.month < 0 || f.month > 12 {
		return api.LetterFilter{}, fmt.Errorf("month must be between 1 and 12, got %d", f.month)
	}
	return api.LetterFilter{
		Search:     f.search,
		CompanyID:  f.company,
		CategoryID: f.category,
		Year:       f.year,
		Month:      f.month,
	}, nil
}

// newBrowser returns a letter browser scoped to the signed-in user.
func (a *app) newBrowser(pageSize int) *letters.Browser {
	opts := []letters.Option{
		letters.WithPageSize(pageSize),
		letters.WithLogger(logger),
		letters.WithCache(a.cache(), a.cacheScope()...),
	}
	if companyID, ok := a.sess.CompanyScope(); ok {
		opts = append(opts, letters.WithCompanyScope(companyID))
	}
	return letters.New(a.client, opts...)
}

// letterListOutput is the JSON form of letters list.
type letterListOutput struct {
	Letters    []api.Letter     `json:"letters"`
	Pagination pager.Meta       `json:"pagination"`
	Pages      []string         `json:"pages"`
	Filter     api.LetterFilter `json:"filter"`
}

func newLettersListCmd() *cobra.Command {
	var (
		params  pagination.Params
		filters letterFilterFlags
		output  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List letters one page at a time",
		Long: `Fetches every letter matching the filters and shows one page of them.

Pages past the end show the last page; pages below 1 show the first.`,
		Example: `  # First page with the configured page size
  suratku letters list

  # Third page, 20 per page, newest reference numbers first
  suratku letters list --page 3 --page-size 20 --sort nomor:desc

  # Letters of company 2 in August 2025 as JSON
  suratku letters list --company 2 --year 2025 --month 8 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := resolveOutput(output)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("page-size") {
				params.PageSize = configuredPageSize()
			}
			if err = params.Validate(); err != nil {
				return err
			}
			filter, err := filters.filter()
			if err != nil {
				return err
			}

			a, err := requireSession(cmd)
			if err != nil {
				return err
			}
			b := a.newBrowser(params.PageSize)
			defer b.Close()
			if err = b.Load(cmd.Context(), filter); err != nil {
				return a.wrap(err, "loading letters")
			}

			p := b.Pager()
			sorted, err := pagination.SortLetters(p.Items(), params.Sort)
			if err != nil {
				return err
			}
			p.SetFullResult(sorted)
			pagination.Apply(p, params)

			logger.Debug().Ctx(cmd.Context()).
				Int("total", p.Len()).
				Int("page", p.Page()).
				Int("page_size", p.PageSize()).
				Msg("letters listed")

			if format == outputJSON {
				return writeJSON(cmd.OutOrStdout(), letterListOutput{
					Letters:    p.Visible(),
					Pagination: p.Meta(),
					Pages:      labelStrings(p.PageNumberLabels()),
					Filter:     b.Filter(),
				})
			}
			return renderLetterPage(cmd.OutOrStdout(), p, dateFormatter())
		},
	}

	pagination.AddFlags(cmd, &params, 0)
	filters.register(cmd)
	addOutputFlag(cmd, &output)
	return cmd
}

// renderLetterPage writes the visible page and a pagination footer.
func renderLetterPage(w io.Writer, p *pager.Pager[api.Letter], dates numbering.DateFormatter) error {
	if p.Len() == 0 {
		_, err := fmt.Fprintln(w, "Tidak ada surat.")
		return err
	}

	tw := newTabWriter(w)
	fmt.Fprintln(tw, "ID\tNOMOR SURAT\tPERIHAL\tTUJUAN\tPERUSAHAAN\tTANGGAL")
	for _, l := range p.Visible() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			l.ID, l.ReferenceNumber, truncate(l.Subject, maxSubjectWidth), l.Recipient,
			l.CompanyName, dates.Short(l.Date))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	from, to := p.Range()
	_, err := fmt.Fprintf(w, "\nHalaman %s  |  Menampilkan %d-%d dari %d surat  |  %d per halaman\n",
		pager.FormatLabels(p.PageNumberLabels(), p.Page()), from, to, p.Len(), p.PageSize())
	return err
}

// letterDetailOutput is the JSON form of letters show.
type letterDetailOutput struct {
	Letter     api.Letter                 `json:"letter"`
	Reference  *numbering.ReferenceNumber `json:"reference"`
	WellFormed bool                       `json:"well_formed"`
}

func newLettersShowCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one letter and its parsed reference number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveOutput(output)
			if err != nil {
				return err
			}
			id, err := parseID(args[0], "letter")
			if err != nil {
				return err
			}
			a, err := requireSession(cmd)
			if err != nil {
				return err
			}
			l, err := a.client.GetLetter(cmd.Context(), id)
			if err != nil {
				return a.wrap(err, "loading letter")
			}

			out := letterDetailOutput{Letter: l}
			if ref, ok := numbering.ParseReferenceNumber(l.ReferenceNumber); ok {
				out.Reference = &ref
				out.WellFormed = ref.WellFormed()
			}
			if format == outputJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			return renderLetterDetail(cmd.OutOrStdout(), out, dateFormatter())
		},
	}

	addOutputFlag(cmd, &output)
	return cmd
}

func renderLetterDetail(w io.Writer, d letterDetailOutput, dates numbering.DateFormatter) error {
	l := d.Letter
	tw := newTabWriter(w)
	fmt.Fprintf(tw, "Nomor surat:\t%s\n", l.ReferenceNumber)
	fmt.Fprintf(tw, "Perihal:\t%s\n", l.Subject)
	fmt.Fprintf(tw, "Tujuan:\t%s\n", l.Recipient)
	fmt.Fprintf(tw, "Tanggal:\t%s\n", dates.Long(l.Date))
	fmt.Fprintf(tw, "Perusahaan:\t%s (%s)\n", l.CompanyName, l.CompanyCode)
	fmt.Fprintf(tw, "Kategori:\t%s (%s)\n", l.CategoryName, l.CategoryCode)
	if l.CreatedByName != "" {
		fmt.Fprintf(tw, "Dibuat oleh:\t%s\n", l.CreatedByName)
	}
	fmt.Fprintf(tw, "Dibuat:\t%s\n", dates.Long(l.CreatedAt))
	if l.EvidenceFile != "" {
		fmt.Fprintf(tw, "Bukti:\t%s\n", l.EvidenceFile)
	}

	if d.Reference == nil {
		fmt.Fprintln(tw, "\nFormat nomor tidak dikenali.")
		return tw.Flush()
	}
	ref := d.Reference
	fmt.Fprintln(tw, "\nNOMOR SURAT\t")
	fmt.Fprintf(tw, "Urut:\t%s\n", ref.Sequence)
	fmt.Fprintf(tw, "Kode kategori:\t%s\n", ref.CategoryCode)
	fmt.Fprintf(tw, "Kode perusahaan:\t%s\n", ref.CompanyCode)
	if month, ok := ref.Month(); ok {
		fmt.Fprintf(tw, "Bulan:\t%s (%d)\n", ref.MonthRoman, month)
	} else {
		fmt.Fprintf(tw, "Bulan:\t%s\n", ref.MonthRoman)
	}
	fmt.Fprintf(tw, "Tahun:\t%s\n", ref.Year)
	if !d.WellFormed {
		fmt.Fprintln(tw, "Nomor tidak sesuai format baku.")
	}
	return tw.Flush()
}

func newLettersCreateCmd() *cobra.Command {
	var (
		in   api.NewLetter
		date string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a letter; the server assigns its reference number",
		Example: `  suratku letters create --company 2 --category 1 \
    --subject "Undangan rapat" --recipient "PT Mitra" --date 2025-08-15`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := requireSession(cmd)
			if err != nil {
				return err
			}
			if in.CompanyID == 0 {
				companyID, ok := a.sess.CompanyScope()
				if !ok {
					return errors.New("--company is required")
				}
				in.CompanyID = companyID
			}
			if in.CategoryID == 0 || in.Subject == "" || in.Recipient == "" {
				return errors.New("--category, --subject and --recipient are required")
			}
			if in.Date, err = inputDate(date); err != nil {
				return err
			}

			l, err := a.client.CreateLetter(cmd.Context(), in)
			if err != nil {
				return a.wrap(err, "creating letter")
			}
			a.forgetOptions(cmd, letters.OptionYears)
			logger.Info().Ctx(cmd.Context()).Int64("letter_id", l.ID).Str("nomor", l.ReferenceNumber).Msg("letter created")
			cmd.Printf("Surat dibuat dengan nomor %s (id %d)\n", l.ReferenceNumber, l.ID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&in.CompanyID, "company", 0, "company id (defaults to your company)")
	cmd.Flags().Int64Var(&in.CategoryID, "category", 0, "category id")
	cmd.Flags().StringVar(&in.Subject, "subject", "", "subject (perihal)")
	cmd.Flags().StringVar(&in.Recipient, "recipient", "", "recipient (tujuan)")
	cmd.Flags().StringVar(&date, "date", "", "letter date as YYYY-MM-DD (default today)")
	return cmd
}

// inputDate normalises a --date value to YYYY-MM-DD. Empty means today.
func inputDate(value string) (string, error) {
	dates := dateFormatter()
	if value == "" {
		return dates.ForInput(time.Now().Format(time.RFC3339)), nil
	}
	if _, ok := dates.Parse(value); !ok {
		return "", fmt.Errorf("%w: %q", errInvalidDate, value)
	}
	return dates.ForInput(value), nil
}

func newLettersEditCmd() *cobra.Command {
	var (
		subject, recipient, date string
		company, category        int64
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a letter's subject, recipient, date, company or category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "letter")
			if err != nil {
				return err
			}

			patch := api.LetterPatch{
				Subject:   changedString(cmd, "subject", subject),
				Recipient: changedString(cmd, "recipient", recipient),
			}
			if cmd.Flags().Changed("date") {
				normalized, dateErr := inputDate(date)
				if dateErr != nil {
					return dateErr
				}
				patch.Date = &normalized
			}
			if cmd.Flags().Changed("company") {
				patch.CompanyID = &company
			}
			if cmd.Flags().Changed("category") {
				patch.CategoryID = &category
			}
			if patch.Empty() {
				return errors.New("nothing to update: pass at least one field flag")
			}

			a, err := requireSession(cmd)
			if err != nil {
				return err
			}
			l, err := a.client.UpdateLetter(cmd.Context(), id, patch)
			if err != nil {
				return a.wrap(err, "updating letter")
			}
			a.forgetOptions(cmd, letters.OptionYears)
			cmd.Printf("Surat %d diperbarui (%s)\n", id, l.ReferenceNumber)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "new subject")
	cmd.Flags().StringVar(&recipient, "recipient", "", "new recipient")
	cmd.Flags().StringVar(&date, "date", "", "new date as YYYY-MM-DD")
	cmd.Flags().Int64Var(&company, "company", 0, "new company id")
	cmd.Flags().Int64Var(&category, "category", 0, "new category id")
	return cmd
}

func newLettersDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a letter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "letter")
			if err != nil {
				return err
			}
			a, err := requireSession(cmd)
			if err != nil {
				return err
			}
			ok, err := confirmAction(cmd, yes, fmt.Sprintf("Hapus surat %d?", id))
			if err != nil || !ok {
				return err
			}
			if err = a.client.DeleteLetter(cmd.Context(), id); err != nil {
				return a.wrap(err, "deleting letter")
			}
			a.forgetOptions(cmd, letters.OptionYears)
			logger.Info().Ctx(cmd.Context()).Int64("letter_id", id).Msg("letter deleted")
			cmd.Printf("Surat %d dihapus\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newLettersOptionsCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "options",
		Short: "Show the companies, categories and years letters can be filtered by",
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
			opts, err := a.newBrowser(configuredPageSize()).Options(cmd.Context())
			if err != nil {
				return a.wrap(err, "loading filter options")
			}
			if format == outputJSON {
				return writeJSON(cmd.OutOrStdout(), opts)
			}

			tw := newTabWriter(cmd.OutOrStdout())
			fmt.Fprintln(tw, "PERUSAHAAN\tID\tKODE")
			for _, c := range opts.Companies {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", c.Name, c.ID, c.Code)
			}
			fmt.Fprintln(tw, "\t\t")
			fmt.Fprintln(tw, "KATEGORI\tID\tKODE")
			for _, c := range opts.Categories {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", c.Name, c.ID, c.Code)
			}
			if err = tw.Flush(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "\nTahun: %s\n", joinInts(opts.Years))
			return err
		},
	}

	addOutputFlag(cmd, &output)
	return cmd
}

func configuredPageSize() int {
	if n := config.GetGlobalConfig().Output.PageSize; n > 0 {
		return n
	}
	return pager.DefaultPageSize
}

func labelStrings(labels []pager.Label) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = l.String()
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func joinInts(ns []int) string {
	if len(ns) == 0 {
		return "-"
	}
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
