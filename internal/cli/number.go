package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/suratku/suratku/internal/numbering"
)

var errUnknownMonth = errors.New("not a month number (1-12) or Roman month (I-XII)")

func newNumberCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "number",
		Aliases: []string{"nomor"},
		Short:   "Reference number tools (offline)",
	}
	cmd.AddCommand(newNumberParseCmd(), newNumberRomanCmd(), newNumberFormatCmd())
	return cmd
}

// numberParseOutput is the JSON form of number parse.
type numberParseOutput struct {
	Input      string `json:"input"`
	Recognized bool   `json:"recognized"`
	WellFormed bool   `json:"well_formed"`

	Reference *numbering.ReferenceNumber `json:"reference,omitempty"`
	Fields    *numbering.Fields          `json:"fields,omitempty"`
}

func newNumberParseCmd() *cobra.Command {
	var (
		template string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "parse <nomor-surat>",
		Short: "Split a reference number into its fields",
		Long: `Splits a reference number on "/" into sequence, category code, company code,
Roman month and year. With --format the number is matched against a
nomor_format template instead.`,
		Example: `  suratku number parse 001/SP/AOS/VIII/2025
  suratku number parse SP-7-2025 --format "{kode_surat}-{nomor}-{tahun}"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := resolveOutput(output)
			if err != nil {
				return err
			}
			out := numberParseOutput{Input: args[0]}

			if cmd.Flags().Changed("format") {
				tmpl, tmplErr := numbering.ParseTemplate(template)
				if tmplErr != nil {
					return fmt.Errorf("invalid --format: %w", tmplErr)
				}
				if fields, ok := tmpl.Parse(args[0]); ok {
					out.Recognized, out.WellFormed = true, true
					out.Fields = &fields
				}
			} else if ref, ok := numbering.ParseReferenceNumber(args[0]); ok {
				out.Recognized = true
				out.WellFormed = ref.WellFormed()
				out.Reference = &ref
			}

			if format == outputJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			if !out.Recognized {
				return fmt.Errorf("%q is not a recognized reference number", args[0])
			}

			tw := newTabWriter(cmd.OutOrStdout())
			if out.Reference != nil {
				ref := out.Reference
				fmt.Fprintf(tw, "Urut:\t%s\n", ref.Sequence)
				fmt.Fprintf(tw, "Kode kategori:\t%s\n", ref.CategoryCode)
				fmt.Fprintf(tw, "Kode perusahaan:\t%s\n", ref.CompanyCode)
				fmt.Fprintf(tw, "Bulan:\t%s\n", describeMonth(ref.MonthRoman))
				fmt.Fprintf(tw, "Tahun:\t%s\n", ref.Year)
			} else {
				f := out.Fields
				fmt.Fprintf(tw, "Urut:\t%d\n", f.Sequence)
				fmt.Fprintf(tw, "Kode kategori:\t%s\n", f.CategoryCode)
				fmt.Fprintf(tw, "Kode perusahaan:\t%s\n", f.CompanyCode)
				fmt.Fprintf(tw, "Bulan:\t%d\n", f.Month)
				fmt.Fprintf(tw, "Tahun:\t%d\n", f.Year)
			}
			if !out.WellFormed {
				fmt.Fprintln(tw, "Peringatan:\tnomor tidak sesuai format baku")
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&template, "format", numbering.DefaultFormat, "nomor_format template to match")
	addOutputFlag(cmd, &output)
	return cmd
}

func describeMonth(roman string) string {
	if month, ok := numbering.RomanToMonth(roman); ok {
		return fmt.Sprintf("%s (%d)", roman, month)
	}
	return roman
}

func newNumberRomanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roman <bulan>",
		Short: "Convert between month numbers and Roman months",
		Example: `  suratku number roman 8      # VIII
  suratku number roman viii   # 8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := strings.TrimSpace(args[0])
			if n, err := strconv.Atoi(arg); err == nil {
				if n < 1 || n > 12 {
					return fmt.Errorf("%q: %w", arg, errUnknownMonth)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), numbering.MonthToRoman(n))
				return err
			}
			month, ok := numbering.RomanToMonth(arg)
			if !ok {
				return fmt.Errorf("%q: %w", arg, errUnknownMonth)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), month)
			return err
		},
	}
}

func newNumberFormatCmd() *cobra.Command {
	var (
		template string
		date     string
		fields   numbering.Fields
	)

	cmd := &cobra.Command{
		Use:   "format",
		Short: "Render a reference number from its fields",
		Example: `  suratku number format --sequence 1 --category SP --company AOS --date 2025-08-15
  suratku number format --sequence 12 --category PC --company EP --format "{kode_perusahaan}.{nomor}/{tahun}"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if fields.Sequence < 0 {
				return fmt.Errorf("sequence must be >= 0, got %d", fields.Sequence)
			}
			tmpl, err := numbering.ParseTemplate(template)
			if err != nil {
				return fmt.Errorf("invalid --format: %w", err)
			}

			day := time.Now().In(dateFormatter().Location())
			if date != "" {
				parsed, ok := dateFormatter().Parse(date)
				if !ok {
					return fmt.Errorf("%w: %q", errInvalidDate, date)
				}
				day = parsed
			}
			fields.Month = int(day.Month())
			fields.Year = day.Year()

			_, err = fmt.Fprintln(cmd.OutOrStdout(), tmpl.Render(fields))
			return err
		},
	}

	cmd.Flags().IntVar(&fields.Sequence, "sequence", 1, "sequence number")
	cmd.Flags().StringVar(&fields.CategoryCode, "category", "", "category code")
	cmd.Flags().StringVar(&fields.CompanyCode, "company", "", "company code")
	cmd.Flags().StringVar(&date, "date", "", "letter date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&template, "format", numbering.DefaultFormat, "nomor_format template")
	return cmd
}
