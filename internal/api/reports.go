package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Report returns the letters and summary matching p.
func (c *Client) Report(ctx context.Context, p ReportParams) (Report, error) {
	var r Report
	_, err := c.do(ctx, http.MethodGet, "/laporan", p.Values(), nil, &r)
	return r, err
}

// ExportReport downloads the server-rendered report document to w and
// returns the number of bytes written.
func (c *Client) ExportReport(ctx context.Context, p ReportParams, format ExportFormat, w io.Writer) (int64, error) {
	switch format {
	case ExportPDF, ExportExcel:
	default:
		return 0, fmt.Errorf("api: unknown export format %q", format)
	}
	return c.stream(ctx, http.MethodGet, "/laporan/export/"+string(format), p.Values(), w)
}
