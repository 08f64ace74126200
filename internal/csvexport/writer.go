package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"taxdesk/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (22 columns).
var columns = []string{
	"Invoice Number",
	"Invoice Date",
	"Document Type",
	"Status",
	"IRN",
	"Ack No",
	"Ack Date",
	"Supplier Name",
	"Supplier GSTIN",
	"Supplier State Code",
	"Buyer Name",
	"Buyer GSTIN",
	"Buyer State Code",
	"Place of Supply",
	"Reverse Charge",
	"Taxable Amount",
	"CGST",
	"SGST",
	"IGST",
	"Cess",
	"Total",
	"Created At",
}

// Writer wraps csv.Writer for exporting e-invoices as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteEInvoices converts a batch of e-invoices to CSV rows and writes them.
func (w *Writer) WriteEInvoices(docs []domain.EInvoice) error {
	for i := range docs {
		if err := w.csv.Write(einvoiceToRow(&docs[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func einvoiceToRow(e *domain.EInvoice) []string {
	row := make([]string, len(columns))
	row[0] = e.InvoiceNumber
	row[1] = e.InvoiceDate.Format("2006-01-02")
	row[2] = string(e.DocumentType)
	row[3] = string(e.Status)
	row[4] = e.IRN
	row[5] = e.AckNo
	row[6] = formatTime(e.AckDate)
	row[7] = e.Supplier.LegalName
	row[8] = e.Supplier.GSTIN
	row[9] = e.Supplier.StateCode
	row[10] = e.Buyer.LegalName
	row[11] = e.Buyer.GSTIN
	row[12] = e.Buyer.StateCode
	row[13] = e.PlaceOfSupply
	row[14] = formatBool(e.ReverseCharge)
	row[15] = formatMoney(e.Totals.AssessableValue)
	row[16] = formatMoney(e.Totals.CGSTValue)
	row[17] = formatMoney(e.Totals.SGSTValue)
	row[18] = formatMoney(e.Totals.IGSTValue)
	row[19] = formatMoney(e.Totals.CessValue)
	row[20] = formatMoney(e.Totals.InvoiceValue)
	row[21] = e.CreatedAt.Format(time.RFC3339)
	return row
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header. Format: {sanitized_name}_{YYYY-MM-DD}.csv
func BuildFilename(name string) string {
	return fmt.Sprintf("%s_%s.csv", SanitizeFilename(name), time.Now().Format("2006-01-02"))
}
