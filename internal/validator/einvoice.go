// Package validator performs local, structural validation of candidate
// e-invoices: mandatory-field presence and format rules mandated by the
// GST e-invoicing scheme. No network or registry cross-checks are done
// here. Callers must not persist or submit a document for which
// ValidateEInvoice returns a non-empty list.
package validator

import (
	"fmt"
	"regexp"

	"taxdesk/internal/domain"
)

var (
	// 2 digits, 5 letters, 4 digits, 1 letter, 1 alphanumeric, literal
	// "Z", 1 alphanumeric: 15 characters total.
	gstinPattern = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z][0-9A-Z]Z[0-9A-Z]$`)
	pinPattern   = regexp.MustCompile(`^\d{6}$`)
)

// rule is a single independent validation rule. Every rule is
// evaluated; validation never short-circuits.
type rule struct {
	ruleKey string
	check   func(e *domain.EInvoice) []string
}

// ValidateEInvoice checks a candidate (possibly partial) e-invoice and
// returns the ordered list of human-readable errors. An empty list
// means the candidate is structurally valid.
func ValidateEInvoice(e *domain.EInvoice) []string {
	errs := []string{}
	for _, r := range rules() {
		errs = append(errs, r.check(e)...)
	}
	return errs
}

func rules() []rule {
	return []rule{
		{
			ruleKey: "req.invoice_number",
			check: func(e *domain.EInvoice) []string {
				return requireString(e.InvoiceNumber, "invoice number is required")
			},
		},
		{
			ruleKey: "req.invoice_date",
			check: func(e *domain.EInvoice) []string {
				if e.InvoiceDate.IsZero() {
					return []string{"invoice date is required"}
				}
				return nil
			},
		},
		{
			ruleKey: "req.supplier.gstin",
			check: func(e *domain.EInvoice) []string {
				return requireString(e.Supplier.GSTIN, "supplier GSTIN is required")
			},
		},
		{
			ruleKey: "req.supplier.legal_name",
			check: func(e *domain.EInvoice) []string {
				return requireString(e.Supplier.LegalName, "supplier legal name is required")
			},
		},
		{
			ruleKey: "req.buyer.legal_name",
			check: func(e *domain.EInvoice) []string {
				return requireString(e.Buyer.LegalName, "buyer legal name is required")
			},
		},
		{
			ruleKey: "req.line_items",
			check: func(e *domain.EInvoice) []string {
				if len(e.LineItems) == 0 {
					return []string{"at least one line item is required"}
				}
				return nil
			},
		},
		{
			ruleKey: "fmt.supplier.gstin",
			check: func(e *domain.EInvoice) []string {
				return checkFormat(e.Supplier.GSTIN, gstinPattern, "supplier GSTIN %q is not a valid 15-character GSTIN")
			},
		},
		{
			// Buyer GSTIN is optional for consumer-type buyers; the
			// format rule applies only when present.
			ruleKey: "fmt.buyer.gstin",
			check: func(e *domain.EInvoice) []string {
				return checkFormat(e.Buyer.GSTIN, gstinPattern, "buyer GSTIN %q is not a valid 15-character GSTIN")
			},
		},
		{
			ruleKey: "fmt.supplier.pin_code",
			check: func(e *domain.EInvoice) []string {
				return checkFormat(e.Supplier.PINCode, pinPattern, "supplier PIN code %q must be exactly 6 digits")
			},
		},
		{
			ruleKey: "fmt.buyer.pin_code",
			check: func(e *domain.EInvoice) []string {
				return checkFormat(e.Buyer.PINCode, pinPattern, "buyer PIN code %q must be exactly 6 digits")
			},
		},
	}
}

func requireString(val, msg string) []string {
	if val == "" {
		return []string{msg}
	}
	return nil
}

// checkFormat applies a format rule only when the field is present.
func checkFormat(val string, re *regexp.Regexp, format string) []string {
	if val == "" {
		return nil
	}
	if !re.MatchString(val) {
		return []string{fmt.Sprintf(format, val)}
	}
	return nil
}
