package extract

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Figo14045/pdf-to-excel-converter/pkg/money"
)

// Metadata line patterns found in Shopee seller income statements.
var (
	companyRe  = regexp.MustCompile(`Name in Bank Account\s*:\s*([^\n]+)`)
	periodRe   = regexp.MustCompile(`Statement for\s+(\d{4}-\d{2}-\d{2})\s+to\s+(\d{4}-\d{2}-\d{2})`)
	bankRe     = regexp.MustCompile(`Bank Name\s*:\s*([^\n]+)`)
	usernameRe = regexp.MustCompile(`Username\s*:\s*([^\n]+)`)
)

// summaryField is one labeled amount in the statement's financial summary.
type summaryField struct {
	key   string
	label string
	re    *regexp.Regexp
}

var summaryFields = []summaryField{
	{"merchandise_subtotal", "Merchandise Subtotal", regexp.MustCompile(`(?i)Merchandise Subtotal\s+(-?[\d,.]+)`)},
	{"product_price", "Product Price", regexp.MustCompile(`(?i)Product Price\s+(-?[\d,.]+)`)},
	{"refund_amount", "Refund Amount", regexp.MustCompile(`(?i)Refund Amount\s+(-?[\d,.]+)`)},
	{"shipping_subtotal", "Shipping Subtotal", regexp.MustCompile(`(?i)Shipping Subtotal\s+(-?[\d,.]+)`)},
	{"fees_and_charges", "Fees and Charges", regexp.MustCompile(`(?i)Fees and Charges\s+(-?[\d,.]+)`)},
	{"commission_fee", "Commission Fee", regexp.MustCompile(`(?i)Commission fee[^\d-]*(-?[\d,.]+)`)},
	{"service_fee", "Service Fee", regexp.MustCompile(`(?i)Service Fee[^\d-]*(-?[\d,.]+)`)},
	{"transaction_fee", "Transaction Fee", regexp.MustCompile(`(?i)Transaction Fee[^\d-]*(-?[\d,.]+)`)},
	{"total_payout", "Total Payout Released", regexp.MustCompile(`(?i)Total Payout Released\s+S?\$?(-?[\d,.]+)`)},
	{"amount_paid_by_buyer", "Amount Paid By Buyer", regexp.MustCompile(`(?i)Amount Paid By Buyer\s+(-?[\d,.]+)`)},
}

// Daily payout breakdown: a date followed by 14 numeric columns.
var dailyRowRe = regexp.MustCompile(`(?m)^\s*(\d{4}-\d{2}-\d{2})((?:\s+-?[\d,]+(?:\.\d+)?){14})\s*$`)

var dailyHeader = []string{
	"Date", "Product_Price", "Refund_Amount", "Rebate_By_Shopee", "Voucher_By_Seller",
	"Shipping_Fee_By_Buyer", "Shipping_Fee_By_Logistic", "Shipping_Rebate",
	"Reverse_Shipping", "Fee_Saver_Savings", "Commission_Fee", "Service_Fee",
	"Transaction_Fee", "Fee_Saver_Fee", "Total_Payout",
}

// Order adjustment rows: date, free-text type, amount, optional description.
var (
	adjustmentSectionRe = regexp.MustCompile(`(?i)Order Adjustments?`)
	adjustmentRowRe     = regexp.MustCompile(`(?m)^\s*(\d{4}-\d{2}-\d{2})\s+([A-Za-z][A-Za-z /]*?)\s+(-?[\d,]+\.\d{2})(?:\s+(.*?))?\s*$`)
)

var adjustmentHeader = []string{"Date", "Adjustment_Type", "Amount_SGD", "Description"}

// statementParser rebuilds the structured tables of a Shopee income
// statement from its plain text. The clock is injectable for tests.
type statementParser struct {
	now func() time.Time
}

func newStatementParser() *statementParser {
	return &statementParser{now: time.Now}
}

// parse produces up to four tables: summary report, daily payout details,
// order adjustments and business analytics. Returns ErrNoTables when the
// text carries neither summary fields nor daily rows.
func (p *statementParser) parse(text string) (*Result, error) {
	meta := parseStatementMeta(text)
	summary := parseSummary(text)
	daily := parseDailyRows(text)
	adjustments := parseAdjustments(text)

	if len(summary) == 0 && len(daily) == 0 {
		return nil, ErrNoTables
	}

	tables := []Table{p.summaryTable(meta, summary)}

	if len(daily) > 0 {
		tables = append(tables, dailyTable(daily))
	}
	if len(adjustments) > 0 {
		tables = append(tables, adjustmentsTable(adjustments))
	}
	if t, ok := analyticsTable(summary, daily); ok {
		tables = append(tables, t)
	}

	return &Result{Profile: ProfileShopeeIncome, Tables: tables, Meta: meta}, nil
}

func parseStatementMeta(text string) *StatementMeta {
	meta := &StatementMeta{}
	if m := companyRe.FindStringSubmatch(text); m != nil {
		meta.Company = strings.TrimSpace(m[1])
	}
	if m := periodRe.FindStringSubmatch(text); m != nil {
		meta.PeriodStart = m[1]
		meta.PeriodEnd = m[2]
	}
	if m := bankRe.FindStringSubmatch(text); m != nil {
		meta.Bank = strings.TrimSpace(m[1])
	}
	if m := usernameRe.FindStringSubmatch(text); m != nil {
		meta.Username = strings.TrimSpace(m[1])
	}
	return meta
}

// summaryValue pairs a summary field with its parsed amount.
type summaryValue struct {
	key    string
	label  string
	amount decimal.Decimal
}

func parseSummary(text string) []summaryValue {
	var values []summaryValue
	for _, f := range summaryFields {
		m := f.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		d, err := money.Parse(m[1])
		if err != nil {
			continue
		}
		values = append(values, summaryValue{key: f.key, label: f.label, amount: d})
	}
	return values
}

func parseDailyRows(text string) [][]string {
	matches := dailyRowRe.FindAllStringSubmatch(text, -1)
	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		row := append([]string{m[1]}, strings.Fields(m[2])...)
		if len(row) != len(dailyHeader) {
			continue
		}
		for i := 1; i < len(row); i++ {
			row[i] = strings.ReplaceAll(row[i], ",", "")
		}
		rows = append(rows, row)
	}
	return rows
}

func parseAdjustments(text string) [][]string {
	loc := adjustmentSectionRe.FindStringIndex(text)
	if loc == nil {
		return nil
	}

	section := text[loc[1]:]
	matches := adjustmentRowRe.FindAllStringSubmatch(section, -1)
	rows := make([][]string, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, []string{
			m[1],
			strings.TrimSpace(m[2]),
			strings.ReplaceAll(m[3], ",", ""),
			strings.TrimSpace(m[4]),
		})
	}
	return rows
}

// summaryTable builds the Summary_Report sheet: document metadata followed
// by the financial summary with currency formatting.
func (p *statementParser) summaryTable(meta *StatementMeta, summary []summaryValue) Table {
	rows := [][]string{
		{"Property", "Value"},
		{"Company", orNA(meta.Company)},
		{"Period", orNA(meta.Period())},
		{"Bank", orNA(meta.Bank)},
		{"Username", orNA(meta.Username)},
		{"Processing Date", p.now().Format("2006-01-02 15:04:05")},
		{"", ""},
		{"FINANCIAL SUMMARY", ""},
	}
	for _, v := range summary {
		rows = append(rows, []string{v.label, money.Format(v.amount, money.USD)})
	}
	return Table{Name: "Summary_Report", Page: 1, Rows: rows}
}

// dailyTable builds Daily_Payout_Details with a computed TOTAL row.
func dailyTable(daily [][]string) Table {
	rows := make([][]string, 0, len(daily)+2)
	rows = append(rows, dailyHeader)
	rows = append(rows, daily...)

	totals := make([]decimal.Decimal, len(dailyHeader)-1)
	for _, row := range daily {
		for i := 1; i < len(row); i++ {
			if d, err := money.Parse(row[i]); err == nil {
				totals[i-1] = totals[i-1].Add(d)
			}
		}
	}
	totalRow := make([]string, len(dailyHeader))
	totalRow[0] = "TOTAL"
	for i, d := range totals {
		totalRow[i+1] = d.StringFixed(2)
	}
	rows = append(rows, totalRow)

	return Table{Name: "Daily_Payout_Details", Page: 1, Rows: rows}
}

// adjustmentsTable builds Order_Adjustments with a net adjustment row.
func adjustmentsTable(adjustments [][]string) Table {
	rows := make([][]string, 0, len(adjustments)+2)
	rows = append(rows, adjustmentHeader)
	rows = append(rows, adjustments...)

	net := decimal.Zero
	for _, row := range adjustments {
		if d, err := money.Parse(row[2]); err == nil {
			net = net.Add(d)
		}
	}
	rows = append(rows, []string{"TOTAL", "Net Adjustment", net.StringFixed(2), "Total adjustment amount"})

	return Table{Name: "Order_Adjustments", Page: 1, Rows: rows}
}

// analyticsTable derives business metrics from the summary and daily rows.
// Returns false when the required revenue figure is absent.
func analyticsTable(summary []summaryValue, daily [][]string) (Table, bool) {
	values := make(map[string]decimal.Decimal, len(summary))
	for _, v := range summary {
		values[v.key] = v.amount
	}

	revenue, ok := values["product_price"]
	if !ok || revenue.IsZero() {
		return Table{}, false
	}
	fees := values["fees_and_charges"].Abs()
	payout := values["total_payout"]

	hundred := decimal.NewFromInt(100)
	feeRate := fees.Div(revenue).Mul(hundred)
	margin := payout.Div(revenue).Mul(hundred)

	rows := [][]string{
		{"Metric", "Value", "Analysis"},
		{"Total Revenue", money.Format(revenue, money.USD), "Gross product sales"},
		{"Total Platform Fees", money.Format(fees, money.USD), "Platform costs"},
		{"Net Payout", money.Format(payout, money.USD), "Final amount received"},
		{"Effective Fee Rate", feeRate.StringFixed(2) + "%", "Platform fee percentage"},
		{"Profit Margin", margin.StringFixed(2) + "%", "Net profit percentage"},
	}

	if len(daily) > 0 {
		avg := revenue.Div(decimal.NewFromInt(int64(len(daily))))
		rows = append(rows, []string{
			"Average Daily Sales", money.Format(avg, money.USD),
			fmt.Sprintf("%d-day average", len(daily)),
		})

		if best, worst, ok := bestWorstDays(daily); ok {
			rows = append(rows,
				[]string{"Best Day Revenue", money.Format(best.amount, money.USD), best.date + " (highest sales)"},
				[]string{"Lowest Day Revenue", money.Format(worst.amount, money.USD), worst.date + " (lowest sales)"},
			)
		}
	}

	return Table{Name: "Business_Analytics", Page: 1, Rows: rows}, true
}

type dayRevenue struct {
	date   string
	amount decimal.Decimal
}

// bestWorstDays scans the Product_Price column of the daily breakdown.
func bestWorstDays(daily [][]string) (best, worst dayRevenue, ok bool) {
	for _, row := range daily {
		d, err := money.Parse(row[1])
		if err != nil {
			continue
		}
		day := dayRevenue{date: row[0], amount: d}
		if !ok {
			best, worst, ok = day, day, true
			continue
		}
		if d.GreaterThan(best.amount) {
			best = day
		}
		if d.LessThan(worst.amount) {
			worst = day
		}
	}
	return best, worst, ok
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
