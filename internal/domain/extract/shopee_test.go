package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleStatement = `Shopee Income Statement
Statement for 2025-08-18 to 2025-08-24
Name in Bank Account : Acme Trading Pte Ltd
Bank Name : DBS Bank
Username : acmetrading

Merchandise Subtotal 16379.05
Product Price 16629.70
Refund Amount -250.65
Shipping Subtotal -1176.80
Fees and Charges -2848.17
Commission fee (incl. tax) -1232.55
Service Fee (incl. tax) -1004.62
Transaction Fee (incl. tax) -536.75
Total Payout Released S$12120.72
Amount Paid By Buyer 16870.49

Daily Breakdown
2025-08-18 2822.54 -12.60 0.00 -21.00 41.79 -381.26 101.49 0.00 2.03 -212.69 -167.76 -92.56 -12.75 2067.23
2025-08-19 2628.49 -206.88 0.00 -39.00 31.84 -294.67 85.57 -12.07 24.17 -181.79 -149.47 -78.96 -11.25 1795.98
2025-08-24 1891.28 0.00 0.66 -6.00 25.87 -242.84 73.63 0.00 0.00 -143.90 -117.13 -62.53 -9.00 1410.04

Order Adjustments
2025-08-18 Return Refund -17.71 Return Refund Adjustment After Order Completed
2025-08-21 Logistic Compensation 14.27 Logistic Issue Adjustment/Compensation
`

func fixedClockParser() *statementParser {
	return &statementParser{
		now: func() time.Time {
			return time.Date(2025, 8, 25, 10, 30, 0, 0, time.UTC)
		},
	}
}

func TestStatementParser_FullStatement(t *testing.T) {
	res, err := fixedClockParser().parse(sampleStatement)
	require.NoError(t, err)

	assert.Equal(t, ProfileShopeeIncome, res.Profile)
	require.NotNil(t, res.Meta)
	assert.Equal(t, "Acme Trading Pte Ltd", res.Meta.Company)
	assert.Equal(t, "DBS Bank", res.Meta.Bank)
	assert.Equal(t, "acmetrading", res.Meta.Username)
	assert.Equal(t, "2025-08-18 to 2025-08-24", res.Meta.Period())

	require.Len(t, res.Tables, 4)
	assert.Equal(t, "Summary_Report", res.Tables[0].Name)
	assert.Equal(t, "Daily_Payout_Details", res.Tables[1].Name)
	assert.Equal(t, "Order_Adjustments", res.Tables[2].Name)
	assert.Equal(t, "Business_Analytics", res.Tables[3].Name)
}

func TestStatementParser_SummarySheet(t *testing.T) {
	res, err := fixedClockParser().parse(sampleStatement)
	require.NoError(t, err)

	rows := res.Tables[0].Rows
	assert.Equal(t, []string{"Property", "Value"}, rows[0])
	assert.Equal(t, []string{"Company", "Acme Trading Pte Ltd"}, rows[1])
	assert.Equal(t, []string{"Processing Date", "2025-08-25 10:30:00"}, rows[5])

	// Financial summary follows the blank separator.
	assert.Equal(t, []string{"FINANCIAL SUMMARY", ""}, rows[7])
	assert.Contains(t, rows, []string{"Total Payout Released", "$12,120.72"})
	assert.Contains(t, rows, []string{"Refund Amount", "-$250.65"})
}

func TestStatementParser_DailyTotals(t *testing.T) {
	res, err := fixedClockParser().parse(sampleStatement)
	require.NoError(t, err)

	daily := res.Tables[1]
	require.Equal(t, 5, daily.RowCount()) // header + 3 days + TOTAL
	assert.Equal(t, dailyHeader, daily.Rows[0])
	assert.Equal(t, "2025-08-18", daily.Rows[1][0])

	total := daily.Rows[4]
	assert.Equal(t, "TOTAL", total[0])
	assert.Equal(t, "7342.31", total[1])  // product price sum
	assert.Equal(t, "5273.25", total[14]) // payout sum
}

func TestStatementParser_Adjustments(t *testing.T) {
	res, err := fixedClockParser().parse(sampleStatement)
	require.NoError(t, err)

	adj := res.Tables[2]
	require.Equal(t, 4, adj.RowCount())
	assert.Equal(t, []string{"2025-08-18", "Return Refund", "-17.71", "Return Refund Adjustment After Order Completed"}, adj.Rows[1])
	assert.Equal(t, []string{"2025-08-21", "Logistic Compensation", "14.27", "Logistic Issue Adjustment/Compensation"}, adj.Rows[2])
	assert.Equal(t, []string{"TOTAL", "Net Adjustment", "-3.44", "Total adjustment amount"}, adj.Rows[3])
}

func TestStatementParser_Analytics(t *testing.T) {
	res, err := fixedClockParser().parse(sampleStatement)
	require.NoError(t, err)

	analytics := res.Tables[3]
	assert.Equal(t, []string{"Metric", "Value", "Analysis"}, analytics.Rows[0])
	assert.Contains(t, analytics.Rows, []string{"Total Revenue", "$16,629.70", "Gross product sales"})
	assert.Contains(t, analytics.Rows, []string{"Total Platform Fees", "$2,848.17", "Platform costs"})
	assert.Contains(t, analytics.Rows, []string{"Effective Fee Rate", "17.13%", "Platform fee percentage"})
	assert.Contains(t, analytics.Rows, []string{"Best Day Revenue", "$2,822.54", "2025-08-18 (highest sales)"})
	assert.Contains(t, analytics.Rows, []string{"Lowest Day Revenue", "$1,891.28", "2025-08-24 (lowest sales)"})
}

func TestStatementParser_NoStatementContent(t *testing.T) {
	_, err := fixedClockParser().parse("An unrelated document about gardening.\nNo numbers here.\n")
	require.ErrorIs(t, err, ErrNoTables)
}

func TestStatementParser_SummaryOnly(t *testing.T) {
	text := "Statement for 2025-01-01 to 2025-01-31\nTotal Payout Released S$100.00\n"
	res, err := fixedClockParser().parse(text)
	require.NoError(t, err)

	// Summary sheet only: no daily rows, no adjustments, and analytics
	// needs the revenue figure.
	require.Len(t, res.Tables, 1)
	assert.Equal(t, "Summary_Report", res.Tables[0].Name)
	assert.Contains(t, res.Tables[0].Rows, []string{"Company", "N/A"})
}

func TestParseDailyRows_IgnoresMalformedLines(t *testing.T) {
	text := `2025-08-18 2822.54 -12.60 0.00 -21.00 41.79 -381.26 101.49 0.00 2.03 -212.69 -167.76 -92.56 -12.75 2067.23
2025-08-19 only three cols 1.00
not a row at all`

	rows := parseDailyRows(text)
	require.Len(t, rows, 1)
	assert.Equal(t, "2025-08-18", rows[0][0])
	assert.Len(t, rows[0], len(dailyHeader))
}
