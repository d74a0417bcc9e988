package validation

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolioapi/internal/model"
)

func portfolioSchema(t *testing.T) Schema {
	t.Helper()
	s, err := ParseSchema("ticker:string:required,shares:number:required,price:number:required")
	require.NoError(t, err)
	return s
}

func TestValidate_CleanFile(t *testing.T) {
	v := NewValidator(portfolioSchema(t), 5)

	csv := "ticker,shares,price\nAAPL,10,150.0\nJNJ,5,140\n"
	report, err := v.Validate(context.Background(), strings.NewReader(csv), "good.csv")
	require.NoError(t, err)

	assert.Equal(t, model.StatusValid, report.Status)
	assert.Empty(t, report.Issues)
	assert.Equal(t, 2, report.RowCount)
	assert.Equal(t, 2, report.ValidRows)
	assert.Equal(t, 0, report.DroppedRows)
	assert.Equal(t, "good.csv", report.Filename)
	assert.False(t, report.CreatedAt.IsZero())

	_, err = uuid.Parse(report.ID)
	assert.NoError(t, err, "report id must be a uuid")

	require.Len(t, report.Sample, 2)
	assert.Equal(t, map[string]string{"ticker": "AAPL", "shares": "10", "price": "150.0"}, report.Sample[0])
}

func TestValidate_TypeMismatch(t *testing.T) {
	v := NewValidator(portfolioSchema(t), 5)

	csv := "ticker,shares,price\nAAPL,ten,150.0\n"
	report, err := v.Validate(context.Background(), strings.NewReader(csv), "bad.csv")
	require.NoError(t, err)

	assert.Equal(t, model.StatusInvalid, report.Status)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, 1, report.Issues[0].Row)
	assert.Equal(t, "shares", report.Issues[0].Column)
	assert.Equal(t, 1, report.RowCount)
	assert.Equal(t, 0, report.ValidRows)
	assert.Equal(t, 1, report.DroppedRows)
}

func TestValidate_PerRowIssues(t *testing.T) {
	v := NewValidator(portfolioSchema(t), 5)

	// Row 1: blank ticker. Row 2: bad shares. Row 3: bad price. Row 4: clean.
	csv := "ticker,shares,price\n,5,100\nBAD,notnum,10\nBADPRICE,2,foo\nOK,1,9.5\n"
	report, err := v.Validate(context.Background(), strings.NewReader(csv), "mixed.csv")
	require.NoError(t, err)

	assert.Equal(t, model.StatusInvalid, report.Status)
	require.Len(t, report.Issues, 3)
	assert.Equal(t, model.Issue{Row: 1, Column: "ticker", Message: "missing value"}, report.Issues[0])
	assert.Equal(t, 2, report.Issues[1].Row)
	assert.Equal(t, "shares", report.Issues[1].Column)
	assert.Equal(t, 3, report.Issues[2].Row)
	assert.Equal(t, "price", report.Issues[2].Column)

	assert.Equal(t, 4, report.RowCount)
	assert.Equal(t, 1, report.ValidRows)
	assert.Equal(t, 3, report.DroppedRows)
	require.Len(t, report.Sample, 1)
	assert.Equal(t, "OK", report.Sample[0]["ticker"])
}

func TestValidate_MissingRequiredColumn(t *testing.T) {
	v := NewValidator(portfolioSchema(t), 5)

	csv := "ticker,shares\nAAPL,10\n"
	report, err := v.Validate(context.Background(), strings.NewReader(csv), "noprices.csv")
	require.NoError(t, err)

	assert.Equal(t, model.StatusInvalid, report.Status)
	require.NotEmpty(t, report.Issues)
	assert.Equal(t, model.Issue{Row: 0, Column: "price", Message: "missing required column"}, report.Issues[0])
	// Rows cannot count as valid under an incomplete header.
	assert.Equal(t, 0, report.ValidRows)
	assert.Empty(t, report.Sample)
}

func TestValidate_ShortAndLongRows(t *testing.T) {
	v := NewValidator(portfolioSchema(t), 5)

	// Short row: missing cells are blank. Long row: extra cells ignored.
	csv := "ticker,shares,price\nAAPL,10\nMSFT,5,300,extra\n"
	report, err := v.Validate(context.Background(), strings.NewReader(csv), "ragged.csv")
	require.NoError(t, err)

	assert.Equal(t, model.StatusInvalid, report.Status)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, model.Issue{Row: 1, Column: "price", Message: "missing value"}, report.Issues[0])
	assert.Equal(t, 1, report.ValidRows)
}

func TestValidate_UnknownColumnsIgnored(t *testing.T) {
	v := NewValidator(portfolioSchema(t), 5)

	csv := "ticker,broker,shares,price\nAAPL,robinhood,10,150\n"
	report, err := v.Validate(context.Background(), strings.NewReader(csv), "extra.csv")
	require.NoError(t, err)

	assert.Equal(t, model.StatusValid, report.Status)
	require.Len(t, report.Sample, 1)
	assert.NotContains(t, report.Sample[0], "broker")
}

func TestValidate_KeyColumnDuplicates(t *testing.T) {
	s, err := ParseSchema("ticker:string:required:key,shares:number:required")
	require.NoError(t, err)
	v := NewValidator(s, 5)

	csv := "ticker,shares\nAAPL,10\nMSFT,5\nAAPL,7\n"
	report, err := v.Validate(context.Background(), strings.NewReader(csv), "dups.csv")
	require.NoError(t, err)

	assert.Equal(t, model.StatusInvalid, report.Status)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, 3, report.Issues[0].Row)
	assert.Equal(t, "ticker", report.Issues[0].Column)
	assert.Contains(t, report.Issues[0].Message, "duplicate key")
	assert.Contains(t, report.Issues[0].Message, "row 1")
}

func TestValidate_DateColumn(t *testing.T) {
	s, err := ParseSchema("ticker:string:required,traded_at:date:required")
	require.NoError(t, err)
	v := NewValidator(s, 5)

	csv := "ticker,traded_at\nAAPL,2024-01-02\nMSFT,yesterday\n"
	report, err := v.Validate(context.Background(), strings.NewReader(csv), "dates.csv")
	require.NoError(t, err)

	assert.Equal(t, model.StatusInvalid, report.Status)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, 2, report.Issues[0].Row)
	assert.Equal(t, "traded_at", report.Issues[0].Column)
}

func TestValidate_MalformedInput(t *testing.T) {
	v := NewValidator(portfolioSchema(t), 5)

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty file", input: ""},
		{name: "binary header", input: "tick\x00er,\xff\xfe\n1,2\n"},
		{name: "broken quoting", input: "ticker,shares,price\n\"AAPL,10,150\nMSFT,5,300\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := v.Validate(context.Background(), strings.NewReader(tt.input), "bad.bin")
			assert.ErrorIs(t, err, ErrMalformedInput)
			assert.Nil(t, report)
		})
	}

	t.Run("nil reader", func(t *testing.T) {
		_, err := v.Validate(context.Background(), nil, "none")
		assert.ErrorIs(t, err, ErrMalformedInput)
	})
}

func TestValidate_SampleCap(t *testing.T) {
	v := NewValidator(portfolioSchema(t), 2)

	csv := "ticker,shares,price\nA,1,1\nB,2,2\nC,3,3\n"
	report, err := v.Validate(context.Background(), strings.NewReader(csv), "many.csv")
	require.NoError(t, err)

	assert.Equal(t, 3, report.ValidRows)
	assert.Len(t, report.Sample, 2)
}

func TestValidate_ContextCancelled(t *testing.T) {
	v := NewValidator(portfolioSchema(t), 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.Validate(ctx, strings.NewReader("ticker,shares,price\nAAPL,1,1\n"), "x.csv")
	assert.ErrorIs(t, err, context.Canceled)
}
