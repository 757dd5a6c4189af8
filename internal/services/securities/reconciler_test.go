package securities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/tally/internal/models"
	"github.com/ternarybob/tally/internal/services/tables"
)

func newTestReconciler() *Reconciler {
	return NewReconciler(tables.NewClassifier(nil), arbor.NewLogger())
}

func TestReconcile_FromTableRow(t *testing.T) {
	r := newTestReconciler()

	tbls := []models.Table{
		{
			Headers: []string{"Security Name", "ISIN", "Quantity", "Price", "Market Value"},
			Rows: [][]string{
				{"Apple Inc.", "US0378331005", "100", "$200.00", "$20,000.00"},
			},
		},
	}

	secs := r.Reconcile(tbls, nil)
	require.Len(t, secs, 1)

	sec := secs[0]
	assert.Equal(t, "US0378331005", sec.ISIN)
	assert.Equal(t, "Apple Inc.", sec.Name)
	require.NotNil(t, sec.Quantity)
	assert.InDelta(t, 100.0, *sec.Quantity, 1e-9)
	require.NotNil(t, sec.Price)
	assert.InDelta(t, 200.0, *sec.Price, 1e-9)
	require.NotNil(t, sec.Value)
	assert.InDelta(t, 20000.0, *sec.Value, 1e-9)
	assert.Equal(t, models.SecurityTypeUnknown, sec.SecurityType)
}

func TestReconcile_SeedsFromCandidates(t *testing.T) {
	r := newTestReconciler()

	qty := 50.0
	candidates := []models.PartialSecurity{
		{Code: "DE0005557508", Name: "Deutsche Telekom", Quantity: &qty, SecurityType: "equity"},
		{Code: "FR0000120271"},
	}

	secs := r.Reconcile(nil, candidates)
	require.Len(t, secs, 2)

	assert.Equal(t, "DE0005557508", secs[0].ISIN)
	assert.Equal(t, "Deutsche Telekom", secs[0].Name)
	require.NotNil(t, secs[0].Quantity)
	assert.InDelta(t, 50.0, *secs[0].Quantity, 1e-9)
	assert.Equal(t, "equity", secs[0].SecurityType)

	assert.Equal(t, "FR0000120271", secs[1].ISIN)
	assert.Equal(t, models.SecurityTypeUnknown, secs[1].SecurityType)
	assert.Nil(t, secs[1].Quantity)
}

func TestReconcile_MergeFillsOnlyEmptyFields(t *testing.T) {
	r := newTestReconciler()

	qty := 42.0
	candidates := []models.PartialSecurity{
		{Code: "US0378331005", Quantity: &qty},
	}
	tbls := []models.Table{
		{
			Headers: []string{"Holding", "ISIN", "Quantity", "Price"},
			Rows: [][]string{
				{"Apple Inc.", "US0378331005", "999", "200.00"},
			},
		},
	}

	secs := r.Reconcile(tbls, candidates)
	require.Len(t, secs, 1)

	sec := secs[0]
	// First discovery wins: the candidate quantity is never overwritten.
	require.NotNil(t, sec.Quantity)
	assert.InDelta(t, 42.0, *sec.Quantity, 1e-9)
	// Empty fields are filled from the table row.
	assert.Equal(t, "Apple Inc.", sec.Name)
	require.NotNil(t, sec.Price)
	assert.InDelta(t, 200.0, *sec.Price, 1e-9)
}

func TestReconcile_ISINFoundByRowScan(t *testing.T) {
	r := newTestReconciler()

	// No identifier column resolves; the ISIN sits inside the name cell.
	tbls := []models.Table{
		{
			Headers: []string{"Holding", "Quantity"},
			Rows: [][]string{
				{"Nestlé CH0038863350", "10"},
			},
		},
	}

	secs := r.Reconcile(tbls, nil)
	require.Len(t, secs, 1)
	assert.Equal(t, "CH0038863350", secs[0].ISIN)
}

func TestReconcile_EmbeddedRunIsNotAnISIN(t *testing.T) {
	r := newTestReconciler()

	// The identifier pattern only accepts a free-standing token. A longer
	// alphanumeric run must not yield a 12-character window at the wrong
	// offset ("AAUS03783310" here).
	tbls := []models.Table{
		{
			Headers: []string{"Holding", "Quantity"},
			Rows: [][]string{
				{"ref AAUS0378331005", "10"},
			},
		},
	}

	assert.Empty(t, r.Reconcile(tbls, nil))
}

func TestReconcile_RowWithoutISINIsSkipped(t *testing.T) {
	r := newTestReconciler()

	tbls := []models.Table{
		{
			Headers: []string{"Holding", "Quantity"},
			Rows: [][]string{
				{"Cash balance", "1000"},
			},
		},
	}

	assert.Empty(t, r.Reconcile(tbls, nil))
}

func TestReconcile_IgnoresNonSecuritiesTables(t *testing.T) {
	r := newTestReconciler()

	tbls := []models.Table{
		{
			Headers: []string{"Date", "Reference"},
			Rows:    [][]string{{"2026-06-30", "US0378331005"}},
		},
	}

	assert.Empty(t, r.Reconcile(tbls, nil))
}

func TestReconcile_DerivesPriceFromValueAndQuantity(t *testing.T) {
	r := newTestReconciler()

	qty, value := 100.0, 20000.0
	candidates := []models.PartialSecurity{
		{Code: "US0378331005", Quantity: &qty, Value: &value},
	}

	secs := r.Reconcile(nil, candidates)
	require.Len(t, secs, 1)
	require.NotNil(t, secs[0].Price)
	assert.InDelta(t, 200.0, *secs[0].Price, 1e-9)
}

func TestReconcile_DerivesValueFromQuantityAndPrice(t *testing.T) {
	r := newTestReconciler()

	tbls := []models.Table{
		{
			Headers: []string{"Security", "ISIN", "Quantity", "Price"},
			Rows: [][]string{
				{"Apple Inc.", "US0378331005", "100", "200.00"},
			},
		},
	}

	secs := r.Reconcile(tbls, nil)
	require.Len(t, secs, 1)
	require.NotNil(t, secs[0].Value)
	assert.InDelta(t, 20000.0, *secs[0].Value, 1e-9)
}

func TestReconcile_QuantityIsNeverDerived(t *testing.T) {
	r := newTestReconciler()

	// Derivation completes price or value only; a record with price and
	// value keeps its quantity nil.
	price, value := 200.0, 20000.0
	candidates := []models.PartialSecurity{
		{Code: "US0378331005", Value: &value},
	}
	tbls := []models.Table{
		{
			Headers: []string{"Security", "ISIN", "Price"},
			Rows:    [][]string{{"Apple Inc.", "US0378331005", "200.00"}},
		},
	}

	secs := r.Reconcile(tbls, candidates)
	require.Len(t, secs, 1)
	require.NotNil(t, secs[0].Price)
	assert.InDelta(t, price, *secs[0].Price, 1e-9)
	assert.Nil(t, secs[0].Quantity)
}

func TestReconcile_NoDerivationForZeroQuantity(t *testing.T) {
	r := newTestReconciler()

	qty, value := 0.0, 500.0
	candidates := []models.PartialSecurity{
		{Code: "US0378331005", Quantity: &qty, Value: &value},
	}

	secs := r.Reconcile(nil, candidates)
	require.Len(t, secs, 1)
	assert.Nil(t, secs[0].Price)
}

func TestReconcile_SingleFieldStaysPartial(t *testing.T) {
	r := newTestReconciler()

	value := 500.0
	candidates := []models.PartialSecurity{
		{Code: "US0378331005", Value: &value},
	}

	secs := r.Reconcile(nil, candidates)
	require.Len(t, secs, 1)
	assert.Nil(t, secs[0].Quantity)
	assert.Nil(t, secs[0].Price)
}

func TestReconcile_CurrencyAndTypeColumns(t *testing.T) {
	r := newTestReconciler()

	tbls := []models.Table{
		{
			Headers: []string{"Security", "ISIN", "Ccy", "Type"},
			Rows: [][]string{
				{"Apple Inc.", "US0378331005", "USD", "Equity"},
			},
		},
	}

	secs := r.Reconcile(tbls, nil)
	require.Len(t, secs, 1)
	assert.Equal(t, "USD", secs[0].Currency)
	assert.Equal(t, "equity", secs[0].SecurityType)
}

func TestReconcile_EncounterOrderIsStable(t *testing.T) {
	r := newTestReconciler()

	candidates := []models.PartialSecurity{
		{Code: "US0378331005"},
		{Code: "DE0005557508"},
	}
	tbls := []models.Table{
		{
			Headers: []string{"Security", "ISIN"},
			Rows: [][]string{
				{"Nestlé", "CH0038863350"},
				{"Apple", "US0378331005"},
			},
		},
	}

	secs := r.Reconcile(tbls, candidates)
	require.Len(t, secs, 3)
	assert.Equal(t, "US0378331005", secs[0].ISIN)
	assert.Equal(t, "DE0005557508", secs[1].ISIN)
	assert.Equal(t, "CH0038863350", secs[2].ISIN)
	// The table row for Apple merged into the seeded record.
	assert.Equal(t, "Apple", secs[0].Name)
}

func TestReconcile_RaggedRowsAreSafe(t *testing.T) {
	r := newTestReconciler()

	tbls := []models.Table{
		{
			Headers: []string{"Security", "ISIN", "Quantity", "Price", "Value"},
			Rows: [][]string{
				{"Apple Inc.", "US0378331005"}, // missing numeric cells
			},
		},
	}

	secs := r.Reconcile(tbls, nil)
	require.Len(t, secs, 1)
	assert.Nil(t, secs[0].Quantity)
	assert.Nil(t, secs[0].Price)
	assert.Nil(t, secs[0].Value)
}
