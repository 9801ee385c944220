package normalizer

import (
	"encoding/json"
	"testing"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/entity"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDetectShape(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Shape
	}{
		{"items", `{"items": [], "total_due": 10}`, ShapeItems},
		{"lines", `{"lines": [{"id": 1}]}`, ShapeLines},
		{"order items", `{"order_items": []}`, ShapeOrderItems},
		{"wrapped", `{"order": {"items": []}}`, ShapeWrapped},
		{"items beat wrapper", `{"items": [], "order": {"lines": []}}`, ShapeItems},
		{"totals only", `{"total": "12.00", "paid": 2}`, ShapeTotalsOnly},
		{"paid only", `{"amount_paid": 2}`, ShapeTotalsOnly},
		{"empty object", `{}`, ShapeUnknown},
		{"array", `[1, 2, 3]`, ShapeUnknown},
		{"string", `"hello"`, ShapeUnknown},
		{"null items ignored", `{"items": null}`, ShapeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectShape(decode([]byte(tt.body))))
		})
	}
}

func TestNormalizeJSON_DropsInactiveItems(t *testing.T) {
	ticket := NormalizeJSON([]byte(`{
		"items": [
			{"id": 1, "name": "Buddha bowl", "unit_price": 12, "quantity": 1, "status": "ACTIVE"},
			{"id": 2, "name": "Kombucha", "unit_price": 4, "quantity": 1, "status": "VOID"},
			{"id": 3, "name": "Tofu wrap", "unit_price": 9, "quantity": 1, "is_deleted": true}
		]
	}`))

	require.Len(t, ticket.Items, 1)
	assert.Equal(t, "1", ticket.Items[0].ID)
	assert.Equal(t, "Buddha bowl", ticket.Items[0].Name)
	assert.Equal(t, enum.ItemStatusActive, ticket.Items[0].Status)
}

func TestNormalizeJSON_StatusIsCaseInsensitive(t *testing.T) {
	ticket := NormalizeJSON([]byte(`{
		"lines": [
			{"id": "a", "status": "cancelled"},
			{"id": "b", "state": "Deleted"},
			{"id": "c", "status": "void"},
			{"id": "d", "voided": "true"},
			{"id": "e", "status": "served"}
		]
	}`))

	require.Len(t, ticket.Items, 1)
	assert.Equal(t, "e", ticket.Items[0].ID)
	assert.Equal(t, enum.ItemStatus("SERVED"), ticket.Items[0].Status)
}

func TestNormalizeJSON_AlternateItemKeys(t *testing.T) {
	ticket := NormalizeJSON([]byte(`{
		"order_items": [
			{"order_item_id": 7, "menu_item": {"name": "Seitan burger", "price": "14,90"}, "qty": "2"},
			{"line_id": "x1", "label": "Side salad", "unitPrice": 3.5, "count": 3}
		],
		"totalDue": 40.3,
		"paidAmount": "10"
	}`))

	require.Len(t, ticket.Items, 2)

	assert.Equal(t, "7", ticket.Items[0].ID)
	assert.Equal(t, "Seitan burger", ticket.Items[0].Name)
	assert.Equal(t, "14.90", ticket.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, 2, ticket.Items[0].Quantity)

	assert.Equal(t, "x1", ticket.Items[1].ID)
	assert.Equal(t, "Side salad", ticket.Items[1].Name)
	assert.Equal(t, "3.50", ticket.Items[1].UnitPrice.StringFixed(2))
	assert.Equal(t, 3, ticket.Items[1].Quantity)

	assert.Equal(t, "40.30", ticket.TotalDue.StringFixed(2))
	assert.Equal(t, "10.00", ticket.PaidAmount.StringFixed(2))
}

func TestNormalizeJSON_FirstNonNullCandidateWins(t *testing.T) {
	ticket := NormalizeJSON([]byte(`{
		"items": [{"id": null, "item_id": "k9", "name": null, "title": "Falafel", "unit_price": null, "price": 5}],
		"total_due": null,
		"total": 5
	}`))

	require.Len(t, ticket.Items, 1)
	assert.Equal(t, "k9", ticket.Items[0].ID)
	assert.Equal(t, "Falafel", ticket.Items[0].Name)
	assert.Equal(t, "5.00", ticket.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "5.00", ticket.TotalDue.StringFixed(2))
}

func TestNormalizeJSON_WrappedOrder(t *testing.T) {
	ticket := NormalizeJSON([]byte(`{
		"order": {
			"id": 1203,
			"lines": [{"id": 1, "name": "Chili sin carne", "price": 11.5, "quantity": 2}],
			"amount_due": 23.5
		},
		"amount_paid": 3.5
	}`))

	assert.Equal(t, "1203", ticket.OrderID)
	require.Len(t, ticket.Items, 1)
	assert.Equal(t, "23.50", ticket.TotalDue.StringFixed(2))
	assert.Equal(t, "3.50", ticket.PaidAmount.StringFixed(2))
}

func TestNormalizeJSON_DerivesTotalFromActiveItems(t *testing.T) {
	ticket := NormalizeJSON([]byte(`{
		"items": [
			{"id": 1, "unit_price": "6.25", "quantity": 2},
			{"id": 2, "unit_price": "3.10"},
			{"id": 3, "unit_price": "100", "quantity": 1, "status": "VOID"}
		],
		"paid_amount": 0
	}`))

	assert.Equal(t, "15.60", ticket.TotalDue.StringFixed(2))
	assert.Equal(t, 1, ticket.Items[1].Quantity)
}

func TestNormalizeJSON_NumericCoercion(t *testing.T) {
	ticket := NormalizeJSON([]byte(`{
		"items": [
			{"id": 1, "unit_price": "12,50", "quantity": 1},
			{"id": 2, "unit_price": "twelve", "quantity": "many"},
			{"id": 3, "unit_price": {"amount": 3}, "quantity": -4}
		],
		"total_due": "abc",
		"paid_amount": "-5"
	}`))

	require.Len(t, ticket.Items, 3)
	assert.Equal(t, "12.50", ticket.Items[0].UnitPrice.StringFixed(2))
	assert.True(t, ticket.Items[1].UnitPrice.IsZero())
	assert.Equal(t, 0, ticket.Items[1].Quantity)
	assert.True(t, ticket.Items[2].UnitPrice.IsZero())
	assert.Equal(t, 0, ticket.Items[2].Quantity)
	assert.True(t, ticket.TotalDue.IsZero())
	assert.True(t, ticket.PaidAmount.IsZero())
}

func TestNormalize_MalformedInputYieldsZeroTicket(t *testing.T) {
	for _, payload := range []any{nil, "garbage", 42, []any{1, 2}, map[string]any{}, []byte("{not json")} {
		ticket := Normalize(payload)
		assert.NotNil(t, ticket.Items)
		assert.Empty(t, ticket.Items)
		assert.True(t, ticket.TotalDue.IsZero())
		assert.True(t, ticket.PaidAmount.IsZero())
	}
}

func TestNormalize_SkipsNonObjectLines(t *testing.T) {
	ticket := Normalize(map[string]any{
		"items":     []any{"oops", 3, nil, map[string]any{"id": "ok", "price": 2.0}},
		"total_due": 2.0,
	})

	require.Len(t, ticket.Items, 1)
	assert.Equal(t, "ok", ticket.Items[0].ID)
}

func TestNormalizeWithFallback(t *testing.T) {
	fallback := &entity.Totals{TotalDue: dec("31.00"), PaidAmount: dec("1.00")}

	t.Run("unknown payload uses fallback", func(t *testing.T) {
		ticket := NormalizeJSONWithFallback([]byte(`{"error": "temporarily unavailable"}`), fallback)
		assert.Equal(t, "31.00", ticket.TotalDue.StringFixed(2))
		assert.Equal(t, "1.00", ticket.PaidAmount.StringFixed(2))
	})

	t.Run("wrapper without lines or totals uses fallback", func(t *testing.T) {
		ticket := NormalizeJSONWithFallback([]byte(`{"order": {"id": 9}}`), fallback)
		assert.Equal(t, "31.00", ticket.TotalDue.StringFixed(2))
		assert.Equal(t, "9", ticket.OrderID)
	})

	t.Run("payload paid wins over fallback paid", func(t *testing.T) {
		ticket := NormalizeJSONWithFallback([]byte(`{"paid": 5}`), fallback)
		assert.Equal(t, "31.00", ticket.TotalDue.StringFixed(2))
		assert.Equal(t, "5.00", ticket.PaidAmount.StringFixed(2))
	})

	t.Run("server totals win", func(t *testing.T) {
		ticket := NormalizeJSONWithFallback([]byte(`{"total_due": 12, "paid_amount": 0}`), fallback)
		assert.Equal(t, "12.00", ticket.TotalDue.StringFixed(2))
		assert.True(t, ticket.PaidAmount.IsZero())
	})

	t.Run("lines without totals derive instead of falling back", func(t *testing.T) {
		ticket := NormalizeJSONWithFallback([]byte(`{"items": [{"id": 1, "price": 4, "quantity": 2}]}`), fallback)
		assert.Equal(t, "8.00", ticket.TotalDue.StringFixed(2))
	})

	t.Run("nil fallback keeps zero ticket", func(t *testing.T) {
		ticket := NormalizeJSONWithFallback([]byte(`null`), nil)
		assert.True(t, ticket.TotalDue.IsZero())
	})
}

func TestNormalize_IsIdempotentOnCanonicalTickets(t *testing.T) {
	canonical := Normalize(decode([]byte(`{
		"order_id": "77",
		"items": [
			{"id": 1, "name": "Miso soup", "unit_price": "4.20", "quantity": 2, "status": "ACTIVE"},
			{"id": 2, "name": "Edamame", "unit_price": 3, "quantity": 1},
			{"id": 3, "name": "Gyoza", "unit_price": 6, "quantity": 1, "status": "VOID"}
		],
		"total_due": 11.4,
		"paid_amount": 1.4
	}`)))

	again := Normalize(canonical)
	assertSameTicket(t, canonical, again)

	data, err := json.Marshal(canonical)
	require.NoError(t, err)
	roundTripped := NormalizeJSON(data)
	assertSameTicket(t, canonical, roundTripped)
}

func assertSameTicket(t *testing.T, want, got entity.Ticket) {
	t.Helper()
	assert.Equal(t, want.OrderID, got.OrderID)
	assert.True(t, want.TotalDue.Equal(got.TotalDue), "total %s != %s", want.TotalDue, got.TotalDue)
	assert.True(t, want.PaidAmount.Equal(got.PaidAmount), "paid %s != %s", want.PaidAmount, got.PaidAmount)
	require.Len(t, got.Items, len(want.Items))
	for i := range want.Items {
		assert.Equal(t, want.Items[i].ID, got.Items[i].ID)
		assert.Equal(t, want.Items[i].Name, got.Items[i].Name)
		assert.Equal(t, want.Items[i].Quantity, got.Items[i].Quantity)
		assert.Equal(t, want.Items[i].Status, got.Items[i].Status)
		assert.True(t, want.Items[i].UnitPrice.Equal(got.Items[i].UnitPrice))
	}
}
