// Package normalizer turns order service ticket responses, whose field names
// vary between endpoints and backend versions, into a canonical entity.Ticket.
//
// Every known response layout is a shape with its own adapter. The shape is
// picked from the keys present in the payload. Nothing in this package
// returns an error: a payload that cannot be understood becomes a zero
// ticket.
package normalizer

import (
	"bytes"
	"encoding/json"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/entity"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/enum"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/money"
	"github.com/shopspring/decimal"
)

// Shape identifies a known layout of a ticket response.
type Shape int

const (
	ShapeUnknown    Shape = iota
	ShapeItems            // {"items": [...], "total_due": ...}
	ShapeLines            // {"lines": [...], ...}
	ShapeOrderItems       // {"order_items": [...], ...}
	ShapeWrapped          // {"order": {...}}
	ShapeTotalsOnly       // {"total": ..., "paid": ...} without any line container
)

func (s Shape) String() string {
	switch s {
	case ShapeItems:
		return "items"
	case ShapeLines:
		return "lines"
	case ShapeOrderItems:
		return "order_items"
	case ShapeWrapped:
		return "wrapped"
	case ShapeTotalsOnly:
		return "totals_only"
	}
	return "unknown"
}

// resolved records which ticket fields came from the payload itself.
type resolved struct {
	total bool
	paid  bool
	items bool
}

type adapter func(obj map[string]any) (entity.Ticket, resolved)

var adapters = map[Shape]adapter{
	ShapeItems:      containerAdapter("items"),
	ShapeLines:      containerAdapter("lines"),
	ShapeOrderItems: containerAdapter("order_items"),
	ShapeWrapped:    wrappedAdapter,
	ShapeTotalsOnly: totalsOnlyAdapter,
}

// DetectShape classifies a decoded payload. Top-level line containers win over
// an order wrapper.
func DetectShape(payload any) Shape {
	obj, ok := asObject(payload)
	if !ok {
		return ShapeUnknown
	}
	for _, c := range []struct {
		key   string
		shape Shape
	}{
		{"items", ShapeItems},
		{"lines", ShapeLines},
		{"order_items", ShapeOrderItems},
	} {
		if _, ok := asList(obj[c.key]); ok {
			return c.shape
		}
	}
	if _, ok := asObject(obj["order"]); ok {
		return ShapeWrapped
	}
	if _, ok := lookup([]map[string]any{obj}, totalDueKeys); ok {
		return ShapeTotalsOnly
	}
	if _, ok := lookup([]map[string]any{obj}, paidKeys); ok {
		return ShapeTotalsOnly
	}
	return ShapeUnknown
}

// Normalize converts a decoded JSON value (or an entity.Ticket) into a ticket.
func Normalize(payload any) entity.Ticket {
	t, _ := normalize(payload)
	return t
}

// NormalizeWithFallback is Normalize, except that when the payload carries
// neither totals nor lines the caller's own totals are used.
func NormalizeWithFallback(payload any, fallback *entity.Totals) entity.Ticket {
	t, res := normalize(payload)
	if fallback == nil || res.total || res.items {
		return t
	}
	t.TotalDue = money.NonNegative(fallback.TotalDue)
	if !res.paid {
		t.PaidAmount = money.NonNegative(fallback.PaidAmount)
	}
	return t
}

// NormalizeJSON decodes a raw response body and normalizes it.
func NormalizeJSON(data []byte) entity.Ticket {
	return Normalize(decode(data))
}

// NormalizeJSONWithFallback decodes a raw response body and normalizes it with fallback totals.
func NormalizeJSONWithFallback(data []byte, fallback *entity.Totals) entity.Ticket {
	return NormalizeWithFallback(decode(data), fallback)
}

func decode(data []byte) any {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil
	}
	return payload
}

func normalize(payload any) (entity.Ticket, resolved) {
	switch p := payload.(type) {
	case entity.Ticket:
		return fromTicket(p), resolved{total: true, paid: true, items: true}
	case *entity.Ticket:
		if p == nil {
			return emptyTicket(), resolved{}
		}
		return fromTicket(*p), resolved{total: true, paid: true, items: true}
	case []byte:
		return normalize(decode(p))
	case json.RawMessage:
		return normalize(decode(p))
	}

	shape := DetectShape(payload)
	adapt, ok := adapters[shape]
	if !ok {
		return emptyTicket(), resolved{}
	}
	obj, _ := asObject(payload)
	return adapt(obj)
}

func emptyTicket() entity.Ticket {
	return entity.Ticket{Items: []entity.LineItem{}, TotalDue: decimal.Zero, PaidAmount: decimal.Zero}
}

func fromTicket(t entity.Ticket) entity.Ticket {
	items := make([]entity.LineItem, 0, len(t.Items))
	for _, item := range t.Items {
		if enum.NormalizeItemStatus(string(item.Status)).IsInactive() {
			continue
		}
		item.Status = enum.NormalizeItemStatus(string(item.Status))
		items = append(items, item)
	}
	return entity.Ticket{
		OrderID:    t.OrderID,
		Items:      items,
		TotalDue:   money.NonNegative(t.TotalDue),
		PaidAmount: money.NonNegative(t.PaidAmount),
	}
}

// containerAdapter handles flat payloads whose lines sit under key. Totals may
// also live under an "order" object next to the container.
func containerAdapter(key string) adapter {
	return func(obj map[string]any) (entity.Ticket, resolved) {
		scopes := []map[string]any{obj}
		if inner, ok := asObject(obj["order"]); ok {
			scopes = append(scopes, inner)
		}
		list, _ := asList(obj[key])
		return build(scopes, list, true)
	}
}

// wrappedAdapter handles {"order": {...}} by reading the inner object first
// and the wrapper second.
func wrappedAdapter(obj map[string]any) (entity.Ticket, resolved) {
	inner, _ := asObject(obj["order"])
	scopes := []map[string]any{inner, obj}
	for _, key := range []string{"items", "lines", "order_items"} {
		if list, ok := asList(inner[key]); ok {
			return build(scopes, list, true)
		}
	}
	return build(scopes, nil, false)
}

func totalsOnlyAdapter(obj map[string]any) (entity.Ticket, resolved) {
	return build([]map[string]any{obj}, nil, false)
}

func build(scopes []map[string]any, list []any, hasItems bool) (entity.Ticket, resolved) {
	t := emptyTicket()
	res := resolved{items: hasItems}

	if v, ok := lookup(scopes, orderIDKeys); ok {
		t.OrderID = text(v)
	}

	for _, raw := range list {
		if item, ok := lineItem(raw); ok {
			t.Items = append(t.Items, item)
		}
	}

	if v, ok := lookup(scopes, totalDueKeys); ok {
		t.TotalDue = money.NonNegative(money.Coerce(v))
		res.total = true
	} else {
		t.TotalDue = t.ItemsTotal()
	}

	if v, ok := lookup(scopes, paidKeys); ok {
		t.PaidAmount = money.NonNegative(money.Coerce(v))
		res.paid = true
	}

	return t, res
}

// lineItem maps one raw line. The second result is false for lines that are
// not objects or are void, cancelled or deleted.
func lineItem(raw any) (entity.LineItem, bool) {
	obj, ok := asObject(raw)
	if !ok {
		return entity.LineItem{}, false
	}

	item := []map[string]any{obj}
	withCatalog := append([]map[string]any{obj}, catalogEntries(obj)...)

	var status enum.ItemStatus
	if v, ok := lookup(item, statusKeys); ok {
		status = enum.NormalizeItemStatus(text(v))
	}
	if status.IsInactive() {
		return entity.LineItem{}, false
	}
	for _, flag := range inactiveFlags {
		if truthy(obj[flag]) {
			return entity.LineItem{}, false
		}
	}

	line := entity.LineItem{
		UnitPrice: decimal.Zero,
		Quantity:  1,
		Status:    status,
	}
	if v, ok := lookup(item, itemIDKeys); ok {
		line.ID = text(v)
	}
	if v, ok := lookup(withCatalog, itemNameKeys); ok {
		line.Name = text(v)
	}
	if v, ok := lookup(withCatalog, unitPriceKeys); ok {
		line.UnitPrice = money.Coerce(v)
	}
	if v, ok := lookup(item, quantityKeys); ok {
		qty := money.Coerce(v).IntPart()
		if qty < 0 {
			qty = 0
		}
		line.Quantity = int(qty)
	}
	return line, true
}
