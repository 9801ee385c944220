package normalizer

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Alternate key names seen in order service responses, highest priority first.
var (
	orderIDKeys   = []string{"order_id", "orderId", "id"}
	totalDueKeys  = []string{"total_due", "totalDue", "amount_due", "amountDue", "total", "total_amount", "totalAmount", "grand_total"}
	paidKeys      = []string{"paid_amount", "paidAmount", "amount_paid", "amountPaid", "paid", "total_paid"}
	itemIDKeys    = []string{"id", "item_id", "itemId", "line_id", "order_item_id", "uuid"}
	itemNameKeys  = []string{"name", "label", "title", "item_name", "product_name", "menu_item_name", "dish_name"}
	unitPriceKeys = []string{"unit_price", "unitPrice", "price", "unit_amount"}
	quantityKeys  = []string{"quantity", "qty", "count"}
	statusKeys    = []string{"status", "state", "line_status"}
	inactiveFlags = []string{"is_void", "is_voided", "voided", "void", "is_deleted", "deleted", "is_cancelled", "cancelled"}

	// nested objects some shapes use to carry the item's catalog entry
	catalogKeys = []string{"menu_item", "product", "dish", "menu"}
)

// lookup returns the first non-null value found, trying each object in order
// and, within an object, each key in priority order.
func lookup(objs []map[string]any, keys []string) (any, bool) {
	for _, obj := range objs {
		if obj == nil {
			continue
		}
		for _, key := range keys {
			if v, ok := obj[key]; ok && v != nil {
				return v, true
			}
		}
	}
	return nil, false
}

func asObject(v any) (map[string]any, bool) {
	obj, ok := v.(map[string]any)
	return obj, ok && obj != nil
}

func asList(v any) ([]any, bool) {
	list, ok := v.([]any)
	return list, ok
}

// text renders scalar identifiers and labels; composite values yield "".
func text(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// truthy interprets loosely typed boolean flags.
func truthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "1", "yes", "y":
			return true
		}
	case json.Number:
		f, err := val.Float64()
		return err == nil && f != 0
	case float64:
		return val != 0
	case int:
		return val != 0
	}
	return false
}

// catalogEntries returns the nested catalog objects of an item, if any.
func catalogEntries(item map[string]any) []map[string]any {
	var out []map[string]any
	for _, key := range catalogKeys {
		if obj, ok := asObject(item[key]); ok {
			out = append(out, obj)
		}
	}
	return out
}
