package ledger

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Amount is a money-like value as the WooCommerce API reports it: sometimes
// a JSON number, usually a quoted string, occasionally empty or null.
// Unparsable values decode to zero instead of failing the whole order.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*a = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*a = 0
		return nil
	}
	*a = Amount(f)
	return nil
}

// Float returns the amount as a plain float64.
func (a Amount) Float() float64 { return float64(a) }

// MetaValue tolerates the mixed types WooCommerce stores under item
// metadata values. Strings pass through, numbers are formatted, anything
// structured decodes to the empty string.
type MetaValue string

func (v *MetaValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = MetaValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*v = MetaValue(n.String())
		return nil
	}
	*v = ""
	return nil
}

// Meta is a single key-value entry from a line item's meta_data array.
type Meta struct {
	Key   string    `json:"key"`
	Value MetaValue `json:"value"`
}

// LineItem is one purchased item within an order.
type LineItem struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Quantity Amount `json:"quantity"`
	Price    Amount `json:"price"`
	Total    Amount `json:"total"`
	TaxClass string `json:"tax_class"`
	Meta     []Meta `json:"meta_data"`
}

// MetaString returns the value of the first metadata entry whose key
// matches case-insensitively, or "" when absent.
func (li LineItem) MetaString(key string) string {
	for _, m := range li.Meta {
		if strings.EqualFold(m.Key, key) {
			return string(m.Value)
		}
	}
	return ""
}

// LineTotal is the item's declared total, reconstructed from price times
// quantity when the platform omitted it.
func (li LineItem) LineTotal() float64 {
	if li.Total != 0 {
		return li.Total.Float()
	}
	return li.Price.Float() * li.Quantity.Float()
}

// refundAmountKeys lists the field names under which WooCommerce versions
// have reported a refund amount, in lookup order.
var refundAmountKeys = []string{"amount", "total", "refund"}

// Refund is a refund attached to an order. Decoding checks each known
// amount key in turn and keeps the first one present; refunds reported as
// negative totals are normalized to their magnitude.
type Refund struct {
	Amount float64
}

func (r *Refund) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, key := range refundAmountKeys {
		v, ok := raw[key]
		if !ok {
			continue
		}
		var a Amount
		_ = a.UnmarshalJSON(v)
		r.Amount = math.Abs(a.Float())
		return nil
	}
	r.Amount = 0
	return nil
}

// FeeLine is an order-level fee.
type FeeLine struct {
	Total Amount `json:"total"`
}

// Billing carries the customer fields the export needs.
type Billing struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	State     string `json:"state"`
}

// FullName joins first and last name, tolerating either being empty.
func (b Billing) FullName() string {
	return strings.TrimSpace(b.FirstName + " " + b.LastName)
}

// Order is one WooCommerce order as fetched from the REST API. It is
// read-only to this system.
type Order struct {
	ID            int64      `json:"id"`
	Status        string     `json:"status"`
	DateCreated   string     `json:"date_created"`
	Currency      string     `json:"currency"`
	Billing       Billing    `json:"billing"`
	ShippingTotal Amount     `json:"shipping_total"`
	DiscountTotal Amount     `json:"discount_total"`
	Total         Amount     `json:"total"`
	Refunds       []Refund   `json:"refunds"`
	LineItems     []LineItem `json:"line_items"`
	FeeLines      []FeeLine  `json:"fee_lines"`
}

// RefundTotal sums the order's refund amounts.
func (o Order) RefundTotal() float64 {
	var total float64
	for _, r := range o.Refunds {
		total += r.Amount
	}
	return total
}

// FeeTotal sums the order's fee lines.
func (o Order) FeeTotal() float64 {
	var total float64
	for _, f := range o.FeeLines {
		total += f.Total.Float()
	}
	return total
}

// NormalizeStatus folds a status name to its canonical bucket, grouping
// synonyms such as "on-hold", "on_hold" and "On Hold".
func NormalizeStatus(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ReplaceAll(s, " ", "-")
	return s
}

// statusMatches reports whether an order status belongs to the given
// bucket. An empty filter matches everything.
func statusMatches(orderStatus, filter string) bool {
	if filter == "" {
		return true
	}
	return NormalizeStatus(orderStatus) == NormalizeStatus(filter)
}
