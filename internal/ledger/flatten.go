package ledger

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Accounting defaults attached to every exported row. These mirror what the
// accounting system expects for GST-exempt consumer sales.
const (
	DefaultDiscountType    = "entity_level"
	DefaultExemptionReason = "ITEM EXEMPT FROM GST"
	DefaultSupplyType      = "Exempted"
	DefaultGSTTreatment    = "consumer"
	DefaultItemType        = "goods"
)

// wooDateLayout is the timestamp format the WooCommerce REST API uses for
// date_created.
const wooDateLayout = "2006-01-02T15:04:05"

// ItemMapping is the resolver output for one raw item name.
type ItemMapping struct {
	Canonical string
	TaxCode   string
	Unit      string
}

// ItemResolver maps a raw platform item name to its accounting metadata.
// Implementations return ok=false when no mapping exists.
type ItemResolver interface {
	Resolve(rawName string) (ItemMapping, bool)
}

// LedgerRow is one exported accounting record, corresponding to a single
// line item within an order.
type LedgerRow struct {
	InvoiceNumber        string  `json:"invoice_number"`
	PurchaseOrder        int64   `json:"purchase_order"`
	InvoiceDate          string  `json:"invoice_date"`
	InvoiceStatus        string  `json:"invoice_status"`
	CustomerName         string  `json:"customer_name"`
	PlaceOfSupply        string  `json:"place_of_supply"`
	CurrencyCode         string  `json:"currency_code"`
	ItemName             string  `json:"item_name"`
	HSNCode              string  `json:"hsn_sac"`
	ItemType             string  `json:"item_type"`
	Quantity             float64 `json:"quantity"`
	UsageUnit            string  `json:"usage_unit"`
	ItemPrice            float64 `json:"item_price"`
	IsInclusiveTax       bool    `json:"is_inclusive_tax"`
	ItemTaxPercent       string  `json:"item_tax_percent"`
	DiscountType         string  `json:"discount_type"`
	IsDiscountBeforeTax  bool    `json:"is_discount_before_tax"`
	EntityDiscountAmount float64 `json:"entity_discount_amount"`
	ShippingCharge       float64 `json:"shipping_charge"`
	ExemptionReason      string  `json:"exemption_reason"`
	SupplyType           string  `json:"supply_type"`
	GSTTreatment         string  `json:"gst_treatment"`
}

// FlattenOptions parameterizes a flattening run.
type FlattenOptions struct {
	// InvoicePrefix is prepended to the zero-padded sequence number.
	InvoicePrefix string
	// SequenceStart is the first sequence number assigned.
	SequenceStart int
	// Status optionally restricts flattening to one status bucket; orders
	// outside it consume no sequence slot. Empty keeps every order.
	Status string
}

// Flatten expands orders into one LedgerRow per line item. Orders are
// processed in ascending ID order so invoice numbers are deterministic
// regardless of the API's return order. Each order consumes exactly one
// sequence slot, including orders with no line items (which emit no rows).
// The updated sequence counter is returned so a caller chaining runs can
// continue numbering.
func Flatten(orders []Order, res ItemResolver, opts FlattenOptions) ([]LedgerRow, int) {
	selected := make([]Order, 0, len(orders))
	for _, o := range orders {
		if statusMatches(o.Status, opts.Status) {
			selected = append(selected, o)
		}
	}
	sort.Slice(selected, func(i, j int) bool { return selected[i].ID < selected[j].ID })

	seq := opts.SequenceStart
	rows := make([]LedgerRow, 0, len(selected))
	for _, o := range selected {
		invoiceNumber := fmt.Sprintf("%s%05d", opts.InvoicePrefix, seq)
		seq++

		invoiceDate := formatInvoiceDate(o.DateCreated)
		status := capitalizeStatus(o.Status)
		customer := o.Billing.FullName()

		for _, item := range o.LineItems {
			name := item.Name
			taxCode := item.MetaString("hsn")
			unit := item.MetaString("usage unit")

			// The mapping key is the raw platform name; resolver values
			// override only when non-empty.
			if res != nil {
				if m, ok := res.Resolve(item.Name); ok {
					if m.Canonical != "" {
						name = m.Canonical
					}
					if m.TaxCode != "" {
						taxCode = m.TaxCode
					}
					if m.Unit != "" {
						unit = m.Unit
					}
				}
			}

			itemType := item.Type
			if itemType == "" {
				itemType = DefaultItemType
			}
			taxPercent := item.TaxClass
			if taxPercent == "" {
				taxPercent = "0"
			}

			rows = append(rows, LedgerRow{
				InvoiceNumber:        invoiceNumber,
				PurchaseOrder:        o.ID,
				InvoiceDate:          invoiceDate,
				InvoiceStatus:        status,
				CustomerName:         customer,
				PlaceOfSupply:        o.Billing.State,
				CurrencyCode:         o.Currency,
				ItemName:             name,
				HSNCode:              taxCode,
				ItemType:             itemType,
				Quantity:             item.Quantity.Float(),
				UsageUnit:            unit,
				ItemPrice:            item.Price.Float(),
				IsInclusiveTax:       false,
				ItemTaxPercent:       taxPercent,
				DiscountType:         DefaultDiscountType,
				IsDiscountBeforeTax:  true,
				EntityDiscountAmount: o.DiscountTotal.Float(),
				ShippingCharge:       o.ShippingTotal.Float(),
				ExemptionReason:      DefaultExemptionReason,
				SupplyType:           DefaultSupplyType,
				GSTTreatment:         DefaultGSTTreatment,
			})
		}
	}
	return rows, seq
}

// InvoiceStub identifies one invoiced order for the fixed-layout document
// export.
type InvoiceStub struct {
	InvoiceNumber string
	OrderID       int64
	CustomerName  string
}

// InvoiceIndex reduces ledger rows to one stub per invoice number,
// preserving row order.
func InvoiceIndex(rows []LedgerRow) []InvoiceStub {
	stubs := make([]InvoiceStub, 0)
	seen := make(map[string]bool)
	for _, r := range rows {
		if seen[r.InvoiceNumber] {
			continue
		}
		seen[r.InvoiceNumber] = true
		stubs = append(stubs, InvoiceStub{
			InvoiceNumber: r.InvoiceNumber,
			OrderID:       r.PurchaseOrder,
			CustomerName:  r.CustomerName,
		})
	}
	return stubs
}

func formatInvoiceDate(raw string) string {
	t, err := time.Parse(wooDateLayout, raw)
	if err != nil {
		return raw
	}
	return t.Format("2006-01-02 15:04:05")
}

func capitalizeStatus(status string) string {
	if status == "" {
		return ""
	}
	return strings.ToUpper(status[:1]) + status[1:]
}
