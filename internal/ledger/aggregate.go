package ledger

import (
	"fmt"
	"math"
	"sort"
)

// ReconcileTolerance is the allowed absolute drift between an order's
// declared total and the total reconstructed from its parts, in currency
// units.
const ReconcileTolerance = 0.01

// Summary holds the aggregate counts and totals for one fetched order set.
// It is recomputed fresh on every run and never persisted.
type Summary struct {
	TargetStatus  string         `json:"target_status"`
	OrderCount    int            `json:"order_count"`
	LineItemCount int            `json:"line_item_count"`
	StatusCounts  map[string]int `json:"status_counts"`
	NetRevenue    float64        `json:"net_revenue"`
	RefundTotal   float64        `json:"refund_total"`
}

// Summarize computes the status histogram over all orders plus revenue
// totals over the target status bucket. Net revenue is order total minus
// refunds, summed per order. The input is never mutated.
func Summarize(orders []Order, targetStatus string) Summary {
	s := Summary{
		TargetStatus: NormalizeStatus(targetStatus),
		StatusCounts: make(map[string]int),
	}
	for _, o := range orders {
		s.StatusCounts[NormalizeStatus(o.Status)]++
		if !statusMatches(o.Status, targetStatus) {
			continue
		}
		s.OrderCount++
		s.LineItemCount += len(o.LineItems)
		refunds := o.RefundTotal()
		s.RefundTotal += refunds
		s.NetRevenue += o.Total.Float() - refunds
	}
	return s
}

// Metrics returns the summary as ordered name/value pairs for the Summary
// sheet. Status buckets are sorted for a stable layout.
func (s Summary) Metrics() [][2]string {
	metrics := [][2]string{
		{"Target Status", s.TargetStatus},
		{"Order Count", fmt.Sprintf("%d", s.OrderCount)},
		{"Line Item Count", fmt.Sprintf("%d", s.LineItemCount)},
		{"Net Revenue", fmt.Sprintf("%.2f", s.NetRevenue)},
		{"Refund Total", fmt.Sprintf("%.2f", s.RefundTotal)},
	}
	statuses := make([]string, 0, len(s.StatusCounts))
	for status := range s.StatusCounts {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)
	for _, status := range statuses {
		metrics = append(metrics, [2]string{
			"Orders: " + status,
			fmt.Sprintf("%d", s.StatusCounts[status]),
		})
	}
	return metrics
}

// Reconciliation is the cross-check result for one order.
type Reconciliation struct {
	OrderID       int64   `json:"order_id"`
	Declared      float64 `json:"declared"`
	Reconstructed float64 `json:"reconstructed"`
	Delta         float64 `json:"delta"`
	Flagged       bool    `json:"flagged"`
}

// Reconcile rebuilds each order's total from line items, shipping and fees
// minus discounts and refunds, and flags orders whose reconstruction drifts
// from the declared net total by more than the tolerance. A drift of
// exactly the tolerance is not flagged.
func Reconcile(orders []Order, tolerance float64) []Reconciliation {
	results := make([]Reconciliation, 0, len(orders))
	for _, o := range orders {
		var items float64
		for _, li := range o.LineItems {
			items += li.LineTotal()
		}
		refunds := o.RefundTotal()
		reconstructed := items + o.ShippingTotal.Float() + o.FeeTotal() -
			o.DiscountTotal.Float() - refunds
		declared := o.Total.Float() - refunds
		delta := reconstructed - declared

		results = append(results, Reconciliation{
			OrderID:       o.ID,
			Declared:      declared,
			Reconstructed: reconstructed,
			Delta:         delta,
			// float accumulation drifts below the cent level, so the
			// boundary comparison needs an epsilon
			Flagged: math.Abs(delta)-tolerance > 1e-9,
		})
	}
	return results
}
