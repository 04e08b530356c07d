package models

import "eventflow/pkg/monoid"

// Summary aggregates a batch of decoded events
type Summary struct {
	Records     int                `json:"records"`
	ByType      map[EventType]int  `json:"byType"`
	OrderTotals map[string]float64 `json:"orderTotals"`
	StockDelta  map[string]int     `json:"stockDelta"`
}

// SummaryOf describes a single decoded event
func SummaryOf(d Decoded) Summary {
	s := Summary{
		Records: 1,
		ByType:  map[EventType]int{d.Type: 1},
	}

	switch e := d.Event.(type) {
	case OrderPlaced:
		s.OrderTotals = map[string]float64{e.Currency: e.TotalAmount}
	case InventoryAdjusted:
		s.StockDelta = map[string]int{e.SKU: e.Delta()}
	}

	return s
}

// SummaryMonoid merges summaries without mutating either side
var SummaryMonoid monoid.Monoid[Summary] = monoid.New(Summary{}, mergeSummary)

var (
	recordCount = monoid.Sum[int]()
	typeCounts  = monoid.MapSum[EventType, int]()
	totals      = monoid.MapSum[string, float64]()
	stockDeltas = monoid.MapSum[string, int]()
)

func mergeSummary(x, y Summary) Summary {
	return Summary{
		Records:     monoid.Concat(recordCount, x.Records, y.Records),
		ByType:      monoid.Concat(typeCounts, x.ByType, y.ByType),
		OrderTotals: monoid.Concat(totals, x.OrderTotals, y.OrderTotals),
		StockDelta:  monoid.Concat(stockDeltas, x.StockDelta, y.StockDelta),
	}
}
