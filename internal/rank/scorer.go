// Package rank scores and orders managers by a weighted composite of their
// period performance.
package rank

import (
	"math"
	"sort"

	"github.com/resto-ops/reportbot/internal/model"
)

// Weights is the scoring policy: each field multiplies the manager's metric
// normalized by the best value across managers. Discount is a penalty
// weight: it subtracts, so scores may go negative when it is non-zero.
type Weights struct {
	Ticket   float64
	Revenue  float64
	Depth    float64
	Discount float64
}

// DefaultWeights is the standard policy.
func DefaultWeights() Weights {
	return Weights{Ticket: 0.5, Revenue: 0.3, Depth: 0.2}
}

// DiscountAwareWeights additionally penalizes heavy discounting.
func DiscountAwareWeights() Weights {
	return Weights{Ticket: 0.5, Revenue: 0.3, Depth: 0.2, Discount: 0.1}
}

// Rank groups the given rows by manager, scores each group and returns the
// scores ordered best-first. Rows without a manager are skipped, as are rows
// whose discount value is present but outside [0,100]; those are data-entry
// noise, not real discounts. An empty result is a valid "no data" outcome.
//
// Ties keep the order in which managers first appear in the input.
func Rank(records []model.Record, w Weights) []model.ManagerScore {
	type group struct {
		revenue  float64
		ticket   meanAcc
		depth    meanAcc
		discount meanAcc
	}

	groups := make(map[string]*group)
	var order []string

	for _, rec := range records {
		if rec.Manager == "" {
			continue
		}
		if d := rec.DiscountPct; !math.IsNaN(d) && (d < 0 || d > 100) {
			continue
		}

		g, ok := groups[rec.Manager]
		if !ok {
			g = &group{}
			groups[rec.Manager] = g
			order = append(order, rec.Manager)
		}
		g.revenue += rec.Revenue()
		g.ticket.add(rec.AvgTicket)
		g.depth.add(rec.Depth)
		g.discount.add(rec.DiscountPct)
	}

	if len(order) == 0 {
		return nil
	}

	scores := make([]model.ManagerScore, 0, len(order))
	for _, name := range order {
		g := groups[name]
		scores = append(scores, model.ManagerScore{
			Manager:     name,
			Revenue:     g.revenue,
			AvgTicket:   zeroNaN(g.ticket.value()),
			Depth:       zeroNaN(g.depth.value()) / 10,
			DiscountPct: zeroNaN(g.discount.value()),
		})
	}

	var maxTicket, maxRevenue, maxDepth, maxDiscount float64
	for _, s := range scores {
		maxTicket = math.Max(maxTicket, s.AvgTicket)
		maxRevenue = math.Max(maxRevenue, s.Revenue)
		maxDepth = math.Max(maxDepth, s.Depth)
		maxDiscount = math.Max(maxDiscount, s.DiscountPct)
	}

	for i := range scores {
		s := &scores[i]
		s.Score = w.Ticket*ratio(s.AvgTicket, maxTicket) +
			w.Revenue*ratio(s.Revenue, maxRevenue) +
			w.Depth*ratio(s.Depth, maxDepth) -
			w.Discount*ratio(s.DiscountPct, maxDiscount)
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})

	return scores
}

// ratio guards the zero-maximum case: no best value means no contribution.
func ratio(v, max float64) float64 {
	if max == 0 {
		return 0
	}
	return v / max
}

type meanAcc struct {
	sum float64
	n   int
}

func (m *meanAcc) add(v float64) {
	if math.IsNaN(v) {
		return
	}
	m.sum += v
	m.n++
}

func (m *meanAcc) value() float64 {
	if m.n == 0 {
		return math.NaN()
	}
	return m.sum / float64(m.n)
}

func zeroNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
