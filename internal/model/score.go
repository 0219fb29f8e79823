package model

// ManagerScore is one manager's aggregated performance for a period,
// plus the weighted composite used for ranking.
type ManagerScore struct {
	Manager     string
	Revenue     float64 // summed bar + kitchen revenue
	AvgTicket   float64 // mean ticket size
	Depth       float64 // mean basket depth (raw / 10)
	DiscountPct float64 // mean discount, parts of 100
	Score       float64 // composite in [0,1], may go negative with a penalty
}
