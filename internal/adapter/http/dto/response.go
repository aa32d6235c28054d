package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/khatahq/khata/internal/domain"
	"github.com/khatahq/khata/internal/usecase"
)

// ClientResponse represents a client in API responses. Balance is the
// amount the client currently owes, in minor units.
type ClientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	PAN       string    `json:"pan,omitempty"`
	Aadhar    string    `json:"aadhar,omitempty"`
	WorkTypes []string  `json:"work_types,omitempty"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ClientFromDomain converts a domain client to a response.
func ClientFromDomain(c *domain.Client) *ClientResponse {
	return &ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		PAN:       c.PAN,
		Aadhar:    c.Aadhar,
		WorkTypes: c.WorkTypes,
		Balance:   c.Balance,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ClientsFromDomain converts domain clients to responses.
func ClientsFromDomain(clients []*domain.Client) []*ClientResponse {
	result := make([]*ClientResponse, len(clients))
	for i, c := range clients {
		result[i] = ClientFromDomain(c)
	}
	return result
}

// ListClientsResponse represents a page of clients.
type ListClientsResponse struct {
	Clients []*ClientResponse `json:"clients"`
	Total   int64             `json:"total"`
}

// WorkResponse represents a work transaction in API responses.
type WorkResponse struct {
	ID            string          `json:"id"`
	ClientID      string          `json:"client_id"`
	Date          domain.WorkDate `json:"date"`
	TotalPrice    int64           `json:"total_price"`
	PaidAmount    int64           `json:"paid_amount"`
	Remainder     int64           `json:"remainder"`
	WorkTypes     []string        `json:"work_types"`
	Description   string          `json:"description,omitempty"`
	PaymentStatus string          `json:"payment_status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// WorkFromDomain converts a domain work transaction to a response.
func WorkFromDomain(w *domain.WorkTransaction) *WorkResponse {
	return &WorkResponse{
		ID:            w.ID,
		ClientID:      w.ClientID,
		Date:          w.Date,
		TotalPrice:    w.TotalPrice,
		PaidAmount:    w.PaidAmount,
		Remainder:     w.Remainder(),
		WorkTypes:     w.WorkTypes,
		Description:   w.Description,
		PaymentStatus: string(w.PaymentStatus),
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}
}

// WorksFromDomain converts domain work transactions to responses.
func WorksFromDomain(works []*domain.WorkTransaction) []*WorkResponse {
	result := make([]*WorkResponse, len(works))
	for i, w := range works {
		result[i] = WorkFromDomain(w)
	}
	return result
}

// ListWorksResponse represents a page of work transactions.
type ListWorksResponse struct {
	Works []*WorkResponse `json:"works"`
	Total int64           `json:"total"`
}

// WorkStatsResponse represents aggregate work statistics.
type WorkStatsResponse struct {
	Count        int64 `json:"count"`
	TotalIncome  int64 `json:"total_income"`
	TotalDue     int64 `json:"total_due"`
	TotalValue   int64 `json:"total_value"`
	PaidCount    int64 `json:"paid_count"`
	PartialCount int64 `json:"partial_count"`
	UnpaidCount  int64 `json:"unpaid_count"`
}

// WorkStatsFromDomain converts domain work stats to a response.
func WorkStatsFromDomain(s *domain.WorkStats) *WorkStatsResponse {
	return &WorkStatsResponse{
		Count:        s.Count,
		TotalIncome:  s.TotalIncome,
		TotalDue:     s.TotalDue,
		TotalValue:   s.TotalValue,
		PaidCount:    s.PaidCount,
		PartialCount: s.PartialCount,
		UnpaidCount:  s.UnpaidCount,
	}
}

// HistoryEntryResponse represents one balance-change history entry. Work
// is the current snapshot of the causing work transaction and is absent
// when that work no longer exists.
type HistoryEntryResponse struct {
	ID              string        `json:"id"`
	ClientID        string        `json:"client_id"`
	WorkID          string        `json:"work_id,omitempty"`
	PreviousBalance int64         `json:"previous_balance"`
	NewBalance      int64         `json:"new_balance"`
	BalanceChange   int64         `json:"balance_change"`
	ChangeType      string        `json:"change_type"`
	Description     string        `json:"description,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	Work            *WorkResponse `json:"work,omitempty"`
}

// HistoryEntryFromDomain converts a domain history entry to a response.
func HistoryEntryFromDomain(e *domain.BalanceHistoryEntry) *HistoryEntryResponse {
	return &HistoryEntryResponse{
		ID:              e.ID,
		ClientID:        e.ClientID,
		WorkID:          e.WorkID,
		PreviousBalance: e.PreviousBalance,
		NewBalance:      e.NewBalance,
		BalanceChange:   e.BalanceChange,
		ChangeType:      string(e.ChangeType),
		Description:     e.Description,
		CreatedAt:       e.CreatedAt,
	}
}

// HistoryEntryFromView converts an enriched history view to a response.
func HistoryEntryFromView(v *usecase.HistoryEntryView) *HistoryEntryResponse {
	resp := HistoryEntryFromDomain(v.Entry)
	if v.Work != nil {
		resp.Work = WorkFromDomain(v.Work)
	}
	return resp
}

// BalanceHistoryResponse represents a page of history entries, newest
// first.
type BalanceHistoryResponse struct {
	Entries []*HistoryEntryResponse `json:"entries"`
	Total   int64                   `json:"total"`
	HasMore bool                    `json:"has_more"`
}

// BalanceHistoryFromPage converts a use case history page to a response.
func BalanceHistoryFromPage(p *usecase.BalanceHistoryPage) *BalanceHistoryResponse {
	entries := make([]*HistoryEntryResponse, len(p.Entries))
	for i, v := range p.Entries {
		entries[i] = HistoryEntryFromView(v)
	}

	return &BalanceHistoryResponse{
		Entries: entries,
		Total:   p.Total,
		HasMore: p.HasMore,
	}
}

// TimelinePointResponse is one step of the chronological balance replay.
type TimelinePointResponse struct {
	Entry          *HistoryEntryResponse `json:"entry"`
	RunningBalance int64                 `json:"running_balance"`
}

// BalanceTimelineResponse represents the oldest-first balance replay.
type BalanceTimelineResponse struct {
	Points         []*TimelinePointResponse `json:"points"`
	CurrentBalance int64                    `json:"current_balance"`
	TotalEntries   int64                    `json:"total_entries"`
}

// BalanceTimelineFromDomain converts a use case timeline to a response.
func BalanceTimelineFromDomain(t *usecase.BalanceTimeline) *BalanceTimelineResponse {
	points := make([]*TimelinePointResponse, len(t.Points))
	for i, p := range t.Points {
		points[i] = &TimelinePointResponse{
			Entry:          HistoryEntryFromDomain(p.Entry),
			RunningBalance: p.RunningBalance,
		}
	}

	return &BalanceTimelineResponse{
		Points:         points,
		CurrentBalance: t.CurrentBalance,
		TotalEntries:   t.TotalEntries,
	}
}

// ChangeTypeSummaryResponse aggregates entries of one change type.
type ChangeTypeSummaryResponse struct {
	Count int64 `json:"count"`
	Net   int64 `json:"net"`
}

// BalanceChangeSummaryResponse partitions a window of balance changes.
type BalanceChangeSummaryResponse struct {
	TotalIncrease int64                                 `json:"total_increase"`
	TotalDecrease int64                                 `json:"total_decrease"`
	NetChange     int64                                 `json:"net_change"`
	ByType        map[string]*ChangeTypeSummaryResponse `json:"by_type"`
}

// BalanceChangeSummaryFromDomain converts a use case summary to a
// response.
func BalanceChangeSummaryFromDomain(s *usecase.BalanceChangeSummary) *BalanceChangeSummaryResponse {
	byType := make(map[string]*ChangeTypeSummaryResponse, len(s.ByType))
	for changeType, summary := range s.ByType {
		byType[string(changeType)] = &ChangeTypeSummaryResponse{
			Count: summary.Count,
			Net:   summary.Net,
		}
	}

	return &BalanceChangeSummaryResponse{
		TotalIncrease: s.TotalIncrease,
		TotalDecrease: s.TotalDecrease,
		NetChange:     s.NetChange,
		ByType:        byType,
	}
}

// ReconcileResponse represents the outcome of a balance reconciliation.
type ReconcileResponse struct {
	ClientID        string    `json:"client_id"`
	RecordedBalance int64     `json:"recorded_balance"`
	ComputedBalance int64     `json:"computed_balance"`
	Difference      int64     `json:"difference"`
	Corrected       bool      `json:"corrected"`
	CheckedAt       time.Time `json:"checked_at"`
}

// ReconcileFromDomain converts a use case reconcile result to a response.
func ReconcileFromDomain(r *usecase.ReconcileResult) *ReconcileResponse {
	return &ReconcileResponse{
		ClientID:        r.ClientID,
		RecordedBalance: r.RecordedBalance,
		ComputedBalance: r.ComputedBalance,
		Difference:      r.Difference,
		Corrected:       r.Corrected,
		CheckedAt:       r.CheckedAt,
	}
}

// ReconcileAllResponse represents a reconciliation sweep over all
// clients.
type ReconcileAllResponse struct {
	Results   []*ReconcileResponse `json:"results"`
	Corrected int64                `json:"corrected"`
}

// CleanupHistoryResponse reports what retention pruning removed.
type CleanupHistoryResponse struct {
	ClientsProcessed int64 `json:"clients_processed"`
	EntriesDeleted   int64 `json:"entries_deleted"`
}

// IncomeTrendPointResponse is one calendar month of the income trend.
type IncomeTrendPointResponse struct {
	Month         string          `json:"month"`
	Income        int64           `json:"income"`
	Billed        int64           `json:"billed"`
	WorkCount     int64           `json:"work_count"`
	AverageTicket decimal.Decimal `json:"average_ticket"`
}

// IncomeTrendFromDomain converts trend points to responses.
func IncomeTrendFromDomain(points []*usecase.IncomeTrendPoint) []*IncomeTrendPointResponse {
	result := make([]*IncomeTrendPointResponse, len(points))
	for i, p := range points {
		result[i] = &IncomeTrendPointResponse{
			Month:         p.Month.Format("2006-01"),
			Income:        p.Income,
			Billed:        p.Billed,
			WorkCount:     p.WorkCount,
			AverageTicket: p.AverageTicket,
		}
	}
	return result
}

// WorkTypePerformanceResponse aggregates works of one work type.
type WorkTypePerformanceResponse struct {
	WorkType     string          `json:"work_type"`
	Count        int64           `json:"count"`
	Billed       int64           `json:"billed"`
	Collected    int64           `json:"collected"`
	RevenueShare decimal.Decimal `json:"revenue_share"`
}

// WorkTypePerformanceFromDomain converts per-type stats to responses.
func WorkTypePerformanceFromDomain(rows []*usecase.WorkTypePerformance) []*WorkTypePerformanceResponse {
	result := make([]*WorkTypePerformanceResponse, len(rows))
	for i, row := range rows {
		result[i] = &WorkTypePerformanceResponse{
			WorkType:     row.WorkType,
			Count:        row.Count,
			Billed:       row.Billed,
			Collected:    row.Collected,
			RevenueShare: row.RevenueShare,
		}
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
