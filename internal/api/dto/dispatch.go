// Package dto defines the request and response shapes of the HTTP API.
package dto

// Dataset is a raw table as uploaded by the client: a header plus string
// rows, already extracted from whatever file format the caller handles.
type Dataset struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// OrdersMapping assigns uploaded column names to order-table roles. Priority
// is optional.
type OrdersMapping struct {
	Product  string `json:"product"`
	Client   string `json:"client"`
	Quantity string `json:"quantity"`
	Priority string `json:"priority,omitempty"`
}

// StockMapping assigns uploaded column names to stock-table roles.
type StockMapping struct {
	Product  string `json:"product"`
	Quantity string `json:"quantity"`
}

// CreateSessionRequest runs one allocation pass. The allocation options
// default to the server configuration when omitted.
type CreateSessionRequest struct {
	Orders        Dataset       `json:"orders"`
	Stock         Dataset       `json:"stock"`
	OrdersMapping OrdersMapping `json:"orders_mapping"`
	StockMapping  StockMapping  `json:"stock_mapping"`

	Strategy        string `json:"strategy,omitempty"`
	VIPBonusUnits   *int   `json:"vip_bonus_units,omitempty"`
	DefaultPriority string `json:"default_priority,omitempty"`
}

// OverrideRequest replaces one line's to-give quantity.
type OverrideRequest struct {
	ToGive int `json:"to_give"`
}

// RecordResponse is one annotated order line of the dispatch table.
type RecordResponse struct {
	LineID       string  `json:"line_id"`
	Product      string  `json:"product"`
	Client       string  `json:"client"`
	Requested    int     `json:"requested"`
	Priority     string  `json:"priority"`
	Allocated    int     `json:"allocated"`
	ToGive       int     `json:"to_give"`
	Satisfaction float64 `json:"satisfaction_pct"`
}

// SessionResponse is the dispatch table for one session.
type SessionResponse struct {
	SessionID string           `json:"session_id"`
	CreatedAt string           `json:"created_at"`
	Records   []RecordResponse `json:"records"`
}

// ClientSatisfactionRow is one client's mean satisfaction percentage.
type ClientSatisfactionRow struct {
	Client       string  `json:"client"`
	Satisfaction float64 `json:"satisfaction_pct"`
}

// AuditRowResponse is one product's demand-versus-stock audit row.
// Unallocated can be negative after overrides.
type AuditRowResponse struct {
	Product     string `json:"product"`
	Requested   int    `json:"requested"`
	Given       int    `json:"given"`
	Available   int    `json:"available"`
	Unallocated int    `json:"unallocated"`
	UnmetDemand int    `json:"unmet_demand"`
}

// SummaryResponse bundles the derived views for one session.
type SummaryResponse struct {
	ClientSatisfaction []ClientSatisfactionRow `json:"client_satisfaction"`
	Audit              []AuditRowResponse      `json:"audit"`
	TotalGiven         int                     `json:"total_given"`
	TotalRequested     int                     `json:"total_requested"`
}

// ErrorResponse carries a single error message.
type ErrorResponse struct {
	Error string `json:"error"`
}
