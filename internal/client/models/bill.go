// Package models defines the client-side data model of the expense-report
// tool: bills as returned by the backend, the drafts sent back to it, the
// session of the connected user and the receipt attachment payloads.
package models

// Status is the processing state of a bill.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRefused  Status = "refused"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRefused:
		return true
	}
	return false
}

// Bill is one expense claim as owned by the backend. Date is an ISO
// calendar date ("2006-01-02"); the client never rewrites it.
type Bill struct {
	ID           string  `json:"id"`
	Type         string  `json:"type"`
	Name         string  `json:"name"`
	Date         string  `json:"date"`
	Amount       float64 `json:"amount"`
	VAT          float64 `json:"vat"`
	Pct          float64 `json:"pct"`
	Commentary   string  `json:"commentary"`
	FileURL      string  `json:"fileUrl"`
	FileName     string  `json:"fileName"`
	Status       Status  `json:"status"`
	Email        string  `json:"email,omitempty"`
	CommentAdmin string  `json:"commentAdmin,omitempty"`
}

// DisplayBill is a Bill prepared for the bills list. The embedded Bill keeps
// the raw date and status; DisplayDate and StatusLabel are what gets shown.
type DisplayBill struct {
	Bill
	DisplayDate string
	StatusLabel string
}
