package domain

import "time"

// Client represents a customer of the business. Balance is the signed
// outstanding amount in minor currency units: positive means the client
// owes the business, negative means the business owes the client.
//
// Balance is only ever written by the ledger in response to work-transaction
// changes, manual adjustments, or reconciliation. Clients are never deleted.
type Client struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	PAN       string
	Aadhar    string
	WorkTypes []string
	Balance   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasWorkType reports whether the client is associated with the work type.
func (c *Client) HasWorkType(workType string) bool {
	for _, wt := range c.WorkTypes {
		if wt == workType {
			return true
		}
	}

	return false
}
