package models

import "time"

type MilkType string

const (
	Morning MilkType = "morning"
	Evening MilkType = "evening"
)

func (t MilkType) Valid() bool {
	return t == Morning || t == Evening
}

// MilkEntry is one delivery to one customer. Amount is liters*rate and is
// always split into CashReceived and CreditDue.
type MilkEntry struct {
	ID           string    `json:"id" bson:"_id" db:"id"`
	UserID       string    `json:"userId" bson:"user_id" db:"user_id"`
	CustomerID   *string   `json:"customerId,omitempty" bson:"customer_id,omitempty" db:"customer_id"`
	CustomerName string    `json:"customerName" bson:"customer_name" db:"customer_name"`
	Date         Date      `json:"date" bson:"date" db:"entry_date"`
	MilkType     MilkType  `json:"milkType" bson:"milk_type" db:"milk_type"`
	Liters       float64   `json:"liters" bson:"liters" db:"liters"`
	Rate         float64   `json:"rate" bson:"rate" db:"rate"`
	Amount       float64   `json:"amount" bson:"amount" db:"total_amount"`
	CashReceived float64   `json:"cashReceived" bson:"cash_received" db:"cash_received"`
	CreditDue    float64   `json:"creditDue" bson:"credit_due" db:"credit_due"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at" db:"updated_at"`
}

// MilkFilter narrows a listing of one user's entries. Zero values match all.
type MilkFilter struct {
	UserID       string
	From         *Date
	To           *Date
	CustomerName string
	MilkType     MilkType
	Ascending    bool
}
