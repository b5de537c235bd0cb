package models

type Invoice struct {
	StudentID   string  `json:"studentId"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	DueDate     string  `json:"dueDate"`
	Status      string  `json:"status"` // "pending", "paid", "overdue"
	PaidAt      string  `json:"paidAt,omitempty"`
}
