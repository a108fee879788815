package application

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("application not found")
	// ErrConcurrentUpdate means the stored status changed between read and write.
	ErrConcurrentUpdate = errors.New("application status changed concurrently")
)

// LoanTypes lists the products a customer can apply for.
var LoanTypes = []string{"working_capital", "investment", "invoice_financing", "multipurpose"}

type Application struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	CompanyName string    `json:"company_name,omitempty"`
	LoanType    string    `json:"loan_type"`
	LoanAmount  int64     `json:"loan_amount"`
	TenorMonths int       `json:"tenor_months"`
	Purpose     string    `json:"purpose,omitempty"`
	Status      Status    `json:"status"`
	AdminNotes  string    `json:"admin_notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Query filters the admin listing. An empty Statuses matches every status.
type Query struct {
	Statuses []Status
	Q        string
	Limit    int
	Offset   int
}

// Stats counts applications per recognised status.
type Stats struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"by_status"`
}
