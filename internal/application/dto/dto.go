package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Principal identifies the authenticated caller of a use case.
type Principal struct {
	UserID string
	Name   string
	Email  string
	Role   string
}

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// RegisterRequest carries the data needed to open an account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// LoginRequest carries credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OfferFiltersRequest holds the optional catalog bounds. Omitted fields are nil.
type OfferFiltersRequest struct {
	MinAmount       *decimal.Decimal `json:"min_amount,omitempty"`
	MaxAmount       *decimal.Decimal `json:"max_amount,omitempty"`
	MaxInterestRate *decimal.Decimal `json:"max_interest_rate,omitempty"`
	MinInstallments *int             `json:"min_installments,omitempty"`
	MaxInstallments *int             `json:"max_installments,omitempty"`
	MinScore        *int             `json:"min_score,omitempty"`
}

// ListOffersRequest asks for the catalog as seen by UserID. An empty UserID
// lists the catalog without profile matching.
type ListOffersRequest struct {
	UserID  string              `json:"user_id,omitempty"`
	Filters OfferFiltersRequest `json:"filters"`
}

// SimulateInstallmentRequest asks for a quote on an offer.
type SimulateInstallmentRequest struct {
	OfferID      string          `json:"offer_id"`
	Amount       decimal.Decimal `json:"amount"`
	Installments int             `json:"installments"`
}

// OfferRequest carries partner-editable offer terms.
type OfferRequest struct {
	InstitutionName         string          `json:"institution_name"`
	Amount                  decimal.Decimal `json:"amount"`
	MinAmount               decimal.Decimal `json:"min_amount"`
	MaxAmount               decimal.Decimal `json:"max_amount"`
	InterestRate            decimal.Decimal `json:"interest_rate"`
	MinInstallments         int             `json:"min_installments"`
	MaxInstallments         int             `json:"max_installments"`
	MinScore                int             `json:"min_score"`
	Description             string          `json:"description"`
	RequirementsDescription string          `json:"requirements_description"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// UserResponse is the public view of an account.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// ConsentResponse is the external representation of an Open Finance consent.
type ConsentResponse struct {
	ID           string     `json:"id"`
	Scope        []string   `json:"scope"`
	ValidUntil   time.Time  `json:"valid_until"`
	AuthorizedAt *time.Time `json:"authorized_at"`
	Status       string     `json:"status"`
}

// ProfileResponse is the external representation of a credit profile.
type ProfileResponse struct {
	Score            int             `json:"score"`
	RiskLevel        string          `json:"risk_level"`
	PaymentCapacity  decimal.Decimal `json:"payment_capacity"`
	RecommendedLimit decimal.Decimal `json:"recommended_limit"`
	LastUpdated      string          `json:"last_updated"`
}

// TransactionResponse is a single Open Finance statement entry.
type TransactionResponse struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
}

// TransactionListResponse wraps a statement with its totals.
type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Income       decimal.Decimal       `json:"income"`
	Expense      decimal.Decimal       `json:"expense"`
}

// OfferResponse is the external representation of a credit offer.
// Compatibility is present only when computed against the caller's profile.
type OfferResponse struct {
	ID                      string          `json:"id"`
	InstitutionID           string          `json:"institution_id"`
	InstitutionName         string          `json:"institution_name"`
	Amount                  decimal.Decimal `json:"amount"`
	MinAmount               decimal.Decimal `json:"min_amount"`
	MaxAmount               decimal.Decimal `json:"max_amount"`
	InterestRate            decimal.Decimal `json:"interest_rate"`
	MinInstallments         int             `json:"min_installments"`
	MaxInstallments         int             `json:"max_installments"`
	MinScore                int             `json:"min_score"`
	Compatibility           *float64        `json:"compatibility,omitempty"`
	Description             string          `json:"description"`
	RequirementsDescription string          `json:"requirements_description"`
}

// OfferListResponse is the filtered catalog.
type OfferListResponse struct {
	Offers           []OfferResponse `json:"offers"`
	ProfileAvailable bool            `json:"profile_available"`
}

// AmortizationEntryResponse represents a single amortization schedule entry.
type AmortizationEntryResponse struct {
	Period           int             `json:"period"`
	DueDate          time.Time       `json:"due_date"`
	Payment          decimal.Decimal `json:"payment"`
	Principal        decimal.Decimal `json:"principal"`
	Interest         decimal.Decimal `json:"interest"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}

// SimulationResponse is an installment quote.
type SimulationResponse struct {
	OfferID        string                      `json:"offer_id"`
	Currency       string                      `json:"currency"`
	Amount         decimal.Decimal             `json:"amount"`
	Installments   int                         `json:"installments"`
	InterestRate   decimal.Decimal             `json:"interest_rate"`
	MonthlyPayment decimal.Decimal             `json:"monthly_payment"`
	TotalPayment   decimal.Decimal             `json:"total_payment"`
	TotalInterest  decimal.Decimal             `json:"total_interest"`
	Display        SimulationDisplay           `json:"display"`
	Schedule       []AmortizationEntryResponse `json:"schedule"`
}

// SimulationDisplay carries pre-formatted amounts for the UI.
type SimulationDisplay struct {
	Amount         string `json:"amount"`
	MonthlyPayment string `json:"monthly_payment"`
	TotalPayment   string `json:"total_payment"`
}

// NotificationResponse is the external representation of a notification.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationListResponse lists notifications newest first.
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unread_count"`
}
