package grpc

// Wire messages for credit360.marketplace.v1. Decimal quantities travel as
// strings so no precision is lost in JSON.

// OfferFilters bounds the catalog. Empty strings and zero counts leave the
// bound unset. OnlyMatchingScore restricts the catalog to offers the
// caller's score qualifies for.
type OfferFilters struct {
	MinAmount         string `json:"min_amount,omitempty"`
	MaxAmount         string `json:"max_amount,omitempty"`
	MaxInterestRate   string `json:"max_interest_rate,omitempty"`
	MinInstallments   int32  `json:"min_installments,omitempty"`
	MaxInstallments   int32  `json:"max_installments,omitempty"`
	OnlyMatchingScore bool   `json:"only_matching_score,omitempty"`
}

type ListOffersRequest struct {
	Filters *OfferFilters `json:"filters,omitempty"`
}

type Offer struct {
	ID                      string   `json:"id"`
	InstitutionID           string   `json:"institution_id"`
	InstitutionName         string   `json:"institution_name"`
	Amount                  string   `json:"amount"`
	MinAmount               string   `json:"min_amount"`
	MaxAmount               string   `json:"max_amount"`
	InterestRate            string   `json:"interest_rate"`
	MinInstallments         int32    `json:"min_installments"`
	MaxInstallments         int32    `json:"max_installments"`
	MinScore                int32    `json:"min_score"`
	Compatibility           *float64 `json:"compatibility,omitempty"`
	Description             string   `json:"description"`
	RequirementsDescription string   `json:"requirements_description"`
}

type ListOffersResponse struct {
	Offers           []*Offer `json:"offers"`
	ProfileAvailable bool     `json:"profile_available"`
}

type SimulateInstallmentRequest struct {
	OfferID      string `json:"offer_id"`
	Amount       string `json:"amount"`
	Installments int32  `json:"installments"`
}

type ScheduleEntry struct {
	Period           int32  `json:"period"`
	DueDate          string `json:"due_date"`
	Payment          string `json:"payment"`
	Principal        string `json:"principal"`
	Interest         string `json:"interest"`
	RemainingBalance string `json:"remaining_balance"`
}

type SimulateInstallmentResponse struct {
	OfferID        string           `json:"offer_id"`
	Currency       string           `json:"currency"`
	Amount         string           `json:"amount"`
	Installments   int32            `json:"installments"`
	InterestRate   string           `json:"interest_rate"`
	MonthlyPayment string           `json:"monthly_payment"`
	TotalPayment   string           `json:"total_payment"`
	TotalInterest  string           `json:"total_interest"`
	Schedule       []*ScheduleEntry `json:"schedule"`
}
