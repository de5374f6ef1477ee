package usecase

import (
	"github.com/MiguelMaleico/credit360-smart-market/internal/application/dto"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/model"
	"github.com/MiguelMaleico/credit360-smart-market/pkg/openbanking"
)

const dateLayout = "2006-01-02"

func toUserResponse(u model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:    u.ID(),
		Name:  u.Name(),
		Email: u.Email(),
		Role:  u.Role().String(),
	}
}

func toConsentResponse(c model.OpenFinanceConsent) dto.ConsentResponse {
	return dto.ConsentResponse{
		ID:           c.ID(),
		Scope:        c.Scope(),
		ValidUntil:   c.ValidUntil(),
		AuthorizedAt: c.AuthorizedAt(),
		Status:       c.Status().String(),
	}
}

func toProfileResponse(p model.CreditProfile) dto.ProfileResponse {
	return dto.ProfileResponse{
		Score:            p.Score(),
		RiskLevel:        p.RiskLevel().String(),
		PaymentCapacity:  p.PaymentCapacity(),
		RecommendedLimit: p.RecommendedLimit(),
		LastUpdated:      p.LastUpdated().Format(dateLayout),
	}
}

func toTransactionResponse(tx openbanking.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:          tx.ID,
		Date:        tx.Date.Format(dateLayout),
		Description: tx.Description,
		Amount:      tx.Amount,
		Type:        string(tx.Type),
		Category:    tx.Category,
	}
}

func toOfferResponse(o model.CreditOffer) dto.OfferResponse {
	resp := dto.OfferResponse{
		ID:                      o.ID(),
		InstitutionID:           o.InstitutionID(),
		InstitutionName:         o.InstitutionName(),
		Amount:                  o.Amount(),
		MinAmount:               o.MinAmount(),
		MaxAmount:               o.MaxAmount(),
		InterestRate:            o.InterestRate(),
		MinInstallments:         o.MinInstallments(),
		MaxInstallments:         o.MaxInstallments(),
		MinScore:                o.MinScore(),
		Description:             o.Description(),
		RequirementsDescription: o.RequirementsDescription(),
	}
	if c, ok := o.Compatibility(); ok {
		resp.Compatibility = &c
	}
	return resp
}

func toOfferResponses(offers []model.CreditOffer) []dto.OfferResponse {
	out := make([]dto.OfferResponse, 0, len(offers))
	for _, o := range offers {
		out = append(out, toOfferResponse(o))
	}
	return out
}

func toOfferTerms(req dto.OfferRequest) model.OfferTerms {
	return model.OfferTerms{
		InstitutionName:         req.InstitutionName,
		Amount:                  req.Amount,
		MinAmount:               req.MinAmount,
		MaxAmount:               req.MaxAmount,
		InterestRate:            req.InterestRate,
		MinInstallments:         req.MinInstallments,
		MaxInstallments:         req.MaxInstallments,
		MinScore:                req.MinScore,
		Description:             req.Description,
		RequirementsDescription: req.RequirementsDescription,
	}
}

func toOfferFilters(req dto.OfferFiltersRequest) model.OfferFilters {
	return model.OfferFilters{
		MinAmount:       req.MinAmount,
		MaxAmount:       req.MaxAmount,
		MaxInterestRate: req.MaxInterestRate,
		MinInstallments: req.MinInstallments,
		MaxInstallments: req.MaxInstallments,
		MinScore:        req.MinScore,
	}
}

func toSimulationResponse(s model.InstallmentSimulation) dto.SimulationResponse {
	schedule := make([]dto.AmortizationEntryResponse, 0, len(s.Schedule))
	for _, e := range s.Schedule {
		schedule = append(schedule, dto.AmortizationEntryResponse{
			Period:           e.Period,
			DueDate:          e.DueDate,
			Payment:          e.Payment,
			Principal:        e.Principal,
			Interest:         e.Interest,
			RemainingBalance: e.RemainingBalance,
		})
	}
	return dto.SimulationResponse{
		OfferID:        s.OfferID,
		Currency:       s.Amount.Currency().Code(),
		Amount:         s.Amount.Amount(),
		Installments:   s.Installments,
		InterestRate:   s.InterestRate,
		MonthlyPayment: s.MonthlyPayment.Amount(),
		TotalPayment:   s.TotalPayment.Amount(),
		TotalInterest:  s.TotalInterest.Amount(),
		Display: dto.SimulationDisplay{
			Amount:         s.Amount.Display(),
			MonthlyPayment: s.MonthlyPayment.Display(),
			TotalPayment:   s.TotalPayment.Display(),
		},
		Schedule: schedule,
	}
}

func toNotificationResponse(n model.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID(),
		Type:      n.Type().String(),
		Message:   n.Message(),
		Read:      n.Read(),
		CreatedAt: n.CreatedAt(),
	}
}
