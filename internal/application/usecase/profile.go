package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MiguelMaleico/credit360-smart-market/internal/application/dto"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/event"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/port"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/valueobject"
	"github.com/MiguelMaleico/credit360-smart-market/pkg/openbanking"
)

// requireActiveConsent returns ErrConsentRequired unless userID holds an
// authorized, unexpired consent.
func requireActiveConsent(ctx context.Context, consents port.ConsentRepository, userID string) error {
	consent, err := consents.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return ErrConsentRequired
		}
		return fmt.Errorf("find consent: %w", err)
	}
	if !consent.IsActive(time.Now().UTC()) {
		return ErrConsentRequired
	}
	return nil
}

// AnalyzeProfileUseCase runs a credit analysis and replaces the borrower's
// profile with the result.
type AnalyzeProfileUseCase struct {
	consents  port.ConsentRepository
	analysis  port.ProfileAnalysisService
	profiles  port.ProfileRepository
	publisher port.EventPublisher
}

// NewAnalyzeProfileUseCase wires dependencies.
func NewAnalyzeProfileUseCase(
	consents port.ConsentRepository,
	analysis port.ProfileAnalysisService,
	profiles port.ProfileRepository,
	publisher port.EventPublisher,
) *AnalyzeProfileUseCase {
	return &AnalyzeProfileUseCase{
		consents:  consents,
		analysis:  analysis,
		profiles:  profiles,
		publisher: publisher,
	}
}

// Execute analyzes the principal's finances. Only borrowers with an active
// consent may be analyzed.
func (uc *AnalyzeProfileUseCase) Execute(ctx context.Context, p dto.Principal) (dto.ProfileResponse, error) {
	// 1. Check role and consent.
	if p.Role != valueobject.RoleUser.String() {
		return dto.ProfileResponse{}, ErrForbidden
	}
	if err := requireActiveConsent(ctx, uc.consents, p.UserID); err != nil {
		return dto.ProfileResponse{}, err
	}

	// 2. Run the analysis.
	profile, err := uc.analysis.Analyze(ctx, p.UserID)
	if err != nil {
		return dto.ProfileResponse{}, fmt.Errorf("analyze profile: %w", err)
	}

	// 3. Replace the stored profile.
	if err := uc.profiles.Save(ctx, profile); err != nil {
		return dto.ProfileResponse{}, fmt.Errorf("save profile: %w", err)
	}

	// 4. Publish.
	evt := event.NewProfileAnalyzed(profile.UserID(), profile.Score(), profile.RiskLevel().String(), profile.RecommendedLimit())
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		return dto.ProfileResponse{}, fmt.Errorf("publish events: %w", err)
	}
	return toProfileResponse(profile), nil
}

// GetProfileUseCase returns the stored credit profile of a user.
type GetProfileUseCase struct {
	profiles port.ProfileRepository
}

// NewGetProfileUseCase wires dependencies.
func NewGetProfileUseCase(profiles port.ProfileRepository) *GetProfileUseCase {
	return &GetProfileUseCase{profiles: profiles}
}

// Execute returns the profile or an error wrapping port.ErrNotFound.
func (uc *GetProfileUseCase) Execute(ctx context.Context, userID string) (dto.ProfileResponse, error) {
	profile, err := uc.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return dto.ProfileResponse{}, fmt.Errorf("find profile: %w", err)
	}
	return toProfileResponse(profile), nil
}

// ListTransactionsUseCase reads the Open Finance statement shared under the
// caller's consent.
type ListTransactionsUseCase struct {
	consents port.ConsentRepository
	source   port.TransactionSource
}

// NewListTransactionsUseCase wires dependencies.
func NewListTransactionsUseCase(consents port.ConsentRepository, source port.TransactionSource) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{consents: consents, source: source}
}

// Execute returns the statement newest first with income and expense totals.
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, userID string) (dto.TransactionListResponse, error) {
	if err := requireActiveConsent(ctx, uc.consents, userID); err != nil {
		return dto.TransactionListResponse{}, err
	}
	txs, err := uc.source.ListTransactions(ctx, userID)
	if err != nil {
		return dto.TransactionListResponse{}, fmt.Errorf("list transactions: %w", err)
	}

	out := make([]dto.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	flow := openbanking.Summarize(txs)
	return dto.TransactionListResponse{
		Transactions: out,
		Income:       flow.Income,
		Expense:      flow.Expense,
	}, nil
}
