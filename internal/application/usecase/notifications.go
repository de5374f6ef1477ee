package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MiguelMaleico/credit360-smart-market/internal/application/dto"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/event"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/model"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/port"
	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/valueobject"
)

// NotificationsUseCase reads and acknowledges a user's notifications.
type NotificationsUseCase struct {
	notifications port.NotificationRepository
}

// NewNotificationsUseCase wires dependencies.
func NewNotificationsUseCase(notifications port.NotificationRepository) *NotificationsUseCase {
	return &NotificationsUseCase{notifications: notifications}
}

// List returns the user's notifications newest first.
func (uc *NotificationsUseCase) List(ctx context.Context, userID string) (dto.NotificationListResponse, error) {
	items, err := uc.notifications.ListByUser(ctx, userID)
	if err != nil {
		return dto.NotificationListResponse{}, fmt.Errorf("list notifications: %w", err)
	}
	resp := dto.NotificationListResponse{Notifications: make([]dto.NotificationResponse, 0, len(items))}
	for _, n := range items {
		if !n.Read() {
			resp.UnreadCount++
		}
		resp.Notifications = append(resp.Notifications, toNotificationResponse(n))
	}
	return resp, nil
}

// MarkRead acknowledges one notification. Notifications of other users are
// reported as not found.
func (uc *NotificationsUseCase) MarkRead(ctx context.Context, userID, id string) (dto.NotificationResponse, error) {
	n, err := uc.notifications.FindByID(ctx, id)
	if err != nil {
		return dto.NotificationResponse{}, fmt.Errorf("find notification: %w", err)
	}
	if n.UserID() != userID {
		return dto.NotificationResponse{}, fmt.Errorf("find notification: %w", port.ErrNotFound)
	}
	if n.Read() {
		return toNotificationResponse(n), nil
	}
	read := n.MarkRead()
	if err := uc.notifications.Save(ctx, read); err != nil {
		return dto.NotificationResponse{}, fmt.Errorf("save notification: %w", err)
	}
	return toNotificationResponse(read), nil
}

// NotificationProjector turns domain events into user notifications. It is
// fed by the event consumer.
type NotificationProjector struct {
	notifications port.NotificationRepository
	logger        *slog.Logger
}

// NewNotificationProjector wires dependencies.
func NewNotificationProjector(notifications port.NotificationRepository, logger *slog.Logger) *NotificationProjector {
	return &NotificationProjector{notifications: notifications, logger: logger}
}

// Handle stores the notification for e, if e produces one.
func (p *NotificationProjector) Handle(ctx context.Context, e event.DomainEvent) error {
	userID, kind, message, ok := notificationFor(e)
	if !ok {
		return nil
	}
	n, err := model.NewNotification(userID, kind, message, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("build notification for %s: %w", e.EventType(), err)
	}
	if err := p.notifications.Save(ctx, n); err != nil {
		return fmt.Errorf("save notification: %w", err)
	}
	p.logger.Debug("notification projected",
		"event_type", e.EventType(),
		"event_id", e.EventID(),
		"user_id", userID,
	)
	return nil
}

func notificationFor(e event.DomainEvent) (string, valueobject.NotificationType, string, bool) {
	switch ev := e.(type) {
	case event.ConsentAuthorized:
		return ev.UserID, valueobject.NotificationSuccess, "Acesso aos dados Open Finance autorizado com sucesso", true
	case event.ConsentRevoked:
		return ev.UserID, valueobject.NotificationWarning, "Consentimento Open Finance revogado", true
	case event.ConsentExpired:
		return ev.UserID, valueobject.NotificationWarning, "Seu consentimento Open Finance expirou. Autorize novamente para atualizar seu perfil", true
	case event.ProfileAnalyzed:
		return ev.UserID, valueobject.NotificationInfo,
			fmt.Sprintf("Análise de perfil concluída: score %d, risco %s", ev.Score, riskLabel(ev.RiskLevel)), true
	case event.OfferPublished:
		return ev.InstitutionID, valueobject.NotificationSuccess,
			fmt.Sprintf("Oferta de %s publicada no marketplace", ev.InstitutionName), true
	}
	return "", valueobject.NotificationType{}, "", false
}

func riskLabel(level string) string {
	r, err := valueobject.NewRiskLevel(level)
	if err != nil {
		return level
	}
	switch r {
	case valueobject.RiskLevelLow:
		return "baixo"
	case valueobject.RiskLevelMedium:
		return "médio"
	case valueobject.RiskLevelHigh:
		return "alto"
	}
	return level
}
