package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/exam-service/internal/config"
	"github.com/spec-kit/exam-service/internal/events"
)

// MailerService delivers outbound mail for auth events. Delivery is stubbed
// behind SMTP config; without a configured host it only logs.
type MailerService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.MailerConfig
}

// NewMailerService creates the service.
func NewMailerService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.MailerConfig) *MailerService {
	return &MailerService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to auth events.
func (m *MailerService) RegisterHandlers() {
	if m.dispatcher == nil {
		return
	}
	m.dispatcher.Subscribe(events.EventUserRegistered, m.handleUserRegistered)
	m.dispatcher.Subscribe(events.EventOTPRequested, m.handleOTPRequested)
	m.dispatcher.Subscribe(events.EventPasswordResetRequested, m.handlePasswordResetRequested)
}

func (m *MailerService) handleUserRegistered(ctx context.Context, event events.Event) error {
	m.logger.Info("UserRegistered", zap.String("email", event.Email))
	m.sendMailStub(ctx, event, "welcome")
	return nil
}

func (m *MailerService) handleOTPRequested(ctx context.Context, event events.Event) error {
	m.logger.Info("OTPRequested", zap.String("email", event.Email))
	m.sendMailStub(ctx, event, "verification code")
	return nil
}

func (m *MailerService) handlePasswordResetRequested(ctx context.Context, event events.Event) error {
	m.logger.Info("PasswordResetRequested", zap.String("email", event.Email))
	m.sendMailStub(ctx, event, "password reset")
	return nil
}

func (m *MailerService) sendMailStub(ctx context.Context, event events.Event, kind string) {
	if strings.TrimSpace(m.cfg.SMTPHost) == "" {
		return
	}
	m.logger.Debug("sendMailStub",
		zap.String("from", m.cfg.From),
		zap.String("to", event.Email),
		zap.String("smtp_host", m.cfg.SMTPHost),
		zap.String("kind", kind),
		zap.String("event_type", string(event.Type)))
}
