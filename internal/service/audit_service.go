package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/events"
	"github.com/ThiccTapeman/statistic.alexanderhellsten.se/internal/observability"
)

// AuditService turns auth and ingestion events into log lines and metrics.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventTokenIssued, a.handleTokenIssued)
	a.dispatcher.Subscribe(events.EventTokenValidated, a.handleTokenValidated)
	a.dispatcher.Subscribe(events.EventTokenRejected, a.handleTokenRejected)
	a.dispatcher.Subscribe(events.EventCredentialsRejected, a.handleCredentialsRejected)
	a.dispatcher.Subscribe(events.EventClientRegistered, a.handleClientRegistered)
	a.dispatcher.Subscribe(events.EventDemoClientSeeded, a.handleDemoClientSeeded)
	a.dispatcher.Subscribe(events.EventTokensSwept, a.handleTokensSwept)
	a.dispatcher.Subscribe(events.EventRecordStored, a.handleRecordStored)
}

func (a *AuditService) handleTokenIssued(_ context.Context, event events.Event) error {
	a.metrics.TokenIssued()
	fields := []zap.Field{zap.String("client_id", event.ClientID)}
	if p, ok := event.Payload.(events.TokenIssuedPayload); ok {
		fields = append(fields, zap.Time("expires_at", p.ExpiresAt), zap.Int("attempts", p.Attempts))
	}
	a.logger.Info("TokenIssued", fields...)
	return nil
}

func (a *AuditService) handleTokenValidated(_ context.Context, event events.Event) error {
	outcome := "valid"
	if p, ok := event.Payload.(events.TokenValidatedPayload); ok && p.Renewed {
		outcome = "renewed"
	}
	a.metrics.TokenValidation(outcome)
	a.logger.Debug("TokenValidated", zap.String("client_id", event.ClientID), zap.String("outcome", outcome))
	return nil
}

func (a *AuditService) handleTokenRejected(_ context.Context, event events.Event) error {
	reason := "invalid"
	if p, ok := event.Payload.(events.TokenRejectedPayload); ok && p.Reason != "" {
		reason = p.Reason
	}
	a.metrics.TokenValidation(reason)
	a.logger.Debug("TokenRejected", zap.String("reason", reason))
	return nil
}

func (a *AuditService) handleCredentialsRejected(_ context.Context, event events.Event) error {
	a.metrics.CredentialFailure()
	known := false
	if p, ok := event.Payload.(events.CredentialsRejectedPayload); ok {
		known = p.KnownClient
	}
	a.logger.Warn("CredentialsRejected", zap.String("client_id", event.ClientID), zap.Bool("known_client", known))
	return nil
}

func (a *AuditService) handleClientRegistered(_ context.Context, event events.Event) error {
	a.logger.Info("ClientRegistered", zap.String("client_id", event.ClientID))
	return nil
}

func (a *AuditService) handleDemoClientSeeded(_ context.Context, event events.Event) error {
	created := false
	if p, ok := event.Payload.(events.DemoClientSeededPayload); ok {
		created = p.Created
	}
	a.logger.Info("DemoClientSeeded", zap.String("client_id", event.ClientID), zap.Bool("created", created))
	return nil
}

func (a *AuditService) handleTokensSwept(_ context.Context, event events.Event) error {
	p, ok := event.Payload.(events.TokensSweptPayload)
	if !ok {
		return nil
	}
	a.metrics.TokensSwept(p.Deleted)
	if p.Deleted > 0 {
		a.logger.Info("TokensSwept", zap.Int64("deleted", p.Deleted))
	}
	return nil
}

func (a *AuditService) handleRecordStored(_ context.Context, event events.Event) error {
	p, ok := event.Payload.(events.RecordStoredPayload)
	if !ok {
		return nil
	}
	a.metrics.EventRecorded(p.Kind)
	a.logger.Debug("RecordStored",
		zap.String("client_id", event.ClientID),
		zap.String("kind", p.Kind),
		zap.String("record_id", p.RecordID))
	return nil
}
