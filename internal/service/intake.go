package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/antbogura/isp-api/internal/audit"
	"github.com/antbogura/isp-api/internal/domain"
	"github.com/antbogura/isp-api/internal/pkg/logger"
	"github.com/google/uuid"
)

// IntakeService handles visitor submissions and the admin triage views over
// them. SMS notification is fire-and-forget, matching the source site.
type IntakeService struct {
	repo     domain.IntakeRepository
	cache    domain.CacheRepository
	notifier domain.Notifier // nil disables SMS dispatch
	audit    *audit.Logger
	statsTTL time.Duration
}

func NewIntakeService(repo domain.IntakeRepository, cache domain.CacheRepository, notifier domain.Notifier, auditLog *audit.Logger, statsTTL time.Duration) *IntakeService {
	if auditLog == nil {
		auditLog = audit.Nop()
	}
	return &IntakeService{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		audit:    auditLog,
		statsTTL: statsTTL,
	}
}

func (s *IntakeService) SubmitContactMessage(ctx context.Context, m *domain.ContactMessage) error {
	m.ID = uuid.New()
	m.Status = domain.StatusPending
	if err := s.repo.InsertContactMessage(ctx, m); err != nil {
		return err
	}
	s.audit.IntakeReceived(ctx, "contact_messages", m.ID)
	s.notifySMS(ctx, m.Phone,
		fmt.Sprintf("ধন্যবাদ %s! আপনার মেসেজ পেয়েছি। শীঘ্রই যোগাযোগ করব। - ANT Bogura", m.Name),
		m.ID, "contact_messages")
	return nil
}

func (s *IntakeService) SubmitProblemReport(ctx context.Context, p *domain.ProblemReport) error {
	p.ID = uuid.New()
	p.Status = domain.StatusPending
	if err := s.repo.InsertProblemReport(ctx, p); err != nil {
		return err
	}
	s.audit.IntakeReceived(ctx, "problem_reports", p.ID)
	s.notifySMS(ctx, p.Phone,
		fmt.Sprintf("%s, আপনার সমস্যা রিপোর্ট পেয়েছি। আমাদের টিম শীঘ্রই সমাধান করবে। - ANT Bogura", p.Name),
		p.ID, "problem_reports")
	return nil
}

func (s *IntakeService) SubmitConnectionRequest(ctx context.Context, c *domain.ConnectionRequest) error {
	c.ID = uuid.New()
	c.Status = domain.StatusPending
	if err := s.repo.InsertConnectionRequest(ctx, c); err != nil {
		return err
	}
	s.audit.IntakeReceived(ctx, "connection_requests", c.ID)
	s.notifySMS(ctx, c.Phone,
		fmt.Sprintf("ধন্যবাদ %s! আপনার সংযোগের আবেদন পেয়েছি। আমাদের টিম শীঘ্রই যোগাযোগ করবে। - ANT Bogura", c.Name),
		c.ID, "connection_requests")
	return nil
}

// notifySMS publishes the customer SMS. Failures are logged and never
// surfaced: the form submission already succeeded.
func (s *IntakeService) notifySMS(ctx context.Context, phone, message string, recordID uuid.UUID, table string) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.SendSMS(ctx, domain.SMSMessage{
		Phone:     phone,
		Message:   message,
		Type:      "form_submission",
		RecordID:  recordID.String(),
		TableName: table,
	})
	if err != nil {
		logger.WithCtx(ctx).Warn().Err(err).Str("table", table).Msg("sms dispatch failed")
	}
}

func (s *IntakeService) ListContactMessages(ctx context.Context, status *domain.RequestStatus, limit int) ([]domain.ContactMessage, error) {
	return s.repo.ListContactMessages(ctx, status, limit)
}

func (s *IntakeService) ListProblemReports(ctx context.Context, status *domain.RequestStatus, limit int) ([]domain.ProblemReport, error) {
	return s.repo.ListProblemReports(ctx, status, limit)
}

func (s *IntakeService) ListConnectionRequests(ctx context.Context, status *domain.RequestStatus, limit int) ([]domain.ConnectionRequest, error) {
	return s.repo.ListConnectionRequests(ctx, status, limit)
}

func (s *IntakeService) UpdateStatus(ctx context.Context, table string, id uuid.UUID, status domain.RequestStatus, actorID uuid.UUID) error {
	if err := s.repo.UpdateStatus(ctx, table, id, status); err != nil {
		return err
	}
	s.audit.StatusChanged(ctx, table, id, status, actorID)
	return nil
}

// GetStats returns the dashboard counters, serving a short-TTL cached copy
// when one exists.
func (s *IntakeService) GetStats(ctx context.Context) (domain.IntakeStats, error) {
	if s.cache != nil {
		cached, err := s.cache.GetStats(ctx)
		if err == nil {
			return *cached, nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.WithCtx(ctx).Warn().Err(err).Msg("stats cache read failed")
		}
	}

	stats, err := s.repo.GetStats(ctx)
	if err != nil {
		return domain.IntakeStats{}, err
	}

	if s.cache != nil {
		if err := s.cache.SetStats(ctx, stats, s.statsTTL); err != nil {
			logger.WithCtx(ctx).Warn().Err(err).Msg("stats cache write failed")
		}
	}
	return stats, nil
}
