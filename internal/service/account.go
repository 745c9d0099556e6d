package service

import (
	"context"
	"errors"

	"github.com/antbogura/isp-api/internal/audit"
	"github.com/antbogura/isp-api/internal/domain"
	"github.com/google/uuid"
)

// AccountService orchestrates the privileged account workflows: role-gated
// deletion, orphan cleanup, and the one-time admin bootstrap.
type AccountService struct {
	repo  domain.AccountRepository
	dir   domain.IdentityDirectory
	audit *audit.Logger

	adminEmail    string
	adminPassword string
}

func NewAccountService(repo domain.AccountRepository, dir domain.IdentityDirectory, auditLog *audit.Logger, adminEmail, adminPassword string) *AccountService {
	if auditLog == nil {
		auditLog = audit.Nop()
	}
	return &AccountService{
		repo:          repo,
		dir:           dir,
		audit:         auditLog,
		adminEmail:    adminEmail,
		adminPassword: adminPassword,
	}
}

// IsDenial reports whether err is a policy denial (403) rather than a
// backend failure (500).
func IsDenial(err error) bool {
	return errors.Is(err, domain.ErrSelfDelete) ||
		errors.Is(err, domain.ErrProtectedTarget) ||
		errors.Is(err, domain.ErrNotPermitted) ||
		errors.Is(err, domain.ErrAdminOnly)
}

// DeleteAccount runs the full workflow: role lookups, policy, best-effort
// cleanup, identity deletion. Role-lookup and identity-deletion failures are
// fatal; cleanup failures are audited and suppressed. Cleanup is never rolled
// back when the final deletion fails.
func (s *AccountService) DeleteAccount(ctx context.Context, requesterID, targetID uuid.UUID) error {
	requesterRole, err := s.repo.GetRole(ctx, requesterID)
	if err != nil {
		return err
	}
	targetRole, err := s.repo.GetRole(ctx, targetID)
	if err != nil {
		return err
	}

	d := domain.DecideDeletion(requesterID, requesterRole, targetID, targetRole)
	if !d.Allowed {
		s.audit.DeletionDenied(ctx, requesterID, targetID, requesterRole, d.Reason.Error())
		return d.Reason
	}

	s.sweep(ctx, targetID)

	if err := s.dir.DeleteIdentity(ctx, targetID); err != nil {
		return err
	}

	s.audit.AccountDeleted(ctx, requesterID, targetID, requesterRole)
	return nil
}

// DeleteOrphan finishes deleting an identity whose earlier deletion stalled
// before the auth record was removed. Admin only; no self-check and no
// target-role lookup, since the target is a half-deleted account.
func (s *AccountService) DeleteOrphan(ctx context.Context, requesterID, targetID uuid.UUID) error {
	role, err := s.repo.GetRole(ctx, requesterID)
	if err != nil {
		return err
	}
	if role != domain.RoleAdmin {
		return domain.ErrAdminOnly
	}

	s.sweep(ctx, targetID)

	if err := s.dir.DeleteIdentity(ctx, targetID); err != nil {
		return err
	}

	s.audit.OrphanDeleted(ctx, requesterID, targetID)
	return nil
}

// sweep deletes dependent rows table by table. Each delete is independent:
// a failure is audited and the sweep moves on.
func (s *AccountService) sweep(ctx context.Context, targetID uuid.UUID) {
	for _, table := range domain.CleanupTables {
		if err := s.repo.DeleteByUser(ctx, table, targetID); err != nil {
			s.audit.CleanupFailed(ctx, targetID, table, err)
		}
	}
}

// SetupAdmin ensures the configured admin identity and its role row exist.
// It is idempotent: rerunning against an already-bootstrapped backend changes
// nothing.
func (s *AccountService) SetupAdmin(ctx context.Context) (string, error) {
	if s.adminEmail == "" || s.adminPassword == "" {
		return "", errors.New("admin bootstrap credentials are not configured")
	}

	id, found, err := s.dir.FindIdentityByEmail(ctx, s.adminEmail)
	if err != nil {
		return "", err
	}

	created := false
	if !found {
		id, err = s.dir.CreateIdentity(ctx, s.adminEmail, s.adminPassword)
		if err != nil {
			return "", err
		}
		created = true
	}

	has, err := s.repo.HasRole(ctx, id, domain.RoleAdmin)
	if err != nil {
		return "", err
	}
	if !has {
		if err := s.repo.AssignRole(ctx, id, domain.RoleAdmin); err != nil {
			return "", err
		}
	}

	s.audit.AdminBootstrapped(ctx, id, created)
	return s.adminEmail, nil
}
