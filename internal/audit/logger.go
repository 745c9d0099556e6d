package audit

import (
	"context"

	appCtx "github.com/antbogura/isp-api/internal/pkg/context"
	"github.com/antbogura/isp-api/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Logger provides structured audit logging for business events. It is
// injected into the services so tests can swap in a no-op.
type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Logger {
	return &Logger{
		log: log.With().Bool("audit", true).Logger(),
	}
}

// Nop returns an audit logger that discards everything.
func Nop() *Logger {
	return New(zerolog.Nop())
}

// AccountDeleted logs a completed deletion: cleanup swept and identity gone.
func (l *Logger) AccountDeleted(ctx context.Context, requesterID, targetID uuid.UUID, requesterRole domain.Role) {
	l.log.Info().
		Str("action", "account_deleted").
		Str("requester_id", requesterID.String()).
		Str("requester_role", string(requesterRole)).
		Str("target_id", targetID.String()).
		Str("trace_id", getTraceID(ctx)).
		Msg("Account deleted")
}

// DeletionDenied logs a policy denial before any side effect.
func (l *Logger) DeletionDenied(ctx context.Context, requesterID, targetID uuid.UUID, requesterRole domain.Role, reason string) {
	l.log.Warn().
		Str("action", "deletion_denied").
		Str("requester_id", requesterID.String()).
		Str("requester_role", string(requesterRole)).
		Str("target_id", targetID.String()).
		Str("reason", reason).
		Str("trace_id", getTraceID(ctx)).
		Msg("Account deletion denied")
}

// CleanupFailed logs a suppressed best-effort cleanup failure.
func (l *Logger) CleanupFailed(ctx context.Context, targetID uuid.UUID, table string, err error) {
	l.log.Warn().
		Str("action", "cleanup_failed").
		Str("target_id", targetID.String()).
		Str("table", table).
		Err(err).
		Str("trace_id", getTraceID(ctx)).
		Msg("Dependent record cleanup failed")
}

// OrphanDeleted logs a completed orphan sweep.
func (l *Logger) OrphanDeleted(ctx context.Context, requesterID, targetID uuid.UUID) {
	l.log.Info().
		Str("action", "orphan_deleted").
		Str("requester_id", requesterID.String()).
		Str("target_id", targetID.String()).
		Str("trace_id", getTraceID(ctx)).
		Msg("Orphan user deleted")
}

// AdminBootstrapped logs the setup-admin outcome.
func (l *Logger) AdminBootstrapped(ctx context.Context, adminID uuid.UUID, created bool) {
	l.log.Info().
		Str("action", "admin_bootstrapped").
		Str("admin_id", adminID.String()).
		Bool("created", created).
		Str("trace_id", getTraceID(ctx)).
		Msg("Admin user setup complete")
}

// IntakeReceived logs a visitor submission.
func (l *Logger) IntakeReceived(ctx context.Context, table string, id uuid.UUID) {
	l.log.Info().
		Str("action", "intake_received").
		Str("table", table).
		Str("record_id", id.String()).
		Str("trace_id", getTraceID(ctx)).
		Msg("Visitor submission stored")
}

// StatusChanged logs an admin triage update.
func (l *Logger) StatusChanged(ctx context.Context, table string, id uuid.UUID, status domain.RequestStatus, actorID uuid.UUID) {
	l.log.Info().
		Str("action", "status_changed").
		Str("table", table).
		Str("record_id", id.String()).
		Str("status", string(status)).
		Str("actor_id", actorID.String()).
		Str("trace_id", getTraceID(ctx)).
		Msg("Record status updated")
}

func getTraceID(ctx context.Context) string {
	return appCtx.GetRequestID(ctx)
}
