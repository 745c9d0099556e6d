package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	// RoleUser is the implicit default when no role row exists.
	RoleUser Role = "user"
)

func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleManager:
		return Role(s)
	default:
		return RoleUser
	}
}

type RequestStatus string

const (
	StatusPending    RequestStatus = "pending"
	StatusInProgress RequestStatus = "in_progress"
	StatusComplete   RequestStatus = "complete"
	StatusCancelled  RequestStatus = "cancelled"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusComplete, StatusCancelled:
		return true
	}
	return false
}

// CleanupTables are the per-user tables swept before the identity record is
// removed. Order matches the deletion sequence.
var CleanupTables = []string{
	"profiles",
	"user_roles",
	"device_sessions",
	"trusted_devices",
	"recovery_codes",
}

var (
	ErrNotFound = errors.New("not found")

	// Deny reasons. These strings are part of the HTTP contract and are
	// returned verbatim to the caller.
	ErrSelfDelete      = errors.New("You cannot delete your own account")
	ErrProtectedTarget = errors.New("You cannot delete admin/manager users")
	ErrNotPermitted    = errors.New("You do not have permission to delete users")
	ErrAdminOnly       = errors.New("Admin only")
)

// BackendError is a fatal failure from the hosted backend. Its message is
// surfaced verbatim in the response body.
type BackendError struct {
	Message string
}

func (e *BackendError) Error() string { return e.Message }

type ContactMessage struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Phone     string        `json:"phone"`
	Email     *string       `json:"email,omitempty"`
	Message   string        `json:"message"`
	Status    RequestStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

type ProblemReport struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Phone       string        `json:"phone"`
	CustomerID  *string       `json:"customer_id,omitempty"`
	ProblemType string        `json:"problem_type"`
	Description string        `json:"description"`
	Status      RequestStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

type ConnectionRequest struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Phone       string        `json:"phone"`
	Address     string        `json:"address"`
	PackageName string        `json:"package_name"`
	Status      RequestStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// StatusCounts is the per-table pending/total pair on the admin dashboard.
type StatusCounts struct {
	Pending int `json:"pending"`
	Total   int `json:"total"`
}

type IntakeStats struct {
	ConnectionRequests StatusCounts `json:"connection_requests"`
	ContactMessages    StatusCounts `json:"contact_messages"`
	ProblemReports     StatusCounts `json:"problem_reports"`
}

// SMSMessage is handed to the notification worker via the message bus.
type SMSMessage struct {
	Phone     string `json:"phone"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	RecordID  string `json:"record_id"`
	TableName string `json:"table_name"`
}

// AccountRepository reads role rows and sweeps per-user tables in the hosted
// backend. GetRole returns RoleUser when no row exists; every call re-reads.
type AccountRepository interface {
	GetRole(ctx context.Context, userID uuid.UUID) (Role, error)
	DeleteByUser(ctx context.Context, table string, userID uuid.UUID) error
	HasRole(ctx context.Context, userID uuid.UUID, role Role) (bool, error)
	AssignRole(ctx context.Context, userID uuid.UUID, role Role) error
}

// IdentityDirectory is the auth service's admin surface. DeleteIdentity is
// irreversible; it is only called after the policy allowed the request.
type IdentityDirectory interface {
	DeleteIdentity(ctx context.Context, userID uuid.UUID) error
	FindIdentityByEmail(ctx context.Context, email string) (uuid.UUID, bool, error)
	CreateIdentity(ctx context.Context, email, password string) (uuid.UUID, error)
}

// IntakeRepository persists visitor submissions and the admin triage state.
type IntakeRepository interface {
	InsertContactMessage(ctx context.Context, m *ContactMessage) error
	InsertProblemReport(ctx context.Context, r *ProblemReport) error
	InsertConnectionRequest(ctx context.Context, r *ConnectionRequest) error

	ListContactMessages(ctx context.Context, status *RequestStatus, limit int) ([]ContactMessage, error)
	ListProblemReports(ctx context.Context, status *RequestStatus, limit int) ([]ProblemReport, error)
	ListConnectionRequests(ctx context.Context, status *RequestStatus, limit int) ([]ConnectionRequest, error)

	UpdateStatus(ctx context.Context, table string, id uuid.UUID, status RequestStatus) error
	GetStats(ctx context.Context) (IntakeStats, error)
}

type CacheRepository interface {
	GetStats(ctx context.Context) (*IntakeStats, error)
	SetStats(ctx context.Context, stats IntakeStats, ttl time.Duration) error

	AllowRequest(ctx context.Context, ip string, limit int, window time.Duration) (bool, error)
}

var ErrCacheMiss = errors.New("cache miss")

// Notifier dispatches customer-facing notifications. Failures are always
// best-effort for callers.
type Notifier interface {
	SendSMS(ctx context.Context, msg SMSMessage) error
}
