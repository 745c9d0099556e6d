package rest

import (
	"net/http"
	"time"

	"github.com/antbogura/isp-api/internal/domain"
	"github.com/antbogura/isp-api/internal/security"
	"github.com/antbogura/isp-api/internal/service"
	"github.com/antbogura/isp-api/internal/transport/rest/response"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterDeps carries everything the HTTP surface needs. Optional pieces
// (cache for rate limiting) may be nil.
type RouterDeps struct {
	Accounts *service.AccountService
	Intake   *service.IntakeService
	Roles    domain.AccountRepository
	Verifier security.AccessTokenVerifier

	SetupToken     string
	ExpectedIssuer string

	Cache     domain.CacheRepository
	RLEnabled bool
	RLLimit   int
	RLWindow  time.Duration
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(HTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)
	r.Use(SecurityHeaders)
	if deps.RLEnabled && deps.Cache != nil {
		r.Use(RateLimitMiddleware(deps.Cache, deps.RLLimit, deps.RLWindow))
	}

	auth := AuthMiddleware(deps.Verifier, AuthOptions{ExpectedIssuer: deps.ExpectedIssuer})

	accounts := NewAccountHandler(deps.Accounts, deps.SetupToken)
	intake := NewIntakeHandler(deps.Intake)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]any{"status": "ok"})
	})

	// Function-shaped routes kept at the paths the frontend already calls.
	r.Route("/functions/v1", func(r chi.Router) {
		r.Post("/setup-admin", accounts.SetupAdmin)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Post("/delete-user", accounts.DeleteUser)
			r.Post("/cleanup-orphan-users", accounts.CleanupOrphan)
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public intake forms and the marketing catalog.
		r.Post("/contact", intake.SubmitContact)
		r.Post("/problems", intake.SubmitProblem)
		r.Post("/connection-requests", intake.SubmitConnectionRequest)
		r.Get("/packages", intake.Packages)
		r.Get("/coverage", intake.Coverage)

		// Staff triage dashboard.
		r.Route("/admin", func(r chi.Router) {
			r.Use(auth)
			r.Use(RequireStaff(deps.Roles))

			r.Get("/contact-messages", intake.ListContactMessages)
			r.Patch("/contact-messages/{id}/status", intake.updateStatus("contact_messages"))

			r.Get("/problem-reports", intake.ListProblemReports)
			r.Patch("/problem-reports/{id}/status", intake.updateStatus("problem_reports"))

			r.Get("/connection-requests", intake.ListConnectionRequests)
			r.Patch("/connection-requests/{id}/status", intake.updateStatus("connection_requests"))

			r.Get("/stats", intake.Stats)
		})
	})

	return r
}
