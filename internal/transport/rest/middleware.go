package rest

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/antbogura/isp-api/internal/domain"
	"github.com/antbogura/isp-api/internal/security"
	"github.com/antbogura/isp-api/internal/transport/rest/response"
	"github.com/google/uuid"
)

// CORS mirrors the headers the frontend was built against: any origin, and
// the auth/client headers the hosted-backend SDK sends. OPTIONS preflight is
// answered with 200 before auth or rate limiting can get in the way.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type AuthOptions struct {
	// If set (non-empty), enforce exact issuer match.
	ExpectedIssuer string
}

// AuthMiddleware validates the bearer credential and resolves the requesting
// identity. It runs before any backend call: a missing or invalid token never
// reaches the database.
func AuthMiddleware(verifier security.AccessTokenVerifier, opt AuthOptions) func(next http.Handler) http.Handler {
	if verifier == nil {
		panic("AuthMiddleware: nil verifier")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := strings.TrimSpace(r.Header.Get("Authorization"))
			if h == "" {
				response.Fail(w, http.StatusUnauthorized, "No authorization header")
				return
			}

			parts := strings.SplitN(h, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				response.Fail(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			raw := strings.TrimSpace(parts[1])
			if raw == "" {
				response.Fail(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			claims, err := verifier.VerifyAccessToken(raw)
			if err != nil {
				// expired and invalid both stay 401
				response.Fail(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			if opt.ExpectedIssuer != "" && claims.Issuer != opt.ExpectedIssuer {
				response.Fail(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			uid, err := uuid.Parse(strings.TrimSpace(claims.UserID))
			if err != nil {
				response.Fail(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx := withAuth(r.Context(), AuthContext{
				UserID: uid,
				Email:  claims.Email,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireStaff gates the admin triage routes: the requester's role row must
// say admin or manager. The lookup is uncached and per request.
func RequireStaff(roles domain.AccountRepository) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth, ok := GetAuth(r.Context())
			if !ok {
				response.Fail(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			role, err := roles.GetRole(r.Context(), auth.UserID)
			if err != nil {
				response.Fail(w, http.StatusInternalServerError, err.Error())
				return
			}
			if role != domain.RoleAdmin && role != domain.RoleManager {
				response.Fail(w, http.StatusForbidden, "You do not have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RateLimitMiddleware(cache domain.CacheRepository, limit int, window time.Duration) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			allowed, _ := cache.AllowRequest(r.Context(), ip, limit, window)
			if !allowed {
				response.Fail(w, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP keeps it simple: RemoteAddr host part.
// If you are behind a trusted reverse proxy, you may choose to trust X-Forwarded-For,
// but doing so blindly is a spoofing risk.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}
