package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/voter-api/internal/application/auth"
	"github.com/voter-api/internal/application/session"
	"github.com/voter-api/internal/application/student"
	"github.com/voter-api/internal/application/voting"
	"github.com/voter-api/internal/config"
	"github.com/voter-api/internal/domain"
	jwtinfra "github.com/voter-api/internal/infrastructure/jwt"
	"github.com/voter-api/internal/infrastructure/smtp"
	"github.com/voter-api/internal/transport/http/handler"
	appmiddleware "github.com/voter-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo        UserRepository
	SessionRepo     SessionRepository
	CandidateRepo   CandidateRepository
	VoteRepo        VoteRepository
	StudentRepo     StudentRepository
	StudentVoteRepo StudentVoteRepository
	LoginCodes      student.CodeStore
	Mailer          smtp.Mailer
	JWTProvider     *jwtinfra.Provider
}

// NewRouter builds and returns the application router. Background work owned
// by the router stops when ctx is done.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	trusted, err := appmiddleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		slog.Error("ignoring trusted proxies", "err", err)
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(appmiddleware.ClientIP(trusted))
	r.Use(appmiddleware.Observe)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.JWTProvider)
	optionalAuthMw := appmiddleware.OptionalAuth(deps.JWTProvider)

	// 5 requests/second, burst of 10, on endpoints that send mail, check secrets or record votes.
	sensitiveRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(5), 10)

	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:              deps.UserRepo,
		Mailer:                deps.Mailer,
		JWTProvider:           deps.JWTProvider,
		OTPTTL:                cfg.OTPTTL,
		ResetTokenTTL:         cfg.ResetTokenTTL,
		FrontendURL:           cfg.FrontendURL,
		AllowSkipVerification: cfg.AllowSkipVerification,
	})
	sessionSvc := session.NewService(session.ServiceDeps{
		SessionRepo:   deps.SessionRepo,
		CandidateRepo: deps.CandidateRepo,
		VoteRepo:      deps.VoteRepo,
	})
	votingSvc := voting.NewService(voting.ServiceDeps{
		SessionRepo:   deps.SessionRepo,
		CandidateRepo: deps.CandidateRepo,
		VoteRepo:      deps.VoteRepo,
	})
	studentSvc := student.NewService(student.ServiceDeps{
		StudentRepo:     deps.StudentRepo,
		StudentVoteRepo: deps.StudentVoteRepo,
		CodeStore:       deps.LoginCodes,
		Mailer:          deps.Mailer,
		JWTProvider:     deps.JWTProvider,
		CodeTTL:         cfg.OTPTTL,
	})

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	sessionH := handler.NewSessionHandler(sessionSvc)
	votingH := handler.NewVotingHandler(votingSvc)
	studentH := handler.NewStudentHandler(studentSvc)
	adminH := handler.NewAdminHandler(studentSvc)

	// ── Public routes (no auth) ──────────────────────────────────────────
	r.Get("/health-check/{action}", healthH.Ping)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(sensitiveRL.Limit)
			r.Post("/signup", authH.Signup)
			r.Post("/verify-otp", authH.VerifyOTP)
			r.Post("/resend-otp", authH.ResendOTP)
			r.Post("/login", authH.Login)
			r.Post("/forgot-password", authH.ForgotPassword)
			r.Post("/verify-reset-token", authH.VerifyResetToken)
			r.Post("/reset-password", authH.ResetPassword)
		})
		r.With(authMw).Get("/me", authH.Me)
	})

	r.Route("/session", func(r chi.Router) {
		r.Get("/{code}", sessionH.Get)
		r.Get("/{code}/candidates", votingH.ListCandidates)
		r.With(optionalAuthMw).Get("/{code}/votes", votingH.ListVotes)
		r.With(optionalAuthMw).Get("/{code}/results", votingH.Results)

		// ── Account routes ───────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)
			r.Use(appmiddleware.RequireAccount)

			r.Post("/create", sessionH.Create)
			r.Get("/my-sessions", sessionH.ListMine)
			r.Delete("/{code}", sessionH.Delete)
			r.Get("/{code}/verify-owner", sessionH.VerifyOwner)
			r.Put("/{code}/settings/public", sessionH.UpdateSettings)
			r.Post("/{code}/candidate", votingH.AddCandidate)
			r.Delete("/{code}/candidate/{id}", votingH.DeleteCandidate)
			r.With(sensitiveRL.Limit).Post("/{code}/vote", votingH.CastVote)
		})
	})

	// ── Student flow ─────────────────────────────────────────────────────
	r.With(sensitiveRL.Limit).Post("/otp/send-otp", studentH.SendOTP)
	r.With(sensitiveRL.Limit).Post("/otp/verify-otp", studentH.VerifyOTP)
	r.With(authMw).Get("/user-details", studentH.UserDetails)
	r.Get("/register/{idNo}", studentH.Get)
	r.Post("/register", studentH.Register)
	r.Get("/candidates", studentH.Candidates)
	r.With(sensitiveRL.Limit).Post("/vote", studentH.Vote)

	// ── Admin routes ─────────────────────────────────────────────────────
	r.Route("/admin", func(r chi.Router) {
		r.Use(authMw)
		r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

		r.Get("/students", adminH.Students)
		r.Get("/votes", adminH.Votes)
		r.Get("/pending-candidates", adminH.PendingCandidates)
		r.Get("/results", adminH.Results)
		r.Post("/approve-candidate", adminH.ApproveCandidate)
	})

	return r
}
