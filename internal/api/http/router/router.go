package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtroode/tap-portal-server/internal/api/http/handler"
	"github.com/dtroode/tap-portal-server/internal/api/http/middleware"
	"github.com/dtroode/tap-portal-server/internal/logger"
	"github.com/dtroode/tap-portal-server/internal/model"
	"github.com/dtroode/tap-portal-server/internal/service"
)

// Services groups the application services served over HTTP.
type Services struct {
	Gate            middleware.Gate
	StudentAuth     handler.StudentAuthService
	CoordinatorAuth handler.CoordinatorAuthService
	Students        handler.StudentService
	Resumes         handler.ResumeService
	Jobs            handler.JobService
	Recruiters      handler.RecruiterService
	Dashboard       handler.DashboardService
}

// Options configures transport concerns of the router.
type Options struct {
	Cookies     handler.Cookies
	CORSOrigins []string
	// Registry receives HTTP metrics and is served on /metrics.
	Registry *prometheus.Registry
}

// Router wires handlers, the access gate and shared middleware.
type Router struct {
	services       Services
	options        Options
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates a new HTTP Router instance.
func New(services Services, options Options, contextManager model.ContextManager, logger *logger.Logger) *Router {
	if options.Registry == nil {
		options.Registry = prometheus.NewRegistry()
	}
	return &Router{
		services:       services,
		options:        options,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register builds the handler tree.
func (r *Router) Register() http.Handler {
	metrics := middleware.NewMetrics(r.options.Registry)
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.services.Gate, r.contextManager, r.options.Cookies.Name, metrics, r.logger)

	mux := chi.NewRouter()
	mux.Use(chimiddleware.RequestID)
	mux.Use(chimiddleware.RealIP)
	mux.Use(logging.Handler)
	mux.Use(metrics.Handler)
	mux.Use(chimiddleware.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.options.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	mux.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(r.options.Registry, promhttp.HandlerOpts{}))

	student := func(g chi.Router) {
		g.Use(authenticate.Handler, middleware.RequireRole(r.contextManager, model.RoleStudent, r.logger))
	}
	tap := func(g chi.Router) {
		g.Use(authenticate.Handler, middleware.RequireRole(r.contextManager, model.RoleTAP, r.logger))
	}

	mux.Route("/api", func(api chi.Router) {
		r.registerStudentAuthRoutes(api, student)
		r.registerCoordinatorAuthRoutes(api, tap)

		api.Group(func(g chi.Router) {
			student(g)
			r.registerStudentRoutes(g)
		})
		api.Group(func(g chi.Router) {
			tap(g)
			r.registerCoordinatorRoutes(g)
		})
	})

	return mux
}

func (r *Router) registerStudentAuthRoutes(api chi.Router, gate func(chi.Router)) {
	h := handler.NewStudentAuth(r.services.StudentAuth, r.options.Cookies, r.logger)
	api.Route("/auth/student", func(g chi.Router) {
		g.Post("/register", h.Register)
		g.Post("/login", h.Login)
		g.Post("/reset-password", h.ResetPassword)
		g.Post("/confirm-reset-password", h.ConfirmResetPassword)
		g.Group(func(g chi.Router) {
			gate(g)
			g.Post("/logout", h.Logout)
		})
	})
}

func (r *Router) registerCoordinatorAuthRoutes(api chi.Router, gate func(chi.Router)) {
	h := handler.NewCoordinatorAuth(r.services.CoordinatorAuth, r.options.Cookies, r.logger)
	api.Route("/auth/tap", func(g chi.Router) {
		g.Post("/register", h.Register)
		g.Post("/login", h.Login)
		g.Post("/reset-password", h.ResetPassword)
		g.Post("/confirm-reset-password", h.ConfirmResetPassword)
		g.Group(func(g chi.Router) {
			gate(g)
			g.Post("/logout", h.Logout)
		})
	})
}

func (r *Router) registerStudentRoutes(g chi.Router) {
	students := handler.NewStudent(r.services.Students, r.services.Resumes, r.contextManager, r.logger)
	jobs := handler.NewStudentJobs(r.services.Jobs, r.contextManager, r.logger)

	g.Get("/dashboard/student", students.Dashboard)
	g.Put("/dashboard/student", students.UpdateProfile)

	g.Route("/student/resume", func(g chi.Router) {
		g.Post("/", students.UploadResume)
		g.Put("/", students.UploadResume)
		g.Get("/", students.GetResume)
		g.Delete("/", students.DeleteResume)
	})

	g.Route("/jobs/student", func(g chi.Router) {
		g.Get("/", jobs.List)
		g.Get("/applications", jobs.Applications)
		g.Get("/{id}", jobs.Get)
		g.Post("/{id}/apply", jobs.Apply)
	})
}

func (r *Router) registerCoordinatorRoutes(g chi.Router) {
	jobs := handler.NewCoordinatorJobs(r.services.Jobs, r.contextManager, r.logger)
	students := handler.NewCoordinatorStudents(r.services.Students, r.logger)
	recruiters := handler.NewRecruiters(r.services.Recruiters, r.logger)
	dashboard := handler.NewDashboard(r.services.Dashboard, r.logger)

	g.Route("/jobs/tap", func(g chi.Router) {
		g.Post("/", jobs.Create)
		g.Get("/", jobs.List)
		g.Get("/pending", jobs.Pending)
		g.Get("/applications", jobs.Applications)
		g.Put("/{id}/applications/{studentId}", jobs.UpdateApplicationStatus)
		g.Get("/{id}", jobs.Get)
		g.Put("/{id}", jobs.Update)
		g.Delete("/{id}", jobs.Delete)
		g.Post("/{id}/verify", jobs.Verify)
		g.Post("/{id}/jd", jobs.UploadJD)
	})

	g.Route("/student/tap", func(g chi.Router) {
		g.Get("/", students.List)
		g.Get("/applications/{id}", students.Applications)
		g.Get("/{id}", students.Get)
	})

	g.Route("/recruiter/tap", func(g chi.Router) {
		g.Get("/", recruiters.List)
		g.Post("/", recruiters.Create)
		g.Get("/{id}", recruiters.Get)
		g.Put("/{id}", recruiters.Verify)
		g.Delete("/{id}", recruiters.Delete)
	})

	g.Get("/dashboard/tap", dashboard.Stats)
	g.Post("/dashboard/tap", dashboard.ImportCGPA)
}

// compile-time checks that the services satisfy the handler contracts.
var (
	_ middleware.Gate                = (*service.Gate)(nil)
	_ handler.StudentAuthService     = (*service.StudentAuth)(nil)
	_ handler.CoordinatorAuthService = (*service.CoordinatorAuth)(nil)
	_ handler.StudentService         = (*service.Students)(nil)
	_ handler.ResumeService          = (*service.Resumes)(nil)
	_ handler.JobService             = (*service.Jobs)(nil)
	_ handler.RecruiterService       = (*service.Recruiters)(nil)
	_ handler.DashboardService       = (*service.Dashboard)(nil)
)
