package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/coachdesk/coachdesk/internal/api/middleware"
	"github.com/coachdesk/coachdesk/internal/chat"
	"github.com/coachdesk/coachdesk/internal/config"
	"github.com/coachdesk/coachdesk/internal/docgen"
	"github.com/coachdesk/coachdesk/internal/handlers"
	"github.com/coachdesk/coachdesk/internal/store"
)

// maxPhotoSize mirrors the handlers' multipart limit; the body cap leaves
// headroom for the form fields around the file part.
const maxPhotoSize = 5 << 20

// NewRouter creates and configures the HTTP router.
func NewRouter(
	cfg *config.Config,
	logger zerolog.Logger,
	db store.DataStore,
	redisStore *store.RedisStore,
	chatSvc *chat.Service,
	docs *docgen.Generator,
) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	// Security middleware (order matters!)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodySize(maxPhotoSize + 64*1024))
	r.Use(middleware.ValidateRequest)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// Rate limiting needs Redis; without it, skip
	if redisStore != nil {
		limiter := middleware.NewRateLimiter(redisStore.Client(), logger, middleware.RateLimiterConfig{
			Whitelist:        cfg.RateLimitWhitelist,
			AutoBlockEnabled: cfg.AutoBlockEnabled,
		})
		r.Use(limiter.Middleware)
	}

	// CORS - the admin frontend is served from its own origin
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-ID"},
		ExposedHeaders:   []string{"Link", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	h := handlers.NewHandler(db, redisStore, chatSvc, docs, cfg.UploadDir, logger)
	ws := chat.NewSessionHandler(chatSvc, logger)

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// Public routes
	r.Get("/", h.Root)
	r.Get("/health", h.Health)

	// Stored files
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))
	r.Handle("/documents/*", http.StripPrefix("/documents/", http.FileServer(http.Dir(docs.Dir()))))

	// Live classroom chat
	r.Get("/ws/classrooms/{id}", func(w http.ResponseWriter, req *http.Request) {
		ws.Serve(w, req, chi.URLParam(req, "id"), req.URL.Query().Get("user_id"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/students", func(r chi.Router) {
			r.Post("/", h.CreateStudent)
			r.Get("/", h.ListStudents)
			r.Post("/login", h.StudentLogin)
			r.Get("/{id}", h.GetStudent)
			r.Put("/{id}", h.UpdateStudent)
			r.Delete("/{id}", h.DeleteStudent)
		})

		r.Route("/teachers", func(r chi.Router) {
			r.Post("/", h.CreateTeacher)
			r.Get("/", h.ListTeachers)
			r.Post("/login", h.TeacherLogin)
			r.Get("/{id}", h.GetTeacher)
			r.Put("/{id}", h.UpdateTeacher)
			r.Delete("/{id}", h.DeleteTeacher)
		})

		r.Route("/counsellors", func(r chi.Router) {
			r.Post("/", h.CreateCounsellor)
			r.Get("/", h.ListCounsellors)
			r.Post("/login", h.CounsellorLogin)
			r.Get("/{id}", h.GetCounsellor)
			r.Put("/{id}", h.UpdateCounsellor)
			r.Delete("/{id}", h.DeleteCounsellor)
		})

		r.Route("/courses", func(r chi.Router) {
			r.Post("/", h.CreateCourse)
			r.Get("/", h.ListCourses)
			r.Get("/{id}", h.GetCourse)
			r.Put("/{id}", h.UpdateCourse)
			r.Delete("/{id}", h.DeleteCourse)
		})

		r.Route("/classrooms", func(r chi.Router) {
			r.Post("/", h.CreateClassroom)
			r.Get("/", h.ListClassrooms)
			r.Get("/{id}", h.GetClassroom)
			r.Put("/{id}", h.UpdateClassroom)
			r.Delete("/{id}", h.DeleteClassroom)

			r.Post("/{id}/members", h.AddMember)
			r.Get("/{id}/members", h.ListMembers)
			r.Delete("/{id}/members/{uid}", h.RemoveMember)

			r.Get("/{id}/messages", h.GetMessages)
			r.Post("/{id}/messages", h.PostMessage)
			r.Delete("/{id}/messages/{mid}", h.DeleteMessage)
		})

		r.Route("/fees", func(r chi.Router) {
			r.Post("/", h.CreateFeeReceipt)
			r.Get("/", h.ListFeeReceipts)
			r.Get("/student/{sid}", h.GetStudentFeeReceipt)
			r.Get("/{id}", h.GetFeeReceipt)
			r.Put("/{id}", h.UpdateFeeReceipt)
			r.Delete("/{id}", h.DeleteFeeReceipt)
		})

		r.Route("/salaries", func(r chi.Router) {
			r.Post("/", h.CreateSalaries)
			r.Get("/teacher/{tid}", h.ListTeacherSalaries)
			r.Put("/{id}", h.UpdateSalary)
			r.Delete("/{id}", h.DeleteSalary)
		})

		r.Route("/enquiries", func(r chi.Router) {
			r.Post("/", h.CreateEnquiry)
			r.Get("/", h.ListEnquiries)
			r.Get("/{id}", h.GetEnquiry)
			r.Put("/{id}", h.UpdateEnquiry)
			r.Post("/{id}/confirm", h.ConfirmEnquiry)
			r.Delete("/{id}", h.DeleteEnquiry)
		})

		r.Route("/commissions", func(r chi.Router) {
			r.Get("/", h.ListCommissions)
			r.Get("/counsellor/{cid}", h.ListCounsellorCommissions)
			r.Get("/{id}", h.GetCommission)
			r.Put("/{id}/payment", h.PayCommission)
		})

		r.Route("/announcements", func(r chi.Router) {
			r.Post("/", h.CreateAnnouncement)
			r.Get("/", h.ListAnnouncements)
			r.Get("/{id}", h.GetAnnouncement)
			r.Put("/{id}", h.UpdateAnnouncement)
			r.Delete("/{id}", h.DeleteAnnouncement)
		})
	})

	return r
}
