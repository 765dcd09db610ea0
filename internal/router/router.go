package router

import (
	"database/sql"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"pet-community/internal/adapters/notify/sendgridmail"
	"pet-community/internal/adapters/objectstore/miniostore"
	"pet-community/internal/adapters/openai"
	"pet-community/internal/adapters/realtime/hub"
	mem "pet-community/internal/adapters/storage/memory"
	pg "pet-community/internal/adapters/storage/postgres"
	"pet-community/internal/domain/pets"
	"pet-community/internal/domain/places"
	"pet-community/internal/domain/reports"
	"pet-community/internal/domain/reviews"
	"pet-community/internal/domain/rewards"
	"pet-community/internal/domain/users"
	"pet-community/internal/middleware"
	"pet-community/internal/platform/logger"
	"pet-community/internal/ports/auth"
	"pet-community/internal/ports/imagegen"
	"pet-community/internal/ports/notify"
	"pet-community/internal/ports/objectstore"
	"pet-community/internal/ports/vision"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // may be nil (dev mode)

	// Optional: when set, use Postgres. Otherwise in-memory.
	DB *sql.DB

	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		userRepo   users.Repository
		petRepo    pets.Repository
		placeRepo  places.Repository
		reportRepo reports.Repository
		reviewRepo reviews.Repository
		cardRepo   rewards.Repository
	)

	// When no DB is passed explicitly, try env (dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres unavailable, using in-memory storage", map[string]any{"error": err.Error()})
			}
		}
	}

	if db != nil {
		userRepo = pg.NewUsersRepo(db)
		petRepo = pg.NewPetsRepo(db)
		placeRepo = pg.NewPlacesRepo(db)
		reportRepo = pg.NewReportsRepo(db)
		reviewRepo = pg.NewReviewsRepo(db)
		cardRepo = pg.NewCardsRepo(db)
	} else {
		userRepo = mem.NewUserRepo()
		petRepo = mem.NewPetRepo()
		placeRepo = mem.NewPlaceRepo()
		reportRepo = mem.NewReportRepo()
		reviewRepo = mem.NewReviewRepo()
		cardRepo = mem.NewCardRepo()
	}

	// Optional collaborators, each degrading to a no-op when unconfigured.
	wsHub := hub.New(log)

	var mailer notify.Notifier
	if cfg := sendgridmail.ConfigFromEnv(); cfg.Enabled() {
		mailer = sendgridmail.New(cfg)
	}

	var (
		describer vision.Describer
		synth     imagegen.Synthesizer
	)
	if cfg := openai.ConfigFromEnv(); cfg.Enabled() {
		if ai, err := openai.New(cfg); err == nil {
			describer = ai
			synth = ai
		} else {
			log.Warn("openai client disabled", map[string]any{"error": err.Error()})
		}
	}

	var store objectstore.Uploader
	if cfg := miniostore.ConfigFromEnv(); cfg.Enabled() {
		if s, err := miniostore.New(cfg); err == nil {
			store = s
		} else {
			log.Warn("object storage disabled", map[string]any{"error": err.Error()})
		}
	}

	// Services per module
	usersSvc := users.NewService(userRepo)
	petsSvc := pets.NewService(petRepo)
	placesSvc := places.NewService(placeRepo)
	reportsSvc := reports.NewService(reportRepo, usersSvc, wsHub, mailer, log)

	composer := rewards.NewComposer(describer, nil)
	pipeline := rewards.NewPipeline(synth, nil, store, log)
	rewardsSvc := rewards.NewService(cardRepo, petsSvc, composer, pipeline, log)

	reviewsSvc := reviews.NewService(reviewRepo, placesSvc, rewardsSvc, usersSvc, log)

	// Routes per module
	users.RegisterRoutes(r, usersSvc)
	pets.RegisterRoutes(r, petsSvc)
	places.RegisterRoutes(r, placesSvc)
	reports.RegisterRoutes(r, reportsSvc)
	reviews.RegisterRoutes(r, reviewsSvc)
	rewards.RegisterRoutes(r, rewardsSvc)

	hub.NewHandler(wsHub).RegisterRoutes(r)

	return r
}
