package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/mgrozdek22/TBP-nail-app/internal/config"
	"github.com/mgrozdek22/TBP-nail-app/internal/database"
	"github.com/mgrozdek22/TBP-nail-app/internal/handler"
	"github.com/mgrozdek22/TBP-nail-app/internal/logger"
	"github.com/mgrozdek22/TBP-nail-app/internal/middleware"
	"github.com/mgrozdek22/TBP-nail-app/internal/repository"
	"github.com/mgrozdek22/TBP-nail-app/internal/service"
)

// Deps are the long-lived resources the server is built from. Redis may
// be nil.
type Deps struct {
	Cfg       config.Config
	DB        *database.DB
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
	Publisher service.EventPublisher
	Log       *logger.Logger
}

// NewServer wires repositories, services and handlers into an Echo
// instance with every route registered.
func NewServer(d Deps) (*echo.Echo, error) {
	if d.Publisher == nil {
		d.Publisher = service.NopPublisher{}
	}

	users := repository.NewUserRepo(d.DB)
	tokens := repository.NewTokenRepo(d.DB)
	techs := repository.NewTechnicianRepo(d.DB)
	catalog := repository.NewCatalogRepo(d.DB)
	links := repository.NewLinkRepo(d.DB)
	schedule := repository.NewScheduleRepo(d.DB)
	edits := repository.NewProfileEditRepo(d.DB)
	reviews := repository.NewReviewRepo(d.DB)

	catalogSvc := service.NewCatalogService(techs, catalog, links, schedule)
	schedSvc := service.NewSchedulingService(d.DB, repository.NewIntervalStore(d.DB, techs), schedule, techs)
	profileSvc, err := service.NewProfileService(edits)
	if err != nil {
		return nil, err
	}
	reviewSvc := service.NewReviewService(reviews, d.Cfg.ReviewModeration)
	recSvc := service.NewRecommendService(techs, reviews, nil)
	modSvc := service.NewModerationService(repository.NewModerationRepo(d.DB), edits, techs, d.Publisher, d.Log)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = jsonErrorHandler(d.Log)
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(d.Log))

	cache := middleware.NewRedisCache(d.Cache, d.Redis)
	invalidate := middleware.NewCacheInvalidator(d.Cache, d.Redis, d.Log)
	limit := middleware.NewTokenBucket(d.RateLimit, d.Redis, d.Log)
	secret := d.Cfg.JWTSecret

	RegisterRoutes(e, d.DB)
	RegisterAuth(e, handler.NewAuthHandler(d.Cfg, users, tokens, d.Log), secret)
	RegisterPublic(e, handler.NewPublicHandler(catalogSvc, schedSvc, reviewSvc, d.Log), cache, secret)
	RegisterContributor(e,
		handler.NewContributorHandler(catalogSvc, schedSvc, profileSvc, reviewSvc, invalidate, d.Log),
		handler.NewRecommendHandler(recSvc, d.Log), secret, limit)
	RegisterModeration(e,
		handler.NewModerationHandler(modSvc, invalidate, d.Log),
		secret, limit)
	return e, nil
}

// jsonErrorHandler renders echo errors as {"error": message}.
func jsonErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code, msg := http.StatusInternalServerError, "internal error"
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if s, ok := he.Message.(string); ok {
				msg = s
			} else {
				msg = http.StatusText(code)
			}
		} else {
			log.Error("unhandled error", "path", c.Path(), "error", err)
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, echo.Map{"error": msg})
	}
}
