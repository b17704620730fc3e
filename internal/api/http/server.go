package httpapi

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/voyagepal/voyagepal-api/internal/ai"
	"github.com/voyagepal/voyagepal-api/internal/ai/gemini"
	"github.com/voyagepal/voyagepal-api/internal/auth"
	"github.com/voyagepal/voyagepal-api/internal/common"
	"github.com/voyagepal/voyagepal-api/internal/planner"
)

const appName = "voyagepal-api"

// Options configures the Fiber app.
type Options struct {
	CORSOrigins []string
	// RequestTimeout bounds reads and writes. AI calls can take a while, so
	// keep it well above the upstream HTTP timeout.
	RequestTimeout time.Duration
	// DisableRequestLog turns off the access log (used by tests).
	DisableRequestLog bool
}

// NewApp builds the Fiber app with middleware, error handling and all routes.
func NewApp(svc Services, opts Options) *fiber.App {
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	app := fiber.New(fiber.Config{
		AppName:               appName,
		DisableStartupMessage: true,
		ReadTimeout:           timeout,
		WriteTimeout:          timeout,
		ErrorHandler:          errorHandler,
	})

	if !opts.DisableRequestLog {
		app.Use(logger.New())
	}
	app.Use(recover.New())
	if len(opts.CORSOrigins) > 0 {
		origins := strings.Join(opts.CORSOrigins, ",")
		app.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
			AllowCredentials: origins != "*",
		}))
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Welcome to VoyagePal API!"})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": appName,
		})
	})

	RegisterRoutes(app, svc)
	return app
}

// errorHandler renders every error as {"error": true, "message": ...}.
// Domain errors returned by handlers are mapped to status codes here.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := err.Error()
	body := fiber.Map{"error": true}

	var fe *fiber.Error
	var se *ai.SchemaValidationError
	var ue *common.StatusError
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.As(err, &se):
		code = fiber.StatusBadGateway
		msg = "AI response did not match the expected format"
		body["fields"] = se.Fields
	case errors.Is(err, ai.ErrMalformedResponse), errors.Is(err, gemini.ErrEmptyResponse):
		code = fiber.StatusBadGateway
		msg = "AI response could not be parsed"
	case errors.Is(err, common.ErrCircuitOpen):
		code = fiber.StatusServiceUnavailable
		msg = "upstream service temporarily unavailable"
	case errors.As(err, &ue):
		code = fiber.StatusBadGateway
		msg = "upstream service rejected the request"
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		code = fiber.StatusUnauthorized
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		if errors.Is(err, auth.ErrInvalidToken) {
			msg = auth.ErrInvalidToken.Error()
		}
	case errors.Is(err, auth.ErrEmailTaken), errors.Is(err, planner.ErrPreferencesExist), errors.Is(err, planner.ErrInvalidDate):
		code = fiber.StatusBadRequest
	case errors.Is(err, planner.ErrPreferencesNotFound), errors.Is(err, planner.ErrTripNotFound):
		code = fiber.StatusNotFound
	default:
		msg = "internal server error"
	}

	if code >= fiber.StatusInternalServerError {
		log.Printf("ERROR: %s %s: %v", c.Method(), c.Path(), err)
	}

	body["message"] = msg
	return c.Status(code).JSON(body)
}
