package httpapi

import (
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/voyagepal/voyagepal-api/internal/auth"
	"github.com/voyagepal/voyagepal-api/internal/forecast"
	"github.com/voyagepal/voyagepal-api/internal/planner"
)

var validate = validator.New()

// Services are the domain services the routes call into.
type Services struct {
	Auth    *auth.Service
	Planner *planner.Service
	Weather planner.Forecaster
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, svc Services) {
	v1 := app.Group("/api/v1")
	protected := requireAuth(svc.Auth)

	registerAuthRoutes(v1.Group("/auth"), svc.Auth)
	registerPreferenceRoutes(v1.Group("/user", protected), svc.Planner)
	registerTripRoutes(v1.Group("/trip", protected), svc.Planner)
	registerDataRoutes(v1.Group("/data", protected), svc.Weather)
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name"`
}

// tokenRequest accepts OAuth2 password-style form posts as well as JSON.
type tokenRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

func registerAuthRoutes(r fiber.Router, svc *auth.Service) {
	r.Post("/register", func(c *fiber.Ctx) error {
		var req registerRequest
		if err := bind(c, &req); err != nil {
			return err
		}

		u, err := svc.Register(c.UserContext(), req.Email, req.Password, req.FullName)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"message": "User registered successfully",
			"id":      u.ID,
		})
	})

	r.Post("/token", func(c *fiber.Ctx) error {
		var req tokenRequest
		if err := bind(c, &req); err != nil {
			return err
		}

		tok, err := svc.Login(c.UserContext(), req.Username, req.Password)
		if err != nil {
			return err
		}
		return c.JSON(tok)
	})

	r.Get("/me", requireAuth(svc), func(c *fiber.Ctx) error {
		u := currentUser(c)
		return c.JSON(fiber.Map{
			"id":         u.ID,
			"email":      u.Email,
			"full_name":  u.FullName,
			"created_at": u.CreatedAt,
		})
	})
}

func registerPreferenceRoutes(r fiber.Router, svc *planner.Service) {
	r.Get("/preferences", func(c *fiber.Ctx) error {
		p, err := svc.Preferences(c.UserContext(), currentUser(c).ID)
		if err != nil {
			return err
		}
		return c.JSON(p)
	})

	r.Post("/preferences", func(c *fiber.Ctx) error {
		var in planner.PreferencesInput
		if err := bind(c, &in); err != nil {
			return err
		}

		p, err := svc.CreatePreferences(c.UserContext(), currentUser(c).ID, in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	})

	r.Put("/preferences", func(c *fiber.Ctx) error {
		var in planner.PreferencesInput
		if err := bind(c, &in); err != nil {
			return err
		}

		p, err := svc.UpdatePreferences(c.UserContext(), currentUser(c).ID, in)
		if err != nil {
			return err
		}
		return c.JSON(p)
	})
}

func registerTripRoutes(r fiber.Router, svc *planner.Service) {
	r.Post("/plan/initial-suggestions", func(c *fiber.Ctx) error {
		var req planner.PlanRequest
		if err := bind(c, &req); err != nil {
			return err
		}

		plan, err := svc.InitialSuggestions(c.UserContext(), currentUser(c).ID, req)
		if err != nil {
			return err
		}
		return c.JSON(plan)
	})

	r.Post("/plan/detailed-analysis", func(c *fiber.Ctx) error {
		var req planner.SelectionRequest
		if err := bind(c, &req); err != nil {
			return err
		}

		analysis, err := svc.DetailedAnalysis(c.UserContext(), currentUser(c).ID, req)
		if err != nil {
			return err
		}
		return c.JSON(analysis)
	})

	r.Post("/plan/optimize-itinerary", func(c *fiber.Ctx) error {
		var req planner.SelectionRequest
		if err := bind(c, &req); err != nil {
			return err
		}

		itinerary, err := svc.OptimizeItinerary(c.UserContext(), currentUser(c).ID, req)
		if err != nil {
			return err
		}
		return c.JSON(itinerary)
	})

	r.Get("/trips", func(c *fiber.Ctx) error {
		trips, err := svc.ListTrips(c.UserContext(), currentUser(c).ID)
		if err != nil {
			return err
		}
		return c.JSON(trips)
	})

	r.Get("/trips/:id", func(c *fiber.Ctx) error {
		trip, err := svc.GetTrip(c.UserContext(), currentUser(c).ID, c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(trip)
	})
}

// registerDataRoutes exposes the weather report used by the planner. A day
// without forecast data is returned with "available": false.
func registerDataRoutes(r fiber.Router, forecaster planner.Forecaster) {
	r.Get("/weather/:city/:date", func(c *fiber.Ctx) error {
		city, err := url.PathUnescape(c.Params("city"))
		if err != nil || city == "" {
			return fiber.NewError(fiber.StatusBadRequest, "invalid city")
		}
		date, err := forecast.ParseDate(c.Params("date"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD.")
		}

		report, err := forecaster.Forecast(c.UserContext(), city, date)
		if err != nil {
			return err
		}
		return c.JSON(report)
	})
}

func bind(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
	}
	if err := validate.Struct(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}
