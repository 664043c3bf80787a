package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/middleware"
	"github.com/Windi-Fikriyansyah/platform_be_freelance/internal/models"
)

type AppConfig struct {
	JWTSecret   string
	CORSOrigins string
	UploadDir   string
}

// Handlers groups the route handlers. Google may be nil when sign-in with
// Google is not configured.
type Handlers struct {
	Auth     *AuthHandler
	Google   *GoogleOAuthHandler
	Jobs     *JobHandler
	Bids     *BidHandler
	Messages *MessageHandler
}

func NewApp(cfg AppConfig, h Handlers) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler,
		BodyLimit:    4 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
	}))

	app.Static("/uploads", cfg.UploadDir)

	Routes(app.Group("/api"), cfg.JWTSecret, h)
	return app
}

func Routes(api fiber.Router, secret string, h Handlers) {
	authed := middleware.RequireAuth(secret)
	client := middleware.RequireRoles(models.RoleClient)
	freelancer := middleware.RequireRoles(models.RoleFreelancer)

	a := api.Group("/auth")
	a.Post("/register", h.Auth.Register)
	a.Post("/login", h.Auth.Login)
	a.Post("/logout", h.Auth.Logout)
	a.Post("/validateotp", h.Auth.ValidateOTP)
	a.Post("/resendotp", h.Auth.ResendOTP)
	a.Post("/forgotpassword", h.Auth.ForgotPassword)
	a.Post("/reset-password/:token", h.Auth.ResetPassword)
	if h.Google != nil {
		a.Get("/google/start", h.Google.GoogleStart)
		a.Get("/google/callback", h.Google.GoogleCallback)
	}
	a.Post("/updatepassword", authed, h.Auth.UpdatePassword)
	a.Get("/me", authed, h.Auth.Me)
	a.Get("/dashboard", authed, h.Auth.Dashboard)
	a.Patch("/profile", authed, h.Auth.UpdateProfile)

	// static segments before :id
	j := api.Group("/jobs")
	j.Post("", authed, client, h.Jobs.Create)
	j.Get("", h.Jobs.List)
	j.Get("/client", authed, client, h.Jobs.Mine)
	j.Get("/clients/:clientId", h.Jobs.ClientSummary)
	j.Get("/:id", h.Jobs.Get)
	j.Put("/:id", authed, client, h.Jobs.Update)
	j.Delete("/:id", authed, client, h.Jobs.Delete)
	j.Patch("/:id/complete", authed, client, h.Jobs.Complete)

	b := api.Group("/bids", authed)
	b.Get("/client", client, h.Bids.ListForClient)
	b.Get("/mine", freelancer, h.Bids.Mine)
	b.Post("/:jobId", freelancer, h.Bids.Place)
	b.Get("/:jobId", client, h.Bids.ListForJob)
	b.Patch("/:bidId/accept", client, h.Bids.Accept)
	b.Patch("/:bidId/reject", client, h.Bids.Reject)

	m := api.Group("/messages", authed)
	m.Post("", h.Messages.Send)
	m.Get("/:userId", h.Messages.Conversation)
}
