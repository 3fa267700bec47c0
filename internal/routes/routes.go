package routes

import (
	"log"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/saeid-a/GymAppBack/internal/config"
	"github.com/saeid-a/GymAppBack/internal/facebook"
	"github.com/saeid-a/GymAppBack/internal/handlers"
	"github.com/saeid-a/GymAppBack/internal/middleware"
	"github.com/saeid-a/GymAppBack/internal/repository"
	"github.com/saeid-a/GymAppBack/internal/services"
	livews "github.com/saeid-a/GymAppBack/internal/websocket"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool, redisClient *redis.Client) error {
	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	exerciseRepo := repository.NewExerciseRepository(db)
	planRepo := repository.NewWorkoutPlanRepository(db)
	sessionRepo := repository.NewWorkoutSessionRepository(db)
	goalRepo := repository.NewGoalRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	clientRepo := repository.NewTrainerClientRepository(db)
	taskRepo := repository.NewTrainerTaskRepository(db)
	inviteRepo := repository.NewMemberInviteRepository(db)
	programRepo := repository.NewClientProgramRepository(db)

	var storageService services.StorageService
	if cfg.S3Bucket != "" && cfg.S3AccessKeyID != "" && cfg.S3SecretAccessKey != "" {
		s3Service, err := services.NewS3StorageService(services.S3Config{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			return err
		}
		storageService = s3Service
	}

	var exerciseCache services.ExerciseCache
	if redisClient != nil {
		exerciseCache = services.NewRedisExerciseCache(redisClient)
	}

	var mailer services.Mailer
	if cfg.ResendAPIKey != "" {
		mailer = services.NewResendMailer(cfg.ResendAPIKey, cfg.InviteFromEmail)
	} else {
		log.Println("RESEND_API_KEY not set, invite emails disabled")
	}

	var graphClient *facebook.Client
	if cfg.FacebookAccessToken != "" {
		graphClient = facebook.NewClient(cfg.FacebookGraphURL, cfg.FacebookAccessToken)
	}

	exerciseService := services.NewExerciseService(exerciseRepo, exerciseCache, storageService)
	planService := services.NewPlanService(planRepo, exerciseRepo)
	sessionService := services.NewSessionService(sessionRepo, planService, exerciseRepo, programRepo)
	goalService := services.NewGoalService(goalRepo)
	leadService := services.NewLeadService(leadRepo, graphClient)
	memberService := services.NewMemberService(orgRepo, userRepo, inviteRepo, mailer)
	trainerService := services.NewTrainerService(clientRepo, taskRepo, userRepo)
	programService := services.NewProgramService(programRepo, clientRepo)

	liveHub := livews.NewHub()
	go liveHub.Run()

	authHandler := handlers.NewAuthHandler(db, userRepo, cfg.JWTSecret)
	exerciseHandler := handlers.NewExerciseHandler(exerciseService)
	planHandler := handlers.NewPlanHandler(planService)
	sessionHandler := handlers.NewSessionHandler(sessionService, liveHub)
	goalHandler := handlers.NewGoalHandler(goalService)
	orgHandler := handlers.NewOrganizationHandler(memberService, userRepo)
	leadHandler := handlers.NewLeadHandler(leadService, userRepo)
	trainerHandler := handlers.NewTrainerHandler(trainerService, programService)
	onboardingHandler := handlers.NewOnboardingHandler(goalService, planService, programService, sessionService)
	webhookHandler := handlers.NewWebhookHandler(leadService, cfg.FacebookVerifyToken)
	cronHandler := handlers.NewCronHandler(sessionService, cfg.CronSecret, cfg.JWTSecret)
	liveHandler := handlers.NewLiveHandler(sessionService, trainerService, liveHub, cfg.JWTSecret)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)
	auth.Put("/profile", middleware.AuthRequired(cfg.JWTSecret), authHandler.UpdateProfile)

	webhooks := api.Group("/webhooks")
	webhooks.Get("/facebook", webhookHandler.Verify)
	webhooks.Post("/facebook", webhookHandler.Receive)

	crons := api.Group("/crons")
	crons.Get("/update-workout-session", cronHandler.PopulateSessions)

	protected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	exercises := protected.Group("/exercises")
	exercises.Get("", exerciseHandler.Search)
	exercises.Get("/:id", exerciseHandler.GetExercise)

	plans := protected.Group("/workout-plans")
	plans.Post("", planHandler.CreatePlan)
	plans.Get("", planHandler.ListPlans)
	plans.Get("/:id", planHandler.GetPlan)
	plans.Put("/:id", planHandler.RenamePlan)
	plans.Delete("/:id", planHandler.DeletePlan)
	plans.Post("/:id/edit", planHandler.EditPlan)
	plans.Post("/:id/items", planHandler.AddItem)
	plans.Delete("/:id/items/:itemId", planHandler.RemoveItem)
	plans.Put("/:id/items/reorder", planHandler.ReorderItems)
	plans.Post("/:id/items/:itemId/sets", planHandler.AddSet)
	plans.Put("/:id/sets/:setId", planHandler.UpdateSet)
	plans.Delete("/:id/sets/:setId", planHandler.RemoveSet)

	sessions := protected.Group("/workout-sessions")
	sessions.Post("", sessionHandler.StartSession)
	sessions.Get("", sessionHandler.ListSessions)
	sessions.Get("/:id", sessionHandler.GetSession)
	sessions.Post("/:id/set-logs", sessionHandler.LogSet)
	sessions.Post("/:id/complete", sessionHandler.CompleteSession)

	goals := protected.Group("/goals")
	goals.Put("", goalHandler.SetTargets)
	goals.Get("", goalHandler.GetTargets)
	goals.Post("/logs", goalHandler.LogDay)
	goals.Get("/logs", goalHandler.ListLogs)

	organization := protected.Group("/organization")
	organization.Get("", orgHandler.GetOrganization)
	organization.Get("/members", orgHandler.ListMembers)
	organization.Get("/invites", orgHandler.ListInvites)
	organization.Post("/invites", orgHandler.InviteMember)
	organization.Post("/invites/batch", orgHandler.BatchInvite)

	leads := protected.Group("/leads")
	leads.Post("", leadHandler.CreateLead)
	leads.Get("", leadHandler.ListLeads)
	leads.Put("/:id/status", leadHandler.UpdateLeadStatus)

	trainer := protected.Group("/trainer")
	trainer.Post("/clients", trainerHandler.AssignClient)
	trainer.Get("/clients", trainerHandler.ListClients)
	trainer.Put("/clients/:clientId/notes", trainerHandler.UpdateClientNotes)
	trainer.Delete("/clients/:clientId", trainerHandler.UnassignClient)
	trainer.Post("/tasks", trainerHandler.CreateTask)
	trainer.Get("/tasks", trainerHandler.ListTasks)
	trainer.Put("/tasks/:id", trainerHandler.UpdateTask)
	trainer.Delete("/tasks/:id", trainerHandler.DeleteTask)

	protected.Get("/programs", trainerHandler.ListPrograms)

	onboarding := protected.Group("/onboarding")
	onboarding.Post("/validate", onboardingHandler.Validate)
	onboarding.Post("/submit", onboardingHandler.Submit)

	api.Use("/v1/ws/sessions/:id", liveHandler.WebSocketAuth)
	api.Get("/v1/ws/sessions/:id", websocket.New(liveHandler.HandleWebSocket))

	return nil
}
