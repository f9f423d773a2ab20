package main

import (
	"log"
	"net/http"

	"cofoundr_server/config"
	"cofoundr_server/routes"
	"cofoundr_server/services"
	"cofoundr_server/socket"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient(cfg.AWSRegion)
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Initialize Socket.IO gateway for realtime notifications
	gateway := socket.NewGateway()

	// Payment provider client
	provider := services.NewPaystackProvider(cfg.ProviderSecretKey, cfg.ProviderBaseURL)

	// Initialize Services
	notificationService := &services.NotificationService{Dynamo: dynamoService, Emitter: gateway}
	auditService := &services.AuditService{Dynamo: dynamoService}
	userProfileService := &services.UserProfileService{Dynamo: dynamoService, Config: cfg}
	subscriptionService := &services.SubscriptionService{Dynamo: dynamoService}
	matchService := &services.MatchService{
		Dynamo:   dynamoService,
		Config:   cfg,
		Profiles: userProfileService,
		Notifier: notificationService,
		Audit:    auditService,
	}
	teamService := &services.TeamService{
		Dynamo:   dynamoService,
		Config:   cfg,
		Matches:  matchService,
		Notifier: notificationService,
		Audit:    auditService,
	}
	matchService.Teams = teamService
	requestService := &services.RequestService{
		Dynamo:   dynamoService,
		Config:   cfg,
		Profiles: userProfileService,
		Matches:  matchService,
		Provider: provider,
		Notifier: notificationService,
		Audit:    auditService,
	}
	verificationService := &services.VerificationService{
		Dynamo:   dynamoService,
		Matches:  matchService,
		Profiles: userProfileService,
		Notifier: notificationService,
		Audit:    auditService,
	}
	cancellationService := &services.CancellationService{
		Dynamo:   dynamoService,
		Matches:  matchService,
		Teams:    teamService,
		Profiles: userProfileService,
		Notifier: notificationService,
		Audit:    auditService,
	}
	paymentService := &services.PaymentService{
		Dynamo:        dynamoService,
		Config:        cfg,
		Requests:      requestService,
		Matches:       matchService,
		Profiles:      userProfileService,
		Verifications: verificationService,
		Subscriptions: subscriptionService,
		Provider:      provider,
		Notifier:      notificationService,
		Audit:         auditService,
	}

	// Initialize the router
	r := mux.NewRouter()

	// Register routes
	routes.RegisterRoutes(r)
	routes.RegisterUserProfileRoutes(r, userProfileService)
	routes.RegisterRequestRoutes(r, requestService)
	routes.RegisterPaymentRoutes(r, paymentService)
	routes.RegisterMatchRoutes(r, matchService)
	routes.RegisterTeamRoutes(r, teamService)
	routes.RegisterCancellationRoutes(r, cancellationService)
	routes.RegisterVerificationRoutes(r, verificationService)
	routes.RegisterNotificationRoutes(r, notificationService)

	// Mount the Socket.IO server
	socketServer := gateway.Server()
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("❌ Socket.IO server error: %v", err)
		}
	}()
	defer socketServer.Close()
	r.Handle("/socket.io/", socketServer)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", cfg.ServerPort)
	log.Fatal(http.ListenAndServe(":"+cfg.ServerPort, corsHandler))
}
