package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/machinery-maintenance/internal/auth"
	"github.com/ukydev/machinery-maintenance/internal/db"
	"github.com/ukydev/machinery-maintenance/internal/frequency"
	"github.com/ukydev/machinery-maintenance/internal/handlers"
	"github.com/ukydev/machinery-maintenance/internal/middleware"
)

func newRouter(authHandler *handlers.AuthHandler, datasetHandler *handlers.DatasetHandler, authMiddleware *middleware.AuthMiddleware) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/me", authHandler.GetProfile)
	mux.HandleFunc("/api/auth/password", authHandler.ChangePassword)

	mux.Handle("/api/datasets", authMiddleware.RequirePermission("upload_data")(http.HandlerFunc(datasetHandler.Upload)))
	mux.Handle("/api/datasets/{id}", authMiddleware.RequirePermission("view_datasets")(http.HandlerFunc(datasetHandler.GetDataset)))
	mux.Handle("/api/datasets/{id}/filter", authMiddleware.RequirePermission("run_analysis")(http.HandlerFunc(datasetHandler.Filter)))
	mux.Handle("/api/datasets/{id}/kpis", authMiddleware.RequirePermission("view_kpis")(http.HandlerFunc(datasetHandler.KPIs)))
	mux.Handle("/api/datasets/{id}/machinery", authMiddleware.RequirePermission("view_machinery")(http.HandlerFunc(datasetHandler.Machinery)))
	mux.Handle("/api/datasets/{id}/export", authMiddleware.RequirePermission("export_reports")(http.HandlerFunc(datasetHandler.Export)))
	mux.Handle("/api/categorize", authMiddleware.RequirePermission("categorize")(http.HandlerFunc(datasetHandler.Categorize)))
	return mux
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, using process environment")
	}
	if os.Getenv("LOG_FORMAT") == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	log.Info("Connected to MongoDB")

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "machinery_maintenance"
	}
	userCollection := &db.MongoUserCollection{Collection: client.Database(dbName).Collection("users")}
	auditCollection := &db.MongoAuditCollection{Collection: client.Database(dbName).Collection("upload_audits")}

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}

	registry := handlers.NewSessionRegistry()
	parser := frequency.NewParser()

	authHandler := handlers.NewAuthHandler(authService, userCollection)
	datasetHandler := handlers.NewDatasetHandler(registry, parser, auditCollection)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimitMiddleware()

	mux := newRouter(authHandler, datasetHandler, authMiddleware)
	handler := rateLimiter.RateLimit(300, 60)(authMiddleware.Authenticate(mux))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("HTTP server listening")
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
