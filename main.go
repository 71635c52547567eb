// main.go
package main

import (
	"fmt"
	"log"

	"github.com/ariebrainware/onco-intake/config"
	"github.com/ariebrainware/onco-intake/endpoint"
	"github.com/ariebrainware/onco-intake/middleware"
	"github.com/ariebrainware/onco-intake/model"
	"github.com/ariebrainware/onco-intake/util"
	"github.com/gin-gonic/gin"
)

// @title           Onco Intake API
// @version         1.0
// @description     Symptom-based cancer risk intake with an administrator record console.
// @BasePath        /
// @securityDefinitions.apikey SessionToken
// @in cookie
// @name session-token
func main() {
	// Load the configuration
	cfg := config.LoadConfig()

	// Set Gin mode from config
	gin.SetMode(cfg.GinMode)

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err := db.AutoMigrate(&model.Patient{}, &model.Session{}, &model.SecurityLog{}); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	if _, err := config.ConnectRedis(); err != nil {
		log.Printf("Warning: Redis unavailable, falling back to in-process rate limiting: %v", err)
	}

	util.SetSecurityLoggerDB(db)
	if err := util.InitGeoIP(cfg.GeoIPDBPath); err != nil {
		log.Printf("Warning: GeoIP disabled: %v", err)
	}
	defer util.CloseGeoIP()
	if cfg.JWTSecret == "" {
		log.Fatal("JWTSECRET must be set")
	}
	util.SetJWTSecret(cfg.JWTSecret)

	admin, err := util.NewAdminCredential(cfg.AdminUser, cfg.AdminPassHash, cfg.AdminPass)
	if err != nil {
		log.Fatalf("Error configuring administrator: %v", err)
	}

	uploads, err := util.NewUploadStore(cfg.UploadDir, cfg.MaxUploadMB<<20)
	if err != nil {
		log.Fatalf("Error preparing upload directory: %v", err)
	}

	router, err := endpoint.SetupRouter(endpoint.RouterOptions{
		DB:      db,
		Uploads: uploads,
		Admin:   admin,
		LoginRate: middleware.RateLimitConfig{
			Limit:  cfg.LoginRateLimit,
			Window: cfg.LoginRateWindow,
		},
	})
	if err != nil {
		log.Fatalf("Error building router: %v", err)
	}

	// Start server on specified port
	address := fmt.Sprintf(":%d", cfg.AppPort)
	if err := router.Run(address); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
