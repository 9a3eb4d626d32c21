package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rankforge/site-backend/api"
	"github.com/rankforge/site-backend/auth"
	"github.com/rankforge/site-backend/config"
	"github.com/rankforge/site-backend/database"
	"github.com/rankforge/site-backend/services"
	"github.com/rankforge/site-backend/storage"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openDatabase(c map[string]string) (*gorm.DB, error) {
	level := logger.Warn
	if config.GetBool(c, "DB_LOG_QUERIES", false) {
		level = logger.Info
	}
	return database.Open(database.Options{
		DSN:                  config.GetString(c, "DATABASE_URL", ""),
		ReplicaDSNs:          config.GetList(c, "DATABASE_REPLICA_URLS"),
		PreferSimpleProtocol: config.GetBool(c, "DB_PREFER_SIMPLE_PROTOCOL", false),
		LogLevel:             level,
		SlowThreshold:        time.Duration(config.GetInt(c, "DB_SLOW_QUERY_MS", 1000)) * time.Millisecond,
		MaxOpenConns:         config.GetInt(c, "DB_MAX_OPEN_CONNS", 20),
		MaxIdleConns:         config.GetInt(c, "DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime:      config.GetSeconds(c, "DB_CONN_MAX_LIFETIME_SECONDS", 1800),
	})
}

// mediaBackend picks local disk or S3 from STORAGE_BACKEND. The returned directory is
// non-empty when files must be served by this process.
func mediaBackend(ctx context.Context, c map[string]string) (storage.Backend, string, error) {
	switch backend := strings.ToLower(config.GetString(c, "STORAGE_BACKEND", "local")); backend {
	case "local":
		dir := config.GetString(c, "UPLOAD_DIR", "./uploads")
		local, err := storage.NewLocalBackend(dir, config.GetString(c, "UPLOAD_URL_PREFIX", "/uploads"))
		if err != nil {
			return nil, "", err
		}
		return local, dir, nil
	case "s3":
		bucket := config.GetString(c, "S3_BUCKET", "")
		if bucket == "" {
			return nil, "", fmt.Errorf("S3_BUCKET is required when STORAGE_BACKEND=s3")
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("loading aws config: %w", err)
		}
		client := s3.NewFromConfig(awsCfg)
		return storage.NewS3Backend(client, bucket, config.GetString(c, "S3_PREFIX", "uploads"),
			config.GetString(c, "S3_PUBLIC_URL", "")), "", nil
	default:
		return nil, "", fmt.Errorf("unknown STORAGE_BACKEND %q", backend)
	}
}

// buildDependencies wires the HTTP layer from the database and the configured services.
func buildDependencies(ctx context.Context, c map[string]string, db database.Database) (api.Dependencies, error) {
	outbound := config.GetSeconds(c, "OUTBOUND_TIMEOUT_SECONDS", 10)

	deps := api.Dependencies{
		Recipients:      config.GetList(c, "CONTACT_RECIPIENTS"),
		OutboundTimeout: outbound,
	}.FromDatabase(db)

	backend, uploadDir, err := mediaBackend(ctx, c)
	if err != nil {
		return deps, err
	}
	deps.Media = storage.NewMediaStore(backend)
	deps.UploadDir = uploadDir

	if secret := config.GetString(c, "JWT_SECRET", ""); secret != "" {
		jwtAuth, err := auth.NewJWTAuthenticator(secret, config.GetString(c, "JWT_ISSUER", "site-backend"),
			time.Duration(config.GetInt(c, "JWT_TTL_HOURS", 12))*time.Hour)
		if err != nil {
			return deps, err
		}
		deps.Authenticator = jwtAuth
		deps.Tokens = jwtAuth
	} else {
		log.Warn().Msg("JWT_SECRET is not set, admin routes will reject every request")
	}
	deps.Credentials = auth.Credentials{
		Username:     config.GetString(c, "ADMIN_USERNAME", "admin"),
		PasswordHash: config.GetString(c, "ADMIN_PASSWORD_HASH", ""),
	}

	deps.Mailer = services.NewMailer(config.GetString(c, "RESEND_API_KEY", ""),
		config.GetString(c, "RESEND_FROM_EMAIL", ""), outbound)
	deps.Recaptcha = services.NewRecaptchaVerifier(config.GetString(c, "RECAPTCHA_SECRET", ""),
		recaptchaScore(c), outbound)
	if sms := services.NewSMSNotifier(
		config.GetString(c, "TWILIO_ACCOUNT_SID", ""),
		config.GetString(c, "TWILIO_AUTH_TOKEN", ""),
		config.GetString(c, "TWILIO_FROM_NUMBER", ""),
		config.GetString(c, "TWILIO_TO_NUMBER", ""),
	); sms != nil {
		deps.SMS = sms
	}

	generator, err := services.NewGeminiMetaTagGenerator(ctx, config.GetString(c, "GEMINI_API_KEY", ""),
		config.GetString(c, "GEMINI_MODEL", ""))
	if err != nil {
		log.Warn().Err(err).Msg("meta tag generator disabled")
	} else if generator != nil {
		deps.MetaTags = generator
	}

	return deps, nil
}

func recaptchaScore(c map[string]string) float64 {
	percent := config.GetInt(c, "RECAPTCHA_MIN_SCORE_PERCENT", 50)
	return float64(percent) / 100
}
