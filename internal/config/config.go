package config

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/pem"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"

	"github.com/procurehub/procurement-service/internal/utils"
)

type Config struct {
	OrganizationName string
	AppName          string
	AppPort          string

	// Database
	DBUrl         string
	MigrationsDir string

	// Object storage
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Region          string
	S3Endpoint        string
	S3Bucket          string

	// Redis (conversion queue); empty disables publishing
	RedisURL string

	// Twilio / SendGrid for RFP notifications
	TwilioAccountSID string
	TwilioAuthToken  string
	SendGridAPIKey   string
	OpenAIAPIKey     string

	OpsEmail string

	// Auth
	RSAPublicKey *rsa.PublicKey

	// LaunchDarkly flags
	LDFlag_TwilioFromPhone     string
	LDFlag_SendgridFromEmail   string
	LDFlag_SendgridSandboxMode bool
	LDFlag_SeedDbWithTestData  bool
	LDFlag_OpenAIScopeDrafting bool
}

const (
	OrganizationName    = "ProcureHub"
	LDConnectionTimeout = 5 * time.Second
)

func LoadConfig(appName string) *Config {
	utils.Logger.Info("Loading config for app: ", appName)

	cfg := &Config{
		OrganizationName: OrganizationName,
		AppName:          appName,
	}

	cfg.AppPort = mustEnv("APP_PORT")
	cfg.DBUrl = mustEnv("DB_URL")
	cfg.MigrationsDir = os.Getenv("MIGRATIONS_DIR")
	if cfg.MigrationsDir == "" {
		cfg.MigrationsDir = "migrations"
	}

	cfg.S3AccessKeyID = mustEnv("S3_ACCESS_KEY_ID")
	cfg.S3SecretAccessKey = mustEnv("S3_SECRET_ACCESS_KEY")
	cfg.S3Region = mustEnv("S3_REGION")
	cfg.S3Endpoint = os.Getenv("S3_ENDPOINT")
	cfg.S3Bucket = mustEnv("S3_BUCKET")

	cfg.RedisURL = os.Getenv("REDIS_URL")
	if cfg.RedisURL == "" {
		utils.Logger.Warn("REDIS_URL is empty; document conversion events will not be published")
	}

	cfg.TwilioAccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	cfg.TwilioAuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	cfg.SendGridAPIKey = os.Getenv("SENDGRID_API_KEY")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")

	cfg.OpsEmail = os.Getenv("OPS_EMAIL")
	if cfg.OpsEmail == "" {
		cfg.OpsEmail = "ops@procurehub.io"
	}

	// ─── RSA public key for access-token verification ───────────────────
	pubB64 := mustEnv("RSA_PUBLIC_KEY_BASE64")
	pubPEM, err := base64.StdEncoding.DecodeString(pubB64)
	if err != nil {
		utils.Logger.WithError(err).Fatal("RSA_PUBLIC_KEY_BASE64 is not valid base64")
	}
	if block, _ := pem.Decode(pubPEM); block == nil {
		utils.Logger.Fatal("Failed to decode PEM block for public key")
	}
	pubKey, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to parse RSA public key")
	}
	cfg.RSAPublicKey = pubKey

	loadFeatureFlags(cfg)
	return cfg
}

// loadFeatureFlags pulls runtime flags from LaunchDarkly. An empty LD_SDK_KEY
// keeps the safe defaults, so local runs need no LaunchDarkly account.
func loadFeatureFlags(cfg *Config) {
	cfg.LDFlag_TwilioFromPhone = "+10005550006"
	cfg.LDFlag_SendgridFromEmail = "no-reply@procurehub.io"
	cfg.LDFlag_SendgridSandboxMode = true

	ldSDKKey := os.Getenv("LD_SDK_KEY")
	if ldSDKKey == "" {
		utils.Logger.Warn("LD_SDK_KEY is empty; using default feature flags")
		return
	}

	ldClient, err := ld.MakeClient(ldSDKKey, LDConnectionTimeout)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to create LaunchDarkly client")
	}
	if !ldClient.Initialized() {
		ldClient.Close()
		utils.Logger.Fatal("LaunchDarkly client failed to initialize")
	}
	defer ldClient.Close()

	ctx := ldcontext.NewWithKind("service", cfg.AppName)

	twilioFromFlag, err := ldClient.StringVariation("twilio_from_phone", ctx, cfg.LDFlag_TwilioFromPhone)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving twilio_from_phone flag")
	}
	utils.Logger.Debugf("twilio_from_phone flag: %s", twilioFromFlag)
	cfg.LDFlag_TwilioFromPhone = twilioFromFlag

	sgFromFlag, err := ldClient.StringVariation("sendgrid_from_email", ctx, cfg.LDFlag_SendgridFromEmail)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving sendgrid_from_email flag")
	}
	utils.Logger.Debugf("sendgrid_from_email flag: %s", sgFromFlag)
	cfg.LDFlag_SendgridFromEmail = sgFromFlag

	sgSandboxFlag, err := ldClient.BoolVariation("sendgrid_sandbox_mode", ctx, true)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving sendgrid_sandbox_mode flag")
	}
	utils.Logger.Debugf("sendgrid_sandbox_mode flag: %t", sgSandboxFlag)
	cfg.LDFlag_SendgridSandboxMode = sgSandboxFlag

	seedDbFlag, err := ldClient.BoolVariation("seed_db_with_test_data", ctx, false)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving seed_db_with_test_data flag")
	}
	utils.Logger.Debugf("seed_db_with_test_data flag: %t", seedDbFlag)
	cfg.LDFlag_SeedDbWithTestData = seedDbFlag

	openaiFlag, err := ldClient.BoolVariation("openai_scope_drafting", ctx, false)
	if err != nil {
		utils.Logger.WithError(err).Fatal("Error retrieving openai_scope_drafting flag")
	}
	utils.Logger.Debugf("openai_scope_drafting flag: %t", openaiFlag)
	cfg.LDFlag_OpenAIScopeDrafting = openaiFlag
	if openaiFlag && cfg.OpenAIAPIKey == "" {
		utils.Logger.Fatal("OPENAI_API_KEY missing but openai_scope_drafting flag enabled")
	}
}

func mustEnv(name string) string {
	v := os.Getenv(name)
	if v == "" {
		utils.Logger.Fatalf("%s env var is missing", name)
	}
	return v
}
