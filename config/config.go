package config

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	Environment        string
	Port               string
	BackendURL         string
	ChatURL            string
	SessionSecret      string
	AllowedOrigins     []string
	PageIdleTTL        time.Duration
	AuthRateRPS        float64
	AuthRateBurst      int
	AWSRegion          string
	AWSBucketName      string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	// singleton lock
	loadConfigOnce sync.Once
)

var AWSConfig aws.Config

func setDefaults() {
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("BACKEND_URL", "http://127.0.0.1:5000")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")
	viper.SetDefault("PAGE_IDLE_TTL", "30m")
	viper.SetDefault("AUTH_RATE_RPS", 1.0)
	viper.SetDefault("AUTH_RATE_BURST", 5)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FILE", "logs/app.log")
}

// LoadConfig loads configuration from the environment, an optional .env file
// and an optional config.yaml.
func LoadConfig() error {
	var loadError error
	loadConfigOnce.Do(func() {
		// .env is optional; real environment variables win over it
		_ = godotenv.Load()

		setDefaults()
		viper.AutomaticEnv()

		viper.SetConfigFile("config.yaml")
		if err := viper.ReadInConfig(); err != nil {
			log.Println("config.yaml not loaded, using environment:", err)
		}

		Environment = viper.GetString("ENVIRONMENT")
		Port = viper.GetString("PORT")
		BackendURL = strings.TrimRight(viper.GetString("BACKEND_URL"), "/")
		ChatURL = viper.GetString("CHAT_URL")
		SessionSecret = viper.GetString("SESSION_SECRET")
		AllowedOrigins = splitList(viper.GetString("ALLOWED_ORIGINS"))
		PageIdleTTL = viper.GetDuration("PAGE_IDLE_TTL")
		AuthRateRPS = viper.GetFloat64("AUTH_RATE_RPS")
		AuthRateBurst = viper.GetInt("AUTH_RATE_BURST")
		AWSRegion = viper.GetString("AWS_REGION")
		AWSBucketName = viper.GetString("AWS_BUCKET_NAME")
		AWSAccessKeyID = viper.GetString("AWS_ACCESS_KEY_ID")
		AWSSecretAccessKey = viper.GetString("AWS_SECRET_ACCESS_KEY")

		if SessionSecret == "" {
			loadError = errors.New("SESSION_SECRET is required")
			return
		}

		if ChatURL == "" {
			chat, err := DeriveChatURL(BackendURL)
			if err != nil {
				loadError = err
				return
			}
			ChatURL = chat
		}

		log.Println("configuration loaded, backend:", BackendURL)
	})

	return loadError
}

// DeriveChatURL maps the REST base URL onto the realtime endpoint of the same host.
func DeriveChatURL(backend string) (string, error) {
	u, err := url.Parse(backend)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/chat"
	return u.String(), nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ExportEnabled reports whether appointment exports have somewhere to go.
func ExportEnabled() bool {
	return AWSBucketName != ""
}

func LoadAWSConfig() error {
	opts := []func(*config.LoadOptions) error{config.WithRegion(AWSRegion)}
	if AWSAccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(AWSAccessKeyID, AWSSecretAccessKey, ""),
			),
		))
	}
	cfg, err := config.LoadDefaultConfig(context.TODO(), opts...)
	if err != nil {
		return err
	}
	AWSConfig = cfg
	log.Printf("AWS SDK configured for region %s", cfg.Region)
	return nil
}
