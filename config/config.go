package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisRegionCacheDB   int    `mapstructure:"REDIS_REGION_CACHE_DB"`
	RedisBookingDB       int    `mapstructure:"REDIS_BOOKING_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Stripe configuration.
	StripeKey           string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `mapstructure:"STRIPE_WEBHOOK_SECRET"`

	// Google Geocoding API key.
	GoogleAPIKey string `mapstructure:"GOOGLE_API_KEY"`

	// Service depot coordinates; distances are measured from here.
	DepotLat float64 `mapstructure:"DEPOT_LAT"`
	DepotLng float64 `mapstructure:"DEPOT_LNG"`

	// Region distance bands in km. An address within NearRadiusKm of the
	// depot resolves to the near region, within MidRadiusKm to the mid
	// region, anything beyond to the outer region.
	NearRadiusKm float64 `mapstructure:"NEAR_RADIUS_KM"`
	MidRadiusKm  float64 `mapstructure:"MID_RADIUS_KM"`

	// Maximum service radius per customer class, in km.
	ServiceRadiusKm    float64 `mapstructure:"SERVICE_RADIUS_KM"`
	AMCServiceRadiusKm float64 `mapstructure:"AMC_SERVICE_RADIUS_KM"`

	// Booking behaviour.
	MaxBookingAttempts int           `mapstructure:"MAX_BOOKING_ATTEMPTS"`
	MaxActiveBookings  int           `mapstructure:"MAX_ACTIVE_BOOKINGS"`
	BookingLockTTL     time.Duration `mapstructure:"BOOKING_LOCK_TTL"`
	BookingAttemptTTL  time.Duration `mapstructure:"BOOKING_ATTEMPT_TTL"`
	ReminderLead       time.Duration `mapstructure:"REMINDER_LEAD"`

	// Caching and outbound request behaviour.
	RegionCacheTTL time.Duration `mapstructure:"REGION_CACHE_TTL"`
	GeocodeTimeout time.Duration `mapstructure:"GEOCODE_TIMEOUT"`
	RetryBaseDelay time.Duration `mapstructure:"RETRY_BASE_DELAY"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_REGION_CACHE_DB", 0)
	viper.SetDefault("REDIS_BOOKING_DB", 1)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 2)
	viper.SetDefault("DATABASE_URL", "postgres://localhost:5432/coolserve?sslmode=disable")
	viper.SetDefault("GOOGLE_API_KEY", "")
	viper.SetDefault("STRIPE_SECRET_KEY", "")
	viper.SetDefault("STRIPE_WEBHOOK_SECRET", "")
	viper.SetDefault("DEPOT_LAT", 1.3521)
	viper.SetDefault("DEPOT_LNG", 103.8198)
	viper.SetDefault("NEAR_RADIUS_KM", 5.0)
	viper.SetDefault("MID_RADIUS_KM", 8.0)
	viper.SetDefault("SERVICE_RADIUS_KM", 15.0)
	viper.SetDefault("AMC_SERVICE_RADIUS_KM", 25.0)
	viper.SetDefault("MAX_BOOKING_ATTEMPTS", 3)
	viper.SetDefault("MAX_ACTIVE_BOOKINGS", 5)
	viper.SetDefault("BOOKING_LOCK_TTL", "2m")
	viper.SetDefault("BOOKING_ATTEMPT_TTL", "30m")
	viper.SetDefault("REMINDER_LEAD", "2h")
	viper.SetDefault("REGION_CACHE_TTL", "1h")
	viper.SetDefault("GEOCODE_TIMEOUT", "5s")
	viper.SetDefault("RETRY_BASE_DELAY", "150ms")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
