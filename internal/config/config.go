package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type StorageKeys struct {
	Token          string
	User           string
	Cart           string
	Wishlist       string
	RecentlyViewed string
	GuestOrders    string
	LastOrder      string
}

type Features struct {
	Wishlist      bool
	Reviews       bool
	GuestCheckout bool
	Newsletter    bool
}

type Config struct {
	AppPort string
	AppEnv  string

	// Remote storefront API
	APIURL     string
	APITimeout time.Duration

	// Store settings
	StoreName       string
	Currency        string
	CurrencyCode    string
	ProductsPerPage int
	ShippingFee     decimal.Decimal

	Features    Features
	StorageKeys StorageKeys

	VisitorCookie     string
	InternalSecretKey string
	// TrustProxy charges rate limits to the last X-Forwarded-For hop.
	TrustProxy bool

	// Visitor state untouched for this long is dropped from memory stores.
	SessionIdleTTL time.Duration
	MemoryIdleTTL  time.Duration

	// Persistent visitor state: memory, postgres or mysql
	StoreDriver string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string

	OTELExporterOTLPEndpoint string
	OTELExporterOTLPHeaders  string
	OTELExporterOTLPInsecure bool
	OTELServiceName          string
	OTELServiceVersion       string
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			log.Printf("Warning: error loading .env file: %v", err)
		}
	}

	cfg := &Config{
		AppPort: getEnv("APP_PORT", "8080"),
		AppEnv:  getEnv("APP_ENV", "development"),

		APIURL:     strings.TrimRight(getEnv("API_URL", "http://localhost:4000"), "/"),
		APITimeout: getEnvDuration("API_TIMEOUT", 0),

		StoreName:       getEnv("STORE_NAME", "Electro Youssef"),
		Currency:        getEnv("CURRENCY", "DH"),
		CurrencyCode:    getEnv("CURRENCY_CODE", "MAD"),
		ProductsPerPage: getEnvInt("PRODUCTS_PER_PAGE", 12),
		ShippingFee:     getEnvDecimal("SHIPPING_FEE", decimal.NewFromInt(10)),

		Features: Features{
			Wishlist:      getEnvBool("FEATURE_WISHLIST", true),
			Reviews:       getEnvBool("FEATURE_REVIEWS", true),
			GuestCheckout: getEnvBool("FEATURE_GUEST_CHECKOUT", true),
			Newsletter:    getEnvBool("FEATURE_NEWSLETTER", true),
		},
		StorageKeys: StorageKeys{
			Token:          getEnv("STORAGE_KEY_TOKEN", "reda_token"),
			User:           getEnv("STORAGE_KEY_USER", "reda_user"),
			Cart:           getEnv("STORAGE_KEY_CART", "reda_cart"),
			Wishlist:       getEnv("STORAGE_KEY_WISHLIST", "reda_wishlist"),
			RecentlyViewed: getEnv("STORAGE_KEY_RECENT", "reda_recent"),
			GuestOrders:    "reda_guest_orders",
			LastOrder:      "lastOrder",
		},

		VisitorCookie:     getEnv("VISITOR_COOKIE", "sf_visitor"),
		InternalSecretKey: os.Getenv("INTERNAL_SECRET_KEY"),
		TrustProxy:        getEnvBool("TRUST_PROXY", false),

		SessionIdleTTL: getEnvDuration("SESSION_IDLE_TTL", 30*time.Minute),
		MemoryIdleTTL:  getEnvDuration("MEMORY_STORE_IDLE_TTL", 24*time.Hour),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", "memory")),
		DBHost:      os.Getenv("DB_HOST"),
		DBPort:      os.Getenv("DB_PORT"),
		DBUser:      os.Getenv("DB_USER"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      os.Getenv("DB_NAME"),

		OTELExporterOTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTELExporterOTLPHeaders:  os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"),
		OTELExporterOTLPInsecure: getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		OTELServiceName:          getEnv("OTEL_SERVICE_NAME", "storefront-web"),
		OTELServiceVersion:       getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
	}

	if cfg.StoreDriver != "memory" && cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly: DB_HOST is required for STORE_DRIVER=" + cfg.StoreDriver)
	}

	return cfg
}

// MetricsEnabled reports whether an OTLP endpoint is configured.
func (c *Config) MetricsEnabled() bool {
	return c.OTELExporterOTLPEndpoint != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return defaultValue
	}
	return d
}

func getEnvDecimal(key string, defaultValue decimal.Decimal) decimal.Decimal {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := decimal.NewFromString(value)
	if err != nil || d.IsNegative() {
		return defaultValue
	}
	return d
}
