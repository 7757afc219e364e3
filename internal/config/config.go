package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
)

// Order store backends.
const (
	OrderStorePostgres  = "postgres"
	OrderStoreFirestore = "firestore"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress  string
	DatabaseURI string
	LogLevel    slog.Level

	OrderStore            string
	FirestoreProjectID    string
	FirestoreEmulatorHost string

	JWTSecret  string
	SessionTTL time.Duration

	CartDataDir string

	ViaCEPURL            string
	BrasilAPIURL         string
	AddressLookupTimeout time.Duration

	MinimumOrderUnits int
	FreeDeliveryAbove decimal.Decimal
	DeliveryFee       decimal.Decimal
	WhatsAppPhone     string
	Location          *time.Location

	KafkaBrokers []string
	KafkaTopic   string

	FeedRetryInterval time.Duration
	ReloadInterval    time.Duration
	ShutdownTimeout   time.Duration

	AdminCNPJ     string
	AdminPassword string
}

const (
	defaultRunAddress           = ":8080"
	defaultJWTSecret            = "change-me-in-production"
	defaultSessionTTL           = 12 * time.Hour
	defaultCartDataDir          = "data/carts"
	defaultViaCEPURL            = "https://viacep.com.br/ws"
	defaultBrasilAPIURL         = "https://brasilapi.com.br/api/cep/v1"
	defaultAddressLookupTimeout = 7 * time.Second
	defaultMinimumOrderUnits    = 30
	defaultFreeDeliveryAbove    = "50.00"
	defaultDeliveryFee          = "5.00"
	defaultTimeZone             = "America/Sao_Paulo"
	defaultKafkaTopic           = "fitinbox.orders"
	defaultFeedRetryInterval    = 5 * time.Second
	defaultReloadInterval       = 5 * time.Minute
	defaultShutdownTimeout      = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:            getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:           getString(lookup, "DATABASE_URI", ""),
		OrderStore:            getString(lookup, "ORDER_STORE", OrderStorePostgres),
		FirestoreProjectID:    getString(lookup, "FIRESTORE_PROJECT_ID", ""),
		FirestoreEmulatorHost: getString(lookup, "FIRESTORE_EMULATOR_HOST", ""),
		JWTSecret:             getString(lookup, "JWT_SECRET", defaultJWTSecret),
		SessionTTL:            getDuration(lookup, "SESSION_TTL", defaultSessionTTL),
		CartDataDir:           getString(lookup, "CART_DATA_DIR", defaultCartDataDir),
		ViaCEPURL:             getString(lookup, "VIACEP_URL", defaultViaCEPURL),
		BrasilAPIURL:          getString(lookup, "BRASILAPI_URL", defaultBrasilAPIURL),
		AddressLookupTimeout:  getDuration(lookup, "ADDRESS_LOOKUP_TIMEOUT", defaultAddressLookupTimeout),
		MinimumOrderUnits:     getInt(lookup, "MINIMUM_ORDER_UNITS", defaultMinimumOrderUnits),
		WhatsAppPhone:         getString(lookup, "WHATSAPP_PHONE", ""),
		KafkaTopic:            getString(lookup, "KAFKA_TOPIC", defaultKafkaTopic),
		FeedRetryInterval:     getDuration(lookup, "FEED_RETRY_INTERVAL", defaultFeedRetryInterval),
		ReloadInterval:        getDuration(lookup, "ORDER_RELOAD_INTERVAL", defaultReloadInterval),
		ShutdownTimeout:       getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		AdminCNPJ:             getString(lookup, "ADMIN_CNPJ", ""),
		AdminPassword:         getString(lookup, "ADMIN_PASSWORD", ""),
	}

	fs := flag.NewFlagSet("fitinbox", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		lookupTimeoutStr   = cfg.AddressLookupTimeout.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		freeAboveStr       = getString(lookup, "FREE_DELIVERY_ABOVE", defaultFreeDeliveryAbove)
		deliveryFeeStr     = getString(lookup, "DELIVERY_FEE", defaultDeliveryFee)
		timeZone           = getString(lookup, "TIMEZONE", defaultTimeZone)
		kafkaBrokers       = getString(lookup, "KAFKA_BROKERS", "")
		logLevel           = getString(lookup, "LOG_LEVEL", "info")
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.OrderStore, "order-store", cfg.OrderStore, "Order store backend: postgres or firestore")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&cfg.CartDataDir, "cart-dir", cfg.CartDataDir, "Directory of the cart session store")
	fs.IntVar(&cfg.MinimumOrderUnits, "min-units", cfg.MinimumOrderUnits, "Minimum units per order")
	fs.StringVar(&lookupTimeoutStr, "lookup-timeout", lookupTimeoutStr, "Timeout of a single address provider request")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&freeAboveStr, "free-delivery-above", freeAboveStr, "Subtotal above which delivery is free")
	fs.StringVar(&deliveryFeeStr, "delivery-fee", deliveryFeeStr, "Flat delivery fee")
	fs.StringVar(&kafkaBrokers, "kafka-brokers", kafkaBrokers, "Comma separated Kafka brokers for order events")
	fs.StringVar(&logLevel, "log-level", logLevel, "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.AddressLookupTimeout, err = time.ParseDuration(lookupTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid lookup timeout: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.FreeDeliveryAbove, err = decimal.NewFromString(freeAboveStr); err != nil {
		return nil, fmt.Errorf("invalid free delivery threshold: %w", err)
	}

	if cfg.DeliveryFee, err = decimal.NewFromString(deliveryFeeStr); err != nil {
		return nil, fmt.Errorf("invalid delivery fee: %w", err)
	}

	if cfg.Location, err = time.LoadLocation(timeZone); err != nil {
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	cfg.KafkaBrokers = splitList(kafkaBrokers)

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}

	if cfg.AddressLookupTimeout <= 0 {
		cfg.AddressLookupTimeout = defaultAddressLookupTimeout
	}

	if cfg.MinimumOrderUnits <= 0 {
		cfg.MinimumOrderUnits = defaultMinimumOrderUnits
	}

	if cfg.FeedRetryInterval <= 0 {
		cfg.FeedRetryInterval = defaultFeedRetryInterval
	}

	// Zero turns the periodic full reload off.
	if cfg.ReloadInterval < 0 {
		cfg.ReloadInterval = 0
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DeliveryFee.IsNegative() || cfg.FreeDeliveryAbove.IsNegative() {
		return nil, fmt.Errorf("delivery pricing must not be negative")
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	cfg.OrderStore = strings.ToLower(strings.TrimSpace(cfg.OrderStore))
	switch cfg.OrderStore {
	case OrderStorePostgres:
	case OrderStoreFirestore:
		if cfg.FirestoreProjectID == "" {
			return nil, fmt.Errorf("firestore project id must be provided for the firestore order store")
		}
	default:
		return nil, fmt.Errorf("unknown order store %q", cfg.OrderStore)
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
