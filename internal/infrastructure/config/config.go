// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers selectable via STORE_DRIVER
const (
	StoreDriverMongo    = "mongo"
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Local store
	StoreDriver         string
	MongoURI            string
	MongoDB             string
	MongoUser           string
	MongoPassword       string
	MongoConnectTimeout time.Duration
	PostgresURI         string

	// Remote backends. The partner API serves producers and the season
	// catalog; the forecast API serves properties, plots, phases and the
	// forecast upload endpoint.
	PartnerAPIURL  string
	ForecastAPIURL string
	RequestTimeout time.Duration

	// Connectivity probe
	ProbeURL     string
	ProbeTimeout time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	// Set defaults and override with env vars
	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 120)) * time.Second,

		StoreDriver:         getEnv("STORE_DRIVER", StoreDriverMongo),
		MongoURI:            getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:             getEnv("MONGO_DB", "harvestsync"),
		MongoUser:           getEnv("MONGO_USER", ""),
		MongoPassword:       getEnv("MONGO_PASSWORD", ""),
		MongoConnectTimeout: time.Duration(getEnvAsInt("MONGO_CONNECT_TIMEOUT", 10)) * time.Second,
		PostgresURI:         getEnv("POSTGRES_DSN", ""),

		PartnerAPIURL:  strings.TrimRight(getEnv("PARTNER_API_URL", "http://localhost:7081/api/v1"), "/"),
		ForecastAPIURL: strings.TrimRight(getEnv("FORECAST_API_URL", "http://localhost:7077/api"), "/"),
		RequestTimeout: time.Duration(getEnvAsInt("REQUEST_TIMEOUT", 30)) * time.Second,

		ProbeURL:     getEnv("CONNECTIVITY_PROBE_URL", "http://clients3.google.com/generate_204"),
		ProbeTimeout: time.Duration(getEnvAsInt("CONNECTIVITY_PROBE_TIMEOUT", 5)) * time.Second,
	}

	return config, nil
}

// Endpoints derives the remote endpoint set the sync orchestrator talks to
func (c *Config) Endpoints() Endpoints {
	return Endpoints{
		partnerBase:  c.PartnerAPIURL,
		forecastBase: c.ForecastAPIURL,
	}
}

// Endpoints resolves the URL for every remote resource of a sync run
type Endpoints struct {
	partnerBase  string
	forecastBase string
}

// ProducersURL lists the producers assigned to a vendor
func (e Endpoints) ProducersURL(vendorID string) string {
	return e.partnerBase + "/BusinessPartner/GetVendorClients/" + vendorID
}

// PropertiesURL lists properties without a membership card
func (e Endpoints) PropertiesURL() string {
	return e.forecastBase + "/uncarded-property"
}

// PlotsURL lists the plots visible to a vendor's technician
func (e Endpoints) PlotsURL(vendorID string) string {
	return e.forecastBase + "/Plot/technician/" + vendorID
}

// SeasonListURL lists the selectable seasons
func (e Endpoints) SeasonListURL() string {
	return e.partnerBase + "/Season"
}

// SeasonPhasesURL lists the forecast phases
func (e Endpoints) SeasonPhasesURL() string {
	return e.forecastBase + "/SeasonForecastPhase"
}

// ForecastURL receives forecast payload uploads
func (e Endpoints) ForecastURL() string {
	return e.forecastBase + "/SeasonForecast"
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
