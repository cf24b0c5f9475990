package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Default Zillow ZHVI export: ZIP-level, single-family + condo, middle tier,
// smoothed, seasonally adjusted, monthly.
const defaultZHVIURL = "https://files.zillowstatic.com/research/public_csvs/zhvi/Zip_zhvi_uc_sfrcondo_tier_0.33_0.67_sm_sa_month.csv"

// Config holds all tool settings, populated from environment variables.
type Config struct {
	ZHVIURL      string
	FetchTimeout time.Duration

	DataDir        string
	OutputDir      string
	PopulationFile string
	CentroidFile   string

	HTTPAddr  string
	LogLevel  string
	LogFormat string

	// Kafka publishing is optional; enabled only when brokers are configured.
	KafkaBrokers   []string
	KafkaSinkTopic string
	KafkaEnabled   bool

	// Data-quality clamps for computed metrics. Fixed configuration, not
	// statistical outlier detection.
	MinPrice     float64
	MaxPrice     float64
	MinYoYChange float64
	MaxYoYChange float64

	// DefaultPopulation fills in regions absent from the population file.
	DefaultPopulation int

	// SmallSampleThreshold is the selection size below which rank-based
	// quantiles degenerate and min/max interpolation is used instead.
	SmallSampleThreshold int

	// DebounceInterval coalesces rapid viewport changes into one recomputation.
	DebounceInterval time.Duration
}

// Load reads configuration from environment variables (optionally a .env
// file), applying defaults where unset.
func Load() (*Config, error) {
	_ = godotenv.Load() // ignore missing file

	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}
	debounce, err := parseDuration("DEBOUNCE_INTERVAL", "300ms")
	if err != nil {
		return nil, err
	}

	minPrice, err := parseFloat("MIN_PRICE", 10000)
	if err != nil {
		return nil, err
	}
	maxPrice, err := parseFloat("MAX_PRICE", 10000000)
	if err != nil {
		return nil, err
	}
	minYoY, err := parseFloat("MIN_YOY_CHANGE", -50)
	if err != nil {
		return nil, err
	}
	maxYoY, err := parseFloat("MAX_YOY_CHANGE", 100)
	if err != nil {
		return nil, err
	}

	defaultPop, err := parseInt("DEFAULT_POPULATION", 1000)
	if err != nil {
		return nil, err
	}
	smallSample, err := parseInt("SMALL_SAMPLE_THRESHOLD", 5)
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))

	cfg := &Config{
		ZHVIURL:      envOrDefault("ZHVI_URL", defaultZHVIURL),
		FetchTimeout: fetchTimeout,

		DataDir:        envOrDefault("DATA_DIR", "data"),
		OutputDir:      envOrDefault("OUTPUT_DIR", "output"),
		PopulationFile: envOrDefault("POPULATION_FILE", "resources/populations/PopulationByZIP.csv"),
		CentroidFile:   envOrDefault("CENTROID_FILE", "resources/centroids/zcta_centroids.csv"),

		HTTPAddr:  envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),

		KafkaBrokers:   brokers,
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "price-comparisons"),
		KafkaEnabled:   len(brokers) > 0,

		MinPrice:     minPrice,
		MaxPrice:     maxPrice,
		MinYoYChange: minYoY,
		MaxYoYChange: maxYoY,

		DefaultPopulation:    defaultPop,
		SmallSampleThreshold: smallSample,
		DebounceInterval:     debounce,
	}

	if cfg.MinPrice >= cfg.MaxPrice {
		return nil, errors.New("MIN_PRICE must be below MAX_PRICE")
	}
	if cfg.MinYoYChange >= cfg.MaxYoYChange {
		return nil, errors.New("MIN_YOY_CHANGE must be below MAX_YOY_CHANGE")
	}
	if cfg.SmallSampleThreshold < 2 {
		return nil, errors.New("SMALL_SAMPLE_THRESHOLD must be at least 2")
	}
	if cfg.KafkaEnabled && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_BROKERS is set but KAFKA_SINK_TOPIC is empty")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}
