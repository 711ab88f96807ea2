package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Streaming assessment pipeline.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSourceTopic   string
	KafkaSinkTopic     string
	KafkaGroupID       string
	BatchSize          int
	BatchFlushInterval time.Duration

	// Simulation history storage.
	StorePath     string
	StoreInMemory bool

	// NASA NeoWs asteroid feed.
	NeoWsAPIKey    string
	NeoWsEnabled   bool
	NeoWsBaseURL   string
	NeoWsTimeout   time.Duration
	NeoWsCacheSize int

	// Calculator calibration.
	CalibrationFile string
	RandomSeed      uint64

	// Tracing.
	TracingEnabled     bool
	TracingExporter    string
	TracingEndpoint    string
	TracingSampleRatio float64
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	neowsTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("NEOWS_TIMEOUT", "5s"))
	if err != nil || neowsTimeout <= 0 {
		return nil, errors.New("invalid NEOWS_TIMEOUT")
	}

	seed, err := strconv.ParseUint(sharedcfg.EnvOrDefault("RANDOM_SEED", "0"), 10, 64)
	if err != nil {
		return nil, errors.New("invalid RANDOM_SEED")
	}

	sampleRatio, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("TRACING_SAMPLE_RATIO", "1"), 64)
	if err != nil || sampleRatio < 0 || sampleRatio > 1 {
		return nil, errors.New("invalid TRACING_SAMPLE_RATIO")
	}

	neowsKey := os.Getenv("NEOWS_API_KEY")
	neowsEnabled := neowsKey != ""
	if v := os.Getenv("NEOWS_ENABLED"); v != "" {
		neowsEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaEnabled:       os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "asteroid-parameters"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "impact-assessments"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "asteroid-impact"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		StorePath:     sharedcfg.EnvOrDefault("STORE_PATH", "data/simulations"),
		StoreInMemory: os.Getenv("STORE_IN_MEMORY") == "true",

		NeoWsAPIKey:    neowsKey,
		NeoWsEnabled:   neowsEnabled,
		NeoWsBaseURL:   sharedcfg.EnvOrDefault("NEOWS_BASE_URL", "https://api.nasa.gov/neo/rest/v1"),
		NeoWsTimeout:   neowsTimeout,
		NeoWsCacheSize: parseNeoWsCacheSize(),

		CalibrationFile: os.Getenv("CALIBRATION_FILE"),
		RandomSeed:      seed,

		TracingEnabled:     os.Getenv("TRACING_ENABLED") == "true",
		TracingExporter:    sharedcfg.EnvOrDefault("TRACING_EXPORTER", "stdout"),
		TracingEndpoint:    os.Getenv("OTLP_ENDPOINT"),
		TracingSampleRatio: sampleRatio,
	}

	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required")
		}
	}
	if !cfg.StoreInMemory && cfg.StorePath == "" {
		return nil, errors.New("STORE_PATH is required unless STORE_IN_MEMORY is true")
	}
	if cfg.NeoWsEnabled && cfg.NeoWsAPIKey == "" {
		return nil, errors.New("NEOWS_ENABLED is true but NEOWS_API_KEY is not set")
	}

	return cfg, nil
}

func parseNeoWsCacheSize() int {
	if s := os.Getenv("NEOWS_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 500
}
