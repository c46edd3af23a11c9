package config

import (
	"os"
	"strconv"
	"strings"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	TurnTimerSeconds      int
	AIAssistSparkCost     int64
	SalesTaxRateBps       int64
	ProcessorFeeRateBps   int64
	ProcessorFeeFixedCent int64

	EnableTurnSweeper  bool
	EnableOutboxRelay  bool
	OpenAIAPIKey       string
	OpenAIModel        string
	WorkerPollSeconds  int
	OutboxRelayBatch   int
	TurnSweeperBatch   int
	EnableAIGeneration bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "taleforge"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,

		TurnTimerSeconds:      envInt("TURN_TIMER_SECONDS", 30),
		AIAssistSparkCost:     envInt64("AI_ASSIST_SPARK_COST", 10),
		SalesTaxRateBps:       envInt64("SALES_TAX_RATE_BPS", 825),
		ProcessorFeeRateBps:   envInt64("PROCESSOR_FEE_RATE_BPS", 290),
		ProcessorFeeFixedCent: envInt64("PROCESSOR_FEE_FIXED_CENTS", 30),

		EnableTurnSweeper:  envBool("ENABLE_TURN_SWEEPER", true),
		EnableOutboxRelay:  envBool("ENABLE_OUTBOX_RELAY", true),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        envString("OPENAI_MODEL", "gpt-4o-mini"),
		WorkerPollSeconds:  envInt("WORKER_POLL_SECONDS", 2),
		OutboxRelayBatch:   envInt("OUTBOX_RELAY_BATCH", 100),
		TurnSweeperBatch:   envInt("TURN_SWEEPER_BATCH", 100),
		EnableAIGeneration: envBool("ENABLE_AI_GENERATION", false),
	}, nil
}

func envString(name string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envInt64(name string, fallback int64) int64 {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fallback
	}
	return value
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
