package config

import (
	"os"
	"strconv"
	"time"
)

const (
	NotifierLog  = "log"
	NotifierNATS = "nats"
)

type Config struct {
	HTTPAddr        string
	GRPCAddr        string
	Notifier        string
	NATSURL         string
	NATSSubject     string
	AllowReset      bool
	QRCodeSize      int
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func Load() *Config {
	return &Config{
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		GRPCAddr:        getEnv("GRPC_ADDR", ":50051"),
		Notifier:        getEnv("NOTIFIER", NotifierLog),
		NATSURL:         getEnv("NATS_URL", "nats://localhost:4222"),
		NATSSubject:     getEnv("NATS_SUBJECT", "accounts.notifications"),
		AllowReset:      getEnvBool("ALLOW_RESET", false),
		QRCodeSize:      getEnvInt("QR_CODE_SIZE", 256),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 5*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
