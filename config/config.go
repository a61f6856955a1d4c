package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/greenwayvn/advisor-bot/internal/domain/constants"
)

// Config is the full runtime configuration, loaded once at startup.
type Config struct {
	TelegramToken string
	GeminiAPIKey  string

	// Upline group receiving escalation tickets. Optional; without it
	// escalations are logged but not forwarded.
	UplineChatID   int64
	UplineThreadID int

	DataDir     string
	DatabaseURL string
	HTTPAddr    string
	WorkerCount int

	Hotline         string
	TelegramChannel string
	Fanpage         string
	Website         string

	EnableAIPolish           bool
	RequireEscalationConfirm bool
}

// parseChatTarget reads "-1001234567890" or "-1001234567890/4" (chat/topic).
// Inline comments after "#" are tolerated.
func parseChatTarget(raw string) (int64, int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, 0, nil
	}
	if idx := strings.Index(raw, "#"); idx >= 0 {
		raw = strings.TrimSpace(raw[:idx])
	}
	parts := strings.Split(raw, "/")
	if len(parts) > 2 {
		return 0, 0, fmt.Errorf("bad format, expected -1001234567890 or -1001234567890/2")
	}

	chatID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, err
	}

	threadID := 0
	if len(parts) == 2 && strings.TrimSpace(parts[1]) != "" {
		tid, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, fmt.Errorf("bad topic id: %v", err)
		}
		if tid < 0 {
			tid = -tid
		}
		threadID = tid
	}

	return chatID, threadID, nil
}

// Load reads .env (when present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:            os.Getenv("TELEGRAM_BOT_TOKEN"),
		GeminiAPIKey:             os.Getenv("GEMINI_API_KEY"),
		DataDir:                  getEnvDefault("DATA_DIR", "data"),
		DatabaseURL:              os.Getenv("DATABASE_URL"),
		HTTPAddr:                 getEnvDefault("HTTP_ADDR", ":8080"),
		WorkerCount:              getEnvInt("WORKER_COUNT", constants.DefaultWorkerCount),
		Hotline:                  getEnvDefault("HOTLINE_TUYEN_TREN", "09xx.xxx.xxx"),
		TelegramChannel:          getEnvDefault("LINK_KENH_TELEGRAM", "https://t.me/..."),
		Fanpage:                  getEnvDefault("LINK_FANPAGE", "https://facebook.com/..."),
		Website:                  getEnvDefault("LINK_WEBSITE", "https://..."),
		EnableAIPolish:           getEnvBool("ENABLE_AI_POLISH", true),
		RequireEscalationConfirm: getEnvBool("REQUIRE_ESCALATION_CONFIRM", false),
	}

	if raw := os.Getenv("UPLINE_CHAT_ID"); raw != "" {
		chatID, threadID, err := parseChatTarget(raw)
		if err != nil {
			return nil, fmt.Errorf("UPLINE_CHAT_ID is malformed: %v", err)
		}
		cfg.UplineChatID = chatID
		cfg.UplineThreadID = threadID
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is empty")
	}

	return cfg, nil
}

func getEnvDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	switch strings.ToLower(value) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return defaultValue
	}
}
