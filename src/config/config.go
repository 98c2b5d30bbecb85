package config

import (
	"log"
	"os"
	"strconv"

	"github.com/page-confessions/confession-relay/src/data"
	"gorm.io/gorm"
)

// Config carries everything the relay needs to talk to Discord, Google
// Sheets, the Facebook page and its own ops endpoint. Values come from the
// settings table with env fallbacks.
type Config struct {
	// Discord
	DiscordToken string
	GuildID      string
	ModChannelID string
	ModRoleID    string

	// Google Sheets
	SpreadsheetID     string
	SheetName         string
	SheetID           int64
	SheetPageSize     int
	GoogleCredentials string

	// Facebook page
	PageID    string
	PageToken string
	GraphURL  string

	// Scheduling
	PageInterval  int
	PageStartHour int
	PagePrefix    string
	Timezone      string

	// Moderation
	ReviewWindow      int
	WatermarkBaseline int

	// Infra
	RedisURL string
	Port     string
	OpsToken string
}

// Load reads configuration from the settings table with env fallback.
func Load(db *gorm.DB) Config {
	if err := data.LoadSettings(db); err != nil {
		log.Printf("config: load settings: %v (falling back to env)", err)
	}

	return Config{
		DiscordToken: get("discord_token", "DISCORD_TOKEN", ""),
		GuildID:      get("guild_id", "GUILD_ID", ""),
		ModChannelID: get("mod_channel_id", "MOD_CHANNEL_ID", ""),
		ModRoleID:    get("mod_role_id", "MOD_ROLE_ID", ""),

		SpreadsheetID:     get("spreadsheet_id", "SPREADSHEET_ID", ""),
		SheetName:         get("sheet_name", "SHEET_NAME", "Form Responses 1"),
		SheetID:           int64(getInt("sheet_id", "SHEET_ID", 0)),
		SheetPageSize:     getInt("sheet_page_size", "SHEET_PAGE_SIZE", 200),
		GoogleCredentials: get("google_credentials", "GOOGLE_CREDENTIALS", "credentials.json"),

		PageID:    get("page_id", "PAGE_ID", ""),
		PageToken: get("page_access_token", "PAGE_ACCESS_TOKEN", ""),
		GraphURL:  get("graph_url", "GRAPH_URL", ""),

		PageInterval:  getInt("page_interval", "PAGE_INTERVAL", 2),
		PageStartHour: getInt("page_start_hour", "PAGE_START_HOUR", 11),
		PagePrefix:    get("page_start", "PAGE_START", "Post #"),
		Timezone:      get("timezone", "TIMEZONE", "Local"),

		ReviewWindow:      getInt("review_window", "REVIEW_WINDOW", 400),
		WatermarkBaseline: getInt("watermark_baseline", "WATERMARK_BASELINE", 1),

		RedisURL: get("redis_url", "REDIS_URL", "redis://localhost:6379/0"),
		Port:     get("ops_port", "OPS_PORT", "8090"),
		OpsToken: get("ops_token", "OPS_TOKEN", ""),
	}
}

// get retrieves a setting with env fallback
func get(name, envKey, defaultValue string) string {
	val := data.GetSetting(name)
	if val == "" {
		val = os.Getenv(envKey)
	}
	if val == "" {
		val = defaultValue
	}
	return val
}

func getInt(name, envKey string, defaultValue int) int {
	raw := get(name, envKey, "")
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config: %s: bad integer %q, using %d", name, raw, defaultValue)
		return defaultValue
	}
	return n
}
