package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Duration accepts "90s"-style strings or integer nanoseconds in JSON.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

// JSONConfig mirrors Config for file loading. Pointer fields distinguish
// "absent" from zero values so a partial file only overrides what it names.
type JSONConfig struct {
	ListenAddr     *string   `json:"listen_addr"`
	AllowOrigins   *string   `json:"allow_origins"`
	Debug          *bool     `json:"debug"`
	DatabaseDriver *string   `json:"database_driver"`
	DatabaseDSN    *string   `json:"database_dsn"`
	GeminiAPIKey   *string   `json:"gemini_api_key"`
	SecretKey      *string   `json:"secret_key"`
	TokenValidity  *Duration `json:"token_validity"`
	FreeCredits    *int      `json:"free_credits"`
	HistoryLimit   *int      `json:"history_limit"`
	GatewayTimeout *Duration `json:"gateway_timeout"`
	AnalysisModel  *string   `json:"analysis_model"`
	ImageModel     *string   `json:"image_model"`
	ChatModel      *string   `json:"chat_model"`
	SpeechModel    *string   `json:"speech_model"`
	SpeechVoice    *string   `json:"speech_voice"`
}

// jsonConfigPath extracts the value of -c/-config (or --config) from args.
func jsonConfigPath(args []string) string {
	for i := 0; i < len(args); i++ {
		name, value, hasValue := strings.Cut(strings.TrimLeft(args[i], "-"), "=")
		if !strings.HasPrefix(args[i], "-") || (name != "c" && name != "config") {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func parseJSON(c *Config, path string) error {
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc JSONConfig
	if err := json.Unmarshal(file, &jc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setString(&c.ListenAddr, jc.ListenAddr)
	setString(&c.AllowOrigins, jc.AllowOrigins)
	setString(&c.DatabaseDriver, jc.DatabaseDriver)
	setString(&c.DatabaseDSN, jc.DatabaseDSN)
	setString(&c.GeminiAPIKey, jc.GeminiAPIKey)
	setString(&c.SecretKey, jc.SecretKey)
	setString(&c.AnalysisModel, jc.AnalysisModel)
	setString(&c.ImageModel, jc.ImageModel)
	setString(&c.ChatModel, jc.ChatModel)
	setString(&c.SpeechModel, jc.SpeechModel)
	setString(&c.SpeechVoice, jc.SpeechVoice)
	if jc.Debug != nil {
		c.Debug = *jc.Debug
	}
	if jc.TokenValidity != nil {
		c.TokenValidity = jc.TokenValidity.Duration
	}
	if jc.GatewayTimeout != nil {
		c.GatewayTimeout = jc.GatewayTimeout.Duration
	}
	if jc.FreeCredits != nil {
		c.FreeCredits = *jc.FreeCredits
	}
	if jc.HistoryLimit != nil {
		c.HistoryLimit = *jc.HistoryLimit
	}
	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
