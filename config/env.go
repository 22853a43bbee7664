package config

import (
	"os"
	"strings"
)

// parseEnv overlays the variables the service has always read: PORT,
// DATABASE_URL and GEMINI_API_KEY, plus DATABASE_DRIVER, SECRET_KEY and DEBUG.
func parseEnv(c *Config) {
	if port := os.Getenv("PORT"); port != "" {
		c.ListenAddr = ":" + port
	}
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		c.DatabaseDSN = dsn
		c.DatabaseDriver = DriverPostgres
	}
	if driver := os.Getenv("DATABASE_DRIVER"); driver != "" {
		c.DatabaseDriver = strings.ToLower(driver)
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.GeminiAPIKey = key
	}
	if secret := os.Getenv("SECRET_KEY"); secret != "" {
		c.SecretKey = secret
	}
	if debug := os.Getenv("DEBUG"); debug == "true" || debug == "1" {
		c.Debug = true
	}
}
