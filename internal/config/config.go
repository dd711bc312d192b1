package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration for the dashboard service.
type Config struct {
	ListenAddr      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	LogLevel        string
	LogFormat       string

	// DBDriver selects the inventory backend: "mysql" or "sqlite".
	DBEnabled      bool
	DBDriver       string
	DBHost         string
	DBPort         int
	DBUser         string
	DBPassword     string
	DBName         string
	DBConnTimeout  time.Duration
	DBQueryTimeout time.Duration
	SQLitePath     string

	TopStockLimit     int
	LowStockThreshold int
	LowStockLimit     int
	TopProductsLimit  int
	VendorSalesLimit  int
	SalesWindowDays   int
	ProductListLimit  int

	CORSAllowedOrigins []string
}

// FromEnv loads configuration from environment variables with sensible defaults.
func FromEnv() Config {
	loadConfigDefaultsFromFile()
	loadSecretsDefaultsFromFile()

	return Config{
		ListenAddr:         getEnv("APP_LISTEN_ADDR", ":8080"),
		ReadTimeout:        time.Duration(getEnvInt("APP_READ_TIMEOUT_SEC", 10)) * time.Second,
		WriteTimeout:       time.Duration(getEnvInt("APP_WRITE_TIMEOUT_SEC", 20)) * time.Second,
		ShutdownTimeout:    time.Duration(getEnvInt("APP_SHUTDOWN_TIMEOUT_SEC", 10)) * time.Second,
		LogLevel:           getEnv("APP_LOG_LEVEL", "info"),
		LogFormat:          getEnv("APP_LOG_FORMAT", "json"),
		DBEnabled:          getEnvBool("APP_DB_ENABLED", false),
		DBDriver:           strings.ToLower(getEnv("APP_DB_DRIVER", "mysql")),
		DBHost:             getEnv("APP_DB_HOST", "127.0.0.1"),
		DBPort:             getEnvInt("APP_DB_PORT", 3306),
		DBUser:             getEnv("APP_DB_USER", "inventory"),
		DBPassword:         getEnv("APP_DB_PASSWORD", "demo"),
		DBName:             getEnv("APP_DB_NAME", "inventory"),
		DBConnTimeout:      time.Duration(getEnvInt("APP_DB_CONN_TIMEOUT_SEC", 5)) * time.Second,
		DBQueryTimeout:     time.Duration(getEnvInt("APP_DB_QUERY_TIMEOUT_SEC", 10)) * time.Second,
		SQLitePath:         getEnv("APP_SQLITE_PATH", "./inventory.db"),
		TopStockLimit:      getEnvInt("APP_TOP_STOCK_LIMIT", 5),
		LowStockThreshold:  getEnvInt("APP_LOW_STOCK_THRESHOLD", 5),
		LowStockLimit:      getEnvInt("APP_LOW_STOCK_LIMIT", 10),
		TopProductsLimit:   getEnvInt("APP_TOP_PRODUCTS_LIMIT", 5),
		VendorSalesLimit:   getEnvInt("APP_VENDOR_SALES_LIMIT", 10),
		SalesWindowDays:    getEnvInt("APP_SALES_WINDOW_DAYS", 30),
		ProductListLimit:   getEnvInt("APP_PRODUCT_LIST_LIMIT", 5),
		CORSAllowedOrigins: getEnvList("APP_CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

func loadConfigDefaultsFromFile() {
	for _, candidate := range []string{"./inventory-dashboard.env", "/etc/default/inventory-dashboard"} {
		_ = applyEnvDefaultsFromFile(absPath(candidate))
	}

	candidates := make([]string, 0, 2)
	if explicit := strings.TrimSpace(os.Getenv("APP_CONFIG_FILE")); explicit != "" {
		candidates = append(candidates, explicit)
	}
	candidates = append(candidates, "/etc/inventory-dashboard/config.env")

	for _, candidate := range candidates {
		if err := applyEnvDefaultsFromFile(absPath(candidate)); err == nil {
			return
		}
	}
}

func loadSecretsDefaultsFromFile() {
	candidates := make([]string, 0, 3)
	if explicit := strings.TrimSpace(os.Getenv("APP_SECRETS_FILE")); explicit != "" {
		candidates = append(candidates, explicit)
	}
	if credDir := strings.TrimSpace(os.Getenv("CREDENTIALS_DIRECTORY")); credDir != "" {
		credName := strings.TrimSpace(os.Getenv("APP_SECRETS_CREDENTIAL_NAME"))
		if credName == "" {
			credName = "app-secrets"
		}
		candidates = append(candidates, filepath.Join(credDir, credName))
	}
	candidates = append(candidates, "/etc/inventory-dashboard/secrets.env")
	for _, candidate := range candidates {
		if err := applyEnvDefaultsFromFile(candidate); err == nil {
			return
		}
	}
}

func absPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, p)
	}
	return p
}

// applyEnvDefaultsFromFile sets variables from an env file without
// overriding values already present in the environment.
func applyEnvDefaultsFromFile(path string) error {
	values, err := godotenv.Read(path)
	if err != nil {
		return err
	}
	for key, val := range values {
		if key == "" {
			continue
		}
		if os.Getenv(key) == "" {
			_ = os.Setenv(key, val)
		}
	}
	return nil
}

// MySQLDSN returns a mysql driver DSN with safe defaults for TCP access.
func (c Config) MySQLDSN() string {
	params := url.Values{}
	params.Set("parseTime", "true")
	params.Set("timeout", c.DBConnTimeout.String())
	params.Set("readTimeout", c.DBQueryTimeout.String())
	params.Set("writeTimeout", c.DBQueryTimeout.String())
	params.Set("charset", "utf8mb4")
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s", c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, params.Encode())
}

// SalesWindow is how far back the sales charts look.
func (c Config) SalesWindow() time.Duration {
	days := c.SalesWindowDays
	if days <= 0 {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return def
	}
	return parsed
}

func getEnvBool(key string, def bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return def
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return def
	}
	return parsed
}

func getEnvList(key string, def []string) []string {
	val := strings.TrimSpace(os.Getenv(key))
	src := def
	if val != "" {
		src = strings.Split(val, ",")
	}
	out := make([]string, 0, len(src))
	for _, p := range src {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
