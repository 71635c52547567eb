package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config holds the application's configuration values.
type Config struct {
	AppName string `json:"appname"`
	AppEnv  string `json:"appenv"`
	AppPort uint16 `json:"appport"`
	GinMode string `json:"ginmode"`

	DBDriver string `json:"dbdriver"`
	DBPath   string `json:"dbpath"`
	DBHost   string `json:"dbhost"`
	DBPort   uint16 `json:"dbport"`
	DBName   string `json:"dbname"`
	DBUSER   string `json:"dbuser"`
	DBPass   string `json:"dbpass"`

	UploadDir   string `json:"uploaddir"`
	MaxUploadMB int64  `json:"maxuploadmb"`

	AdminUser     string        `json:"adminuser"`
	AdminPass     string        `json:"-"`
	AdminPassHash string        `json:"-"`
	JWTSecret     string        `json:"-"`
	SessionTTL    time.Duration `json:"sessionttl"`

	LoginRateLimit  int           `json:"loginratelimit"`
	LoginRateWindow time.Duration `json:"loginratewindow"`

	GeoIPDBPath string `json:"geoipdbpath"`
}

const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

var config *Config
var once sync.Once

// LoadConfig loads the environment variables from a .env file, and returns a singleton Config instance.
// A missing .env file is not an error; the process environment is used as is.
func LoadConfig() *Config {
	once.Do(func() {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("Error loading .env file: %v", err)
		}

		appPort, _ := strconv.ParseUint(os.Getenv("APPPORT"), 10, 16)
		dbPort, _ := strconv.ParseUint(os.Getenv("DBPORT"), 10, 16)

		config = &Config{
			AppName:         getEnv("APPNAME", "onco-intake"),
			AppEnv:          getEnv("APPENV", "local"),
			AppPort:         uint16(appPort),
			GinMode:         getEnv("GINMODE", "debug"),
			DBDriver:        getEnv("DBDRIVER", DriverSQLite),
			DBPath:          getEnv("DBPATH", "patients.db"),
			DBHost:          os.Getenv("DBHOST"),
			DBPort:          uint16(dbPort),
			DBName:          os.Getenv("DBNAME"),
			DBUSER:          os.Getenv("DBUSER"),
			DBPass:          os.Getenv("DBPASS"),
			UploadDir:       getEnv("UPLOADDIR", "uploads"),
			MaxUploadMB:     getEnvInt64("MAXUPLOADMB", 16),
			AdminUser:       getEnv("ADMINUSER", "admin"),
			AdminPass:       os.Getenv("ADMINPASS"),
			AdminPassHash:   os.Getenv("ADMINPASSHASH"),
			JWTSecret:       os.Getenv("JWTSECRET"),
			SessionTTL:      getEnvDuration("SESSIONTTL", 12*time.Hour),
			LoginRateLimit:  int(getEnvInt64("LOGINRATELIMIT", 5)),
			LoginRateWindow: getEnvDuration("LOGINRATEWINDOW", 15*time.Minute),
			GeoIPDBPath:     os.Getenv("GEOIP_DB_PATH"),
		}
		if config.AppPort == 0 {
			config.AppPort = 5000
		}
	})
	return config
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Dialector builds the gorm dialector for the configured driver.
func (c *Config) Dialector() (gorm.Dialector, error) {
	switch c.DBDriver {
	case DriverSQLite, "":
		return sqlite.Open(c.DBPath), nil
	case DriverMySQL:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", c.DBUSER, c.DBPass, c.DBHost, c.DBPort, c.DBName)
		return mysql.Open(dsn), nil
	case DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", c.DBHost, c.DBPort, c.DBUSER, c.DBPass, c.DBName)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DBDRIVER %q", c.DBDriver)
	}
}

// ConnectDB opens the database configured for the current environment.
// With APPENV=test every call returns a fresh in-memory sqlite database.
func ConnectDB() (*gorm.DB, error) {
	cfg := LoadConfig()

	if os.Getenv("APPENV") == "test" || cfg.AppEnv == "test" {
		dsn := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	}

	dialector, err := cfg.Dialector()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}

	return db, nil
}

// ResetConfigForTest drops the cached Config so the next LoadConfig call re-reads the environment.
func ResetConfigForTest() {
	config = nil
	once = sync.Once{}
}
