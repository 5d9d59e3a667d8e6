package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/dukerupert/shoplist/internal/backup"
)

// Config holds all configuration for the service.
type Config struct {
	Port           string
	DBPath         string
	LogLevel       string
	LogFormat      string
	UserHeader     string
	WriteLimit     int
	AutoCategorize bool

	Backup backup.Config
	// RestoreKey names a stored backup to restore over DBPath before
	// serving. Empty means no restore.
	RestoreKey string
}

// Load resolves configuration from, in increasing precedence: defaults, the
// env file (SHOPLIST_ENV_FILE, default .env, optional), process environment,
// and command-line args.
func Load(args []string) (*Config, error) {
	envFile := os.Getenv("SHOPLIST_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	fileVars, err := godotenv.Read(envFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read env file %s: %w", envFile, err)
		}
		fileVars = map[string]string{}
	}
	get := func(key, def string) string {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v
		}
		if v, ok := fileVars[key]; ok && v != "" {
			return v
		}
		return def
	}

	writeLimit, err := strconv.Atoi(get("SHOPLIST_WRITE_LIMIT", "120"))
	if err != nil {
		return nil, fmt.Errorf("SHOPLIST_WRITE_LIMIT: %w", err)
	}
	autoCategorize, err := strconv.ParseBool(get("SHOPLIST_AUTO_CATEGORIZE", "false"))
	if err != nil {
		return nil, fmt.Errorf("SHOPLIST_AUTO_CATEGORIZE: %w", err)
	}

	backupInterval, err := time.ParseDuration(get("SHOPLIST_BACKUP_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("SHOPLIST_BACKUP_INTERVAL: %w", err)
	}
	backupRetention, err := time.ParseDuration(get("SHOPLIST_BACKUP_RETENTION", "720h"))
	if err != nil {
		return nil, fmt.Errorf("SHOPLIST_BACKUP_RETENTION: %w", err)
	}

	cfg := &Config{
		Backup: backup.Config{
			Endpoint:   get("SHOPLIST_BACKUP_ENDPOINT", ""),
			Region:     get("SHOPLIST_BACKUP_REGION", "us-east-1"),
			AccessKey:  get("SHOPLIST_BACKUP_ACCESS_KEY", ""),
			SecretKey:  get("SHOPLIST_BACKUP_SECRET_KEY", ""),
			Passphrase: get("SHOPLIST_BACKUP_PASSPHRASE", ""),
		},
	}
	flags := pflag.NewFlagSet("shoplist", pflag.ContinueOnError)
	flags.StringVarP(&cfg.Port, "port", "p", get("SHOPLIST_PORT", "8080"), "HTTP listen port")
	flags.StringVar(&cfg.DBPath, "db", get("SHOPLIST_DB_PATH", "shoplist.db"), "SQLite database path")
	flags.StringVar(&cfg.LogLevel, "log-level", get("SHOPLIST_LOG_LEVEL", "info"), "log level: debug, info, warn, error")
	flags.StringVar(&cfg.LogFormat, "log-format", get("SHOPLIST_LOG_FORMAT", "text"), "log format: text or json")
	flags.StringVar(&cfg.UserHeader, "user-header", get("SHOPLIST_USER_HEADER", "X-User-ID"), "request header carrying the authenticated user id")
	flags.IntVar(&cfg.WriteLimit, "write-limit", writeLimit, "mutating requests per caller per minute (0 disables)")
	flags.BoolVar(&cfg.AutoCategorize, "auto-categorize", autoCategorize, "assign a category from the product name when none is given")

	flags.StringVar(&cfg.Backup.Bucket, "backup-bucket", get("SHOPLIST_BACKUP_BUCKET", ""), "S3 bucket for encrypted database backups (empty disables)")
	flags.StringVar(&cfg.Backup.Prefix, "backup-prefix", get("SHOPLIST_BACKUP_PREFIX", ""), "object key prefix for backups")
	flags.DurationVar(&cfg.Backup.Interval, "backup-interval", backupInterval, "time between scheduled backups")
	flags.DurationVar(&cfg.Backup.Retention, "backup-retention", backupRetention, "age after which backups are deleted (0 keeps all)")
	flags.StringVar(&cfg.RestoreKey, "restore", "", "restore the named backup over the database, then exit")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if cfg.UserHeader == "" {
		return nil, fmt.Errorf("user header must not be empty")
	}
	if cfg.WriteLimit < 0 {
		return nil, fmt.Errorf("write limit must not be negative")
	}
	if cfg.Backup.Bucket != "" && !cfg.Backup.Enabled() {
		return nil, fmt.Errorf("backup bucket set but access key, secret key or passphrase missing")
	}
	if cfg.RestoreKey != "" && !cfg.Backup.Enabled() {
		return nil, fmt.Errorf("restore requires backup storage to be configured")
	}
	return cfg, nil
}
