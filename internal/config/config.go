package config

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config хранит все настройки приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Telegram TelegramConfig
	Sheets   SheetsConfig
	Admin    AdminConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig содержит унифицированные настройки подключения к Redis
// Поддерживает режимы: single, sentinel, cluster
type RedisConfig struct {
	// Mode: Режим работы Redis ("single", "sentinel", "cluster"). По умолчанию "single".
	Mode string `mapstructure:"mode"`

	// Addrs: Список адресов Redis (хост:порт). Используется для всех режимов.
	// Для 'single', если не пуст, используется первый адрес из списка.
	Addrs []string `mapstructure:"addrs"`

	// Addr: Альтернативный адрес для режима 'single'.
	Addr string `mapstructure:"addr"`

	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	// MasterName: Имя мастер-сервера Redis (только для режима "sentinel")
	MasterName string `mapstructure:"master_name"`

	// MaxRetries: Максимальное количество попыток переподключения (-1 - бесконечно).
	MaxRetries int `mapstructure:"max_retries"`

	// MinRetryBackoff: Минимальный интервал между попытками (в миллисекундах).
	MinRetryBackoff int `mapstructure:"min_retry_backoff"`

	// MaxRetryBackoff: Максимальный интервал между попытками (в миллисекундах).
	MaxRetryBackoff int `mapstructure:"max_retry_backoff"`
}

// TelegramConfig содержит настройки Telegram-бота
type TelegramConfig struct {
	// Token: токен бота от BotFather
	Token string `mapstructure:"token"`

	// PollTimeout: таймаут long polling в секундах. По умолчанию 30.
	PollTimeout int `mapstructure:"poll_timeout"`

	// Debug: подробное логирование Telegram API
	Debug bool `mapstructure:"debug"`
}

// SheetsConfig содержит настройки выгрузки в Google Sheets
type SheetsConfig struct {
	// Enabled: выгрузка истории в таблицу включена
	Enabled bool `mapstructure:"enabled"`

	// SpreadsheetID: ID таблицы из её URL
	SpreadsheetID string `mapstructure:"spreadsheet_id"`

	// CredentialsFile: путь к JSON-ключу сервисного аккаунта
	CredentialsFile string `mapstructure:"credentials_file"`

	// SheetName: имя листа для выгрузки. По умолчанию "Лист1".
	SheetName string `mapstructure:"sheet_name"`
}

// AdminConfig содержит настройки административного API
type AdminConfig struct {
	// Token: статический bearer-токен для эндпоинтов /api/admin
	Token string `mapstructure:"token"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load загружает конфигурацию из файла
func Load(configPath string) (*Config, error) {
	vip := viper.New() // Используем новый экземпляр Viper, чтобы избежать глобального состояния

	// 1. Значения по умолчанию
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.readtimeout", 15)
	vip.SetDefault("server.writetimeout", 30)
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("telegram.poll_timeout", 30)
	vip.SetDefault("sheets.sheet_name", "Лист1")

	// 2. Привязываем переменные окружения ЯВНО
	// Привязка для секции Database
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	// Привязка для секции Redis
	vip.BindEnv("redis.mode", "REDIS_MODE")
	vip.BindEnv("redis.addrs", "REDIS_ADDRS")
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")
	vip.BindEnv("redis.master_name", "REDIS_MASTER_NAME")

	// Привязка для секции Telegram
	vip.BindEnv("telegram.token", "TELEGRAM_BOT_TOKEN")
	vip.BindEnv("telegram.poll_timeout", "TELEGRAM_POLL_TIMEOUT")
	vip.BindEnv("telegram.debug", "TELEGRAM_DEBUG")

	// Привязка для секции Sheets
	vip.BindEnv("sheets.enabled", "SHEETS_ENABLED")
	vip.BindEnv("sheets.spreadsheet_id", "SHEETS_SPREADSHEET_ID")
	vip.BindEnv("sheets.credentials_file", "SHEETS_CREDENTIALS_FILE")
	vip.BindEnv("sheets.sheet_name", "SHEETS_SHEET_NAME")

	// Привязка для Admin и Server
	vip.BindEnv("admin.token", "ADMIN_API_TOKEN")
	vip.BindEnv("server.port", "SERVER_PORT")

	// 3. Устанавливаем путь к файлу конфигурации
	if configPath != "" {
		vip.SetConfigFile(configPath)
		// 4. Пытаемся прочитать файл конфигурации (не страшно, если его нет, т.к. есть BindEnv)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				log.Printf("Предупреждение: не удалось прочитать файл конфигурации '%s': %v", configPath, err)
			}
		}
	}

	// 5. Анмаршалим конфигурацию (Viper объединит значения из файла и привязанных env vars)
	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Логирование конфигурации (только в debug режиме)
	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Port: %s", cfg.Database.Port)
		log.Printf("Database User: %s", cfg.Database.User)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Database SSLMode: %s", cfg.Database.SSLMode)
		log.Printf("Redis Addr: %s", cfg.Redis.Addr)
		log.Printf("Redis Mode: %s", cfg.Redis.Mode)
		log.Printf("Telegram Token Set: %t", cfg.Telegram.Token != "")
		log.Printf("Sheets Export Enabled: %t", cfg.Sheets.Enabled)
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("-----------------------------------------")
	}

	// 7. Проверка обязательных параметров
	if cfg.Telegram.Token == "" {
		return nil, fmt.Errorf("telegram bot token is required in config (check TELEGRAM_BOT_TOKEN env var)")
	}
	if cfg.Database.Host == "" || cfg.Database.DBName == "" || cfg.Database.User == "" {
		return nil, fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}
	if cfg.Sheets.Enabled {
		if cfg.Sheets.SpreadsheetID == "" || cfg.Sheets.CredentialsFile == "" {
			return nil, fmt.Errorf("sheets export is enabled but spreadsheet_id or credentials_file is missing (check SHEETS_SPREADSHEET_ID, SHEETS_CREDENTIALS_FILE env vars)")
		}
	}
	ginMode := vip.GetString("GIN_MODE")
	if ginMode != "debug" {
		if cfg.Database.Password == "" {
			return nil, fmt.Errorf("database password is required in production mode (check DATABASE_PASSWORD env var)")
		}
		if cfg.Admin.Token == "" {
			log.Println("Warning: ADMIN_API_TOKEN is not set, admin API endpoints will reject all requests.")
		}
	}

	return &cfg, nil
}
