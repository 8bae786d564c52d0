package config

import (
	"fmt"
	"os"

	env "github.com/Netflix/go-env"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration. Values are read from an
// optional yaml file first, then overlaid with environment variables, so
// the environment always wins.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Auth     AuthConfig     `yaml:"auth"`
	CORS     CORSConfig     `yaml:"cors"`
	Mail     MailConfig     `yaml:"mail"`
	Storage  StorageConfig  `yaml:"storage"`
	Plans    []PlanRule     `yaml:"plans"`
}

type AppConfig struct {
	Env     string `yaml:"env" env:"APP_ENV,default=local"`
	Port    int    `yaml:"port" env:"APP_PORT,default=8080"`
	BaseURL string `yaml:"base_url" env:"APP_BASE_URL"`
}

type DatabaseConfig struct {
	Host            string `yaml:"host" env:"DB_HOST,default=localhost"`
	Port            int    `yaml:"port" env:"DB_PORT,default=3306"`
	User            string `yaml:"user" env:"DB_USER,default=root"`
	Password        string `yaml:"password" env:"DB_PASSWORD"`
	Name            string `yaml:"name" env:"DB_NAME,default=sevasetu"`
	MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS,default=10"`
	MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS,default=50"`
	ConnMaxLifetime int    `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME,default=300"`
}

// GetDSN builds the MySQL DSN
func (d DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST,default=localhost"`
	Port     int    `yaml:"port" env:"REDIS_PORT,default=6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB,default=0"`
	PoolSize int    `yaml:"pool_size" env:"REDIS_POOL_SIZE,default=10"`
}

type JWTConfig struct {
	Secret    string `yaml:"secret" env:"JWT_SECRET"`
	ExpiresIn int    `yaml:"expires_in" env:"JWT_EXPIRES_IN,default=3600"`
	RefreshIn int    `yaml:"refresh_in" env:"JWT_REFRESH_IN,default=604800"`
}

// AuthConfig holds the staff login credentials. The password is stored
// as a bcrypt hash, never in the clear.
type AuthConfig struct {
	AdminUser         string `yaml:"admin_user" env:"ADMIN_USER,default=admin"`
	AdminPasswordHash string `yaml:"admin_password_hash" env:"ADMIN_PASSWORD_HASH"`
	AdminName         string `yaml:"admin_name" env:"ADMIN_NAME,default=Administrator"`
}

type CORSConfig struct {
	AllowOrigins string `yaml:"allow_origins" env:"CORS_ALLOW_ORIGINS"`
}

// SMTPConfig is one SMTP account
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// IsConfigured reports whether enough of the account is present to try it
func (s SMTPConfig) IsConfigured() bool {
	return s.Host != "" && s.User != "" && s.Password != ""
}

// MailAPIConfig is an HTTP mail API provider (mailgun-style JSON endpoint)
type MailAPIConfig struct {
	Endpoint string `yaml:"endpoint" env:"MAIL_API_ENDPOINT"`
	APIKey   string `yaml:"api_key" env:"MAIL_API_KEY"`
	From     string `yaml:"from" env:"MAIL_API_FROM"`
}

func (m MailAPIConfig) IsConfigured() bool {
	return m.Endpoint != "" && m.APIKey != ""
}

type MailConfig struct {
	Primary   SMTPConfig    `yaml:"primary"`
	Secondary SMTPConfig    `yaml:"secondary"`
	API       MailAPIConfig `yaml:"api"`

	PrimaryHost     string `yaml:"-" env:"SMTP_HOST"`
	PrimaryPort     int    `yaml:"-" env:"SMTP_PORT,default=587"`
	PrimaryUser     string `yaml:"-" env:"SMTP_USER"`
	PrimaryPassword string `yaml:"-" env:"SMTP_PASSWORD"`
	PrimaryFrom     string `yaml:"-" env:"SMTP_FROM"`

	SecondaryHost     string `yaml:"-" env:"SMTP2_HOST"`
	SecondaryPort     int    `yaml:"-" env:"SMTP2_PORT,default=587"`
	SecondaryUser     string `yaml:"-" env:"SMTP2_USER"`
	SecondaryPassword string `yaml:"-" env:"SMTP2_PASSWORD"`
	SecondaryFrom     string `yaml:"-" env:"SMTP2_FROM"`

	AdminEmail string `yaml:"admin_email" env:"MAIL_ADMIN_EMAIL"`
	CaptureDir string `yaml:"capture_dir" env:"MAIL_CAPTURE_DIR,default=./data/mail-captures"`
}

type StorageConfig struct {
	UploadPath string `yaml:"upload_path" env:"UPLOAD_PATH,default=./data/uploads"`

	// S3-compatible storage (optional)
	S3Enabled       bool   `yaml:"s3_enabled" env:"S3_ENABLED,default=false"`
	S3Endpoint      string `yaml:"s3_endpoint" env:"S3_ENDPOINT"`
	S3Region        string `yaml:"s3_region" env:"S3_REGION,default=ap-south-1"`
	S3AccessKeyID   string `yaml:"s3_access_key_id" env:"S3_ACCESS_KEY_ID"`
	S3SecretKey     string `yaml:"s3_secret_key" env:"S3_SECRET_ACCESS_KEY"`
	S3Bucket        string `yaml:"s3_bucket" env:"S3_BUCKET"`
	S3CDNURL        string `yaml:"s3_cdn_url" env:"S3_CDN_URL"`
	S3BasePath      string `yaml:"s3_base_path" env:"S3_BASE_PATH"`
	S3ForcePathStyle bool  `yaml:"s3_force_path_style" env:"S3_FORCE_PATH_STYLE,default=false"`
}

// PlanRule maps a membership plan to its validity duration
type PlanRule struct {
	Name     string `yaml:"name"`
	Months   int    `yaml:"months"`
	Lifetime bool   `yaml:"lifetime"`
}

// Load reads the yaml config file (if present) and overlays env vars.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Env SMTP settings overlay yaml blocks field by field.
	overlaySMTP(&cfg.Mail.Primary, cfg.Mail.PrimaryHost, cfg.Mail.PrimaryPort,
		cfg.Mail.PrimaryUser, cfg.Mail.PrimaryPassword, cfg.Mail.PrimaryFrom)
	overlaySMTP(&cfg.Mail.Secondary, cfg.Mail.SecondaryHost, cfg.Mail.SecondaryPort,
		cfg.Mail.SecondaryUser, cfg.Mail.SecondaryPassword, cfg.Mail.SecondaryFrom)

	if len(cfg.Plans) == 0 {
		cfg.Plans = DefaultPlans()
	}

	return &cfg, nil
}

func overlaySMTP(dst *SMTPConfig, host string, port int, user, password, from string) {
	if host != "" {
		dst.Host = host
	}
	if dst.Port == 0 {
		dst.Port = port
	}
	if user != "" {
		dst.User = user
	}
	if password != "" {
		dst.Password = password
	}
	if from != "" {
		dst.From = from
	}
}

// DefaultPlans returns the built-in membership plan duration rules
func DefaultPlans() []PlanRule {
	return []PlanRule{
		{Name: "annual", Months: 12},
		{Name: "biennial", Months: 24},
		{Name: "lifetime", Lifetime: true},
	}
}

// PlanRuleFor looks up a plan by name; unknown plans get 12 months.
func (c *Config) PlanRuleFor(plan string) PlanRule {
	for _, p := range c.Plans {
		if p.Name == plan {
			return p
		}
	}
	return PlanRule{Name: plan, Months: 12}
}
