package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Site      SiteConfig
	Cache     CacheConfig
	Docs      DocsConfig
	Supporter SupporterConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
	Issuer string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SiteConfig describes the host platform the supporter operations act on.
type SiteConfig struct {
	BaseURL                string
	DisplayTimezone        string
	LegacyTimestampFormat  bool
	HashSelfEnrolPasswords bool
	EnabledEnrolPlugins    []string
	StudentArchetype       string
}

// CacheConfig toggles the course catalogue cache.
type CacheConfig struct {
	CoursesEnabled bool
	CoursesTTL     time.Duration
}

// DocsConfig gates the swagger UI.
type DocsConfig struct {
	Enabled bool
}

// SupporterConfig holds the display settings served by get_settings and used
// when shaping detail views. Values stored in the settings table override them.
type SupporterConfig struct {
	UserDetailsPageLength   int
	UserDetailsOrder        string
	CourseDetailsPageLength int
	CourseDetailsOrder      string
	UserTablePageLength     int
	UserTableOrder          string
	CourseTablePageLength   int
	CourseTableOrder        string
	LevelLabels             string

	UserDetailsShowUsername     bool
	UserDetailsShowIDNumber     bool
	UserDetailsShowFirstname    bool
	UserDetailsShowLastname     bool
	UserDetailsShowMailAddress  bool
	UserDetailsShowTimeCreated  bool
	UserDetailsShowTimeModified bool
	UserDetailsShowLastLogin    bool

	CourseDetailsShowShortname      bool
	CourseDetailsShowFullname       bool
	CourseDetailsShowVisible        bool
	CourseDetailsShowPath           bool
	CourseDetailsShowTimeCreated    bool
	CourseDetailsShowUsersAmount    bool
	CourseDetailsShowRolesAndAmount bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret: v.GetString("JWT_SECRET"),
		Issuer: v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Site = SiteConfig{
		BaseURL:                strings.TrimRight(v.GetString("SITE_BASE_URL"), "/"),
		DisplayTimezone:        v.GetString("DISPLAY_TIMEZONE"),
		LegacyTimestampFormat:  v.GetBool("LEGACY_TIMESTAMP_FORMAT"),
		HashSelfEnrolPasswords: v.GetBool("SELF_ENROL_HASH_PASSWORDS"),
		EnabledEnrolPlugins:    splitAndTrim(v.GetString("ENABLED_ENROL_PLUGINS")),
		StudentArchetype:       v.GetString("STUDENT_ARCHETYPE"),
	}

	cfg.Cache = CacheConfig{
		CoursesEnabled: v.GetBool("ENABLE_COURSE_CACHE"),
		CoursesTTL:     parseDuration(v.GetString("COURSE_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Docs = DocsConfig{Enabled: v.GetBool("ENABLE_DOCS")}

	cfg.Supporter = SupporterConfig{
		UserDetailsPageLength:   v.GetInt("SUPPORTER_USER_DETAILS_PAGELENGTH"),
		UserDetailsOrder:        normaliseOrder(v.GetString("SUPPORTER_USER_DETAILS_ORDER")),
		CourseDetailsPageLength: v.GetInt("SUPPORTER_COURSE_DETAILS_PAGELENGTH"),
		CourseDetailsOrder:      normaliseOrder(v.GetString("SUPPORTER_COURSE_DETAILS_ORDER")),
		UserTablePageLength:     v.GetInt("SUPPORTER_USER_TABLE_PAGELENGTH"),
		UserTableOrder:          normaliseOrder(v.GetString("SUPPORTER_USER_TABLE_ORDER")),
		CourseTablePageLength:   v.GetInt("SUPPORTER_COURSE_TABLE_PAGELENGTH"),
		CourseTableOrder:        normaliseOrder(v.GetString("SUPPORTER_COURSE_TABLE_ORDER")),
		LevelLabels:             v.GetString("SUPPORTER_LEVEL_LABELS"),

		UserDetailsShowUsername:     v.GetBool("SUPPORTER_USER_DETAILS_SHOWUSERNAME"),
		UserDetailsShowIDNumber:     v.GetBool("SUPPORTER_USER_DETAILS_SHOWIDNUMBER"),
		UserDetailsShowFirstname:    v.GetBool("SUPPORTER_USER_DETAILS_SHOWFIRSTNAME"),
		UserDetailsShowLastname:     v.GetBool("SUPPORTER_USER_DETAILS_SHOWLASTNAME"),
		UserDetailsShowMailAddress:  v.GetBool("SUPPORTER_USER_DETAILS_SHOWMAILADRESS"),
		UserDetailsShowTimeCreated:  v.GetBool("SUPPORTER_USER_DETAILS_SHOWTIMECREATED"),
		UserDetailsShowTimeModified: v.GetBool("SUPPORTER_USER_DETAILS_SHOWTIMEMODIFIED"),
		UserDetailsShowLastLogin:    v.GetBool("SUPPORTER_USER_DETAILS_SHOWLASTLOGIN"),

		CourseDetailsShowShortname:      v.GetBool("SUPPORTER_COURSE_DETAILS_SHOWSHORTNAME"),
		CourseDetailsShowFullname:       v.GetBool("SUPPORTER_COURSE_DETAILS_SHOWFULLNAME"),
		CourseDetailsShowVisible:        v.GetBool("SUPPORTER_COURSE_DETAILS_SHOWVISIBLE"),
		CourseDetailsShowPath:           v.GetBool("SUPPORTER_COURSE_DETAILS_SHOWPATH"),
		CourseDetailsShowTimeCreated:    v.GetBool("SUPPORTER_COURSE_DETAILS_SHOWTIMECREATED"),
		CourseDetailsShowUsersAmount:    v.GetBool("SUPPORTER_COURSE_DETAILS_SHOWUSERSAMOUNT"),
		CourseDetailsShowRolesAndAmount: v.GetBool("SUPPORTER_COURSE_DETAILS_SHOWROLESANDAMOUNT"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "lms")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SITE_BASE_URL", "http://localhost")
	v.SetDefault("DISPLAY_TIMEZONE", "Europe/Berlin")
	v.SetDefault("LEGACY_TIMESTAMP_FORMAT", false)
	v.SetDefault("SELF_ENROL_HASH_PASSWORDS", false)
	v.SetDefault("ENABLED_ENROL_PLUGINS", "manual,self,guest")
	v.SetDefault("STUDENT_ARCHETYPE", "student")

	v.SetDefault("ENABLE_COURSE_CACHE", false)
	v.SetDefault("COURSE_CACHE_TTL", "5m")
	v.SetDefault("ENABLE_DOCS", true)

	v.SetDefault("SUPPORTER_USER_DETAILS_PAGELENGTH", 10)
	v.SetDefault("SUPPORTER_USER_DETAILS_ORDER", "ASC")
	v.SetDefault("SUPPORTER_COURSE_DETAILS_PAGELENGTH", 10)
	v.SetDefault("SUPPORTER_COURSE_DETAILS_ORDER", "ASC")
	v.SetDefault("SUPPORTER_USER_TABLE_PAGELENGTH", 30)
	v.SetDefault("SUPPORTER_USER_TABLE_ORDER", "ASC")
	v.SetDefault("SUPPORTER_COURSE_TABLE_PAGELENGTH", 30)
	v.SetDefault("SUPPORTER_COURSE_TABLE_ORDER", "ASC")
	v.SetDefault("SUPPORTER_LEVEL_LABELS", "Faculty;Department")

	for _, key := range []string{
		"SUPPORTER_USER_DETAILS_SHOWUSERNAME",
		"SUPPORTER_USER_DETAILS_SHOWIDNUMBER",
		"SUPPORTER_USER_DETAILS_SHOWFIRSTNAME",
		"SUPPORTER_USER_DETAILS_SHOWLASTNAME",
		"SUPPORTER_USER_DETAILS_SHOWMAILADRESS",
		"SUPPORTER_USER_DETAILS_SHOWTIMECREATED",
		"SUPPORTER_USER_DETAILS_SHOWTIMEMODIFIED",
		"SUPPORTER_USER_DETAILS_SHOWLASTLOGIN",
		"SUPPORTER_COURSE_DETAILS_SHOWSHORTNAME",
		"SUPPORTER_COURSE_DETAILS_SHOWFULLNAME",
		"SUPPORTER_COURSE_DETAILS_SHOWVISIBLE",
		"SUPPORTER_COURSE_DETAILS_SHOWPATH",
		"SUPPORTER_COURSE_DETAILS_SHOWTIMECREATED",
		"SUPPORTER_COURSE_DETAILS_SHOWUSERSAMOUNT",
		"SUPPORTER_COURSE_DETAILS_SHOWROLESANDAMOUNT",
	} {
		v.SetDefault(key, true)
	}
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

func normaliseOrder(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), "DESC") {
		return "DESC"
	}
	return "ASC"
}
