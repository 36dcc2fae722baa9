package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Qdrant       QdrantConfig       `mapstructure:"qdrant"`
	Storage      StorageConfig      `mapstructure:"storage"`
	Embedding    EmbeddingConfig    `mapstructure:"embedding"`
	Search       SearchConfig       `mapstructure:"search"`
	Consultation ConsultationConfig `mapstructure:"consultation"`
	Log          LogConfig          `mapstructure:"log"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres, sqlite
	DSN             string        `mapstructure:"dsn"`
	Path            string        `mapstructure:"path"` // sqlite file path
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

type QdrantConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Collection string `mapstructure:"collection"`
	APIKey     string `mapstructure:"api_key"`
	UseTLS     bool   `mapstructure:"use_tls"`
	Dimension  int    `mapstructure:"dimension"`
}

type StorageConfig struct {
	Type      string `mapstructure:"type"` // s3, local
	LocalPath string `mapstructure:"local_path"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
}

type EmbeddingConfig struct {
	Model      string        `mapstructure:"model"`
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	Dimensions int           `mapstructure:"dimensions"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// SearchConfig carries the ranking constants. The defaults are the tested
// contract; overrides exist for tuning against a specific catalog.
type SearchConfig struct {
	// Tenant, when set, restricts the whole process to one tenant and
	// overrides any caller-supplied tenant.
	Tenant string `mapstructure:"tenant"`

	SimilarityFloor   float32       `mapstructure:"similarity_floor"`
	KeywordBonus      float32       `mapstructure:"keyword_bonus"`
	KeywordOnlyScore  float32       `mapstructure:"keyword_only_score"`
	KeywordLimit      int           `mapstructure:"keyword_limit"`
	PoolMultiplier    int           `mapstructure:"pool_multiplier"`
	PoolFloor         int           `mapstructure:"pool_floor"`
	AnchorPoolFactor  int           `mapstructure:"anchor_pool_factor"`
	SameFolderBonus   float32       `mapstructure:"same_folder_bonus"`
	DefaultTopK       int           `mapstructure:"default_top_k"`
	ImageFetchTimeout time.Duration `mapstructure:"image_fetch_timeout"`
}

type ConsultationConfig struct {
	// Tenant designates the single tenant served by the consultative
	// strategy. Every other tenant gets the standard strategy.
	Tenant          string  `mapstructure:"tenant"`
	ConfidenceFloor float32 `mapstructure:"confidence_floor"`
	PoolSize        int     `mapstructure:"pool_size"`
	KnowledgePath   string  `mapstructure:"knowledge_path"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	File     string `mapstructure:"file"`
	FileOnly bool   `mapstructure:"file_only"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("database.dsn", "DATABASE_URL")
	v.BindEnv("qdrant.host", "QDRANT_HOST")
	v.BindEnv("qdrant.port", "QDRANT_PORT")
	v.BindEnv("qdrant.api_key", "QDRANT_API_KEY")
	v.BindEnv("storage.endpoint", "STORAGE_ENDPOINT")
	v.BindEnv("storage.access_key", "STORAGE_ACCESS_KEY")
	v.BindEnv("storage.secret_key", "STORAGE_SECRET_KEY")
	v.BindEnv("embedding.api_key", "EMBEDDING_API_KEY")
	v.BindEnv("search.tenant", "SEARCH_TENANT")
	v.BindEnv("consultation.tenant", "CONSULTATION_TENANT")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/groundview.db")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("qdrant.host", "localhost")
	v.SetDefault("qdrant.port", 6334)
	v.SetDefault("qdrant.collection", "portfolio")
	v.SetDefault("qdrant.dimension", 512)

	v.SetDefault("storage.type", "s3")
	v.SetDefault("storage.endpoint", "localhost:9000")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("storage.bucket", "portfolio")

	v.SetDefault("embedding.model", "jina-clip-v2")
	v.SetDefault("embedding.base_url", "https://api.jina.ai/v1")
	v.SetDefault("embedding.dimensions", 512)
	v.SetDefault("embedding.timeout", "15s")

	v.SetDefault("search.similarity_floor", 0.25)
	v.SetDefault("search.keyword_bonus", 0.5)
	v.SetDefault("search.keyword_only_score", 0.45)
	v.SetDefault("search.keyword_limit", 20)
	v.SetDefault("search.pool_multiplier", 20)
	v.SetDefault("search.pool_floor", 2000)
	v.SetDefault("search.anchor_pool_factor", 4)
	v.SetDefault("search.same_folder_bonus", 0.08)
	v.SetDefault("search.default_top_k", 50)
	v.SetDefault("search.image_fetch_timeout", "20s")

	v.SetDefault("consultation.tenant", "atlantic")
	v.SetDefault("consultation.confidence_floor", 0.23)
	v.SetDefault("consultation.pool_size", 1000)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
