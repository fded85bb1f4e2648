package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Cache     CacheConfig
	Dynamo    DynamoConfig
	BigQuery  BigQueryConfig
	Shopify   ShopifyConfig
	MetaAds   MetaAdsConfig
	GoogleAds GoogleAdsConfig
	Amazon    AmazonConfig
	Import    ImportConfig
	Export    ExportConfig
	Catalog   CatalogConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name         string
	Env          string
	Port         string
	DefaultStore string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	CORSAllowOrigins []string
	TrustedProxies   []string
}

// CacheConfig holds Valkey/Redis connection settings. The cache is
// best-effort: a missing or failing cache never fails a request.
type CacheConfig struct {
	Host       string
	Port       int
	Password   string
	DB         int
	DefaultTTL time.Duration
}

// Addr returns the host:port address of the cache.
func (c CacheConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DynamoConfig holds DynamoDB connection and table settings. Endpoint is
// only set when pointing at a local emulator.
type DynamoConfig struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	OrdersTable     string
	ProductsTable   string
	CustomersTable  string
	SyncTable       string
}

// BigQueryConfig holds analytics warehouse settings
type BigQueryConfig struct {
	ProjectID       string
	Dataset         string
	Location        string
	CredentialsFile string
}

// ShopifyConfig holds Shopify Admin API settings. CallbackBaseURL is
// this service's public base URL; when set, order webhooks are
// registered against it on startup.
type ShopifyConfig struct {
	ShopDomain      string
	AccessToken     string
	WebhookSecret   string
	APIVersion      string
	CallbackBaseURL string
}

// MetaAdsConfig holds Meta (Facebook) Marketing API settings. An empty
// AdAccountID disables the adapter: metrics endpoints return zeroes.
type MetaAdsConfig struct {
	AccessToken    string
	AdAccountID    string
	APIBaseURL     string
	TimeoutSeconds int
}

// GoogleAdsConfig holds Google Ads API settings. An empty CustomerID
// disables the adapter: metrics endpoints return zeroes.
type GoogleAdsConfig struct {
	DeveloperToken string
	AccessToken    string
	CustomerID     string
	APIBaseURL     string
	TimeoutSeconds int
}

// AmazonConfig holds Amazon Seller Central reporting settings. Amazon
// order data lands in the warehouse through a separate feed; this only
// names the tables the report queries read.
type AmazonConfig struct {
	SalesTable   string
	ReturnsTable string
}

// ImportConfig holds CSV import pipeline settings
type ImportConfig struct {
	BatchSize     int
	MaxRetries    int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	ProgressEvery int // persist a progress snapshot every N batches
}

// ExportConfig holds CSV export settings
type ExportConfig struct {
	Dir      string
	S3Bucket string
	S3Prefix string
}

// CatalogConfig holds product catalog thresholds
type CatalogConfig struct {
	LowStockThreshold int
}

// Load loads configuration from config.toml and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with FRIDO_ prefix (e.g. FRIDO_CACHE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine, defaults and env vars apply.
	}

	v.SetEnvPrefix("FRIDO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name:         v.GetString("app.name"),
			Env:          v.GetString("app.env"),
			Port:         v.GetString("app.port"),
			DefaultStore: v.GetString("app.default_store"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			TrustedProxies:   v.GetStringSlice("http.trusted_proxies"),
		},
		Cache: CacheConfig{
			Host:       v.GetString("cache.host"),
			Port:       v.GetInt("cache.port"),
			Password:   v.GetString("cache.password"),
			DB:         v.GetInt("cache.db"),
			DefaultTTL: v.GetDuration("cache.default_ttl"),
		},
		Dynamo: DynamoConfig{
			Region:          v.GetString("dynamo.region"),
			Endpoint:        v.GetString("dynamo.endpoint"),
			AccessKeyID:     v.GetString("dynamo.access_key_id"),
			SecretAccessKey: v.GetString("dynamo.secret_access_key"),
			OrdersTable:     v.GetString("dynamo.orders_table"),
			ProductsTable:   v.GetString("dynamo.products_table"),
			CustomersTable:  v.GetString("dynamo.customers_table"),
			SyncTable:       v.GetString("dynamo.sync_table"),
		},
		BigQuery: BigQueryConfig{
			ProjectID:       v.GetString("bigquery.project_id"),
			Dataset:         v.GetString("bigquery.dataset"),
			Location:        v.GetString("bigquery.location"),
			CredentialsFile: v.GetString("bigquery.credentials_file"),
		},
		Shopify: ShopifyConfig{
			ShopDomain:      v.GetString("shopify.shop_domain"),
			AccessToken:     v.GetString("shopify.access_token"),
			WebhookSecret:   v.GetString("shopify.webhook_secret"),
			APIVersion:      v.GetString("shopify.api_version"),
			CallbackBaseURL: v.GetString("shopify.callback_base_url"),
		},
		MetaAds: MetaAdsConfig{
			AccessToken:    v.GetString("meta_ads.access_token"),
			AdAccountID:    v.GetString("meta_ads.ad_account_id"),
			APIBaseURL:     v.GetString("meta_ads.api_base_url"),
			TimeoutSeconds: v.GetInt("meta_ads.timeout_seconds"),
		},
		GoogleAds: GoogleAdsConfig{
			DeveloperToken: v.GetString("google_ads.developer_token"),
			AccessToken:    v.GetString("google_ads.access_token"),
			CustomerID:     v.GetString("google_ads.customer_id"),
			APIBaseURL:     v.GetString("google_ads.api_base_url"),
			TimeoutSeconds: v.GetInt("google_ads.timeout_seconds"),
		},
		Amazon: AmazonConfig{
			SalesTable:   v.GetString("amazon.sales_table"),
			ReturnsTable: v.GetString("amazon.returns_table"),
		},
		Import: ImportConfig{
			BatchSize:     v.GetInt("import.batch_size"),
			MaxRetries:    v.GetInt("import.max_retries"),
			BaseDelay:     v.GetDuration("import.base_delay"),
			MaxDelay:      v.GetDuration("import.max_delay"),
			ProgressEvery: v.GetInt("import.progress_every"),
		},
		Export: ExportConfig{
			Dir:      v.GetString("export.dir"),
			S3Bucket: v.GetString("export.s3_bucket"),
			S3Prefix: v.GetString("export.s3_prefix"),
		},
		Catalog: CatalogConfig{
			LowStockThreshold: v.GetInt("catalog.low_stock_threshold"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "analytics-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.App.DefaultStore == "" {
		cfg.App.DefaultStore = "myfrido"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.Cache.Host == "" {
		cfg.Cache.Host = "localhost"
	}
	if cfg.Cache.Port == 0 {
		cfg.Cache.Port = 6379
	}
	if cfg.Cache.DefaultTTL == 0 {
		cfg.Cache.DefaultTTL = 30 * time.Minute
	}
	if cfg.Dynamo.Region == "" {
		cfg.Dynamo.Region = "ap-south-1"
	}
	if cfg.Dynamo.OrdersTable == "" {
		cfg.Dynamo.OrdersTable = "Orders"
	}
	if cfg.Dynamo.ProductsTable == "" {
		cfg.Dynamo.ProductsTable = "Products"
	}
	if cfg.Dynamo.CustomersTable == "" {
		cfg.Dynamo.CustomersTable = "Customers"
	}
	if cfg.Dynamo.SyncTable == "" {
		cfg.Dynamo.SyncTable = "SyncMetadata"
	}
	if cfg.BigQuery.Dataset == "" {
		cfg.BigQuery.Dataset = "analytics"
	}
	if cfg.Shopify.APIVersion == "" {
		cfg.Shopify.APIVersion = "2024-07"
	}
	if cfg.MetaAds.APIBaseURL == "" {
		cfg.MetaAds.APIBaseURL = "https://graph.facebook.com/v19.0"
	}
	if cfg.MetaAds.TimeoutSeconds == 0 {
		cfg.MetaAds.TimeoutSeconds = 30
	}
	if cfg.GoogleAds.APIBaseURL == "" {
		cfg.GoogleAds.APIBaseURL = "https://googleads.googleapis.com/v16"
	}
	if cfg.GoogleAds.TimeoutSeconds == 0 {
		cfg.GoogleAds.TimeoutSeconds = 30
	}
	if cfg.Amazon.SalesTable == "" {
		cfg.Amazon.SalesTable = "amazon_sales"
	}
	if cfg.Amazon.ReturnsTable == "" {
		cfg.Amazon.ReturnsTable = "amazon_returns"
	}
	if cfg.Import.BatchSize == 0 {
		cfg.Import.BatchSize = 25
	}
	if cfg.Import.MaxRetries == 0 {
		cfg.Import.MaxRetries = 5
	}
	if cfg.Import.BaseDelay == 0 {
		cfg.Import.BaseDelay = 200 * time.Millisecond
	}
	if cfg.Import.MaxDelay == 0 {
		cfg.Import.MaxDelay = 10 * time.Second
	}
	if cfg.Import.ProgressEvery == 0 {
		cfg.Import.ProgressEvery = 10
	}
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = "./exports"
	}
	if cfg.Catalog.LowStockThreshold == 0 {
		cfg.Catalog.LowStockThreshold = 10
	}
	// NOTE: CORS origins deliberately default to an empty list. An empty
	// list rejects all cross-origin requests until explicitly configured.
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Import.BatchSize < 1 || c.Import.BatchSize > 25 {
		return fmt.Errorf("import.batch_size must be between 1 and 25 (store batch ceiling), got %d", c.Import.BatchSize)
	}
	if c.Import.MaxRetries < 0 {
		return fmt.Errorf("import.max_retries cannot be negative")
	}

	if c.App.Env == "production" {
		if c.BigQuery.ProjectID == "" {
			return fmt.Errorf("bigquery.project_id is required in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("http.cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Shopify.WebhookSecret == "" && c.Shopify.AccessToken != "" {
			return fmt.Errorf("shopify.webhook_secret is required in production when Shopify is configured")
		}
	}

	return nil
}
