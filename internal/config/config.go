package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	LogLevel            string `yaml:"log_level"`
	LogJSON             bool   `yaml:"log_json"`
	SecureCookies       bool   `yaml:"secure_cookies"`
	JwtTTLHours         int    `yaml:"jwt_ttl_hours"`
	MaxFilesPerPost     int    `yaml:"max_files_per_post"` // also caps presigned url issuance
	MaxContentLength    int    `yaml:"max_content_length"`
	FeedPageSize        int    `yaml:"feed_page_size"`
	SearchPageSize      int    `yaml:"search_page_size"`
	PresignTTLMinutes   int    `yaml:"presign_ttl_minutes"`
	FeedCacheTTLSeconds int    `yaml:"feed_cache_ttl_seconds"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type S3 struct {
	Endpoint      string `yaml:"endpoint"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	UseSSL        bool   `yaml:"use_ssl"`
	MediaBucket   string `yaml:"media_bucket"`
	StagingBucket string `yaml:"staging_bucket"`
	PublicUrl     string `yaml:"public_url"` // base url media objects are served from
}

type Redis struct {
	Addr     string `yaml:"addr"` // empty disables the feed cache
	Password string `yaml:"password"`
	Db       int    `yaml:"db"`
}

type Private struct {
	Pg     Pg     `yaml:"pg"`
	S3     S3     `yaml:"s3"`
	Redis  Redis  `yaml:"redis"`
	JwtKey string `yaml:"jwt_key"`
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	return time.Duration(c.Public.JwtTTLHours) * time.Hour
}

func (c *Config) PresignTTL() time.Duration {
	return time.Duration(c.Public.PresignTTLMinutes) * time.Minute
}

func (c *Config) FeedCacheTTL() time.Duration {
	return time.Duration(c.Public.FeedCacheTTLSeconds) * time.Second
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := Config{public, private}
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Public.JwtTTLHours == 0 {
		c.Public.JwtTTLHours = 72
	}
	if c.Public.MaxFilesPerPost == 0 {
		c.Public.MaxFilesPerPost = 4
	}
	if c.Public.MaxContentLength == 0 {
		c.Public.MaxContentLength = 4096
	}
	if c.Public.FeedPageSize == 0 {
		c.Public.FeedPageSize = 50
	}
	if c.Public.SearchPageSize == 0 {
		c.Public.SearchPageSize = 50
	}
	if c.Public.PresignTTLMinutes == 0 {
		c.Public.PresignTTLMinutes = 15
	}
	if c.Public.FeedCacheTTLSeconds == 0 {
		c.Public.FeedCacheTTLSeconds = 60
	}
}
