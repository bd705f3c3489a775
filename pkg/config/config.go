package config

import "time"

// Social definition social_service YAML structure
type Social struct {
	Port       string        `mapstructure:"port"`
	IP         string        `mapstructure:"ip"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`
	OtpTTL     time.Duration `mapstructure:"otp_ttl"`

	PostgreSQL DatabaseConfig  `mapstructure:"pg"`
	MongoSQL   DatabaseConfig  `mapstructure:"mongo"`
	Redis      RedisConfig     `mapstructure:"redis"`
	MinIO      MinIOConfig     `mapstructure:"minio"`
	Mail       MailConfig      `mapstructure:"mail"`
	Websocket  WebsocketConfig `mapstructure:"websocket"`
}

// RedisConfig definition redis setting
type RedisConfig struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	RedisDB int    `mapstructure:"redis_db"`
}

// DatabaseConfig definition db setting
type DatabaseConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	Database      string `mapstructure:"database"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}

// MinIOConfig definition media object storage setting
type MinIOConfig struct {
	Endpoint      string `mapstructure:"endpoint"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	BucketName    string `mapstructure:"bucket_name"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}

// MailConfig definition OTP mail sender setting
type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// WebsocketConfig definition realtime gateway setting
type WebsocketConfig struct {
	SendBuffer  int `mapstructure:"send_buffer"`
	MaxMsgBytes int `mapstructure:"max_msg_bytes"`
}
