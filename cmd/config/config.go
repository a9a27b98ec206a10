package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

var (
	Port    string
	Backend string // sqlite, postgres, or mongo

	SQLitePath    string
	PostgresDSN   string
	MongoURI      string
	MongoDatabase string

	UploadDir  string
	AssetStore string // local or s3
	AWSRegion  string
	S3Bucket   string

	JWTSecret      string
	YouTubeTimeout time.Duration
)

// Load reads config.yaml (optional) and environment overrides.
func Load() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("cmd/config/")
	viper.AddConfigPath(".")

	viper.SetDefault("port", "5000")
	viper.SetDefault("backend", "sqlite")
	viper.SetDefault("sqlite.path", "video_share.db")
	viper.SetDefault("postgres.dsn", "")
	viper.SetDefault("mongo.uri", "mongodb://localhost:27017")
	viper.SetDefault("mongo.database", "video_share")
	viper.SetDefault("uploads.dir", "uploads")
	viper.SetDefault("assets.store", "local")
	viper.SetDefault("aws.region", "")
	viper.SetDefault("aws.s3_bucket", "")
	viper.SetDefault("jwt.secret", "mysecretkey")
	viper.SetDefault("youtube.timeout", "5s")

	viper.BindEnv("port", "PORT")
	viper.BindEnv("backend", "DB_BACKEND")
	viper.BindEnv("sqlite.path", "DB_PATH")
	viper.BindEnv("postgres.dsn", "DATABASE_URL")
	viper.BindEnv("mongo.uri", "MONGO_URI")
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("Error reading config file, %s", err)
		}
	}

	Port = viper.GetString("port")
	Backend = viper.GetString("backend")
	SQLitePath = viper.GetString("sqlite.path")
	PostgresDSN = viper.GetString("postgres.dsn")
	MongoURI = viper.GetString("mongo.uri")
	MongoDatabase = viper.GetString("mongo.database")
	UploadDir = viper.GetString("uploads.dir")
	AssetStore = viper.GetString("assets.store")
	AWSRegion = viper.GetString("aws.region")
	S3Bucket = viper.GetString("aws.s3_bucket")
	JWTSecret = viper.GetString("jwt.secret")
	YouTubeTimeout = viper.GetDuration("youtube.timeout")
}
