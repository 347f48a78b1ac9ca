package config

import (
	"flag"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env        string     `yaml:"env" env-required:"true" env-default:"production"`
	HTTPServer HTTPServer `yaml:"http_server" env-required:"true"`
	Redis      Redis      `yaml:"redis" env-required:"true"`
	MinIO      MinIO      `yaml:"minio" env-required:"true"`
	Uploads    Uploads    `yaml:"uploads"`
	JWTSecret  string     `yaml:"jwt_secret" env-required:"true" env-default:"super_secret_key"`
	Profiles   []Profile  `yaml:"profiles"`
}

type HTTPServer struct {
	Address string `yaml:"address" env-required:"true" env-default:"localhost:8080"`
}

type Redis struct {
	Address  string `yaml:"address" env-required:"true" env-default:"localhost:6379"`
	Password string `yaml:"password" env-default:""`
	DB       int    `yaml:"db" env-default:"0"`
}

type MinIO struct {
	Endpoint        string `yaml:"endpoint" env-required:"true" env-default:"localhost:9000"`
	AccessKeyID     string `yaml:"access_key_id" env-required:"true"`
	SecretAccessKey string `yaml:"secret_access_key" env-required:"true"`
	BucketName      string `yaml:"bucket_name" env-required:"true" env-default:"hornhub-media"`
	UseSSL          bool   `yaml:"use_ssl" env-default:"false"`
}

type Uploads struct {
	PerMinute int64 `yaml:"per_minute" env-default:"10"`
}

// Profile is one directory entry: the access code grants the mapped
// identity. Codes are hashed at directory construction and never kept
// in memory in the clear.
type Profile struct {
	AccessCode     string `yaml:"access_code"`
	ID             string `yaml:"id"`
	Name           string `yaml:"name"`
	ProfilePicture string `yaml:"profile_picture"`
}

func MustLoad() *Config {
	var configPath string

	configPath = os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to config file")
		flag.Parse()
		configPath = *flags

		if configPath == "" {
			log.Fatal("config path must be provided")
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist at path: %s", configPath)
	}

	var cfg Config

	err := cleanenv.ReadConfig(configPath, &cfg)

	if err != nil {
		log.Fatalf("failed to read config: %s", err)
	}

	return &cfg
}
