package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const (
	envApiKey  = "APCA_API_KEY_ID"
	envSecret  = "APCA_API_SECRET_KEY"
	envBaseUrl = "APCA_API_DATA_URL"
)

type Alpaca struct {
	BaseUrl string `yaml:"base_url"`
	ApiKey  string `yaml:"api_key"`
	Secret  string `yaml:"secret"`
}

// LoadEnv fills empty credentials from the environment after loading envPath.
// A missing env file is not an error.
func (a *Alpaca) LoadEnv(envPath string) error {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	}

	a.ApiKey = orEnv(a.ApiKey, envApiKey)
	a.Secret = orEnv(a.Secret, envSecret)
	a.BaseUrl = orEnv(a.BaseUrl, envBaseUrl)
	return nil
}

func orEnv(value, key string) string {
	if value != "" {
		return value
	}
	return os.Getenv(key)
}
