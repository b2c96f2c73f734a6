package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port string
	}
	Web struct {
		Port string
	}
	API struct {
		BaseURL string
	}
	Database struct {
		URL string
	}
	Docs struct {
		Path string
	}
	Index struct {
		TopK int
	}
	OpenAI struct {
		APIKey    string
		ChatModel string
	}
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	var config Config

	// Set defaults
	viper.SetDefault("server.port", "8000")
	viper.SetDefault("web.port", "3000")
	viper.SetDefault("api.base", "http://localhost:8000")
	viper.SetDefault("database.url", "")
	viper.SetDefault("docs.path", "docs/laws.txt")
	viper.SetDefault("index.topk", 3)
	viper.SetDefault("openai.chat_model", "gpt-4")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	config.Server.Port = viper.GetString("server.port")
	config.Web.Port = viper.GetString("web.port")
	config.API.BaseURL = viper.GetString("api.base")
	config.Database.URL = viper.GetString("database.url")
	config.Docs.Path = viper.GetString("docs.path")
	config.Index.TopK = viper.GetInt("index.topk")
	config.OpenAI.ChatModel = viper.GetString("openai.chat_model")
	config.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")

	// API_BASE is the one knob the web frontend needs; the trailing slash is
	// trimmed so request URLs never end up with "//query".
	if base := os.Getenv("API_BASE"); base != "" {
		config.API.BaseURL = base
	}
	config.API.BaseURL = strings.TrimSuffix(config.API.BaseURL, "/")

	return &config, nil
}

func (c *Config) ValidateOpenAI() error {
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	return nil
}
