package main

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ServerAddr string `envconfig:"CHAT_SERVER_ADDR" default:"localhost:8080"`
	// CHAT_TOKEN is the bearer token printed by "chatctl login"
	Token string `envconfig:"CHAT_TOKEN"`
	// CHAT_CODEC selects the wire codec, json or cbor
	Codec string `envconfig:"CHAT_CODEC" default:"json"`
	// CHAT_COLOURS enables colorized output
	Colours bool `envconfig:"CHAT_COLOURS" default:"true"`
}

// LoadConfig reads an optional .env file, then the environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
