package internal

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=64"`
	BroadcastBufferSize  int           `env:"BROADCAST_BUFFER_SIZE,default=1024"`
	DeliveryTimeout      time.Duration `env:"DELIVERY_TIMEOUT,default=2s"`
	MaxMessageLength     int           `env:"MAX_MESSAGE_LENGTH,default=4000"`
	CensoredWords        string        `env:"CENSORED_WORDS"`
	CharReplacement      string        `env:"CHARACTER_REPLACEMENT,default=*"`
	RestartInterval      time.Duration `env:"RESTART_INTERVAL,default=1s"`
	AuthTokenDuration    time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	JWTSecret            string        `env:"JWT_SECRET,required=true"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath        string        `env:"BLUGE_FILEPATH,required=true"`
	LogLevel             string        `env:"LOG_LEVEL,default=INFO"`
	Host                 string        `env:"HOST,default=0.0.0.0"`
	Port                 int           `env:"PORT,default=8080"`
	OpsPort              int           `env:"OPS_PORT,default=9090"`
	DebugPort            int           `env:"DEBUG_PORT,default=8081"`
}

// minSecretLength is the HS256 key size.
const minSecretLength = 32

// Validate checks what struct tags cannot express.
func (c Config) Validate() error {
	if len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes, got %d", minSecretLength, len(c.JWTSecret))
	}
	if c.ConnectionBufferSize <= 0 || c.BroadcastBufferSize <= 0 {
		return fmt.Errorf("buffer sizes must be positive")
	}
	if c.DeliveryTimeout <= 0 {
		return fmt.Errorf("DELIVERY_TIMEOUT must be positive, got %s", c.DeliveryTimeout)
	}
	if _, err := CharacterRune(c.CharReplacement); err != nil {
		return err
	}
	if c.Port == c.OpsPort {
		return fmt.Errorf("PORT and OPS_PORT must differ, both are %d", c.Port)
	}
	return nil
}

// BlockedWords splits CENSORED_WORDS on commas. Empty means no moderation.
func (c Config) BlockedWords() []string {
	if strings.TrimSpace(c.CensoredWords) == "" {
		return nil
	}
	return strings.Split(c.CensoredWords, ",")
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
