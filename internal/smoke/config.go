// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package smoke

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/ecliptix/ecliptix"
	"github.com/ecliptix/ecliptix/internal/capi"
)

var (
	errNoServerKey       = errors.New("no server public key configured")
	errServerKeyLength   = errors.New("server public key must be 64 hex characters")
	errPrivateWithoutPub = errors.New("a private key path requires a public key path")
)

// Config holds the smoke run settings, read from the environment.
type Config struct {
	ServerPublicKey string `env:"ECLIPTIX_SERVER_PUBLIC_KEY" env-default:"e2f2ae0a6abc4e71a884a961c500515f58e30b6aa582dd8db6a65945e08d2d76"`
	PublicKeyPath   string `env:"ECLIPTIX_PUBLIC_KEY_PATH"`
	PrivateKeyPath  string `env:"ECLIPTIX_PRIVATE_KEY_PATH"`
	Message         string `env:"ECLIPTIX_SMOKE_MESSAGE" env-default:"hello from ecliptix"`
	Password        string `env:"ECLIPTIX_SMOKE_PASSWORD" env-default:"pa$$w0rd"`
	LogLevel        string `env:"ECLIPTIX_LOG_LEVEL" env-default:"info"`
}

// LoadConfig loads envFile into the environment, if given, and reads the configuration from the environment.
func LoadConfig(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if cfg.PrivateKeyPath != "" && cfg.PublicKeyPath == "" {
		return nil, errPrivateWithoutPub
	}

	return &cfg, nil
}

// Level returns the configured log level, defaulting to info.
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}

	return level
}

// KeyLoader returns the key material loader: the configured files, or the embedded keys.
func (c *Config) KeyLoader() capi.KeyLoader {
	if c.PublicKeyPath == "" {
		return ecliptix.EmbeddedKeyStore
	}

	return func() (*ecliptix.KeyStore, error) {
		return ecliptix.LoadKeyStoreFiles(c.PublicKeyPath, c.PrivateKeyPath)
	}
}

// ServerKey decodes the configured hex server public key.
func (c *Config) ServerKey() ([]byte, error) {
	if c.ServerPublicKey == "" {
		return nil, errNoServerKey
	}

	if len(c.ServerPublicKey) != 2*ecliptix.ServerPublicKeyLength {
		return nil, errServerKeyLength
	}

	return hex.DecodeString(c.ServerPublicKey)
}
