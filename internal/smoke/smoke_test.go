// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package smoke_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecliptix/ecliptix/internal/capi"
	"github.com/ecliptix/ecliptix/internal/smoke"
)

var envKeys = []string{
	"ECLIPTIX_SERVER_PUBLIC_KEY",
	"ECLIPTIX_PUBLIC_KEY_PATH",
	"ECLIPTIX_PRIVATE_KEY_PATH",
	"ECLIPTIX_SMOKE_MESSAGE",
	"ECLIPTIX_SMOKE_PASSWORD",
	"ECLIPTIX_LOG_LEVEL",
}

// clearEnv unsets the smoke variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range envKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func defaultConfig(t *testing.T) *smoke.Config {
	t.Helper()
	clearEnv(t)

	cfg, err := smoke.LoadConfig("")
	require.NoError(t, err)

	return cfg
}

func run(t *testing.T, cfg *smoke.Config) (*smoke.Report, *test.Hook) {
	t.Helper()

	logger, hook := test.NewNullLogger()
	lib := capi.New(capi.WithKeyLoader(cfg.KeyLoader()))

	return smoke.Run(cfg, lib, logger.WithField("run_id", t.Name())), hook
}

func results(r *smoke.Report) map[string]smoke.Result {
	m := make(map[string]smoke.Result, len(r.Steps))
	for _, s := range r.Steps {
		m[s.Name] = s.Result
	}

	return m
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg := defaultConfig(t)

	assert.Len(t, cfg.ServerPublicKey, 64)
	assert.Equal(t, "pa$$w0rd", cfg.Password)
	assert.NotEmpty(t, cfg.Message)
	assert.Empty(t, cfg.PublicKeyPath)
	assert.Equal(t, logrus.InfoLevel, cfg.Level())

	key, err := cfg.ServerKey()
	require.NoError(t, err)
	assert.Len(t, key, 32)
}

func TestLoadConfigEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("ECLIPTIX_SMOKE_MESSAGE", "from the environment")
	t.Setenv("ECLIPTIX_LOG_LEVEL", "debug")

	cfg, err := smoke.LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "from the environment", cfg.Message)
	assert.Equal(t, logrus.DebugLevel, cfg.Level())

	cfg.LogLevel = "loud"
	assert.Equal(t, logrus.InfoLevel, cfg.Level())
}

func TestLoadConfigEnvFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ECLIPTIX_SMOKE_PASSWORD=from-file\n"), 0o600))

	cfg, err := smoke.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Password)

	_, err = smoke.LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoadConfigPrivateWithoutPublic(t *testing.T) {
	clearEnv(t)
	t.Setenv("ECLIPTIX_PRIVATE_KEY_PATH", "private.pem")

	_, err := smoke.LoadConfig("")
	assert.Error(t, err)
}

func TestRunEmbeddedKeys(t *testing.T) {
	report, hook := run(t, defaultConfig(t))

	require.False(t, report.Failed(), "%+v", report.Steps)

	names := make([]string, 0, len(report.Steps))
	for _, s := range report.Steps {
		names = append(names, s.Name)
	}

	assert.Equal(t, []string{
		"init", "public_key", "encrypt", "decrypt", "cleanup",
		"state_create", "client_create", "registration_request", "ke1", "destroy",
	}, names)

	m := results(report)
	assert.Equal(t, smoke.Skipped, m["decrypt"])
	assert.Equal(t, smoke.Passed, m["ke1"])

	step, ok := report.Step("encrypt")
	require.True(t, ok)
	assert.Contains(t, step.Detail, "256 bytes")

	assert.Len(t, hook.AllEntries(), len(report.Steps))
	assert.Equal(t, t.Name(), hook.LastEntry().Data["run_id"])
}

func TestRunFullKeys(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.PublicKeyPath = filepath.Join("..", "..", "keys", "client_public.pem")
	cfg.PrivateKeyPath = filepath.Join("..", "..", "testdata", "client_private.pem")

	report, _ := run(t, cfg)
	require.False(t, report.Failed(), "%+v", report.Steps)
	assert.Equal(t, smoke.Passed, results(report)["decrypt"])
}

func TestRunMissingServerKey(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.ServerPublicKey = "abcd"

	report, _ := run(t, cfg)
	require.False(t, report.Failed())

	m := results(report)
	assert.Equal(t, smoke.Skipped, m["client_create"])
	assert.Equal(t, smoke.Passed, m["destroy"])
	assert.NotContains(t, m, "ke1")
}

func TestRunInvalidServerKey(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.ServerPublicKey = strings.Repeat("ff", 32)

	report, _ := run(t, cfg)
	require.True(t, report.Failed())

	step, ok := report.Step("client_create")
	require.True(t, ok)
	assert.Equal(t, smoke.Failed, step.Result)
	assert.Contains(t, step.Detail, capi.StatusInvalidServerKey.String())
}

func TestRunInitFailure(t *testing.T) {
	cfg := defaultConfig(t)
	cfg.PublicKeyPath = filepath.Join(t.TempDir(), "missing.pem")

	report, hook := run(t, cfg)
	require.True(t, report.Failed())

	m := results(report)
	assert.Equal(t, smoke.Failed, m["init"])
	assert.Equal(t, smoke.Passed, m["cleanup"])
	assert.NotContains(t, m, "public_key")
	assert.Equal(t, smoke.Passed, m["ke1"])

	var errorsLogged int
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			errorsLogged++
		}
	}

	assert.Equal(t, 1, errorsLogged)
}
