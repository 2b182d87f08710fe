// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Command ecliptix-smoke runs every boundary operation once and prints a summary. It exits with status 1 if any step
// failed.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ecliptix/ecliptix/internal/capi"
	"github.com/ecliptix/ecliptix/internal/smoke"
)

func main() {
	envFile := flag.String("env", "", "optional .env file loaded before reading the environment")
	flag.Parse()

	cfg, err := smoke.LoadConfig(*envFile)
	if err != nil {
		color.Red("[!] %v", err)
		os.Exit(2)
	}

	logger := logrus.New()
	logger.SetLevel(cfg.Level())
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	runID := uuid.New()
	entry := logger.WithField("run_id", runID.String())

	lib := capi.New(capi.WithKeyLoader(cfg.KeyLoader()))
	report := smoke.Run(cfg, lib, entry)

	color.Blue("ecliptix smoke run %s", runID)

	for _, step := range report.Steps {
		line := fmt.Sprintf("%-22s %s", step.Name, step.Detail)

		switch step.Result {
		case smoke.Passed:
			color.Green("[+] %s", line)
		case smoke.Skipped:
			color.Yellow("[-] %s", line)
		default:
			color.Red("[!] %s", line)
		}
	}

	if report.Failed() {
		color.Red("smoke run failed")
		os.Exit(1)
	}

	color.Green("smoke run OK")
}
