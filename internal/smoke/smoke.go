// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package smoke drives every boundary operation once against the built-in key material and reports each step.
package smoke

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ecliptix/ecliptix/internal/capi"
)

// Result is the outcome of a step.
type Result string

const (
	// Passed indicates a successful step.
	Passed Result = "passed"

	// Failed indicates a failed step.
	Failed Result = "failed"

	// Skipped indicates a step that did not run or whose failure is expected.
	Skipped Result = "skipped"
)

const previewLength = 120

// Step is a single report line.
type Step struct {
	Name   string
	Result Result
	Detail string
}

// Report lists the steps of a run in order.
type Report struct {
	Steps []Step
}

// Failed returns whether any step failed.
func (r *Report) Failed() bool {
	for _, s := range r.Steps {
		if s.Result == Failed {
			return true
		}
	}

	return false
}

// Step returns the named step, if present.
func (r *Report) Step(name string) (Step, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}

	return Step{}, false
}

type runner struct {
	lib    *capi.Library
	log    logrus.FieldLogger
	report *Report
}

func (r *runner) add(name string, result Result, format string, args ...any) {
	detail := fmt.Sprintf(format, args...)
	r.report.Steps = append(r.report.Steps, Step{Name: name, Result: result, Detail: detail})

	entry := r.log.WithFields(logrus.Fields{"step": name, "status": result})
	if result == Failed {
		entry.Error(detail)
		return
	}

	entry.Info(detail)
}

func (r *runner) fail(name string, status capi.Status) {
	r.add(name, Failed, "%s: %s", status, r.lib.LastError())
}

func preview(b []byte) string {
	s := base64.StdEncoding.EncodeToString(b)
	if len(s) > previewLength {
		return s[:previewLength] + "..."
	}

	return s
}

// twoPhase runs a buffer call once to learn the required length, then again with an exact buffer.
func twoPhase(call func(out []byte, outLen *int) capi.Status) ([]byte, capi.Status) {
	var n int
	if status := call(nil, &n); status != capi.StatusBufferTooSmall {
		return nil, status
	}

	out := make([]byte, n)
	if status := call(out, &n); status != capi.StatusOK {
		return nil, status
	}

	return out[:n], capi.StatusOK
}

// Run executes the smoke sequence and returns its report.
func Run(cfg *Config, lib *capi.Library, logger logrus.FieldLogger) *Report {
	r := &runner{lib: lib, log: logger, report: &Report{}}

	r.keys(cfg)
	r.opaque(cfg)

	return r.report
}

func (r *runner) keys(cfg *Config) {
	defer func() {
		r.lib.Cleanup()
		r.add("cleanup", Passed, "key material released")
	}()

	if status := r.lib.Init(); status != capi.StatusOK {
		r.fail("init", status)
		return
	}

	r.add("init", Passed, "key material loaded")

	der, status := twoPhase(r.lib.PublicKey)
	if status != capi.StatusOK {
		r.fail("public_key", status)
	} else {
		r.add("public_key", Passed, "DER %d bytes, base64 %s", len(der), preview(der))
	}

	message := []byte(cfg.Message)

	ciphertext, status := twoPhase(func(out []byte, outLen *int) capi.Status {
		return r.lib.Encrypt(message, out, outLen)
	})
	if status != capi.StatusOK {
		r.fail("encrypt", status)
		r.add("decrypt", Skipped, "no ciphertext")

		return
	}

	r.add("encrypt", Passed, "ciphertext length = %d bytes", len(ciphertext))

	plaintext, status := twoPhase(func(out []byte, outLen *int) capi.Status {
		return r.lib.Decrypt(ciphertext, out, outLen)
	})

	switch {
	case status == capi.StatusNoPrivateKey:
		r.add("decrypt", Skipped, "no private key available (expected in public-only builds)")
	case status != capi.StatusOK:
		r.fail("decrypt", status)
	case !bytes.Equal(plaintext, message):
		r.add("decrypt", Failed, "roundtrip mismatch")
	default:
		r.add("decrypt", Passed, "roundtrip OK")
	}
}

func (r *runner) opaque(cfg *Config) {
	password := []byte(cfg.Password)

	registrationState, status := r.lib.StateCreate()
	if status != capi.StatusOK {
		r.fail("state_create", status)
		return
	}

	r.add("state_create", Passed, "state created")

	var (
		client   capi.Handle
		ke1State capi.Handle
	)

	defer func() {
		r.lib.StateDestroy(registrationState)
		r.lib.StateDestroy(ke1State)
		r.lib.ClientDestroy(client)
		r.add("destroy", Passed, "handles released")
	}()

	serverKey, err := cfg.ServerKey()
	if err != nil {
		r.add("client_create", Skipped, "%v, skipping the steps requiring a client", err)
		return
	}

	if client, status = r.lib.ClientCreate(serverKey); status != capi.StatusOK {
		r.fail("client_create", status)
		return
	}

	r.add("client_create", Passed, "client created (server key OK)")

	out := make([]byte, capi.MaxMessageLength)

	n, status := r.lib.CreateRegistrationRequest(client, password, registrationState, out)
	if status != capi.StatusOK {
		r.fail("registration_request", status)
	} else {
		r.add("registration_request", Passed, "%d bytes, base64 %s", n, preview(out[:n]))
	}

	if ke1State, status = r.lib.StateCreate(); status != capi.StatusOK {
		r.fail("ke1", status)
		return
	}

	n, status = r.lib.GenerateKE1(client, password, ke1State, out)
	if status != capi.StatusOK {
		r.fail("ke1", status)
		return
	}

	r.add("ke1", Passed, "%d bytes, base64 %s", n, preview(out[:n]))
}
