// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Command libecliptix builds the ecliptix C library:
//
//	go build -buildmode=c-archive -o libecliptix.a ./cmd/libecliptix
//
// Handles cross the boundary as uintptr_t and require a 64-bit target. Status codes are those of internal/capi.
package main

/*
#include <stddef.h>
#include <stdint.h>
#include <stdlib.h>
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/ecliptix/ecliptix/internal/capi"
)

var (
	lib = capi.New()

	errMu      sync.Mutex
	errMessage string
	errCString *C.char
)

// view returns the C buffer as a byte slice without copying.
func view(p *C.uint8_t, n C.size_t) []byte {
	if p == nil || n == 0 {
		return nil
	}

	return unsafe.Slice((*byte)(unsafe.Pointer(p)), int(n))
}

func freeError() {
	if errCString != nil {
		C.free(unsafe.Pointer(errCString))
		errCString = nil
	}

	errMessage = ""
}

// buffered runs a capacity protocol call: *outLen holds the capacity on input and the written or required length on
// output.
func buffered(op string, out *C.uint8_t, outLen *C.size_t, call func(out []byte, n *int) capi.Status) C.int {
	if outLen == nil {
		return C.int(lib.InvalidParams(op))
	}

	n := int(*outLen)
	status := call(view(out, *outLen), &n)

	if status == capi.StatusOK || status == capi.StatusBufferTooSmall {
		*outLen = C.size_t(n)
	}

	return C.int(status)
}

//export ecliptix_client_init
func ecliptix_client_init() C.int {
	return C.int(lib.Init())
}

//export ecliptix_client_cleanup
func ecliptix_client_cleanup() {
	lib.Cleanup()

	errMu.Lock()
	freeError()
	errMu.Unlock()
}

// ecliptix_client_get_error returns the last error message. The string is owned by the library and stays valid until
// the next failing call or cleanup.
//
//export ecliptix_client_get_error
func ecliptix_client_get_error() *C.char {
	errMu.Lock()
	defer errMu.Unlock()

	message := lib.LastError()
	if errCString == nil || message != errMessage {
		freeError()
		errMessage = message
		errCString = C.CString(message)
	}

	return errCString
}

//export ecliptix_client_get_public_key
func ecliptix_client_get_public_key(out *C.uint8_t, outLen *C.size_t) C.int {
	return buffered("public_key", out, outLen, lib.PublicKey)
}

//export ecliptix_client_encrypt
func ecliptix_client_encrypt(in *C.uint8_t, inLen C.size_t, out *C.uint8_t, outLen *C.size_t) C.int {
	if in == nil && inLen != 0 {
		return C.int(lib.InvalidParams("encrypt"))
	}

	plaintext := view(in, inLen)

	return buffered("encrypt", out, outLen, func(o []byte, n *int) capi.Status {
		return lib.Encrypt(plaintext, o, n)
	})
}

//export ecliptix_client_decrypt
func ecliptix_client_decrypt(in *C.uint8_t, inLen C.size_t, out *C.uint8_t, outLen *C.size_t) C.int {
	if in == nil {
		return C.int(lib.InvalidParams("decrypt"))
	}

	ciphertext := view(in, inLen)

	return buffered("decrypt", out, outLen, func(o []byte, n *int) capi.Status {
		return lib.Decrypt(ciphertext, o, n)
	})
}

//export opaque_client_create
func opaque_client_create(serverPublicKey *C.uint8_t, keyLen C.size_t, handle *C.uintptr_t) C.int {
	if handle == nil {
		return C.int(lib.InvalidParams("client_create"))
	}

	*handle = 0

	h, status := lib.ClientCreate(view(serverPublicKey, keyLen))
	if status == capi.StatusOK {
		*handle = C.uintptr_t(h)
	}

	return C.int(status)
}

//export opaque_client_destroy
func opaque_client_destroy(handle C.uintptr_t) {
	lib.ClientDestroy(capi.Handle(handle))
}

//export opaque_client_state_create
func opaque_client_state_create(handle *C.uintptr_t) C.int {
	if handle == nil {
		return C.int(lib.InvalidParams("state_create"))
	}

	*handle = 0

	h, status := lib.StateCreate()
	if status == capi.StatusOK {
		*handle = C.uintptr_t(h)
	}

	return C.int(status)
}

//export opaque_client_state_destroy
func opaque_client_state_destroy(handle C.uintptr_t) {
	lib.StateDestroy(capi.Handle(handle))
}

//export opaque_client_create_registration_request
func opaque_client_create_registration_request(
	client C.uintptr_t,
	password *C.uint8_t, passwordLen C.size_t,
	state C.uintptr_t,
	out *C.uint8_t, outCapacity C.size_t,
) C.int {
	if out == nil {
		return C.int(lib.InvalidParams("create_registration_request"))
	}

	_, status := lib.CreateRegistrationRequest(
		capi.Handle(client), view(password, passwordLen), capi.Handle(state), view(out, outCapacity))

	return C.int(status)
}

//export opaque_client_generate_ke1
func opaque_client_generate_ke1(
	client C.uintptr_t,
	password *C.uint8_t, passwordLen C.size_t,
	state C.uintptr_t,
	out *C.uint8_t, outCapacity C.size_t,
) C.int {
	if out == nil {
		return C.int(lib.InvalidParams("generate_ke1"))
	}

	_, status := lib.GenerateKE1(
		capi.Handle(client), view(password, passwordLen), capi.Handle(state), view(out, outCapacity))

	return C.int(status)
}

func main() {}
