// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package oprf

import (
	group "github.com/bytemare/crypto"

	"github.com/ecliptix/ecliptix/internal/encoding"
	"github.com/ecliptix/ecliptix/internal/tag"
)

// Client implements the OPRF client and holds its state.
type Client struct {
	input []byte
	blind *group.Scalar
	Identifier
}

// SetBlind sets the blinding scalar to use. The client works on a copy.
func (c *Client) SetBlind(blind *group.Scalar) error {
	if blind == nil || blind.IsZero() {
		return ErrZeroBlind
	}

	c.blind = blind.Copy()

	return nil
}

// Blind masks the input. A random blind is drawn if none was set.
func (c *Client) Blind(input []byte) (*group.Element, error) {
	if c.blind == nil {
		c.blind = c.Group().NewScalar().Random()
	}

	p := c.Group().HashToGroup(input, c.dst(tag.OPRFPointPrefix))
	if p.IsIdentity() {
		return nil, ErrInvalidInput
	}

	c.input = input

	return p.Multiply(c.blind), nil
}

// Finalize terminates the OPRF by unblinding the evaluation and hashing the transcript.
func (c *Client) Finalize(evaluation *group.Element) []byte {
	inverted := c.blind.Copy().Invert()
	unblinded := evaluation.Copy().Multiply(inverted).Encode()

	return c.hash(
		encoding.EncodeVector(c.input),
		encoding.EncodeVector(unblinded),
		[]byte(tag.OPRFFinalize),
	)
}

// Clear zeroes the blind and drops the reference to the input.
func (c *Client) Clear() {
	if c.blind != nil {
		c.blind.Zero()
		c.blind = nil
	}

	c.input = nil
}
