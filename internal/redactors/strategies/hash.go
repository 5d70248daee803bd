// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package strategies

import (
	"crypto/sha256"

	"meddoc-anonymizer/internal/detector"
	"meddoc-anonymizer/internal/redactors"
)

const (
	hashTokenLen = 8
	hashMaxLen   = 2 * sha256.Size
)

// HashStrategy replaces a span with "<TYPE_xxxxxxxx>", where the suffix is
// derived from the SHA-256 of the entity type and the span text. Hex nibbles
// are spelled with the letters a-p so tokens never contain digits.
//
// Within one HashStrategy identical (type, text) pairs always get the same
// token and different pairs never share one: a collision lengthens the later
// token until it is unique.
type HashStrategy struct {
	tokens map[hashKey]string
	owners map[string]hashKey
}

type hashKey struct {
	entityType string
	text       string
}

// NewHashStrategy creates a hash strategy with an empty token cache.
func NewHashStrategy() *HashStrategy {
	return &HashStrategy{
		tokens: make(map[hashKey]string),
		owners: make(map[string]hashKey),
	}
}

func (*HashStrategy) Operator() redactors.Operator { return redactors.OperatorHash }

// Apply returns the span's token.
func (h *HashStrategy) Apply(span detector.Finding, _ redactors.OperatorSpec) string {
	key := hashKey{entityType: span.EntityType, text: span.Text}
	if token, ok := h.tokens[key]; ok {
		return token
	}

	digest := letters(span.EntityType, span.Text)
	var token string
	for n := hashTokenLen; n <= hashMaxLen; n += 4 {
		token = "<" + span.EntityType + "_" + digest[:n] + ">"
		if _, taken := h.owners[token]; !taken {
			break
		}
	}
	h.tokens[key] = token
	h.owners[token] = key
	return token
}

// letters returns the digest of type and text with every nibble mapped to 'a'+nibble.
func letters(entityType, text string) string {
	sum := sha256.Sum256([]byte(entityType + "\x00" + text))
	out := make([]byte, 0, hashMaxLen)
	for _, b := range sum {
		out = append(out, 'a'+b>>4, 'a'+b&0x0f)
	}
	return string(out)
}
