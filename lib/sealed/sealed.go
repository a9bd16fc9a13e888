// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/bureau-foundation/stockroom/lib/secret"
)

// maxSealedSize bounds the plaintext Open will accept. Bot tokens are
// well under 100 bytes.
const maxSealedSize = 4096

// Identity is an age x25519 identity held in protected memory.
type Identity struct {
	// Key is the AGE-SECRET-KEY-1... encoding.
	Key *secret.Buffer

	// Recipient is the public age1... encoding, safe to publish.
	Recipient string
}

// Close releases the private key.
func (i *Identity) Close() error {
	if i.Key == nil {
		return nil
	}
	return i.Key.Close()
}

// GenerateIdentity creates a new identity.
func GenerateIdentity() (*Identity, error) {
	generated, err := age.GenerateX25519Identity()
	if err != nil {
		return nil, fmt.Errorf("sealed: generating identity: %w", err)
	}
	key, err := secret.NewFromBytes([]byte(generated.String()))
	if err != nil {
		return nil, fmt.Errorf("sealed: protecting identity: %w", err)
	}
	return &Identity{Key: key, Recipient: generated.Recipient().String()}, nil
}

// LoadIdentity reads the first identity in an age identity file. The
// file may contain comment lines, as age-keygen writes them.
func LoadIdentity(path string) (*Identity, error) {
	contents, err := secret.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sealed: reading identity: %w", err)
	}
	defer contents.Close()

	for line := range strings.Lines(contents.String()) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parsed, err := age.ParseX25519Identity(line)
		if err != nil {
			return nil, fmt.Errorf("sealed: %s: %w", path, err)
		}
		key, err := secret.NewFromBytes([]byte(line))
		if err != nil {
			return nil, fmt.Errorf("sealed: protecting identity: %w", err)
		}
		return &Identity{Key: key, Recipient: parsed.Recipient().String()}, nil
	}
	return nil, fmt.Errorf("sealed: %s contains no identity", path)
}

// Seal encrypts plaintext to each recipient and returns the ASCII
// armored ciphertext.
func Seal(plaintext []byte, recipients ...string) (string, error) {
	if len(recipients) == 0 {
		return "", fmt.Errorf("sealed: at least one recipient is required")
	}
	parsed := make([]age.Recipient, 0, len(recipients))
	for _, recipient := range recipients {
		value, err := age.ParseX25519Recipient(strings.TrimSpace(recipient))
		if err != nil {
			return "", fmt.Errorf("sealed: recipient %q: %w", recipient, err)
		}
		parsed = append(parsed, value)
	}

	var output bytes.Buffer
	armored := armor.NewWriter(&output)
	writer, err := age.Encrypt(armored, parsed...)
	if err != nil {
		return "", fmt.Errorf("sealed: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return "", fmt.Errorf("sealed: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("sealed: %w", err)
	}
	if err := armored.Close(); err != nil {
		return "", fmt.Errorf("sealed: %w", err)
	}
	return output.String(), nil
}

// Open decrypts armored ciphertext with identity. The caller owns the
// returned buffer.
func Open(ciphertext string, identity *Identity) (*secret.Buffer, error) {
	parsed, err := age.ParseX25519Identity(identity.Key.String())
	if err != nil {
		return nil, fmt.Errorf("sealed: identity: %w", err)
	}

	reader, err := age.Decrypt(armor.NewReader(strings.NewReader(strings.TrimSpace(ciphertext)+"\n")), parsed)
	if err != nil {
		return nil, fmt.Errorf("sealed: decrypting: %w", err)
	}
	plaintext, err := io.ReadAll(io.LimitReader(reader, maxSealedSize+1))
	if err != nil {
		return nil, fmt.Errorf("sealed: decrypting: %w", err)
	}
	if len(plaintext) > maxSealedSize {
		secret.Zero(plaintext)
		return nil, fmt.Errorf("sealed: plaintext exceeds %d bytes", maxSealedSize)
	}

	trimmed := bytes.TrimSpace(plaintext)
	buffer, err := secret.NewFromBytes(trimmed)
	secret.Zero(plaintext)
	if err != nil {
		return nil, fmt.Errorf("sealed: %w", err)
	}
	return buffer, nil
}
