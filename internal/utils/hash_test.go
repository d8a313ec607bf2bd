// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestContentHash_Deterministic(t *testing.T) {
	data := []byte(`{"mood":"calm"}`)

	sum1 := ContentHash(data)
	sum2 := ContentHash(data)

	if sum1 == "" {
		t.Fatal("hash result is empty")
	}
	if sum1 != sum2 {
		t.Fatal("hash must be deterministic for the same input")
	}

	// сверяем с прямым вычислением SHA-256
	expected := sha256.Sum256(data)
	if sum1 != hex.EncodeToString(expected[:]) {
		t.Fatalf("unexpected hash value\nwant: %x\ngot:  %s", expected, sum1)
	}
}

func TestContentHash_DifferentInput(t *testing.T) {
	if ContentHash([]byte("a")) == ContentHash([]byte("b")) {
		t.Fatal("different inputs must produce different hashes")
	}
}

func TestContentHash_Empty(t *testing.T) {
	// SHA-256 пустой строки
	const want = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := ContentHash(nil); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
