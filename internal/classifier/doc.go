// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package classifier maps raw remote store failures into a small set of
// typed categories and derives the retry policy of each category.
//
// Structured errors are inspected first: sentinel errors of the adapter
// package, Google API status codes, OAuth token endpoint errors, network and
// context errors, JSON decoding errors. Message matching is used only when
// none of them apply.
package classifier
