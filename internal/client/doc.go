// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the client application runtime.
//
// It wires the local store, the credential provider, the remote document
// store and the sync orchestrator together with the scheduler, background
// workers and the diagnostics server into a single process lifecycle.
package client
