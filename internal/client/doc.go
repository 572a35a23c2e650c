// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the dataset sync client application runtime.
//
// It wires the client services, the persistent cache and the background
// sync job into a single process lifecycle driven by the CLI.
package client
