// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client defines the lifecycle contract of the dataset sync client.
type Client interface {
	// Start restores cached state and establishes the remote identity.
	Start(ctx context.Context) error

	// Watch syncs in the background until ctx is cancelled.
	Watch(ctx context.Context) error

	// Close persists state and releases resources.
	Close(ctx context.Context) error
}

var _ Client = (*App)(nil)
