// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cache persists the sync engine's dataset snapshot and pending
// journal between process runs through a [store.SlotStore].
package cache

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-dataset-sync/internal/codec"
	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/internal/store"
	"github.com/MKhiriev/go-dataset-sync/models"
)

// Slot names of the two persisted tables.
const (
	DatasetsSlot = "cosync-DATASETS"
	JournalSlot  = "cosync-DATASET_JOURNAL"
)

// State is the pair of tables written by [Bridge.Store].
type State struct {
	Datasets models.Datasets
	Journal  models.Journal
}

// Restored is the result of [Bridge.Restore]. A field is nil when its slot
// was absent or could not be decoded into an object.
type Restored struct {
	Datasets models.Datasets
	Journal  models.Journal
}

// Bridge encodes engine state into slots and back.
type Bridge struct {
	slots  store.SlotStore
	codec  *codec.Codec
	logger *logger.Logger
}

// NewBridge returns a Bridge over slots.
func NewBridge(slots store.SlotStore, c *codec.Codec, log *logger.Logger) *Bridge {
	return &Bridge{slots: slots, codec: c, logger: log}
}

// Store writes both tables. The two slot writes are independent: when the
// journal write fails the datasets slot has already been replaced.
func (b *Bridge) Store(ctx context.Context, state State) error {
	if err := b.slots.PutSlot(ctx, DatasetsSlot, b.codec.Serialize(state.Datasets)); err != nil {
		return fmt.Errorf("store slot %s: %w", DatasetsSlot, err)
	}
	if err := b.slots.PutSlot(ctx, JournalSlot, b.codec.Serialize(state.Journal)); err != nil {
		return fmt.Errorf("store slot %s: %w", JournalSlot, err)
	}

	b.logger.Debug().
		Str("func", "Bridge.Store").
		Int("datasets", len(state.Datasets)).
		Int("journals", len(state.Journal)).
		Msg("cache stored")
	return nil
}

// Restore reads both tables. It never fails; unreadable slots are logged
// and reported as absent.
func (b *Bridge) Restore(ctx context.Context) Restored {
	var out Restored

	if text, ok := b.readSlot(ctx, DatasetsSlot); ok {
		var datasets models.Datasets
		if b.codec.DeserializeInto(text, &datasets) && datasets != nil {
			out.Datasets = datasets
		}
	}

	if text, ok := b.readSlot(ctx, JournalSlot); ok {
		var journal models.Journal
		if b.codec.DeserializeInto(text, &journal) && journal != nil {
			out.Journal = journal
		}
	}

	return out
}

func (b *Bridge) readSlot(ctx context.Context, name string) (string, bool) {
	text, found, err := b.slots.GetSlot(ctx, name)
	if err != nil {
		b.logger.Warn().Err(err).
			Str("func", "Bridge.Restore").
			Str("slot", name).
			Msg("failed to read cache slot")
		return "", false
	}
	return text, found
}
