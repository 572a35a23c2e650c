// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package codec converts dataset values to and from the wire-safe string
// form stored in records, patches and the persistent cache.
//
// Encoding is JSON. Decoding is best effort: corrupt input is logged and
// reported as absent, never returned as an error.
package codec

import (
	"encoding/json"
	"reflect"

	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/google/go-cmp/cmp"
)

// Codec serializes values and tolerates corrupt input on the way back.
type Codec struct {
	logger *logger.Logger
}

// New returns a Codec that reports decode failures to log.
func New(log *logger.Logger) *Codec {
	if log == nil {
		log = logger.Nop()
	}
	return &Codec{logger: log}
}

// Serialize encodes v. It never fails: a value JSON cannot represent
// (channels, functions, cyclic structures) is logged and encoded as null.
func (c *Codec) Serialize(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn().Err(err).
			Str("func", "Codec.Serialize").
			Str("type", reflect.TypeOf(v).String()).
			Msg("value is not serializable, encoding as null")
		return "null"
	}
	return string(data)
}

// Deserialize decodes text. The boolean is false when text is malformed;
// callers must treat that as an absent value.
func (c *Codec) Deserialize(text string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		c.logger.Debug().Err(err).
			Str("func", "Codec.Deserialize").
			Int("length", len(text)).
			Msg("deserializing failed, data might be empty, invalid or corrupted")
		return nil, false
	}
	return v, true
}

// DeserializePtr is Deserialize with an absent-input passthrough: a nil
// text yields (nil, false) without logging.
func (c *Codec) DeserializePtr(text *string) (any, bool) {
	if text == nil {
		return nil, false
	}
	return c.Deserialize(*text)
}

// DeserializeInto decodes text into dst and reports success. dst is left
// untouched on failure.
func (c *Codec) DeserializeInto(text string, dst any) bool {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		c.logger.Error().Str("func", "Codec.DeserializeInto").Msg("destination must be a non-nil pointer")
		return false
	}

	tmp := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal([]byte(text), tmp.Interface()); err != nil {
		c.logger.Debug().Err(err).
			Str("func", "Codec.DeserializeInto").
			Str("type", rv.Elem().Type().String()).
			Msg("deserializing failed, data might be empty, invalid or corrupted")
		return false
	}
	rv.Elem().Set(tmp.Elem())
	return true
}

// Normalize returns v as it would look after a serialize/deserialize round
// trip, so that Go values compare equal to their decoded counterparts.
func (c *Codec) Normalize(v any) any {
	out, _ := c.Deserialize(c.Serialize(v))
	return out
}

// Equal reports whether a and b encode to the same value.
func (c *Codec) Equal(a, b any) bool {
	return cmp.Equal(c.Normalize(a), c.Normalize(b))
}

// IsEmpty reports whether v counts as a removal: nil, the empty string, or
// an empty slice, array or map.
func IsEmpty(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return IsEmpty(rv.Elem().Interface())
	}
	return false
}
