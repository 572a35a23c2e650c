// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import "errors"

// errNoHandlersAreCreated is returned by NewHandlers when the server
// configuration provides no HTTP address, so no transport handler is
// initialized. This is a fatal misconfiguration and stops the application
// at startup.
var errNoHandlersAreCreated = errors.New("no handlers are created")
