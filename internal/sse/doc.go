// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package sse decodes text/event-stream bodies delivered in arbitrary chunks.
//
// [Decoder] turns `event:` / `data:` framed blocks into [Event] values and is
// used for the sync stream. [DataDecoder] is the single-field variant used by
// the model-download stream, where every `data:` line is a complete frame.
//
// Both decoders keep only a byte buffer between calls. Create one per stream
// or call Reset before reusing it.
package sse
