// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package vgfx

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// ReportFunc receives diagnostics from the instance and its loader threads.
type ReportFunc func(severity ReportSeverity, message string)

// reporter serializes report delivery so concurrent loader threads do not
// interleave messages. With no callback installed reports go to a zerolog
// console logger on stderr.
type reporter struct {
	mu       sync.Mutex
	callback ReportFunc
	log      zerolog.Logger
}

func newReporter(callback ReportFunc) *reporter {
	return &reporter{
		callback: callback,
		log: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			With().Timestamp().Str("component", "vgfx").Logger(),
	}
}

// Report delivers one message under the reporter mutex.
func (r *reporter) Report(severity ReportSeverity, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.callback != nil {
		r.callback(severity, message)
		return
	}

	switch severity {
	case ReportSeverityNone, ReportSeverityVerbose:
		r.log.Debug().Msg(message)
	case ReportSeverityInfo:
		r.log.Info().Msg(message)
	case ReportSeverityPerformanceWarning, ReportSeverityWarning:
		r.log.Warn().Str("severity", severity.String()).Msg(message)
	default:
		r.log.Error().Str("severity", severity.String()).Msg(message)
	}
}
