/*
 * wavecast
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

// Package errkind classifies errors raised anywhere in wavecast into a
// small, fixed set of kinds, wrapping the underlying cause with
// github.com/pkg/errors so a stack trace survives the classification.
package errkind

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind is one of the error categories described in the design notes.
type Kind int

const (
	Unknown Kind = iota
	ResourceNotFound
	UnsupportedFormat
	ProbeFailure
	IoError
	ConfigError
	CacheCorruption
)

func (k Kind) String() string {
	switch k {
	case ResourceNotFound:
		return "resource_not_found"
	case UnsupportedFormat:
		return "unsupported_format"
	case ProbeFailure:
		return "probe_failure"
	case IoError:
		return "io_error"
	case ConfigError:
		return "config_error"
	case CacheCorruption:
		return "cache_corruption"
	default:
		return "unknown"
	}
}

// Error pairs a Kind with the wrapped cause.
type Error struct {
	Kind Kind
	err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.err)
}

func (e *Error) Unwrap() error { return e.err }

// Cause implements the github.com/pkg/errors causer interface.
func (e *Error) Cause() error { return e.err }

// New builds a fresh Kind-tagged error with the given message.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, err: errors.New(msg)}
}

// Newf builds a fresh Kind-tagged error with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, err: errors.Errorf(format, args...)}
}

// Wrap tags err with kind and attaches msg as context. Returns nil if
// err is nil.
func Wrap(err error, kind Kind, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, err: errors.Wrap(err, msg)}
}

// Is reports whether the nearest *Error in err's Unwrap chain (err
// itself included) was tagged with kind. Kinds on *Error values further
// down the chain are not consulted.
func Is(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind == kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
