// Copyright (C) scidtail contributors.
// All rights reserved. This file is part of scidtail.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ingesterr classifies errors into the taxonomy of spec.md §7, so
// the supervisor can branch on Class rather than string-matching messages.
package ingesterr

import (
	"errors"
	"fmt"
)

// Class is one of the five error categories spec.md §7 defines.
type Class int

const (
	// ClassUnknown covers errors not produced by Wrap — the supervisor
	// treats these the same as an "any other unexpected exception".
	ClassUnknown Class = iota
	ClassConfig
	ClassSourceFile
	ClassCheckpoint
	ClassIngestion
	ClassQuery
)

func (c Class) String() string {
	switch c {
	case ClassConfig:
		return "config"
	case ClassSourceFile:
		return "source-file"
	case ClassCheckpoint:
		return "checkpoint"
	case ClassIngestion:
		return "ingestion"
	case ClassQuery:
		return "query"
	default:
		return "unknown"
	}
}

// classified wraps an error with its Class, preserving the chain for
// errors.Is/errors.As through Unwrap.
type classified struct {
	class Class
	msg   string
	err   error
}

func (c *classified) Error() string {
	return fmt.Sprintf("%s: %s: %v", c.class, c.msg, c.err)
}

func (c *classified) Unwrap() error {
	return c.err
}

// Wrap attaches class to err with a message, matching the teacher's
// fmt.Errorf("%w") layering convention. Returns nil if err is nil.
func Wrap(class Class, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &classified{class: class, msg: msg, err: err}
}

// ClassOf returns the Class attached to err by Wrap, or ClassUnknown if err
// was never classified.
func ClassOf(err error) Class {
	var c *classified
	if errors.As(err, &c) {
		return c.class
	}
	return ClassUnknown
}
