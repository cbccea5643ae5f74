// Copyright (C) scidtail contributors.
// All rights reserved. This file is part of scidtail.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package ingesterr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapAndClassOf(t *testing.T) {
	base := errors.New("boom")
	err := Wrap(ClassIngestion, base, "flush window")

	assert.Equal(t, ClassIngestion, ClassOf(err))
	assert.True(t, errors.Is(err, base))
}

func TestClassOfUnwrappedErrorIsUnknown(t *testing.T) {
	assert.Equal(t, ClassUnknown, ClassOf(errors.New("plain")))
}

func TestWrapNilIsNil(t *testing.T) {
	assert.NoError(t, Wrap(ClassConfig, nil, "no-op"))
}
