// Copyright (c) 2026, the qbitrr contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package ttlset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetAddContainsRemove(t *testing.T) {
	s := New(time.Minute)

	assert.False(t, s.Contains("ABCD"))

	s.Add("ABCD")
	assert.True(t, s.Contains("ABCD"))

	s.Remove("ABCD")
	assert.False(t, s.Contains("ABCD"))
}

func TestSetExpires(t *testing.T) {
	s := New(20 * time.Millisecond)

	s.Add("ABCD")
	assert.True(t, s.Contains("ABCD"))

	time.Sleep(100 * time.Millisecond)
	assert.False(t, s.Contains("ABCD"))
}
