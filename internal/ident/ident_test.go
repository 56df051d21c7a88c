package ident

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFormat(t *testing.T) {
	now := time.Date(2026, 8, 28, 14, 32, 12, 0, time.UTC)
	id := New(PrefixStudent, now)

	assert.True(t, strings.HasPrefix(id, "STU20260828143212-"))
	assert.Len(t, id, len("STU20260828143212-0000"))
}

func TestNewUsesUTC(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2026, 8, 28, 20, 2, 12, 0, loc)
	id := New(PrefixClassroom, now)

	assert.True(t, strings.HasPrefix(id, "CLS20260828143212-"))
}

func TestNewMessageIDSortsByTime(t *testing.T) {
	a := NewMessageID()
	time.Sleep(2 * time.Millisecond)
	b := NewMessageID()

	require.Len(t, a, 26)
	assert.Less(t, a, b)
}
