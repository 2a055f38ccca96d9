package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOrderIDPrefix(t *testing.T) {
	day := time.Date(2024, 10, 5, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "ORD-241005", OrderIDPrefix(day))

	newYear := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "ORD-250101", OrderIDPrefix(newYear))
}

func TestFormatOrderID(t *testing.T) {
	assert.Equal(t, "ORD-241005-001", FormatOrderID("ORD-241005", 1))
	assert.Equal(t, "ORD-241005-042", FormatOrderID("ORD-241005", 42))
	// Sequence can outgrow the padding without truncation.
	assert.Equal(t, "ORD-241005-1000", FormatOrderID("ORD-241005", 1000))
}

func TestNextSequence(t *testing.T) {
	tests := []struct {
		name   string
		lastID string
		want   int
	}{
		{"first order of the day", "", 1},
		{"increments the suffix", "ORD-241005-001", 2},
		{"carries across padding", "ORD-241005-099", 100},
		{"continues past the padded range", "ORD-241005-999", 1000},
		{"four-digit suffix keeps counting", "ORD-241005-1000", 1001},
		{"malformed id restarts", "garbage", 1},
		{"non-numeric suffix restarts", "ORD-241005-abc", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextSequence(tt.lastID))
		})
	}
}
