package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageClamping(t *testing.T) {
	tests := []struct {
		name         string
		number, size int
		wantNumber   int
		wantSize     int
	}{
		{"defaults", 0, 0, 0, DefaultPageSize},
		{"negative page", -3, 25, 0, 25},
		{"negative size", 2, -1, 2, DefaultPageSize},
		{"size above cap", 0, 500, 0, MaxPageSize},
		{"size at cap", 1, 100, 1, 100},
		{"in range", 4, 50, 4, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage(tt.number, tt.size)
			assert.Equal(t, tt.wantNumber, p.Number)
			assert.Equal(t, tt.wantSize, p.Size)
		})
	}
}

func TestPageOffset(t *testing.T) {
	p := NewPage(3, 25)
	assert.Equal(t, 25, p.Limit())
	assert.Equal(t, 75, p.Offset())
}

func TestOrderSQL(t *testing.T) {
	assert.Empty(t, OrderSQL(nil))
	assert.Equal(t, " ORDER BY code", OrderSQL([]Order{Asc("code")}))
	assert.Equal(t, " ORDER BY created_at DESC, id", OrderSQL([]Order{Desc("created_at"), Asc("id")}))
}
