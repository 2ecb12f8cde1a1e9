package partner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("business client is b2b", func(t *testing.T) {
		c, err := NewClient("c1", "b1", "Café Central", ClientTypeBusiness)
		require.NoError(t, err)
		assert.True(t, c.IsB2B())
	})

	t.Run("individual client is not b2b", func(t *testing.T) {
		c, err := NewClient("c2", "b1", "Ana", ClientTypeIndividual)
		require.NoError(t, err)
		assert.False(t, c.IsB2B())
	})

	tests := []struct {
		name     string
		id       string
		bakeryID string
		typ      ClientType
	}{
		{"empty id", "", "b1", ClientTypeBusiness},
		{"empty bakery", "c1", "", ClientTypeBusiness},
		{"unknown type", "c1", "b1", ClientType("vip")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.id, tt.bakeryID, "x", tt.typ)
			assert.Error(t, err)
		})
	}
}
