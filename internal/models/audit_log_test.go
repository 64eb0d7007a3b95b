package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuditLog_SetMetadata(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    interface{}
		expected JSONBMap
	}{
		{
			name:  "set string value",
			key:   "reason",
			value: "renamed",
			expected: JSONBMap{
				"reason": "renamed",
			},
		},
		{
			name:  "set numeric value",
			key:   "deleted_count",
			value: 3,
			expected: JSONBMap{
				"deleted_count": 3,
			},
		},
		{
			name:  "set boolean value",
			key:   "success",
			value: true,
			expected: JSONBMap{
				"success": true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &AuditLog{}
			log.SetMetadata(tt.key, tt.value)
			assert.NotNil(t, log.Metadata)
			assert.Equal(t, tt.expected, log.Metadata)
		})
	}
}

func TestIsValidAuditResource(t *testing.T) {
	assert.True(t, IsValidAuditResource(AuditResourceAccount))
	assert.True(t, IsValidAuditResource(AuditResourceTransaction))
	assert.False(t, IsValidAuditResource("Account"))
	assert.False(t, IsValidAuditResource("user"))
	assert.False(t, IsValidAuditResource(""))
}

func TestJSONBMap_ValueAndScan(t *testing.T) {
	m := JSONBMap{"deleted_count": float64(2)}

	value, err := m.Value()
	assert.NoError(t, err)
	assert.Equal(t, `{"deleted_count":2}`, value)

	var scanned JSONBMap
	assert.NoError(t, scanned.Scan([]byte(`{"deleted_count":2}`)))
	assert.Equal(t, m, scanned)

	empty, err := JSONBMap{}.Value()
	assert.NoError(t, err)
	assert.Nil(t, empty)

	assert.Error(t, scanned.Scan(42))
}
