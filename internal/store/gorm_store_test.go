package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKVRowModel(t *testing.T) {
	// All logical tables share one physical table; the logical name
	// lives in a column, not in the gorm model name.
	assert.Equal(t, "kv_items", kvRow{}.TableName())
	assert.Equal(t, "api_keys", kvRow{Table: "api_keys"}.Table)
}

func TestDecodeRowRoundTrip(t *testing.T) {
	item := Item{
		"id":      Number(7),
		"api_key": String("token-7"),
	}
	attrs, err := json.Marshal(item)
	require.NoError(t, err)

	decoded, err := decodeRow(&kvRow{
		Table:      "api_keys",
		ItemKey:    "7",
		Attributes: attrs,
	})
	require.NoError(t, err)
	assert.Equal(t, item, decoded)

	_, err = decodeRow(&kvRow{
		Table:      "api_keys",
		ItemKey:    "8",
		Attributes: []byte("not json"),
	})
	assert.Error(t, err)
}
