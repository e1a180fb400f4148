package mq

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	body, err := Encode("review.saved", map[string]interface{}{"product_id": 3, "rating": 4.5})
	require.NoError(t, err)

	var ev struct {
		Type    string                 `json:"type"`
		Payload map[string]interface{} `json:"payload"`
	}
	require.NoError(t, json.Unmarshal(body, &ev))
	assert.Equal(t, "review.saved", ev.Type)
	assert.Equal(t, 4.5, ev.Payload["rating"])
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), "order.saved", nil))
	assert.NoError(t, p.Close())
}
