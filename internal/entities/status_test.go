package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkravtsov/checkout-service/internal/entities"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	testCases := []struct {
		from entities.OrderStatus
		to   entities.OrderStatus
		want bool
	}{
		{entities.StatusPending, entities.StatusProcessing, true},
		{entities.StatusPending, entities.StatusCancelled, true},
		{entities.StatusPending, entities.StatusShipped, false},
		{entities.StatusPending, entities.StatusDelivered, false},
		{entities.StatusPending, entities.StatusPending, false},

		{entities.StatusProcessing, entities.StatusShipped, true},
		{entities.StatusProcessing, entities.StatusCancelled, true},
		{entities.StatusProcessing, entities.StatusDelivered, false},
		{entities.StatusProcessing, entities.StatusPending, false},

		{entities.StatusShipped, entities.StatusDelivered, true},
		{entities.StatusShipped, entities.StatusCancelled, false},

		{entities.StatusDelivered, entities.StatusCancelled, false},
		{entities.StatusDelivered, entities.StatusPending, false},
		{entities.StatusCancelled, entities.StatusPending, false},
		{entities.StatusCancelled, entities.StatusProcessing, false},
	}

	for _, tc := range testCases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestOrderStatus_Terminal(t *testing.T) {
	assert.True(t, entities.StatusDelivered.Terminal())
	assert.True(t, entities.StatusCancelled.Terminal())

	assert.False(t, entities.StatusPending.Terminal())
	assert.False(t, entities.StatusProcessing.Terminal())
	assert.False(t, entities.StatusShipped.Terminal())
}

func TestParseOrderStatus(t *testing.T) {
	status, err := entities.ParseOrderStatus("SHIPPED")
	require.NoError(t, err)
	assert.Equal(t, entities.StatusShipped, status)

	_, err = entities.ParseOrderStatus("REFUNDED")
	assert.Error(t, err)

	// statuses are case sensitive
	_, err = entities.ParseOrderStatus("pending")
	assert.Error(t, err)
}
