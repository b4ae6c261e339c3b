package inventory

import (
	"testing"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateItemRequest_Validate(t *testing.T) {
	t.Run("names the first negative field", func(t *testing.T) {
		req := CreateItemRequest{
			Name:        "Flour",
			Quantity:    decimal.NewFromInt(-1),
			MinQuantity: decimal.NewFromInt(-1),
			Cost:        decimal.NewFromInt(-1),
		}
		for i := 0; i < 20; i++ {
			err := req.Validate()
			require.Error(t, err)
			assert.Equal(t, "quantity cannot be negative", err.Error())
		}
	})

	t.Run("rejects values beyond the stored scale", func(t *testing.T) {
		req := CreateItemRequest{Name: "Flour", Cost: decimal.RequireFromString("1.00005")}

		err := req.Validate()
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
		assert.Contains(t, err.Error(), "cost")
	})

	t.Run("accepts four decimal places", func(t *testing.T) {
		req := CreateItemRequest{Name: "Flour", Quantity: decimal.RequireFromString("2.5001")}
		assert.NoError(t, req.Validate())
	})
}

func TestUpdateItemRequest_Validate(t *testing.T) {
	minQty := decimal.NewFromInt(-2)
	cost := decimal.NewFromInt(-3)
	for i := 0; i < 20; i++ {
		err := UpdateItemRequest{MinQuantity: &minQty, Cost: &cost}.Validate()
		require.Error(t, err)
		assert.Equal(t, "min_quantity cannot be negative", err.Error())
	}

	precise := decimal.RequireFromString("0.12345")
	assert.Error(t, UpdateItemRequest{MinQuantity: &precise}.Validate())
	assert.NoError(t, UpdateItemRequest{}.Validate())
}
