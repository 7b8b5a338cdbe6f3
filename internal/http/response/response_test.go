package response

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOKWithData(t *testing.T) {
	resp := StatusOKWithData(map[string]any{"id": 1})
	assert.Equal(t, StatusOK, resp.Status)
	assert.NotNil(t, resp.Data)
	assert.Empty(t, resp.Error)
}

func TestError(t *testing.T) {
	resp := Error("something broke")
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "something broke", resp.Error)
}

func TestValidationError(t *testing.T) {
	type form struct {
		Name         string  `validate:"required"`
		Email        string  `validate:"required,email"`
		Amount       float64 `validate:"gt=0"`
		BillingCycle string  `validate:"oneof=monthly yearly"`
	}

	err := validator.New().Struct(form{
		Email:        "not-an-email",
		Amount:       -1,
		BillingCycle: "weekly",
	})
	require.Error(t, err)

	resp := ValidationError(err.(validator.ValidationErrors))
	assert.Equal(t, StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Name is a required field")
	assert.Contains(t, resp.Error, "field Email must be a valid email address")
	assert.Contains(t, resp.Error, "field Amount must be greater than 0")
	assert.Contains(t, resp.Error, "field BillingCycle must be one of: monthly yearly")
}
