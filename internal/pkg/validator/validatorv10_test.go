package validator_test

import (
	"errors"
	"testing"

	"github.com/shandysiswandi/authenticator/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type verifyInput struct {
	Code string `json:"code" validate:"required,otp_code"`
}

func TestV10Validator(t *testing.T) {
	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	tests := []struct {
		name   string
		code   string
		fields map[string]string
	}{
		{name: "six digits", code: "123456"},
		{name: "eight digits with spaces", code: " 12345678 "},
		{name: "empty", code: "", fields: map[string]string{"code": "code is a required field"}},
		{name: "letters", code: "12ab56", fields: map[string]string{"code": "code must be 6 to 8 digits"}},
		{name: "too short", code: "12345", fields: map[string]string{"code": "code must be 6 to 8 digits"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(verifyInput{Code: tt.code})
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}

			fields, ok := validator.Fields(err)
			require.True(t, ok)
			assert.Equal(t, tt.fields, fields)
		})
	}
}

func TestFields(t *testing.T) {
	_, ok := validator.Fields(errors.New("plain"))
	assert.False(t, ok)

	assert.Equal(t, "validation error", validator.V10ValidationError{}.Error())
	assert.JSONEq(t, `{"code":"bad"}`, validator.V10ValidationError{"code": "bad"}.Error())
}
