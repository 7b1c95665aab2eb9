package internal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanLimbu/task-tracker/internal"
)

func TestRegisterParams_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   internal.RegisterParams
		field   string
		wantErr bool
	}{
		{"OK", internal.RegisterParams{Username: "testuser", Email: "Test@Example.com ", Password: "password123"}, "", false},
		{"short username", internal.RegisterParams{Username: "ab", Email: "test@example.com", Password: "password123"}, "username", true},
		{"invalid email", internal.RegisterParams{Username: "testuser", Email: "not-an-email", Password: "password123"}, "email", true},
		{"short password", internal.RegisterParams{Username: "testuser", Email: "test@example.com", Password: "12345"}, "password", true},
		{"missing username", internal.RegisterParams{Email: "test@example.com", Password: "password123"}, "username", true},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.input.Normalize().Validate()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)

			var ierr *internal.Error
			require.ErrorAs(t, err, &ierr)
			assert.Equal(t, internal.ErrorCodeInvalidArgument, ierr.Code())
			assert.NotEmpty(t, validationCode(t, err, tt.field))
		})
	}
}

func TestRegisterParams_Normalize(t *testing.T) {
	t.Parallel()

	actual := internal.RegisterParams{Username: " testuser ", Email: " Test@Example.COM", Password: " secret "}.Normalize()

	assert.Equal(t, internal.RegisterParams{Username: "testuser", Email: "test@example.com", Password: " secret "}, actual)
}

func TestLoginParams_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, internal.LoginParams{Username: "testuser", Password: "password123"}.Validate())

	err := internal.LoginParams{Username: "testuser"}.Validate()
	require.Error(t, err)
	assert.Equal(t, "validation_missing_field", validationCode(t, err, "password"))
}
