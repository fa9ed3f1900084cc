package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotBlank(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		shouldErr bool
	}{
		{name: "valid string", value: "Spring League", shouldErr: false},
		// String rules skip empty values; Required catches those.
		{name: "empty string is skipped", value: "", shouldErr: false},
		{name: "only spaces", value: "   ", shouldErr: true},
		{name: "only tabs and newlines", value: "\t\n", shouldErr: true},
		{name: "padded but not blank", value: "  x  ", shouldErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NotBlank.Validate(tt.value)
			if tt.shouldErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "must not be blank")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
