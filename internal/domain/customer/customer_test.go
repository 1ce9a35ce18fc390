package customer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/hotel-booking/internal/domain/input"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cname   string
		email   string
		want    string
		wantErr bool
		field   string
	}{
		{name: "valid", cname: "John Doe", email: "john@example.com", want: "John Doe"},
		{name: "trims", cname: "  Jane  ", email: " jane@example.com ", want: "Jane"},
		{name: "missing name", cname: " ", email: "john@example.com", wantErr: true, field: "name"},
		{name: "missing email", cname: "John", email: "", wantErr: true, field: "email"},
		{name: "malformed email", cname: "John", email: "john.example.com", wantErr: true, field: "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.cname, tt.email, "secret")
			if tt.wantErr {
				require.ErrorIs(t, err, input.ErrInvalid)
				var fe *input.FieldError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, tt.field, fe.Field)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Name)
			assert.Equal(t, "secret", c.Password)
		})
	}
}
