package consumer

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		want    int
		wantErr bool
	}{
		{name: "Unauthorized", want: http.StatusUnauthorized},
		{name: "Not Found", want: http.StatusNotFound},
		{name: "NotFound", want: http.StatusNotFound},
		{name: "internal server error", want: http.StatusInternalServerError},
		{name: "I'm a teapot", want: http.StatusTeapot},
		{name: "202", want: http.StatusAccepted},
		{name: "99", wantErr: true},
		{name: "600", wantErr: true},
		{name: "Sort Of Fine", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatus(tt.name)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
