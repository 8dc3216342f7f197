package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2030, 6, 15, 18, 30, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func TestSearchRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     SearchRequest
		wantErr error
	}{
		{"valid", SearchRequest{Origin: "london", Destination: "BCN", Date: "2030-07-01"}, nil},
		{"today is allowed", SearchRequest{Origin: "LHR", Destination: "BCN", Date: "2030-06-15"}, nil},
		{"missing origin", SearchRequest{Origin: "  ", Destination: "BCN", Date: "2030-07-01"}, ErrMissingOrigin},
		{"missing destination", SearchRequest{Origin: "LHR", Date: "2030-07-01"}, ErrMissingDestination},
		{"missing date", SearchRequest{Origin: "LHR", Destination: "BCN"}, ErrMissingDate},
		{"bad date", SearchRequest{Origin: "LHR", Destination: "BCN", Date: "01/07/2030"}, ErrInvalidDate},
		{"past date", SearchRequest{Origin: "LHR", Destination: "BCN", Date: "2030-06-14"}, ErrPastDate},
		{"bad mode", SearchRequest{Origin: "LHR", Destination: "BCN", Date: "2030-07-01", Mode: "boat"}, ErrInvalidMode},
		{"return before departure", SearchRequest{Origin: "LHR", Destination: "BCN", Date: "2030-07-05", ReturnDate: strPtr("2030-07-01")}, ErrReturnBeforeDeparture},
		{"bad return date", SearchRequest{Origin: "LHR", Destination: "BCN", Date: "2030-07-05", ReturnDate: strPtr("soon")}, ErrInvalidDate},
		{"same day return", SearchRequest{Origin: "LHR", Destination: "BCN", Date: "2030-07-05", ReturnDate: strPtr("2030-07-05")}, nil},
		{"empty return ignored", SearchRequest{Origin: "LHR", Destination: "BCN", Date: "2030-07-05", ReturnDate: strPtr("")}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate(now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSearchRequest_ValidateDefaultsMode(t *testing.T) {
	req := SearchRequest{Origin: "LHR", Destination: "BCN", Date: "2030-07-01", Mode: "Train"}
	require.NoError(t, req.Validate(now))
	assert.Equal(t, ModeTrain, req.Mode)

	req = SearchRequest{Origin: "LHR", Destination: "BCN", Date: "2030-07-01"}
	require.NoError(t, req.Validate(now))
	assert.Equal(t, ModeAll, req.Mode)
}

func TestMode_Includes(t *testing.T) {
	assert.True(t, ModeAll.Includes(TypeBus))
	assert.True(t, ModeFlight.Includes(TypeFlight))
	assert.False(t, ModeFlight.Includes(TypeTrain))
	assert.True(t, Mode("").Includes(TypeTrain))
}
