package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"rebook/internal/apperrors"
)

func TestParsePoint(t *testing.T) {
	tests := []struct {
		name    string
		lat     string
		lng     string
		want    *Point
		wantErr bool
	}{
		{name: "absent", lat: "", lng: "", want: nil},
		{name: "whitespace_absent", lat: "  ", lng: " ", want: nil},
		{name: "valid", lat: "12.97", lng: "77.59", want: &Point{Lng: 77.59, Lat: 12.97}},
		{name: "bounds", lat: "-90", lng: "180", want: &Point{Lng: 180, Lat: -90}},
		{name: "only_lat", lat: "10", lng: "", wantErr: true},
		{name: "only_lng", lat: "", lng: "10", wantErr: true},
		{name: "non_numeric", lat: "abc", lng: "10", wantErr: true},
		{name: "lat_out_of_range", lat: "91", lng: "0", wantErr: true},
		{name: "lng_out_of_range", lat: "0", lng: "-180.5", wantErr: true},
		{name: "nan", lat: "NaN", lng: "0", wantErr: true},
		{name: "inf", lat: "0", lng: "Inf", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParsePoint(tc.lat, tc.lng)
			if tc.wantErr {
				require.ErrorIs(t, err, apperrors.ErrInvalidQuery)
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestDistance(t *testing.T) {
	same := Point{Lng: 77.59, Lat: 12.97}
	require.InDelta(t, 0, Distance(same, same), 1e-6)

	// one degree of latitude along a meridian
	oneDeg := Distance(Point{Lng: 0, Lat: 0}, Point{Lng: 0, Lat: 1})
	require.InDelta(t, EarthRadiusMeters*math.Pi/180, oneDeg, 1e-6)

	// symmetric
	a := Point{Lng: 72.8777, Lat: 19.0760}
	b := Point{Lng: 73.8567, Lat: 18.5204}
	require.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
	// Mumbai to Pune is roughly 120 km
	require.InDelta(t, 120000, Distance(a, b), 10000)

	// across the date line the short way round
	east := Point{Lng: 179.5, Lat: 0}
	west := Point{Lng: -179.5, Lat: 0}
	require.InDelta(t, EarthRadiusMeters*math.Pi/180, Distance(east, west), 1e-6)

	// antipodal points stay finite
	require.InDelta(t, math.Pi*EarthRadiusMeters, Distance(Point{0, 0}, Point{180, 0}), 1e-3)
}
