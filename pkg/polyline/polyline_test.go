package polyline

import (
	"math"
	"testing"

	"github.com/tripforge/tripforge/internal/geo"
)

func TestDecode_ReferenceVector(t *testing.T) {
	// Reference example from the polyline algorithm documentation.
	points := Decode("_p~iF~ps|U_ulLnnqC_mqNvxq`@")

	want := []geo.Point{
		{Lat: 38.5, Lng: -120.2},
		{Lat: 40.7, Lng: -120.95},
		{Lat: 43.252, Lng: -126.453},
	}

	if len(points) != len(want) {
		t.Fatalf("decoded %d points, want %d", len(points), len(want))
	}
	for i, w := range want {
		if math.Abs(points[i].Lat-w.Lat) > 1e-5 || math.Abs(points[i].Lng-w.Lng) > 1e-5 {
			t.Errorf("point %d = %+v, want %+v", i, points[i], w)
		}
	}
}

func TestEncode_ReferenceVector(t *testing.T) {
	encoded := Encode([]geo.Point{
		{Lat: 38.5, Lng: -120.2},
		{Lat: 40.7, Lng: -120.95},
		{Lat: 43.252, Lng: -126.453},
	})

	if encoded != "_p~iF~ps|U_ulLnnqC_mqNvxq`@" {
		t.Errorf("encoded = %q", encoded)
	}
}

func TestRoundTrip(t *testing.T) {
	original := []geo.Point{
		{Lat: 52.3676, Lng: 4.9041},
		{Lat: 52.3702, Lng: 4.8952},
		{Lat: 52.3791, Lng: 4.9003},
	}

	decoded := Decode(Encode(original))

	if len(decoded) != len(original) {
		t.Fatalf("round trip changed point count: %d -> %d", len(original), len(decoded))
	}
	for i := range original {
		if math.Abs(decoded[i].Lat-original[i].Lat) > 1e-5 ||
			math.Abs(decoded[i].Lng-original[i].Lng) > 1e-5 {
			t.Errorf("point %d = %+v, want %+v", i, decoded[i], original[i])
		}
	}
}

func TestDecode_Empty(t *testing.T) {
	if points := Decode(""); points != nil {
		t.Errorf("decoding empty string = %v, want nil", points)
	}
	if encoded := Encode(nil); encoded != "" {
		t.Errorf("encoding nil = %q, want empty", encoded)
	}
}

func TestSample(t *testing.T) {
	// Two points roughly 1.1km apart along a meridian.
	path := []geo.Point{
		{Lat: 52.0, Lng: 4.9},
		{Lat: 52.01, Lng: 4.9},
	}

	sampled := Sample(path, 300)

	if len(sampled) < 3 {
		t.Fatalf("got %d sampled points, want at least 3", len(sampled))
	}
	if sampled[0] != path[0] {
		t.Error("first sampled point must be the path start")
	}
	if sampled[len(sampled)-1] != path[1] {
		t.Error("last sampled point must be the path end")
	}
}

func TestSample_Degenerate(t *testing.T) {
	if got := Sample(nil, 100); got != nil {
		t.Errorf("sampling nil path = %v, want nil", got)
	}

	path := []geo.Point{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}}
	if got := Sample(path, 0); len(got) != 2 {
		t.Errorf("non-positive interval must return the path unchanged, got %v", got)
	}

	single := []geo.Point{{Lat: 1, Lng: 1}}
	got := Sample(single, 100)
	if len(got) != 1 || got[0] != single[0] {
		t.Errorf("single-point path = %v, want the point itself", got)
	}
}
