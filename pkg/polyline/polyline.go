// Package polyline implements Google's encoded polyline algorithm
// (https://developers.google.com/maps/documentation/utilities/polylinealgorithm)
// for compact route geometry exchange with routing providers.
package polyline

import (
	"math"

	"github.com/tripforge/tripforge/internal/geo"
)

// Decode decodes a polyline-encoded string into points at the standard
// 5-decimal precision.
func Decode(encoded string) []geo.Point {
	if encoded == "" {
		return nil
	}

	var points []geo.Point
	index := 0
	lat := 0
	lng := 0

	for index < len(encoded) {
		latDelta, next := decodeValue(encoded, index)
		index = next
		lat += latDelta

		lngDelta, next := decodeValue(encoded, index)
		index = next
		lng += lngDelta

		points = append(points, geo.Point{
			Lat: float64(lat) / 1e5,
			Lng: float64(lng) / 1e5,
		})
	}

	return points
}

func decodeValue(encoded string, index int) (int, int) {
	shift := 0
	result := 0

	for index < len(encoded) {
		b := int(encoded[index]) - 63
		index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), index
	}
	return result >> 1, index
}

// Encode encodes points into a polyline string at 5-decimal precision.
func Encode(points []geo.Point) string {
	if len(points) == 0 {
		return ""
	}

	encoded := make([]byte, 0, len(points)*4)
	prevLat := 0
	prevLng := 0

	for _, p := range points {
		lat := int(math.Round(p.Lat * 1e5))
		lng := int(math.Round(p.Lng * 1e5))

		encoded = encodeValue(encoded, lat-prevLat)
		encoded = encodeValue(encoded, lng-prevLng)

		prevLat = lat
		prevLng = lng
	}

	return string(encoded)
}

func encodeValue(buf []byte, value int) []byte {
	if value < 0 {
		value = ^(value << 1)
	} else {
		value <<= 1
	}

	for value >= 0x20 {
		buf = append(buf, byte((value&0x1f)|0x20)+63)
		value >>= 5
	}
	return append(buf, byte(value)+63)
}

// Sample returns points spaced approximately intervalMeters apart along the
// path, always keeping the first and last point. Used to pick probe locations
// for weather and elevation lookups along long routes.
func Sample(points []geo.Point, intervalMeters float64) []geo.Point {
	if len(points) == 0 {
		return nil
	}
	if intervalMeters <= 0 {
		return points
	}

	sampled := []geo.Point{points[0]}
	accumulated := 0.0

	for i := 1; i < len(points); i++ {
		segment := geo.Haversine(points[i-1], points[i])

		for accumulated+segment >= intervalMeters {
			remaining := intervalMeters - accumulated
			fraction := remaining / segment

			sampled = append(sampled, geo.Interpolate(points[i-1], points[i], fraction))

			segment -= remaining
			accumulated = 0
		}

		accumulated += segment
	}

	last := points[len(points)-1]
	if sampled[len(sampled)-1] != last {
		sampled = append(sampled, last)
	}

	return sampled
}
