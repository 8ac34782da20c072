// Package geo содержит расчеты расстояний на сфере.
package geo

import "math"

// EarthRadiusKm - средний радиус Земли
const EarthRadiusKm = 6371.0

// KmPerDegree - длина одного градуса дуги большого круга
const KmPerDegree = EarthRadiusKm * math.Pi / 180

// Point - координата в градусах
type Point struct {
	Lat float64
	Lng float64
}

// DistanceKm возвращает расстояние между точками по формуле гаверсинусов.
// Координаты должны быть проверены заранее.
func DistanceKm(a, b Point) float64 {
	dLat := deg2rad(b.Lat - a.Lat)
	dLng := deg2rad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(a.Lat))*math.Cos(deg2rad(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	// ошибки округления могут вывести h чуть за 1
	h = math.Min(1, math.Max(0, h))

	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// DegreesToKm переводит угловой порог в километры вдоль меридиана
func DegreesToKm(deg float64) float64 {
	return deg * KmPerDegree
}

// InBox проверяет попадание точки в квадрат ±delta градусов вокруг center
func InBox(center, p Point, delta float64) bool {
	return p.Lat >= center.Lat-delta && p.Lat <= center.Lat+delta &&
		p.Lng >= center.Lng-delta && p.Lng <= center.Lng+delta
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180
}
