package intelligence

import (
	"math"

	"github.com/shenikar/incident_intelligence/internal/models"
)

// EarthRadiusMeters - средний радиус Земли
const EarthRadiusMeters = 6371000.0

// HaversineMeters возвращает расстояние по дуге большого круга между двумя точками в метрах
func HaversineMeters(a, b models.Position) float64 {
	lat1 := toRadians(a.Lat)
	lat2 := toRadians(b.Lat)
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// h может незначительно выйти за [0, 1] из-за погрешности
	h = math.Min(1, math.Max(0, h))

	return 2 * EarthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// ValidPosition проверяет, что координаты конечны и лежат в допустимых пределах
func ValidPosition(p models.Position) bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Centroid - среднее арифметическое широт и долгот.
// Для кластеров радиусом в сотни метров погрешность пренебрежимо мала.
func Centroid(points []models.Position) models.Position {
	if len(points) == 0 {
		return models.Position{}
	}
	var lat, lng float64
	for _, p := range points {
		lat += p.Lat
		lng += p.Lng
	}
	n := float64(len(points))
	return models.Position{Lat: lat / n, Lng: lng / n}
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
