package repository

import (
	"context"
	"math"

	"gorm.io/gorm"

	"github.com/amoro/amoro-server/internal/db"
)

// CityRepository provides read access to the immutable city reference table.
type CityRepository struct {
	db *gorm.DB
}

// NewCityRepository creates a new repository bound to the given DB connection.
func NewCityRepository(database *gorm.DB) *CityRepository {
	return &CityRepository{db: database}
}

// WithinRadius returns ids of cities whose location lies within radiusMeters
// of the given point. The city table is small reference data, so the distance
// check runs in process rather than in SQL.
//
// radiusMeters <= 0 means "no restriction" and returns an empty set.
func (r *CityRepository) WithinRadius(
	ctx context.Context,
	lat, lng float64,
	radiusMeters float64,
) ([]uint64, error) {
	if radiusMeters <= 0 {
		return nil, nil
	}

	var cities []db.City
	if err := r.db.WithContext(ctx).Find(&cities).Error; err != nil {
		return nil, err
	}

	var ids []uint64
	for _, c := range cities {
		if haversineMeters(lat, lng, c.Lat, c.Lng) <= radiusMeters {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

// GetByID returns a single city.
func (r *CityRepository) GetByID(ctx context.Context, id uint64) (*db.City, error) {
	var city db.City
	if err := r.db.WithContext(ctx).First(&city, id).Error; err != nil {
		return nil, err
	}
	return &city, nil
}

const earthRadiusMeters = 6371000

// haversineMeters computes the great-circle distance between two points.
func haversineMeters(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
