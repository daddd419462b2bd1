package geo

import (
	"context"
	"errors"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	earthRadiusMiles = 3958.8
	milesPerDegLat   = 69.0
)

// ZipDB answers radius queries from a zipcodes table (zip, latitude,
// longitude). The query prefilters with a bounding box; exact distance is
// applied with the haversine formula.
type ZipDB struct {
	pool *pgxpool.Pool
}

func NewZipDB(pool *pgxpool.Pool) *ZipDB {
	return &ZipDB{pool: pool}
}

func (z *ZipDB) ZipsInRadius(ctx context.Context, zip string, radiusMiles int) ([]string, error) {
	var lat, lng float64
	err := z.pool.QueryRow(ctx,
		`SELECT latitude, longitude FROM zipcodes WHERE zip=$1`, zip,
	).Scan(&lat, &lng)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	r := float64(radiusMiles)
	dLat := r / milesPerDegLat
	dLng := r / (milesPerDegLat * math.Cos(lat*math.Pi/180))

	rows, err := z.pool.Query(ctx, `
		SELECT zip, latitude, longitude
		FROM zipcodes
		WHERE latitude BETWEEN $1 AND $2
		  AND longitude BETWEEN $3 AND $4
		ORDER BY zip
	`, lat-dLat, lat+dLat, lng-dLng, lng+dLng)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zips []string
	for rows.Next() {
		var candidate string
		var cLat, cLng float64
		if err := rows.Scan(&candidate, &cLat, &cLng); err != nil {
			return nil, err
		}
		if Haversine(lat, lng, cLat, cLng) <= r {
			zips = append(zips, candidate)
		}
	}
	return zips, rows.Err()
}

func (z *ZipDB) ValidZip(ctx context.Context, zip string) (bool, error) {
	var exists bool
	err := z.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM zipcodes WHERE zip=$1)`, zip,
	).Scan(&exists)
	return exists, err
}

// Haversine returns the great-circle distance in miles between two points.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(a))
}
