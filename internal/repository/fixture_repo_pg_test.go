package repository

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewFixtureRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewFixtureRepository(pool)
	assert.NotNil(t, repo)
}

func TestGeoPoint(t *testing.T) {
	lat, lng := -6.19486, 39.29894
	assert.Nil(t, geoPoint(nil, &lng))
	assert.Nil(t, geoPoint(&lat, nil))

	p := geoPoint(&lat, &lng)
	if assert.NotNil(t, p) {
		assert.Equal(t, lat, p.Lat)
		assert.Equal(t, lng, p.Lng)
	}
}
