package admin

import (
	"context"
	"testing"

	"github.com/Domenick1991/dirabasi/internal/domain"
	"github.com/Domenick1991/dirabasi/internal/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *AdminService {
	t.Helper()
	ds, err := fixtures.Canonical()
	require.NoError(t, err)
	store, err := fixtures.New(ds)
	require.NoError(t, err)
	return NewAdminService(store)
}

func TestAdminService_Stats(t *testing.T) {
	st, err := newTestService(t).Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Stats{Routes: 2, Stations: 8, Buses: 4, ActiveBuses: 3, Users: 3}, st)
}

func TestAdminService_RouteStations(t *testing.T) {
	s := newTestService(t)

	stations, err := s.RouteStations(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, stations, 4)
	assert.Equal(t, "Suza Terminal", stations[0].Name)

	_, err = s.RouteStations(context.Background(), 9)
	assert.True(t, domain.IsNotFound(err))
}

func TestAdminService_Users(t *testing.T) {
	s := newTestService(t)

	tests := []struct {
		name   string
		filter UserFilter
		want   []int64
	}{
		{"everyone", UserFilter{}, []int64{1, 2, 3}},
		{"all keyword", UserFilter{Role: "all", Status: "all"}, []int64{1, 2, 3}},
		{"search by name", UserFilter{Search: "JANE"}, []int64{2}},
		{"search by email", UserFilter{Search: "bob@"}, []int64{3}},
		{"role", UserFilter{Role: "admin"}, []int64{1}},
		{"inactive", UserFilter{Status: "inactive"}, []int64{3}},
		{"no match", UserFilter{Role: "traveler", Status: "active"}, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := s.Users(context.Background(), tt.filter)
			require.NoError(t, err)
			got := make([]int64, 0, len(users))
			for _, u := range users {
				got = append(got, u.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := s.Users(context.Background(), UserFilter{Role: "pilot"})
	assert.True(t, domain.IsValidation(err))
}
