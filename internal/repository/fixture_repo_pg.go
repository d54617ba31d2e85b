package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/dirabasi/internal/domain"
	"github.com/Domenick1991/dirabasi/internal/fixtures"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FixtureRepository reads the whole fixture dataset once; the booking flow never writes back.
type FixtureRepository interface {
	Load(ctx context.Context) (fixtures.Dataset, error)
}

type PGFixtureRepository struct {
	db *pgxpool.Pool
}

func NewFixtureRepository(db *pgxpool.Pool) FixtureRepository {
	return &PGFixtureRepository{db: db}
}

func (r *PGFixtureRepository) Load(ctx context.Context) (fixtures.Dataset, error) {
	var ds fixtures.Dataset
	var err error

	if ds.Routes, err = r.routes(ctx); err != nil {
		return fixtures.Dataset{}, fmt.Errorf("load routes: %w", err)
	}
	if ds.Stations, err = r.stations(ctx); err != nil {
		return fixtures.Dataset{}, fmt.Errorf("load stations: %w", err)
	}
	if ds.Buses, err = r.buses(ctx); err != nil {
		return fixtures.Dataset{}, fmt.Errorf("load buses: %w", err)
	}
	if ds.Users, err = r.users(ctx); err != nil {
		return fixtures.Dataset{}, fmt.Errorf("load users: %w", err)
	}
	return ds, nil
}

func (r *PGFixtureRepository) routes(ctx context.Context) ([]domain.Route, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, origin, destination FROM routes ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Route, error) {
		var rt domain.Route
		err := row.Scan(&rt.ID, &rt.Name, &rt.From, &rt.To)
		return rt, err
	})
}

func (r *PGFixtureRepository) stations(ctx context.Context) ([]domain.Station, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, route_id, position, lat, lng FROM stations ORDER BY route_id, position`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Station, error) {
		var (
			st       domain.Station
			lat, lng *float64
		)
		if err := row.Scan(&st.ID, &st.Name, &st.RouteID, &st.Order, &lat, &lng); err != nil {
			return st, err
		}
		st.Location = geoPoint(lat, lng)
		return st, nil
	})
}

func (r *PGFixtureRepository) buses(ctx context.Context) ([]domain.Bus, error) {
	rows, err := r.db.Query(ctx, `SELECT id, plate_number, route_id, current_station_id, total_seats, booked_seats,
		status, estimated_arrival, passenger_count, bus_type, fare, lat, lng FROM buses ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Bus, error) {
		var (
			b        domain.Bus
			lat, lng *float64
		)
		if err := row.Scan(&b.ID, &b.PlateNumber, &b.RouteID, &b.CurrentStationID, &b.TotalSeats, &b.BookedSeats,
			&b.Status, &b.EstimatedArrival, &b.PassengerCount, &b.Type, &b.Fare, &lat, &lng); err != nil {
			return b, err
		}
		b.Location = geoPoint(lat, lng)
		return b, nil
	})
}

func (r *PGFixtureRepository) users(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, email, role, status FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.User, error) {
		var u domain.User
		err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Status)
		return u, err
	})
}

func geoPoint(lat, lng *float64) *domain.GeoPoint {
	if lat == nil || lng == nil {
		return nil
	}
	return &domain.GeoPoint{Lat: *lat, Lng: *lng}
}

var _ FixtureRepository = (*PGFixtureRepository)(nil)
