package admin

import (
	"context"
	"strings"

	"github.com/Domenick1991/dirabasi/internal/domain"
)

type AdminUseCase interface {
	Stats(ctx context.Context) (Stats, error)
	Routes(ctx context.Context) ([]domain.Route, error)
	RouteStations(ctx context.Context, routeID int64) ([]domain.Station, error)
	Buses(ctx context.Context) ([]domain.Bus, error)
	Users(ctx context.Context, filter UserFilter) ([]domain.User, error)
}

type Catalog interface {
	ListRoutes() []domain.Route
	ListStations(routeID int64) []domain.Station
	ListBuses(routeID int64) []domain.Bus
	Route(id int64) (domain.Route, bool)
	Users() []domain.User
}

type Stats struct {
	Routes      int `json:"routes"`
	Stations    int `json:"stations"`
	Buses       int `json:"buses"`
	ActiveBuses int `json:"active_buses"`
	Users       int `json:"users"`
}

// UserFilter matches users by a case-insensitive search over name and email. Empty or "all" role and status match everything.
type UserFilter struct {
	Search string `form:"search"`
	Role   string `form:"role"`
	Status string `form:"status"`
}

type AdminService struct {
	catalog Catalog
}

func NewAdminService(catalog Catalog) *AdminService {
	return &AdminService{catalog: catalog}
}

func (s *AdminService) Stats(_ context.Context) (Stats, error) {
	var st Stats
	routes := s.catalog.ListRoutes()
	st.Routes = len(routes)
	for _, r := range routes {
		st.Stations += len(s.catalog.ListStations(r.ID))
	}
	for _, b := range s.catalog.ListBuses(0) {
		st.Buses++
		if b.Status == domain.BusStatusActive {
			st.ActiveBuses++
		}
	}
	st.Users = len(s.catalog.Users())
	return st, nil
}

func (s *AdminService) Routes(_ context.Context) ([]domain.Route, error) {
	return s.catalog.ListRoutes(), nil
}

func (s *AdminService) RouteStations(_ context.Context, routeID int64) ([]domain.Station, error) {
	if _, ok := s.catalog.Route(routeID); !ok {
		return nil, domain.NotFoundError{Resource: "route", ID: routeID}
	}
	return s.catalog.ListStations(routeID), nil
}

func (s *AdminService) Buses(_ context.Context) ([]domain.Bus, error) {
	return s.catalog.ListBuses(0), nil
}

func (s *AdminService) Users(_ context.Context, filter UserFilter) ([]domain.User, error) {
	role := strings.ToLower(strings.TrimSpace(filter.Role))
	status := strings.ToLower(strings.TrimSpace(filter.Status))
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	if role != "" && role != "all" && !domain.Role(role).Valid() {
		return nil, domain.ValidationError{Field: "role", Msg: "must be all, admin, conductor or traveler"}
	}
	if status != "" && status != "all" && status != "active" && status != "inactive" {
		return nil, domain.ValidationError{Field: "status", Msg: "must be all, active or inactive"}
	}

	out := make([]domain.User, 0)
	for _, u := range s.catalog.Users() {
		if role != "" && role != "all" && string(u.Role) != role {
			continue
		}
		if status != "" && status != "all" && strings.ToLower(u.Status) != status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Name), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

var _ AdminUseCase = (*AdminService)(nil)
