package httpserver

import "net/http"

// Routes groups handlers.
type Routes struct {
	YardEntry  http.HandlerFunc
	YardExit   http.HandlerFunc
	YardFee    http.HandlerFunc
	YardActive http.HandlerFunc
	YardFeed   http.HandlerFunc

	VehicleCreate  http.HandlerFunc
	VehicleList    http.HandlerFunc
	VehicleGet     http.HandlerFunc
	VehicleByPlate http.HandlerFunc
	VehicleUpdate  http.HandlerFunc

	ReportRevenue     http.HandlerFunc
	ReportTopVehicles http.HandlerFunc
	ReportOccupancy   http.HandlerFunc

	Health  http.HandlerFunc
	Metrics http.Handler
}

// NewRouter registers endpoints.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()

	handle := func(path, verb string, h http.HandlerFunc) {
		if h != nil {
			mux.Handle(path, method(verb, h))
		}
	}

	handle("/yard/entry", http.MethodPost, routes.YardEntry)
	handle("/yard/exit", http.MethodPost, routes.YardExit)
	handle("/yard/fee", http.MethodGet, routes.YardFee)
	handle("/yard/active", http.MethodGet, routes.YardActive)
	handle("/yard/feed", http.MethodGet, routes.YardFeed)

	handle("/vehicles", http.MethodPost, routes.VehicleCreate)
	handle("/vehicles/list", http.MethodGet, routes.VehicleList)
	handle("/vehicles/get", http.MethodGet, routes.VehicleGet)
	handle("/vehicles/by-plate", http.MethodGet, routes.VehicleByPlate)
	handle("/vehicles/update", http.MethodPost, routes.VehicleUpdate)

	handle("/reports/revenue", http.MethodGet, routes.ReportRevenue)
	handle("/reports/top-vehicles", http.MethodGet, routes.ReportTopVehicles)
	handle("/reports/occupancy", http.MethodGet, routes.ReportOccupancy)

	handle("/health", http.MethodGet, routes.Health)
	if routes.Metrics != nil {
		mux.Handle("/metrics", routes.Metrics)
	}

	return mux
}

func method(expected string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	}
}
