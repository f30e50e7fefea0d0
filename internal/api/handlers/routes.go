package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"fuelroute-service/internal/adapters/cache"
	"fuelroute-service/internal/api/dto"
	"fuelroute-service/internal/domain"
	"fuelroute-service/internal/platform/obs"
	"fuelroute-service/internal/ports"
	"fuelroute-service/internal/services"
)

// RouteHandler runs route optimization and manages persisted routes.
type RouteHandler struct {
	Stations ports.StationRepository
	Routes   ports.RouteRepository
	Traffic  ports.TrafficSource // optional
	Cache    ports.PlanCache     // optional
	Config   services.OptimizeConfig
	Log      *zap.Logger
}

// Optimize handles POST /routes: load the requested stations, gather traffic,
// compute the optimal stop order, and optionally persist the plan.
func (h *RouteHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.OptimizeRouteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	criterion, err := domain.ParseCriterion(req.Criterion)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "criterion must be distance, time, or price")
		return
	}

	fuelTypes := make([]domain.FuelType, 0, len(req.FuelTypes))
	for _, raw := range req.FuelTypes {
		ft := domain.FuelType(raw)
		if !ft.Valid() {
			writeError(w, r, http.StatusBadRequest, "unknown fuel type in fuel_types")
			return
		}
		fuelTypes = append(fuelTypes, ft)
	}

	svcReq := services.OptimizeRouteRequest{
		Start:     domain.Location{Lat: req.Start.Latitude, Lon: req.Start.Longitude},
		Criterion: criterion,
		DepartAt:  req.DepartAt,
	}
	if req.End != nil {
		svcReq.End = &domain.Location{Lat: req.End.Latitude, Lon: req.End.Longitude}
	}
	if req.Vehicle != nil {
		svcReq.Vehicle = &domain.VehicleState{
			MPG:          req.Vehicle.MPG,
			TankCapacity: req.Vehicle.TankCapacityGallons,
			FuelLevel:    req.Vehicle.FuelLevelGallons,
		}
	}

	if len(req.StationIDs) > 0 {
		stations, err := h.Stations.GetStationsByIDs(r.Context(), req.StationIDs)
		if err != nil {
			if errors.Is(err, domain.ErrStationNotFound) {
				writeError(w, r, http.StatusBadRequest, "one or more station_ids are unknown")
				return
			}
			h.Log.Error("load stations failed", zap.Error(err))
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}
		svcReq.Stations = make([]domain.StationCandidate, 0, len(stations))
		for _, s := range stations {
			prices := make(map[domain.FuelType]float64, len(s.Prices))
			for ft, p := range s.Prices {
				prices[ft] = p.PricePerGallon
			}
			svcReq.Stations = append(svcReq.Stations, domain.StationCandidate{
				ID:              s.ID,
				Location:        s.Location,
				Prices:          prices,
				FuelTypesNeeded: fuelTypes,
			})
		}
	}

	// Plans are cached by request content; traffic freshness is bounded by
	// the cache TTL rather than by re-fetching per hit.
	fingerprint := ""
	if h.Cache != nil {
		key, err := cache.RequestFingerprint(struct {
			Start      dto.LocationDTO
			End        *dto.LocationDTO
			StationIDs []int
			Criterion  string
			FuelTypes  []string
			Vehicle    *dto.VehicleDTO
			DepartAt   *time.Time
		}{req.Start, req.End, req.StationIDs, req.Criterion, req.FuelTypes, req.Vehicle, req.DepartAt})
		if err == nil {
			fingerprint = key
			if plan, err := h.Cache.Get(r.Context(), key); err == nil && plan != nil {
				h.respondPlan(w, r, plan, req.Save, true)
				return
			} else if err != nil {
				h.Log.Warn("plan cache get failed", zap.Error(err))
			}
		}
	}

	if h.Traffic != nil {
		corridor := make([]domain.Location, 0, len(svcReq.Stations)+2)
		corridor = append(corridor, svcReq.Start)
		for _, s := range svcReq.Stations {
			corridor = append(corridor, s.Location)
		}
		if svcReq.End != nil {
			corridor = append(corridor, *svcReq.End)
		}

		at := time.Now()
		if svcReq.DepartAt != nil {
			at = *svcReq.DepartAt
		}
		conditions, err := h.Traffic.ActiveConditions(r.Context(), corridor, at)
		if err != nil {
			// Traffic is advisory; optimize without it rather than fail.
			h.Log.Warn("traffic lookup failed", zap.Error(err))
		} else {
			svcReq.Conditions = conditions
		}
	}

	done := obs.Time(r.Context(), h.Log, "routes.optimize")
	plan, err := services.OptimizeRoute(r.Context(), svcReq, h.Config)
	done(&err)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoFeasibleRoute):
			writeError(w, r, http.StatusUnprocessableEntity, "no feasible route for the given constraints")
		case isBadRequest(err):
			writeError(w, r, http.StatusBadRequest, err.Error())
		default:
			h.Log.Error("optimize route failed", zap.Error(err))
			writeError(w, r, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	if h.Cache != nil && fingerprint != "" {
		if err := h.Cache.Put(r.Context(), fingerprint, plan); err != nil {
			h.Log.Warn("plan cache put failed", zap.Error(err))
		}
	}

	h.respondPlan(w, r, plan, req.Save, false)
}

func (h *RouteHandler) respondPlan(w http.ResponseWriter, r *http.Request, plan *domain.RoutePlan, save *dto.SaveDTO, cached bool) {
	res := planToDTO(plan)
	res.Cached = cached

	if save != nil {
		if save.UserID <= 0 || strings.TrimSpace(save.Name) == "" {
			writeError(w, r, http.StatusBadRequest, "save requires user_id and name")
			return
		}
		route, err := h.Routes.SaveRoute(r.Context(), save.UserID, strings.TrimSpace(save.Name), plan)
		if err != nil {
			h.Log.Error("save route failed", zap.Error(err))
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}
		res.RouteID = &route.ID
	}

	writeJSON(w, r, http.StatusOK, res)
}

// UpdateStatus handles POST /routes/status: apply a lifecycle event
// (activate, complete, save) to a persisted route.
func (h *RouteHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.UpdateRouteStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.RouteID <= 0 {
		writeError(w, r, http.StatusBadRequest, "route_id is required")
		return
	}

	route, err := h.Routes.GetRoute(r.Context(), req.RouteID)
	if err != nil {
		if errors.Is(err, domain.ErrRouteNotFound) {
			writeError(w, r, http.StatusNotFound, "route not found")
			return
		}
		h.Log.Error("get route failed", zap.Int("route_id", req.RouteID), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	next, err := domain.TransitionRouteStatus(route.Status, req.Event)
	if err != nil {
		writeError(w, r, http.StatusConflict, err.Error())
		return
	}

	if err := h.Routes.UpdateRouteStatus(r.Context(), req.RouteID, next); err != nil {
		h.Log.Error("update route status failed", zap.Int("route_id", req.RouteID), zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.UpdateRouteStatusResponse{
		RouteID: req.RouteID,
		Status:  string(next),
	})
}

func planToDTO(plan *domain.RoutePlan) dto.RoutePlanResponse {
	stops := make([]dto.RouteStopResponse, 0, len(plan.Stops))
	for _, s := range plan.Stops {
		stops = append(stops, dto.RouteStopResponse{
			StationID:            s.StationID,
			StopOrder:            s.StopOrder,
			DistanceFromPrevious: s.DistanceFromPrevious,
			TravelTimeMinutes:    s.TravelTimeMinutes,
			ArriveAt:             s.ArriveAt,
			FuelType:             string(s.FuelType),
			EstimatedFuelGallons: s.EstimatedFuelGallons,
			EstimatedFuelCost:    s.EstimatedFuelCost,
		})
	}

	res := dto.RoutePlanResponse{
		Criterion:            string(plan.Criterion),
		Start:                dto.LocationDTO{Latitude: plan.Start.Lat, Longitude: plan.Start.Lon},
		DepartAt:             plan.DepartAt,
		Stops:                stops,
		TotalDistanceMiles:   plan.TotalDistanceMiles,
		TotalDurationMinutes: plan.TotalDurationMinutes,
		EstimatedFuelCost:    plan.EstimatedFuelCost,
	}
	if plan.End != nil {
		res.End = &dto.LocationDTO{Latitude: plan.End.Lat, Longitude: plan.End.Lon}
	}
	return res
}
