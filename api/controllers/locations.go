package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mosburritos/backend/api/responses"
	"github.com/mosburritos/backend/api/validators"
	"github.com/mosburritos/backend/internal/locations"
	"github.com/mosburritos/backend/pkg/enums"
	pkgerrors "github.com/mosburritos/backend/pkg/errors"
	"github.com/mosburritos/backend/pkg/logger"
	"github.com/mosburritos/backend/pkg/types"
)

type createLocationRequest struct {
	Name     string        `json:"name" validate:"required"`
	Slug     string        `json:"slug" validate:"required"`
	Type     string        `json:"type,omitempty" validate:"omitempty,oneof=restaurant food_truck"`
	Address  *string       `json:"address,omitempty"`
	Phone    *string       `json:"phone,omitempty"`
	Timezone string        `json:"timezone,omitempty"`
	Schedule types.JSONMap `json:"schedule,omitempty"`
}

type updateLocationRequest struct {
	Name     *string       `json:"name,omitempty"`
	Address  *string       `json:"address,omitempty"`
	Phone    *string       `json:"phone,omitempty"`
	Timezone *string       `json:"timezone,omitempty"`
	Schedule types.JSONMap `json:"schedule,omitempty"`
	IsActive *bool         `json:"is_active,omitempty"`
}

// LocationsCreate opens a new location.
func LocationsCreate(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "locations service unavailable"))
			return
		}

		var body createLocationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		location, err := svc.Create(r.Context(), locations.CreateLocationInput{
			Name:     body.Name,
			Slug:     body.Slug,
			Type:     enums.LocationType(body.Type),
			Address:  body.Address,
			Phone:    body.Phone,
			Timezone: body.Timezone,
			Schedule: body.Schedule,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, location)
	}
}

// LocationsList returns locations, active ones only unless ?include_inactive=true.
func LocationsList(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "locations service unavailable"))
			return
		}

		includeInactive := strings.EqualFold(r.URL.Query().Get("include_inactive"), "true")
		rows, err := svc.List(r.Context(), !includeInactive)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"locations": rows})
	}
}

// LocationsGet returns one location by id.
func LocationsGet(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "locations service unavailable"))
			return
		}

		locationID, err := validators.ParsePathUUID(chi.URLParam(r, "locationID"), "locationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		location, err := svc.Get(r.Context(), locationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, location)
	}
}

// LocationsGetBySlug returns one location by its public slug.
func LocationsGetBySlug(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "locations service unavailable"))
			return
		}

		location, err := svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, location)
	}
}

// LocationsUpdate applies partial changes to a location.
func LocationsUpdate(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "locations service unavailable"))
			return
		}

		locationID, err := validators.ParsePathUUID(chi.URLParam(r, "locationID"), "locationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateLocationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		location, err := svc.Update(r.Context(), locationID, locations.UpdateLocationInput{
			Name:     body.Name,
			Address:  body.Address,
			Phone:    body.Phone,
			Timezone: body.Timezone,
			Schedule: body.Schedule,
			IsActive: body.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, location)
	}
}

// LocationsDeactivate closes a location without deleting its history.
func LocationsDeactivate(svc locations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "locations service unavailable"))
			return
		}

		locationID, err := validators.ParsePathUUID(chi.URLParam(r, "locationID"), "locationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Deactivate(r.Context(), locationID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}
