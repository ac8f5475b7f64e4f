package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mosburritos/backend/api/responses"
	"github.com/mosburritos/backend/api/validators"
	"github.com/mosburritos/backend/internal/menu"
	pkgerrors "github.com/mosburritos/backend/pkg/errors"
	"github.com/mosburritos/backend/pkg/logger"
)

type createCategoryRequest struct {
	Name         string  `json:"name" validate:"required"`
	Description  *string `json:"description,omitempty"`
	DisplayOrder int     `json:"display_order,omitempty"`
}

type updateCategoryRequest struct {
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	DisplayOrder *int    `json:"display_order,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
}

type createItemRequest struct {
	CategoryID   string          `json:"category_id" validate:"required,uuid"`
	Name         string          `json:"name" validate:"required"`
	Description  *string         `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price" validate:"required"`
	ImageURL     *string         `json:"image_url,omitempty"`
	DisplayOrder int             `json:"display_order,omitempty"`
}

type updateItemRequest struct {
	Name         *string          `json:"name,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Price        *decimal.Decimal `json:"price,omitempty"`
	ImageURL     *string          `json:"image_url,omitempty"`
	DisplayOrder *int             `json:"display_order,omitempty"`
}

type setAvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" validate:"required"`
}

type optionRequest struct {
	Name          string          `json:"name" validate:"required"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
	IsDefault     bool            `json:"is_default,omitempty"`
	DisplayOrder  int             `json:"display_order,omitempty"`
}

type setDefaultOptionRequest struct {
	OptionID string `json:"option_id" validate:"required,uuid"`
}

type addOptionGroupRequest struct {
	Name          string          `json:"name" validate:"required"`
	MinSelections int             `json:"min_selections" validate:"min=0"`
	MaxSelections int             `json:"max_selections" validate:"min=1"`
	DisplayOrder  int             `json:"display_order,omitempty"`
	Options       []optionRequest `json:"options" validate:"required,min=1,dive"`
}

// MenuGet returns the full ordered menu for a location.
func MenuGet(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		locationID, err := validators.ParsePathUUID(chi.URLParam(r, "locationID"), "locationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		categories, err := svc.GetMenu(r.Context(), locationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"categories": categories})
	}
}

// MenuCreateCategory adds a category to the location's menu.
func MenuCreateCategory(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		locationID, err := validators.ParsePathUUID(chi.URLParam(r, "locationID"), "locationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createCategoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.CreateCategory(r.Context(), menu.CreateCategoryInput{
			LocationID:   locationID,
			Name:         body.Name,
			Description:  body.Description,
			DisplayOrder: body.DisplayOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

// MenuUpdateCategory applies partial changes to a category. The category must
// belong to the location named in the path, which the access middleware has
// already authorized.
func MenuUpdateCategory(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		categoryID, err := locationScopedCategory(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateCategoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.UpdateCategory(r.Context(), categoryID, menu.UpdateCategoryInput{
			Name:         body.Name,
			Description:  body.Description,
			DisplayOrder: body.DisplayOrder,
			IsActive:     body.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, category)
	}
}

// MenuCreateItem adds an item to one of the location's categories.
func MenuCreateItem(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		locationID, err := validators.ParsePathUUID(chi.URLParam(r, "locationID"), "locationID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryID, err := validators.ParsePathUUID(body.CategoryID, "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.CreateItem(r.Context(), menu.CreateItemInput{
			LocationID:   locationID,
			CategoryID:   categoryID,
			Name:         body.Name,
			Description:  body.Description,
			Price:        body.Price,
			ImageURL:     body.ImageURL,
			DisplayOrder: body.DisplayOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// MenuGetItem returns one item with its option groups.
func MenuGetItem(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		itemID, err := validators.ParsePathUUID(chi.URLParam(r, "itemID"), "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetItem(r.Context(), itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

// MenuUpdateItem applies partial changes to an item owned by the path
// location.
func MenuUpdateItem(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		itemID, err := locationScopedItem(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.UpdateItem(r.Context(), itemID, menu.UpdateItemInput{
			Name:         body.Name,
			Description:  body.Description,
			Price:        body.Price,
			ImageURL:     body.ImageURL,
			DisplayOrder: body.DisplayOrder,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, item)
	}
}

// MenuSetAvailability toggles whether an item can be ordered (86'ing).
func MenuSetAvailability(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		itemID, err := locationScopedItem(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setAvailabilityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetAvailability(r.Context(), itemID, *body.IsAvailable); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"is_available": *body.IsAvailable})
	}
}

// MenuAddOptionGroup creates a modifier group with its options in one call.
func MenuAddOptionGroup(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		itemID, err := locationScopedItem(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addOptionGroupRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		options := make([]menu.OptionInput, 0, len(body.Options))
		for _, opt := range body.Options {
			options = append(options, menu.OptionInput{
				Name:          opt.Name,
				PriceModifier: opt.PriceModifier,
				IsDefault:     opt.IsDefault,
				DisplayOrder:  opt.DisplayOrder,
			})
		}

		group, err := svc.AddOptionGroup(r.Context(), menu.AddOptionGroupInput{
			MenuItemID:    itemID,
			Name:          body.Name,
			MinSelections: body.MinSelections,
			MaxSelections: body.MaxSelections,
			DisplayOrder:  body.DisplayOrder,
			Options:       options,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, group)
	}
}

// MenuSetDefaultOption changes which option a group preselects.
func MenuSetDefaultOption(svc menu.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		itemID, err := locationScopedItem(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		groupID, err := validators.ParsePathUUID(chi.URLParam(r, "groupID"), "groupID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setDefaultOptionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		optionID, err := validators.ParsePathUUID(body.OptionID, "option_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		group, err := svc.SetDefaultOption(r.Context(), menu.SetDefaultOptionInput{
			MenuItemID: itemID,
			GroupID:    groupID,
			OptionID:   optionID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, group)
	}
}

// locationScopedCategory parses both path IDs and confirms the category
// belongs to the location the request is scoped to. Cross-location IDs read
// as missing.
func locationScopedCategory(r *http.Request, svc menu.Service) (uuid.UUID, error) {
	locationID, err := validators.ParsePathUUID(chi.URLParam(r, "locationID"), "locationID")
	if err != nil {
		return uuid.Nil, err
	}
	categoryID, err := validators.ParsePathUUID(chi.URLParam(r, "categoryID"), "categoryID")
	if err != nil {
		return uuid.Nil, err
	}
	category, err := svc.GetCategory(r.Context(), categoryID)
	if err != nil {
		return uuid.Nil, err
	}
	if category.LocationID != locationID {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	return categoryID, nil
}

// locationScopedItem is the item-side counterpart of locationScopedCategory.
func locationScopedItem(r *http.Request, svc menu.Service) (uuid.UUID, error) {
	locationID, err := validators.ParsePathUUID(chi.URLParam(r, "locationID"), "locationID")
	if err != nil {
		return uuid.Nil, err
	}
	itemID, err := validators.ParsePathUUID(chi.URLParam(r, "itemID"), "itemID")
	if err != nil {
		return uuid.Nil, err
	}
	item, err := svc.GetItem(r.Context(), itemID)
	if err != nil {
		return uuid.Nil, err
	}
	if item.LocationID != locationID {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found")
	}
	return itemID, nil
}
