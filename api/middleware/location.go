package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mosburritos/backend/api/responses"
	"github.com/mosburritos/backend/pkg/enums"
	pkgerrors "github.com/mosburritos/backend/pkg/errors"
	"github.com/mosburritos/backend/pkg/logger"
)

type locationAccessChecker interface {
	CanAccessLocation(ctx context.Context, userID uuid.UUID, role enums.UserRole, locationID uuid.UUID) (bool, error)
}

// LocationAccess parses the locationID path segment and rejects callers who
// are neither owners nor actively assigned to the location. The resolved id
// is placed on the context for downstream handlers.
func LocationAccess(checker locationAccessChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			locationID, err := uuid.Parse(chi.URLParam(r, "locationID"))
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid location id"))
				return
			}

			userID, err := uuid.Parse(UserIDFromContext(ctx))
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			role, err := enums.ParseUserRole(RoleFromContext(ctx))
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			if checker != nil {
				ok, err := checker.CanAccessLocation(ctx, userID, role, locationID)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check location access"))
					return
				}
				if !ok {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "no access to this location"))
					return
				}
			}

			ctx = WithLocationID(ctx, locationID.String())
			if logg != nil {
				ctx = logg.WithLocationID(ctx, locationID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
