package controllers

import (
	"net/http"

	"github.com/shaheen-020/pharmacy-backend/api/responses"
	dashboardsvc "github.com/shaheen-020/pharmacy-backend/internal/dashboard"
	pkgerrors "github.com/shaheen-020/pharmacy-backend/pkg/errors"
	"github.com/shaheen-020/pharmacy-backend/pkg/logger"
)

func DashboardSummary(svc dashboardsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		summary, err := svc.Summary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}
