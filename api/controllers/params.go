package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shaheen-020/pharmacy-backend/api/validators"
	pkgerrors "github.com/shaheen-020/pharmacy-backend/pkg/errors"
	"github.com/shaheen-020/pharmacy-backend/pkg/pagination"
)

func parseIDParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id")
	}
	return id, nil
}

func paginationFromQuery(r *http.Request) pagination.Params {
	return pagination.Params{
		Limit:  validators.ParseQueryInt(r, "limit", pagination.DefaultLimit),
		Cursor: validators.ParseQueryString(r, "cursor"),
	}
}

func optionalUUID(r *http.Request, key string) *uuid.UUID {
	id := validators.ParseQueryUUID(r, key)
	if id == uuid.Nil {
		return nil
	}
	return &id
}
