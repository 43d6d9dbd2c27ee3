// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/danielhkuo/audio-rating/catalog"
	"github.com/danielhkuo/audio-rating/cliparse"
	"github.com/danielhkuo/audio-rating/engine"
	"github.com/danielhkuo/audio-rating/identity"
	"github.com/danielhkuo/audio-rating/middleware"
	"github.com/danielhkuo/audio-rating/store"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names in messages
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationMessage turns validator errors into one readable line
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "Invalid request"
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" is required")
		case "min", "max":
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		default:
			parts = append(parts, fe.Field()+" is invalid")
		}
	}
	return strings.Join(parts, "; ")
}

// pathInt reads an integer path parameter
func pathInt(r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		return 0, false
	}
	return n, true
}

// newEngine wires the engine to the database-backed collaborators
func newEngine(db *sql.DB, cfg cliparse.Config) *engine.Engine {
	return engine.New(
		catalog.NewStore(db, cfg.AudioRoot, cfg.AudioBaseURL),
		store.NewRatingStore(db),
		identity.NewProvider(db),
		cfg.MaxConcurrency,
	)
}

// writeEngineError maps engine and store errors to HTTP responses
func writeEngineError(w http.ResponseWriter, err error, action string) {
	var verr *engine.ValidationError
	switch {
	case errors.Is(err, engine.ErrNotFound), errors.Is(err, catalog.ErrParticipantNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Participant not found")
	case errors.Is(err, identity.ErrRaterNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Rater not found")
	case errors.Is(err, identity.ErrInvalidName):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, engine.ErrNoRater):
		middleware.ErrorResponse(w, http.StatusBadRequest, "rater id is required")
	case errors.As(err, &verr):
		middleware.ErrorResponse(w, http.StatusBadRequest, verr.Error())
	default:
		slog.Error("request failed", "action", action, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to "+action)
	}
}
