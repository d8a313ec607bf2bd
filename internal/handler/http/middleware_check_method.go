// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/life-sync/internal/utils"
	"github.com/go-chi/chi/v5"
)

var errRouteNotFound = errors.New("route not found")

// CheckHTTPMethod returns the MethodNotAllowed handler of router. A request
// whose method is not registered for the matched path is answered with a
// JSON 404, so the diagnostics endpoint does not reveal which read-only
// routes exist. Only exact, non-parameterised patterns are matched.
//
//	router.MethodNotAllowed(CheckHTTPMethod(router))
func CheckHTTPMethod(router *chi.Mux) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var found chi.Route
		for _, route := range router.Routes() {
			if route.Pattern == r.URL.Path {
				found = route
				break
			}
		}

		if _, ok := found.Handlers[r.Method]; !ok {
			utils.WriteError(w, errRouteNotFound, http.StatusNotFound)
			return
		}

		router.ServeHTTP(w, r)
	}
}
