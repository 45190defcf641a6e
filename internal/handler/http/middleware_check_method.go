// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CheckHTTPMethod returns the router's MethodNotAllowed handler. Instead of
// chi's 405 it answers 404 when the requested method is not registered for
// the path, so unsupported methods do not reveal which routes exist.
//
// Routes are matched with [chi.Mux.Match], so parameterised patterns such as
// /api/jobs/{id} are resolved the same way the router resolves them.
//
// Usage:
//
//	router := chi.NewRouter()
//	// ... register routes ...
//	router.MethodNotAllowed(CheckHTTPMethod(router))
func CheckHTTPMethod(router *chi.Mux) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		if !router.Match(chi.NewRouteContext(), r.Method, r.URL.Path) {
			notFound(w, r)
			return
		}

		// The method is registered: delegate to the router's normal pipeline.
		router.ServeHTTP(w, r)
	}
}
