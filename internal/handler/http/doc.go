// Package http implements the REST API of the sync server.
//
// Routes live under /api: auth/register, auth/login and auth/refresh issue
// bearer tokens; health and version are public; every entity resource
// (customers, jobs, estimates, invoices, material-lists) supports GET with an optional since query, POST, PUT
// /{id} and DELETE /{id} behind the auth middleware.
//
// Cross-cutting concerns such as request tracing, access logging, response
// compression, authentication and body integrity checks are handled in this
// package before requests are delegated to the service layer.
package http
