// Package common holds wire-level constants shared by the client packages.
package common

// HTTP headers set on every outbound API request.
const (
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
	RequestIDHeader     = "X-Request-ID"
)

// Screen paths of the hosting application.
const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)
