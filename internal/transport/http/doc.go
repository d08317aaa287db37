// Package http implements HTTP request handlers for the CyberPulse web
// service. It provides a thin layer between HTTP transport and business
// logic: handlers parse and validate requests, delegate to the service
// layer, and transform service errors into RFC 7807 problem responses.
//
// A typical request flows through these layers:
//
//	HTTP Request → Chi Router → Middleware → Handler → Service → Dataset Store
//
// Handlers never touch the dataset packages directly; every read goes
// through DashboardServiceInterface so tests can substitute a stub.
package http
