// Package http implements the HTTP transport of the reference record store.
//
// It exposes the identity and dataset routes, decodes requests, and maps
// service errors to status codes. Authentication, request tracing, access
// logging, response compression and patch integrity checks run as
// middleware before requests reach the service layer.
package http
