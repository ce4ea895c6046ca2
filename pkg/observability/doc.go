/*
Package observability turns scope lifecycle events into logs and Prometheus metrics.

Everything here produces scope.Hooks for a scope.Tracer; guards that are not traced
pay nothing.
*/
package observability
