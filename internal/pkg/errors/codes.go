package errors

import "net/http"

var (
	ErrPropertyNotFound = New(
		"PROPERTY_NOT_FOUND",
		"Property not found",
		http.StatusNotFound,
	)

	// ErrQueryFailed - generic catalog read failure, details are only logged
	ErrQueryFailed = New(
		"QUERY_FAILED",
		"Failed to fetch properties",
		http.StatusInternalServerError,
	)

	// ErrLocationUnresolvable - geocoding returned no match for the address
	ErrLocationUnresolvable = New(
		"LOCATION_UNRESOLVABLE",
		"Could not resolve property location",
		http.StatusUnprocessableEntity,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidPropertyID = New(
		"INVALID_PROPERTY_ID",
		"Invalid property ID",
		http.StatusBadRequest,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrRateLimited = New(
		"RATE_LIMITED",
		"Too many requests",
		http.StatusTooManyRequests,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
