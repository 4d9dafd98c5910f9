package http

import "context"

type contextKey string

const (
	eventIDContextKey    contextKey = "event_id"
	distanceIDContextKey contextKey = "distance_id"
	cityIDContextKey     contextKey = "city_id"
	resourceIDContextKey contextKey = "resource_id"
)

// ContextWithEventID injects the event identifier resolved from the request path.
func ContextWithEventID(ctx context.Context, eventID string) context.Context {
	return context.WithValue(ctx, eventIDContextKey, eventID)
}

// EventIDFromContext extracts an event identifier previously associated with the context.
func EventIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(eventIDContextKey).(string)
	return id, ok
}

// ContextWithDistanceID injects the distance identifier resolved from the request path.
func ContextWithDistanceID(ctx context.Context, distanceID string) context.Context {
	return context.WithValue(ctx, distanceIDContextKey, distanceID)
}

// DistanceIDFromContext extracts a distance identifier previously associated with the context.
func DistanceIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(distanceIDContextKey).(string)
	return id, ok
}

// ContextWithCityID injects the city identifier resolved from the request path.
func ContextWithCityID(ctx context.Context, cityID string) context.Context {
	return context.WithValue(ctx, cityIDContextKey, cityID)
}

// CityIDFromContext extracts a city identifier previously associated with the context.
func CityIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(cityIDContextKey).(string)
	return id, ok
}

// ContextWithResourceID injects the resource identifier resolved from the request path.
func ContextWithResourceID(ctx context.Context, resourceID string) context.Context {
	return context.WithValue(ctx, resourceIDContextKey, resourceID)
}

// ResourceIDFromContext extracts a resource identifier previously associated with the context.
func ResourceIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(resourceIDContextKey).(string)
	return id, ok
}
