package api

import "reflect"

// Of returns the event type token for T. Steps declare the events they
// react to with such tokens:
//
//	flow.Step("S2").User(api.Of[EntersName]()).System(...)
//
// T may be an interface type; a step declared on an interface reacts to
// every event whose dynamic type implements it. Declaring Of[error] makes
// a step react to any failure.
func Of[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// EventTypeMatches reports whether an event of the given runtime type is
// accepted by a step declared on the declared type: the types are equal,
// or the declared type is an interface the runtime type implements. This
// is the library's explicit "is-a" relation; interfaces are the modeled
// ancestors of concrete event types.
func EventTypeMatches(declared, runtime reflect.Type) bool {
	if declared == nil || runtime == nil {
		return false
	}
	if declared == runtime {
		return true
	}
	return declared.Kind() == reflect.Interface && runtime.Implements(declared)
}
