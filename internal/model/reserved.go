package model

// ReservedNames is a GlobalNameChecker backed by a fixed set of names.
type ReservedNames map[string]struct{}

// NewReservedNames returns a set containing names.
func NewReservedNames(names ...string) ReservedNames {
	r := make(ReservedNames, len(names))
	r.Add(names...)
	return r
}

// DefaultReservedNames returns the well-known properties of a browser's
// global object that an instance name must not shadow.
func DefaultReservedNames() ReservedNames {
	return NewReservedNames(
		"window", "self", "top", "parent", "frames", "opener", "globalThis",
		"document", "location", "history", "navigator", "screen",
		"localStorage", "sessionStorage", "indexedDB", "caches", "crypto",
		"performance", "console", "name", "status", "closed", "length",
		"origin", "event", "external", "customElements",
		"alert", "confirm", "prompt", "print", "open", "close", "stop",
		"focus", "blur", "postMessage", "fetch", "setTimeout", "setInterval",
		"clearTimeout", "clearInterval", "requestAnimationFrame",
		"Object", "Array", "String", "Number", "Boolean", "Symbol", "Function",
		"Date", "Math", "JSON", "Promise", "Proxy", "Reflect", "RegExp",
		"Error", "Map", "Set", "WeakMap", "WeakSet", "Intl", "undefined",
		"NaN", "Infinity", "eval", "isNaN", "isFinite", "parseInt", "parseFloat",
		"_satellite", "__alloyNS", "__alloyMonitors",
	)
}

// Add reserves additional names.
func (r ReservedNames) Add(names ...string) {
	for _, n := range names {
		r[n] = struct{}{}
	}
}

// IsGlobalNameTaken reports whether name is reserved.
func (r ReservedNames) IsGlobalNameTaken(name string) bool {
	_, ok := r[name]
	return ok
}
