package topology

// Registry assigns per-type sequential identifiers to entities and resolves
// them in both directions. Ids start at 0 for each type and are never
// reused until Reset.
//
// A Registry is owned by the caller and passed to Build. It is not safe for
// concurrent use.
type Registry struct {
	capacities map[Type]int
	forward    map[Entity]Ref
	inverse    map[Ref]Entity
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Reset()
	return r
}

// Reset forgets every registration and restarts all counters at 0.
func (r *Registry) Reset() {
	r.capacities = make(map[Type]int)
	r.forward = make(map[Entity]Ref)
	r.inverse = make(map[Ref]Entity)
}

// Register assigns e the next id of its type. Registering the same entity
// twice returns its existing identifier.
func (r *Registry) Register(e Entity) Ref {
	if ref, ok := r.forward[e]; ok {
		return ref
	}
	t := e.Type()
	ref := Ref{Type: t, ID: r.capacities[t]}
	r.capacities[t]++
	r.forward[e] = ref
	r.inverse[ref] = e
	return ref
}

// LookupID returns e's sequential id.
func (r *Registry) LookupID(e Entity) (int, bool) {
	ref, ok := r.forward[e]
	return ref.ID, ok
}

// LookupType returns e's type, or NoExist if e is not registered.
func (r *Registry) LookupType(e Entity) Type {
	if ref, ok := r.forward[e]; ok {
		return ref.Type
	}
	return NoExist
}

// LookupRef returns e's full identifier.
func (r *Registry) LookupRef(e Entity) (Ref, bool) {
	ref, ok := r.forward[e]
	return ref, ok
}

// LookupEntity resolves an identifier back to its entity.
func (r *Registry) LookupEntity(ref Ref) (Entity, bool) {
	e, ok := r.inverse[ref]
	return e, ok
}

// Capacity returns how many entities of type t have been registered.
func (r *Registry) Capacity(t Type) int {
	return r.capacities[t]
}

// Len returns the total number of registered entities.
func (r *Registry) Len() int {
	return len(r.forward)
}
