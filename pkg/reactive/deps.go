package reactive

import "sync"

// subscriberSet is the set of effects depending on one tracked cell or
// one key of a tracked object. Insertion order is preserved for
// notification but callers must not rely on order across effects.
type subscriberSet struct {
	mu   sync.Mutex
	subs []*Effect
}

// add inserts an effect, deduplicating by ID.
func (s *subscriberSet) add(e *Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()

	eid := e.ID()
	for _, existing := range s.subs {
		if existing.ID() == eid {
			return
		}
	}
	s.subs = append(s.subs, e)
}

// remove deletes an effect from the set. No-op if absent.
func (s *subscriberSet) remove(e *Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()

	eid := e.ID()
	for i, existing := range s.subs {
		if existing.ID() == eid {
			s.subs[i] = s.subs[len(s.subs)-1]
			s.subs = s.subs[:len(s.subs)-1]
			return
		}
	}
}

// snapshot copies the current subscribers so notification runs without
// holding the lock (effects re-subscribe while being notified).
func (s *subscriberSet) snapshot() []*Effect {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs := make([]*Effect, len(s.subs))
	copy(subs, s.subs)
	return subs
}

// track subscribes the currently active effect, if any. A plain read
// with no effect running is a no-op.
func (s *subscriberSet) track() {
	e := activeEffect()
	if e == nil || e.stopped.Load() {
		return
	}

	s.add(e)
	e.addDep(s)
}

// trigger notifies every subscriber that the tracked value changed.
// Inside a batch the notifications are queued for the outermost batch
// end; otherwise each effect is notified inline, in set order.
func (s *subscriberSet) trigger() {
	subs := s.snapshot()
	if len(subs) == 0 {
		return
	}

	ctx := currentContext()
	if ctx.batchDepth > 0 {
		ctx.pending = append(ctx.pending, subs...)
		return
	}

	for _, e := range subs {
		e.notify()
	}
}

// propMap maps property keys to subscriber sets. Each reactive Object
// owns its propMap, so tracking metadata lives and dies with the object
// it describes; there is no central registry to leak entries for
// unreachable objects.
type propMap struct {
	mu   sync.Mutex
	keys map[string]*subscriberSet
}

// track records the active effect as a subscriber of (owner, key).
// The per-key set is created on the first tracked read; plain reads
// allocate nothing.
func (p *propMap) track(owner uint64, key string) {
	if activeEffect() == nil {
		return
	}

	emit(Event{Kind: EventTrack, Target: owner, Key: key, Effect: activeEffectID()})
	p.dep(key).track()
}

// trigger notifies the subscribers of (owner, key). No-op when the key
// was never read under an effect.
func (p *propMap) trigger(owner uint64, key string) {
	p.mu.Lock()
	set := p.keys[key]
	p.mu.Unlock()

	if set == nil {
		return
	}

	emit(Event{Kind: EventTrigger, Target: owner, Key: key})
	set.trigger()
}

// dep returns the subscriber set for key, creating it on demand.
func (p *propMap) dep(key string) *subscriberSet {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.keys == nil {
		p.keys = make(map[string]*subscriberSet)
	}
	set := p.keys[key]
	if set == nil {
		set = &subscriberSet{}
		p.keys[key] = set
	}
	return set
}

// activeEffectID returns the running effect's ID for event labeling,
// or 0 when no effect is active.
func activeEffectID() uint64 {
	if e := activeEffect(); e != nil {
		return e.ID()
	}
	return 0
}
