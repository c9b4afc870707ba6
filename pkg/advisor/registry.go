package advisor

import (
	"fmt"
	"log"
	"sort"
	"time"
)

// Registry holds all advisors for one process, keyed by domain tag.
//
// Registration happens once at startup before traffic begins; lookups on the
// request path are read-only, so no locking is required. The registry is an
// explicit constructed object passed to the router - there is no package-level
// instance.
type Registry struct {
	advisors map[Intent]Advisor
	info     map[Intent]Info
	now      func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		advisors: make(map[Intent]Advisor),
		info:     make(map[Intent]Info),
		now:      time.Now,
	}
}

// Register adds an advisor to the registry and stamps its registration time.
// Returns false if the advisor is invalid (nil, bad domain tag, or a duplicate
// of an already-registered domain); the failure is recorded so List reports a
// degraded advisor set, and startup of the remaining advisors continues.
func (r *Registry) Register(a Advisor) bool {
	if a == nil {
		log.Printf("[Registry] Rejecting nil advisor")
		return false
	}

	domain := a.Domain()
	if err := domain.Validate(); err != nil {
		log.Printf("[Registry] Failed to register advisor: %v", err)
		r.info[domain] = Info{
			Domain:      domain,
			Description: a.Description(),
			Status:      StatusFailed,
		}
		return false
	}

	if _, exists := r.advisors[domain]; exists {
		log.Printf("[Registry] Failed to register advisor %s: domain already registered", domain)
		return false
	}

	r.advisors[domain] = a
	r.info[domain] = Info{
		Domain:       domain,
		Description:  a.Description(),
		Status:       StatusRegistered,
		RegisteredAt: r.now(),
	}
	log.Printf("[Registry] Registered advisor: %s - %s", domain, a.Description())
	return true
}

// Unregister removes an advisor from routing. Its record remains visible in
// List with status unregistered.
func (r *Registry) Unregister(domain Intent) {
	if _, exists := r.advisors[domain]; !exists {
		return
	}
	delete(r.advisors, domain)
	rec := r.info[domain]
	rec.Status = StatusUnregistered
	rec.RegisteredAt = time.Time{}
	r.info[domain] = rec
	log.Printf("[Registry] Unregistered advisor: %s", domain)
}

// Lookup returns the registered advisor for a domain tag.
// A miss is signalled with ok=false, distinct from a registered-but-erroring
// advisor; callers route misses to the general/default advisor, they do not
// treat them as failures.
func (r *Registry) Lookup(domain Intent) (Advisor, bool) {
	a, ok := r.advisors[domain]
	return a, ok
}

// List returns metadata for every advisor the registry has seen (registered,
// failed, or unregistered), in the stable enumeration order with any
// off-enumeration records appended alphabetically.
func (r *Registry) List() []Info {
	out := make([]Info, 0, len(r.info))
	seen := make(map[Intent]bool, len(r.info))
	for _, domain := range AllIntents() {
		if rec, ok := r.info[domain]; ok {
			out = append(out, rec)
			seen[domain] = true
		}
	}

	var rest []Info
	for domain, rec := range r.info {
		if !seen[domain] {
			rest = append(rest, rec)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].Domain < rest[j].Domain })
	return append(out, rest...)
}

// Size returns the number of advisors currently available for routing.
func (r *Registry) Size() int {
	return len(r.advisors)
}

// String implements fmt.Stringer for log lines.
func (r *Registry) String() string {
	return fmt.Sprintf("Registry(%d registered)", len(r.advisors))
}
