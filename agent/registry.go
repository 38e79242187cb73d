package agent

import (
	"fmt"

	"github.com/campusops/adminflow/core"
)

// Registry is the closed owner table: every Owner value the graph can
// route to maps to exactly one behavior registered here. Adding a
// capability means adding an Owner variant and a table entry; there is no
// runtime type inspection anywhere in the routing path.
type Registry struct {
	deciders    map[core.Owner]Decider
	specialists map[core.Owner]Specialist
}

// NewRegistry validates and assembles the owner table. Every specialist's
// capability must map to a registered coordinator's domain, otherwise
// control could climb to a parent that does not exist.
func NewRegistry(director Decider, coordinators []Decider, specialists []Specialist) (*Registry, error) {
	if director == nil || director.Owner().Kind != core.OwnerDirector {
		return nil, fmt.Errorf("registry requires a director")
	}

	r := &Registry{
		deciders:    make(map[core.Owner]Decider, len(coordinators)+1),
		specialists: make(map[core.Owner]Specialist, len(specialists)),
	}
	r.deciders[director.Owner()] = director

	for _, c := range coordinators {
		o := c.Owner()
		if o.Kind != core.OwnerCoordinator {
			return nil, fmt.Errorf("%s registered as coordinator", o)
		}
		if _, dup := r.deciders[o]; dup {
			return nil, fmt.Errorf("duplicate coordinator for %s", o.Domain)
		}
		r.deciders[o] = c
	}

	for _, s := range specialists {
		o := s.Owner()
		if o.Kind != core.OwnerSpecialist {
			return nil, fmt.Errorf("%s registered as specialist", o)
		}
		domain, ok := core.CapabilityDomain(o.Capability)
		if !ok {
			return nil, fmt.Errorf("capability %s maps to no domain", o.Capability)
		}
		if _, ok := r.deciders[core.CoordinatorOwner(domain)]; !ok {
			return nil, fmt.Errorf("specialist %s has no registered %s coordinator", o.Capability, domain)
		}
		if _, dup := r.specialists[o]; dup {
			return nil, fmt.Errorf("duplicate specialist for %s", o.Capability)
		}
		r.specialists[o] = s
	}

	return r, nil
}

// Decider resolves the behavior for a director or coordinator owner.
func (r *Registry) Decider(o core.Owner) (Decider, bool) {
	d, ok := r.deciders[o]
	return d, ok
}

// Specialist resolves the behavior for a specialist owner.
func (r *Registry) Specialist(o core.Owner) (Specialist, bool) {
	s, ok := r.specialists[o]
	return s, ok
}

// Parent returns the owner control climbs to after o finishes a step:
// specialists bounce to their domain coordinator, coordinators to the
// director, and the director is its own root.
func (r *Registry) Parent(o core.Owner) core.Owner {
	switch o.Kind {
	case core.OwnerSpecialist:
		if domain, ok := core.CapabilityDomain(o.Capability); ok {
			return core.CoordinatorOwner(domain)
		}
		return core.DirectorOwner()
	case core.OwnerCoordinator:
		return core.DirectorOwner()
	default:
		return core.DirectorOwner()
	}
}
