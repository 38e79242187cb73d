package core

import "fmt"

// Domain is a top-level capability area owned by exactly one coordinator.
type Domain string

const (
	// DomainAnalysis covers data retrieval, summarization and charting.
	DomainAnalysis Domain = "analysis"
	// DomainCommunication covers outbound staff messaging.
	DomainCommunication Domain = "communication"
	// DomainDataManagement covers validated database mutations and
	// synthetic record generation.
	DomainDataManagement Domain = "data_management"
	// DomainIntegration covers record retrieval from external campus
	// systems (LMS, SIS, CRM).
	DomainIntegration Domain = "integration"
	// DomainNone marks a conversational request that needs no domain
	// action; the director answers it directly.
	DomainNone Domain = "none"
)

// Domains lists every routable domain in a stable order.
func Domains() []Domain {
	return []Domain{DomainAnalysis, DomainCommunication, DomainDataManagement, DomainIntegration}
}

// Capability is a single concrete action a specialist + tool adapter pair
// can perform.
type Capability string

const (
	// CapabilityQuery executes a read-only database query.
	CapabilityQuery Capability = "query"
	// CapabilityChart renders a chart image from previously fetched rows.
	CapabilityChart Capability = "chart"
	// CapabilityMail sends an outbound message.
	CapabilityMail Capability = "mail"
	// CapabilityWrite performs an allow-listed database mutation.
	CapabilityWrite Capability = "write"
	// CapabilityFetch retrieves a record set from an external system.
	CapabilityFetch Capability = "fetch"
	// CapabilitySynthetic generates and stores a batch of synthetic records.
	CapabilitySynthetic Capability = "synthetic"
)

// OwnerKind discriminates the three levels of the agent hierarchy.
type OwnerKind int

const (
	// OwnerDirector is the per-turn entry point and terminal authority.
	OwnerDirector OwnerKind = iota
	// OwnerCoordinator owns one domain and routes within it.
	OwnerCoordinator
	// OwnerSpecialist executes exactly one capability.
	OwnerSpecialist
)

// Owner identifies the agent currently holding control of a turn. It is a
// closed tagged variant: the Kind field selects which of Domain/Capability
// is meaningful. Owners are comparable and used as registry keys, so the
// zero fields of inactive variants must stay empty.
type Owner struct {
	Kind       OwnerKind
	Domain     Domain     // set only for OwnerCoordinator
	Capability Capability // set only for OwnerSpecialist
}

// DirectorOwner returns the owner value for the director.
func DirectorOwner() Owner { return Owner{Kind: OwnerDirector} }

// CoordinatorOwner returns the owner value for the coordinator of d.
func CoordinatorOwner(d Domain) Owner { return Owner{Kind: OwnerCoordinator, Domain: d} }

// SpecialistOwner returns the owner value for the specialist executing c.
func SpecialistOwner(c Capability) Owner { return Owner{Kind: OwnerSpecialist, Capability: c} }

// String renders a stable human-readable identity used in traces and logs.
// The format is part of the persisted trace contract and must not change.
func (o Owner) String() string {
	switch o.Kind {
	case OwnerDirector:
		return "director"
	case OwnerCoordinator:
		return fmt.Sprintf("coordinator:%s", o.Domain)
	case OwnerSpecialist:
		return fmt.Sprintf("specialist:%s", o.Capability)
	default:
		return "unknown"
	}
}

// CapabilityDomain maps a capability to the domain whose coordinator owns
// it. The mapping is closed: adding a capability means adding an entry here
// and a specialist registration, never runtime type inspection.
func CapabilityDomain(c Capability) (Domain, bool) {
	switch c {
	case CapabilityQuery, CapabilityChart:
		return DomainAnalysis, true
	case CapabilityMail:
		return DomainCommunication, true
	case CapabilityWrite, CapabilitySynthetic:
		return DomainDataManagement, true
	case CapabilityFetch:
		return DomainIntegration, true
	default:
		return "", false
	}
}
