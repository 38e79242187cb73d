package model

import (
	"strings"

	"github.com/campusops/adminflow/core"
)

// Routing tags the classification prompt instructs the model to emit.
// Shared by the vendor adapters so their parsing stays identical.
const (
	TagAnalysis       = "ROUTE_TO_DATA_ANALYSIS"
	TagCommunication  = "ROUTE_TO_COMMUNICATION"
	TagDataManagement = "ROUTE_TO_DATA_MANAGEMENT"
	TagIntegration    = "ROUTE_TO_INTEGRATION"
	TagFinalResponse  = "FINAL_RESPONSE"
)

// ClassificationPrompt is the shared system prompt for intent
// classification. The model must lead its reply with exactly one tag.
const ClassificationPrompt = `You are the director of a university administrative assistant. Staff ask about student data, request analysis or charts, ask to send messages, enter data, or pull records from campus systems (LMS, SIS, CRM).

Categorize the request and start your reply with exactly one tag:
` + TagAnalysis + ` - data retrieval, analysis or visualization
` + TagCommunication + ` - sending emails or messages
` + TagDataManagement + ` - inserting or modifying database data, generating sample records
` + TagIntegration + ` - retrieving data from external campus systems
` + TagFinalResponse + ` - you can answer directly without any team

After the tag, on the same or following lines, add a short reply.`

// ParseRouting extracts a Classification from a tag-prefixed model reply.
// A recognized tag yields high confidence; an untagged reply yields zero
// confidence so the director's fallback applies.
func ParseRouting(reply string) Classification {
	trimmed := strings.TrimSpace(reply)
	for tag, domain := range map[string]core.Domain{
		TagAnalysis:       core.DomainAnalysis,
		TagCommunication:  core.DomainCommunication,
		TagDataManagement: core.DomainDataManagement,
		TagIntegration:    core.DomainIntegration,
	} {
		if strings.Contains(trimmed, tag) {
			return Classification{Domain: domain, Confidence: 0.9}
		}
	}
	if idx := strings.Index(trimmed, TagFinalResponse); idx >= 0 {
		answer := strings.TrimSpace(trimmed[idx+len(TagFinalResponse):])
		return Classification{Domain: core.DomainNone, Confidence: 0.9, Reply: answer}
	}
	return Classification{Domain: core.DomainNone, Confidence: 0}
}
