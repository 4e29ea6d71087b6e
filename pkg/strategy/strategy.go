// Package strategy holds the fixed catalog of per-domain ingestion tunings:
// chunk window sizes and the prompt vocabulary used for graph extraction.
// The catalog is a product decision, loaded once and read-only.
package strategy

import "strings"

// Domain tags documents with the vertical their content belongs to.
type Domain string

const (
	DomainLegal       Domain = "legal"
	DomainFinancial   Domain = "financial"
	DomainMedical     Domain = "medical"
	DomainEngineering Domain = "engineering"
	DomainSales       Domain = "sales"
	DomainRegulatory  Domain = "regulatory"
	DomainJournalism  Domain = "journalism"
	DomainHR          Domain = "hr"
	DomainGeneral     Domain = "general"
)

// Strategy is the per-domain ingestion configuration: chunking window tuning
// plus the role framing and closed node/edge vocabularies for graph
// extraction.
type Strategy struct {
	Domain       Domain
	ChunkSize    int
	ChunkOverlap int
	SystemRole   string
	NodeTypes    []string
	EdgeTypes    []string
	TaskPrompt   string
}

// Chunk sizes are tuned to typical document density per vertical: long
// windows for contract-like prose so clauses stay intact, short windows for
// terse communications.
var catalog = map[Domain]Strategy{
	DomainLegal: {
		Domain:       DomainLegal,
		ChunkSize:    2500,
		ChunkOverlap: 500,
		SystemRole:   "You are a Senior Legal Analyst. Extract entities related to contracts, laws, and compliance.",
		NodeTypes:    []string{"Person", "Organization", "Contract", "Clause", "Statute", "Date", "Location"},
		EdgeTypes:    []string{"SIGNED", "VIOLATES", "REFERENCES", "AMENDS", "LIABLE_FOR", "LOCATED_IN"},
		TaskPrompt:   "Analyze the text for legal relationships. Identify parties (Person/Org) and their obligations. Link Clauses to specific statutes or dates.",
	},
	DomainFinancial: {
		Domain:       DomainFinancial,
		ChunkSize:    1500,
		ChunkOverlap: 300,
		SystemRole:   "You are a Wall Street Financial Analyst. Extract entities related to markets, earnings, and risk.",
		NodeTypes:    []string{"Company", "Metric", "Currency", "Asset", "Risk", "Regulation"},
		EdgeTypes:    []string{"REPORTED", "INCREASED", "DECREASED", "OWNS", "HEDGES_AGAINST", "COMPLIES_WITH"},
		TaskPrompt:   "Analyze the text for financial performance. Extract KPIs and map them to Companies.",
	},
	DomainMedical: {
		Domain:       DomainMedical,
		ChunkSize:    1200,
		ChunkOverlap: 250,
		SystemRole:   "You are a Chief Medical Officer. Extract clinical entities with high precision.",
		NodeTypes:    []string{"Patient", "Symptom", "Condition", "Drug", "Treatment", "Dosage"},
		EdgeTypes:    []string{"DIAGNOSED_WITH", "TREATED_WITH", "CAUSES", "PREVENTS", "CONTRAINDICATES"},
		TaskPrompt:   "Analyze the text for clinical relationships. Map Symptoms to Conditions. Link Treatments to Conditions.",
	},
	DomainEngineering: {
		Domain:       DomainEngineering,
		ChunkSize:    1500,
		ChunkOverlap: 300,
		SystemRole:   "You are a Senior Staff Engineer. Extract technical architecture and dependencies.",
		NodeTypes:    []string{"System", "Component", "Class", "Function", "API", "Database", "Service"},
		EdgeTypes:    []string{"CALLS", "IMPORTS", "DEPENDS_ON", "RETURNS", "STORES_IN", "INHERITS_FROM"},
		TaskPrompt:   "Analyze the text for software architecture. Identify Components and their interactions. Highlight dependencies.",
	},
	DomainSales: {
		Domain:       DomainSales,
		ChunkSize:    800,
		ChunkOverlap: 150,
		SystemRole:   "You are a Sales Operations Manager. Extract customer needs and product fit.",
		NodeTypes:    []string{"Client", "Product", "Feature", "PainPoint", "Requirement", "Competitor"},
		EdgeTypes:    []string{"NEEDS", "PURCHASED", "COMPETES_WITH", "SOLVES", "REQUESTED"},
		TaskPrompt:   "Analyze the text for sales opportunities. Map Clients to Pain Points. Link Products to Requirements.",
	},
	DomainRegulatory: {
		Domain:       DomainRegulatory,
		ChunkSize:    2000,
		ChunkOverlap: 400,
		SystemRole:   "You are a Compliance Officer. Extract regulations and violations.",
		NodeTypes:    []string{"Regulation", "Agency", "Policy", "Violation", "Standard", "Audit"},
		EdgeTypes:    []string{"ENFORCES", "VIOLATES", "COMPLIES_WITH", "AUDITED_BY", "MANDATES"},
		TaskPrompt:   "Analyze the text for regulatory compliance. Link Agencies to Regulations. Identify internal Policies.",
	},
	DomainJournalism: {
		Domain:       DomainJournalism,
		ChunkSize:    1000,
		ChunkOverlap: 200,
		SystemRole:   "You are an Investigative Journalist. Extract the who, what, where, and when.",
		NodeTypes:    []string{"Person", "Event", "Location", "Date", "Source", "Organization"},
		EdgeTypes:    []string{"WITNESSED", "REPORTED", "OCCURRED_AT", "INVOLVED_IN", "QUOTED"},
		TaskPrompt:   "Analyze the text for factual reporting. Create a timeline of Events linked to Dates. Map People to Events.",
	},
	DomainHR: {
		Domain:       DomainHR,
		ChunkSize:    1000,
		ChunkOverlap: 200,
		SystemRole:   "You are a Human Resources Director. Extract employee and policy info.",
		NodeTypes:    []string{"Employee", "Role", "Department", "Policy", "Benefit", "Skill"},
		EdgeTypes:    []string{"REPORTS_TO", "MEMBER_OF", "ELIGIBLE_FOR", "REQUIRES", "VIOLATES"},
		TaskPrompt:   "Analyze the text for organizational structure. Map Roles to Departments. Link Employees to Skills.",
	},
	DomainGeneral: {
		Domain:       DomainGeneral,
		ChunkSize:    1000,
		ChunkOverlap: 200,
		SystemRole:   "You are a Knowledge Graph Expert. Extract key entities and relationships.",
		NodeTypes:    []string{"Person", "Organization", "Location", "Concept", "Event", "Object"},
		EdgeTypes:    []string{"RELATED_TO", "PART_OF", "LOCATED_IN", "CREATED", "USES"},
		TaskPrompt:   "Extract key entities and relationships to build a general knowledge graph.",
	},
}

// Resolve maps a domain tag to its Strategy. Unknown, empty or differently
// cased tags resolve to the general Strategy; this lookup never fails.
func Resolve(tag string) Strategy {
	domain := Domain(strings.ToLower(strings.TrimSpace(tag)))
	if s, ok := catalog[domain]; ok {
		return s
	}
	return catalog[DomainGeneral]
}

// Domains returns all registered domain tags.
func Domains() []Domain {
	out := make([]Domain, 0, len(catalog))
	for d := range catalog {
		out = append(out, d)
	}
	return out
}
