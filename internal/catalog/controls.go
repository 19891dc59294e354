// Package catalog holds the immutable reference data the compliance modules
// select against: the ISO/IEC 27001:2022 Annex A control list plus the shared
// selection-state type modules persist. Reference data ships in source and is
// never written back to storage; only selections and notes are persisted.
package catalog

// Control is one Annex A control.
type Control struct {
	ID     string `json:"id" yaml:"id"`
	Title  string `json:"title" yaml:"title"`
	Domain string `json:"domain" yaml:"domain"`
}

// Annex A control domains (ISO/IEC 27001:2022 themes).
const (
	DomainOrganizational = "organizational"
	DomainPeople         = "people"
	DomainPhysical       = "physical"
	DomainTechnological  = "technological"
)

// Controls returns the full Annex A catalog in standard order, with any
// extension controls appended. Callers must not mutate the returned slice.
func Controls() []Control {
	return mergedControls()
}

// ControlByID looks up a control by its Annex A identifier.
func ControlByID(id string) (Control, bool) {
	extMu.RLock()
	defer extMu.RUnlock()
	return controlByIDLocked(id)
}

var annexA = []Control{
	{ID: "A.5.1", Title: "Policies for information security", Domain: DomainOrganizational},
	{ID: "A.5.2", Title: "Information security roles and responsibilities", Domain: DomainOrganizational},
	{ID: "A.5.3", Title: "Segregation of duties", Domain: DomainOrganizational},
	{ID: "A.5.4", Title: "Management responsibilities", Domain: DomainOrganizational},
	{ID: "A.5.5", Title: "Contact with authorities", Domain: DomainOrganizational},
	{ID: "A.5.6", Title: "Contact with special interest groups", Domain: DomainOrganizational},
	{ID: "A.5.7", Title: "Threat intelligence", Domain: DomainOrganizational},
	{ID: "A.5.8", Title: "Information security in project management", Domain: DomainOrganizational},
	{ID: "A.5.9", Title: "Inventory of information and other associated assets", Domain: DomainOrganizational},
	{ID: "A.5.10", Title: "Acceptable use of information and other associated assets", Domain: DomainOrganizational},
	{ID: "A.5.11", Title: "Return of assets", Domain: DomainOrganizational},
	{ID: "A.5.12", Title: "Classification of information", Domain: DomainOrganizational},
	{ID: "A.5.13", Title: "Labelling of information", Domain: DomainOrganizational},
	{ID: "A.5.14", Title: "Information transfer", Domain: DomainOrganizational},
	{ID: "A.5.15", Title: "Access control", Domain: DomainOrganizational},
	{ID: "A.5.16", Title: "Identity management", Domain: DomainOrganizational},
	{ID: "A.5.17", Title: "Authentication information", Domain: DomainOrganizational},
	{ID: "A.5.18", Title: "Access rights", Domain: DomainOrganizational},
	{ID: "A.5.19", Title: "Information security in supplier relationships", Domain: DomainOrganizational},
	{ID: "A.5.20", Title: "Addressing information security within supplier agreements", Domain: DomainOrganizational},
	{ID: "A.5.21", Title: "Managing information security in the ICT supply chain", Domain: DomainOrganizational},
	{ID: "A.5.22", Title: "Monitoring, review and change management of supplier services", Domain: DomainOrganizational},
	{ID: "A.5.23", Title: "Information security for use of cloud services", Domain: DomainOrganizational},
	{ID: "A.5.24", Title: "Information security incident management planning and preparation", Domain: DomainOrganizational},
	{ID: "A.5.25", Title: "Assessment and decision on information security events", Domain: DomainOrganizational},
	{ID: "A.5.26", Title: "Response to information security incidents", Domain: DomainOrganizational},
	{ID: "A.5.27", Title: "Learning from information security incidents", Domain: DomainOrganizational},
	{ID: "A.5.28", Title: "Collection of evidence", Domain: DomainOrganizational},
	{ID: "A.5.29", Title: "Information security during disruption", Domain: DomainOrganizational},
	{ID: "A.5.30", Title: "ICT readiness for business continuity", Domain: DomainOrganizational},
	{ID: "A.5.31", Title: "Legal, statutory, regulatory and contractual requirements", Domain: DomainOrganizational},
	{ID: "A.5.32", Title: "Intellectual property rights", Domain: DomainOrganizational},
	{ID: "A.5.33", Title: "Protection of records", Domain: DomainOrganizational},
	{ID: "A.5.34", Title: "Privacy and protection of PII", Domain: DomainOrganizational},
	{ID: "A.5.35", Title: "Independent review of information security", Domain: DomainOrganizational},
	{ID: "A.5.36", Title: "Compliance with policies, rules and standards for information security", Domain: DomainOrganizational},
	{ID: "A.5.37", Title: "Documented operating procedures", Domain: DomainOrganizational},
	{ID: "A.6.1", Title: "Screening", Domain: DomainPeople},
	{ID: "A.6.2", Title: "Terms and conditions of employment", Domain: DomainPeople},
	{ID: "A.6.3", Title: "Information security awareness, education and training", Domain: DomainPeople},
	{ID: "A.6.4", Title: "Disciplinary process", Domain: DomainPeople},
	{ID: "A.6.5", Title: "Responsibilities after termination or change of employment", Domain: DomainPeople},
	{ID: "A.6.6", Title: "Confidentiality or non-disclosure agreements", Domain: DomainPeople},
	{ID: "A.6.7", Title: "Remote working", Domain: DomainPeople},
	{ID: "A.6.8", Title: "Information security event reporting", Domain: DomainPeople},
	{ID: "A.7.1", Title: "Physical security perimeters", Domain: DomainPhysical},
	{ID: "A.7.2", Title: "Physical entry", Domain: DomainPhysical},
	{ID: "A.7.3", Title: "Securing offices, rooms and facilities", Domain: DomainPhysical},
	{ID: "A.7.4", Title: "Physical security monitoring", Domain: DomainPhysical},
	{ID: "A.7.5", Title: "Protecting against physical and environmental threats", Domain: DomainPhysical},
	{ID: "A.7.6", Title: "Working in secure areas", Domain: DomainPhysical},
	{ID: "A.7.7", Title: "Clear desk and clear screen", Domain: DomainPhysical},
	{ID: "A.7.8", Title: "Equipment siting and protection", Domain: DomainPhysical},
	{ID: "A.7.9", Title: "Security of assets off-premises", Domain: DomainPhysical},
	{ID: "A.7.10", Title: "Storage media", Domain: DomainPhysical},
	{ID: "A.7.11", Title: "Supporting utilities", Domain: DomainPhysical},
	{ID: "A.7.12", Title: "Cabling security", Domain: DomainPhysical},
	{ID: "A.7.13", Title: "Equipment maintenance", Domain: DomainPhysical},
	{ID: "A.7.14", Title: "Secure disposal or re-use of equipment", Domain: DomainPhysical},
	{ID: "A.8.1", Title: "User endpoint devices", Domain: DomainTechnological},
	{ID: "A.8.2", Title: "Privileged access rights", Domain: DomainTechnological},
	{ID: "A.8.3", Title: "Information access restriction", Domain: DomainTechnological},
	{ID: "A.8.4", Title: "Access to source code", Domain: DomainTechnological},
	{ID: "A.8.5", Title: "Secure authentication", Domain: DomainTechnological},
	{ID: "A.8.6", Title: "Capacity management", Domain: DomainTechnological},
	{ID: "A.8.7", Title: "Protection against malware", Domain: DomainTechnological},
	{ID: "A.8.8", Title: "Management of technical vulnerabilities", Domain: DomainTechnological},
	{ID: "A.8.9", Title: "Configuration management", Domain: DomainTechnological},
	{ID: "A.8.10", Title: "Information deletion", Domain: DomainTechnological},
	{ID: "A.8.11", Title: "Data masking", Domain: DomainTechnological},
	{ID: "A.8.12", Title: "Data leakage prevention", Domain: DomainTechnological},
	{ID: "A.8.13", Title: "Information backup", Domain: DomainTechnological},
	{ID: "A.8.14", Title: "Redundancy of information processing facilities", Domain: DomainTechnological},
	{ID: "A.8.15", Title: "Logging", Domain: DomainTechnological},
	{ID: "A.8.16", Title: "Monitoring activities", Domain: DomainTechnological},
	{ID: "A.8.17", Title: "Clock synchronization", Domain: DomainTechnological},
	{ID: "A.8.18", Title: "Use of privileged utility programs", Domain: DomainTechnological},
	{ID: "A.8.19", Title: "Installation of software on operational systems", Domain: DomainTechnological},
	{ID: "A.8.20", Title: "Networks security", Domain: DomainTechnological},
	{ID: "A.8.21", Title: "Security of network services", Domain: DomainTechnological},
	{ID: "A.8.22", Title: "Segregation of networks", Domain: DomainTechnological},
	{ID: "A.8.23", Title: "Web filtering", Domain: DomainTechnological},
	{ID: "A.8.24", Title: "Use of cryptography", Domain: DomainTechnological},
	{ID: "A.8.25", Title: "Secure development life cycle", Domain: DomainTechnological},
	{ID: "A.8.26", Title: "Application security requirements", Domain: DomainTechnological},
	{ID: "A.8.27", Title: "Secure system architecture and engineering principles", Domain: DomainTechnological},
	{ID: "A.8.28", Title: "Secure coding", Domain: DomainTechnological},
	{ID: "A.8.29", Title: "Security testing in development and acceptance", Domain: DomainTechnological},
	{ID: "A.8.30", Title: "Outsourced development", Domain: DomainTechnological},
	{ID: "A.8.31", Title: "Separation of development, test and production environments", Domain: DomainTechnological},
	{ID: "A.8.32", Title: "Change management", Domain: DomainTechnological},
	{ID: "A.8.33", Title: "Test information", Domain: DomainTechnological},
	{ID: "A.8.34", Title: "Protection of information systems during audit testing", Domain: DomainTechnological},
}
