package catalog

// Item is one entry in a static reference catalog: an objective, an operating
// procedure, a training program, a campaign, or a competence area. Items ship
// in source (or arrive via extensions) and are never persisted; only a
// Selection over their ids is.
type Item struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// ItemByID finds an item in a catalog slice.
func ItemByID(items []Item, id string) (Item, bool) {
	for _, item := range items {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}

// Objectives returns the information security objective catalog, built-ins
// plus extension items.
func Objectives() []Item {
	return withExtras(builtinObjectives, &extraObjectives)
}

func builtinObjectives() []Item {
	return []Item{
		{ID: "OBJ-001", Name: "Maintain confidentiality of customer data", Description: "Zero unauthorized disclosures of customer-classified information per review period."},
		{ID: "OBJ-002", Name: "Ensure service availability", Description: "Keep in-scope service availability at or above the contractual SLA."},
		{ID: "OBJ-003", Name: "Reduce incident response time", Description: "Contain priority-1 security incidents within the documented response target."},
		{ID: "OBJ-004", Name: "Remediate technical vulnerabilities promptly", Description: "Close critical vulnerabilities within the patching window defined in the vulnerability management procedure."},
		{ID: "OBJ-005", Name: "Achieve security awareness coverage", Description: "All staff complete the awareness program annually."},
		{ID: "OBJ-006", Name: "Control supplier security risk", Description: "All critical suppliers assessed against security requirements before onboarding."},
		{ID: "OBJ-007", Name: "Protect data in transit and at rest", Description: "Approved cryptography applied to all classified data flows and stores."},
		{ID: "OBJ-008", Name: "Maintain business continuity readiness", Description: "ICT continuity plans tested at least annually with documented results."},
		{ID: "OBJ-009", Name: "Enforce least-privilege access", Description: "Quarterly access reviews with all exceptions remediated or accepted."},
		{ID: "OBJ-010", Name: "Sustain compliance with legal obligations", Description: "No overdue statutory, regulatory, or contractual security findings."},
	}
}

// Procedures returns the security operating procedure catalog, built-ins
// plus extension items.
func Procedures() []Item {
	return withExtras(builtinProcedures, &extraProcedures)
}

func builtinProcedures() []Item {
	return []Item{
		{ID: "SOP-001", Name: "Access Control Procedure", Description: "Granting, reviewing, and revoking logical access."},
		{ID: "SOP-002", Name: "Incident Response Procedure", Description: "Detection, triage, containment, eradication, and lessons learned."},
		{ID: "SOP-003", Name: "Vulnerability Management Procedure", Description: "Scanning, prioritization, patching windows, and exception handling."},
		{ID: "SOP-004", Name: "Change Management Procedure", Description: "Risk-assessed, approved, and logged changes to production systems."},
		{ID: "SOP-005", Name: "Backup and Restore Procedure", Description: "Backup schedules, retention, and periodic restore verification."},
		{ID: "SOP-006", Name: "Secure Development Procedure", Description: "Secure coding, review, and release gates for in-house software."},
		{ID: "SOP-007", Name: "Supplier Security Procedure", Description: "Security assessment and contractual controls for suppliers."},
		{ID: "SOP-008", Name: "Asset Handling Procedure", Description: "Classification, labelling, transfer, and disposal of information assets."},
		{ID: "SOP-009", Name: "Physical Access Procedure", Description: "Badging, visitor management, and secure-area entry control."},
		{ID: "SOP-010", Name: "Logging and Monitoring Procedure", Description: "Log collection, retention, review cadence, and alert escalation."},
	}
}

// TrainingPrograms returns the training program catalog, built-ins plus
// extension items.
func TrainingPrograms() []Item {
	return withExtras(builtinTrainingPrograms, &extraTraining)
}

func builtinTrainingPrograms() []Item {
	return []Item{
		{ID: "TRN-001", Name: "Security Awareness Essentials", Description: "Annual all-staff awareness training covering policy, phishing, and reporting."},
		{ID: "TRN-002", Name: "Secure Configuration and Patching", Description: "Technical training for operations staff on hardening and vulnerability remediation."},
		{ID: "TRN-003", Name: "Incident Response Drills", Description: "Tabletop and live exercises for the incident response team."},
		{ID: "TRN-004", Name: "Secure Development Training", Description: "OWASP-aligned training for engineers shipping in-scope software."},
		{ID: "TRN-005", Name: "Data Protection and Privacy", Description: "Handling personal data lawfully across its lifecycle."},
		{ID: "TRN-006", Name: "Leadership and Risk Ownership", Description: "Risk acceptance, reporting duties, and governance for managers."},
	}
}

// TrainingCampaigns returns the built-in awareness campaign catalog.
func TrainingCampaigns() []Item {
	return []Item{
		{ID: "CMP-001", Name: "Phishing Simulation", Description: "Quarterly simulated phishing with targeted follow-up training."},
		{ID: "CMP-002", Name: "Clean Desk Month", Description: "Awareness push on physical information handling."},
		{ID: "CMP-003", Name: "Password and MFA Drive", Description: "Campaign promoting password manager and MFA enrolment."},
		{ID: "CMP-004", Name: "Report-It Week", Description: "Encouraging near-miss and event reporting."},
	}
}

// CompetenceAreas returns the built-in competence requirement catalog.
func CompetenceAreas() []Item {
	return []Item{
		{ID: "COM-001", Name: "ISMS Internal Auditing", Description: "Competence to plan and perform internal ISMS audits."},
		{ID: "COM-002", Name: "Risk Assessment Facilitation", Description: "Competence to run and document risk assessments."},
		{ID: "COM-003", Name: "Incident Handling", Description: "Competence to coordinate and execute incident response."},
		{ID: "COM-004", Name: "Cloud Security Engineering", Description: "Competence to secure the in-scope cloud estate."},
	}
}
