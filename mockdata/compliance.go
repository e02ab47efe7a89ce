package mockdata

// ComplianceMetrics are the posture percentages shown on the dashboard's
// compliance panel. The platform does not compute these yet; the values
// below are the fixed placeholders the dashboard renders until the
// compliance reporting service ships.
type ComplianceMetrics struct {
	FICAM         float64 `json:"ficam"`
	FIPS140       float64 `json:"fips_140"`
	HIPAA         float64 `json:"hipaa"`
	FERPA         float64 `json:"ferpa"`
	AuditCoverage float64 `json:"audit_coverage"`
}

// Compliance returns the placeholder compliance figures.
func Compliance() ComplianceMetrics {
	return ComplianceMetrics{
		FICAM:         98.2,
		FIPS140:       100.0,
		HIPAA:         96.5,
		FERPA:         94.8,
		AuditCoverage: 99.1,
	}
}
