// Package report composes department-specific structured reports from the
// canonical profile, the risk synthesis, and raw evidence.
package report

import "strings"

// Department identifies the audience a report is composed for.
type Department string

const (
	DeptOSINT       Department = "osint"
	DeptThreatIntel Department = "threat-intel"
	DeptPentest     Department = "pentesting"
	DeptMalware     Department = "malware"
)

// ResolveDepartment maps a free-form department key to one of the four
// supported audiences. Matching is case-insensitive and accepts the aliases
// the UI has historically sent. Unrecognized keys silently fall back to
// OSINT, preserving the observed upstream behavior.
func ResolveDepartment(key string) Department {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "threat-intel", "threat intel", "threat_intel":
		return DeptThreatIntel
	case "pentesting":
		return DeptPentest
	case "malware", "malware-rev", "malware and rev", "malware & rev", "reverse", "reverse engineering":
		return DeptMalware
	default:
		return DeptOSINT
	}
}

// DisplayName returns the human-readable department title used in report
// metadata and headers.
func (d Department) DisplayName() string {
	switch d {
	case DeptThreatIntel:
		return "Threat Intelligence"
	case DeptPentest:
		return "Pentesting"
	case DeptMalware:
		return "Malware & Reverse Engineering"
	default:
		return "OSINT"
	}
}
