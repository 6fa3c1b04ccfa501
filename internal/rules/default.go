package rules

import "leasewarden/internal/model"

// Builtin returns the default Dubai tenancy rule table. Order matters: the
// matcher reports findings in declaration order, so the hardest violations
// come first.
func Builtin() []Rule {
	return []Rule{
		{
			Label:          "eviction_without_notice",
			Severity:       model.SeverityHigh,
			Pattern:        `evict\s+the\s+tenant\s+at\s+any\s+time|evict[^.\n]{0,60}without\s+(?:prior\s+|written\s+)*notice`,
			Suggestion:     "Eviction is only possible on the grounds and notice periods set out in the tenancy law.",
			LegalReference: "Law 33/2008, Art. 25",
		},
		{
			Label:          "unilateral_termination",
			Severity:       model.SeverityHigh,
			Pattern:        `landlord\s+may\s+terminate\s+(?:this\s+|the\s+)?(?:agreement|lease|contract|tenancy)\s+at\s+any\s+time`,
			Suggestion:     "A tenancy contract cannot be terminated unilaterally during its term.",
			LegalReference: "Law 26/2007, Art. 7",
		},
		{
			Label:          "arbitrary_rent_increase",
			Severity:       model.SeverityHigh,
			Pattern:        `(?:increase|raise)\s+the\s+rent\s+at\s+(?:his|her|its|their)\s+(?:sole\s+)?discretion|rent\s+may\s+be\s+(?:increased|raised)\s+at\s+any\s+time`,
			Suggestion:     "Rent increases are capped by the rental index slabs; discretionary increases are void.",
			LegalReference: "Decree 43/2013",
		},
		{
			Label:          "tenant_waives_rights",
			Severity:       model.SeverityHigh,
			Pattern:        `tenant\s+(?:hereby\s+)?waives?\s+(?:any\s+|all\s+)?(?:of\s+)?(?:his|her|their)?\s*(?:statutory\s+)?rights?`,
			Suggestion:     "Statutory tenant protections cannot be waived by contract.",
			LegalReference: "Law 26/2007, Art. 6",
		},
		{
			Label:          "non_refundable_deposit",
			Severity:       model.SeverityMedium,
			Pattern:        `non[-\s]?refundable\s+(?:security\s+)?deposit`,
			Suggestion:     "The security deposit must be refundable at the end of the tenancy, less documented damage.",
			LegalReference: "Law 26/2007, Art. 20",
		},
		{
			Label:          "tenant_pays_all_maintenance",
			Severity:       model.SeverityMedium,
			Pattern:        `tenant\s+(?:shall|will|must)\s+(?:bear|pay(?:\s+for)?|be\s+responsible\s+for)\s+all\s+(?:major\s+)?(?:maintenance|repairs)`,
			Suggestion:     "Major maintenance is the landlord's obligation unless the parties agree otherwise in writing.",
			LegalReference: "Law 26/2007, Art. 16",
		},
		{
			Label:          "entry_without_permission",
			Severity:       model.SeverityMedium,
			Pattern:        `landlord\s+may\s+enter\s+the\s+(?:premises|property|unit)\s+at\s+any\s+time`,
			Suggestion:     "Landlord entry requires the tenant's prior permission except in emergencies.",
			LegalReference: "Law 26/2007, Art. 21",
		},
		{
			Label:          "punitive_late_fees",
			Severity:       model.SeverityLow,
			Pattern:        `(?:penalty|fine)\s+of\s+\d+\s*%\s*(?:per|each)\s+(?:day|week)|compound(?:ed|ing)?\s+interest`,
			Suggestion:     "Escalating daily penalties are commonly struck down; agree a fixed, reasonable late fee.",
			LegalReference: "Law 26/2007",
		},
		{
			Label:          "notice_period_stated",
			Severity:       model.SeverityGood,
			Pattern:        `ninety\s*(?:\(\s*90\s*\))?[-\s]?days?'?\s+(?:prior\s+|written\s+)*notice|90\s+days?'?\s+(?:prior\s+|written\s+)*notice`,
			Suggestion:     "",
			LegalReference: "Law 33/2008, Art. 14",
		},
		{
			Label:          "deposit_refund_stated",
			Severity:       model.SeverityGood,
			Pattern:        `deposit\s+(?:shall|will)\s+be\s+(?:refunded|returned)`,
			Suggestion:     "",
			LegalReference: "Law 26/2007, Art. 20",
		},
		{
			Label:          "landlord_maintenance_stated",
			Severity:       model.SeverityGood,
			Pattern:        `landlord\s+(?:shall|will)\s+(?:carry\s+out|be\s+responsible\s+for|undertake)\s+(?:the\s+)?(?:maintenance|repairs)`,
			Suggestion:     "",
			LegalReference: "Law 26/2007, Art. 16",
		},
	}
}
