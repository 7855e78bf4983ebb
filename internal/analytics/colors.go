package analytics

// Fixed category palette. Categories keep the same color across renders so
// chart legends never reshuffle for unchanged data.
var categoryColors = map[string]string{
	// Debit categories
	"Food & Dining":           "rgba(239, 68, 68, 0.7)",
	"Transport":               "rgba(59, 130, 246, 0.7)",
	"Shopping":                "rgba(168, 85, 247, 0.7)",
	"Bills & Utilities":       "rgba(16, 185, 129, 0.7)",
	"Education / Learning":    "rgba(20, 184, 166, 0.7)",
	"Household and Transfers": "rgba(220, 38, 38, 0.7)",
	"Entertainment":           "rgba(244, 114, 182, 0.7)",
	"Health":                  "rgba(234, 179, 8, 0.7)",
	"Miscellaneous":           "rgba(156, 163, 175, 0.7)",

	// Credit categories
	"Salary":            "rgba(16, 185, 129, 0.7)",
	"Freelance":         "rgba(20, 184, 166, 0.7)",
	"Refunds/Cashbacks": "rgba(99, 102, 241, 0.7)",
	"Other Income":      "rgba(132, 204, 22, 0.7)",
}

const (
	defaultCreditColor = "rgba(132, 204, 22, 0.7)"
	defaultDebitColor  = "rgba(156, 163, 175, 0.7)"
)

func categoryColor(category string, isCredit bool) string {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	if isCredit {
		return defaultCreditColor
	}
	return defaultDebitColor
}
