package checklists_models

import "gorm.io/datatypes"

// DefaultFormData is the blank property records checklist. Keys match the
// fields the client renders and prints.
func DefaultFormData(propertyAddress string) datatypes.JSONMap {
	return datatypes.JSONMap{
		"propertyAddress":       propertyAddress,
		"homesteadExemption":    false,
		"veteransExemption":     false,
		"treeGrowthExemption":   false,
		"noExemptions":          false,
		"homesteadAmount":       "",
		"veteransAmount":        "",
		"treeGrowthAmount":      "",
		"propertyDataCard":      false,
		"taxMap":                false,
		"dateVisited":           "",
		"currentZoning":         "",
		"zoningOverlay":         "",
		"floodZone":             "",
		"conformsToZoning":      "",
		"dwellingUnits":         "",
		"septicInShoreland":     "",
		"permitsDescription":    "",
		"codeEnforcementDocs":   false,
		"zoneOverlays":          false,
		"recordedSurvey":        false,
		"easements":             false,
		"associationDocs":       false,
		"associationFinancials": false,
		"condoCertificate":      false,
		"septicDesign":          false,
		"completedBy":           "",
	}
}
