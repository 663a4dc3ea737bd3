package seed

import (
	"encoding/json"
	"strings"

	"github.com/medtrackhq/medtrack-backend/internal/models"
)

// IndicatorsDocument is the builtin indicator dataset shipped with the
// server.
type IndicatorsDocument struct {
	DatasetVersion string           `json:"dataset_version"`
	Indicators     []IndicatorEntry `json:"indicators"`
}

type IndicatorEntry struct {
	NameCN       string       `json:"name_cn"`
	NameEN       *string      `json:"name_en"`
	Unit         string       `json:"unit"`
	Type         *string      `json:"type"`
	ReferenceMin *float64     `json:"reference_min"`
	ReferenceMax *float64     `json:"reference_max"`
	Loinc        *string      `json:"loinc"`
	Detail       *DetailEntry `json:"detail"`
	// Legacy per-indicator category list, superseded by the categories
	// document but still honored.
	Categories []string `json:"categories"`
}

type DetailEntry struct {
	IntroductionText     *string `json:"introduction_text"`
	MeasurementMethod    *string `json:"measurement_method"`
	ClinicalSignificance *string `json:"clinical_significance"`
	HighMeaning          *string `json:"high_meaning"`
	LowMeaning           *string `json:"low_meaning"`
	HighAdvice           *string `json:"high_advice"`
	LowAdvice            *string `json:"low_advice"`
	NormalAdvice         *string `json:"normal_advice"`
	GeneralAdvice        *string `json:"general_advice"`
	Unit                 *string `json:"unit"`
	ReferenceRange       *string `json:"reference_range"`
}

// CategoriesDocument is the category dataset with member lists.
type CategoriesDocument struct {
	DatasetVersion string          `json:"dataset_version"`
	Categories     []CategoryEntry `json:"categories"`
}

type CategoryEntry struct {
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Members     []CategoryMember `json:"members"`
	// Older datasets used "indicators" for the member list.
	Indicators []CategoryMember `json:"indicators"`
}

// MemberList returns whichever member key the document used.
func (c *CategoryEntry) MemberList() []CategoryMember {
	if len(c.Members) > 0 {
		return c.Members
	}
	return c.Indicators
}

// CategoryMember references an indicator either by loinc, by Chinese name,
// or as a bare string resolved against both.
type CategoryMember struct {
	Loinc  *string
	NameCN *string
	Raw    string
}

func (m *CategoryMember) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		m.Raw = s
		return nil
	}
	var obj struct {
		Loinc  *string `json:"loinc"`
		NameCN *string `json:"name_cn"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	m.Loinc = obj.Loinc
	m.NameCN = obj.NameCN
	return nil
}

// InferType derives the value kind when the dataset omits it: units that
// describe no magnitude mark a qualitative indicator.
func InferType(unit string, explicit *string) string {
	if explicit != nil && (*explicit == models.IndicatorTypeNumeric || *explicit == models.IndicatorTypeText) {
		return *explicit
	}
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "qualitative", "n/a", "na", "none":
		return models.IndicatorTypeText
	}
	return models.IndicatorTypeNumeric
}
