package dto

type CreateIndicatorRequest struct {
	NameCN       string   `json:"nameCn"`
	NameEN       *string  `json:"nameEn"`
	Type         *string  `json:"type"`
	Unit         string   `json:"unit"`
	ReferenceMin *float64 `json:"referenceMin"`
	ReferenceMax *float64 `json:"referenceMax"`
	Categories   []string `json:"categories"`
	Loinc        *string  `json:"loinc"`
}

type UpdateIndicatorRequest struct {
	NameCN       *string   `json:"nameCn"`
	NameEN       *string   `json:"nameEn"`
	Type         *string   `json:"type"`
	Unit         *string   `json:"unit"`
	ReferenceMin *float64  `json:"referenceMin"`
	ReferenceMax *float64  `json:"referenceMax"`
	Categories   *[]string `json:"categories"`
	Loinc        *string   `json:"loinc"`
}

// ListIndicatorsQuery collects every filter the indicator list accepts.
type ListIndicatorsQuery struct {
	Page      int
	PageSize  int
	Keyword   string
	Category  string
	StartDate string
	EndDate   string
	Order     string
	Favorites *bool
	Builtin   *bool
	Owner     string
}

// IndicatorListItem is one row of the composed indicator list: catalog
// fields plus the latest matching record and its derived status.
type IndicatorListItem struct {
	ID             uint     `json:"id"`
	NameCN         string   `json:"nameCn"`
	NameEN         *string  `json:"nameEn"`
	Type           string   `json:"type"`
	Value          *string  `json:"value"`
	Unit           string   `json:"unit"`
	ReferenceRange *string  `json:"referenceRange"`
	Status         *string  `json:"status"`
	MeasureDate    *string  `json:"measureDate"`
	Categories     []string `json:"categories"`
	Source         *string  `json:"source"`
	Note           *string  `json:"note"`
	IsBuiltin      bool     `json:"isBuiltin"`
	Loinc          *string  `json:"loinc"`
	Favorite       bool     `json:"favorite"`
}

type IndicatorListResponse struct {
	Items []IndicatorListItem `json:"items"`
	Total int64               `json:"total"`
}

type IndicatorResponse struct {
	ID           uint     `json:"id"`
	NameCN       string   `json:"nameCn"`
	NameEN       *string  `json:"nameEn"`
	Type         string   `json:"type"`
	Unit         string   `json:"unit"`
	ReferenceMin *float64 `json:"referenceMin"`
	ReferenceMax *float64 `json:"referenceMax"`
	IsBuiltin    bool     `json:"isBuiltin"`
	Loinc        *string  `json:"loinc"`
	Categories   []string `json:"categories"`
}

type CreateRecordRequest struct {
	Date            string   `json:"date"`
	Value           string   `json:"value"`
	Unit            string   `json:"unit"`
	ReferenceMin    *float64 `json:"referenceMin"`
	ReferenceMax    *float64 `json:"referenceMax"`
	Source          *string  `json:"source"`
	Note            *string  `json:"note"`
	AdmissionFileID *uint    `json:"admissionFileId"`
}

type UpdateRecordRequest struct {
	Date            *string  `json:"date"`
	Value           *string  `json:"value"`
	Unit            *string  `json:"unit"`
	ReferenceMin    *float64 `json:"referenceMin"`
	ReferenceMax    *float64 `json:"referenceMax"`
	Source          *string  `json:"source"`
	Note            *string  `json:"note"`
	AdmissionFileID *uint    `json:"admissionFileId"`
}

type RecordItem struct {
	RecordID        uint    `json:"recordId"`
	Date            string  `json:"date"`
	Value           string  `json:"value"`
	Unit            string  `json:"unit"`
	Status          *string `json:"status"`
	Source          string  `json:"source"`
	Note            *string `json:"note"`
	AdmissionFileID *uint   `json:"admissionFileId"`
}

type RecordListResponse struct {
	Items []RecordItem `json:"items"`
	Total int64        `json:"total"`
}

type IndicatorDetailResponse struct {
	IndicatorName        string  `json:"indicatorName"`
	IntroductionText     *string `json:"introductionText"`
	MeasurementMethod    *string `json:"measurementMethod"`
	ClinicalSignificance *string `json:"clinicalSignificance"`
	ReferenceRange       *string `json:"referenceRange"`
	Unit                 *string `json:"unit"`
	HighMeaning          *string `json:"highMeaning"`
	LowMeaning           *string `json:"lowMeaning"`
	HighAdvice           *string `json:"highAdvice"`
	LowAdvice            *string `json:"lowAdvice"`
	NormalAdvice         *string `json:"normalAdvice"`
	GeneralAdvice        *string `json:"generalAdvice"`
}

type UpdateDetailRequest struct {
	IntroductionText     *string `json:"introductionText"`
	MeasurementMethod    *string `json:"measurementMethod"`
	ClinicalSignificance *string `json:"clinicalSignificance"`
	ReferenceRange       *string `json:"referenceRange"`
	Unit                 *string `json:"unit"`
	HighMeaning          *string `json:"highMeaning"`
	LowMeaning           *string `json:"lowMeaning"`
	HighAdvice           *string `json:"highAdvice"`
	LowAdvice            *string `json:"lowAdvice"`
	NormalAdvice         *string `json:"normalAdvice"`
	GeneralAdvice        *string `json:"generalAdvice"`
}
