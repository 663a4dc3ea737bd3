package dto

type CreateMedicationRecordRequest struct {
	Name        string  `json:"name"`
	GenericName *string `json:"genericName"`
	Spec        *string `json:"spec"`
	Unit        *string `json:"unit"`
	StartDate   *string `json:"startDate"`
	Dose        *string `json:"dose"`
	Frequency   *string `json:"frequency"`
	Route       *string `json:"route"`
	Purpose     *string `json:"purpose"`
	Notes       *string `json:"notes"`
}

type UpdateMedicationRecordRequest struct {
	EndDate   *string `json:"endDate"`
	Dose      *string `json:"dose"`
	Frequency *string `json:"frequency"`
	Route     *string `json:"route"`
	Purpose   *string `json:"purpose"`
	Notes     *string `json:"notes"`
	IsCurrent *bool   `json:"isCurrent"`
}

type MedicationRecordItem struct {
	ID           uint    `json:"id"`
	MedicationID uint    `json:"medicationId"`
	Name         string  `json:"name"`
	GenericName  *string `json:"genericName"`
	Spec         *string `json:"spec"`
	Unit         *string `json:"unit"`
	StartDate    *string `json:"startDate"`
	EndDate      *string `json:"endDate"`
	Dose         *string `json:"dose"`
	Frequency    *string `json:"frequency"`
	Route        *string `json:"route"`
	Purpose      *string `json:"purpose"`
	Notes        *string `json:"notes"`
	IsCurrent    bool    `json:"isCurrent"`
}

type MedicationRecordListResponse struct {
	Items []MedicationRecordItem `json:"items"`
	Total int64                  `json:"total"`
}
