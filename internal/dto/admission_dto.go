package dto

type CreateAdmissionRequest struct {
	Hospital      string   `json:"hospital"`
	Department    *string  `json:"department"`
	Diagnosis     *string  `json:"diagnosis"`
	AdmissionDate string   `json:"admissionDate"`
	DischargeDate *string  `json:"dischargeDate"`
	Tags          []string `json:"tags"`
	Notes         *string  `json:"notes"`
}

type AdmissionItem struct {
	ID            uint     `json:"id"`
	FolderID      uint     `json:"folderId"`
	Hospital      string   `json:"hospital"`
	Department    *string  `json:"department"`
	Diagnosis     *string  `json:"diagnosis"`
	AdmissionDate string   `json:"admissionDate"`
	DischargeDate *string  `json:"dischargeDate"`
	Tags          []string `json:"tags"`
	Notes         *string  `json:"notes"`
}

type AdmissionListResponse struct {
	Items []AdmissionItem `json:"items"`
	Total int64           `json:"total"`
}

type AddAdmissionFileRequest struct {
	Filename string  `json:"filename"`
	URL      *string `json:"url"`
	Pages    *int    `json:"pages"`
}

type AdmissionFileResponse struct {
	ID         uint    `json:"id"`
	Filename   string  `json:"filename"`
	StorageKey string  `json:"storageKey"`
	URL        *string `json:"url"`
	Pages      *int    `json:"pages"`
	UploadedAt *string `json:"uploadedAt"`
}
