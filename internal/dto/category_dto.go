package dto

type CategoryItem struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

type CategoryListResponse struct {
	Items []CategoryItem `json:"items"`
	Total int64          `json:"total"`
}

type CategoryResponse struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	Description    *string `json:"description"`
	IndicatorCount int64   `json:"indicatorCount"`
}
