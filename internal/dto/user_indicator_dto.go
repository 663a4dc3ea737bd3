package dto

type UpsertUserIndicatorRequest struct {
	IndicatorID  uint     `json:"indicatorId"`
	Alias        *string  `json:"alias"`
	ThresholdMin *float64 `json:"thresholdMin"`
	ThresholdMax *float64 `json:"thresholdMax"`
	Favorite     *bool    `json:"favorite"`
}

type UserIndicatorItem struct {
	ID           uint     `json:"id"`
	IndicatorID  uint     `json:"indicatorId"`
	Alias        *string  `json:"alias"`
	ThresholdMin *float64 `json:"thresholdMin"`
	ThresholdMax *float64 `json:"thresholdMax"`
	Favorite     bool     `json:"favorite"`
	CreatedAt    string   `json:"createdAt"`
}

type UserIndicatorListResponse struct {
	Items []UserIndicatorItem `json:"items"`
	Total int64               `json:"total"`
}
