package planapi

type planRequest struct {
	Destination string `json:"destination"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Travelers   int    `json:"travelers"`
}

type planResponse struct {
	Flights       float64 `json:"flights"`
	Accommodation float64 `json:"accommodation"`
	Transport     float64 `json:"transport"`
	Food          float64 `json:"food"`
	Activities    float64 `json:"activities"`
	Total         float64 `json:"total"`
	Currency      string  `json:"currency"`
	Nights        int     `json:"nights"`
	Days          int     `json:"days"`
}
