package edgefn

type tripPlanRequest struct {
	DepartureCity       string     `json:"departureCity"`
	DestinationCity     string     `json:"destinationCity"`
	DepartureLocation   *location  `json:"departureLocation,omitempty"`
	DestinationLocation *location  `json:"destinationLocation,omitempty"`
	DepartureDate       string     `json:"departureDate"`
	ReturnDate          string     `json:"returnDate"`
	Passengers          passengers `json:"passengers"`
	FlightClass         string     `json:"flightClass"`
	IncludeCarRental    bool       `json:"includeCarRental"`
	IncludeHotel        bool       `json:"includeHotel"`
}

type location struct {
	IATACode    string `json:"iataCode"`
	CityName    string `json:"cityName"`
	CountryCode string `json:"countryCode"`
}

type passengers struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
}

// tripPlanResponse picks the cost fields out of the function's trip plan. The
// full payload rides along untouched; only these fields are read client-side.
type tripPlanResponse struct {
	CostBreakdown costBreakdown `json:"costBreakdown"`
	TotalCost     float64       `json:"totalCost"`
	Currency      string        `json:"currency"`
	Nights        int           `json:"nights"`
	Days          int           `json:"days"`
}

type costBreakdown struct {
	Flights       float64 `json:"flights"`
	Accommodation float64 `json:"accommodation"`
	Transport     float64 `json:"transport"`
	Food          float64 `json:"food"`
	Activities    float64 `json:"activities"`
}
