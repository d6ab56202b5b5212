package models

type SearchMetadata struct {
	TotalResults     int      `json:"total_results"`
	RegionsQueried   int      `json:"regions_queried"`
	RegionsSucceeded int      `json:"regions_succeeded"`
	RegionsFailed    int      `json:"regions_failed"`
	FailedRegions    []string `json:"failed_regions,omitempty"`
	SearchTimeMs     int64    `json:"search_time_ms"`
}

type QueryRequest struct {
	Query  string  `json:"query"`
	Device *Device `json:"device,omitempty"`
	IP     string  `json:"ip,omitempty"`
}

type QueryResponse struct {
	Status      string          `json:"status"`
	ParsedQuery StructuredQuery `json:"parsed_query"`
	Regions     []Region        `json:"regions"`
	Metadata    SearchMetadata  `json:"metadata"`
	Results     []FlightResult  `json:"results"`
	Summary     string          `json:"summary,omitempty"`
	SessionID   string          `json:"session_id,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
