package ipapi

// LookupResponse is the subset of the ipapi.co JSON response we use. Failed
// lookups come back with Error set and a Reason, sometimes with status 200.
type LookupResponse struct {
	IP          string `json:"ip"`
	CountryCode string `json:"country_code"`
	CountryName string `json:"country_name"`
	Timezone    string `json:"timezone"`
	Languages   string `json:"languages"`
	Error       bool   `json:"error"`
	Reason      string `json:"reason"`
}
