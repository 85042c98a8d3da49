package model

// Job is one posting as received from the listing endpoint. Jobs are never
// mutated after receipt; the feed only ever appends new ones.
type Job struct {
	JdUID                 string   `json:"jdUid" validate:"required"`
	JdLink                string   `json:"jdLink,omitempty"`
	CompanyName           string   `json:"companyName"`
	JobRole               string   `json:"jobRole"`
	Location              string   `json:"location"`
	LogoURL               string   `json:"logoUrl"`
	JobDetailsFromCompany string   `json:"jobDetailsFromCompany"`
	MinExp                int      `json:"minExp"`
	MinJdSalary           *float64 `json:"minJdSalary"`
	MaxJdSalary           *float64 `json:"maxJdSalary"`
	SalaryCurrencyCode    string   `json:"salaryCurrencyCode"`
	IsRemote              bool     `json:"isRemote"`
	TechStack             string   `json:"techStack"`
}

// Page is one limit/offset batch. Received counts the records the server
// sent, before invalid ones were dropped from Jobs; zero marks the end of data.
type Page struct {
	Jobs       []Job `json:"jobs"`
	Received   int   `json:"received"`
	TotalCount int   `json:"total_count,omitempty"`
}

// Pagination is the view model's fetch state.
type Pagination struct {
	Phase       Phase `json:"phase"`
	CurrentPage int   `json:"current_page"`
	IsLoading   bool  `json:"is_loading"`
	IsFetching  bool  `json:"is_fetching"`
	Err         error `json:"-"`
}
