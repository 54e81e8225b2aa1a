package model

// Defaults used when a job card does not expose its title or company.
const (
	HiddenTitle   = "hidden title"
	HiddenCompany = "hidden company"
)

// Job is a job card found in the search results.
type Job struct {
	// Index is the zero-based position of the card in the result list.
	Index int `json:"index"`

	// Title is the job title shown on the card.
	Title string `json:"title"`

	// Company is the hiring company shown on the card.
	Company string `json:"company"`

	// Link is the href of the posting, usually "/jobs/view/<id>/...".
	Link string `json:"link"`
}

// NewJob returns a Job with the placeholder title and company set.
func NewJob(index int) Job {
	return Job{Index: index, Title: HiddenTitle, Company: HiddenCompany}
}

// String returns "Title at Company".
func (j Job) String() string {
	return j.Title + " at " + j.Company
}
