package models

// CourseRecord is one scraped course page, keyed by its source URL.
// Any field other than SourceURL may be empty, meaning the scraper
// could not find it. Empty is never replaced with a fabricated value.
type CourseRecord struct {
	SourceURL          string             `json:"source_url"`
	Cohort             Cohort             `json:"cohort"`
	Batch              Batch              `json:"batch"`
	PaymentOptions     PaymentOptions     `json:"payment_options"`
	Curriculum         Curriculum         `json:"curriculum"`
	MentorsInstructors MentorsInstructors `json:"mentors_instructors"`
	Placements         Placements         `json:"placements"`
	Reviews            Reviews            `json:"reviews"`
}

type Cohort struct {
	CohortName        string `json:"cohort_name"`
	CohortDescription string `json:"cohort_description"`
}

type Batch struct {
	BatchStartDate string `json:"batch_start_date"`
	Cost           string `json:"cost"`
	CourseType     string `json:"course_type"`
}

type PaymentOptions struct {
	EMIOptions []string `json:"emi_options"`
}

type Curriculum struct {
	Curriculum []string `json:"curriculum"`
}

type MentorsInstructors struct {
	Instructors []string `json:"instructors"`
	Mentors     []string `json:"mentors"`
}

type Placements struct {
	PlacementText string `json:"placement_text"`
}

type Reviews struct {
	Reviews []string `json:"reviews"`
}
