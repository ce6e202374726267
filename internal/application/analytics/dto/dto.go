package dto

import (
	"time"

	observationdto "github.com/rahul-raghavan/pep-ops-log/internal/application/observation/dto"
)

// DashboardStats is the landing-page widget data.
type DashboardStats struct {
	ActiveSubjects    int64                                 `json:"active_subjects"`
	ObservationsWeek  int64                                 `json:"observations_this_week"`
	ObservationsTotal int64                                 `json:"observations_total"`
	Recent            []*observationdto.ObservationResponse `json:"recent"`
}

// SubjectAttention flags subjects needing a look: the most observed over
// the window and those with no observations at all.
type SubjectAttention struct {
	MostObserved []SubjectCount `json:"most_observed"`
	NotObserved  []SubjectRef   `json:"not_observed"`
	WindowDays   int            `json:"window_days"`
}

// SubjectCount pairs a subject with its observation count.
type SubjectCount struct {
	Subject SubjectRef `json:"subject"`
	Count   int64      `json:"count"`
}

// SubjectRef is a named subject reference.
type SubjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// InactivityStatus tells a manager how long it has been since they
// logged anything.
type InactivityStatus struct {
	LastLoggedAt *time.Time `json:"last_logged_at"`
	DaysSince    *int       `json:"days_since"`
	ShowReminder bool       `json:"show_reminder"`
}

// CenterCount pairs a center with its observation count over a window.
type CenterCount struct {
	CenterID   string `json:"center_id"`
	CenterName string `json:"center_name"`
	Count      int64  `json:"count"`
}

// TypeCount pairs an observation type with its count over a window.
// Untagged observations are reported under the "untagged" key.
type TypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}

// CenterAnalytics is the admin analytics payload.
type CenterAnalytics struct {
	ByCenter   []CenterCount `json:"by_center"`
	ByType     []TypeCount   `json:"by_type"`
	WindowDays int           `json:"window_days"`
}

// TrendBucket is one week of a subject's observation trend.
type TrendBucket struct {
	WeekStart time.Time      `json:"week_start"`
	Total     int            `json:"total"`
	ByType    map[string]int `json:"by_type"`
}

// SubjectTrends is the last-eight-weeks trend for one subject.
type SubjectTrends struct {
	SubjectID string        `json:"subject_id"`
	Buckets   []TrendBucket `json:"buckets"`
}
