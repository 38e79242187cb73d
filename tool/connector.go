package tool

import (
	"context"
	"fmt"

	"github.com/campusops/adminflow/core"
)

// MockConnector serves deterministic record sets for one external system.
// It stands in for the campus LMS/SIS/CRM during development and tests; a
// deployment swaps in HTTP-backed connectors with the same endpoint names.
type MockConnector struct {
	system    string
	endpoints map[string]func(params map[string]string) core.Rows
}

// System implements Connector.
func (c *MockConnector) System() string { return c.system }

// Fetch implements Connector. Unknown endpoints are an error so the
// integration coordinator can explain rather than return an empty set.
func (c *MockConnector) Fetch(ctx context.Context, endpoint string, params map[string]string) (core.Rows, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	gen, ok := c.endpoints[endpoint]
	if !ok {
		return nil, fmt.Errorf("%s has no endpoint %q", c.system, endpoint)
	}
	return gen(params), nil
}

// NewMockLMS serves course, assignment, grade and discussion data.
func NewMockLMS() *MockConnector {
	return &MockConnector{
		system: "lms",
		endpoints: map[string]func(map[string]string) core.Rows{
			"courses": func(map[string]string) core.Rows {
				return core.Rows{
					{"code": "CS101", "title": "Intro to Computing", "students_active": int64(182)},
					{"code": "MATH201", "title": "Linear Algebra", "students_active": int64(96)},
					{"code": "BIO150", "title": "General Biology", "students_active": int64(143)},
				}
			},
			"assignments": func(params map[string]string) core.Rows {
				course := params["course"]
				if course == "" {
					course = "CS101"
				}
				return core.Rows{
					{"course": course, "title": "Problem Set 1", "submitted": int64(171), "missing": int64(11)},
					{"course": course, "title": "Problem Set 2", "submitted": int64(158), "missing": int64(24)},
				}
			},
			"grades": func(map[string]string) core.Rows {
				return core.Rows{
					{"course": "CS101", "average": 84.2, "median": 86.0},
					{"course": "MATH201", "average": 78.9, "median": 80.0},
				}
			},
			"discussions": func(map[string]string) core.Rows {
				return core.Rows{
					{"course": "CS101", "threads": int64(42), "posts": int64(388)},
				}
			},
		},
	}
}

// NewMockSIS serves enrollment, transcript, financial aid and degree
// progress data.
func NewMockSIS() *MockConnector {
	return &MockConnector{
		system: "sis",
		endpoints: map[string]func(map[string]string) core.Rows{
			"enrollment": func(map[string]string) core.Rows {
				return core.Rows{
					{"program": "Computer Science", "enrolled": int64(412)},
					{"program": "Biology", "enrolled": int64(365)},
					{"program": "Economics", "enrolled": int64(298)},
				}
			},
			"transcript": func(params map[string]string) core.Rows {
				student := params["student_id"]
				if student == "" {
					student = "1001"
				}
				return core.Rows{
					{"student_id": student, "course": "CS101", "term": "2025F", "grade": "A-"},
					{"student_id": student, "course": "MATH201", "term": "2025F", "grade": "B+"},
				}
			},
			"financial_aid": func(map[string]string) core.Rows {
				return core.Rows{
					{"aid_type": "grant", "recipients": int64(240), "total_amount": 1220000.0},
					{"aid_type": "loan", "recipients": int64(310), "total_amount": 2455000.0},
					{"aid_type": "scholarship", "recipients": int64(112), "total_amount": 890000.0},
				}
			},
			"degree_progress": func(map[string]string) core.Rows {
				return core.Rows{
					{"program": "Computer Science", "on_track": int64(351), "at_risk": int64(61)},
				}
			},
		},
	}
}

// NewMockCRM serves prospect, alumni, donation and event data.
func NewMockCRM() *MockConnector {
	return &MockConnector{
		system: "crm",
		endpoints: map[string]func(map[string]string) core.Rows{
			"prospects": func(map[string]string) core.Rows {
				return core.Rows{
					{"stage": "inquiry", "count": int64(1840)},
					{"stage": "applied", "count": int64(920)},
					{"stage": "admitted", "count": int64(430)},
				}
			},
			"alumni": func(map[string]string) core.Rows {
				return core.Rows{
					{"graduation_year": int64(2020), "contactable": int64(512)},
					{"graduation_year": int64(2021), "contactable": int64(547)},
				}
			},
			"donations": func(map[string]string) core.Rows {
				return core.Rows{
					{"campaign": "Annual Fund", "donors": int64(1320), "total_amount": 684000.0},
				}
			},
			"events": func(map[string]string) core.Rows {
				return core.Rows{
					{"name": "Homecoming", "registered": int64(2100)},
					{"name": "Spring Gala", "registered": int64(640)},
				}
			},
		},
	}
}

// EndpointCatalog renders the available system/endpoint pairs for composer
// prompt context.
func EndpointCatalog() string {
	return `lms: courses, assignments, grades, discussions
sis: enrollment, transcript, financial_aid, degree_progress
crm: prospects, alumni, donations, events`
}
