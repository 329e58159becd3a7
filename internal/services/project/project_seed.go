package project

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type demoProject struct {
	title, description, county string
	status                     Status
	progress                   int
	budget, lat, long          string
	start, end                 string
}

var demoProjects = []demoProject{
	{"Nairobi Road Rehabilitation", "Resurfacing and drainage fixes on major urban roads.", "Nairobi", StatusOngoing, 45, "250000000.00", "-1.286389", "36.817223", "2025-09-01", "2026-06-30"},
	{"Mombasa Water Pipeline Upgrade", "Replace old pipes to reduce leaks and improve pressure.", "Mombasa", StatusOngoing, 30, "180000000.00", "-4.043477", "39.668206", "2025-10-15", "2026-09-30"},
	{"Kisumu Street Lighting (Solar)", "Install solar street lights in key public areas.", "Kisumu", StatusPlanned, 0, "60000000.00", "-0.091702", "34.767956", "2026-02-01", "2026-07-31"},
	{"Nakuru Waste Management Improvement", "Improve collection routes, bins, and sorting points.", "Nakuru", StatusOngoing, 60, "90000000.00", "-0.303099", "36.080026", "2025-08-20", "2026-03-15"},
	{"Eldoret Public Park Revamp", "Upgrade paths, playground equipment, and lighting.", "Uasin Gishu", StatusCompleted, 100, "45000000.00", "0.514277", "35.269780", "2025-01-10", "2025-05-30"},
	{"Machakos Market Drainage Upgrade", "Drainage channels to reduce flooding near market areas.", "Machakos", StatusOngoing, 25, "75000000.00", "-1.516667", "37.266667", "2025-11-01", "2026-08-31"},
	{"Nyeri Rural Health Center Renovation", "Renovate wards and improve utilities for service delivery.", "Nyeri", StatusPlanned, 0, "55000000.00", "-0.416667", "36.950000", "2026-03-01", "2026-10-15"},
	{"Kakamega School Connectivity Program", "Internet + computer lab upgrades for selected schools.", "Kakamega", StatusStalled, 15, "40000000.00", "0.284000", "34.752000", "2025-07-01", "2026-01-31"},
	{"Garissa Borehole Drilling Initiative", "Drill and equip boreholes to improve access to clean water.", "Garissa", StatusOngoing, 55, "120000000.00", "-0.456944", "39.658333", "2025-06-15", "2026-04-30"},
	{"Lodwar Flood Control (Seasonal Riverworks)", "Riverbank reinforcement and channels to reduce flooding.", "Turkana", StatusOngoing, 35, "160000000.00", "3.119000", "35.597000", "2025-09-20", "2026-12-15"},
}

func (d demoProject) input() *ProjectInput {
	return &ProjectInput{
		Title:       Some(d.title),
		Description: Some(d.description),
		County:      Some(d.county),
		Status:      Some(d.status),
		Progress:    Some(d.progress),
		Budget:      Some(decimal.RequireFromString(d.budget)),
		Latitude:    Some(decimal.RequireFromString(d.lat)),
		Longitude:   Some(decimal.RequireFromString(d.long)),
		StartDate:   Some(mustDate(d.start)),
		EndDate:     Some(mustDate(d.end)),
	}
}

func mustDate(raw string) Date {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		panic(err)
	}
	return Date{t}
}

// SeedDemo creates the demo projects whose titles are not taken yet.
func (s *ProjectService) SeedDemo(ctx context.Context) (created, skipped int, err error) {
	for _, demo := range demoProjects {
		matches, err := s.repo.List(ctx, ListFilter{Search: demo.title})
		if err != nil {
			return created, skipped, err
		}

		if hasTitle(matches, demo.title) {
			skipped++
			continue
		}

		if _, err := s.Create(ctx, demo.input()); err != nil {
			return created, skipped, err
		}
		created++
	}

	return created, skipped, nil
}

func hasTitle(projects []*Project, title string) bool {
	for _, p := range projects {
		if p.Title == title {
			return true
		}
	}
	return false
}
