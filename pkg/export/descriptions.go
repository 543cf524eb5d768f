package export

import (
	"fmt"
	"io"
	"sort"
	"time"
)

// displayDate renders a YYYY-MM-DD date for humans, e.g. "Monday, June 02, 2025".
func displayDate(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return d.Format("Monday, January 02, 2006")
}

// WriteMentorDescription writes the per-mentor markdown welcome file listing
// the companies the mentor meets and when.
func WriteMentorDescription(w io.Writer, mentor, date string, rows []Row) error {
	meetings := filterMentor(rows, mentor)
	if _, err := fmt.Fprintf(w, "# Welcome to Mentor Magic %s!\n\n", mentor); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "## Your Schedule for %s\n\n", displayDate(date)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "You're meeting these companies today:\n\n"); err != nil {
		return err
	}
	for _, r := range meetings {
		if _, err := fmt.Fprintf(w, "- **%s** at %s\n", r.Company, r.Start.Format("15:04")); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n\nThank you for participating in Mentor Magic! Your expertise and guidance are invaluable to our companies.\n")
	return err
}

// WriteMasterDescription writes the all-mentors markdown file for one date,
// mentors sorted alphabetically.
func WriteMasterDescription(w io.Writer, date string, rows []Row) error {
	if _, err := fmt.Fprintf(w, "# Mentor Magic Schedule - %s\n\n", displayDate(date)); err != nil {
		return err
	}
	for _, mentor := range mentorNames(rows) {
		if _, err := fmt.Fprintf(w, "## %s\n\n", mentor); err != nil {
			return err
		}
		meetings := filterMentor(rows, mentor)
		if len(meetings) == 0 {
			if _, err := io.WriteString(w, "No scheduled meetings for today.\n\n"); err != nil {
				return err
			}
			continue
		}
		for _, r := range meetings {
			if _, err := fmt.Fprintf(w, "- **%s** at %s\n", r.Company, r.Start.Format("15:04")); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteFounderDescription writes the per-company markdown welcome file listing
// the mentors the company meets and when. The lookbook reminder is included
// when a lookbook URL is configured.
func WriteFounderDescription(w io.Writer, company, date string, rows []Row, lookbookURL string) error {
	meetings := filterCompany(rows, company)
	if _, err := fmt.Fprintf(w, "# Welcome to Mentor Magic %s!\n\n", company); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "## Your Schedule for %s\n\n", displayDate(date)); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "You're meeting these mentors today:\n\n"); err != nil {
		return err
	}
	for _, r := range meetings {
		if _, err := fmt.Fprintf(w, "- **%s** at %s\n", r.Mentor, r.Start.Format("15:04")); err != nil {
			return err
		}
	}
	if lookbookURL != "" {
		if _, err := fmt.Fprintf(w, "\n\nAs a reminder you can view all of the companies' information in the lookbooks here: %s\n", lookbookURL); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\nThank you for participating in Mentor Magic! We're excited to connect you with our amazing mentors.\n")
	return err
}

// WriteAllFoundersDescription writes the all-companies markdown file for one
// date, companies sorted alphabetically.
func WriteAllFoundersDescription(w io.Writer, date string, rows []Row) error {
	if _, err := fmt.Fprintf(w, "# All Founder Schedules for Mentor Magic\n\n## %s\n\n", displayDate(date)); err != nil {
		return err
	}
	for _, company := range companyNames(rows) {
		if _, err := fmt.Fprintf(w, "### %s\n\n", company); err != nil {
			return err
		}
		for _, r := range filterCompany(rows, company) {
			if _, err := fmt.Fprintf(w, "- **%s** at %s\n", r.Mentor, r.Start.Format("15:04")); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n---\n\n"); err != nil {
			return err
		}
	}
	return nil
}

func filterMentor(rows []Row, mentor string) []Row {
	var out []Row
	for _, r := range rows {
		if r.Mentor == mentor {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func filterCompany(rows []Row, company string) []Row {
	var out []Row
	for _, r := range rows {
		if r.Company == company {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func mentorNames(rows []Row) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, r := range rows {
		if _, ok := seen[r.Mentor]; !ok {
			seen[r.Mentor] = struct{}{}
			names = append(names, r.Mentor)
		}
	}
	sort.Strings(names)
	return names
}

func companyNames(rows []Row) []string {
	seen := make(map[string]struct{})
	var names []string
	for _, r := range rows {
		if _, ok := seen[r.Company]; !ok {
			seen[r.Company] = struct{}{}
			names = append(names, r.Company)
		}
	}
	sort.Strings(names)
	return names
}

// SafeFilename converts a display name into a filesystem-safe file stem.
func SafeFilename(name string) string {
	out := []rune(name)
	for i, r := range out {
		switch r {
		case ' ', '/', '\\':
			out[i] = '_'
		}
	}
	return string(out)
}
