package cli

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"job-board/internal/model"
)

const aboutCompanyWords = 100

// truncateWords keeps the first n space-separated words and appends "..."
// when anything was cut.
func truncateWords(s string, n int) string {
	if n <= 0 {
		return ""
	}
	words := strings.Split(s, " ")
	if len(words) <= n {
		return s
	}
	out := strings.Join(words[:n], " ")
	if len(out) < len(s) {
		out += "..."
	}
	return out
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatSalary(job model.Job) string {
	cur := strings.TrimSpace(job.SalaryCurrencyCode)
	suffix := ""
	if cur != "" {
		suffix = " " + cur
	}
	switch {
	case job.MinJdSalary != nil && job.MaxJdSalary != nil:
		return formatAmount(*job.MinJdSalary) + " - " + formatAmount(*job.MaxJdSalary) + suffix
	case job.MinJdSalary != nil:
		return "from " + formatAmount(*job.MinJdSalary) + suffix
	case job.MaxJdSalary != nil:
		return "up to " + formatAmount(*job.MaxJdSalary) + suffix
	default:
		return "not disclosed"
	}
}

func formatExperience(years int) string {
	if years == 1 {
		return "1 year"
	}
	return strconv.Itoa(years) + " years"
}

// jobListLine is the one-row summary used by the list panel and `list`.
func jobListLine(job model.Job) string {
	parts := []string{defaultIfEmpty(job.CompanyName, "(unknown company)")}
	if role := strings.TrimSpace(job.JobRole); role != "" {
		parts = append(parts, role)
	}
	if loc := strings.TrimSpace(job.Location); loc != "" {
		parts = append(parts, loc)
	}
	return strings.Join(parts, " | ")
}

func renderJobCard(job model.Job, width int) string {
	inner := max(width-4, 10)
	lines := []string{
		boardTitleStyle.Render(wrapOrTrim(defaultIfEmpty(job.CompanyName, "(unknown company)"), inner)),
		wrapOrTrim(strings.ToUpper(defaultIfEmpty(job.JobRole, "-")), inner),
		wrapOrTrim(defaultIfEmpty(job.Location, "-"), inner),
		"",
		wrapOrTrim(kv("Estimated Salary", formatSalary(job)), inner),
		wrapOrTrim(kv("Minimum Experience", formatExperience(job.MinExp)), inner),
		wrapOrTrim(kv("Remote", yesNo(job.IsRemote)), inner),
		wrapOrTrim(kv("Tech Stack", defaultIfEmpty(job.TechStack, "-")), inner),
		"",
		"About Company:",
	}
	about := truncateWords(strings.TrimSpace(job.JobDetailsFromCompany), aboutCompanyWords)
	if about == "" {
		lines = append(lines, boardMutedStyle.Render("(no description)"))
	} else {
		lines = append(lines, lipgloss.NewStyle().Width(inner).Render(about))
	}
	lines = append(lines, "")
	if logo := strings.TrimSpace(job.LogoURL); logo != "" {
		lines = append(lines, boardMutedStyle.Render(wrapOrTrim(kv("Logo", logo), inner)))
	}
	if link := strings.TrimSpace(job.JdLink); link != "" {
		lines = append(lines, wrapOrTrim(kv("Apply", link), inner))
	}
	return boardPanelStyle.Width(width).Render(strings.Join(lines, "\n"))
}
