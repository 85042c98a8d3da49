// Package filter narrows the accumulated job list to what the user asked for.
package filter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"job-board/internal/model"
)

// Criteria holds one value per filter dimension as the user typed it. The zero
// value filters nothing.
type Criteria struct {
	MinExperience string `json:"min_experience,omitempty"`
	CompanyName   string `json:"company_name,omitempty"`
	Location      string `json:"location,omitempty"`
	RemoteOnly    bool   `json:"remote_only,omitempty"`
	TechStack     string `json:"tech_stack,omitempty"`
	Role          string `json:"role,omitempty"`
	MinBasePay    string `json:"min_base_pay,omitempty"`
}

// Matches reports whether job satisfies every active criterion.
func Matches(job model.Job, c Criteria) bool {
	if n, ok := parseMinExperience(c.MinExperience); ok && job.MinExp < n {
		return false
	}
	if !containsFold(job.CompanyName, c.CompanyName) {
		return false
	}
	if !containsFold(job.Location, c.Location) {
		return false
	}
	if c.RemoteOnly && !job.IsRemote {
		return false
	}
	if !containsFold(job.TechStack, c.TechStack) {
		return false
	}
	if !containsFold(job.JobRole, c.Role) {
		return false
	}
	if floor, ok := parseMinBasePay(c.MinBasePay); ok {
		if job.MinJdSalary == nil || *job.MinJdSalary < floor {
			return false
		}
	}
	return true
}

// Apply returns the jobs that match c, preserving order. It never modifies
// the input slice.
func Apply(jobs []model.Job, c Criteria) []model.Job {
	out := make([]model.Job, 0, len(jobs))
	for _, job := range jobs {
		if Matches(job, c) {
			out = append(out, job)
		}
	}
	return out
}

// IsZero reports whether c imposes no constraint at all.
func (c Criteria) IsZero() bool {
	return len(c.Split()) == 0
}

// Split returns one single-field Criteria per active field. Numeric fields
// that do not parse are not active.
func (c Criteria) Split() []Criteria {
	out := []Criteria{}
	if _, ok := parseMinExperience(c.MinExperience); ok {
		out = append(out, Criteria{MinExperience: c.MinExperience})
	}
	if strings.TrimSpace(c.CompanyName) != "" {
		out = append(out, Criteria{CompanyName: c.CompanyName})
	}
	if strings.TrimSpace(c.Location) != "" {
		out = append(out, Criteria{Location: c.Location})
	}
	if c.RemoteOnly {
		out = append(out, Criteria{RemoteOnly: true})
	}
	if strings.TrimSpace(c.TechStack) != "" {
		out = append(out, Criteria{TechStack: c.TechStack})
	}
	if strings.TrimSpace(c.Role) != "" {
		out = append(out, Criteria{Role: c.Role})
	}
	if _, ok := parseMinBasePay(c.MinBasePay); ok {
		out = append(out, Criteria{MinBasePay: c.MinBasePay})
	}
	return out
}

// Summary renders the active criteria as "key=value" pairs for status lines.
func (c Criteria) Summary() string {
	parts := []string{}
	if n, ok := parseMinExperience(c.MinExperience); ok {
		parts = append(parts, fmt.Sprintf("exp>=%d", n))
	}
	if v := strings.TrimSpace(c.CompanyName); v != "" {
		parts = append(parts, "company="+v)
	}
	if v := strings.TrimSpace(c.Location); v != "" {
		parts = append(parts, "location="+v)
	}
	if c.RemoteOnly {
		parts = append(parts, "remote")
	}
	if v := strings.TrimSpace(c.TechStack); v != "" {
		parts = append(parts, "stack="+v)
	}
	if v := strings.TrimSpace(c.Role); v != "" {
		parts = append(parts, "role="+v)
	}
	if n, ok := parseMinBasePay(c.MinBasePay); ok {
		parts = append(parts, "pay>="+strconv.FormatFloat(n, 'f', -1, 64))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

func containsFold(value, needle string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(needle))
}

// Invalid or negative numbers mean "no constraint".
func parseMinExperience(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func parseMinBasePay(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
