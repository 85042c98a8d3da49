package cli

import (
	"strings"
	"testing"

	"job-board/internal/model"
)

func floatPtr(v float64) *float64 { return &v }

func TestTruncateWords(t *testing.T) {
	words := make([]string, 120)
	for i := range words {
		words[i] = "w"
	}
	long := strings.Join(words, " ")

	got := truncateWords(long, 100)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis, got %q", got)
	}
	if n := len(strings.Fields(strings.TrimSuffix(got, "..."))); n != 100 {
		t.Fatalf("expected 100 words, got %d", n)
	}

	short := "We build rockets."
	if got := truncateWords(short, 100); got != short {
		t.Fatalf("short text must be unchanged, got %q", got)
	}
	if got := truncateWords("", 100); got != "" {
		t.Fatalf("empty text must stay empty, got %q", got)
	}
}

func TestFormatSalary(t *testing.T) {
	cases := []struct {
		name string
		job  model.Job
		want string
	}{
		{"range", model.Job{MinJdSalary: floatPtr(40), MaxJdSalary: floatPtr(70.5), SalaryCurrencyCode: "USD"}, "40 - 70.5 USD"},
		{"min only", model.Job{MinJdSalary: floatPtr(12), SalaryCurrencyCode: "INR"}, "from 12 INR"},
		{"max only", model.Job{MaxJdSalary: floatPtr(90)}, "up to 90"},
		{"none", model.Job{SalaryCurrencyCode: "USD"}, "not disclosed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatSalary(tc.job); got != tc.want {
				t.Fatalf("formatSalary = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestRenderJobCardShowsCoreFields(t *testing.T) {
	job := model.Job{
		JdUID:                 "a",
		CompanyName:           "Acme",
		JobRole:               "backend",
		Location:              "berlin",
		JobDetailsFromCompany: "We build things.",
		MinExp:                1,
		IsRemote:              true,
		TechStack:             "go",
		JdLink:                "https://jobs.example.com/a",
	}
	card := renderJobCard(job, 80)
	for _, want := range []string{"Acme", "BACKEND", "berlin", "not disclosed", "1 year", "Remote: yes", "About Company", "We build things.", "https://jobs.example.com/a"} {
		if !strings.Contains(card, want) {
			t.Fatalf("card missing %q:\n%s", want, card)
		}
	}
}

func TestJobListLineSkipsEmptyParts(t *testing.T) {
	if got := jobListLine(model.Job{CompanyName: "Acme", Location: "remote"}); got != "Acme | remote" {
		t.Fatalf("unexpected line %q", got)
	}
	if got := jobListLine(model.Job{}); got != "(unknown company)" {
		t.Fatalf("unexpected line %q", got)
	}
}
