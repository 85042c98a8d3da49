package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"job-board/internal/filter"
)

type filterFieldKind int

const (
	filterFieldString filterFieldKind = iota
	filterFieldInt
	filterFieldNumber
	filterFieldBool
)

type filterFormField struct {
	Key   string
	Label string
	Help  string
	Kind  filterFieldKind
	Value string
}

type filterForm struct {
	Title  string
	Fields []filterFormField
	Index  int
	Input  textinput.Model
}

func newFilterForm(c filter.Criteria, width int) *filterForm {
	f := &filterForm{
		Title: "Filter Jobs",
		Fields: []filterFormField{
			{Key: "min_exp", Label: "Min Experience", Help: "Years; shows jobs requiring at least this much", Kind: filterFieldInt, Value: c.MinExperience},
			{Key: "company", Label: "Company", Help: "Substring, case-insensitive", Kind: filterFieldString, Value: c.CompanyName},
			{Key: "location", Label: "Location", Help: "Substring, case-insensitive", Kind: filterFieldString, Value: c.Location},
			{Key: "remote", Label: "Remote Only", Help: "Hide on-site roles", Kind: filterFieldBool, Value: boolToYN(c.RemoteOnly)},
			{Key: "tech_stack", Label: "Tech Stack", Help: "Substring of the listed stack", Kind: filterFieldString, Value: c.TechStack},
			{Key: "role", Label: "Role", Help: "Substring of the job role", Kind: filterFieldString, Value: c.Role},
			{Key: "min_pay", Label: "Min Base Pay", Help: "Minimum salary floor; jobs without a minimum are hidden", Kind: filterFieldNumber, Value: c.MinBasePay},
		},
	}

	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 256
	input.Width = min(max(width-8, 20), 120)
	f.Input = input
	f.loadFieldIntoInput()
	f.Input.Focus()
	return f
}

func (f *filterForm) resize(width int) {
	if f == nil {
		return
	}
	f.Input.Width = min(max(width-8, 20), 120)
}

func (f *filterForm) currentField() filterFormField {
	if len(f.Fields) == 0 {
		return filterFormField{}
	}
	if f.Index < 0 {
		f.Index = 0
	}
	if f.Index >= len(f.Fields) {
		f.Index = len(f.Fields) - 1
	}
	return f.Fields[f.Index]
}

func (f *filterForm) commitInput() {
	if f == nil || len(f.Fields) == 0 {
		return
	}
	if f.Fields[f.Index].Kind == filterFieldBool {
		return
	}
	f.Fields[f.Index].Value = strings.TrimSpace(f.Input.Value())
}

func (f *filterForm) loadFieldIntoInput() {
	if f == nil || len(f.Fields) == 0 {
		return
	}
	f.Input.SetValue(f.Fields[f.Index].Value)
	f.Input.CursorEnd()
}

func (f *filterForm) setBoolField(v bool) {
	if f == nil || len(f.Fields) == 0 {
		return
	}
	curr := f.Fields[f.Index]
	if curr.Kind != filterFieldBool {
		return
	}
	curr.Value = boolToYN(v)
	f.Fields[f.Index] = curr
	f.loadFieldIntoInput()
}

func (f *filterForm) toggleBoolField() {
	if f == nil || len(f.Fields) == 0 {
		return
	}
	v, _ := parseBool(f.Fields[f.Index].Value)
	f.setBoolField(!v)
}

// toCriteria builds the criteria from the form. Numeric fields that do not
// parse are kept as typed (they impose no constraint) and reported as notes.
func (f *filterForm) toCriteria() (filter.Criteria, []string) {
	var c filter.Criteria
	var notes []string
	for _, field := range f.Fields {
		v := strings.TrimSpace(field.Value)
		switch field.Kind {
		case filterFieldInt:
			if v != "" {
				if n, err := strconv.Atoi(v); err != nil || n < 0 {
					notes = append(notes, fmt.Sprintf("%s %q ignored", strings.ToLower(field.Label), v))
				}
			}
		case filterFieldNumber:
			if v != "" {
				if n, err := strconv.ParseFloat(v, 64); err != nil || n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
					notes = append(notes, fmt.Sprintf("%s %q ignored", strings.ToLower(field.Label), v))
				}
			}
		}
		switch field.Key {
		case "min_exp":
			c.MinExperience = v
		case "company":
			c.CompanyName = v
		case "location":
			c.Location = v
		case "remote":
			c.RemoteOnly, _ = parseBool(v)
		case "tech_stack":
			c.TechStack = v
		case "role":
			c.Role = v
		case "min_pay":
			c.MinBasePay = v
		}
	}
	return c, notes
}
