// Package report turns a scored admission record into a clinician-readable
// structured report, and renders it as plain text or PDF.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/karnalakavya0/hospital-readmission-proj/pkg/admission"
)

// Section titles, in report order.
const (
	TitleSummary       = "Patient Summary"
	TitleRiskFactors   = "Risk Factors"
	TitleMedications   = "Medications & Suggestions"
	TitleInterventions = "Recommended Interventions"
	TitleNotes         = "Notes for Clinicians"

	KeyCurrentMedications = "Current Medications"
	KeySuggestions        = "Suggestions"
)

// Defaults used when a field or list is empty.
const (
	DefaultName           = "Unknown"
	DefaultDisease        = "Unknown"
	DefaultRecommendation = "Standard follow-up"
	NoRiskFactors         = "None notable"
	NoMedications         = "None"
	NoSuggestions         = "No additional suggestions"
	NoNotes               = "No immediate concerns"
)

// Clinical thresholds used by the report rules.
const (
	AdvancedAge       = 65.0
	HighWBC           = 11000.0
	HighHeartRate     = 100.0
	HighBP            = 140.0
	LowBP             = 90.0
	FeverTemperatureF = 100.4
	AnemiaHaemoglobin = 12.0
)

// Kind is the shape of a section's content.
type Kind int

const (
	KindText Kind = iota
	KindList
	KindGroups
)

// Group is a keyed sub-list inside a KindGroups section.
type Group struct {
	Key   string
	Items []string
}

// Section is one titled block of the report.
type Section struct {
	Title  string
	Kind   Kind
	Text   string
	Items  []string
	Groups []Group
}

// Report is an ordered set of sections.
type Report struct {
	Sections []Section
}

// Section returns the section with the given title.
func (r *Report) Section(title string) (Section, bool) {
	for _, s := range r.Sections {
		if s.Title == title {
			return s, true
		}
	}
	return Section{}, false
}

// Summary returns the one-line patient summary.
func (r *Report) Summary() string {
	s, _ := r.Section(TitleSummary)
	return s.Text
}

// RiskFactors returns the ordered risk factor list.
func (r *Report) RiskFactors() []string {
	s, _ := r.Section(TitleRiskFactors)
	return s.Items
}

// Group returns the items of a keyed group within a section.
func (r *Report) Group(title, key string) []string {
	s, _ := r.Section(title)
	for _, g := range s.Groups {
		if g.Key == key {
			return g.Items
		}
	}
	return nil
}

// Synthesize builds the structured report for a scored record.
func Synthesize(rec *admission.Record) *Report {
	return &Report{Sections: []Section{
		{Title: TitleSummary, Kind: KindText, Text: summaryLine(rec)},
		{Title: TitleRiskFactors, Kind: KindList, Items: riskFactors(rec)},
		{Title: TitleMedications, Kind: KindGroups, Groups: medications(rec)},
		{Title: TitleInterventions, Kind: KindText, Text: Recommendation(rec)},
		{Title: TitleNotes, Kind: KindList, Items: notes(rec)},
	}}
}

// Name returns the record's display name or the default.
func Name(rec *admission.Record) string {
	if rec.Name == "" {
		return DefaultName
	}
	return rec.Name
}

// Disease returns the record's disease or the default.
func Disease(rec *admission.Record) string {
	if rec.Disease == "" {
		return DefaultDisease
	}
	return rec.Disease
}

// Recommendation returns the record's recommendation or the default.
func Recommendation(rec *admission.Record) string {
	if rec.Recommendation == "" {
		return DefaultRecommendation
	}
	return rec.Recommendation
}

func level(rec *admission.Record) admission.RiskLevel {
	if rec.RiskLevel == "" {
		return admission.RiskLow
	}
	return rec.RiskLevel
}

func flag(rec *admission.Record) admission.ReadmitFlag {
	if rec.ReadmitFlag == "" {
		return admission.FlagLow
	}
	return rec.ReadmitFlag
}

// ScoreLine formats the composite score and level, e.g. "96.84% (HIGH)".
func ScoreLine(rec *admission.Record) string {
	return fmt.Sprintf("%s (%s)", Percent(rec.RiskScore, 2), level(rec))
}

func summaryLine(rec *admission.Record) string {
	return fmt.Sprintf("%s, Age %s, Risk Score: %s, ML Readmission Probability: %s (%s)",
		Name(rec), Age(rec.Value(admission.ColAge)), ScoreLine(rec),
		Percent(rec.ReadmitProb*100, 1), flag(rec))
}

func riskFactors(rec *admission.Record) []string {
	var out []string
	if rec.Value(admission.ColAge) > AdvancedAge {
		out = append(out, "Advanced age")
	}
	for _, c := range admission.Comorbidities {
		if rec.Value(c) == 1 {
			out = append(out, capitalize(c))
		}
	}
	if wbc := rec.Value(admission.ColWBC); wbc > HighWBC {
		out = append(out, fmt.Sprintf("High WBC (%s)", Grouped(wbc, 0)))
	}
	if hr := rec.Value(admission.ColHeartRate); hr > HighHeartRate {
		out = append(out, fmt.Sprintf("High HR (%s bpm)", strconv.FormatFloat(hr, 'f', 0, 64)))
	}
	// An absent BP reads as 0 and is reported as abnormal.
	if bp := rec.Value(admission.ColBP); bp > HighBP || bp < LowBP {
		out = append(out, fmt.Sprintf("Abnormal BP (%s mmHg)", strconv.FormatFloat(bp, 'f', 0, 64)))
	}
	out = append(out, "Readmission Risk: "+string(flag(rec)))

	// Unreachable while the readmission line is always appended.
	if len(out) == 0 {
		out = []string{NoRiskFactors}
	}
	return out
}

// medicationRule pairs a medication with an optional trigger that suggests it
// when the patient is not on it.
type medicationRule struct {
	column     string
	trigger    func(*admission.Record) bool
	suggestion string
}

var medicationRules = []medicationRule{
	{
		column:     admission.ColAntibiotics,
		trigger:    func(r *admission.Record) bool { return r.Value(admission.ColWBC) > HighWBC },
		suggestion: "Consider antibiotics for elevated WBC",
	},
	{column: admission.ColAntihypertensives},
	{column: admission.ColInsulin},
	{column: admission.ColStatins},
	{column: admission.ColAnticoagulants},
}

func medications(rec *admission.Record) []Group {
	var meds, suggestions []string
	for _, rule := range medicationRules {
		switch {
		case rec.Flag(rule.column):
			meds = append(meds, capitalize(rule.column))
		case rule.trigger != nil && rule.trigger(rec):
			suggestions = append(suggestions, rule.suggestion)
		}
	}
	if len(meds) == 0 {
		meds = []string{NoMedications}
	}
	if len(suggestions) == 0 {
		suggestions = []string{NoSuggestions}
	}
	return []Group{
		{Key: KeyCurrentMedications, Items: meds},
		{Key: KeySuggestions, Items: suggestions},
	}
}

func notes(rec *admission.Record) []string {
	var out []string
	if rec.Value(admission.ColTemperature) > FeverTemperatureF {
		out = append(out, "Monitor for fever")
	}
	// An absent haemoglobin reads as 0 and triggers the anemia note.
	if rec.Value(admission.ColHaemoglobin) < AnemiaHaemoglobin {
		out = append(out, "Check for anemia")
	}
	if len(out) == 0 {
		out = []string{NoNotes}
	}
	return out
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// MarshalJSON encodes the report as an object whose keys keep section order.
func (r *Report) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range r.Sections {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, s.Title); err != nil {
			return nil, err
		}
		switch s.Kind {
		case KindText:
			if err := writeValue(&buf, s.Text); err != nil {
				return nil, err
			}
		case KindList:
			if err := writeValue(&buf, nonNil(s.Items)); err != nil {
				return nil, err
			}
		case KindGroups:
			buf.WriteByte('{')
			for j, g := range s.Groups {
				if j > 0 {
					buf.WriteByte(',')
				}
				if err := writeKey(&buf, g.Key); err != nil {
					return nil, err
				}
				if err := writeValue(&buf, nonNil(g.Items)); err != nil {
					return nil, err
				}
			}
			buf.WriteByte('}')
		default:
			return nil, fmt.Errorf("section %q: unknown kind %d", s.Title, s.Kind)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	if err := writeValue(buf, key); err != nil {
		return err
	}
	buf.WriteByte(':')
	return nil
}

func writeValue(buf *bytes.Buffer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling report value: %w", err)
	}
	buf.Write(data)
	return nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
