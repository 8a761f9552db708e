package model

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

type SectionKind int

const (
	Lecture SectionKind = iota
	Lab
	Other
)

var sectionKinds = map[SectionKind]string{
	Lecture: "lecture",
	Lab:     "lab",
	Other:   "other",
}

func (kind SectionKind) String() string {
	return sectionKinds[kind]
}

func (kind SectionKind) MarshalText() ([]byte, error) {
	return []byte(kind.String()), nil
}

func (kind *SectionKind) UnmarshalText(text []byte) error {
	for candidate, name := range sectionKinds {
		if name == string(text) {
			*kind = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown section kind %q", text)
}

var labTypes = []string{"lab", "laboratory", "discussion", "recitation", "studio"}
var lectureTypes = []string{"lecture", "seminar"}

// ClassifySection maps the provider's explicit type onto a SectionKind, falling back to the
// digit-prefix rule (codes such as "101" are labs, "001" is a lecture) when no type is supplied
func ClassifySection(sectionType, code string) SectionKind {
	normalized := strings.ToLower(strings.TrimSpace(sectionType))
	switch {
	case slices.Contains(labTypes, normalized):
		return Lab
	case slices.Contains(lectureTypes, normalized):
		return Lecture
	case normalized != "":
		return Other
	}

	if code = strings.TrimSpace(code); code != "" && code[0] != '0' && isDigit(code[0]) {
		return Lab
	}
	return Lecture
}

type Enrollment struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// Section is one offering of a course. It is built by the DomainBuilder and must not be modified afterwards.
type Section struct {
	Code          string      `json:"section_code"`
	Kind          SectionKind `json:"kind"`
	Schedule      []string    `json:"schedule"`
	Blocks        []TimeBlock `json:"-"`
	Instructor    string      `json:"instructor"`
	Rating        *float64    `json:"rating"`
	Difficulty    *float64    `json:"difficulty"`
	GPA           *float64    `json:"gpa"`
	Location      string      `json:"location"`
	Enrollment    *Enrollment `json:"enrollment,omitempty"`
	Status        string      `json:"status,omitempty"`
	LinkedSection string      `json:"linked_section,omitempty"`
}

// Asynchronous reports whether the section has no meeting times (online or TBA sections)
func (section Section) Asynchronous() bool {
	return len(section.Blocks) == 0
}

func (section Section) Closed() bool {
	return strings.EqualFold(strings.TrimSpace(section.Status), "closed")
}

// Variable is a schedulable unit: a course code or its synthesized "<course>_lab" sibling
type Variable string

const labSuffix = "_lab"

func LabVariable(course string) Variable {
	return Variable(course + labSuffix)
}

// Sibling returns the lecture variable of a lab variable and vice versa
func (variable Variable) Sibling() Variable {
	if course, found := strings.CutSuffix(string(variable), labSuffix); found {
		return Variable(course)
	}
	return LabVariable(string(variable))
}

// Domain holds the candidate sections of a variable in provider order
type Domain []Section

func (domain Domain) Find(code string) (Section, bool) {
	return lo.Find(domain, func(section Section) bool { return section.Code == code })
}

func (domain Domain) Codes() []string {
	return lo.Map(domain, func(section Section, _ int) string { return section.Code })
}

type Problem struct {
	Variables []Variable
	Domains   map[Variable]Domain
}

// Assignment maps each variable to its chosen section
type Assignment map[Variable]Section

func (assignment Assignment) Clone() Assignment {
	clone := make(Assignment, len(assignment))
	for variable, section := range assignment {
		clone[variable] = section
	}
	return clone
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
