package domain

import (
	"encoding/json"
	"sort"
	"strings"

	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
)

// MilkType is the animal source of a milk line. Each type has its own rate.
type MilkType string

const (
	MilkCow     MilkType = "cow"
	MilkBuffalo MilkType = "buffalo"
)

// ParseMilkType accepts the type names case-insensitively.
func ParseMilkType(s string) (MilkType, error) {
	t := MilkType(strings.ToLower(strings.TrimSpace(s)))
	if t != MilkCow && t != MilkBuffalo {
		return "", sharedDomain.Errorf(sharedDomain.KindValidation, "parse milk type", "unknown milk type %q", s)
	}
	return t, nil
}

// MilkKey identifies one brand and type combination.
type MilkKey struct {
	Brand string
	Type  MilkType
}

// MilkLine is a MilkKey with its daily count of half-liter units.
type MilkLine struct {
	Brand string   `json:"brand"`
	Type  MilkType `json:"type"`
	Units int      `json:"units"`
}

// SelectionSet is what a subscriber picked for one prospective subscription.
// It always holds at least one newspaper.
type SelectionSet struct {
	newspapers []string
	milk       map[MilkKey]int
}

// NewSelectionSet validates and normalizes a selection. Duplicate newspapers
// collapse, duplicate milk lines add up, and zero-unit lines are dropped.
func NewSelectionSet(newspapers []string, milk []MilkLine) (SelectionSet, error) {
	const op = "new selection"

	seen := make(map[string]struct{}, len(newspapers))
	papers := make([]string, 0, len(newspapers))
	for _, id := range newspapers {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		papers = append(papers, id)
	}
	if len(papers) == 0 {
		return SelectionSet{}, sharedDomain.NewError(sharedDomain.KindValidation, op, "at least one newspaper is required")
	}
	sort.Strings(papers)

	counts := make(map[MilkKey]int, len(milk))
	for _, line := range milk {
		if line.Units < 0 {
			return SelectionSet{}, sharedDomain.Errorf(sharedDomain.KindValidation, op, "negative units for %s %s", line.Brand, line.Type)
		}
		brand := strings.TrimSpace(line.Brand)
		if brand == "" {
			return SelectionSet{}, sharedDomain.NewError(sharedDomain.KindValidation, op, "milk brand is required")
		}
		milkType, err := ParseMilkType(string(line.Type))
		if err != nil {
			return SelectionSet{}, err
		}
		if line.Units == 0 {
			continue
		}
		counts[MilkKey{Brand: brand, Type: milkType}] += line.Units
	}

	return SelectionSet{newspapers: papers, milk: counts}, nil
}

// Newspapers returns the sorted newspaper identifiers.
func (s SelectionSet) Newspapers() []string {
	out := make([]string, len(s.newspapers))
	copy(out, s.newspapers)
	return out
}

// NewspaperCount is the number of distinct newspapers.
func (s SelectionSet) NewspaperCount() int { return len(s.newspapers) }

// Units returns the half-liter units for a brand and type.
func (s SelectionSet) Units(key MilkKey) int { return s.milk[key] }

// MilkLines returns the non-zero milk lines ordered by brand, then type.
func (s SelectionSet) MilkLines() []MilkLine {
	lines := make([]MilkLine, 0, len(s.milk))
	for key, units := range s.milk {
		lines = append(lines, MilkLine{Brand: key.Brand, Type: key.Type, Units: units})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Brand != lines[j].Brand {
			return lines[i].Brand < lines[j].Brand
		}
		return lines[i].Type < lines[j].Type
	})
	return lines
}

// TotalMilkUnits sums units across every brand and type.
func (s SelectionSet) TotalMilkUnits() int {
	total := 0
	for _, units := range s.milk {
		total += units
	}
	return total
}

// IsZero reports whether s was never built through NewSelectionSet.
func (s SelectionSet) IsZero() bool { return len(s.newspapers) == 0 }

type selectionJSON struct {
	Newspapers []string   `json:"newspapers"`
	Milk       []MilkLine `json:"milk"`
}

// MarshalJSON encodes the snapshot stored with subscriptions and attempts.
func (s SelectionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(selectionJSON{Newspapers: s.Newspapers(), Milk: s.MilkLines()})
}

// UnmarshalJSON decodes and revalidates a stored snapshot.
func (s *SelectionSet) UnmarshalJSON(data []byte) error {
	var raw selectionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewSelectionSet(raw.Newspapers, raw.Milk)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
