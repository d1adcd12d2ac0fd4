package models

import (
	"sort"
	"time"
)

type Unit string

const (
	UnitGrams       Unit = "g"
	UnitMillilitres Unit = "ml"
	UnitPieces      Unit = "pezzi"
	UnitTeaspoons   Unit = "cucchiaini"
	UnitSpoons      Unit = "cucchiai"
	UnitPortion     Unit = "porzione"
)

// Option is one selectable food inside a slot.
type Option struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	InPlan     bool   `json:"inPlan"`
	Qty        int    `json:"qty"`
	Unit       Unit   `json:"unit"`
	VisualHelp string `json:"visualHelp,omitempty"`
}

// CarbRules describes how carbohydrates change with the kind of training day.
type CarbRules struct {
	Description       string `json:"description" mapstructure:"description"`
	StaticWorkoutDays string `json:"staticWorkoutDays" mapstructure:"static_workout_days"`
	CardioWorkoutDays string `json:"cardioWorkoutDays" mapstructure:"cardio_workout_days"`
}

type Slot struct {
	Options     []Option   `json:"options"`
	CarbCycling bool       `json:"carbCycling,omitempty"`
	Rules       *CarbRules `json:"rules,omitempty"`
}

// Meal maps a slot name (proteine, carboidrati, grassi) to its options.
type Meal map[string]Slot

type Plan struct {
	UserEmail   string          `json:"userEmail"`
	PlanName    string          `json:"planName"`
	CreatedDate string          `json:"createdDate"`
	Meals       map[string]Meal `json:"meals"`
	Notes       []string        `json:"notes"`
}

// StoredPlan is a plan together with the bookkeeping a repository adds.
type StoredPlan struct {
	ID       string    `json:"id"`
	Source   string    `json:"source"`
	StoredAt time.Time `json:"storedAt"`
	Plan     *Plan     `json:"plan"`
}

// OptionRecord is the flattened, one-row-per-option view used by tabular sinks.
type OptionRecord struct {
	PlanID      string `json:"planId" parquet:"name=plan_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	UserEmail   string `json:"userEmail" parquet:"name=user_email, type=BYTE_ARRAY, convertedtype=UTF8"`
	Meal        string `json:"meal" parquet:"name=meal, type=BYTE_ARRAY, convertedtype=UTF8"`
	Slot        string `json:"slot" parquet:"name=slot, type=BYTE_ARRAY, convertedtype=UTF8"`
	Position    int32  `json:"position" parquet:"name=position, type=INT32"`
	OptionID    string `json:"optionId" parquet:"name=option_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Name        string `json:"name" parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8"`
	Qty         int64  `json:"qty" parquet:"name=qty, type=INT64"`
	Unit        string `json:"unit" parquet:"name=unit, type=BYTE_ARRAY, convertedtype=UTF8"`
	VisualHelp  string `json:"visualHelp" parquet:"name=visual_help, type=BYTE_ARRAY, convertedtype=UTF8"`
	CarbCycling bool   `json:"carbCycling" parquet:"name=carb_cycling, type=BOOLEAN"`
}

// Clone returns a deep copy of the slot.
func (s Slot) Clone() Slot {
	out := Slot{CarbCycling: s.CarbCycling}
	if s.Options != nil {
		out.Options = make([]Option, len(s.Options))
		copy(out.Options, s.Options)
	}
	if s.Rules != nil {
		rules := *s.Rules
		out.Rules = &rules
	}
	return out
}

// Clone returns a deep copy of the meal; a nil meal clones to an empty one.
func (m Meal) Clone() Meal {
	out := make(Meal, len(m))
	for name, slot := range m {
		out[name] = slot.Clone()
	}
	return out
}

// MealNames returns the meal keys in lexical order.
func (p *Plan) MealNames() []string {
	names := make([]string, 0, len(p.Meals))
	for name := range p.Meals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OptionCount is the number of options across all meals and slots.
func (p *Plan) OptionCount() int {
	n := 0
	for _, meal := range p.Meals {
		for _, slot := range meal {
			n += len(slot.Options)
		}
	}
	return n
}

// OptionRecords flattens the plan into rows ordered by meal, slot and position.
func (p *Plan) OptionRecords(planID string) []OptionRecord {
	records := make([]OptionRecord, 0, p.OptionCount())
	for _, mealName := range p.MealNames() {
		meal := p.Meals[mealName]
		slotNames := make([]string, 0, len(meal))
		for name := range meal {
			slotNames = append(slotNames, name)
		}
		sort.Strings(slotNames)

		for _, slotName := range slotNames {
			slot := meal[slotName]
			for i, opt := range slot.Options {
				records = append(records, OptionRecord{
					PlanID:      planID,
					UserEmail:   p.UserEmail,
					Meal:        mealName,
					Slot:        slotName,
					Position:    int32(i),
					OptionID:    opt.ID,
					Name:        opt.Name,
					Qty:         int64(opt.Qty),
					Unit:        string(opt.Unit),
					VisualHelp:  opt.VisualHelp,
					CarbCycling: slot.CarbCycling,
				})
			}
		}
	}
	return records
}
