package models

import "fmt"

// RegionRule locates one meal inside the full document text. The region starts at
// the first Start keyword and ends right before the first End keyword found after
// it, or at the end of the text.
type RegionRule struct {
	Meal  string   `mapstructure:"meal"`
	Start string   `mapstructure:"start"`
	End   []string `mapstructure:"end"`
	// EndFollowedBy, when set, only accepts an End keyword that has this marker
	// somewhere after it.
	EndFollowedBy string `mapstructure:"end_followed_by"`
}

// MealMirror copies the parsed content of one meal onto another.
type MealMirror struct {
	Target string `mapstructure:"target"`
	Source string `mapstructure:"source"`
}

type CarbCyclingRule struct {
	Meal    string    `mapstructure:"meal"`
	Slot    string    `mapstructure:"slot"`
	Marker  string    `mapstructure:"marker"`
	Trigger string    `mapstructure:"trigger"`
	Rules   CarbRules `mapstructure:"rules"`
}

// Vocabulary is the template knowledge the parser needs: keywords, unit tables and
// the fixed strings added to every plan.
type Vocabulary struct {
	Units        []string          `mapstructure:"units"`
	NameUnits    []string          `mapstructure:"name_units"`
	UnitSynonyms map[string]string `mapstructure:"unit_synonyms"`
	DefaultUnit  string            `mapstructure:"default_unit"`
	FallbackUnit string            `mapstructure:"fallback_unit"`
	FallbackQty  int               `mapstructure:"fallback_qty"`
	Connector    string            `mapstructure:"connector"`
	OptionMarker string            `mapstructure:"option_marker"`

	SlotLabels   []string `mapstructure:"slot_labels"`
	SlotSelector string   `mapstructure:"slot_selector"`

	Regions []RegionRule `mapstructure:"regions"`
	Mirrors []MealMirror `mapstructure:"mirrors"`

	NotesBoundary  string   `mapstructure:"notes_boundary"`
	NotesMarker    string   `mapstructure:"notes_marker"`
	NoteSkipPrefix string   `mapstructure:"note_skip_prefix"`
	NoteMinLength  int      `mapstructure:"note_min_length"`
	MaxNotes       int      `mapstructure:"max_notes"`
	FallbackNotes  []string `mapstructure:"fallback_notes"`

	RawWeightKeyword string `mapstructure:"raw_weight_keyword"`
	RawWeightNote    string `mapstructure:"raw_weight_note"`

	CarbCycling CarbCyclingRule `mapstructure:"carb_cycling"`

	PlanName string `mapstructure:"plan_name"`
}

const (
	MealBreakfast = "colazione"
	MealSnack     = "spuntino1"
	MealLunch     = "pranzo"
	MealDinner    = "cena"

	SlotProteins = "proteine"
	SlotCarbs    = "carboidrati"
	SlotFats     = "grassi"
)

// DefaultVocabulary describes the Italian diet-plan template the tool was built for.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Units:     []string{"g", "gr", "grammi", "ml", "pezzi", "fette", "formelle", "cucchiaini", "cucchiai", "confezione"},
		NameUnits: []string{"g", "gr", "grammi", "ml", "pezzi", "fette"},
		UnitSynonyms: map[string]string{
			"gr":         string(UnitGrams),
			"grammi":     string(UnitGrams),
			"fette":      string(UnitPieces),
			"formelle":   string(UnitPieces),
			"confezione": string(UnitPortion),
		},
		DefaultUnit:  string(UnitGrams),
		FallbackUnit: string(UnitPortion),
		FallbackQty:  1,
		Connector:    "di",
		OptionMarker: "-",

		SlotLabels:   []string{"Proteine", "Carboidrati", "Grassi"},
		SlotSelector: "(scegline uno)",

		Regions: []RegionRule{
			{Meal: MealBreakfast, Start: "Colazione:", End: []string{"Spuntino"}},
			{Meal: MealSnack, Start: "Spuntino", End: []string{"*Pranzo", "*Cena", "IMPORTANTE"}},
			{Meal: MealLunch, Start: "*Pranzo", End: []string{"Grassi:"}, EndFollowedBy: "-"},
		},
		Mirrors: []MealMirror{{Target: MealDinner, Source: MealLunch}},

		NotesBoundary:  "Colazione:",
		NotesMarker:    "Note",
		NoteSkipPrefix: "80%",
		NoteMinLength:  10,
		MaxNotes:       5,
		FallbackNotes: []string{
			"Bevi almeno 2L di acqua al giorno",
			"2 bicchieri di acqua per ogni pasto",
		},

		RawWeightKeyword: "CRUDO",
		RawWeightNote:    "Tutti i pesi sono da considerarsi a CRUDO tranne che per i legumi (pesati cotti)",

		CarbCycling: CarbCyclingRule{
			Meal:    MealLunch,
			Slot:    SlotCarbs,
			Marker:  "IMPORTANTE",
			Trigger: "allenamento statico",
			Rules: CarbRules{
				Description:       "Nei giorni di allenamento statico/palestra, 1 pasto = SOLO VERDURE",
				StaticWorkoutDays: "scarico carbo su 1 pasto",
				CardioWorkoutDays: "carboidrati normali",
			},
		},

		PlanName: "Piano Personalizzato",
	}
}

// Validate reports vocabularies the parser cannot work with.
func (v Vocabulary) Validate() error {
	if len(v.SlotLabels) == 0 {
		return fmt.Errorf("vocabulary: at least one slot label is required")
	}
	if v.OptionMarker == "" {
		return fmt.Errorf("vocabulary: option marker is required")
	}
	if v.FallbackUnit == "" || v.DefaultUnit == "" {
		return fmt.Errorf("vocabulary: default and fallback units are required")
	}
	for i, r := range v.Regions {
		if r.Meal == "" || r.Start == "" {
			return fmt.Errorf("vocabulary: region %d needs both meal and start", i)
		}
	}
	for i, m := range v.Mirrors {
		if m.Target == "" || m.Source == "" {
			return fmt.Errorf("vocabulary: mirror %d needs both target and source", i)
		}
	}
	return nil
}
