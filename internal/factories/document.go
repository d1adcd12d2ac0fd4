package factories

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/chrisdamba/nutriparse/internal/models"
	"github.com/jaswdr/faker"
)

var fake = faker.New()

// FoodLine is one option line as it appears in a generated document.
type FoodLine struct {
	Qty        int
	Unit       models.Unit
	Name       string
	VisualHelp string
}

func (l FoodLine) String() string {
	line := fmt.Sprintf("- %d %s %s", l.Qty, l.Unit, l.Name)
	if l.VisualHelp != "" {
		line += " (" + l.VisualHelp + ")"
	}
	return line
}

// MealSection holds the option lines of a meal keyed by slot name.
type MealSection map[string][]FoodLine

// DietPlanDocument is a synthetic plan laid out like the real template.
type DietPlanDocument struct {
	Title       string
	Notes       []string
	Breakfast   MealSection
	Snack       MealSection
	Lunch       MealSection
	RawWeights  bool
	CarbCycling bool
}

type DietPlanFactory struct{}

var slotOrder = []struct {
	slot  string
	label string
}{
	{models.SlotProteins, "Proteine"},
	{models.SlotCarbs, "Carboidrati"},
	{models.SlotFats, "Grassi"},
}

var foodsBySlot = map[string][]string{
	models.SlotProteins: {"Petto di pollo", "Tonno al naturale", "Fesa di tacchino", "Merluzzo", "Yogurt greco 0%", "Albume", "Bresaola", "Ricotta light"},
	models.SlotCarbs:    {"Riso basmati", "Pasta integrale", "Pane di segale", "Fiocchi di avena", "Patate", "Gallette di mais", "Farro", "Quinoa"},
	models.SlotFats:     {"Olio extravergine", "Mandorle", "Noci", "Burro di arachidi", "Avocado", "Semi di chia"},
}

var unitsBySlot = map[string][]models.Unit{
	models.SlotProteins: {models.UnitGrams, models.UnitPieces},
	models.SlotCarbs:    {models.UnitGrams},
	models.SlotFats:     {models.UnitGrams, models.UnitMillilitres},
}

var visualHelps = []string{"un palmo di mano", "circa un vasetto", "un pugno chiuso", "due dita"}

func (df *DietPlanFactory) CreateDocument() DietPlanDocument {
	doc := DietPlanDocument{
		Title:       "Piano alimentare di " + fake.Person().FirstName(),
		Breakfast:   df.createSection(),
		Snack:       df.createSection(),
		Lunch:       df.createSection(),
		RawWeights:  fake.Bool(),
		CarbCycling: fake.Bool(),
	}
	for i := fake.IntBetween(0, 6); i > 0; i-- {
		doc.Notes = append(doc.Notes, fake.Lorem().Sentence(8))
	}
	return doc
}

func (df *DietPlanFactory) createSection() MealSection {
	section := make(MealSection)
	for _, s := range slotOrder {
		foods := foodsBySlot[s.slot]
		units := unitsBySlot[s.slot]
		count := rand.Intn(4) + 1
		for i := 0; i < count; i++ {
			line := FoodLine{
				Qty:  fake.IntBetween(5, 300),
				Unit: units[rand.Intn(len(units))],
				Name: foods[rand.Intn(len(foods))],
			}
			if rand.Intn(3) == 0 {
				line.VisualHelp = visualHelps[rand.Intn(len(visualHelps))]
			}
			section[s.slot] = append(section[s.slot], line)
		}
	}
	return section
}

func writeSection(b *strings.Builder, section MealSection) {
	for _, s := range slotOrder {
		lines, ok := section[s.slot]
		if !ok {
			continue
		}
		fmt.Fprintf(b, "%s: (scegline uno)\n", s.label)
		for _, l := range lines {
			b.WriteString(l.String())
			b.WriteByte('\n')
		}
	}
}

// Text renders the document the way a PDF text extraction of the template reads.
func (d DietPlanDocument) Text() string {
	var b strings.Builder
	b.WriteString(d.Title + "\n")
	if len(d.Notes) > 0 {
		b.WriteString("Note\n")
		for _, n := range d.Notes {
			b.WriteString(n + "\n")
		}
	}
	if d.RawWeights {
		b.WriteString("80% dei pesi indicati sono a CRUDO\n")
	}
	b.WriteString("Colazione:\n")
	writeSection(&b, d.Breakfast)
	b.WriteString("Spuntino\n")
	writeSection(&b, d.Snack)
	b.WriteString("*Pranzo\n")
	writeSection(&b, d.Lunch)
	if d.CarbCycling {
		b.WriteString("IMPORTANTE: nei giorni di allenamento statico 1 pasto = solo verdure\n")
	}
	return b.String()
}
