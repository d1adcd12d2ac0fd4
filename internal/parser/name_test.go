package parser

import (
	"fmt"
	"testing"

	"github.com/jaswdr/faker"
)

func TestExtractFoodName(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"- 150 gr di Yogurt Greco 0%", "Yogurt Greco 0%"},
		{"- 200 g Pollo", "Pollo"},
		{"- 80g Riso basmati (pesato a secco)", "Riso basmati"},
		{"-2 fette di Pane integrale", "Pane integrale"},
		{"- 250 ML di latte parzialmente scremato", "latte parzialmente scremato"},
		{"- Frutta di stagione", "Frutta di stagione"},
		{"- 1 confezione di fiocchi di latte", "confezione di fiocchi di latte"},
		{"- (a piacere)", ""},
		{"-", ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			if got := ExtractFoodName(tt.line); got != tt.want {
				t.Errorf("ExtractFoodName(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestExtractFoodNameGeneratedLines(t *testing.T) {
	fake := faker.New()
	for i := 0; i < 50; i++ {
		name := fake.Lorem().Word()
		line := fmt.Sprintf("- %d gr di %s", fake.IntBetween(1, 999), name)
		if got := ExtractFoodName(line); got != name {
			t.Fatalf("ExtractFoodName(%q) = %q, want %q", line, got, name)
		}
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Pollo", "pollo"},
		{"Yogurt Greco 0%", "yogurt_greco_0_"},
		{"Caffè", "caff_"},
		{"Petto di pollo alla griglia con limone", "petto_di_pollo_alla_griglia_co"},
	}
	for _, tt := range tests {
		if got := Slug(tt.name); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
