package memory

import (
	"time"

	"github.com/custodia-labs/bestiary-cli/internal/core/domain"
)

const pictureBase = "https://assets.pokemon.com/assets/cms2/img/pokedex/detail/"

// SeedRecords returns the default dataset served by `bestiary serve`.
func SeedRecords() []domain.Record {
	created := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	seed := []struct {
		name       string
		hp, cp     int
		picture    string
		categories []string
	}{
		{"Bulbasaur", 25, 5, "001", []string{domain.CategoryGrass, domain.CategoryPoison}},
		{"Charmander", 28, 6, "004", []string{domain.CategoryFire}},
		{"Squirtle", 21, 4, "007", []string{domain.CategoryWater}},
		{"Caterpie", 16, 2, "010", []string{domain.CategoryBug}},
		{"Pidgey", 30, 7, "016", []string{domain.CategoryNormal, domain.CategoryFlying}},
		{"Rattata", 18, 6, "019", []string{domain.CategoryNormal}},
		{"Ekans", 27, 9, "023", []string{domain.CategoryPoison}},
		{"Pikachu", 21, 7, "025", []string{domain.CategoryElectric}},
		{"Clefairy", 25, 5, "035", []string{domain.CategoryFairy}},
		{"Zubat", 19, 3, "041", []string{domain.CategoryPoison, domain.CategoryFlying}},
		{"Mankey", 22, 8, "056", []string{domain.CategoryFighting}},
		{"Abra", 20, 3, "063", []string{domain.CategoryPsychic}},
	}

	records := make([]domain.Record, len(seed))
	for i, s := range seed {
		records[i] = domain.Record{
			ID:         i + 1,
			Name:       s.name,
			HP:         s.hp,
			CP:         s.cp,
			Picture:    pictureBase + s.picture + ".png",
			Categories: s.categories,
			Created:    created,
		}
	}
	return records
}
