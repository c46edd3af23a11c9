package services

import (
	"time"

	"taleforge/contexts/story-core/template-library/domain/entities"
)

type prebuiltSeed struct {
	id         string
	title      string
	genre      string
	difficulty entities.Difficulty
	tags       []string
	text       string
}

var prebuiltSeeds = []prebuiltSeed{
	{
		id:         "tmpl-heist-midnight",
		title:      "The Midnight Heist",
		genre:      "action",
		difficulty: entities.DifficultyMedium,
		tags:       []string{"crime", "team", "classic"},
		text: "The crew slipped past the [ADJECTIVE] guard and into the vault. " +
			"Their leader, a retired [OCCUPATION], whispered the plan one last time. " +
			"First they would [VERB] the laser grid, then grab the famous [NOUN] of " +
			"[PLACE]. Nobody expected the alarm to sound like a [ANIMAL].",
	},
	{
		id:         "tmpl-dragon-breakfast",
		title:      "Breakfast with Dragons",
		genre:      "fantasy",
		difficulty: entities.DifficultyEasy,
		tags:       []string{"dragons", "family-friendly"},
		text: "Every morning the [ADJECTIVE] dragon flew down to the village to " +
			"borrow a cup of [NOUN]. The baker would [VERB] politely and offer a " +
			"plate of [PLURAL_NOUN] instead.",
	},
	{
		id:         "tmpl-starship-laundry",
		title:      "Laundry Day on the Starship",
		genre:      "sci-fi",
		difficulty: entities.DifficultyEasy,
		tags:       []string{"space", "comedy"},
		text: "Captain's log: the [ADJECTIVE] sock drawer has achieved sentience. " +
			"Engineering recommends we [VERB] it with a [NOUN] before it reaches " +
			"the [PLACE] deck.",
	},
	{
		id:         "tmpl-manor-whodunit",
		title:      "Whodunit at Wembly Manor",
		genre:      "mystery",
		difficulty: entities.DifficultyHard,
		tags:       []string{"detective", "victorian"},
		text: "The detective studied the [ADJECTIVE] footprints leading from the " +
			"library to the [PLACE]. \"Only a [OCCUPATION] could [VERB] a " +
			"[NOUN] like this,\" she muttered, \"and only while [VERB_ING].\" " +
			"The butler turned a shade of [COLOR] and dropped the [PLURAL_NOUN].",
	},
	{
		id:         "tmpl-haunted-diner",
		title:      "The All-Night Diner",
		genre:      "horror",
		difficulty: entities.DifficultyMedium,
		tags:       []string{"spooky", "small-town"},
		text: "After midnight, the diner on Route [NUMBER] only serves the " +
			"[ADJECTIVE]. The waitress never blinks, the jukebox plays backwards, " +
			"and every cup of coffee tastes faintly of [NOUN]. Whatever you do, " +
			"do not [VERB] when the cook asks about your [BODY_PART].",
	},
	{
		id:         "tmpl-pirate-promotion",
		title:      "A Pirate's Performance Review",
		genre:      "comedy",
		difficulty: entities.DifficultyMedium,
		tags:       []string{"pirates", "office"},
		text: "\"Yer plunderin' numbers be [ADJECTIVE] this quarter,\" sighed the " +
			"captain, shuffling a stack of [PLURAL_NOUN]. \"Ye were supposed to " +
			"[VERB] the merchant fleet, not invite them to [PLACE] for " +
			"[FOOD].\"",
	},
	{
		id:         "tmpl-mountain-letters",
		title:      "Letters from the Summit",
		genre:      "romance",
		difficulty: entities.DifficultyEasy,
		tags:       []string{"letters", "wistful"},
		text: "My [ADJECTIVE] darling, the mountain air smells of [NOUN] and I " +
			"think of you whenever the [ANIMAL] sings. Wait for me by the " +
			"[PLACE].",
	},
	{
		id:         "tmpl-jungle-map",
		title:      "The Upside-Down Map",
		genre:      "adventure",
		difficulty: entities.DifficultyHard,
		tags:       []string{"expedition", "jungle"},
		text: "The map was drawn by a [ADJECTIVE] cartographer who only worked " +
			"while [VERB_ING]. It showed a river of [NOUN], a bridge guarded by " +
			"[NUMBER] [PLURAL_NOUN], and a shortcut straight through the " +
			"[PLACE]. Our guide took one look and began to [VERB].",
	},
}

// PrebuiltTemplates returns the built-in catalog. Each call parses the seed
// text fresh so callers can never mutate the shared definitions.
func PrebuiltTemplates(now time.Time) []entities.Template {
	templates := make([]entities.Template, 0, len(prebuiltSeeds))
	for _, seed := range prebuiltSeeds {
		templates = append(templates, entities.Template{
			TemplateID: seed.id,
			Title:      seed.title,
			Genre:      seed.genre,
			Difficulty: seed.difficulty,
			Segments:   entities.ParseSegments(seed.text),
			Tags:       append([]string(nil), seed.tags...),
			CreatedAt:  now,
		})
	}
	return templates
}
