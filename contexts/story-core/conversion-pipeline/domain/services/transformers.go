package services

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"taleforge/contexts/story-core/conversion-pipeline/domain/entities"
)

type TransformerKind string

const (
	KindRewrite    TransformerKind = "rewrite"
	KindGenerative TransformerKind = "generative"
)

// Transformer is one purchasable story conversion. Transform is pure: the
// same story always yields the same output. Rewrite transformers return
// finished prose; generative transformers return bracket-syntax template
// text that seeds a follow-on session.
type Transformer struct {
	ID          string
	Label       string
	Description string
	Cost        int64
	Kind        TransformerKind
	Transform   func(story entities.Story) (string, error)
}

var registry = map[string]Transformer{}

func register(t Transformer) {
	registry[t.ID] = t
}

// Lookup returns the transformer for id, unmodified catalog data.
func Lookup(id string) (Transformer, bool) {
	t, ok := registry[strings.TrimSpace(id)]
	return t, ok
}

// Catalog returns every registered transformer sorted by id.
func Catalog() []Transformer {
	out := make([]Transformer, 0, len(registry))
	for _, t := range registry {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func init() {
	register(Transformer{
		ID: "short_story", Label: "Short Story", Cost: 50, Kind: KindRewrite,
		Description: "Frame the tale as a proper short story with chapters",
		Transform:   toShortStory,
	})
	register(Transformer{
		ID: "screenplay", Label: "Screenplay", Cost: 75, Kind: KindRewrite,
		Description: "Reformat as a screenplay with scene headings and beats",
		Transform:   toScreenplay,
	})
	register(Transformer{
		ID: "poem", Label: "Poem", Cost: 40, Kind: KindRewrite,
		Description: "Break the prose into stanzas of short lines",
		Transform:   toPoem,
	})
	register(Transformer{
		ID: "song", Label: "Song Lyrics", Cost: 60, Kind: KindRewrite,
		Description: "Verses, a chorus built from the title, and a bridge",
		Transform:   toSong,
	})
	register(Transformer{
		ID: "shakespeare", Label: "Shakespearean", Cost: 80, Kind: KindRewrite,
		Description: "Elizabethan pronouns and verb endings",
		Transform:   toShakespeare,
	})
	register(Transformer{
		ID: "zombify", Label: "Zombify", Cost: 45, Kind: KindRewrite,
		Description: "Undead vocabulary swap with an apocalyptic coda",
		Transform:   toZombie,
	})
	register(Transformer{
		ID: "pirate", Label: "Pirate Tale", Cost: 45, Kind: KindRewrite,
		Description: "Nautical slang from ahoy to arr",
		Transform:   toPirate,
	})
	register(Transformer{
		ID: "scifi", Label: "Sci-Fi Version", Cost: 50, Kind: KindRewrite,
		Description: "Stardate framing and futurist noun swaps",
		Transform:   toSciFi,
	})
	register(Transformer{
		ID: "noir", Label: "Film Noir", Cost: 55, Kind: KindRewrite,
		Description: "Hard-boiled narration wrapped around the original",
		Transform:   toNoir,
	})
	register(Transformer{
		ID: "kids", Label: "Kids Version", Cost: 30, Kind: KindRewrite,
		Description: "Softened language and a wholesome ending",
		Transform:   toKids,
	})
	register(Transformer{
		ID: "haiku", Label: "Haiku Series", Cost: 25, Kind: KindRewrite,
		Description: "A series of connected seasonal haikus",
		Transform:   toHaiku,
	})
	register(Transformer{
		ID: "news", Label: "News Article", Cost: 35, Kind: KindRewrite,
		Description: "Breaking-news framing with witness quotes",
		Transform:   toNews,
	})
	register(Transformer{
		ID: "sequel", Label: "Generate Sequel", Cost: 100, Kind: KindGenerative,
		Description: "A new fill-in template continuing the story",
		Transform:   toSequelTemplate,
	})
	register(Transformer{
		ID: "prequel", Label: "Generate Prequel", Cost: 100, Kind: KindGenerative,
		Description: "A new fill-in template set before the story",
		Transform:   toPrequelTemplate,
	})
	register(Transformer{
		ID: "alternate", Label: "Alternate Ending", Cost: 75, Kind: KindGenerative,
		Description: "A new fill-in template replaying the finale",
		Transform:   toAlternateTemplate,
	})
}

// SeedTitle names the library template a generative transformer registers.
func SeedTitle(transformerID string, storyTitle string) string {
	switch transformerID {
	case "sequel":
		return storyTitle + ": The Sequel"
	case "prequel":
		return "Before " + storyTitle
	case "alternate":
		return storyTitle + ": Another Ending"
	default:
		return storyTitle
	}
}

func splitSentences(text string) []string {
	parts := strings.Split(text, ".")
	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}

type wordSwap struct {
	pattern     *regexp.Regexp
	replacement string
}

func newSwap(word string, replacement string) wordSwap {
	return wordSwap{
		pattern:     regexp.MustCompile(`(?i)\b` + word + `\b`),
		replacement: replacement,
	}
}

func applySwaps(text string, swaps []wordSwap) string {
	for _, swap := range swaps {
		text = swap.pattern.ReplaceAllString(text, swap.replacement)
	}
	return text
}

func toShortStory(story entities.Story) (string, error) {
	return fmt.Sprintf("%s\n\nChapter 1: The Beginning\n\n%s\n\n"+
		"As our heroes reflected on their adventure, they realized that the real treasure was the friends they made along the way. "+
		"The sun set on another extraordinary day in their remarkable lives.\n\nThe End.",
		story.Title, story.Text), nil
}

func toScreenplay(story entities.Story) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "FADE IN:\n\nINT. %s - DAY\n", strings.ToUpper(story.Title))
	for _, sentence := range splitSentences(story.Text) {
		fmt.Fprintf(&b, "\n%s.\n\n(beat)\n", strings.ToUpper(sentence))
	}
	b.WriteString("\nFADE OUT.\n\nTHE END")
	return b.String(), nil
}

func toPoem(story entities.Story) (string, error) {
	words := strings.Fields(story.Text)
	var b strings.Builder
	b.WriteString(story.Title)
	b.WriteString("\n\n")
	line := 0
	for i := 0; i < len(words); i += 5 {
		end := i + 5
		if end > len(words) {
			end = len(words)
		}
		b.WriteString(strings.Join(words[i:end], " "))
		b.WriteString(",\n")
		if line%4 == 3 {
			b.WriteString("\n")
		}
		line++
	}
	return strings.TrimSuffix(b.String(), ",\n") + ".", nil
}

var shakespeareIng = regexp.MustCompile(`\b([A-Za-z]+)ing\b`)

func toShakespeare(story entities.Story) (string, error) {
	swaps := []wordSwap{
		newSwap("you", "thee"),
		newSwap("your", "thy"),
		newSwap("are", "art"),
		newSwap("was", "wast"),
		newSwap("have", "hath"),
		newSwap("do", "dost"),
		newSwap("will", "shall"),
	}
	text := applySwaps(story.Text, swaps)
	text = shakespeareIng.ReplaceAllString(text, "${1}eth")
	return text + "\n\n- Thus ends our tale, forsooth!", nil
}

func toZombie(story entities.Story) (string, error) {
	swaps := []wordSwap{
		newSwap("people", "survivors"),
		newSwap("food", "brains"),
		newSwap("walked", "shambled"),
		newSwap("ran", "fled in terror"),
		newSwap("happy", "infected"),
		newSwap("sad", "undead"),
	}
	return applySwaps(story.Text, swaps) + "\n\n...and then the zombies came. BRAAAAAAINS!", nil
}

func toPirate(story entities.Story) (string, error) {
	swaps := []wordSwap{
		newSwap("hello", "ahoy"),
		newSwap("yes", "aye"),
		newSwap("friend", "matey"),
		newSwap("money", "doubloons"),
		newSwap("treasure", "booty"),
	}
	return "Ahoy! " + applySwaps(story.Text, swaps) + " Arr arr arr!", nil
}

func toSciFi(story entities.Story) (string, error) {
	swaps := []wordSwap{
		newSwap("car", "hovercraft"),
		newSwap("phone", "neural implant"),
		newSwap("house", "space station"),
		newSwap("Earth", "Terra Prime"),
	}
	return fmt.Sprintf("Stardate 2425.3: %s\n\nThe quantum flux capacitor hummed softly as our story concluded in the Andromeda sector.",
		applySwaps(story.Text, swaps)), nil
}

func toNoir(story entities.Story) (string, error) {
	return fmt.Sprintf("The rain fell on the city like bullets from heaven. %s\n\n"+
		"I lit another cigarette and watched the smoke curl up toward the ceiling fan. "+
		"In this city, everyone's got a story. This was just another one of them. "+
		"The dame was trouble, but aren't they always?", story.Text), nil
}

func toKids(story entities.Story) (string, error) {
	swaps := []wordSwap{
		newSwap("bad", "not very nice"),
		newSwap("scary", "a little spooky"),
		newSwap("died", "went to sleep"),
		newSwap("killed", "sent away"),
	}
	return applySwaps(story.Text, swaps) + "\n\nAnd they all lived happily ever after! The end!", nil
}

var haikuSeasons = []string{"Spring", "Summer", "Autumn", "Winter", "Morning"}
var haikuElements = []string{"breeze", "rain", "snow", "sun", "moon"}

func toHaiku(story entities.Story) (string, error) {
	sentences := splitSentences(story.Text)
	if len(sentences) > 5 {
		sentences = sentences[:5]
	}
	verses := make([]string, 0, len(sentences))
	for i, sentence := range sentences {
		words := strings.Fields(sentence)
		if len(words) > 5 {
			words = words[:5]
		}
		pad := func(lo, hi int) []string {
			if lo > len(words) {
				lo = len(words)
			}
			if hi > len(words) {
				hi = len(words)
			}
			return words[lo:hi]
		}
		last := "more"
		if len(words) > 4 {
			last = words[4]
		}
		verses = append(verses, fmt.Sprintf("%s\n%s and %s\n%s %s",
			strings.Join(pad(0, 2), " "),
			strings.Join(pad(2, 4), " "),
			last,
			haikuSeasons[i], haikuElements[i]))
	}
	return strings.Join(verses, "\n\n"), nil
}

func toSong(story entities.Story) (string, error) {
	sentences := splitSentences(story.Text)
	line := func(i int, fallback string) string {
		if i < len(sentences) {
			return sentences[i]
		}
		return fallback
	}
	chorus := fmt.Sprintf("(Chorus)\n%[1]s, %[1]s\nOh what a story to tell\n%[1]s, %[1]s\nEverything turned out well\n\n", story.Title)
	var b strings.Builder
	fmt.Fprintf(&b, "(Verse 1)\n%s\n%s\n\n", line(0, "La la la"), line(1, "La la la"))
	b.WriteString(chorus)
	fmt.Fprintf(&b, "(Verse 2)\n%s\n%s\n\n", line(2, "The story goes on"), line(3, "And on and on"))
	b.WriteString(chorus)
	fmt.Fprintf(&b, "(Bridge)\nOoh, ooh, ooh\n%s\n\n(Repeat Chorus and Fade)", line(4, "What a tale"))
	return b.String(), nil
}

func toNews(story entities.Story) (string, error) {
	return fmt.Sprintf("BREAKING NEWS: %s\n\nIn an extraordinary turn of events today, %s\n\n"+
		"Witnesses at the scene reported being \"completely amazed\" by what transpired. "+
		"Local authorities are investigating the incident, though no charges are expected to be filed.\n\n"+
		"\"We've never seen anything quite like this,\" said one official who wished to remain anonymous.\n\n"+
		"More details as this story develops.", story.Title, story.Text), nil
}

func toSequelTemplate(story entities.Story) (string, error) {
	return fmt.Sprintf("Years after %s, the [ADJECTIVE] heroes returned to the [PLACE]. "+
		"A [OCCUPATION] warned them about a [ADJECTIVE] [NOUN], but they chose to [VERB] anyway, "+
		"with a loyal [ANIMAL] at their side.", story.Title), nil
}

func toPrequelTemplate(story entities.Story) (string, error) {
	return fmt.Sprintf("Long before %s, a [ADJECTIVE] [OCCUPATION] discovered a [NOUN] hidden near the [PLACE]. "+
		"Nobody believed it could [VERB], until a passing [ANIMAL] proved them all wrong.", story.Title), nil
}

func toAlternateTemplate(story entities.Story) (string, error) {
	return fmt.Sprintf("Everything in %s happened just as told, until the very last moment. "+
		"Instead, a [ADJECTIVE] [NOUN] appeared out of nowhere, everyone began to [VERB], "+
		"and the story ended at the [PLACE] with a [ADJECTIVE] cheer.", story.Title), nil
}
