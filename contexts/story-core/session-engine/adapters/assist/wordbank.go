package assist

import (
	"context"
	"hash/fnv"
	"strings"
)

var wordBank = map[string][]string{
	"NOUN":        {"lighthouse", "umbrella", "accordion", "typewriter", "lantern"},
	"PLURAL_NOUN": {"marbles", "penguins", "teacups", "blueprints", "harmonicas"},
	"ADJECTIVE":   {"suspicious", "glittering", "wobbly", "ancient", "overcaffeinated"},
	"VERB":        {"juggle", "whisper", "catapult", "serenade", "investigate"},
	"VERB_ING":    {"yodeling", "sprinting", "daydreaming", "moonwalking", "whittling"},
	"PLACE":       {"observatory", "lighthouse", "night market", "botanical garden", "clock tower"},
	"ANIMAL":      {"walrus", "heron", "armadillo", "lynx", "octopus"},
	"OCCUPATION":  {"locksmith", "cartographer", "beekeeper", "trapeze artist", "archivist"},
	"FOOD":        {"dumplings", "marmalade", "bisque", "gingerbread", "pierogi"},
	"COLOR":       {"vermilion", "teal", "ochre", "periwinkle", "charcoal"},
	"NUMBER":      {"seven", "thirteen", "forty-two", "ninety-nine", "three"},
	"BODY_PART":   {"elbow", "eyebrow", "kneecap", "earlobe", "pinky"},
}

// WordBankGenerator picks a fill deterministically from a fixed bank, keyed
// by tag and genre. It is the default generator and the test double for the
// hosted model.
type WordBankGenerator struct{}

func (WordBankGenerator) GenerateWord(_ context.Context, tag string, genre string) (string, error) {
	tag = strings.ToUpper(strings.TrimSpace(tag))
	words, exists := wordBank[tag]
	if !exists {
		words = wordBank["NOUN"]
	}

	h := fnv.New32a()
	h.Write([]byte(tag))
	h.Write([]byte(strings.ToLower(strings.TrimSpace(genre))))
	return words[int(h.Sum32())%len(words)], nil
}
