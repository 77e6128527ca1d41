package search

import "strings"

// corrections maps common manufacturer misspellings to the right name.
// Identity pairs are kept so known-good names are recognised.
var corrections = map[string]string{
	"toyta":     "toyota",
	"honda":     "honda",
	"fordd":     "ford",
	"bmww":      "bmw",
	"vw":        "volkswagen",
	"vauxhal":   "vauxhall",
	"mercedez":  "mercedes",
	"nissann":   "nissan",
	"mazdaa":    "mazda",
	"subaruu":   "subaru",
	"hyunda":    "hyundai",
	"kiaa":      "kia",
	"audii":     "audi",
	"lexuss":    "lexus",
	"teslla":    "tesla",
	"jagaur":    "jaguar",
	"landrover": "land rover",
	"volvoo":    "volvo",
	"seat":      "seat",
	"skoda":     "skoda",
	"peugot":    "peugeot",
	"renaultt":  "renault",
	"citreon":   "citroen",
	"fiat":      "fiat",
	"alfaromeo": "alfa romeo",
}

// Correct fixes known manufacturer misspellings in text. Tokens are split on
// whitespace and rejoined with single spaces, so runs of whitespace collapse.
// Tokens with no correction keep their original casing.
func Correct(text string) string {
	tokens := strings.Fields(text)
	for i, token := range tokens {
		if fixed, ok := corrections[strings.ToLower(token)]; ok {
			tokens[i] = fixed
		}
	}
	return strings.Join(tokens, " ")
}
