package filestore

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
)

// ExperimentIDFixedWidth is the number of digits in a generated
// experiment id.
const ExperimentIDFixedWidth = 18

// newRunID returns a 32-character hex run identifier.
func newRunID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// newExperimentID returns a random, fixed-width numeric experiment id.
// Collisions against existing directories are the caller's
// responsibility to retry (Store.CreateExperiment does so).
func newExperimentID() string {
	max := int64(1)
	for i := 0; i < ExperimentIDFixedWidth; i++ {
		max *= 10
	}
	n := rand.Int63n(max)
	return fmt.Sprintf("%0*d", ExperimentIDFixedWidth, n)
}

// runNamePredicates is a representative slice of adjectives the name
// generator draws from. A generated run name always has the shape
// "<predicate>-<noun>" so callers can recover the predicate via
// strings.Split(name, "-")[0].
var runNamePredicates = []string{
	"able", "abundant", "adaptable", "agreeable", "amazing", "amusing",
	"auspicious", "bittersweet", "bouncy", "brawny", "bright", "capable",
	"carefree", "caring", "casual", "charming", "chill", "clumsy",
	"colorful", "crawling", "dapper", "debonair", "delicate", "delightful",
	"efficient", "enchanting", "endearing", "enthused", "exultant",
	"fortunate", "funny", "gaudy", "gentle", "glamorous", "grandiose",
	"gregarious", "handsome", "hilarious", "illustrious", "incongruous",
	"indecisive", "industrious", "intelligent", "inquisitive", "judicious",
	"legendary", "learned", "luminous", "luxuriant", "masked", "mercurial",
	"monumental", "mysterious", "nebulous", "nervous", "overjoyed",
	"painted", "persistent", "placid", "polite", "popular", "puzzled",
	"rambunctious", "rare", "rebellious", "respected", "resilient",
	"righteous", "rogue", "rumbling", "salty", "secretive", "selective",
	"sedate", "serious", "shivering", "skittish", "silent", "sincere",
	"skillful", "sneaky", "snarky", "sophisticated", "stately", "stylish",
	"suave", "sunken", "surprisingly", "suspicious", "tasteful", "thoughtful",
	"thundering", "traveling", "treasured", "trusting", "unequaled",
	"upbeat", "unique", "unleashed", "unruly", "useful", "vaunted",
	"victorious", "welcoming", "whimsical", "wise", "worried", "youthful",
	"zealous",
}

// runNameNouns is a representative slice of nouns (historically famous
// scientists, in the spirit of the generator this store replaces) the
// generator pairs a predicate with.
var runNameNouns = []string{
	"archimedes", "banach", "bohr", "brahe", "cantor", "cauchy",
	"curie", "darwin", "einstein", "euclid", "euler", "fermat",
	"fermi", "galileo", "gauss", "goodall", "hawking", "hodgkin",
	"hopper", "hypatia", "kepler", "lamarr", "lavoisier", "lovelace",
	"mendel", "newton", "noether", "pasteur", "planck", "ramanujan",
	"sagan", "tesla", "turing", "volta",
}

// generateRunName synthesizes a run name using the predicate/noun
// generator, used when a caller omits run_name at creation time.
func generateRunName() string {
	predicate := runNamePredicates[rand.Intn(len(runNamePredicates))]
	noun := runNameNouns[rand.Intn(len(runNameNouns))]
	return fmt.Sprintf("%s-%s", predicate, noun)
}
