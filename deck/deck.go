package deck

import (
	"log"
	"math/rand"

	"github.com/milk9111/commandclash/prefabs"
)

type Choice struct {
	Text        string
	Description string
}

type Card struct {
	ID           string
	Name         string
	Type         string
	Pack         string
	Description  string
	Illustration string
	Choices      []Choice
}

// Deck is a pool of cards drawn without replacement.
type Deck struct {
	rng   *rand.Rand
	pool  []Card
	drawn []Card
}

// New returns a deck over cards. A nil rng is replaced by one seeded with 1.
func New(cards []Card, rng *rand.Rand) *Deck {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Deck{rng: rng, pool: append([]Card(nil), cards...)}
}

// FromSpec flattens every pack into one pool. Packs without cards are
// skipped with a log line.
func FromSpec(spec *prefabs.CardsSpec, rng *rand.Rand) *Deck {
	var cards []Card
	if spec != nil {
		for _, pack := range spec.Packs {
			if len(pack.Cards) == 0 {
				log.Printf("deck: pack %q has no cards", pack.Name)
				continue
			}
			for _, cs := range pack.Cards {
				c := Card{
					ID:           cs.ID,
					Name:         cs.Name,
					Type:         cs.Type,
					Pack:         pack.Name,
					Description:  cs.Description,
					Illustration: cs.Illustration,
				}
				for _, ch := range cs.Choices {
					c.Choices = append(c.Choices, Choice{Text: ch.Text, Description: ch.Description})
				}
				cards = append(cards, c)
			}
		}
	}
	return New(cards, rng)
}

// Load reads cards.yaml.
func Load(rng *rand.Rand) (*Deck, error) {
	spec, err := prefabs.LoadCardsSpec()
	if err != nil {
		return nil, err
	}
	return FromSpec(spec, rng), nil
}

// Draw removes a random card from the pool. It reports false once the pool
// is empty.
func (d *Deck) Draw() (Card, bool) {
	if len(d.pool) == 0 {
		return Card{}, false
	}
	i := d.rng.Intn(len(d.pool))
	c := d.pool[i]
	d.pool = append(d.pool[:i], d.pool[i+1:]...)
	d.drawn = append(d.drawn, c)
	return c, true
}

func (d *Deck) Remaining() int { return len(d.pool) }

// Drawn returns the cards drawn so far in draw order.
func (d *Deck) Drawn() []Card {
	return append([]Card(nil), d.drawn...)
}

// Reset returns every drawn card to the pool.
func (d *Deck) Reset() {
	d.pool = append(d.pool, d.drawn...)
	d.drawn = nil
}
