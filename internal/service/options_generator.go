package service

import (
	"math/rand"
	"strings"
	"sync"

	"github.com/aliskhannn/english-course-bot/internal/domain/entities"
)

const maxDistractors = 3

// OptionGenerator draws multiple choice options and samples from a random
// source. The source is injected so question generation can be reproduced.
type OptionGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewOptionGenerator creates a new option generator.
func NewOptionGenerator(rng *rand.Rand) *OptionGenerator {
	return &OptionGenerator{rng: rng}
}

// Options returns the correct answer plus up to 3 distinct distractors from
// pool, shuffled, and the index of the correct answer. Candidates equal to
// the correct answer (ignoring case) are never used as distractors.
func (g *OptionGenerator) Options(correct string, pool []string) ([]string, int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	candidates := make([]string, len(pool))
	copy(candidates, pool)
	g.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	options := make([]string, 0, 1+maxDistractors)
	options = append(options, correct)
	for _, c := range candidates {
		if len(options) > maxDistractors {
			break
		}
		if c == "" || containsFold(options, c) {
			continue
		}
		options = append(options, c)
	}

	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	correctIndex := 0
	for i, opt := range options {
		if opt == correct {
			correctIndex = i
			break
		}
	}

	return options, correctIndex
}

// Sample returns up to n distinct random indices in [0, total).
func (g *OptionGenerator) Sample(total, n int) []int {
	g.mu.Lock()
	defer g.mu.Unlock()

	perm := g.rng.Perm(total)
	if n < len(perm) {
		perm = perm[:n]
	}
	return perm
}

// Intn returns a random int in [0, n).
func (g *OptionGenerator) Intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Intn(n)
}

// ShuffleQuestions reorders questions in place.
func (g *OptionGenerator) ShuffleQuestions(questions []entities.Question) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rng.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
