// Package datagen produces the synthetic financial dataset: customers,
// merchants, accounts and transactions with referential consistency.
package datagen

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// Faker wraps a seeded gofakeit source. Every generator phase draws from
// the same explicitly passed Faker, so a fixed seed reproduces the whole
// dataset and no phase depends on a global random source.
type Faker struct {
	faker *gofakeit.Faker
}

// NewFaker creates a Faker seeded from the current time.
func NewFaker() *Faker {
	return &Faker{faker: gofakeit.New(uint64(time.Now().UnixNano()))}
}

// NewFakerWithSeed creates a Faker with a specific seed for reproducibility.
func NewFakerWithSeed(seed uint64) *Faker {
	return &Faker{faker: gofakeit.New(seed)}
}

// FirstName generates a random first name.
func (f *Faker) FirstName() string {
	return f.faker.FirstName()
}

// LastName generates a random last name.
func (f *Faker) LastName() string {
	return f.faker.LastName()
}

// Email generates a random email address.
func (f *Faker) Email() string {
	return f.faker.Email()
}

// Phone generates a random phone number.
func (f *Faker) Phone() string {
	return f.faker.Phone()
}

// Street generates a random street address.
func (f *Faker) Street() string {
	return f.faker.Street()
}

// City generates a random city name.
func (f *Faker) City() string {
	return f.faker.City()
}

// State generates a random US state abbreviation.
func (f *Faker) State() string {
	return f.faker.StateAbr()
}

// Zip generates a random US ZIP code.
func (f *Faker) Zip() string {
	return f.faker.Zip()
}

// Company generates a random company name.
func (f *Faker) Company() string {
	return f.faker.Company()
}

// Sentence generates a random sentence.
func (f *Faker) Sentence(wordCount int) string {
	return f.faker.Sentence(wordCount)
}

// DateRange generates a random time within [start, end].
func (f *Faker) DateRange(start, end time.Time) time.Time {
	return f.faker.DateRange(start, end)
}

// Int generates a random integer between min and max (inclusive).
func (f *Faker) Int(min, max int) int {
	return f.faker.IntRange(min, max)
}

// Float64 generates a random float64 between min and max.
func (f *Faker) Float64(min, max float64) float64 {
	return f.faker.Float64Range(min, max)
}

// Digits generates a random string of digits of length n.
func (f *Faker) Digits(n int) string {
	return f.faker.DigitN(uint(n))
}

// Choose returns a random element from the given slice.
func Choose[T any](f *Faker, items []T) T {
	if len(items) == 0 {
		var zero T
		return zero
	}
	return items[f.Int(0, len(items)-1)]
}

// ChooseWeighted returns a random element based on weights. Weights must
// be positive; validate with CheckWeights before building a distribution.
func ChooseWeighted[T any](f *Faker, items []T, weights []int) T {
	if len(items) == 0 || len(weights) == 0 {
		var zero T
		return zero
	}

	totalWeight := 0
	for _, w := range weights {
		totalWeight += w
	}

	r := f.Int(1, totalWeight)
	cumulative := 0
	for i, w := range weights {
		cumulative += w
		if r <= cumulative {
			return items[i]
		}
	}

	return items[len(items)-1]
}

// Truncate truncates a string to max length if needed.
func Truncate(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen]
	}
	return s
}
