package category

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/Faltri/imposter-word-game/domain"
)

//go:embed categories.json
var embedded []byte

type file struct {
	Categories []domain.Category `json:"categories"`
}

// Store is the read-only category catalogue.
type Store struct {
	categories []domain.Category
	byID       map[string]int
}

// New validates every category and indexes it by id.
func New(categories []domain.Category) (*Store, error) {
	if len(categories) == 0 {
		return nil, domain.ErrNoCategories
	}
	s := &Store{
		categories: make([]domain.Category, 0, len(categories)),
		byID:       make(map[string]int, len(categories)),
	}
	for _, c := range categories {
		normalized, err := domain.NormalizeCategory(c)
		if err != nil {
			return nil, err
		}
		if normalized.ID == "" {
			return nil, fmt.Errorf("%w: %q has no id", domain.ErrInvalidCategory, normalized.Name)
		}
		if _, dup := s.byID[normalized.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", domain.ErrInvalidCategory, normalized.ID)
		}
		if normalized.Language == "" {
			normalized.Language = domain.LanguageEnglish
		}
		s.byID[normalized.ID] = len(s.categories)
		s.categories = append(s.categories, normalized)
	}
	return s, nil
}

// Parse decodes the `{"categories": [...]}` document format.
func Parse(data []byte) (*Store, error) {
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing categories: %w", err)
	}
	return New(f.Categories)
}

// Load reads a categories document from disk.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}

// Default returns the store built from the embedded word lists.
func Default() *Store {
	s, err := Parse(embedded)
	if err != nil {
		panic("embedded categories are invalid: " + err.Error())
	}
	return s
}

func (s *Store) All() []domain.Category {
	return slices.Clone(s.categories)
}

func (s *Store) Get(id string) (domain.Category, bool) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Category{}, false
	}
	return s.categories[i], true
}

// Resolve returns the pool a round draws from. Unknown ids are ignored. An empty
// selection falls back to the whole store. With localized set, the pool is narrowed to
// the given language when that leaves anything to draw from.
func (s *Store) Resolve(ids []string, lang domain.Language, localized bool) []domain.Category {
	pool := make([]domain.Category, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.Get(id); ok {
			pool = append(pool, c)
		}
	}
	if len(pool) == 0 {
		pool = s.All()
	}
	if !localized {
		return pool
	}

	if narrowed := byLanguage(pool, lang); len(narrowed) > 0 {
		return narrowed
	}
	if narrowed := byLanguage(s.categories, lang); len(narrowed) > 0 {
		return narrowed
	}
	return pool
}

func byLanguage(categories []domain.Category, lang domain.Language) []domain.Category {
	out := make([]domain.Category, 0, len(categories))
	for _, c := range categories {
		if c.Language == lang {
			out = append(out, c)
		}
	}
	return out
}
