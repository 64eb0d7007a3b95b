package services

import (
	"errors"
	"fmt"
	"strings"

	"finance-tracker/internal/models"

	"github.com/agnivade/levenshtein"
)

// maxCategoryDistance is the largest edit distance still treated as a typo.
const maxCategoryDistance = 2

var (
	ErrInvalidCategory      = errors.New("invalid category")
	ErrCategoryTypeMismatch = fmt.Errorf("%w: category does not match transaction type", ErrInvalidCategory)
)

type categoryService struct {
	catalogue []models.Category
}

// NewCategoryService creates a new CategoryServiceInterface instance
func NewCategoryService() CategoryServiceInterface {
	return &categoryService{
		catalogue: models.AllCategories(),
	}
}

// ListCategories returns the catalogue, optionally narrowed to one
// transaction type.
func (s *categoryService) ListCategories(transactionType string) []models.Category {
	return models.CategoriesForType(strings.ToUpper(strings.TrimSpace(transactionType)))
}

// ResolveCategory maps user input onto a catalogue id. Ids and display names
// match exactly after normalization; otherwise the closest entry within
// maxCategoryDistance edits wins. The result must belong to transactionType.
func (s *categoryService) ResolveCategory(input, transactionType string) (string, error) {
	normalized := normalizeForMatching(input)
	if normalized == "" {
		return "", ErrInvalidCategory
	}

	category, ok := s.exactMatch(normalized)
	if !ok {
		category, ok = s.closestMatch(normalized, transactionType)
	}
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, input)
	}

	if transactionType != "" && category.Type != transactionType {
		return "", ErrCategoryTypeMismatch
	}

	return category.ID, nil
}

func (s *categoryService) exactMatch(normalized string) (models.Category, bool) {
	for _, c := range s.catalogue {
		if normalizeForMatching(c.ID) == normalized || normalizeForMatching(c.Name) == normalized {
			return c, true
		}
	}
	return models.Category{}, false
}

// closestMatch prefers categories of transactionType; ties keep catalogue order.
func (s *categoryService) closestMatch(normalized, transactionType string) (models.Category, bool) {
	var best models.Category
	bestDistance := maxCategoryDistance + 1

	for _, c := range s.catalogue {
		if transactionType != "" && c.Type != transactionType {
			continue
		}
		for _, candidate := range []string{c.ID, c.Name} {
			d := levenshtein.ComputeDistance(normalized, normalizeForMatching(candidate))
			if d < bestDistance {
				best, bestDistance = c, d
			}
		}
	}

	return best, bestDistance <= maxCategoryDistance
}

// normalizeForMatching normalizes strings for consistent matching
func normalizeForMatching(s string) string {
	s = strings.ToLower(s)
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "&", "")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, ".", "")
	return s
}
