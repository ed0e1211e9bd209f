package service

import (
	"context"
	"strings"

	"book_catalog/internal/common"
	"book_catalog/internal/models"
	"book_catalog/internal/repository"

	"github.com/gosimple/slug"
)

type CatalogService struct {
	catalog repository.Catalog
}

func NewCatalogService(catalog repository.Catalog) *CatalogService {
	return &CatalogService{catalog: catalog}
}

func (s *CatalogService) ListBooks(ctx context.Context) ([]models.Book, error) {
	return s.catalog.List(ctx)
}

func (s *CatalogService) BookByISBN(ctx context.Context, isbn string) (models.Book, error) {
	return s.catalog.Get(ctx, isbn)
}

// BooksByAuthor matches author names case-insensitively. Names that slugify
// identically ("Honore de Balzac" and "Honoré de Balzac") also match.
// Returns common.ErrBookNotFound when nothing matches.
func (s *CatalogService) BooksByAuthor(ctx context.Context, author string) ([]models.Book, error) {
	want := slug.Make(author)
	return s.filter(ctx, func(b models.Book) bool {
		if strings.EqualFold(b.Author, author) {
			return true
		}
		return want != "" && slug.Make(b.Author) == want
	})
}

// BooksByTitle matches a case-insensitive substring of the title.
func (s *CatalogService) BooksByTitle(ctx context.Context, title string) ([]models.Book, error) {
	needle := strings.ToLower(title)
	return s.filter(ctx, func(b models.Book) bool {
		return strings.Contains(strings.ToLower(b.Title), needle)
	})
}

func (s *CatalogService) BookReviews(ctx context.Context, isbn string) (map[string]string, error) {
	b, err := s.catalog.Get(ctx, isbn)
	if err != nil {
		return nil, err
	}
	if b.Reviews == nil {
		return map[string]string{}, nil
	}
	return b.Reviews, nil
}

func (s *CatalogService) filter(ctx context.Context, keep func(models.Book) bool) ([]models.Book, error) {
	books, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Book, 0, len(books))
	for _, b := range books {
		if keep(b) {
			out = append(out, b)
		}
	}
	if len(out) == 0 {
		return nil, common.ErrBookNotFound
	}
	return out, nil
}
