package extract

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aluiziolira/go-scrape-products/container"
	"github.com/aluiziolira/go-scrape-products/models"
)

// Assembler turns one product container into a ProductRecord. Every
// extractor runs in isolation: a failing extractor leaves its default and
// never aborts the record.
type Assembler struct {
	logger   *slog.Logger
	observer Observer
}

// NewAssembler builds an assembler. Nil arguments fall back to
// slog.Default() and a no-op observer.
func NewAssembler(logger *slog.Logger, observer Observer) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Assembler{logger: logger, observer: observer}
}

// ProfileFor returns the built-in profile reading containers of kind.
func ProfileFor(kind container.Kind) *Profile {
	for _, p := range Profiles {
		if p.Kind == kind {
			return p
		}
	}
	return nil
}

// Assemble builds the record for a standalone container. The position is
// taken from the container when it carries one, else 0.
//
// A missing identifier returns (nil, ErrMissingIdentifier). Isolated
// extractor failures return the record together with a FieldErrors value.
func (a *Assembler) Assemble(c container.Container) (*models.ProductRecord, error) {
	if c == nil {
		return nil, ErrMissingIdentifier
	}
	p := ProfileFor(c.Kind())
	if p == nil {
		return nil, fmt.Errorf("no profile for %s containers", c.Kind())
	}
	return a.assemble(c, p, 0, 0)
}

// AssembleWith builds the record using an explicit profile. fallback is the
// position used when the container does not carry one.
func (a *Assembler) AssembleWith(c container.Container, p *Profile, fallback, page int) (*models.ProductRecord, error) {
	return a.assemble(c, p, fallback, page)
}

func (a *Assembler) assemble(c container.Container, p *Profile, fallback, page int) (*models.ProductRecord, error) {
	var errs FieldErrors

	id := guard(a, &errs, "identifier", "", func() string {
		return strings.TrimSpace(p.Identifier.First(c))
	})
	if id == "" {
		return nil, ErrMissingIdentifier
	}

	position := guard(a, &errs, "position", fallback, func() int {
		if n, err := strconv.Atoi(p.Position.First(c)); err == nil {
			return n
		}
		return fallback
	})

	l := guard(a, &errs, "text", &listing{c: c, p: p, position: position, page: page}, func() *listing {
		return newListing(c, p, position, page)
	})

	rec := models.NewProductRecord(id)
	rec.Title = guard(a, &errs, "title", models.EmptyTitle(), func() models.Title { return extractTitle(l) })
	rec.Brand = guard(a, &errs, "brand", models.EmptyBrand(), func() models.Brand { return extractBrand(l) })
	rec.Pricing = guard(a, &errs, "pricing", models.EmptyPricing(), func() models.Pricing { return extractPricing(l) })
	rec.Images = guard(a, &errs, "images", models.EmptyImages(), func() models.Images { return extractImages(l) })
	rec.Reviews = guard(a, &errs, "reviews", models.EmptyReviews(), func() models.Reviews { return extractReviews(l) })
	rec.Links = guard(a, &errs, "links", models.EmptyLinks(), func() models.Links { return extractLinks(l) })
	rec.Shipping = guard(a, &errs, "shipping", models.EmptyShipping(), func() models.Shipping { return extractShipping(l) })
	rec.Variants = guard(a, &errs, "variants", models.EmptyVariants(), func() models.Variants { return extractVariants(l) })
	rec.Categories = guard(a, &errs, "categories", models.EmptyCategories(), func() models.Categories { return extractCategories(l) })
	rec.Advertising = guard(a, &errs, "advertising", models.EmptyAdvertising(), func() models.Advertising { return extractAdvertising(l) })
	rec.Badges = guard(a, &errs, "badges", models.EmptyBadges(), func() models.Badges { return extractBadges(l) })
	rec.Dimensions = guard(a, &errs, "dimensions", models.Dimensions{}, func() models.Dimensions { return extractDimensions(l) })
	rec.Metadata = guard(a, &errs, "metadata", models.EmptyMetadata(), func() models.Metadata { return extractMetadata(l, rec) })

	if len(errs) > 0 {
		for _, e := range errs {
			a.logger.Warn("extractor failed",
				slog.String("identifier", id),
				slog.String("field", e.Field),
				slog.Any("error", e.Err),
			)
		}
		return rec, errs
	}
	return rec, nil
}

// guard runs fn and substitutes fallback when it panics.
func guard[T any](a *Assembler, errs *FieldErrors, field string, fallback T, fn func() T) (out T) {
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("%v", r)
			}
			*errs = append(*errs, &ExtractorError{Field: field, Err: err})
			a.observer.IncExtractorFailure(field)
			out = fallback
		}
	}()
	return fn()
}
