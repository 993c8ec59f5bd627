package catalog

import (
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/shopexplorer/storefront/pkg/config"
	pkgerrors "github.com/shopexplorer/storefront/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ListFilter describes the supported filter knobs for the product listing.
// Zero values mean "not set" and are omitted from the request.
type ListFilter struct {
	Title      string `validate:"max=128"`
	CategoryID int    `validate:"min=0"`
	Offset     int    `validate:"min=0"`
	Limit      int    `validate:"min=0"`
}

// normalize validates the filter and applies the configured page size bounds.
func (f ListFilter) normalize(cfg config.CatalogConfig) (ListFilter, error) {
	if err := validate.Struct(f); err != nil {
		return ListFilter{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product filter")
	}
	if f.Limit <= 0 {
		f.Limit = cfg.DefaultLimit
	}
	if cfg.MaxLimit > 0 && f.Limit > cfg.MaxLimit {
		return ListFilter{}, pkgerrors.New(pkgerrors.CodeValidation, "limit exceeds maximum page size").
			WithDetails(map[string]int{"limit": f.Limit, "max": cfg.MaxLimit})
	}
	return f, nil
}

// query encodes only the set fields, mirroring the upstream API contract.
func (f ListFilter) query() url.Values {
	params := url.Values{}
	if f.Title != "" {
		params.Set("title", f.Title)
	}
	if f.CategoryID > 0 {
		params.Set("categoryId", strconv.Itoa(f.CategoryID))
	}
	if f.Offset > 0 {
		params.Set("offset", strconv.Itoa(f.Offset))
	}
	if f.Limit > 0 {
		params.Set("limit", strconv.Itoa(f.Limit))
	}
	return params
}

// cacheID keys the cached response for this filter.
func (f ListFilter) cacheID() string {
	encoded := f.query().Encode()
	if encoded == "" {
		return "all"
	}
	return encoded
}
