package product

import (
	"github.com/angelmondragon/textilehouse-backend/pkg/enums"
	"github.com/angelmondragon/textilehouse-backend/pkg/pagination"
)

// ListProductsInput filters and paginates the catalog.
type ListProductsInput struct {
	Category        *enums.ProductCategory
	IncludeInactive bool
	Pagination      pagination.Params
}

// ProductListResult is one page of catalog entries.
type ProductListResult struct {
	Products   []Detail
	NextCursor string
}
