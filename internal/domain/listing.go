package domain

import "github.com/utafrali/sportsstore/pkg/pagination"

// ProductListing is one page of the catalog plus navigation data.
type ProductListing struct {
	Products        []Product             `json:"products"`
	Paging          pagination.PagingInfo `json:"paging"`
	Categories      []string              `json:"categories"`
	CurrentCategory string                `json:"current_category,omitempty"`
}
