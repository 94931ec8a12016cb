package handlers

import (
	"context"
	"time"
)

// BrowseStats returns the visible-listing count and latest update time for a
// (location, directory) scope. It backs ETag generation on the public browse
// endpoint.
type BrowseStats func(ctx context.Context, locationID, directoryID string) (int64, *time.Time, error)

// Handlers bundles the HTTP handler dependencies. Construct with New and
// register the methods on a Gin router.
type Handlers struct {
	biz BusinessService
	mod ModerationService
	cat CatalogService

	receipts   ReceiptStore
	receiptTTL time.Duration

	browseStats BrowseStats
}

// New wires the handler set. receipts and browseStats may be nil, disabling
// idempotent replays and ETags respectively.
func New(biz BusinessService, mod ModerationService, cat CatalogService, receipts ReceiptStore, receiptTTL time.Duration, stats BrowseStats) *Handlers {
	return &Handlers{
		biz:         biz,
		mod:         mod,
		cat:         cat,
		receipts:    receipts,
		receiptTTL:  receiptTTL,
		browseStats: stats,
	}
}
