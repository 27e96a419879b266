package dex

import (
	"context"
	"encoding/json"

	"github.com/bimakw/aptos-dex-aggregator/internal/domain/entities"
	"github.com/bimakw/aptos-dex-aggregator/internal/infrastructure/aptos"
)

// QuoteSource produces at most one quote per request from a single venue
type QuoteSource interface {
	Quote(ctx context.Context, req entities.QuoteRequest) (*entities.Quote, error)

	// Name returns the venue identifier
	Name() entities.DEXType
}

// ViewCaller runs read-only Move view functions
type ViewCaller interface {
	View(ctx context.Context, req aptos.ViewRequest) ([]json.RawMessage, error)
}
