package catalog

import (
	"github.com/go-faster/errors"
)

var (
	// ErrNoEligibleOffer means no offer meets the free-shipping threshold.
	ErrNoEligibleOffer = errors.New("catalog: no eligible offer")

	// ErrInvalidPrice means the chosen offer has a missing or negative price.
	ErrInvalidPrice = errors.New("catalog: invalid price")

	// ErrMissingIdentity means a product has neither an id nor a brand and name.
	ErrMissingIdentity = errors.New("catalog: missing identity")
)
