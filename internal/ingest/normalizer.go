// Package ingest converts heterogeneous platform records into the canonical
// domain representation. Normalization is a pure transform: the same raw
// record always yields the same canonical contract.
package ingest

import (
	"fmt"
	"hash/fnv"
	"log/slog"
	"strings"
	"time"

	"github.com/cwoodfield/paritylens/internal/domain"
	"github.com/cwoodfield/paritylens/internal/price"
)

// unknownPrice is used when a platform reports no price at all: maximal
// uncertainty for a binary contract.
var unknownPrice = price.Price(price.Scale / 2)

// Fingerprint returns a deterministic FNV-1a hash of a contract's identity.
// It is stable across refreshes and process restarts.
func Fingerprint(platform domain.Platform, externalID string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(platform))
	h.Write([]byte{0})
	h.Write([]byte(externalID))
	return h.Sum64()
}

// Normalize converts a raw platform record into a canonical Contract.
//
// Price resolution order: last-traded price, then yes price, then 0.5. The
// resolved price is clamped to [0,1]. Volume and liquidity are coerced to
// non-negative values, defaulting to 0 when absent or unparseable.
//
// A record without a platform or external id fails with ErrMalformedRecord.
func Normalize(raw domain.RawContract, now time.Time) (domain.Contract, error) {
	if raw.Platform == "" || strings.TrimSpace(raw.ExternalID) == "" {
		return domain.Contract{}, fmt.Errorf(
			"ingest: platform=%q external_id=%q: %w",
			raw.Platform, raw.ExternalID, domain.ErrMalformedRecord,
		)
	}

	return domain.Contract{
		Fingerprint: Fingerprint(raw.Platform, raw.ExternalID),
		Platform:    raw.Platform,
		ExternalID:  raw.ExternalID,
		Title:       strings.TrimSpace(raw.Title),
		Description: strings.TrimSpace(raw.Description),
		Category:    normalizeCategory(raw.Category),
		Price:       resolvePrice(raw),
		Volume:      nonNegative(raw.Volume),
		Liquidity:   nonNegative(raw.Liquidity),
		Active:      raw.Active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NormalizeBatch converts a batch of raw records, dropping and logging the
// malformed ones. One bad record never aborts the batch.
func NormalizeBatch(raws []domain.RawContract, now time.Time, logger *slog.Logger) []domain.Contract {
	out := make([]domain.Contract, 0, len(raws))
	for _, raw := range raws {
		c, err := Normalize(raw, now)
		if err != nil {
			logger.Warn("ingest: dropping malformed contract record",
				slog.String("platform", string(raw.Platform)),
				slog.String("external_id", raw.ExternalID),
				slog.String("error", err.Error()),
			)
			continue
		}
		out = append(out, c)
	}
	return out
}

// NormalizeLevels converts raw book levels for one contract, dropping
// malformed entries. Level ids are sequence-assigned by the store, never
// random.
func NormalizeLevels(contractID int64, raws []domain.RawOrderBookLevel, logger *slog.Logger) []domain.OrderBookLevel {
	out := make([]domain.OrderBookLevel, 0, len(raws))
	for _, raw := range raws {
		if raw.Side != domain.SideBid && raw.Side != domain.SideAsk {
			logger.Warn("ingest: dropping book level with unknown side",
				slog.Int64("contract_id", contractID),
				slog.String("side", string(raw.Side)),
			)
			continue
		}
		p, err := price.Parse(raw.Price)
		if err != nil || p < 0 {
			logger.Warn("ingest: dropping book level with bad price",
				slog.Int64("contract_id", contractID),
				slog.String("price", raw.Price),
			)
			continue
		}
		size, err := price.Parse(raw.Size)
		if err != nil || size < 0 {
			size = 0
		}
		out = append(out, domain.OrderBookLevel{
			ContractID: contractID,
			Price:      p,
			Size:       size.Float64(),
			Side:       raw.Side,
			At:         raw.At,
		})
	}
	return out
}

func resolvePrice(raw domain.RawContract) price.Price {
	for _, s := range []string{raw.LastPrice, raw.YesPrice} {
		if strings.TrimSpace(s) == "" {
			continue
		}
		p, err := price.Parse(s)
		if err != nil {
			continue
		}
		return p.Clamp(0, price.Price(price.Scale))
	}
	return unknownPrice
}

func nonNegative(s string) price.Price {
	p, err := price.Parse(s)
	if err != nil || p < 0 {
		return 0
	}
	return p
}

func normalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return "General"
	}
	return category
}
