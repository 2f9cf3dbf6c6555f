package graph

import (
	"fmt"
	"time"
)

// ============================================================================
// Asset Variants
// ============================================================================

// AssetClass identifies the kind of financial instrument
type AssetClass string

const (
	ClassEquity    AssetClass = "equity"
	ClassBond      AssetClass = "bond"
	ClassCurrency  AssetClass = "currency"
	ClassCommodity AssetClass = "commodity"
)

// ValidAssetClass reports whether c is a known asset class
func ValidAssetClass(c AssetClass) bool {
	switch c {
	case ClassEquity, ClassBond, ClassCurrency, ClassCommodity:
		return true
	}
	return false
}

// AssetBase holds the fields shared by every asset variant
type AssetBase struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Asset is the tagged-variant interface implemented by Equity, Bond,
// Currency and Commodity. Implementations are value types; the store
// copies them on the way in and out.
type Asset interface {
	Base() AssetBase
	Class() AssetClass
	// Summary is a short per-class description used in hover text
	Summary() string
	clone() Asset
}

// Equity represents a listed share
type Equity struct {
	AssetBase
	Ticker   string `json:"ticker,omitempty"`
	Exchange string `json:"exchange,omitempty"`
	Sector   string `json:"sector,omitempty"`
}

func (e Equity) Base() AssetBase   { return e.AssetBase }
func (e Equity) Class() AssetClass { return ClassEquity }

func (e Equity) Summary() string {
	if e.Ticker != "" {
		return fmt.Sprintf("equity %s (%s)", e.Ticker, e.Exchange)
	}
	return "equity"
}

func (e Equity) clone() Asset {
	e.AssetBase = cloneBase(e.AssetBase)
	return e
}

// Bond represents a debt instrument
type Bond struct {
	AssetBase
	Issuer     string    `json:"issuer,omitempty"`
	Maturity   time.Time `json:"maturity,omitempty"`
	CouponRate float64   `json:"coupon_rate,omitempty"`
}

func (b Bond) Base() AssetBase   { return b.AssetBase }
func (b Bond) Class() AssetClass { return ClassBond }

func (b Bond) Summary() string {
	if b.Issuer != "" {
		return fmt.Sprintf("bond issued by %s, %.2f%% coupon", b.Issuer, b.CouponRate)
	}
	return "bond"
}

func (b Bond) clone() Asset {
	b.AssetBase = cloneBase(b.AssetBase)
	return b
}

// Currency represents a fiat currency
type Currency struct {
	AssetBase
	CodeISO string `json:"code_iso,omitempty"`
	Country string `json:"country,omitempty"`
}

func (c Currency) Base() AssetBase   { return c.AssetBase }
func (c Currency) Class() AssetClass { return ClassCurrency }

func (c Currency) Summary() string {
	if c.CodeISO != "" {
		return fmt.Sprintf("currency %s", c.CodeISO)
	}
	return "currency"
}

func (c Currency) clone() Asset {
	c.AssetBase = cloneBase(c.AssetBase)
	return c
}

// Commodity represents a physical commodity contract
type Commodity struct {
	AssetBase
	Unit          string `json:"unit,omitempty"`
	DeliveryMonth string `json:"delivery_month,omitempty"`
}

func (c Commodity) Base() AssetBase   { return c.AssetBase }
func (c Commodity) Class() AssetClass { return ClassCommodity }

func (c Commodity) Summary() string {
	if c.Unit != "" {
		return fmt.Sprintf("commodity per %s", c.Unit)
	}
	return "commodity"
}

func (c Commodity) clone() Asset {
	c.AssetBase = cloneBase(c.AssetBase)
	return c
}

func cloneBase(b AssetBase) AssetBase {
	if b.Metadata != nil {
		md := make(map[string]string, len(b.Metadata))
		for k, v := range b.Metadata {
			md[k] = v
		}
		b.Metadata = md
	}
	return b
}

// ============================================================================
// Relationships
// ============================================================================

// RelationType identifies the semantic of an edge between two assets
type RelationType string

const (
	RelOwns           RelationType = "owns"
	RelCorrelatesWith RelationType = "correlates_with"
	RelRegulates      RelationType = "regulates"
	RelIssuedBy       RelationType = "issued_by"
	RelHedges         RelationType = "hedges"
)

// ValidRelationType reports whether t is a known relationship type
func ValidRelationType(t RelationType) bool {
	switch t {
	case RelOwns, RelCorrelatesWith, RelRegulates, RelIssuedBy, RelHedges:
		return true
	}
	return false
}

// Relationship is a typed, possibly directional edge between two assets
type Relationship struct {
	ID       string            `json:"id"`
	SourceID string            `json:"source_id"`
	TargetID string            `json:"target_id"`
	Type     RelationType      `json:"type"`
	Directed bool              `json:"directed"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func (r Relationship) clone() Relationship {
	if r.Metadata != nil {
		md := make(map[string]string, len(r.Metadata))
		for k, v := range r.Metadata {
			md[k] = v
		}
		r.Metadata = md
	}
	return r
}

// ============================================================================
// Regulatory Events
// ============================================================================

// RegulatoryEvent records a regulator action touching one or more assets.
// Its lifecycle is independent of asset lifecycle except for referential
// validity of AssetIDs.
type RegulatoryEvent struct {
	ID           string    `json:"id"`
	AssetIDs     []string  `json:"asset_ids"`
	Date         time.Time `json:"date"`
	Description  string    `json:"description"`
	ActivityType string    `json:"activity_type"`
}

func (e RegulatoryEvent) clone() RegulatoryEvent {
	e.AssetIDs = append([]string(nil), e.AssetIDs...)
	return e
}

// ============================================================================
// Snapshots
// ============================================================================

// Snapshot is a read-only copy of the graph handed to the layout engine
// and the visualization assembler. Assets are sorted by id so derived
// layouts are deterministic.
type Snapshot struct {
	Assets        []Asset           `json:"assets"`
	Relationships []Relationship    `json:"relationships"`
	Events        []RegulatoryEvent `json:"events,omitempty"`
}

// AssetIDs returns the snapshot's asset ids in snapshot order
func (s Snapshot) AssetIDs() []string {
	ids := make([]string, len(s.Assets))
	for i, a := range s.Assets {
		ids[i] = a.Base().ID
	}
	return ids
}

// EdgePairs returns (source, target) id pairs in snapshot order
func (s Snapshot) EdgePairs() [][2]string {
	pairs := make([][2]string, len(s.Relationships))
	for i, r := range s.Relationships {
		pairs[i] = [2]string{r.SourceID, r.TargetID}
	}
	return pairs
}
