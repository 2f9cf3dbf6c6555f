package api

import (
	"net/http"
	"time"

	"assetgraph/backend/internal/graph"
	"assetgraph/backend/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// assetRequest is the flat JSON body accepted for asset creation and
// update; class selects which variant fields apply.
type assetRequest struct {
	ID       string            `json:"id"`
	Name     string            `json:"name" binding:"required"`
	Class    string            `json:"class" binding:"required"`
	Metadata map[string]string `json:"metadata"`

	// Equity
	Ticker   string `json:"ticker"`
	Exchange string `json:"exchange"`
	Sector   string `json:"sector"`

	// Bond
	Issuer     string  `json:"issuer"`
	Maturity   string  `json:"maturity"` // RFC 3339 or 2006-01-02
	CouponRate float64 `json:"coupon_rate"`

	// Currency
	CodeISO string `json:"code_iso"`
	Country string `json:"country"`

	// Commodity
	Unit          string `json:"unit"`
	DeliveryMonth string `json:"delivery_month"`
}

func (r assetRequest) toAsset() (graph.Asset, error) {
	base := graph.AssetBase{ID: r.ID, Name: r.Name, Metadata: r.Metadata}
	switch graph.AssetClass(r.Class) {
	case graph.ClassEquity:
		return graph.Equity{AssetBase: base, Ticker: r.Ticker, Exchange: r.Exchange, Sector: r.Sector}, nil
	case graph.ClassBond:
		var maturity time.Time
		if r.Maturity != "" {
			var err error
			maturity, err = parseDate(r.Maturity)
			if err != nil {
				return nil, errors.NewValidation("maturity", "must be RFC 3339 or YYYY-MM-DD")
			}
		}
		return graph.Bond{AssetBase: base, Issuer: r.Issuer, Maturity: maturity, CouponRate: r.CouponRate}, nil
	case graph.ClassCurrency:
		return graph.Currency{AssetBase: base, CodeISO: r.CodeISO, Country: r.Country}, nil
	case graph.ClassCommodity:
		return graph.Commodity{AssetBase: base, Unit: r.Unit, DeliveryMonth: r.DeliveryMonth}, nil
	default:
		return nil, errors.NewValidation("class", "unknown asset class: "+r.Class)
	}
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func (s *Server) createAsset(c *gin.Context) {
	var req assetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	asset, err := req.toAsset()
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.graph.AddAsset(asset); err != nil {
		s.writeError(c, err)
		return
	}

	if s.loader != nil {
		if err := s.loader.SaveAsset(c.Request.Context(), asset); err != nil {
			s.logger.Error("Write-through failed for asset", zap.String("id", asset.Base().ID), zap.Error(err))
			s.writeError(c, err)
			return
		}
	}

	c.JSON(http.StatusCreated, asset)
}

func (s *Server) listAssets(c *gin.Context) {
	snap, err := s.graph.VisualizationData(graph.VisualizationFilter{})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assets": snap.Assets, "count": len(snap.Assets)})
}

func (s *Server) getAsset(c *gin.Context) {
	asset, err := s.graph.GetAsset(c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, asset)
}

func (s *Server) updateAsset(c *gin.Context) {
	var req assetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ID = c.Param("id")

	asset, err := req.toAsset()
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.graph.UpdateAsset(asset); err != nil {
		s.writeError(c, err)
		return
	}

	if s.loader != nil {
		if err := s.loader.SaveAsset(c.Request.Context(), asset); err != nil {
			s.logger.Error("Write-through failed for asset", zap.String("id", asset.Base().ID), zap.Error(err))
			s.writeError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, asset)
}

func (s *Server) deleteAsset(c *gin.Context) {
	id := c.Param("id")
	if err := s.graph.RemoveAsset(id); err != nil {
		s.writeError(c, err)
		return
	}

	if s.loader != nil {
		if err := s.loader.DeleteAsset(c.Request.Context(), id); err != nil {
			s.logger.Error("Write-through failed for asset delete", zap.String("id", id), zap.Error(err))
			s.writeError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
