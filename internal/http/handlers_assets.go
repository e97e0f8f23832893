package http

import (
	"net/http"

	"pftracker/internal/core"
	applog "pftracker/internal/log"
)

type assetView struct {
	core.Asset
	PurchaseValueDisplay string `json:"purchase_value_display"`
}

func (s *Server) assetView(a core.Asset) assetView {
	return assetView{Asset: a, PurchaseValueDisplay: core.FormatAmount(a.PurchaseValue.Decimal, s.currency)}
}

func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	assets := s.state.Assets()
	out := make([]assetView, len(assets))
	for i, a := range assets {
		out[i] = s.assetView(a)
	}
	JSON(out).Write(w)
}

func (s *Server) handleCreateAsset(w http.ResponseWriter, r *http.Request) {
	p, ok := decodeBody(w, r)
	if !ok {
		return
	}
	asset, err := parseAsset(p)
	if err != nil {
		FromError(err).Write(w)
		return
	}

	created, err := s.state.AddAsset(r.Context(), asset)
	if err != nil {
		s.logFailure(r, applog.OpCreate, err)
		FromError(err).Write(w)
		return
	}
	JSON(s.assetView(created)).Status(http.StatusCreated).Write(w)
}

// handleLookups returns every taxonomy with asset_types always present.
func (s *Server) handleLookups(w http.ResponseWriter, r *http.Request) {
	lookups := s.state.Lookups()
	lookups[core.LookupAssetTypes] = s.state.AssetTypes()
	JSON(lookups).Write(w)
}

func (s *Server) handleLiquidations(w http.ResponseWriter, r *http.Request) {
	JSON(s.state.Liquidations()).Write(w)
}
