package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/fxnlabs/contract-wrappers/internal/registry"
	"github.com/fxnlabs/contract-wrappers/pkg/orders"
	"github.com/fxnlabs/contract-wrappers/pkg/wrappers"
)

// OrderRequest is the body of the single-order endpoints.
type OrderRequest struct {
	Order        orders.SignedOrder `json:"order"`
	TakerAddress string             `json:"takerAddress"`
}

// OrdersRequest is the body of the batch endpoints.
type OrdersRequest struct {
	Orders         []orders.SignedOrder `json:"orders"`
	TakerAddresses []string             `json:"takerAddresses"`
}

// ArtifactSummary describes one registered contract.
type ArtifactSummary struct {
	Name     string   `json:"name"`
	Address  string   `json:"address,omitempty"`
	Deployed bool     `json:"deployed"`
	Networks []uint64 `json:"networks"`
}

func NewOrderAndTraderInfoHandler(v *wrappers.OrderValidatorWrapper, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OrderRequest
		if !decodeBody(w, r, &req) {
			return
		}
		result, err := v.GetOrderAndTraderInfo(r.Context(), req.Order, req.TakerAddress)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, log, result)
	}
}

func NewOrdersAndTradersInfoHandler(v *wrappers.OrderValidatorWrapper, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OrdersRequest
		if !decodeBody(w, r, &req) {
			return
		}
		result, err := v.GetOrdersAndTradersInfo(r.Context(), req.Orders, req.TakerAddresses)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, log, result)
	}
}

func NewTraderInfoHandler(v *wrappers.OrderValidatorWrapper, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OrderRequest
		if !decodeBody(w, r, &req) {
			return
		}
		result, err := v.GetTraderInfo(r.Context(), req.Order, req.TakerAddress)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, log, result)
	}
}

func NewTradersInfoHandler(v *wrappers.OrderValidatorWrapper, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OrdersRequest
		if !decodeBody(w, r, &req) {
			return
		}
		result, err := v.GetTradersInfo(r.Context(), req.Orders, req.TakerAddresses)
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, log, result)
	}
}

// NewBalanceAndAllowanceHandler serves GET ?address=&assetData=.
func NewBalanceAndAllowanceHandler(v *wrappers.OrderValidatorWrapper, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		result, err := v.GetBalanceAndAllowance(r.Context(), query.Get("address"), query.Get("assetData"))
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, log, result)
	}
}

// NewStakeBalancesHandler serves GET /v1/staking/{owner}.
func NewStakeBalancesHandler(s *wrappers.StakingWrapper, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := s.GetStakeBalances(r.Context(), r.PathValue("owner"))
		if err != nil {
			writeError(w, log, err)
			return
		}
		writeJSON(w, log, result)
	}
}

// NewArtifactsHandler lists every registered contract and its address on
// the network the wrappers target. ?networkId= selects another network.
func NewArtifactsHandler(artifacts *registry.Registry, cw *wrappers.ContractWrappers, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		networkID := cw.NetworkID()
		if raw := r.URL.Query().Get("networkId"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				http.Error(w, "networkId must be an unsigned integer", http.StatusBadRequest)
				return
			}
			networkID = id
		}

		summaries := lo.FilterMap(artifacts.Names(), func(name string, _ int) (ArtifactSummary, bool) {
			artifact, ok := artifacts.Get(name)
			if !ok {
				return ArtifactSummary{}, false
			}
			summary := ArtifactSummary{Name: name, Networks: artifact.NetworkIDs()}
			if address, err := artifact.Address(networkID); err == nil {
				summary.Address = address.Hex()
				summary.Deployed = true
			}
			return summary, true
		})
		writeJSON(w, log, summaries)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, log *zap.Logger, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", zap.Error(err))
	}
}

// statusFor maps wrapper errors to HTTP status codes.
func statusFor(err error) int {
	var callErr *wrappers.CallError
	switch {
	case errors.Is(err, wrappers.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, wrappers.ErrUnknownContract), errors.Is(err, wrappers.ErrMissingDeployment):
		return http.StatusNotFound
	case errors.As(err, &callErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", zap.Int("status", status), zap.Error(err))
	} else {
		log.Debug("Request rejected", zap.Int("status", status), zap.Error(err))
	}
	http.Error(w, err.Error(), status)
}
