package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Misakavorst/drl-quant-trading/internal/analysis"
	"github.com/Misakavorst/drl-quant-trading/internal/api/models"
	"github.com/Misakavorst/drl-quant-trading/internal/backtest"
	"github.com/Misakavorst/drl-quant-trading/internal/data"
	"github.com/Misakavorst/drl-quant-trading/internal/env"
	"github.com/Misakavorst/drl-quant-trading/internal/market"
	"github.com/Misakavorst/drl-quant-trading/internal/policy"
	"github.com/Misakavorst/drl-quant-trading/internal/telemetry"
)

// BacktestHandler runs policy rollouts over uploaded or server-side
// datasets.
type BacktestHandler struct {
	log   *zap.Logger
	hub   *telemetry.Hub
	cache *data.DatasetCache
}

func NewBacktestHandler(log *zap.Logger, hub *telemetry.Hub) *BacktestHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &BacktestHandler{
		log:   log,
		hub:   hub,
		cache: data.GetCache(),
	}
}

// RunBacktest handles POST /api/v1/backtest: it rolls every requested
// policy through its own environment over the same market slice and returns
// the per-policy results ranked by Sharpe ratio.
func (h *BacktestHandler) RunBacktest(c *gin.Context) {
	var req models.BacktestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if len(req.Policies) == 0 {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "at least one policy is required")
		return
	}

	dataset, err := h.resolveDataset(req)
	if err != nil {
		respondError(c, http.StatusBadRequest, "DATASET_ERROR", err.Error())
		return
	}

	series, err := dataset.Series()
	if err != nil {
		respondError(c, http.StatusBadRequest, "DATASET_ERROR", err.Error())
		return
	}
	dates := dataset.Dates
	if req.Options.LimitDays > 0 && req.Options.LimitDays < series.Days() {
		series, err = series.Slice(0, req.Options.LimitDays)
		if err != nil {
			respondError(c, http.StatusBadRequest, "DATASET_ERROR", err.Error())
			return
		}
		if len(dates) > req.Options.LimitDays {
			dates = dates[:req.Options.LimitDays]
		}
	}

	runID := uuid.NewString()
	envCfg := req.Environment.ToEnvConfig()

	resp := models.BacktestResponse{
		ID:     runID,
		Status: "completed",
		Days:   series.Days(),
		Assets: series.Assets(),
	}
	var ranked []analysis.Ranked

	for _, spec := range req.Policies {
		result, err := h.runOne(series, envCfg, spec, runID)
		if err != nil {
			respondError(c, http.StatusBadRequest, "BACKTEST_ERROR", err.Error())
			return
		}

		pr := models.PolicyResult{
			Policy:            result.Policy,
			Returns:           result.Returns,
			CumulativeReturns: result.CumulativeReturns,
			InitialAsset:      result.InitialAsset,
			FinalAsset:        result.FinalAsset,
			TotalReward:       result.TotalReward,
			Metrics:           result.Metrics,
		}
		if len(dates) > 0 {
			n := len(result.Returns)
			if n > len(dates) {
				n = len(dates)
			}
			pr.Dates = dates[:n]
		}
		if req.Options.IncludeLedger {
			pr.Ledger = result.Ledger
		}
		resp.Results = append(resp.Results, pr)
		ranked = append(ranked, analysis.Ranked{Name: result.Policy, Metrics: result.Metrics})
	}
	resp.Ranking = analysis.RankBySharpe(ranked)

	h.log.Info("backtest completed",
		zap.String("run_id", runID),
		zap.Int("policies", len(resp.Results)),
		zap.Int("days", resp.Days),
		zap.Int("assets", resp.Assets),
	)
	c.JSON(http.StatusOK, resp)
}

func (h *BacktestHandler) resolveDataset(req models.BacktestRequest) (*data.Dataset, error) {
	switch {
	case req.Dataset != nil && req.DatasetPath != "":
		return nil, errInlineAndPath
	case req.Dataset != nil:
		if err := req.Dataset.Validate(); err != nil {
			return nil, err
		}
		return req.Dataset, nil
	case req.DatasetPath != "":
		return h.cache.Load(req.DatasetPath)
	default:
		return nil, errNoDataset
	}
}

func (h *BacktestHandler) runOne(series *market.Series, envCfg env.Config, spec models.PolicySpec, runID string) (*backtest.Result, error) {
	e, err := env.New(series, envCfg)
	if err != nil {
		return nil, err
	}
	pol, err := policy.New(policy.Spec{
		Name:      spec.Name,
		Seed:      spec.Seed,
		ModelPath: spec.ModelPath,
		ObsDim:    e.ObservationDim(),
		ActionDim: e.ActionDim(),
	})
	if err != nil {
		return nil, err
	}
	if closer, ok := pol.(interface{ Close() }); ok {
		defer closer.Close()
	}

	opts := []backtest.Option{backtest.WithLogger(h.log)}
	if h.hub != nil {
		name := pol.Name()
		opts = append(opts, backtest.WithProgress(func(step, total int, asset float64) {
			h.hub.Publish(telemetry.ProgressEvent{
				RunID:      runID,
				Policy:     name,
				Step:       step,
				TotalSteps: total,
				TotalAsset: asset,
			})
		}))
	}
	return backtest.New(opts...).Run(e, pol, spec.Seed)
}
