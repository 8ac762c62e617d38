package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mbd888/walletlens/internal/analysis"
	"github.com/mbd888/walletlens/internal/logging"
	"github.com/mbd888/walletlens/internal/report"
	"github.com/mbd888/walletlens/internal/source"
	"github.com/mbd888/walletlens/internal/traces"
)

const defaultHistoryLimit = 20

// createAnalysis handles POST /v1/analyses
// The request carries an address plus an inline transaction batch; the batch
// is validated and analyzed without touching the loaded dataset.
func (s *Server) createAnalysis(c *gin.Context) {
	ctx := c.Request.Context()

	var req struct {
		Address      string          `json:"address" binding:"required"`
		Transactions json.RawMessage `json:"transactions" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "Request body must include address and transactions",
		})
		return
	}

	address, err := source.NormalizeAddress(req.Address)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_address",
			"message": err.Error(),
		})
		return
	}

	txs, err := source.Decode(bytes.NewReader(req.Transactions))
	if err != nil {
		var recErr *source.RecordError
		if errors.As(err, &recErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "malformed_transaction",
				"message": recErr.Error(),
				"index":   recErr.Index,
				"field":   recErr.Field,
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "malformed_transactions",
			"message": err.Error(),
		})
		return
	}

	ctx, span := traces.StartSpan(ctx, "server.createAnalysis",
		traces.WalletAddr(address), traces.DatasetSize(len(txs)))
	defer span.End()

	result := s.analyzer.Analyze(ctx, address, txs)
	span.SetAttributes(traces.FindingsCount(len(result.RiskIndicators)))

	// Push flagged results to WebSocket subscribers
	s.hub.BroadcastAnalysis(result)

	logging.FromContext(ctx).Info("analysis created",
		"address", address,
		"transactions", result.TotalTransactions,
		"findings", len(result.RiskIndicators),
	)

	c.JSON(http.StatusCreated, result)
}

// getWalletAnalysis handles GET /v1/wallets/:address/analysis
func (s *Server) getWalletAnalysis(c *gin.Context) {
	address, ok := s.walletAddress(c)
	if !ok {
		return
	}

	ctx, span := traces.StartSpan(c.Request.Context(), "server.getWalletAnalysis",
		traces.WalletAddr(address), traces.DatasetSize(len(s.txs)))
	defer span.End()

	result := s.analyzer.Analyze(ctx, address, s.txs)
	span.SetAttributes(traces.FindingsCount(len(result.RiskIndicators)))
	s.hub.BroadcastAnalysis(result)

	c.JSON(http.StatusOK, result)
}

// getWalletReport handles GET /v1/wallets/:address/report
func (s *Server) getWalletReport(c *gin.Context) {
	address, ok := s.walletAddress(c)
	if !ok {
		return
	}

	result := s.analyzer.Analyze(c.Request.Context(), address, s.txs)
	c.String(http.StatusOK, report.Render(result))
}

// getWalletHistory handles GET /v1/wallets/:address/history
func (s *Server) getWalletHistory(c *gin.Context) {
	ctx := c.Request.Context()

	address, ok := s.walletAddress(c)
	if !ok {
		return
	}

	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_limit",
				"message": "limit must be a positive integer",
			})
			return
		}
		limit = n
	}

	analyses, err := s.store.ListByAddress(ctx, address, limit)
	if err != nil {
		logging.FromContext(ctx).Error("failed to list analyses", "error", err, "address", address)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Failed to load analysis history",
		})
		return
	}

	if analyses == nil {
		analyses = []*analysis.WalletAnalysis{}
	}
	c.JSON(http.StatusOK, gin.H{
		"address":  address,
		"count":    len(analyses),
		"analyses": analyses,
	})
}

// walletAddress normalizes the :address path param, writing a 400 on failure.
func (s *Server) walletAddress(c *gin.Context) (string, bool) {
	address, err := source.NormalizeAddress(c.Param("address"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_address",
			"message": err.Error(),
		})
		return "", false
	}
	return address, true
}
