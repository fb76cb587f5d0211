package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nordclean/internal/export"
	"nordclean/internal/metrics"
	"nordclean/internal/pricing"
	"nordclean/internal/session"
	"nordclean/internal/submission"
	"nordclean/pkg/web3forms"
)

type estimateResponse struct {
	CleaningType  string   `json:"cleaning_type"`
	Frequency     string   `json:"frequency"`
	Frequencies   []string `json:"frequencies"`
	HomeSize      string   `json:"home_size"`
	QuoteRequired bool     `json:"quote_required"`
	Price         *int     `json:"price"`
	Display       string   `json:"display"`
	Seq           int64    `json:"seq,omitempty"`
}

func newEstimateResponse(sel session.Selection) estimateResponse {
	resp := estimateResponse{
		CleaningType:  string(sel.CleaningType),
		Frequency:     string(sel.Frequency),
		HomeSize:      sel.HomeSize,
		QuoteRequired: sel.Price.QuoteRequired(),
		Display:       sel.Price.String(),
	}
	for _, f := range pricing.Frequencies(sel.CleaningType) {
		resp.Frequencies = append(resp.Frequencies, string(f))
	}
	if kr, ok := sel.Price.Amount(); ok {
		resp.Price = &kr
	}
	return resp
}

// valueRequest carries one field change. Seq is the page's request counter,
// echoed back so it can drop responses that arrive out of order.
type valueRequest struct {
	Value string `form:"value" json:"value"`
	Seq   int64  `form:"seq" json:"seq"`
}

type contactRequest struct {
	Name         string `form:"Namn" json:"name"`
	Email        string `form:"Email" json:"email"`
	Phone        string `form:"Telefon" json:"phone"`
	Address      string `form:"Adress" json:"address"`
	PostalCode   string `form:"Postnummer" json:"postal_code"`
	CaptchaToken string `form:"h-captcha-response" json:"h-captcha-response"`
}

func (s *Server) handleHealth(c *gin.Context) {
	if s.opts.Ready != nil {
		if err := s.opts.Ready(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleEstimate prices the query without touching session state.
func (s *Server) handleEstimate(c *gin.Context) {
	t, ok := pricing.ParseCleaningType(c.Query("type"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown cleaning type"})
		return
	}

	freq := pricing.Frequency(c.Query("frequency"))
	sel := session.Selection{
		CleaningType: t,
		Frequency:    pricing.NormalizeFrequency(t, freq),
		HomeSize:     c.Query("size"),
		Price:        pricing.Estimate(t, freq, c.Query("size")),
	}
	recordEstimate(sel)

	c.JSON(http.StatusOK, newEstimateResponse(sel))
}

func (s *Server) handleIndex(c *gin.Context) {
	sel, err := s.sessions.Get(c.Request.Context(), sessionID(c))
	if err != nil {
		s.logger.Error("Failed to load selection", zap.String("session_id", sessionID(c)), zap.Error(err))
		sel = session.DefaultSelection()
	}

	c.HTML(http.StatusOK, "index.html", newPageView(sel, s.opts.HCaptchaSiteKey))
}

func (s *Server) handleGetSelection(c *gin.Context) {
	sel, err := s.sessions.Get(c.Request.Context(), sessionID(c))
	if err != nil {
		s.storageError(c, err)
		return
	}
	c.JSON(http.StatusOK, newEstimateResponse(sel))
}

func (s *Server) handleSetCleaningType(c *gin.Context) {
	s.updateSelection(c, "cleaning_type", s.sessions.SelectCleaningType)
}

func (s *Server) handleSetFrequency(c *gin.Context) {
	s.updateSelection(c, "frequency", s.sessions.SetFrequency)
}

func (s *Server) handleSetHomeSize(c *gin.Context) {
	s.updateSelection(c, "home_size", s.sessions.SetHomeSize)
}

type selectionUpdate func(ctx context.Context, sessionID string, raw string) (session.Selection, error)

func (s *Server) updateSelection(c *gin.Context, field string, update selectionUpdate) {
	var req valueRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sel, err := update(c.Request.Context(), sessionID(c), req.Value)
	if errors.Is(err, session.ErrUnknownCleaningType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.storageError(c, err)
		return
	}

	metrics.SelectionUpdates.WithLabelValues(field).Inc()
	recordEstimate(sel)

	resp := newEstimateResponse(sel)
	resp.Seq = req.Seq
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSubmit(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Ogiltig förfrågan."})
		return
	}

	contact := submission.Contact{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		PostalCode: req.PostalCode,
	}

	resp, err := s.relay.Submit(c.Request.Context(), sessionID(c), contact, req.CaptchaToken)
	if errors.Is(err, web3forms.ErrRejected) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false, "message": resp.Message})
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"message": "Det gick inte att skicka just nu, försök igen senare.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Tack! Vi kontaktar dig snart."})
}

func (s *Server) handlePriceList(c *gin.Context) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="nordclean-prislista.xlsx"`)

	if err := export.WritePriceList(c.Writer); err != nil {
		s.logger.Error("Failed to write price list", zap.Error(err))
		c.Status(http.StatusInternalServerError)
	}
}

func (s *Server) storageError(c *gin.Context, err error) {
	_ = c.Error(err)
	s.logger.Error("Selection storage failed", zap.String("session_id", sessionID(c)), zap.Error(err))
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "selection temporarily unavailable"})
}

func recordEstimate(sel session.Selection) {
	metrics.EstimatesComputed.
		WithLabelValues(string(sel.CleaningType), metrics.Outcome(sel.Price.QuoteRequired())).
		Inc()
}
