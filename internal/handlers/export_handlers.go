package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"gstledger/internal/client/woocommerce"
	"gstledger/internal/config"
	"gstledger/internal/export"
	"gstledger/internal/ledger"
	"gstledger/internal/logger"
)

const dateLayout = "2006-01-02"

// previewRowLimit caps how many ledger rows the preview endpoint returns.
const previewRowLimit = 10

// OrderFetcher pulls orders from the commerce platform for a date window.
type OrderFetcher interface {
	FetchOrders(ctx context.Context, window woocommerce.Window, status string) ([]ledger.Order, error)
}

// ExportHandler runs the fetch → flatten → aggregate → export pipeline for
// the HTTP surface.
type ExportHandler struct {
	fetcher  OrderFetcher
	resolver ledger.ItemResolver
	cfg      *config.Config
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(fetcher OrderFetcher, resolver ledger.ItemResolver, cfg *config.Config) *ExportHandler {
	return &ExportHandler{
		fetcher:  fetcher,
		resolver: resolver,
		cfg:      cfg,
	}
}

// ExportRequest is the body of POST /api/v1/exports.
type ExportRequest struct {
	StartDate       string `json:"start_date" binding:"required"`
	EndDate         string `json:"end_date" binding:"required"`
	Status          string `json:"status"`
	InvoicePrefix   string `json:"invoice_prefix"`
	InvoiceSeqStart int    `json:"invoice_seq_start"`
	Format          string `json:"format"`
	Reconcile       bool   `json:"reconcile"`
}

// PreviewResponse is the JSON payload of the preview endpoint.
type PreviewResponse struct {
	Summary        ledger.Summary          `json:"summary"`
	TotalRows      int                     `json:"total_rows"`
	Rows           []ledger.LedgerRow      `json:"rows"`
	Reconciliation []ledger.Reconciliation `json:"reconciliation,omitempty"`
}

// RunExport runs one full pipeline pass and streams the requested artifact
// as a download. No artifact is produced when the window holds no orders or
// when any stage fails.
func (h *ExportHandler) RunExport(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid export request", err)
		return
	}

	window, err := parseWindow(req.StartDate, req.EndDate)
	if err != nil {
		sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	format := req.Format
	if format == "" {
		format = "csv"
	}
	switch format {
	case "csv", "xlsx", "pdf", "zip":
	default:
		sendError(c, http.StatusBadRequest, fmt.Sprintf("Unknown export format %q", format), nil)
		return
	}

	jobID := uuid.New().String()
	log := logger.With(
		zap.String("job_id", jobID),
		zap.String("window", window.Label()),
		zap.String("format", format),
	)
	log.Info("export started")

	orders, err := h.fetcher.FetchOrders(c.Request.Context(), window, req.Status)
	if err != nil {
		sendPipelineError(c, err)
		return
	}
	if len(orders) == 0 {
		log.Warn("no orders in range, no artifact produced")
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "No orders found in the selected date range"})
		return
	}

	rows, nextSeq := ledger.Flatten(orders, h.resolver, h.flattenOptions(req.Status, req.InvoicePrefix, req.InvoiceSeqStart))
	summary := ledger.Summarize(orders, req.Status)

	if req.Reconcile {
		for _, r := range ledger.Reconcile(orders, ledger.ReconcileTolerance) {
			if r.Flagged {
				log.Warn("order total mismatch",
					zap.Int64("order_id", r.OrderID),
					zap.Float64("declared", r.Declared),
					zap.Float64("reconstructed", r.Reconstructed),
					zap.Float64("delta", r.Delta))
			}
		}
	}

	var (
		data        []byte
		contentType string
		filename    string
	)
	switch format {
	case "csv":
		data, err = export.CSVBytes(rows)
		contentType = "text/csv; charset=utf-8"
		filename = export.ArtifactName(window.Label(), "csv")
	case "xlsx":
		data, err = export.WorkbookBytes(summary, orders)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = export.ArtifactName(window.Label(), "xlsx")
	case "pdf":
		data, err = export.PDFBytes(ledger.InvoiceIndex(rows))
		contentType = "application/pdf"
		filename = export.ArtifactName(window.Label(), "pdf")
	case "zip":
		data, err = export.ArchiveBytes(rows, summary, orders, window.Label())
		contentType = "application/zip"
		filename = export.ArtifactName(window.Label(), "zip")
	}
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Export serialization failed", err)
		return
	}

	log.Info("export finished",
		zap.Int("orders", len(orders)),
		zap.Int("rows", len(rows)),
		zap.Int("next_sequence", nextSeq),
		zap.Int("bytes", len(data)))

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

// Preview fetches and transforms without producing a file: the aggregate
// summary plus the first few ledger rows, optionally with reconciliation
// results.
func (h *ExportHandler) Preview(c *gin.Context) {
	window, err := parseWindow(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}
	status := c.Query("status")
	seqStart, _ := strconv.Atoi(c.Query("invoice_seq_start"))

	orders, err := h.fetcher.FetchOrders(c.Request.Context(), window, status)
	if err != nil {
		sendPipelineError(c, err)
		return
	}
	if len(orders) == 0 {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "No orders found in the selected date range"})
		return
	}

	rows, _ := ledger.Flatten(orders, h.resolver, h.flattenOptions(status, c.Query("invoice_prefix"), seqStart))
	resp := PreviewResponse{
		Summary:   ledger.Summarize(orders, status),
		TotalRows: len(rows),
		Rows:      rows,
	}
	if len(resp.Rows) > previewRowLimit {
		resp.Rows = resp.Rows[:previewRowLimit]
	}
	if c.Query("reconcile") == "true" {
		resp.Reconciliation = ledger.Reconcile(orders, ledger.ReconcileTolerance)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ExportHandler) flattenOptions(status, prefix string, seqStart int) ledger.FlattenOptions {
	opts := ledger.FlattenOptions{
		InvoicePrefix: h.cfg.InvoicePrefix,
		SequenceStart: h.cfg.InvoiceSeqStart,
		Status:        status,
	}
	if prefix != "" {
		opts.InvoicePrefix = prefix
	}
	if seqStart > 0 {
		opts.SequenceStart = seqStart
	}
	return opts
}

func parseWindow(startDate, endDate string) (woocommerce.Window, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return woocommerce.Window{}, fmt.Errorf("start_date must be YYYY-MM-DD")
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return woocommerce.Window{}, fmt.Errorf("end_date must be YYYY-MM-DD")
	}
	if start.After(end) {
		return woocommerce.Window{}, fmt.Errorf("start_date cannot be after end_date")
	}
	return woocommerce.Window{Start: start, End: end}, nil
}
