package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/username/salesfolio/src/config"
	"github.com/username/salesfolio/src/logger"
	"github.com/username/salesfolio/src/processors"
	"github.com/username/salesfolio/src/services"
	"github.com/username/salesfolio/src/utils"
)

type SalesHandler struct {
	salesService services.SalesService
}

func NewSalesHandler(service services.SalesService) *SalesHandler {
	return &SalesHandler{
		salesService: service,
	}
}

func (h *SalesHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		logger.L.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("Failed to parse form or request too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("salesFile")
	if err != nil {
		logger.L.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'salesFile' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		logger.L.Warn("Uploaded file header reports size too large", "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("File too large, max %d MB", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	logger.L.Info("Processing upload request", "filename", fileHeader.Filename)
	result, err := h.salesService.ProcessUpload(file, fileHeader.Filename)
	if err != nil {
		if errors.Is(err, services.ErrParsingFailed) {
			logger.L.Warn("Upload processing failed due to parsing errors", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, fmt.Sprintf("Error parsing sales file: %v", err), http.StatusBadRequest)
		} else {
			logger.L.Error("Internal error processing upload", "filename", fileHeader.Filename, "error", err)
			utils.SendJSONError(w, "An internal error occurred while processing the file. Please try again later.", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.L.Error("Error encoding JSON response for upload result", "error", err)
	}
}

func (h *SalesHandler) HandleAnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	filter, ok := filterFromQuery(w, r)
	if !ok {
		return
	}
	result, err := h.salesService.Analytics(r.URL.Query().Get("dataset"), filter)
	if err != nil {
		h.sendServiceError(w, "analytics summary", err)
		return
	}
	h.writeJSON(w, result)
}

func (h *SalesHandler) HandleRegions(w http.ResponseWriter, r *http.Request) {
	result, ok := h.analyticsForRequest(w, r, "region breakdown")
	if !ok {
		return
	}
	h.writeJSON(w, result.Regions)
}

func (h *SalesHandler) HandleTopProducts(w http.ResponseWriter, r *http.Request) {
	filter, ok := filterFromQuery(w, r)
	if !ok {
		return
	}
	n, ok := intQueryParam(w, r, "n", 5)
	if !ok {
		return
	}
	ranks, err := h.salesService.TopProducts(r.URL.Query().Get("dataset"), filter, n)
	if err != nil {
		h.sendServiceError(w, "top products", err)
		return
	}
	h.writeJSON(w, ranks)
}

func (h *SalesHandler) HandleLowPerformers(w http.ResponseWriter, r *http.Request) {
	filter, ok := filterFromQuery(w, r)
	if !ok {
		return
	}
	threshold, ok := intQueryParam(w, r, "threshold", 10)
	if !ok {
		return
	}
	ranks, err := h.salesService.LowPerformers(r.URL.Query().Get("dataset"), filter, threshold)
	if err != nil {
		h.sendServiceError(w, "low performing products", err)
		return
	}
	h.writeJSON(w, ranks)
}

func (h *SalesHandler) HandleCustomers(w http.ResponseWriter, r *http.Request) {
	result, ok := h.analyticsForRequest(w, r, "customer analysis")
	if !ok {
		return
	}
	h.writeJSON(w, result.Customers)
}

func (h *SalesHandler) HandleDailyTrend(w http.ResponseWriter, r *http.Request) {
	result, ok := h.analyticsForRequest(w, r, "daily trend")
	if !ok {
		return
	}
	h.writeJSON(w, result.Daily)
}

func (h *SalesHandler) HandlePeakDay(w http.ResponseWriter, r *http.Request) {
	result, ok := h.analyticsForRequest(w, r, "peak day")
	if !ok {
		return
	}
	h.writeJSON(w, result.PeakDay)
}

func (h *SalesHandler) HandleEnriched(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.salesService.EnrichedSnapshot(r.URL.Query().Get("dataset"))
	if err != nil {
		h.sendServiceError(w, "enriched snapshot", err)
		return
	}

	currentETag, etagErr := utils.GenerateETag(string(snapshot))
	w.Header().Set("Cache-Control", "no-cache, private")
	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("\"%s\"", currentETag)
		w.Header().Set("ETag", quotedETag)
		for _, cETag := range strings.Split(r.Header.Get("If-None-Match"), ",") {
			if strings.TrimSpace(cETag) == quotedETag {
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	} else {
		logger.L.Warn("Proceeding without ETag check due to ETag generation error or empty ETag")
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write(snapshot); err != nil {
		logger.L.Error("Error writing enriched snapshot response", "error", err)
	}
}

func (h *SalesHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.salesService.Report(r.URL.Query().Get("dataset"))
	if err != nil {
		h.sendServiceError(w, "sales report", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write(report); err != nil {
		logger.L.Error("Error writing report response", "error", err)
	}
}

// analyticsForRequest resolves filter params and runs the full aggregation
// pass, reporting any error to the client. The bool is false when a
// response has already been written.
func (h *SalesHandler) analyticsForRequest(w http.ResponseWriter, r *http.Request, what string) (*services.AnalyticsResult, bool) {
	filter, ok := filterFromQuery(w, r)
	if !ok {
		return nil, false
	}
	result, err := h.salesService.Analytics(r.URL.Query().Get("dataset"), filter)
	if err != nil {
		h.sendServiceError(w, what, err)
		return nil, false
	}
	return result, true
}

func (h *SalesHandler) sendServiceError(w http.ResponseWriter, what string, err error) {
	switch {
	case errors.Is(err, services.ErrDatasetNotFound), errors.Is(err, services.ErrNoDataset):
		logger.L.Warn("Dataset lookup failed", "what", what, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusNotFound)
	default:
		logger.L.Error("Error computing response", "what", what, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error computing %s", what), http.StatusInternalServerError)
	}
}

func (h *SalesHandler) writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.L.Error("Error encoding JSON response", "error", err)
	}
}

// filterFromQuery builds the region/amount filter from query params.
// A malformed amount writes a 400 and returns ok=false.
func filterFromQuery(w http.ResponseWriter, r *http.Request) (processors.Filter, bool) {
	filter := processors.Filter{Region: strings.TrimSpace(r.URL.Query().Get("region"))}

	var ok bool
	if filter.MinAmount, ok = floatQueryParam(w, r, "minAmount"); !ok {
		return processors.Filter{}, false
	}
	if filter.MaxAmount, ok = floatQueryParam(w, r, "maxAmount"); !ok {
		return processors.Filter{}, false
	}
	return filter, true
}

func floatQueryParam(w http.ResponseWriter, r *http.Request, param string) (*float64, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(param))
	if raw == "" {
		return nil, true
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Invalid value for %q: %s", param, raw), http.StatusBadRequest)
		return nil, false
	}
	return &value, true
}

func intQueryParam(w http.ResponseWriter, r *http.Request, param string, fallback int) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(param))
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Invalid value for %q: %s", param, raw), http.StatusBadRequest)
		return 0, false
	}
	return value, true
}
