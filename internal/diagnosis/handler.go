package diagnosis

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/scancerlabs/scancer-platform/internal/auth"
	"github.com/scancerlabs/scancer-platform/internal/records"
	"github.com/scancerlabs/scancer-platform/pkg/logging"
)

// Handler accepts lesion photo uploads, runs the analyzer and stores the
// resulting diagnosis record.
type Handler struct {
	analyzer  *Analyzer
	records   *records.Repository
	uploadDir string
	maxBytes  int64
	logger    *logging.Logger
}

func NewHandler(analyzer *Analyzer, repo *records.Repository, uploadDir string, maxBytes int64, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		analyzer:  analyzer,
		records:   repo,
		uploadDir: uploadDir,
		maxBytes:  maxBytes,
		logger:    logger,
	}
}

// POST /api/diagnosis
func (h *Handler) Diagnose(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == 0 {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		http.Error(w, "image too large or malformed upload", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		http.Error(w, "only image uploads are accepted", http.StatusBadRequest)
		return
	}

	image, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "could not read upload", http.StatusBadRequest)
		return
	}

	imagePath, err := h.saveUpload(header.Filename, image)
	if err != nil {
		h.logger.Error("upload save failed", "user_id", userID, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	result, err := h.analyzer.Analyze(r.Context(), mimeType, image)
	if err != nil {
		h.logger.Error("diagnosis failed", "user_id", userID, "error", err)
		http.Error(w, "이미지 분석에 실패했습니다. 다시 시도해주세요.", http.StatusBadGateway)
		return
	}

	rec, err := h.records.Create(r.Context(), records.Record{
		UserID:          userID,
		ImagePath:       imagePath,
		Diagnosis:       result.Diagnosis,
		RiskLevel:       result.RiskLevel,
		Description:     result.Description,
		Recommendations: result.Recommendations,
	})
	if err != nil {
		h.logger.Error("diagnosis record save failed", "user_id", userID, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	h.logger.Info("diagnosis stored", "user_id", userID, "record_id", rec.ID, "diagnosis", rec.Diagnosis)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(rec)
}

func (h *Handler) saveUpload(filename string, data []byte) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("diagnosis: create upload dir: %w", err)
	}
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}
	path := filepath.Join(h.uploadDir, uuid.NewString()+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("diagnosis: write upload: %w", err)
	}
	return path, nil
}
