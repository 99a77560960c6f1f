package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/cropsight/cropsight/internal/cases"
	"github.com/cropsight/cropsight/internal/classifier"
	"github.com/cropsight/cropsight/pkg/handlers"
	"github.com/cropsight/cropsight/pkg/middleware"
	"github.com/cropsight/cropsight/pkg/routes"
)

var (
	errUnauthenticated = errors.New("authentication required")
	errNoImages        = errors.New("at least one image is required")
)

// Handler provides HTTP endpoints for the diagnosis workflow.
type Handler struct {
	rt        *Runtime
	logger    *slog.Logger
	maxUpload int64
}

// AdviceRequest is the request body of the standalone advice endpoint.
type AdviceRequest struct {
	CropName    string `json:"crop_name"`
	DiseaseName string `json:"disease_name"`
}

// AdviceResponse wraps the generated advice text.
type AdviceResponse struct {
	Answer string `json:"answer"`
}

// NewHandler creates a Handler with the given runtime, logger, and upload cap.
func NewHandler(rt *Runtime, logger *slog.Logger, maxUpload int64) *Handler {
	return &Handler{
		rt:        rt,
		logger:    logger.With("handler", "diagnosis"),
		maxUpload: maxUpload,
	}
}

// Routes returns the route group definition for diagnosis endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/diagnosis",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/predict", Handler: h.Predict},
			{Method: "POST", Pattern: "/predict-and-create", Handler: h.PredictAndCreate},
			{Method: "POST", Pattern: "/advice", Handler: h.Advice},
			{Method: "POST", Pattern: "/forward", Handler: h.Forward},
		},
	}
}

// Predict classifies the uploaded images and returns per-image results with
// the display pick. No case is created.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	images, err := h.readImages(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result := Predict(r.Context(), h.rt, images)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// PredictAndCreate runs the full diagnosis workflow: classify, advise, and
// create a pool case when a leaf was detected.
func (h *Handler) PredictAndCreate(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFrom(r.Context())
	if principal.Anonymous() {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	images, err := h.readImages(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := Execute(r.Context(), h.rt, PredictAndCreateCommand{
		Images:    images,
		State:     r.FormValue("state"),
		District:  r.FormValue("district"),
		Submitter: principal,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, cases.MapHTTPStatus(err), err)
		return
	}

	status := http.StatusOK
	if result.Case != nil {
		status = http.StatusCreated
	}
	handlers.RespondJSON(w, status, result)
}

// Advice generates treatment advice for a crop/disease pair.
func (h *Handler) Advice(w http.ResponseWriter, r *http.Request) {
	var req AdviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if req.CropName == "" || req.DiseaseName == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			errors.New("crop_name and disease_name are required"))
		return
	}

	answer, err := h.rt.Advice.Advise(r.Context(), req.CropName, req.DiseaseName)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadGateway, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, AdviceResponse{Answer: answer})
}

// Forward creates a case from an already-diagnosed result, routed by the
// optional mode form value (POOL default).
func (h *Handler) Forward(w http.ResponseWriter, r *http.Request) {
	principal := middleware.PrincipalFrom(r.Context())
	if principal.Anonymous() {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, errUnauthenticated)
		return
	}

	images, err := h.readImages(r)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	crop := r.FormValue("crop")
	disease := r.FormValue("disease")
	if crop == "" || disease == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			errors.New("crop and disease are required"))
		return
	}

	mode, err := cases.ParseMode(r.FormValue("mode"))
	if err != nil {
		handlers.RespondError(w, h.logger, cases.MapHTTPStatus(err), err)
		return
	}

	created, err := Forward(r.Context(), h.rt, ForwardCommand{
		Crop:      crop,
		Disease:   disease,
		Advice:    r.FormValue("advice"),
		Images:    images,
		State:     r.FormValue("state"),
		District:  r.FormValue("district"),
		Mode:      mode,
		Submitter: principal,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, cases.MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, created)
}

func (h *Handler) readImages(r *http.Request) ([]classifier.Image, error) {
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		return nil, fmt.Errorf("parse multipart form: %w", err)
	}

	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		return nil, errNoImages
	}

	images := make([]classifier.Image, 0, len(files))
	for _, header := range files {
		img, err := readImage(header)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}

	return images, nil
}

func readImage(header *multipart.FileHeader) (classifier.Image, error) {
	file, err := header.Open()
	if err != nil {
		return classifier.Image{}, fmt.Errorf("open upload %s: %w", header.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return classifier.Image{}, fmt.Errorf("read upload %s: %w", header.Filename, err)
	}

	return classifier.Image{
		Data:        data,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}, nil
}
