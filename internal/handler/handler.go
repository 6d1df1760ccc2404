// Package handler exposes the storefront HTTP surface: the product catalog,
// product submission with image uploads, and checkout-session creation.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/dsoler/futurshop/internal/domain/catalog"
	"github.com/dsoler/futurshop/internal/domain/checkout"
	"github.com/dsoler/futurshop/internal/uploads"
)

// maxSubmissionBytes bounds a product submission: four 4 MiB images plus
// headroom for the form fields.
const maxSubmissionBytes = uploads.MaxFiles*uploads.MaxFileSize + (1 << 20)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// UploadsDir is the blob area served under /uploads/.
	UploadsDir string
	// StaticDir is the optional site root served at /. Empty disables it.
	StaticDir string
}

// Handler wires the domain services to their routes.
type Handler struct {
	products catalog.Repository
	intake   *uploads.Intake
	checkout *checkout.Service
}

// New constructs a Handler with the required domain dependencies.
func New(products catalog.Repository, intake *uploads.Intake, checkoutSvc *checkout.Service) *Handler {
	return &Handler{
		products: products,
		intake:   intake,
		checkout: checkoutSvc,
	}
}

// Routes builds the chi router for the full HTTP surface.
func (h *Handler) Routes(cfg Config) http.Handler {
	r := chi.NewRouter()

	r.Get("/api/products", h.listProducts)
	r.Post("/api/products", h.createProduct)
	r.Post("/api/checkout", h.startCheckout)

	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
	if cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	return r
}

// listProducts returns the whole catalog, most-recently-created first.
// No pagination or server-side filtering; category filtering is a client
// concern.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		h.handleError(w, r, errors.Wrap(err, "list products"))
		return
	}

	var e jx.Encoder
	catalog.EncodeProducts(&e, products)
	writeRaw(w, http.StatusOK, e.Bytes())
}

// createProduct accepts a multipart submission with fields name, description,
// category, price, and 1-4 image parts named "images".
func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSubmissionBytes)
	if err := r.ParseMultipartForm(4 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	refs, err := h.intake.AcceptImages(r.Context(), r.MultipartForm.File["images"])
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	price, err := catalog.ParsePrice(r.FormValue("price"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	if _, err := h.products.Create(r.Context(), catalog.Input{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		Price:       price,
		Images:      refs,
	}); err != nil {
		h.handleError(w, r, err)
		return
	}

	writeOK(w)
}

// startCheckout decodes a {"product": ...} body and requests a hosted
// payment session for that single snapshot.
func (h *Handler) startCheckout(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	product, err := decodeCheckoutRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	url, err := h.checkout.Start(r.Context(), product)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("url")
	e.Str(url)
	e.ObjEnd()
	writeRaw(w, http.StatusOK, e.Bytes())
}

// handleError maps domain errors onto the HTTP taxonomy: validation and
// intake failures are 400 with the message verbatim, processor failures are
// 500 with the processor's message, and anything else is a generic 500 that
// leaks no internals.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *catalog.ValidationError
		intakeErr     *uploads.IntakeError
		providerErr   *checkout.ProviderError
	)
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &intakeErr):
		writeError(w, http.StatusBadRequest, intakeErr.Message)
	case errors.Is(err, checkout.ErrMissingProduct), errors.Is(err, checkout.ErrInvalidPrice):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &providerErr):
		writeError(w, http.StatusInternalServerError, providerErr.Message)
	default:
		zctx.From(r.Context()).Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
