package httpapi

import (
	"context"
	"net/http"

	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/composer"
	"github.com/enayet/Smart-Product-Tabs-for-WooCommerce-sub000/internal/models"

	"go.uber.org/zap"
)

// TabComposer is the composition engine used by the handler
type TabComposer interface {
	Compose(ctx context.Context, req *composer.Request) []models.OrderedTab
	RenderContent(req *composer.Request, tabID string) string
}

// ViewRecorder records tab views without reporting errors
type ViewRecorder interface {
	RecordView(ctx context.Context, tabID string, productID int64)
}

// CacheInvalidator drops cached rule and settings snapshots
type CacheInvalidator interface {
	InvalidateCaches(ctx context.Context) error
}

// ComposeRequest is the body of compose and content calls
type ComposeRequest struct {
	Product        *models.Product         `json:"product"`
	Requester      models.RequesterContext `json:"requester"`
	Device         models.DeviceContext    `json:"device"`
	IncludeContent bool                    `json:"include_content,omitempty"`
	TabID          string                  `json:"tab_id,omitempty"`
}

// TabView is an ordered tab plus its rendered content when requested
type TabView struct {
	models.OrderedTab
	Content string `json:"content,omitempty"`
}

// ComposeResponse lists the visible tabs in display order
type ComposeResponse struct {
	ProductID int64     `json:"product_id"`
	Tabs      []TabView `json:"tabs"`
}

// ContentResponse carries one rendered rule tab
type ContentResponse struct {
	TabID       string             `json:"tab_id"`
	ContentKind models.ContentKind `json:"content_kind,omitempty"`
	Content     string             `json:"content"`
}

// ViewRequest is the body of a record view call
type ViewRequest struct {
	TabID     string `json:"tab_id"`
	ProductID int64  `json:"product_id"`
}

// TabsHandler serves the tab API
type TabsHandler struct {
	composer    TabComposer
	recorder    ViewRecorder
	invalidator CacheInvalidator
	logger      *zap.Logger
}

func NewTabsHandler(tabComposer TabComposer, recorder ViewRecorder, invalidator CacheInvalidator, logger *zap.Logger) *TabsHandler {
	return &TabsHandler{
		composer:    tabComposer,
		recorder:    recorder,
		invalidator: invalidator,
		logger:      logger,
	}
}

// POST /api/v1/tabs/compose
func (h *TabsHandler) Compose(w http.ResponseWriter, r *http.Request) {
	var body ComposeRequest
	if err := readBodyJSON(r, maxBodyBytes, &body); err != nil {
		writeFailure(w, "invalid body")
		return
	}

	req := composer.NewRequest(body.Product, body.Requester, body.Device)
	tabs := h.composer.Compose(r.Context(), req)

	resp := ComposeResponse{Tabs: make([]TabView, 0, len(tabs))}
	if body.Product != nil {
		resp.ProductID = body.Product.ID
	}
	for _, tab := range tabs {
		view := TabView{OrderedTab: tab}
		if body.IncludeContent && tab.Source == models.TabKindRule {
			view.Content = h.composer.RenderContent(req, tab.TabID)
		}
		resp.Tabs = append(resp.Tabs, view)
	}

	writeOK(w, resp)
}

// POST /api/v1/tabs/content
func (h *TabsHandler) Content(w http.ResponseWriter, r *http.Request) {
	var body ComposeRequest
	if err := readBodyJSON(r, maxBodyBytes, &body); err != nil {
		writeFailure(w, "invalid body")
		return
	}
	if body.TabID == "" {
		writeFailure(w, "tab_id is required")
		return
	}

	req := composer.NewRequest(body.Product, body.Requester, body.Device)
	resp := ContentResponse{TabID: body.TabID}
	for _, tab := range h.composer.Compose(r.Context(), req) {
		if tab.TabID == body.TabID {
			resp.ContentKind = tab.ContentKind
			break
		}
	}
	resp.Content = h.composer.RenderContent(req, body.TabID)

	writeOK(w, resp)
}

// POST /api/v1/tabs/views
func (h *TabsHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	var body ViewRequest
	if err := readBodyJSON(r, maxBodyBytes, &body); err != nil {
		writeFailure(w, "invalid body")
		return
	}
	if body.TabID == "" || body.ProductID <= 0 {
		writeFailure(w, "tab_id and product_id are required")
		return
	}

	h.recorder.RecordView(r.Context(), body.TabID, body.ProductID)
	writeOK[any](w, nil)
}

// POST /api/v1/cache/invalidate
func (h *TabsHandler) InvalidateCaches(w http.ResponseWriter, r *http.Request) {
	if err := h.invalidator.InvalidateCaches(r.Context()); err != nil {
		h.logger.Error("Failed to invalidate caches",
			zap.String("request_id", RequestIDFrom(r.Context())),
			zap.Error(err),
		)
		writeFailure(w, err.Error())
		return
	}
	writeOK[any](w, nil)
}
