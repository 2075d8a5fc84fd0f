package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sarthology/dailysage-backend/internal/dto"
	"github.com/sarthology/dailysage-backend/internal/errs"
	"github.com/sarthology/dailysage-backend/internal/models"
	"github.com/sarthology/dailysage-backend/internal/registry"
)

// --- Stub service ---

type stubDashboardService struct {
	layout    models.DashboardLayout
	layoutErr error

	addWidget models.WidgetInstance
	addErr    error
	lastAdd   dto.CreateWidgetRequest
	lastAddSource string

	lastUpdateID  string
	lastUpdateReq dto.UpdateWidgetRequest

	lastReorder dto.ReorderWidgetsRequest
	reorderErr  error

	lastResizeID   string
	lastResizeSize string

	lastRemoveID string

	pinWidget models.WidgetInstance
	lastPin   dto.PinWidgetRequest

	saveEntryID  string
	saveErr      error
	lastSaveID   string
	lastSaveReq  dto.SaveWidgetEntryRequest
}

func (s *stubDashboardService) GetLayout(_ context.Context, _ string) (models.DashboardLayout, error) {
	return s.layout, s.layoutErr
}

func (s *stubDashboardService) AddWidget(_ context.Context, _ string, req dto.CreateWidgetRequest, source string) (models.WidgetInstance, error) {
	s.lastAdd = req
	s.lastAddSource = source
	return s.addWidget, s.addErr
}

func (s *stubDashboardService) UpdateWidget(_ context.Context, _, widgetID string, req dto.UpdateWidgetRequest) error {
	s.lastUpdateID = widgetID
	s.lastUpdateReq = req
	return nil
}

func (s *stubDashboardService) ReorderWidgets(_ context.Context, _ string, req dto.ReorderWidgetsRequest) error {
	s.lastReorder = req
	return s.reorderErr
}

func (s *stubDashboardService) ResizeWidget(_ context.Context, _, widgetID, size string) error {
	s.lastResizeID = widgetID
	s.lastResizeSize = size
	return nil
}

func (s *stubDashboardService) RemoveWidget(_ context.Context, _, widgetID string) error {
	s.lastRemoveID = widgetID
	return nil
}

func (s *stubDashboardService) PinWidget(_ context.Context, _ string, req dto.PinWidgetRequest) (models.WidgetInstance, error) {
	s.lastPin = req
	return s.pinWidget, nil
}

func (s *stubDashboardService) SaveWidgetEntry(_ context.Context, _, widgetID string, req dto.SaveWidgetEntryRequest) (string, error) {
	s.lastSaveID = widgetID
	s.lastSaveReq = req
	return s.saveEntryID, s.saveErr
}

func (s *stubDashboardService) WidgetTypeCatalog() []registry.CatalogEntry {
	return registry.Default().Catalog()
}

// --- Tests ---

func TestGetLayoutOK(t *testing.T) {
	svc := &stubDashboardService{
		layout: models.DashboardLayout{Widgets: []models.WidgetInstance{{ID: "w1"}}},
	}
	resp := &stubResponseHandler{}
	h := NewDashboardHandlers(&Deps{ResponseHandler: resp, DashboardSvc: svc})

	req := withUID(httptest.NewRequest(http.MethodGet, "/dashboard", nil), "uid1")
	rr := httptest.NewRecorder()
	h.GetLayout(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected 200 success, got %+v", resp)
	}
	layout, ok := resp.writeSuccessData.(models.DashboardLayout)
	if !ok || len(layout.Widgets) != 1 {
		t.Fatalf("unexpected payload: %+v", resp.writeSuccessData)
	}
}

func TestAddWidgetPassesUserSource(t *testing.T) {
	svc := &stubDashboardService{addWidget: models.WidgetInstance{ID: "w1"}}
	resp := &stubResponseHandler{}
	h := NewDashboardHandlers(&Deps{ResponseHandler: resp, DashboardSvc: svc})

	body := `{"widgetType":"daily_maxim","title":"Maxim","size":"small"}`
	req := withUID(httptest.NewRequest(http.MethodPost, "/dashboard/widgets", strings.NewReader(body)), "uid1")
	rr := httptest.NewRecorder()
	h.AddWidget(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("expected 201, got %+v", resp)
	}
	if svc.lastAdd.WidgetType != "daily_maxim" || svc.lastAdd.Size != "small" {
		t.Fatalf("request not forwarded: %+v", svc.lastAdd)
	}
	if svc.lastAddSource != models.SourceUser {
		t.Fatalf("HTTP adds must carry source=user, got %q", svc.lastAddSource)
	}
}

func TestAddWidgetBadBody(t *testing.T) {
	resp := &stubResponseHandler{}
	h := NewDashboardHandlers(&Deps{ResponseHandler: resp, DashboardSvc: &stubDashboardService{}})

	req := withUID(httptest.NewRequest(http.MethodPost, "/dashboard/widgets", strings.NewReader("{")), "uid1")
	rr := httptest.NewRecorder()
	h.AddWidget(rr, req)

	var validation *errs.ValidationError
	if !resp.handleErrorCalled || !errors.As(resp.handleError, &validation) {
		t.Fatalf("expected ValidationError, got %v", resp.handleError)
	}
}

func TestReorderWidgetsForwardsRequest(t *testing.T) {
	svc := &stubDashboardService{}
	resp := &stubResponseHandler{}
	h := NewDashboardHandlers(&Deps{ResponseHandler: resp, DashboardSvc: svc})

	body := `{"movedId":"w4","targetId":"w2"}`
	req := withUID(httptest.NewRequest(http.MethodPut, "/dashboard/widgets/reorder", strings.NewReader(body)), "uid1")
	rr := httptest.NewRecorder()
	h.ReorderWidgets(rr, req)

	if svc.lastReorder.MovedID != "w4" || svc.lastReorder.TargetID != "w2" {
		t.Fatalf("reorder not forwarded: %+v", svc.lastReorder)
	}
}

func TestRemoveWidgetUsesURLParam(t *testing.T) {
	svc := &stubDashboardService{}
	resp := &stubResponseHandler{}
	h := NewDashboardHandlers(&Deps{ResponseHandler: resp, DashboardSvc: svc})

	req := httptest.NewRequest(http.MethodDelete, "/dashboard/widgets/w9", nil)
	req = withChiParam(withUID(req, "uid1"), "widgetId", "w9")
	rr := httptest.NewRecorder()
	h.RemoveWidget(rr, req)

	if svc.lastRemoveID != "w9" {
		t.Fatalf("remove id = %q, want w9", svc.lastRemoveID)
	}
	if !resp.writeSuccessCalled {
		t.Fatal("expected success response")
	}
}

func TestResizeWidget(t *testing.T) {
	svc := &stubDashboardService{}
	resp := &stubResponseHandler{}
	h := NewDashboardHandlers(&Deps{ResponseHandler: resp, DashboardSvc: svc})

	req := httptest.NewRequest(http.MethodPut, "/dashboard/widgets/w3/size", strings.NewReader(`{"size":"large"}`))
	req = withChiParam(withUID(req, "uid1"), "widgetId", "w3")
	rr := httptest.NewRecorder()
	h.ResizeWidget(rr, req)

	if svc.lastResizeID != "w3" || svc.lastResizeSize != "large" {
		t.Fatalf("resize not forwarded: id=%q size=%q", svc.lastResizeID, svc.lastResizeSize)
	}
}

func TestSaveWidgetEntry(t *testing.T) {
	svc := &stubDashboardService{saveEntryID: "entry-1"}
	resp := &stubResponseHandler{}
	h := NewDashboardHandlers(&Deps{ResponseHandler: resp, DashboardSvc: svc})

	body := `{"content":{"content":"Reflections..."},"tags":["stoicism"]}`
	req := httptest.NewRequest(http.MethodPost, "/dashboard/widgets/w1/entries", strings.NewReader(body))
	req = withChiParam(withUID(req, "uid1"), "widgetId", "w1")
	rr := httptest.NewRecorder()
	h.SaveWidgetEntry(rr, req)

	if svc.lastSaveID != "w1" {
		t.Fatalf("save widget id = %q, want w1", svc.lastSaveID)
	}
	if resp.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.writeSuccessStatus)
	}
}

func TestSaveWidgetEntryServiceError(t *testing.T) {
	svc := &stubDashboardService{saveErr: errs.NewNotFoundError("widget not found")}
	resp := &stubResponseHandler{}
	h := NewDashboardHandlers(&Deps{ResponseHandler: resp, DashboardSvc: svc})

	req := httptest.NewRequest(http.MethodPost, "/dashboard/widgets/w1/entries", strings.NewReader(`{"content":{}}`))
	req = withChiParam(withUID(req, "uid1"), "widgetId", "w1")
	rr := httptest.NewRecorder()
	h.SaveWidgetEntry(rr, req)

	var notFound *errs.NotFoundError
	if !errors.As(resp.handleError, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", resp.handleError)
	}
}

func TestPinWidget(t *testing.T) {
	svc := &stubDashboardService{pinWidget: models.WidgetInstance{ID: "w1", Pinned: true}}
	resp := &stubResponseHandler{}
	h := NewDashboardHandlers(&Deps{ResponseHandler: resp, DashboardSvc: svc})

	body := `{"widgetType":"thought_experiment","title":"Ship of Theseus"}`
	req := withUID(httptest.NewRequest(http.MethodPost, "/dashboard/pin", strings.NewReader(body)), "uid1")
	rr := httptest.NewRecorder()
	h.PinWidget(rr, req)

	if svc.lastPin.WidgetType != "thought_experiment" {
		t.Fatalf("pin not forwarded: %+v", svc.lastPin)
	}
	if resp.writeSuccessStatus != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.writeSuccessStatus)
	}
}

func TestGetWidgetTypes(t *testing.T) {
	resp := &stubResponseHandler{}
	h := NewDashboardHandlers(&Deps{ResponseHandler: resp, DashboardSvc: &stubDashboardService{}})

	req := withUID(httptest.NewRequest(http.MethodGet, "/dashboard/widget-types", nil), "uid1")
	rr := httptest.NewRecorder()
	h.GetWidgetTypes(rr, req)

	entries, ok := resp.writeSuccessData.([]registry.CatalogEntry)
	if !ok || len(entries) == 0 {
		t.Fatalf("expected catalog payload, got %+v", resp.writeSuccessData)
	}
}
