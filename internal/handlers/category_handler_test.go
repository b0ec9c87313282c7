package handlers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

const (
	foodID   = "0190a6d2-3c4e-7a10-8b2f-4c5d6e7f8a01"
	travelID = "0190a6d2-3c4e-7a10-8b2f-4c5d6e7f8a02"
)

// --- mock category service ---

type mockCategoryService struct {
	listCategoriesFn      func(ctx context.Context) ([]models.Category, error)
	getCategoryTreeFn     func(ctx context.Context) ([]services.CategoryNode, error)
	getCategoryByIDFn     func(ctx context.Context, id string) (*models.Category, error)
	listRootCategoriesFn  func(ctx context.Context) ([]models.Category, error)
	listChildCategoriesFn func(ctx context.Context, parentID string) ([]models.Category, error)
	searchCategoriesFn    func(ctx context.Context, query string, rootsOnly bool) ([]models.Category, error)
	createCategoryFn      func(ctx context.Context, fields services.CategoryFields, actor string) (*models.Category, error)
	updateCategoryFn      func(ctx context.Context, id string, fields services.CategoryFields, actor string) (*models.Category, error)
	deleteCategoryFn      func(ctx context.Context, id, actor string) (services.DeleteOutcome, error)
	activateCategoryFn    func(ctx context.Context, id, actor string) (*models.Category, error)
}

func (m *mockCategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	if m.listCategoriesFn != nil {
		return m.listCategoriesFn(ctx)
	}
	return nil, nil
}

func (m *mockCategoryService) GetCategoryTree(ctx context.Context) ([]services.CategoryNode, error) {
	if m.getCategoryTreeFn != nil {
		return m.getCategoryTreeFn(ctx)
	}
	return []services.CategoryNode{}, nil
}

func (m *mockCategoryService) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	if m.getCategoryByIDFn != nil {
		return m.getCategoryByIDFn(ctx, id)
	}
	return &models.Category{Base: models.Base{ID: id}}, nil
}

func (m *mockCategoryService) ListRootCategories(ctx context.Context) ([]models.Category, error) {
	if m.listRootCategoriesFn != nil {
		return m.listRootCategoriesFn(ctx)
	}
	return nil, nil
}

func (m *mockCategoryService) ListChildCategories(ctx context.Context, parentID string) ([]models.Category, error) {
	if m.listChildCategoriesFn != nil {
		return m.listChildCategoriesFn(ctx, parentID)
	}
	return nil, nil
}

func (m *mockCategoryService) SearchCategories(ctx context.Context, query string, rootsOnly bool) ([]models.Category, error) {
	if m.searchCategoriesFn != nil {
		return m.searchCategoriesFn(ctx, query, rootsOnly)
	}
	return nil, nil
}

func (m *mockCategoryService) CreateCategory(ctx context.Context, fields services.CategoryFields, actor string) (*models.Category, error) {
	if m.createCategoryFn != nil {
		return m.createCategoryFn(ctx, fields, actor)
	}
	return &models.Category{Base: models.Base{ID: foodID}, Name: fields.Name, IsActive: true}, nil
}

func (m *mockCategoryService) UpdateCategory(ctx context.Context, id string, fields services.CategoryFields, actor string) (*models.Category, error) {
	if m.updateCategoryFn != nil {
		return m.updateCategoryFn(ctx, id, fields, actor)
	}
	return &models.Category{Base: models.Base{ID: id}, Name: fields.Name, IsActive: true}, nil
}

func (m *mockCategoryService) DeleteCategory(ctx context.Context, id, actor string) (services.DeleteOutcome, error) {
	if m.deleteCategoryFn != nil {
		return m.deleteCategoryFn(ctx, id, actor)
	}
	return services.DeleteOutcomeRemoved, nil
}

func (m *mockCategoryService) ActivateCategory(ctx context.Context, id, actor string) (*models.Category, error) {
	if m.activateCategoryFn != nil {
		return m.activateCategoryFn(ctx, id, actor)
	}
	return &models.Category{Base: models.Base{ID: id}, IsActive: true}, nil
}

// verify interface compliance
var _ services.CategoryServicer = (*mockCategoryService)(nil)

func setupCategoryRouter(handler *CategoryHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectActor("alice"))
	auth.GET("/categories", handler.ListCategories)
	auth.GET("/categories/tree", handler.GetCategoryTree)
	auth.GET("/categories/roots", handler.ListRootCategories)
	auth.GET("/categories/search", handler.SearchCategories)
	auth.GET("/categories/:id", handler.GetCategoryByID)
	auth.GET("/categories/:id/children", handler.ListChildCategories)
	auth.POST("/categories", handler.CreateCategory)
	auth.PUT("/categories/:id", handler.UpdateCategory)
	auth.DELETE("/categories/:id", handler.DeleteCategory)
	auth.PUT("/categories/:id/activate", handler.ActivateCategory)
	return r
}

func namedCategories(names ...string) []models.Category {
	out := make([]models.Category, 0, len(names))
	for _, n := range names {
		out = append(out, models.Category{Name: n, IsActive: true})
	}
	return out
}

func TestCategoryHandler_ListCategories(t *testing.T) {
	t.Run("pages the ordered list", func(t *testing.T) {
		svc := &mockCategoryService{
			listCategoriesFn: func(_ context.Context) ([]models.Category, error) {
				return namedCategories("A", "B", "C"), nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/categories?page=2&page_size=2", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		data := result["data"].([]interface{})
		if len(data) != 1 {
			t.Fatalf("expected 1 item on page 2, got %d", len(data))
		}
		if data[0].(map[string]interface{})["name"] != "C" {
			t.Errorf("expected C, got %v", data[0])
		}
		if result["total_items"].(float64) != 3 || result["total_pages"].(float64) != 2 {
			t.Errorf("unexpected page metadata: %v", result)
		}
	})

	t.Run("returns 400 on invalid page size", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/categories?page_size=500", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("empty store yields empty data array", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/categories", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if data, ok := parseJSON(t, rec)["data"].([]interface{}); !ok || len(data) != 0 {
			t.Errorf("expected empty data array, got %v", data)
		}
	})
}

func TestCategoryHandler_GetCategoryTree(t *testing.T) {
	svc := &mockCategoryService{
		getCategoryTreeFn: func(_ context.Context) ([]services.CategoryNode, error) {
			return []services.CategoryNode{{
				Category: models.Category{Base: models.Base{ID: travelID}, Name: "Travel"},
				Children: []services.CategoryNode{{Category: models.Category{Name: "Flights"}, Children: []services.CategoryNode{}}},
			}}, nil
		},
	}
	r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

	rec := doRequest(r, http.MethodGet, "/categories/tree", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	roots := parseJSON(t, rec)["categories"].([]interface{})
	root := roots[0].(map[string]interface{})
	if root["name"] != "Travel" {
		t.Errorf("expected Travel, got %v", root["name"])
	}
	children := root["children"].([]interface{})
	if len(children) != 1 || children[0].(map[string]interface{})["name"] != "Flights" {
		t.Errorf("expected Flights child, got %v", children)
	}
}

func TestCategoryHandler_ListRootCategories(t *testing.T) {
	svc := &mockCategoryService{
		listRootCategoriesFn: func(_ context.Context) ([]models.Category, error) {
			return namedCategories("Food", "Travel"), nil
		},
	}
	r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

	rec := doRequest(r, http.MethodGet, "/categories/roots", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := parseJSON(t, rec)["categories"].([]interface{}); len(got) != 2 {
		t.Errorf("expected 2 roots, got %d", len(got))
	}
}

func TestCategoryHandler_SearchCategories(t *testing.T) {
	t.Run("passes query and roots_only through", func(t *testing.T) {
		var gotQuery string
		var gotRootsOnly bool
		svc := &mockCategoryService{
			searchCategoriesFn: func(_ context.Context, query string, rootsOnly bool) ([]models.Category, error) {
				gotQuery, gotRootsOnly = query, rootsOnly
				return namedCategories("Travel"), nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/categories/search?q=trav&roots_only=true", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotQuery != "trav" || !gotRootsOnly {
			t.Errorf("expected (trav, true), got (%q, %v)", gotQuery, gotRootsOnly)
		}
	})

	t.Run("returns 400 when query is missing", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/categories/search", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 when query is blank", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/categories/search?q=%20%20", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_GetCategoryByID(t *testing.T) {
	t.Run("returns 200 with the category", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/categories/"+foodID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		cat := parseJSON(t, rec)["category"].(map[string]interface{})
		if cat["id"] != foodID {
			t.Errorf("expected id %s, got %v", foodID, cat["id"])
		}
	})

	t.Run("returns 400 on malformed id", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/categories/not-a-uuid", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		svc := &mockCategoryService{
			getCategoryByIDFn: func(_ context.Context, id string) (*models.Category, error) {
				return nil, apperrors.ErrCategoryNotFound
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodGet, "/categories/"+foodID, "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_NOT_FOUND")
	})
}

func TestCategoryHandler_ListChildCategories(t *testing.T) {
	var gotParent string
	svc := &mockCategoryService{
		listChildCategoriesFn: func(_ context.Context, parentID string) ([]models.Category, error) {
			gotParent = parentID
			return namedCategories("Flights", "Hotels"), nil
		},
	}
	r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

	rec := doRequest(r, http.MethodGet, "/categories/"+travelID+"/children", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotParent != travelID {
		t.Errorf("expected parent %s, got %s", travelID, gotParent)
	}
	if got := parseJSON(t, rec)["categories"].([]interface{}); len(got) != 2 {
		t.Errorf("expected 2 children, got %d", len(got))
	}
}

func TestCategoryHandler_CreateCategory(t *testing.T) {
	t.Run("returns 201 and records audit entry", func(t *testing.T) {
		var gotFields services.CategoryFields
		var gotActor string
		svc := &mockCategoryService{
			createCategoryFn: func(_ context.Context, fields services.CategoryFields, actor string) (*models.Category, error) {
				gotFields, gotActor = fields, actor
				return &models.Category{Base: models.Base{ID: foodID}, Name: fields.Name, ParentID: fields.ParentID, IsActive: true}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupCategoryRouter(NewCategoryHandler(svc, audit))

		rec := doRequest(r, http.MethodPost, "/categories",
			`{"name":"Flights","color_code":"#1A2B3C","icon_name":"plane","sort_order":2,"parent_id":"`+travelID+`"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotActor != "alice" {
			t.Errorf("expected actor alice, got %q", gotActor)
		}
		if gotFields.ParentID == nil || *gotFields.ParentID != travelID {
			t.Errorf("expected parent %s, got %v", travelID, gotFields.ParentID)
		}
		if gotFields.SortOrder == nil || *gotFields.SortOrder != 2 {
			t.Errorf("expected sort order 2, got %v", gotFields.SortOrder)
		}
		if len(audit.entries) != 1 || audit.entries[0].action != "CREATE_CATEGORY" || audit.entries[0].resourceID != foodID {
			t.Errorf("unexpected audit entries: %+v", audit.entries)
		}
	})

	t.Run("normalizes an upper-case parent id", func(t *testing.T) {
		var gotParent *string
		svc := &mockCategoryService{
			createCategoryFn: func(_ context.Context, fields services.CategoryFields, _ string) (*models.Category, error) {
				gotParent = fields.ParentID
				return &models.Category{Base: models.Base{ID: foodID}}, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPost, "/categories",
			`{"name":"Flights","parent_id":"0190A6D2-3C4E-7A10-8B2F-4C5D6E7F8A02"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotParent == nil || *gotParent != travelID {
			t.Errorf("expected canonical parent id, got %v", gotParent)
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"description":"x"}`},
		{"name too long", `{"name":"` + strings.Repeat("a", 101) + `"}`},
		{"bad color code", `{"name":"Food","color_code":"red"}`},
		{"bad icon name", `{"name":"Food","icon_name":"Fork Knife"}`},
		{"bad parent id", `{"name":"Food","parent_id":"123"}`},
		{"malformed json", `{"name":`},
	}
	for _, tt := range tests {
		t.Run("returns 400 on "+tt.name, func(t *testing.T) {
			audit := &mockAuditService{}
			r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, audit))

			rec := doRequest(r, http.MethodPost, "/categories", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
			if len(audit.entries) != 0 {
				t.Errorf("expected no audit entries, got %d", len(audit.entries))
			}
		})
	}

	t.Run("returns 409 on duplicate name", func(t *testing.T) {
		svc := &mockCategoryService{
			createCategoryFn: func(_ context.Context, _ services.CategoryFields, _ string) (*models.Category, error) {
				return nil, apperrors.WithMessage(apperrors.ErrDuplicateCategory, "category 'Food' already exists")
			},
		}
		audit := &mockAuditService{}
		r := setupCategoryRouter(NewCategoryHandler(svc, audit))

		rec := doRequest(r, http.MethodPost, "/categories", `{"name":"food"}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_CATEGORY")
		if len(audit.entries) != 0 {
			t.Errorf("expected no audit entries on failure")
		}
	})

	t.Run("returns 401 without actor", func(t *testing.T) {
		handler := NewCategoryHandler(&mockCategoryService{}, &mockAuditService{})
		r := gin.New()
		r.POST("/categories", handler.CreateCategory)

		rec := doRequest(r, http.MethodPost, "/categories", `{"name":"Food"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_UpdateCategory(t *testing.T) {
	t.Run("omitted parent id promotes to root", func(t *testing.T) {
		var gotID string
		var gotFields services.CategoryFields
		svc := &mockCategoryService{
			updateCategoryFn: func(_ context.Context, id string, fields services.CategoryFields, _ string) (*models.Category, error) {
				gotID, gotFields = id, fields
				return &models.Category{Base: models.Base{ID: id}, Name: fields.Name, IsActive: true}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupCategoryRouter(NewCategoryHandler(svc, audit))

		rec := doRequest(r, http.MethodPut, "/categories/"+foodID, `{"name":"Groceries"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotID != foodID || gotFields.ParentID != nil || gotFields.Name != "Groceries" {
			t.Errorf("unexpected call: id=%s fields=%+v", gotID, gotFields)
		}
		if len(audit.entries) != 1 || audit.entries[0].action != "UPDATE_CATEGORY" {
			t.Errorf("unexpected audit entries: %+v", audit.entries)
		}
	})

	t.Run("returns 400 on circular reference", func(t *testing.T) {
		svc := &mockCategoryService{
			updateCategoryFn: func(_ context.Context, _ string, _ services.CategoryFields, _ string) (*models.Category, error) {
				return nil, apperrors.ErrCircularCategory
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPut, "/categories/"+foodID, `{"name":"Food","parent_id":"`+travelID+`"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CIRCULAR_CATEGORY")
	})

	t.Run("accepts an upper-case parent id", func(t *testing.T) {
		var gotFields services.CategoryFields
		svc := &mockCategoryService{
			updateCategoryFn: func(_ context.Context, id string, fields services.CategoryFields, _ string) (*models.Category, error) {
				gotFields = fields
				return &models.Category{Base: models.Base{ID: id}, Name: fields.Name, ParentID: fields.ParentID}, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPut, "/categories/"+foodID,
			`{"name":"Food","parent_id":"`+strings.ToUpper(travelID)+`"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFields.ParentID == nil || *gotFields.ParentID != travelID {
			t.Errorf("expected canonical parent id, got %v", gotFields.ParentID)
		}
	})

	t.Run("returns 400 on malformed parent id", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodPut, "/categories/"+foodID, `{"name":"Food","parent_id":"not-a-uuid"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on malformed id", func(t *testing.T) {
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, &mockAuditService{}))

		rec := doRequest(r, http.MethodPut, "/categories/abc", `{"name":"Food"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_DeleteCategory(t *testing.T) {
	t.Run("reports removal", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, audit))

		rec := doRequest(r, http.MethodDelete, "/categories/"+foodID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if outcome := parseJSON(t, rec)["outcome"]; outcome != "removed" {
			t.Errorf("expected removed, got %v", outcome)
		}
		if len(audit.entries) != 1 || audit.entries[0].changes["outcome"] != "removed" {
			t.Errorf("unexpected audit entries: %+v", audit.entries)
		}
	})

	t.Run("reports deactivation", func(t *testing.T) {
		svc := &mockCategoryService{
			deleteCategoryFn: func(_ context.Context, _, _ string) (services.DeleteOutcome, error) {
				return services.DeleteOutcomeDeactivated, nil
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodDelete, "/categories/"+foodID, "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if outcome := parseJSON(t, rec)["outcome"]; outcome != "deactivated" {
			t.Errorf("expected deactivated, got %v", outcome)
		}
	})

	t.Run("returns 409 when subcategories exist", func(t *testing.T) {
		svc := &mockCategoryService{
			deleteCategoryFn: func(_ context.Context, _, _ string) (services.DeleteOutcome, error) {
				return "", apperrors.ErrCategoryHasChildren
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodDelete, "/categories/"+travelID, "")

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CATEGORY_HAS_CHILDREN")
	})
}

func TestCategoryHandler_ActivateCategory(t *testing.T) {
	t.Run("returns the active category", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupCategoryRouter(NewCategoryHandler(&mockCategoryService{}, audit))

		rec := doRequest(r, http.MethodPut, "/categories/"+foodID+"/activate", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		cat := parseJSON(t, rec)["category"].(map[string]interface{})
		if cat["is_active"] != true {
			t.Errorf("expected active category, got %v", cat)
		}
		if len(audit.entries) != 1 || audit.entries[0].action != "ACTIVATE_CATEGORY" {
			t.Errorf("unexpected audit entries: %+v", audit.entries)
		}
	})

	t.Run("returns 404 for unknown id", func(t *testing.T) {
		svc := &mockCategoryService{
			activateCategoryFn: func(_ context.Context, _, _ string) (*models.Category, error) {
				return nil, apperrors.ErrCategoryNotFound
			},
		}
		r := setupCategoryRouter(NewCategoryHandler(svc, &mockAuditService{}))

		rec := doRequest(r, http.MethodPut, "/categories/"+foodID+"/activate", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}
