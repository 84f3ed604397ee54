package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appaudit "github.com/storefront/backend/internal/application/audit"
	"github.com/storefront/backend/internal/domain/audit"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
)

// MockAuditRepository is a mock implementation of audit.Repository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, entry *audit.LogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) FindByResource(ctx context.Context, resource, resourceID string, filter shared.Filter) ([]*audit.LogEntry, error) {
	args := m.Called(ctx, resource, resourceID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*audit.LogEntry), args.Error(1)
}

func (m *MockAuditRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*audit.LogEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*audit.LogEntry), args.Error(1)
}

func (m *MockAuditRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type auditFixture struct {
	repo   *MockAuditRepository
	router *gin.Engine
	group  *gin.RouterGroup
}

func newAuditFixture(actor identity.Actor) *auditFixture {
	gin.SetMode(gin.TestMode)
	repo := new(MockAuditRepository)
	svc := appaudit.NewAuditService(repo, zap.NewNop())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(ActorKey, actor)
		c.Next()
	})
	group := r.Group("/products", AuditTrail(svc, "products"))
	return &auditFixture{repo: repo, router: r, group: group}
}

func adminActor() identity.Actor {
	return identity.Actor{UserID: uuid.New().String(), Email: "admin@example.com", Role: "admin"}
}

func (f *auditFixture) capture() **audit.LogEntry {
	var captured *audit.LogEntry
	f.repo.On("Append", mock.Anything, mock.AnythingOfType("*audit.LogEntry")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*audit.LogEntry)
		}).
		Return(nil)
	return &captured
}

func TestAuditTrail(t *testing.T) {
	t.Run("create records the response data as the new state", func(t *testing.T) {
		actor := adminActor()
		f := newAuditFixture(actor)
		captured := f.capture()
		productID := uuid.New().String()

		f.group.POST("", func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{"_id": productID, "name": "Widget"}})
		})

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/products", nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		require.NotNil(t, *captured)
		entry := *captured
		assert.Equal(t, "products", entry.Resource)
		assert.Equal(t, productID, entry.ResourceID)
		assert.Equal(t, audit.ActionCreate, entry.Action)
		assert.Equal(t, actor.UserID, entry.Actor.UserID)
		assert.Nil(t, entry.Change.Old)
		require.NotNil(t, entry.Change.New)
		assert.Equal(t, "Widget", entry.Change.New.(map[string]interface{})["name"])
		assert.Equal(t, http.MethodPost, entry.Method)
		assert.Equal(t, http.StatusCreated, entry.StatusCode)
	})

	t.Run("anonymous create borrows the response id as the performer", func(t *testing.T) {
		f := newAuditFixture(identity.Anonymous())
		captured := f.capture()
		orderID := uuid.New().String()

		f.group.POST("", func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{"_id": orderID}})
		})

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/products", nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		require.NotNil(t, *captured)
		entry := *captured
		assert.Equal(t, orderID, entry.ResourceID)
		assert.Equal(t, orderID, entry.Actor.UserID)
	})

	t.Run("anonymous mutation with no resolvable id is not recorded", func(t *testing.T) {
		f := newAuditFixture(identity.Anonymous())

		f.group.POST("", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"accepted": true}})
		})

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/products", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		f.repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("handler-stashed change wins over inference", func(t *testing.T) {
		f := newAuditFixture(adminActor())
		captured := f.capture()
		productID := uuid.New().String()

		f.group.PUT("/:id", func(c *gin.Context) {
			SetAuditChange(c, audit.Change{
				Old: map[string]any{"name": "Before"},
				New: map[string]any{"name": "After"},
			})
			c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"_id": productID, "name": "After"}})
		})

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/products/"+productID, nil))

		require.NotNil(t, *captured)
		entry := *captured
		assert.Equal(t, audit.ActionUpdate, entry.Action)
		assert.Equal(t, map[string]any{"name": "Before"}, entry.Change.Old)
		assert.Equal(t, map[string]any{"name": "After"}, entry.Change.New)
	})

	t.Run("legacy old and new pair is lifted and the client receives the new state", func(t *testing.T) {
		f := newAuditFixture(adminActor())
		captured := f.capture()
		productID := uuid.New().String()

		f.group.PUT("/:id", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
				"_id":     productID,
				"oldData": gin.H{"name": "Before"},
				"newData": gin.H{"name": "After"},
			}})
		})

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/products/"+productID, nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "oldData")
		assert.NotContains(t, w.Body.String(), "newData")

		var resp struct {
			Data map[string]interface{} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, map[string]interface{}{"name": "After"}, resp.Data)

		require.NotNil(t, *captured)
		entry := *captured
		assert.Equal(t, productID, entry.ResourceID)
		assert.Equal(t, "Before", entry.Change.Old.(map[string]interface{})["name"])
		assert.Equal(t, "After", entry.Change.New.(map[string]interface{})["name"])
	})

	t.Run("legacy pair with no new state keeps the remaining fields on delete", func(t *testing.T) {
		f := newAuditFixture(adminActor())
		captured := f.capture()
		productID := uuid.New().String()

		f.group.DELETE("/:id", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
				"_id":     productID,
				"oldData": gin.H{"name": "Widget"},
			}})
		})

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/products/"+productID, nil))

		assert.NotContains(t, w.Body.String(), "oldData")
		assert.Contains(t, w.Body.String(), productID)

		require.NotNil(t, *captured)
		entry := *captured
		assert.Equal(t, "Widget", entry.Change.Old.(map[string]interface{})["name"])
		assert.Nil(t, entry.Change.New)
	})

	t.Run("legacy pair is unwrapped even when a typed change is stashed", func(t *testing.T) {
		f := newAuditFixture(adminActor())
		captured := f.capture()
		productID := uuid.New().String()

		f.group.PUT("/:id", func(c *gin.Context) {
			SetAuditChange(c, audit.Change{
				Old: map[string]any{"name": "Typed before"},
				New: map[string]any{"name": "Typed after"},
			})
			c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
				"oldData": gin.H{"name": "Before"},
				"newData": gin.H{"name": "After"},
			}})
		})

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/products/"+productID, nil))

		assert.NotContains(t, w.Body.String(), "oldData")
		assert.NotContains(t, w.Body.String(), "newData")
		assert.Contains(t, w.Body.String(), `"name":"After"`)

		require.NotNil(t, *captured)
		assert.Equal(t, map[string]any{"name": "Typed after"}, (*captured).Change.New)
	})

	t.Run("delete records the response data as the old state", func(t *testing.T) {
		f := newAuditFixture(adminActor())
		captured := f.capture()
		productID := uuid.New().String()

		f.group.DELETE("/:id", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"_id": productID, "name": "Widget"}})
		})

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/products/"+productID, nil))

		require.NotNil(t, *captured)
		entry := *captured
		assert.Equal(t, audit.ActionDelete, entry.Action)
		require.NotNil(t, entry.Change.Old)
		assert.Nil(t, entry.Change.New)
	})

	t.Run("falls back to the path parameter when the response has no id", func(t *testing.T) {
		f := newAuditFixture(adminActor())
		captured := f.capture()
		productID := uuid.New().String()

		f.group.DELETE("/:id", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": nil})
		})

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/products/"+productID, nil))

		require.NotNil(t, *captured)
		assert.Equal(t, productID, (*captured).ResourceID)
	})

	t.Run("handler override wins the resource id resolution", func(t *testing.T) {
		f := newAuditFixture(adminActor())
		captured := f.capture()

		f.group.POST("/adjust", func(c *gin.Context) {
			SetAuditResourceID(c, "override-id")
			c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"_id": "body-id"}})
		})

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/products/adjust", nil))

		require.NotNil(t, *captured)
		assert.Equal(t, "override-id", (*captured).ResourceID)
	})

	t.Run("failed requests are not recorded", func(t *testing.T) {
		f := newAuditFixture(adminActor())

		f.group.POST("", func(c *gin.Context) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"success": false})
		})

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/products", nil))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "false")
		f.repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("reads are not recorded", func(t *testing.T) {
		f := newAuditFixture(adminActor())

		f.group.GET("", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"_id": "x"}})
		})

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		f.repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("body reaches the client byte for byte when nothing is stripped", func(t *testing.T) {
		f := newAuditFixture(adminActor())
		f.capture()

		f.group.POST("", func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{"_id": "abc", "name": "Widget"}})
		})

		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/products", nil))

		assert.True(t, strings.Contains(w.Body.String(), `"name":"Widget"`))
	})
}

// ============================================
// AuditService Tests
// ============================================

func TestAuditService_Record(t *testing.T) {
	ctx := context.Background()

	t.Run("skips entries without a resource id", func(t *testing.T) {
		repo := new(MockAuditRepository)
		svc := appaudit.NewAuditService(repo, zap.NewNop())

		svc.Record(ctx, appaudit.RecordInput{Resource: "products", Action: audit.ActionCreate})

		repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("skips entries without a resolved performer", func(t *testing.T) {
		repo := new(MockAuditRepository)
		svc := appaudit.NewAuditService(repo, zap.NewNop())

		svc.Record(ctx, appaudit.RecordInput{
			Resource:   "orders",
			ResourceID: "abc",
			Action:     audit.ActionCreate,
			Actor:      identity.Anonymous(),
		})

		repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("write failure never propagates", func(t *testing.T) {
		repo := new(MockAuditRepository)
		svc := appaudit.NewAuditService(repo, zap.NewNop())
		repo.On("Append", ctx, mock.AnythingOfType("*audit.LogEntry")).Return(assert.AnError)

		svc.Record(ctx, appaudit.RecordInput{
			Resource:   "products",
			ResourceID: "abc",
			Action:     audit.ActionCreate,
			Actor:      adminActor(),
		})

		repo.AssertExpectations(t)
	})
}
