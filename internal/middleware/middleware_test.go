package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"ridematch/internal/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID_Generates(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())

	var seen string
	router.GET("/", func(c *gin.Context) {
		seen = logger.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	got := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, got, seen)
}

func TestRequestID_KeepsValidHeader(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	id := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, id)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, id, w.Header().Get(RequestIDHeader))
	assert.Equal(t, id, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(RequestIDHeader))
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(zap.NewNop()) })

	router := gin.New()
	router.Use(RequestID(), RequestLogger("ridematch"))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/fallback", func(c *gin.Context) {
		MarkDegraded(c, errors.New("redis down"))
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fallback", nil))

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "Request completed", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "ridematch", entries[0].ContextMap()["service"])
	assert.NotEmpty(t, entries[0].ContextMap()["request_id"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, true, entries[1].ContextMap()["degraded"])
	assert.Contains(t, entries[1].ContextMap()["errors"], "redis down")
}

func TestRequestTimeout_SetsDeadline(t *testing.T) {
	router := gin.New()
	router.Use(RequestTimeout(50 * time.Millisecond))
	router.GET("/", func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		if !ok || time.Until(deadline) > 50*time.Millisecond {
			c.Status(http.StatusInternalServerError)
			return
		}
		<-c.Request.Context().Done()
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"https://app.example.com"}))
	router.POST("/api/ride/estimate", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/api/ride/estimate", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodPost, "/api/ride/estimate", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

// emptyObjectHash is the hex SHA-256 of the body "{}".
const emptyObjectHash = "44136fa355b3678a1146ad16f7e8649e94fb4fc21fe77e8310c060f61caaff8a"

func TestQuoteReplay_StoresAndReplays(t *testing.T) {
	client, mock := redismock.NewClientMock()

	calls := 0
	router := gin.New()
	router.Use(QuoteReplay(client, time.Minute))
	router.POST("/estimate", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"estimated_fare": 25000})
	})

	mock.ExpectGet("quote:replay:abc").RedisNil()
	mock.Regexp().ExpectSet("quote:replay:abc", `.*`, time.Minute).SetVal("OK")

	req := httptest.NewRequest(http.MethodPost, "/estimate", strings.NewReader("{}"))
	req.Header.Set(IdempotencyHeader, "abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get(ReplayedHeader))
	assert.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectGet("quote:replay:abc").
		SetVal(`{"request_hash":"` + emptyObjectHash + `","status_code":200,"content_type":"application/json; charset=utf-8","body":{"estimated_fare":25000}}`)

	req = httptest.NewRequest(http.MethodPost, "/estimate", strings.NewReader("{}"))
	req.Header.Set(IdempotencyHeader, "abc")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", w.Header().Get(ReplayedHeader))
	assert.JSONEq(t, `{"estimated_fare":25000}`, w.Body.String())
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHashBody(t *testing.T) {
	assert.Equal(t, emptyObjectHash, hashBody([]byte("{}")))
	assert.NotEqual(t, hashBody([]byte(`{"pickup":"A"}`)), hashBody([]byte(`{"pickup":"B"}`)))
}

func TestQuoteReplay_RejectsKeyReuseWithDifferentBody(t *testing.T) {
	client, mock := redismock.NewClientMock()

	calls := 0
	router := gin.New()
	router.Use(QuoteReplay(client, time.Minute))
	router.POST("/estimate", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"trip": "B"})
	})

	// The key was first used for a "{}" body.
	mock.ExpectGet("quote:replay:k1").
		SetVal(`{"request_hash":"` + emptyObjectHash + `","status_code":200,"content_type":"application/json","body":{"trip":"A"}}`)

	req := httptest.NewRequest(http.MethodPost, "/estimate", strings.NewReader(`{"pickup":"B"}`))
	req.Header.Set(IdempotencyHeader, "k1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, w.Header().Get(ReplayedHeader))
	assert.NotContains(t, w.Body.String(), `"trip":"A"`)
	assert.Equal(t, 0, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuoteReplay_HandlerStillReadsBody(t *testing.T) {
	client, mock := redismock.NewClientMock()

	router := gin.New()
	router.Use(QuoteReplay(client, time.Minute))
	router.POST("/estimate", func(c *gin.Context) {
		var body map[string]string
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.JSON(http.StatusOK, body)
	})

	mock.ExpectGet("quote:replay:k2").RedisNil()
	mock.Regexp().ExpectSet("quote:replay:k2", `.*`, time.Minute).SetVal("OK")

	req := httptest.NewRequest(http.MethodPost, "/estimate", strings.NewReader(`{"pickup":"B"}`))
	req.Header.Set(IdempotencyHeader, "k2")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"pickup":"B"}`, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuoteReplay_SkipsDegradedAndErrors(t *testing.T) {
	client, mock := redismock.NewClientMock()

	router := gin.New()
	router.Use(QuoteReplay(client, time.Minute))
	router.POST("/degraded", func(c *gin.Context) {
		MarkDegraded(c, errors.New("timeout"))
		c.JSON(http.StatusOK, gin.H{"surge_multiplier": 1.0})
	})
	router.POST("/bad", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid"})
	})

	for _, path := range []string{"/degraded", "/bad"} {
		mock.ExpectGet("quote:replay:k" + path).RedisNil()

		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set(IdempotencyHeader, "k"+path)
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuoteReplay_PassThrough(t *testing.T) {
	client, mock := redismock.NewClientMock()

	router := gin.New()
	router.Use(QuoteReplay(client, time.Minute))
	router.POST("/estimate", func(c *gin.Context) { c.Status(http.StatusOK) })

	// No key: redis is never consulted.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/estimate", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// Redis failure: the request is served normally.
	mock.ExpectGet("quote:replay:x").SetErr(errors.New("connection refused"))
	req := httptest.NewRequest(http.MethodPost, "/estimate", nil)
	req.Header.Set(IdempotencyHeader, "x")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionAttributes_NoTransaction(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(), TransactionAttributes())
	router.GET("/", func(c *gin.Context) {
		MarkDegraded(c, errors.New("boom"))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
