package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ridematch/internal/logger"
)

const (
	// IdempotencyHeader names the client key a quote is replayed under.
	IdempotencyHeader = "Idempotency-Key"

	// ReplayedHeader is set on responses served from a stored quote.
	ReplayedHeader = "Idempotent-Replayed"

	replayKeyPrefix = "quote:replay:"
	maxKeyLength    = 128
)

// storedResponse is a response kept for replay. RequestHash binds it to the
// body of the request that produced it.
type storedResponse struct {
	RequestHash string          `json:"request_hash"`
	StatusCode  int             `json:"status_code"`
	ContentType string          `json:"content_type"`
	Body        json.RawMessage `json:"body"`
}

// bodyRecorder wraps gin.ResponseWriter to capture the response.
type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// QuoteReplay serves a stored response for a repeated Idempotency-Key so a
// client retrying an estimate sees the price it was first quoted. Only
// successful, non-degraded responses are stored. Reusing a key with a
// different body is rejected with 422. Redis failures disable replay for the
// request.
func QuoteReplay(client *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if client == nil || c.Request.Method != http.MethodPost || key == "" || len(key) > maxKeyLength {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := replayKeyPrefix + key

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		requestHash := hashBody(body)

		stored, err := loadResponse(ctx, client, cacheKey)
		if err != nil && !errors.Is(err, redis.Nil) {
			logger.WithContext(ctx).Warn("quote replay lookup failed", zap.Error(err))
			c.Next()
			return
		}
		if stored != nil {
			if stored.RequestHash != requestHash {
				c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
					"error": "Idempotency-Key was already used with a different request body",
				})
				return
			}
			c.Header(ReplayedHeader, "true")
			c.Data(stored.StatusCode, stored.ContentType, stored.Body)
			c.Abort()
			return
		}

		w := &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = w

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 || IsDegraded(c) {
			return
		}
		resp := storedResponse{
			RequestHash: requestHash,
			StatusCode:  status,
			ContentType: c.Writer.Header().Get("Content-Type"),
			Body:        w.body.Bytes(),
		}
		if err := storeResponse(context.WithoutCancel(ctx), client, cacheKey, &resp, ttl); err != nil {
			logger.WithContext(ctx).Warn("quote replay store failed", zap.Error(err))
		}
	}
}

func hashBody(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

func loadResponse(ctx context.Context, client *redis.Client, key string) (*storedResponse, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var stored storedResponse
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func storeResponse(ctx context.Context, client *redis.Client, key string, resp *storedResponse, ttl time.Duration) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, data, ttl).Err()
}
