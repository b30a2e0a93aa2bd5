package middleware

import "github.com/gin-gonic/gin"

const degradedKey = "degraded"

// MarkDegraded flags the response as served from a fallback. The reason is
// attached to the request errors so it is logged and reported, but it does
// not change the response status.
func MarkDegraded(c *gin.Context, reason error) {
	c.Set(degradedKey, true)
	if reason != nil {
		_ = c.Error(reason).SetType(gin.ErrorTypePrivate)
	}
}

// IsDegraded reports whether a handler called MarkDegraded.
func IsDegraded(c *gin.Context) bool {
	return c.GetBool(degradedKey)
}
