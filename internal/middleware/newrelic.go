package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
)

// TransactionAttributes decorates the New Relic transaction started by
// nrgin.Middleware with the request id, the degraded flag and any errors
// the handler recorded. It is a no-op when no transaction is present.
func TransactionAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		txn := nrgin.Transaction(c)
		if txn == nil {
			return
		}

		txn.AddAttribute("request_id", GetRequestID(c))
		if IsDegraded(c) {
			txn.AddAttribute("degraded", true)
		}
		for _, err := range c.Errors {
			txn.NoticeError(err.Err)
		}
	}
}
