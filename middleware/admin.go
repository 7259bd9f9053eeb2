package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/localpass/localpass/utils"
)

// AdminRequired restricts a route group to the configured admin allow-list.
// Must run after AuthRequired so the user ID is already in the context.
func AdminRequired(adminUserIDs []uint) gin.HandlerFunc {
	allowed := make(map[uint]bool, len(adminUserIDs))
	for _, id := range adminUserIDs {
		allowed[id] = true
	}
	return func(ctx *gin.Context) {
		value, exists := ctx.Get(ContextUserIDKey)
		userID, ok := value.(uint)
		if !exists || !ok {
			utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
			ctx.Abort()
			return
		}
		if !allowed[userID] {
			utils.Error(ctx, http.StatusForbidden, 40310, "admin only")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
