package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by *sql.DB
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HandleLexiconStatus reports whether the entity lexicon database is reachable.
// A nil db means the lexicon database is not configured.
func HandleLexiconStatus(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusOK, gin.H{"enabled": false, "connected": false})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		err := db.PingContext(ctx)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"enabled": true, "connected": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"enabled": true, "connected": true})
	}
}
