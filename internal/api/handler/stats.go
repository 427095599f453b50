package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Stats returns the headline counters the dashboard shows on its front
// page.
func (h *Handler) Stats(c *gin.Context) {
	bots, err := h.Store.ListBots()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load bots"})
		return
	}

	perBot := make([]gin.H, 0, len(bots))
	var users int64
	for _, bot := range bots {
		n, err := h.Store.CountUsers(bot.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count users"})
			return
		}
		users += n
		perBot = append(perBot, gin.H{"bot": bot.Username, "users": n})
	}

	files, err := h.Store.CountFiles()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count files"})
		return
	}
	searches, err := h.Store.CountSearches()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count searches"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":    users,
		"files":    files,
		"searches": searches,
		"bots":     perBot,
	})
}
