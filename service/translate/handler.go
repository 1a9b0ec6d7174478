package translate

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SHANKAR-YADAVA/ChatApp/logger"
	"github.com/SHANKAR-YADAVA/ChatApp/tools/errs"
)

type translateReq struct {
	Text       string `json:"text" binding:"required"`
	TargetLang string `json:"targetLang" binding:"required"`
}

// Handler exposes POST /api/translate.
func Handler(t *Translator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req translateReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errs.ErrArgs.WithDetail("missing text or targetLang"))
			return
		}
		out, err := t.Translate(c.Request.Context(), req.Text, req.TargetLang)
		if err != nil {
			logger.Errorf("[translate] %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "translation failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"translatedText": out})
	}
}
