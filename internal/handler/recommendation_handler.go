package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetRecommendations 返回当前用户的个性化推荐列表。
// 登录校验由路由上的 AuthRequired 完成。
func (a *API) GetRecommendations(c *gin.Context) {
	user := currentUser(c)

	result, err := a.recommendations.Recommend(user, time.Now())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to compute recommendations")
		return
	}

	items := make([]gin.H, 0, len(result.Articles))
	for i := range result.Articles {
		items = append(items, articleSummaryJSON(&result.Articles[i]))
	}

	payload := gin.H{
		"recommendations": items,
		"based_on":        result.BasedOn,
	}
	if result.Message != "" {
		payload["message"] = result.Message
	}

	c.JSON(http.StatusOK, payload)
}
