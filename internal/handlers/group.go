package handlers

import (
	"net/http"

	"yatube/internal/services"

	"github.com/gin-gonic/gin"
)

type GroupHandler struct {
	groups *services.GroupService
}

func NewGroupHandler(groups *services.GroupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

// List 展示所有分组
func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.groups.List(c.Request.Context())
	if err != nil {
		RenderError(c, err)
		return
	}

	Render(c, http.StatusOK, "posts/groups.html", gin.H{
		"Groups": groups,
		"Title":  "Groups",
		"Active": "groups",
	})
}
