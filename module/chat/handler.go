package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SHANKAR-YADAVA/ChatApp/logger"
	midsec "github.com/SHANKAR-YADAVA/ChatApp/middleware/security"
	"github.com/SHANKAR-YADAVA/ChatApp/module/chat/service"
	usersvc "github.com/SHANKAR-YADAVA/ChatApp/module/user/service"
	"github.com/SHANKAR-YADAVA/ChatApp/tools/errs"
)

// Handler serves the message and group HTTP API. Live fan-out happens inside
// the services; these handlers only shape requests and responses.
type Handler struct {
	Messages *service.MessageService
	Groups   *service.GroupService
	Users    *usersvc.Service
}

func NewHandler(msgs *service.MessageService, groups *service.GroupService, users *usersvc.Service) *Handler {
	return &Handler{Messages: msgs, Groups: groups, Users: users}
}

// SidebarUsers lists everyone except the caller.
func (h *Handler) SidebarUsers(c *gin.Context) {
	users, err := h.Users.ListOthers(c.Request.Context(), midsec.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// History returns the direct conversation with the user in the path.
func (h *Handler) History(c *gin.Context) {
	msgs, err := h.Messages.HistoryDirect(c.Request.Context(), midsec.UserID(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

type sendReq struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

// Send persists a direct message to the user in the path and relays it live.
func (h *Handler) Send(c *gin.Context) {
	var req sendReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errs.ErrArgs.WithDetail(err.Error()))
		return
	}
	m, err := h.Messages.SendDirect(c.Request.Context(), midsec.UserID(c), c.Param("id"), req.Text, req.Image)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

type sendGroupReq struct {
	RoomID string `json:"roomId" binding:"required"`
	Text   string `json:"text"`
	Image  string `json:"image"`
}

// SendGroup persists a group message and broadcasts it to the room.
func (h *Handler) SendGroup(c *gin.Context) {
	var req sendGroupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errs.ErrArgs.WithDetail(err.Error()))
		return
	}
	m, err := h.Messages.SendGroup(c.Request.Context(), midsec.UserID(c), req.RoomID, req.Text, req.Image)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// GroupHistory returns a room's messages.
func (h *Handler) GroupHistory(c *gin.Context) {
	msgs, err := h.Messages.HistoryRoom(c.Request.Context(), c.Param("roomId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// Delete removes a message; the deletion notice reaches clients only after
// storage confirmed the delete.
func (h *Handler) Delete(c *gin.Context) {
	err := h.Messages.Delete(c.Request.Context(), midsec.UserID(c), c.Param("messageId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

type createGroupReq struct {
	Name    string   `json:"name" binding:"required"`
	Icon    string   `json:"icon"`
	Members []string `json:"members"`
}

func (h *Handler) CreateGroup(c *gin.Context) {
	var req createGroupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errs.ErrArgs.WithDetail(err.Error()))
		return
	}
	g, err := h.Groups.Create(c.Request.Context(), midsec.UserID(c), req.Name, req.Icon, req.Members)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

func (h *Handler) ListGroups(c *gin.Context) {
	groups, err := h.Groups.ListForUser(c.Request.Context(), midsec.UserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errs.ErrArgs.Is(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errs.ErrNoPermission.Is(err):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errs.ErrRecordNotFound.Is(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Errorf("[chat] handler error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
