package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"team_chat/internal/repository"
	"team_chat/pkg/logger"
)

type RoomHandler struct {
	roomRepo repository.RoomRepository
	log      logger.Logger
}

func NewRoomHandler(roomRepo repository.RoomRepository, log logger.Logger) *RoomHandler {
	return &RoomHandler{
		roomRepo: roomRepo,
		log:      log,
	}
}

func (h *RoomHandler) GetByID(c *gin.Context) {
	room, err := h.roomRepo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, room)
}
