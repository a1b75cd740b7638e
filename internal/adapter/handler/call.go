package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/teamflowdev/call-coordinator/internal/adapter/dto/call"
	"github.com/teamflowdev/call-coordinator/internal/adapter/presenter"
	callUsecase "github.com/teamflowdev/call-coordinator/internal/usecase/call"
	usecaseErrors "github.com/teamflowdev/call-coordinator/internal/usecase/errors"
	transcriptUsecase "github.com/teamflowdev/call-coordinator/internal/usecase/transcript"
)

// Call handles video-call HTTP requests
type Call struct {
	callService       *callUsecase.Service
	transcriptService *transcriptUsecase.Service
}

// NewCallHandler creates a new call handler
func NewCallHandler(callService *callUsecase.Service, transcriptService *transcriptUsecase.Service) *Call {
	return &Call{
		callService:       callService,
		transcriptService: transcriptService,
	}
}

// JoinCall handles POST /video-call/join
func (h *Call) JoinCall(c echo.Context) error {
	var req call.JoinCallRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_request",
			"message": err.Error(),
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "validation_failed",
			"message": err.Error(),
		})
	}

	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error":   "unauthorized",
			"message": "user not authenticated",
		})
	}

	teamID, err := uuid.Parse(req.TeamID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_team_id",
			"message": "team ID must be a valid UUID",
		})
	}

	input := callUsecase.CreateOrJoinCallInput{
		UserID: userID,
		TeamID: teamID,
	}
	if req.RefID != nil {
		refID, err := uuid.Parse(*req.RefID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"error":   "invalid_ref_id",
				"message": "ref ID must be a valid UUID",
			})
		}
		input.RefID = &refID
	}
	input.RefType = req.RefType

	result, err := h.callService.CreateOrJoinCall(c.Request().Context(), input)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorCode := "failed_to_join_call"

		switch {
		case errors.Is(err, usecaseErrors.ErrNotTeamMember):
			statusCode = http.StatusForbidden
			errorCode = "not_team_member"
		case errors.Is(err, usecaseErrors.ErrBannedFromCall):
			statusCode = http.StatusForbidden
			errorCode = "banned_from_call"
		case errors.Is(err, usecaseErrors.ErrUnmappedRole):
			statusCode = http.StatusForbidden
			errorCode = "unmapped_role"
		}

		return c.JSON(statusCode, map[string]interface{}{
			"error":   errorCode,
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, &call.JoinCallResponse{
		Action: string(result.Action),
		RoomID: result.RoomID,
	})
}

// EndCall handles POST /video-call/end
func (h *Call) EndCall(c echo.Context) error {
	var req call.EndCallRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_request",
			"message": err.Error(),
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "validation_failed",
			"message": err.Error(),
		})
	}

	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error":   "unauthorized",
			"message": "user not authenticated",
		})
	}

	if err := h.callService.EndCall(c.Request().Context(), userID, req.RoomID); err != nil {
		statusCode := http.StatusInternalServerError
		errorCode := "failed_to_end_call"

		switch {
		case errors.Is(err, usecaseErrors.ErrCallNotFound):
			statusCode = http.StatusNotFound
			errorCode = "call_not_found"
		case errors.Is(err, usecaseErrors.ErrNotHost):
			statusCode = http.StatusForbidden
			errorCode = "not_host"
		case errors.Is(err, usecaseErrors.ErrCallEnded):
			statusCode = http.StatusConflict
			errorCode = "call_already_ended"
		}

		return c.JSON(statusCode, map[string]interface{}{
			"error":   errorCode,
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "call ended successfully",
	})
}

// KickUser handles POST /video-call/kick
func (h *Call) KickUser(c echo.Context) error {
	return h.moderate(c, h.callService.KickUser)
}

// UnkickUser handles POST /video-call/unkick
func (h *Call) UnkickUser(c echo.Context) error {
	return h.moderate(c, h.callService.UnkickUser)
}

// moderate is the shared bind/validate/dispatch path for kick and unkick
func (h *Call) moderate(c echo.Context, action func(ctx context.Context, requesterID, targetUserID uuid.UUID, roomID string) (callUsecase.ModerationStatus, error)) error {
	var req call.ModerationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_request",
			"message": err.Error(),
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "validation_failed",
			"message": err.Error(),
		})
	}

	requesterID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error":   "unauthorized",
			"message": "user not authenticated",
		})
	}

	targetUserID, err := uuid.Parse(req.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_user_id",
			"message": "user ID must be a valid UUID",
		})
	}

	status, err := action(c.Request().Context(), requesterID, targetUserID, req.RoomID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorCode := "moderation_failed"

		switch {
		case errors.Is(err, usecaseErrors.ErrCallNotFound):
			statusCode = http.StatusNotFound
			errorCode = "call_not_found"
		case errors.Is(err, usecaseErrors.ErrNotInRoom):
			statusCode = http.StatusForbidden
			errorCode = "not_in_room"
		case errors.Is(err, usecaseErrors.ErrNoKickPermission):
			statusCode = http.StatusForbidden
			errorCode = "no_kick_permission"
		case errors.Is(err, usecaseErrors.ErrTargetNotInRoom):
			statusCode = http.StatusNotFound
			errorCode = "target_not_in_room"
		case errors.Is(err, usecaseErrors.ErrUnmappedRole):
			statusCode = http.StatusForbidden
			errorCode = "unmapped_role"
		}

		return c.JSON(statusCode, map[string]interface{}{
			"error":   errorCode,
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, &call.ModerationResponse{Status: string(status)})
}

// ScreenShare handles POST /video-call/screen-share
func (h *Call) ScreenShare(c echo.Context) error {
	var req call.ScreenShareRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_request",
			"message": err.Error(),
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "validation_failed",
			"message": err.Error(),
		})
	}

	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error":   "unauthorized",
			"message": "user not authenticated",
		})
	}

	if err := h.callService.UpdateScreenShareStatus(c.Request().Context(), userID, req.RoomID, req.IsSharing); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error":   "failed_to_update_screen_share",
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "screen share status updated",
	})
}

// ReceiveTranscript handles POST /video-call/transcript
func (h *Call) ReceiveTranscript(c echo.Context) error {
	var req call.TranscriptRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_request",
			"message": err.Error(),
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "validation_failed",
			"message": err.Error(),
		})
	}

	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error":   "unauthorized",
			"message": "user not authenticated",
		})
	}

	timestamp := time.Now()
	if req.Timestamp != nil {
		timestamp = *req.Timestamp
	}

	if err := h.transcriptService.HandleTranscriptReceive(c.Request().Context(), req.RoomID, userID, req.Content, timestamp); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error":   "failed_to_buffer_transcript",
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"message": "transcript fragment buffered",
	})
}

// TriggerSummary handles POST /video-call/trigger-summary
func (h *Call) TriggerSummary(c echo.Context) error {
	var req call.TriggerSummaryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_request",
			"message": err.Error(),
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "validation_failed",
			"message": err.Error(),
		})
	}

	h.transcriptService.TriggerSummary(req.RoomID)

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"message": "summarization triggered",
	})
}

// CallHistory handles GET /video-call/call-history
func (h *Call) CallHistory(c echo.Context) error {
	var req call.CallHistoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_request",
			"message": err.Error(),
		})
	}

	if req.Limit == 0 {
		req.Limit = 20
	}

	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"error":   "unauthorized",
			"message": "user not authenticated",
		})
	}

	calls, err := h.callService.CallHistoryByUser(c.Request().Context(), userID, req.Limit, req.Offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error":   "failed_to_get_call_history",
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, presenter.ToCallHistoryResponse(calls))
}

// CallHistoryByRoom handles GET /video-call/call-history/:roomId
func (h *Call) CallHistoryByRoom(c echo.Context) error {
	roomID := c.Param("roomId")
	if roomID == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid_room_id",
			"message": "room ID is required",
		})
	}

	callEntity, profiles, err := h.callService.CallHistoryByRoom(c.Request().Context(), roomID)
	if err != nil {
		statusCode := http.StatusInternalServerError
		errorCode := "failed_to_get_call_history"
		if errors.Is(err, usecaseErrors.ErrCallNotFound) {
			statusCode = http.StatusNotFound
			errorCode = "call_not_found"
		}

		return c.JSON(statusCode, map[string]interface{}{
			"error":   errorCode,
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, presenter.ToCallResponse(callEntity, profiles))
}
