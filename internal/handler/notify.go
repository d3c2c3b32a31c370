package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/caresupportcom/care-schedule/backend/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// dispatchEvents 把核心计算返回的通知事件投递到消息队列
// RecipientID 为 nil 的事件广播给所有在职协调员
// 通知投递失败不影响业务操作本身，只记录日志
func (h *Handler) dispatchEvents(events []domain.Notification) {
	for _, event := range events {
		if event.RecipientID != nil {
			user, err := h.repository.GetUserByID(*event.RecipientID)
			if err != nil {
				slog.Warn("无法获取通知接收人", "recipient_id", *event.RecipientID, "error", err)
				continue
			}
			h.publishNotification(event, user)
			continue
		}

		coordinators, err := h.repository.GetActiveUsersByRole(domain.RoleCoordinator)
		if err != nil {
			slog.Warn("无法获取协调员名单", "error", err)
			continue
		}
		for _, coordinator := range coordinators {
			h.publishNotification(event, coordinator)
		}
	}
}

func (h *Handler) publishNotification(event domain.Notification, recipient *domain.User) {
	message := domain.NotificationMessage{
		Type: event.Type,
		To:   recipient.Email,
	}

	if strings.HasPrefix(event.Type, "shift") {
		message.Data = domain.ShiftNotificationData{
			FullName:  recipient.FullName,
			Date:      event.Date,
			StartTime: event.StartTime,
			EndTime:   event.EndTime,
			Message:   event.Message,
		}
	} else {
		message.Data = domain.GapNotificationData{
			FullName:  recipient.FullName,
			Date:      event.Date,
			StartTime: event.StartTime,
			EndTime:   event.EndTime,
			Priority:  string(event.Priority),
			Message:   event.Message,
		}
	}

	messageData, err := json.Marshal(message)
	if err != nil {
		slog.Warn("通知序列化失败", "type", event.Type, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.notifyChannel.PublishWithContext(
		ctx,
		"",
		"notification_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        messageData,
		},
	); err != nil {
		slog.Warn("通知投递失败", "type", event.Type, "to", recipient.Email, "error", err)
	}
}
