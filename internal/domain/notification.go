package domain

// Notification 表示核心计算产生的一条待投递通知
// 纯计算函数只负责返回事件，实际的投递由 handler 层的适配器完成
type Notification struct {
	Type        string      `json:"type"`
	Title       string      `json:"title"`
	Message     string      `json:"message"`
	Priority    GapPriority `json:"priority"`
	RelatedTo   string      `json:"relatedTo"` // shift / gap
	RelatedID   int64       `json:"relatedID"`
	Date        string      `json:"date"`
	StartTime   string      `json:"startTime"`
	EndTime     string      `json:"endTime"`
	RecipientID *int64      `json:"recipientID,omitempty"` // 为 nil 时发送给所有协调员
}

// NotificationMessage 表示投递到消息队列中的通知
type NotificationMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type ShiftNotificationData struct {
	FullName  string `json:"fullName"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Message   string `json:"message"`
}

type GapNotificationData struct {
	FullName  string `json:"fullName"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Priority  string `json:"priority"`
	Message   string `json:"message"`
}

type CreateUserMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ChangeEmailMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}
