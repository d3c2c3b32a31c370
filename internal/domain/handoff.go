package domain

import "time"

// Handoff 表示交接班记录，由结束班次的照护者写给接班的照护者
type Handoff struct {
	ID          int64     `json:"id"`
	FromShiftID int64     `json:"fromShiftID"`
	ToShiftID   *int64    `json:"toShiftID,omitempty"`
	AuthorID    int64     `json:"authorID"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"createdAt"`
	Version     int32     `json:"-"`
}
