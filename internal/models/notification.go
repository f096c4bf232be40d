package models

import "time"

// Notification verbs and target types.
const (
	VerbLikedPost = "liked your post"

	TargetTypePost = "post"
)

// Notification records an actor's action on a target, addressed to a recipient.
type Notification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RecipientID uint      `gorm:"not null;index:idx_notification_unread,priority:1" json:"recipient_id"`
	ActorID     uint      `gorm:"not null" json:"actor_id"`
	Verb        string    `gorm:"not null;size:255" json:"verb"`
	TargetType  string    `gorm:"size:32" json:"target_type"`
	TargetID    uint      `json:"target_id"`
	Timestamp   time.Time `gorm:"not null;autoCreateTime" json:"timestamp"`
	Read        bool      `gorm:"not null;default:false;index:idx_notification_unread,priority:2" json:"read"`

	Recipient User `gorm:"foreignKey:RecipientID" json:"-"`
	Actor     User `gorm:"foreignKey:ActorID" json:"-"`
}
