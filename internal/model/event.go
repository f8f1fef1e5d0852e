package model

import "time"

type EventType string

const (
	EventCampaign EventType = "Campaign"
	EventMeeting  EventType = "Event"
)

func (t EventType) Valid() bool {
	return t == EventCampaign || t == EventMeeting
}

const (
	EventDateLayout = "2006-01-02"
	EventTimeLayout = "15:04"
)

// Event is an event or a campaign; it has no owner.
type Event struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	Type        EventType `gorm:"size:16;not null;index" json:"type"`
	MeetingType string    `gorm:"size:32;not null" json:"meetingType"`
	Date        string    `gorm:"size:10;not null" json:"date"`
	Time        string    `gorm:"size:5;not null" json:"time"`
	Location    string    `gorm:"size:255;not null" json:"location"`
	Venue       string    `gorm:"size:255;not null" json:"venue"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
