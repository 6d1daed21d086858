package models

import (
	"encoding/json"
	"time"
)

// Domain records exchanged with the Meshline backend. The client treats most
// of them as transient copies; the backend owns the canonical state.

type AuthResponse struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user,omitempty"`
}

// UserLocation is the last known client position. It is overwritten on each
// new fix and never persisted across runs.
type UserLocation struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Accuracy  float64   `json:"accuracy"` // meters
	Timestamp time.Time `json:"timestamp"`
	IsManual  bool      `json:"isManual"`
}

// NearbyUser is a professional returned by a proximity query. DistanceKM is
// nil when the backend did not compute a distance for the entry.
type NearbyUser struct {
	ID               string   `json:"_id"`
	FirstName        string   `json:"firstName"`
	LastName         string   `json:"lastName"`
	Headline         string   `json:"headline,omitempty"`
	Industry         string   `json:"industry,omitempty"`
	Skills           []string `json:"skills,omitempty"`
	DistanceKM       *float64 `json:"distance"`
	ConnectionStatus string   `json:"connectionStatus,omitempty"`
	IsConnected      bool     `json:"isConnected,omitempty"`
	IsFollowing      bool     `json:"isFollowing,omitempty"`
}

type ConnectionRequest struct {
	ID        string          `json:"_id"`
	Sender    json.RawMessage `json:"sender"`
	Message   string          `json:"message,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

type Chat struct {
	ID           string          `json:"_id"`
	Type         string          `json:"type"`
	Name         string          `json:"name,omitempty"`
	Description  string          `json:"description,omitempty"`
	Participants json.RawMessage `json:"participants,omitempty"`
	LastMessage  json.RawMessage `json:"lastMessage,omitempty"`
}

type ChatMessage struct {
	ID          string          `json:"_id"`
	ChatID      string          `json:"chatId,omitempty"`
	SenderID    string          `json:"senderId,omitempty"`
	Content     string          `json:"content,omitempty"`
	MessageType string          `json:"messageType,omitempty"`
	ReplyTo     string          `json:"replyTo,omitempty"`
	Media       json.RawMessage `json:"media,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

type Call struct {
	CallID     string          `json:"callId"`
	ChatID     string          `json:"chatId,omitempty"`
	Type       string          `json:"type,omitempty"`
	Initiator  json.RawMessage `json:"initiator,omitempty"`
	AcceptedBy string          `json:"acceptedBy,omitempty"`
	DeclinedBy string          `json:"declinedBy,omitempty"`
	EndedBy    string          `json:"endedBy,omitempty"`
}

type Reaction struct {
	UserID   string `json:"userId"`
	Reaction string `json:"reaction,omitempty"`
}

type Post struct {
	ID        string          `json:"_id"`
	Author    json.RawMessage `json:"author,omitempty"`
	Content   string          `json:"content,omitempty"`
	Media     json.RawMessage `json:"media,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

type Story struct {
	ID        string          `json:"_id"`
	Author    json.RawMessage `json:"author,omitempty"`
	Media     json.RawMessage `json:"media,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

type Event struct {
	ID        string          `json:"_id"`
	Title     string          `json:"title"`
	StartsAt  time.Time       `json:"startsAt"`
	Location  json.RawMessage `json:"location,omitempty"`
	Organizer json.RawMessage `json:"organizer,omitempty"`
}

type Job struct {
	ID       string          `json:"_id"`
	Title    string          `json:"title"`
	Company  json.RawMessage `json:"company,omitempty"`
	Location json.RawMessage `json:"location,omitempty"`
}

type Company struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Industry string `json:"industry,omitempty"`
}

type Group struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

type Project struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
}

type Achievement struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
}

type Streak struct {
	ID     string `json:"_id"`
	Title  string `json:"title,omitempty"`
	Active bool   `json:"active,omitempty"`
}

// PagedItems is the generic paging envelope used by portfolio listings.
type PagedItems struct {
	Items []json.RawMessage `json:"items"`
	Total int               `json:"total"`
}

// IPLocation is an approximate position derived from the caller's IP.
type IPLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city,omitempty"`
	Region    string  `json:"region,omitempty"`
	Country   string  `json:"country,omitempty"`
}

// Option structs for list calls. Zero values are omitted from the query.

type PageOptions struct {
	Limit  int
	Page   int
	Period string
}

type PostOptions struct {
	Limit  int
	Before string
	After  string
}

type MessageOptions struct {
	Limit         int
	Before        string
	After         string
	LastMessageID string
}

type SuggestionOptions struct {
	Industry string
	Skills   string
	Limit    int
}

type MapUserOptions struct {
	Latitude            float64
	Longitude           float64
	Radius              int
	Industries          string
	Skills              string
	AvailableForMeeting bool
	AvailableForHiring  bool
	LookingForWork      bool
	Page                int
	Limit               int
}

type NearbyEventOptions struct {
	Latitude   float64
	Longitude  float64
	Radius     int
	StartDate  string
	EndDate    string
	Categories string
	Page       int
	Limit      int
}

type NearbyJobOptions struct {
	Latitude         float64
	Longitude        float64
	Radius           int
	JobTypes         string
	ExperienceLevels string
	Industries       string
	Remote           bool
	Page             int
	Limit            int
}

type NearbyGroupOptions struct {
	Latitude   float64
	Longitude  float64
	Radius     int
	Types      string
	Categories string
	Page       int
	Limit      int
}

type FeedOptions struct {
	Type     string
	Filter   string
	Page     int
	Limit    int
	Location string
}

type TrendingOptions struct {
	Period   string
	Category string
	Location string
}

type SearchOptions struct {
	Type   string
	Filter string
	Page   int
	Limit  int
}

type AttendeeOptions struct {
	Status string
	Page   int
	Limit  int
	Search string
}

type MeetingOptions struct {
	Status string
	Type   string
	Page   int
	Limit  int
}

type StreakOptions struct {
	Limit  int
	Page   int
	Active *bool
}

// ContinuousLocation is the payload of a periodic location push. Heading and
// speed are nil when the device did not report them.
type ContinuousLocation struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  float64  `json:"accuracy,omitempty"`
	Heading   *float64 `json:"heading,omitempty"`
	Speed     *float64 `json:"speed,omitempty"`
}

// UpdateResult is the downgraded outcome of a continuous location push.
type UpdateResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
