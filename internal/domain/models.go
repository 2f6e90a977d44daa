// Package domain defines the persistence models for bookings, threads, and
// messages together with the read-only user and resource records owned by
// the identity and catalog collaborators. These types are mapped with GORM
// and shared across the repository, service, and HTTP layers.
package domain

import "time"

// Booking statuses. Pending and approved bookings are "active" and take part
// in conflict detection; the remaining statuses are terminal.
const (
	BookingPending   = "pending"
	BookingApproved  = "approved"
	BookingRejected  = "rejected"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// ActiveBookingStatuses lists the statuses that block overlapping requests.
var ActiveBookingStatuses = []string{BookingPending, BookingApproved}

// Thread context types.
const (
	ContextResource = "resource"
	ContextBooking  = "booking"
	ContextGeneral  = "general"
)

// User roles.
const (
	RoleStudent = "student"
	RoleStaff   = "staff"
	RoleAdmin   = "admin"
)

// Resource listing statuses.
const (
	ResourceDraft     = "draft"
	ResourcePublished = "published"
	ResourceArchived  = "archived"
)

// User is an account known to the identity collaborator. The booking and
// messaging code only reads it.
type User struct {
	ID           string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Name         string    `json:"name"       gorm:"type:varchar(120);not null"`
	Email        string    `json:"email"      gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash string    `json:"-"          gorm:"type:varchar(255);not null"`
	Role         string    `json:"role"       gorm:"type:varchar(16);not null;default:'student';check:role IN ('student','staff','admin')"`
	IsActive     bool      `json:"is_active"  gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool { return u != nil && u.Role == RoleAdmin }

// Resource is a bookable listing owned by the catalog collaborator.
type Resource struct {
	ID               string    `json:"id"                gorm:"type:char(36);primaryKey"`
	OwnerID          string    `json:"owner_id"          gorm:"type:char(36);not null;index"`
	Title            string    `json:"title"             gorm:"type:varchar(255);not null"`
	RequiresApproval bool      `json:"requires_approval" gorm:"not null;default:false"`
	Status           string    `json:"status"            gorm:"type:varchar(16);not null;default:'draft';check:status IN ('draft','published','archived')"`
	CreatedAt        time.Time `json:"created_at"`
}

// TableName returns the database table name for Resource.
func (Resource) TableName() string { return "resources" }

// Booking is a time-bounded reservation of a resource over the half-open
// interval [StartAt, EndAt).
//
// For a fixed ResourceID, active bookings (pending or approved) never overlap.
// Bookings that merely touch (one ends exactly when the other starts) are legal.
type Booking struct {
	ID            string    `json:"id"             gorm:"type:char(36);primaryKey"`
	ResourceID    string    `json:"resource_id"    gorm:"type:char(36);not null;index:idx_booking_resource_window,priority:1"`
	RequesterID   string    `json:"requester_id"   gorm:"type:char(36);not null;index"`
	StartAt       time.Time `json:"start_datetime" gorm:"column:start_datetime;not null;index:idx_booking_resource_window,priority:2"`
	EndAt         time.Time `json:"end_datetime"   gorm:"column:end_datetime;not null"`
	Status        string    `json:"status"         gorm:"type:varchar(16);not null;index;check:status IN ('pending','approved','rejected','cancelled','completed')"`
	ApprovalNotes *string   `json:"approval_notes,omitempty" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName returns the database table name for Booking.
func (Booking) TableName() string { return "bookings" }

// IsActive reports whether the booking counts for conflict detection.
func (b *Booking) IsActive() bool {
	return b.Status == BookingPending || b.Status == BookingApproved
}

// Overlaps reports whether [start, end) intersects the booking's interval.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartAt.Before(end) && b.EndAt.After(start)
}

// Thread is the immutable header of a conversation. ContextID is nil exactly
// when ContextType is "general".
type Thread struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	ContextType string    `json:"context_type" gorm:"type:varchar(16);not null;check:context_type IN ('resource','booking','general')"`
	ContextID   *string   `json:"context_id"   gorm:"type:char(36);index"`
	CreatedBy   string    `json:"created_by"   gorm:"type:char(36);not null"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name for Thread.
func (Thread) TableName() string { return "threads" }

// Message is an append-only entry in a thread. Seq is assigned per thread in
// insertion order and breaks ties between equal timestamps.
type Message struct {
	ID         string    `json:"message_id"  gorm:"type:char(36);primaryKey"`
	ThreadID   string    `json:"thread_id"   gorm:"type:char(36);not null;uniqueIndex:ux_thread_seq,priority:1;index:idx_thread_msgs,priority:1"`
	Seq        int64     `json:"seq"         gorm:"not null;uniqueIndex:ux_thread_seq,priority:2"`
	SenderID   string    `json:"sender_id"   gorm:"type:char(36);not null;index"`
	ReceiverID string    `json:"receiver_id" gorm:"type:char(36);not null;index"`
	Content    string    `json:"content"     gorm:"type:text;not null"`
	Timestamp  time.Time `json:"timestamp"   gorm:"not null;index:idx_thread_msgs,priority:2"`

	Thread Thread `json:"-" gorm:"foreignKey:ThreadID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// AdminLog is an append-only audit record of a moderation action.
type AdminLog struct {
	ID          uint      `json:"id"           gorm:"primaryKey;autoIncrement"`
	AdminID     string    `json:"admin_id"     gorm:"type:char(36);not null;index"`
	Action      string    `json:"action"       gorm:"type:varchar(255);not null"`
	TargetTable string    `json:"target_table" gorm:"type:varchar(64);not null"`
	Details     *string   `json:"details,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name for AdminLog.
func (AdminLog) TableName() string { return "admin_logs" }
