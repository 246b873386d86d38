package models

import "strings"

// RoomStatus describes a room's occupancy state. It is set by an
// administrator and intentionally not derived from occupancy counts.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomFull        RoomStatus = "full"
	RoomMaintenance RoomStatus = "maintenance"
)

// Valid reports whether the status is one of the known values.
func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomFull, RoomMaintenance:
		return true
	}
	return false
}

// RoomStudent is the room-embedded view of an assigned student.
type RoomStudent struct {
	ID       string  `db:"id" json:"id"`
	FullName string  `db:"full_name" json:"fullName"`
	Faculty  *string `db:"faculty" json:"faculty,omitempty"`
}

// Room represents a dormitory room and its assignments.
type Room struct {
	ID       string        `db:"id" json:"id"`
	Number   string        `db:"number" json:"number"`
	Building string        `db:"building" json:"building"`
	Floor    int           `db:"floor" json:"floor"`
	Capacity int           `db:"capacity" json:"capacity"`
	Occupied int           `db:"occupied" json:"occupied"`
	Status   RoomStatus    `db:"status" json:"status"`
	Students []RoomStudent `json:"students"`
}

// RoomFilter captures the three ANDed predicates of the room list view.
type RoomFilter struct {
	Search   string
	Status   string
	Building string
}

// Matches reports whether the room satisfies all active predicates.
// The text predicate covers the room number and every assigned
// student's full name.
func (f RoomFilter) Matches(r Room) bool {
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		hit := strings.Contains(strings.ToLower(r.Number), term)
		for _, s := range r.Students {
			if hit {
				break
			}
			hit = strings.Contains(strings.ToLower(s.FullName), term)
		}
		if !hit {
			return false
		}
	}
	if f.Status != "" && f.Status != FilterAll && string(r.Status) != f.Status {
		return false
	}
	if f.Building != "" && f.Building != FilterAll && r.Building != f.Building {
		return false
	}
	return true
}

// FilterRooms returns the subset of rooms matching the filter.
func FilterRooms(rooms []Room, f RoomFilter) []Room {
	out := make([]Room, 0, len(rooms))
	for _, r := range rooms {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// BuildingOptions derives the selectable building filter values from
// the loaded rooms.
func BuildingOptions(rooms []Room) []string {
	options := []string{FilterAll}
	seen := make(map[string]struct{}, len(rooms))
	for _, r := range rooms {
		if _, ok := seen[r.Building]; ok {
			continue
		}
		seen[r.Building] = struct{}{}
		options = append(options, r.Building)
	}
	return options
}

// UpdateRoomStatusPayload carries an administrator room status change.
type UpdateRoomStatusPayload struct {
	Status RoomStatus `json:"status" validate:"required"`
}
