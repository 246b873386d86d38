package models

// DashboardStats aggregates the headline numbers for the admin home.
type DashboardStats struct {
	TotalStudents   int     `db:"total_students" json:"totalStudents"`
	OccupiedRooms   int     `db:"occupied_rooms" json:"occupiedRooms"`
	TotalRooms      int     `db:"total_rooms" json:"totalRooms"`
	PendingRequests int     `db:"pending_requests" json:"pendingRequests"`
	TotalRequests   int     `db:"total_requests" json:"totalRequests"`
	OccupancyRate   float64 `json:"occupancyRate"`
}

// CategoryCount is one slice of the request distribution chart.
type CategoryCount struct {
	Category Category `db:"category" json:"category"`
	Count    int      `db:"count" json:"count"`
}

// DashboardResponse is the payload served to the admin dashboard.
type DashboardResponse struct {
	Stats               DashboardStats  `json:"stats"`
	RequestDistribution []CategoryCount `json:"requestDistribution"`
}
