package dashboard

import "time"

type Stats struct {
	TotalClients          int `json:"total_clients"`
	ActiveSubscriptions   int `json:"active_subscriptions"`
	ExpiringSubscriptions int `json:"expiring_subscriptions"` // within ExpiringDays
	NewSubscriptionsWeek  int `json:"new_subscriptions_week"`
	CheckInsToday         int `json:"checkins_today"`
	ClientsInGym          int `json:"clients_in_gym"`
}

type RecentCheckIn struct {
	ClientName string    `json:"client" db:"client_name"`
	EntryAt    time.Time `json:"entry_at" db:"entry_at"`
	Authorized bool      `json:"authorized" db:"authorized"`
}

// Chart is the count of subscriptions created per calendar month, oldest month first.
type Chart struct {
	Labels           []string `json:"labels"`
	NewSubscriptions []int    `json:"new_subscriptions"`
}

type Overview struct {
	Stats           Stats           `json:"stats"`
	Chart           Chart           `json:"chart"`
	RecentCheckIns  []RecentCheckIn `json:"recent_checkins"`
	OccupancyByHour map[int]int     `json:"occupancy_by_hour"`
}
