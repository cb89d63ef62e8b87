package dto

// HomeResponse is the public landing page teaser
type HomeResponse struct {
	RecentJobs     []JobResponse   `json:"recentJobs"`
	UpcomingEvents []EventResponse `json:"upcomingEvents"`
	RecentPosts    []PostResponse  `json:"recentPosts"`
}

// DashboardResponse is the signed-in landing page
type DashboardResponse struct {
	User               UserSummary     `json:"user"`
	RecentJobs         []JobResponse   `json:"recentJobs"`
	UpcomingEvents     []EventResponse `json:"upcomingEvents"`
	RecentPosts        []PostResponse  `json:"recentPosts"`
	PendingConnections int             `json:"pendingConnections"`
	UnreadMessages     int             `json:"unreadMessages"`
}
