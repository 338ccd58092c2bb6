package domain

// Stats is the session summary produced when a session is closed with a
// super swipe.
type Stats struct {
	TotalSwipes int    `json:"total_swipes"`
	LeftSwipes  int    `json:"left_swipes"`
	RightSwipes int    `json:"right_swipes"`
	Insights    string `json:"insights"`
}

// LeftPercent and RightPercent are the shares shown on the summary bars.
func (s Stats) LeftPercent() float64 {
	if s.TotalSwipes <= 0 {
		return 0
	}
	return float64(s.LeftSwipes) / float64(s.TotalSwipes) * 100
}

func (s Stats) RightPercent() float64 {
	if s.TotalSwipes <= 0 {
		return 0
	}
	return float64(s.RightSwipes) / float64(s.TotalSwipes) * 100
}
