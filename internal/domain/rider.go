package domain

import "time"

// RiderRank ранг райдера по числу завершенных поездок
type RiderRank string

const (
	RankNewbie       RiderRank = "newbie"
	RankAmateur      RiderRank = "amateur"
	RankProfessional RiderRank = "professional"
	RankMaster       RiderRank = "master"
)

// RankFor returns the rank for a number of completed bookings
func RankFor(completed int) RiderRank {
	switch {
	case completed < 3:
		return RankNewbie
	case completed < 5:
		return RankAmateur
	case completed < 10:
		return RankProfessional
	default:
		return RankMaster
	}
}

// Rider клиент проката
type Rider struct {
	ID        int64
	Name      string
	Phone     string
	Email     string
	Rank      RiderRank
	CreatedAt time.Time
	UpdatedAt time.Time
}
