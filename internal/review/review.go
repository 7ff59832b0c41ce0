package review

import (
	"math"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	PackageID    string    `json:"packageId"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"createdAt"`
	AuthorName   string    `json:"authorName,omitempty"`
	PackageTitle string    `json:"packageTitle,omitempty"`
}

type Input struct {
	Rating  int    `json:"rating" validate:"gte=1,lte=5"`
	Comment string `json:"comment" validate:"notblank"`
}

type Summary struct {
	Average float64 `json:"average"`
	Stars   int     `json:"stars"`
	Count   int     `json:"count"`
}

// Mean is the arithmetic mean of ratings, 0 for none.
func Mean(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings))
}

// Stars rounds an average to the nearest whole star, halves away from zero.
func Stars(avg float64) int {
	return int(math.Round(avg))
}

func Summarize(ratings []int) Summary {
	avg := Mean(ratings)
	return Summary{Average: avg, Stars: Stars(avg), Count: len(ratings)}
}
