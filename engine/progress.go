// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import "github.com/danielhkuo/audio-rating/models"

// Progress builds an entry from counts. A participant without items
// reports 0 percent.
func Progress(rated, total int) models.ProgressEntry {
	entry := models.ProgressEntry{Rated: rated, Total: total}
	if total > 0 {
		entry.Percentage = 100 * float64(rated) / float64(total)
	}
	return entry
}

// CountRated counts distinct item names that have a rating in ratingMap
func CountRated(ratingMap map[string]int, items []models.AudioItem) int {
	seen := make(map[string]bool, len(items))
	count := 0
	for _, item := range items {
		if seen[item.Name] {
			continue
		}
		seen[item.Name] = true
		if _, ok := ratingMap[item.Name]; ok {
			count++
		}
	}
	return count
}

// Rollup sums every participant entry into one overall entry
func Rollup(entries map[int]models.ProgressEntry) models.ProgressEntry {
	var rated, total int
	for _, e := range entries {
		rated += e.Rated
		total += e.Total
	}
	return Progress(rated, total)
}

// BuildRatingMap keeps only ratings whose audio name is in items
func BuildRatingMap(ratings []models.Rating, items []models.AudioItem) map[string]int {
	names := make(map[string]bool, len(items))
	for _, item := range items {
		names[item.Name] = true
	}

	ratingMap := make(map[string]int, len(ratings))
	for _, r := range ratings {
		if names[r.AudioName] {
			ratingMap[r.AudioName] = r.Value
		}
	}
	return ratingMap
}

func validRating(rating int) bool {
	return rating >= models.MinRating && rating <= models.MaxRating
}
