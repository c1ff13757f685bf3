package tasks

import (
	"sort"

	"github.com/desertthunder/banger/internal/models"
)

// BuildSongList maps songs to their response shape, preserving order. The result is never nil.
func BuildSongList(songs []models.Song) []models.SongResponse {
	out := make([]models.SongResponse, 0, len(songs))
	for _, s := range songs {
		out = append(out, models.SongResponse{
			ID:           s.SourceURL,
			Title:        s.Title,
			Artist:       s.Artist,
			YouTubeID:    s.VideoID,
			ThumbnailURL: s.ThumbnailURL,
			Plays:        s.MentionCount,
			Likes:        s.LikeCount,
			Dislikes:     s.DislikeCount,
			Date:         s.Timestamp,
			AddedBy:      s.Submitter,
		})
	}
	return out
}

// BuildStats counts songs per username, most shares first.
//
// Songs without a username count towards TotalSongs only. Equal share counts are ordered by username.
func BuildStats(songs []models.Song) models.Stats {
	counts := make(map[string]int)
	for _, s := range songs {
		if s.Username == "" {
			continue
		}
		counts[s.Username]++
	}

	userStats := make([]models.UserStat, 0, len(counts))
	for name, n := range counts {
		userStats = append(userStats, models.UserStat{Username: name, Shares: n})
	}

	sort.Slice(userStats, func(i, j int) bool {
		if userStats[i].Shares != userStats[j].Shares {
			return userStats[i].Shares > userStats[j].Shares
		}
		return userStats[i].Username < userStats[j].Username
	})

	return models.Stats{TotalSongs: len(songs), UserStats: userStats}
}
