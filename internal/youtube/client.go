package youtube

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
	ytanalytics "google.golang.org/api/youtubeanalytics/v2"
)

// ErrChannelNotFound is returned when the authenticated account has no
// YouTube channel.
var ErrChannelNotFound = errors.New("channel not found")

const analyticsWindow = 28 * 24 * time.Hour

// VideoSummary is a condensed video listing entry.
type VideoSummary struct {
	VideoID   string `json:"videoId,omitempty"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Views     uint64 `json:"views"`
	Likes     uint64 `json:"likes"`
	Comments  uint64 `json:"comments"`
}

// CommentSummary is a condensed top-level comment.
type CommentSummary struct {
	Author      string `json:"author"`
	Text        string `json:"text"`
	PublishedAt string `json:"publishedAt"`
}

// DashboardStats aggregates the creator dashboard view: channel
// headline numbers, a 28-day analytics window, and the latest activity.
type DashboardStats struct {
	ChannelLogo    string           `json:"channelLogo"`
	ChannelName    string           `json:"channelName"`
	Subscribers    uint64           `json:"subscribers"`
	TotalViews     int64            `json:"totalViews"`
	TotalWatchTime int64            `json:"totalWatchTime"`
	LatestVideos   []VideoSummary   `json:"latestVideos"`
	LatestComments []CommentSummary `json:"latestComments"`
}

// ContentItem is one entry of the full channel content listing.
type ContentItem struct {
	VideoID     string `json:"videoId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	PublishedAt string `json:"publishedAt"`
	Views       uint64 `json:"views"`
	Likes       uint64 `json:"likes"`
	Comments    uint64 `json:"comments"`
}

// Client is a thin proxy over the YouTube Data and Analytics APIs.
// Services are constructed per call because each request runs with the
// caller's own access token.
type Client struct{}

func NewClient() *Client {
	return &Client{}
}

func services(ctx context.Context, accessToken string) (*yt.Service, *ytanalytics.Service, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})

	data, err := yt.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, nil, fmt.Errorf("youtube service: %w", err)
	}

	analytics, err := ytanalytics.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, nil, fmt.Errorf("youtube analytics service: %w", err)
	}

	return data, analytics, nil
}

// DashboardStats fetches the authenticated user's channel, its 28-day
// analytics, and the five latest videos and comment threads.
func (c *Client) DashboardStats(ctx context.Context, accessToken string) (*DashboardStats, error) {
	data, analytics, err := services(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	channels, err := data.Channels.List([]string{"snippet", "statistics"}).
		Mine(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	if len(channels.Items) == 0 {
		return nil, ErrChannelNotFound
	}
	channel := channels.Items[0]

	stats := &DashboardStats{
		ChannelName:    channel.Snippet.Title,
		LatestVideos:   []VideoSummary{},
		LatestComments: []CommentSummary{},
	}
	if channel.Snippet.Thumbnails != nil && channel.Snippet.Thumbnails.Default != nil {
		stats.ChannelLogo = channel.Snippet.Thumbnails.Default.Url
	}
	if channel.Statistics != nil {
		stats.Subscribers = channel.Statistics.SubscriberCount
	}

	now := time.Now()
	report, err := analytics.Reports.Query().
		Ids("channel==MINE").
		StartDate(now.Add(-analyticsWindow).Format("2006-01-02")).
		EndDate(now.Format("2006-01-02")).
		Metrics("views,estimatedMinutesWatched").
		Dimensions("day").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("query analytics: %w", err)
	}

	// Rows are [day, views, estimatedMinutesWatched]; numbers arrive as
	// JSON floats.
	for _, row := range report.Rows {
		if len(row) < 3 {
			continue
		}
		if v, ok := row[1].(float64); ok {
			stats.TotalViews += int64(v)
		}
		if v, ok := row[2].(float64); ok {
			stats.TotalWatchTime += int64(v)
		}
	}

	videos, err := c.latestVideos(ctx, data, channel.Id, 5)
	if err != nil {
		return nil, err
	}
	stats.LatestVideos = videos

	comments, err := data.CommentThreads.List([]string{"snippet"}).
		AllThreadsRelatedToChannelId(channel.Id).
		Order("time").
		MaxResults(5).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list comment threads: %w", err)
	}
	for _, thread := range comments.Items {
		if thread.Snippet == nil || thread.Snippet.TopLevelComment == nil {
			continue
		}
		snippet := thread.Snippet.TopLevelComment.Snippet
		if snippet == nil {
			continue
		}
		stats.LatestComments = append(stats.LatestComments, CommentSummary{
			Author:      snippet.AuthorDisplayName,
			Text:        snippet.TextDisplay,
			PublishedAt: snippet.PublishedAt,
		})
	}

	return stats, nil
}

// ChannelContents lists the channel's uploads, newest first, with
// per-video statistics.
func (c *Client) ChannelContents(ctx context.Context, accessToken string) ([]ContentItem, error) {
	data, _, err := services(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	channels, err := data.Channels.List([]string{"id"}).
		Mine(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	if len(channels.Items) == 0 {
		return nil, ErrChannelNotFound
	}
	channelID := channels.Items[0].Id

	search, err := data.Search.List([]string{"snippet"}).
		ChannelId(channelID).
		Type("video").
		Order("date").
		MaxResults(25).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("search videos: %w", err)
	}

	contents := []ContentItem{}
	for _, item := range search.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}

		entry := ContentItem{
			VideoID:     item.Id.VideoId,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			PublishedAt: item.Snippet.PublishedAt,
		}
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Default != nil {
			entry.Thumbnail = item.Snippet.Thumbnails.Default.Url
		}

		stats, err := videoStatistics(ctx, data, item.Id.VideoId)
		if err != nil {
			return nil, err
		}
		if stats != nil {
			entry.Views = stats.ViewCount
			entry.Likes = stats.LikeCount
			entry.Comments = stats.CommentCount
		}

		contents = append(contents, entry)
	}

	return contents, nil
}

func (c *Client) latestVideos(ctx context.Context, data *yt.Service, channelID string, max int64) ([]VideoSummary, error) {
	search, err := data.Search.List([]string{"snippet"}).
		ChannelId(channelID).
		Order("date").
		MaxResults(max).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("search videos: %w", err)
	}

	videos := []VideoSummary{}
	for _, item := range search.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}

		summary := VideoSummary{Title: item.Snippet.Title}
		if item.Snippet.Thumbnails != nil && item.Snippet.Thumbnails.Default != nil {
			summary.Thumbnail = item.Snippet.Thumbnails.Default.Url
		}

		stats, err := videoStatistics(ctx, data, item.Id.VideoId)
		if err != nil {
			return nil, err
		}
		if stats != nil {
			summary.Views = stats.ViewCount
			summary.Likes = stats.LikeCount
			summary.Comments = stats.CommentCount
		}

		videos = append(videos, summary)
	}

	return videos, nil
}

func videoStatistics(ctx context.Context, data *yt.Service, videoID string) (*yt.VideoStatistics, error) {
	resp, err := data.Videos.List([]string{"statistics"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("video statistics: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, nil
	}
	return resp.Items[0].Statistics, nil
}
