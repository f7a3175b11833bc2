package dto

import "time"

type RedditComment struct {
	Author     string    `json:"author"`
	Body       string    `json:"body"`
	Score      int       `json:"score"`
	CreatedUTC time.Time `json:"created_utc"`
	Permalink  string    `json:"permalink"`
}

type RedditGameDiscussion struct {
	ThreadID     string          `json:"thread_id"`
	ThreadURL    string          `json:"thread_url"`
	Comments     []RedditComment `json:"comments"`
	CommentCount int             `json:"comment_count"`
}

// RedditListing mirrors the subset of Reddit's Listing JSON the client reads.
type RedditListing struct {
	Kind string `json:"kind"`
	Data struct {
		Children []RedditThing `json:"children"`
	} `json:"data"`
}

type RedditThing struct {
	Kind string          `json:"kind"`
	Data RedditThingData `json:"data"`
}

type RedditThingData struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Author     string  `json:"author"`
	Body       *string `json:"body"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
	Permalink  string  `json:"permalink"`
	URL        string  `json:"url"`
}

type RedditSearchParams struct {
	Query      string `url:"q"`
	RestrictSR string `url:"restrict_sr"`
	Sort       string `url:"sort"`
	Limit      int    `url:"limit"`
}

type RedditCommentParams struct {
	Sort  string `url:"sort"`
	Limit int    `url:"limit"`
}
