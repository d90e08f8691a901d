package models

// Profile is the document produced by a scrape. Field order is the order in
// which keys appear in the written JSON or YAML.
type Profile struct {
	Username       string `json:"username" yaml:"username"`
	FullName       string `json:"fullName" yaml:"fullName"`
	ProfilePicURL  string `json:"profilePicUrl" yaml:"profilePicUrl"`
	Bio            string `json:"bio" yaml:"bio"`
	PostsCount     int    `json:"postsCount" yaml:"postsCount"`
	FollowersCount int    `json:"followersCount" yaml:"followersCount"`
	FollowingCount int    `json:"followingCount" yaml:"followingCount"`
	Posts          []Post `json:"posts" yaml:"posts"`
}

// Post is one entry of the profile grid. Likes and Comments stay zero when
// the detail page could not be read.
type Post struct {
	ID           string `json:"id" yaml:"id"`
	URL          string `json:"url" yaml:"url"`
	ThumbnailURL string `json:"thumbnailUrl" yaml:"thumbnailUrl"`
	Caption      string `json:"caption" yaml:"caption"`
	Likes        int    `json:"likes" yaml:"likes"`
	Comments     int    `json:"comments" yaml:"comments"`
}

// Counts is the engagement pair read from a post detail page.
type Counts struct {
	Likes    int
	Comments int
}

// MediaItem is a single image scheduled for download.
type MediaItem struct {
	ID       string
	URL      string
	Username string
}

// MediaItems lists the profile picture and every post thumbnail of p.
func (p *Profile) MediaItems() []MediaItem {
	items := make([]MediaItem, 0, len(p.Posts)+1)
	if p.ProfilePicURL != "" {
		items = append(items, MediaItem{ID: "profile", URL: p.ProfilePicURL, Username: p.Username})
	}
	for _, post := range p.Posts {
		if post.ThumbnailURL == "" {
			continue
		}
		items = append(items, MediaItem{ID: post.ID, URL: post.ThumbnailURL, Username: p.Username})
	}
	return items
}
