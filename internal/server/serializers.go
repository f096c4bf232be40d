package server

import (
	"murmur/internal/models"
	"murmur/internal/service"
)

type userResponse struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email,omitempty"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profile_picture"`
	IsAdmin        bool   `json:"is_admin"`
	CreatedAt      string `json:"created_at"`
}

type profileResponse struct {
	userResponse
	Followers      []uint `json:"followers"`
	FollowersCount int64  `json:"followers_count"`
	FollowingCount int64  `json:"following_count"`
	IsFollowing    *bool  `json:"is_following,omitempty"`
}

type postResponse struct {
	ID            uint   `json:"id"`
	Author        string `json:"author"`
	AuthorID      uint   `json:"author_id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	LikesCount    int    `json:"likes_count"`
	CommentsCount int    `json:"comments_count"`
	Liked         bool   `json:"liked"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type commentResponse struct {
	ID        uint   `json:"id"`
	Post      uint   `json:"post"`
	Author    string `json:"author"`
	AuthorID  uint   `json:"author_id"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type notificationResponse struct {
	ID         uint   `json:"id"`
	Actor      string `json:"actor"`
	Verb       string `json:"verb"`
	TargetType string `json:"target_type"`
	TargetID   uint   `json:"target_id"`
	Timestamp  string `json:"timestamp"`
	Read       bool   `json:"read"`
}

// serializeUser omits the email unless includeEmail is set.
func serializeUser(u *models.User, includeEmail bool) userResponse {
	out := userResponse{
		ID:             u.ID,
		Username:       u.Username,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
		IsAdmin:        u.IsAdmin,
		CreatedAt:      formatTimestamp(u.CreatedAt),
	}
	if includeEmail {
		out.Email = u.Email
	}
	return out
}

func serializeUsers(users []models.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, serializeUser(&users[i], false))
	}
	return out
}

func serializeProfile(p *service.Profile, includeEmail bool) profileResponse {
	followers := p.FollowerIDs
	if followers == nil {
		followers = []uint{}
	}
	return profileResponse{
		userResponse:   serializeUser(p.User, includeEmail),
		Followers:      followers,
		FollowersCount: p.FollowersCount,
		FollowingCount: p.FollowingCount,
		IsFollowing:    p.IsFollowing,
	}
}

func serializePost(p *models.Post) postResponse {
	return postResponse{
		ID:            p.ID,
		Author:        p.User.Username,
		AuthorID:      p.UserID,
		Title:         p.Title,
		Content:       p.Content,
		LikesCount:    p.LikesCount,
		CommentsCount: p.CommentsCount,
		Liked:         p.Liked,
		CreatedAt:     formatTimestamp(p.CreatedAt),
		UpdatedAt:     formatTimestamp(p.UpdatedAt),
	}
}

func serializePosts(posts []*models.Post) []postResponse {
	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, serializePost(p))
	}
	return out
}

func serializeComment(c *models.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		Post:      c.PostID,
		Author:    c.User.Username,
		AuthorID:  c.UserID,
		Content:   c.Content,
		CreatedAt: formatTimestamp(c.CreatedAt),
		UpdatedAt: formatTimestamp(c.UpdatedAt),
	}
}

func serializeComments(comments []*models.Comment) []commentResponse {
	out := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, serializeComment(c))
	}
	return out
}

func serializeNotifications(notes []*models.Notification) []notificationResponse {
	out := make([]notificationResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, notificationResponse{
			ID:         n.ID,
			Actor:      n.Actor.Username,
			Verb:       n.Verb,
			TargetType: n.TargetType,
			TargetID:   n.TargetID,
			Timestamp:  formatTimestamp(n.Timestamp),
			Read:       n.Read,
		})
	}
	return out
}
