package backend

import "time"

// Page is one page of a list endpoint.
type Page[T any] struct {
	Items []T `json:"data"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// PageQuery selects a page. Zero values leave the backend defaults.
type PageQuery struct {
	Page  int
	Limit int
}

// User is the signed-in user as the backend reports it.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Username      string `json:"username"`
	Name          string `json:"name"`
	Image         string `json:"image,omitempty"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"emailVerified"`
	OAuthID       string `json:"oauthId,omitempty"`
}

type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Image    string `json:"image,omitempty"`
}

type Post struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Tags         []string  `json:"tags"`
	Author       Author    `json:"author"`
	LikeCount    int       `json:"likeCount"`
	CommentCount int       `json:"commentCount"`
	IsLiked      bool      `json:"isLiked"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type PostQuery struct {
	PageQuery
	Tag    string
	Search string
}

type PostInput struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

type Comment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"postId"`
	Content    string    `json:"content"`
	Author     Author    `json:"author"`
	LikeCount  int       `json:"likeCount"`
	ReplyCount int       `json:"replyCount"`
	IsLiked    bool      `json:"isLiked"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Reply struct {
	ID        string    `json:"id"`
	CommentID string    `json:"commentId"`
	Content   string    `json:"content"`
	Author    Author    `json:"author"`
	LikeCount int       `json:"likeCount"`
	IsLiked   bool      `json:"isLiked"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Like actions reported by the backend.
const (
	ActionLiked   = "liked"
	ActionUnliked = "unliked"
)

// LikeResult is the backend's authoritative answer to a like toggle.
// LikeCount is nil when the backend does not report it.
type LikeResult struct {
	Action    string `json:"action"`
	LikeCount *int   `json:"likeCount,omitempty"`
}

type FollowResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	FollowerCount *int   `json:"followerCount,omitempty"`
}

type Profile struct {
	Author
	Bio            string   `json:"bio"`
	Location       string   `json:"location,omitempty"`
	Website        string   `json:"website,omitempty"`
	Skills         []string `json:"skills"`
	FollowerCount  int      `json:"followerCount"`
	FollowingCount int      `json:"followingCount"`
	IsFollowing    bool     `json:"isFollowing"`
}

type ProfileInput struct {
	Name     string   `json:"name"`
	Bio      string   `json:"bio"`
	Location string   `json:"location"`
	Website  string   `json:"website"`
	Image    string   `json:"image"`
	Skills   []string `json:"skills"`
}

type Project struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	RepoURL     string    `json:"repoUrl,omitempty"`
	LiveURL     string    `json:"liveUrl,omitempty"`
	Image       string    `json:"image,omitempty"`
	Skills      []string  `json:"skills"`
	Category    string    `json:"category"`
	Owner       Author    `json:"owner"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ProjectQuery struct {
	PageQuery
	Category string
	Skill    string
	Owner    string
}

type ProjectInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	RepoURL     string   `json:"repoUrl"`
	LiveURL     string   `json:"liveUrl"`
	Image       string   `json:"image"`
	Skills      []string `json:"skills"`
	Category    string   `json:"category"`
}

type Skill struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Notification types.
const (
	NotificationFollow  = "FOLLOW"
	NotificationLike    = "LIKE"
	NotificationComment = "COMMENT"
	NotificationMessage = "MESSAGE"
	NotificationSystem  = "SYSTEM"
)

type Notification struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	RecipientID string            `json:"recipientId"`
	Actor       *Author           `json:"actor,omitempty"`
	Metadata    map[string]string `json:"metadata"`
	Read        bool              `json:"read"`
	CreatedAt   time.Time         `json:"createdAt"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignUpRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// AuthResponse is returned by sign-in and sign-up.
type AuthResponse struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}
