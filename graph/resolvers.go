// Package graph implements the GraphQL schema, its resolvers, and the HTTP
// handler that translates resolver errors into HTTP responses.
package graph

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/user/blogql-go/apperror"
	"github.com/user/blogql-go/auth"
	"github.com/user/blogql-go/posts"
	"github.com/user/blogql-go/users"
	"github.com/user/blogql-go/validation"
)

// UserStore is the subset of the user repository the resolvers need.
type UserStore interface {
	Create(ctx context.Context, email, name, passwordHash string) (*users.User, error)
	FindByEmail(ctx context.Context, email string) (*users.User, error)
	FindByID(ctx context.Context, id string) (*users.User, error)
	AppendPost(ctx context.Context, userID, postID primitive.ObjectID) error
}

// PostStore is the subset of the post repository the resolvers need.
type PostStore interface {
	Create(ctx context.Context, title, content, imageURL string, creator primitive.ObjectID) (*posts.Post, error)
	FindByID(ctx context.Context, id string) (*posts.Post, error)
	List(ctx context.Context) ([]posts.Post, error)
}

// Credentials is the subset of the credential service the resolvers need.
type Credentials interface {
	HashPassword(plain string) (string, error)
	VerifyPassword(plain, hash string) bool
	IssueToken(userID, email string) (string, error)
}

// Publisher broadcasts domain events to live feed subscribers. May be nil.
type Publisher interface {
	Publish(event string, payload interface{})
}

// UserInput is the createUser mutation input.
type UserInput struct {
	Email    string
	Name     string
	Password string
}

// PostInput is the createPost mutation input.
type PostInput struct {
	Title    string
	Content  string
	ImageURL string
}

// UserView is the public representation of a user. It never carries the
// password hash.
type UserView struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Name  string   `json:"name"`
	Posts []string `json:"posts"`
}

// PostView is the public representation of a post, with ISO-8601 timestamps.
type PostView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	ImageURL  string `json:"imageUrl"`
	CreatorID string `json:"creatorId"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// AuthPayload is the login result.
type AuthPayload struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// Resolvers orchestrates validation, the repositories and the credential
// service per GraphQL operation. Each resolver is a single sequential chain
// of calls with no internal fan-out.
type Resolvers struct {
	users       UserStore
	posts       PostStore
	credentials Credentials
	publisher   Publisher
}

// NewResolvers wires the resolvers. publisher may be nil to disable the live
// feed.
func NewResolvers(userStore UserStore, postStore PostStore, credentials Credentials, publisher Publisher) *Resolvers {
	return &Resolvers{
		users:       userStore,
		posts:       postStore,
		credentials: credentials,
		publisher:   publisher,
	}
}

// CreateUser validates the input, rejects duplicate emails, hashes the
// password and persists the user. The returned view never includes the hash.
func (r *Resolvers) CreateUser(ctx context.Context, input UserInput) (*UserView, error) {
	if err := validation.UserInput(input.Email, input.Password); err != nil {
		return nil, err
	}

	hash, err := r.credentials.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	created, err := r.users.Create(ctx, input.Email, input.Name, hash)
	if err != nil {
		return nil, err
	}
	return newUserView(created), nil
}

// Login authenticates by email and password and issues a session token.
// Unknown emails and wrong passwords both fail with 401.
func (r *Resolvers) Login(ctx context.Context, email, password string) (*AuthPayload, error) {
	user, err := r.users.FindByEmail(ctx, email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewAuthError("no user found", nil)
		}
		return nil, err
	}

	if !r.credentials.VerifyPassword(password, user.Password) {
		return nil, apperror.NewAuthError("wrong password", nil)
	}

	userID := user.ID.Hex()
	token, err := r.credentials.IssueToken(userID, user.Email)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue token", err)
	}

	return &AuthPayload{Token: token, UserID: userID}, nil
}

// CreatePost requires an authenticated verdict, validates the input, resolves
// the creator from the verdict's user id, persists the post and appends its
// reference to the creator's post collection. The two writes are not
// transactional: if the append fails the post exists but is unlinked.
func (r *Resolvers) CreatePost(ctx context.Context, input PostInput) (*PostView, error) {
	verdict := auth.VerdictFromContext(ctx)
	if !verdict.IsAuth {
		return nil, apperror.NewAuthError("not authenticated", nil)
	}

	if err := validation.PostInput(input.Title, input.Content); err != nil {
		return nil, err
	}

	creator, err := r.users.FindByID(ctx, verdict.UserID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewAuthError("invalid user", nil)
		}
		return nil, err
	}

	post, err := r.posts.Create(ctx, input.Title, input.Content, input.ImageURL, creator.ID)
	if err != nil {
		return nil, err
	}

	if err := r.users.AppendPost(ctx, creator.ID, post.ID); err != nil {
		return nil, err
	}

	view := newPostView(post)
	if r.publisher != nil {
		r.publisher.Publish("post.created", view)
	}
	return view, nil
}

// Posts lists all posts, newest first.
func (r *Resolvers) Posts(ctx context.Context) ([]*PostView, error) {
	stored, err := r.posts.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*PostView, 0, len(stored))
	for i := range stored {
		views = append(views, newPostView(&stored[i]))
	}
	return views, nil
}

// User returns the authenticated user's public view.
func (r *Resolvers) User(ctx context.Context) (*UserView, error) {
	verdict := auth.VerdictFromContext(ctx)
	if !verdict.IsAuth {
		return nil, apperror.NewAuthError("not authenticated", nil)
	}

	user, err := r.users.FindByID(ctx, verdict.UserID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewAuthError("invalid user", nil)
		}
		return nil, err
	}
	return newUserView(user), nil
}

// creatorOf resolves a post's creator for the nested creator field.
func (r *Resolvers) creatorOf(ctx context.Context, view *PostView) (*UserView, error) {
	user, err := r.users.FindByID(ctx, view.CreatorID)
	if err != nil {
		return nil, err
	}
	return newUserView(user), nil
}

func newUserView(u *users.User) *UserView {
	refs := make([]string, 0, len(u.Posts))
	for _, id := range u.Posts {
		refs = append(refs, id.Hex())
	}
	return &UserView{
		ID:    u.ID.Hex(),
		Email: u.Email,
		Name:  u.Name,
		Posts: refs,
	}
}

func newPostView(p *posts.Post) *PostView {
	return &PostView{
		ID:        p.ID.Hex(),
		Title:     p.Title,
		Content:   p.Content,
		ImageURL:  p.ImageURL,
		CreatorID: p.Creator.Hex(),
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
