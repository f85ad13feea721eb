package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/yatube/middleware"
	"github.com/cppla/yatube/models"
	"github.com/cppla/yatube/repository"
	"github.com/cppla/yatube/utils"
)

// PostController serves the feeds and post/comment writes.
type PostController struct {
	posts     *repository.PostRepository
	users     *repository.UserRepository
	follows   *repository.FollowRepository
	mediaRoot string
}

// NewPostController creates a new PostController instance.
func NewPostController(posts *repository.PostRepository, users *repository.UserRepository, follows *repository.FollowRepository, mediaRoot string) *PostController {
	return &PostController{posts: posts, users: users, follows: follows, mediaRoot: mediaRoot}
}

type postForm struct {
	Text  string `form:"text" json:"text" binding:"required,max=10000"`
	Group *uint  `form:"group" json:"group"`
	Image string `form:"-" json:"image,omitempty"`
}

type commentForm struct {
	Text string `form:"text" json:"text" binding:"required,max=5000"`
}

// Index lists every post, optionally filtered by ?search=.
func (p *PostController) Index(ctx *gin.Context) {
	search := ctx.Query("search")
	page, err := p.posts.Page(p.posts.Global(ctx.Request.Context(), search), ctx.Query("page"))
	if err != nil {
		failure(ctx, 50020, "failed to list posts", err)
		return
	}
	utils.Success(ctx, gin.H{"posts": page, "search": search})
}

// GroupPosts lists the posts of the group named by :slug.
func (p *PostController) GroupPosts(ctx *gin.Context) {
	group, query, err := p.posts.Group(ctx.Request.Context(), ctx.Param("slug"))
	if errors.Is(err, repository.ErrNotFound) {
		notFound(ctx, 40401, "group not found")
		return
	}
	if err != nil {
		failure(ctx, 50021, "failed to load group", err)
		return
	}
	page, err := p.posts.Page(query, ctx.Query("page"))
	if err != nil {
		failure(ctx, 50022, "failed to list group posts", err)
		return
	}
	utils.Success(ctx, gin.H{"group": group, "posts": page})
}

// Profile lists the posts of :username and whether the viewer follows them.
func (p *PostController) Profile(ctx *gin.Context) {
	rctx := ctx.Request.Context()
	author, err := p.users.ByUsername(rctx, ctx.Param("username"))
	if errors.Is(err, repository.ErrNotFound) {
		notFound(ctx, 40402, "user not found")
		return
	}
	if err != nil {
		failure(ctx, 50023, "failed to load user", err)
		return
	}
	page, err := p.posts.Page(p.posts.Author(rctx, author.ID), ctx.Query("page"))
	if err != nil {
		failure(ctx, 50024, "failed to list user posts", err)
		return
	}

	following := false
	if viewerID, ok := middleware.CurrentUserID(ctx); ok {
		if following, err = p.follows.Exists(rctx, viewerID, author.ID); err != nil {
			failure(ctx, 50025, "failed to check follow", err)
			return
		}
	}
	followers, err := p.follows.CountFollowers(rctx, author.ID)
	if err != nil {
		failure(ctx, 50025, "failed to count followers", err)
		return
	}
	followingCount, err := p.follows.CountFollowing(rctx, author.ID)
	if err != nil {
		failure(ctx, 50025, "failed to count followed authors", err)
		return
	}

	utils.Success(ctx, gin.H{
		"author":          author,
		"full_name":       author.FullName(),
		"posts":           page,
		"following":       following,
		"followers_count": followers,
		"following_count": followingCount,
	})
}

// FollowIndex lists posts by the authors the current user follows.
func (p *PostController) FollowIndex(ctx *gin.Context) {
	userID, _ := middleware.CurrentUserID(ctx)
	page, err := p.posts.Page(p.posts.Following(ctx.Request.Context(), userID), ctx.Query("page"))
	if err != nil {
		failure(ctx, 50026, "failed to list followed posts", err)
		return
	}
	utils.Success(ctx, gin.H{"posts": page})
}

// PostDetail shows a post with its comments and an empty comment form.
func (p *PostController) PostDetail(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		notFound(ctx, 40403, "post not found")
		return
	}
	post, err := p.posts.ByID(ctx.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		notFound(ctx, 40403, "post not found")
		return
	}
	if err != nil {
		failure(ctx, 50027, "failed to load post", err)
		return
	}
	viewerID, _ := middleware.CurrentUserID(ctx)
	utils.Success(ctx, gin.H{
		"post":         post,
		"title":        post.String(),
		"comment_form": commentForm{},
		"can_edit":     viewerID != 0 && viewerID == post.AuthorID,
	})
}

// CreatePost shows the empty form on GET and stores a new post on POST.
func (p *PostController) CreatePost(ctx *gin.Context) {
	if ctx.Request.Method == http.MethodGet {
		p.renderForm(ctx, postForm{}, nil, false, 0)
		return
	}

	form, errs := p.bindPost(ctx)
	if len(errs) > 0 {
		p.renderForm(ctx, form, errs, false, 0)
		return
	}
	userID, _ := middleware.CurrentUserID(ctx)
	post := models.Post{
		AuthorID: userID,
		Text:     form.Text,
		GroupID:  form.Group,
		Image:    form.Image,
	}
	if err := p.posts.Create(ctx.Request.Context(), &post); err != nil {
		failure(ctx, 50028, "failed to create post", err)
		return
	}
	utils.Sugar.Infow("post created", "post_id", post.ID, "author_id", userID)
	ctx.Redirect(http.StatusFound, profileURL(middleware.CurrentUsername(ctx)))
}

// EditPost lets the author change text, group and image. Everybody else is sent to the post.
func (p *PostController) EditPost(ctx *gin.Context) {
	post, ok := p.loadPost(ctx)
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(ctx)
	if post.AuthorID != userID {
		ctx.Redirect(http.StatusFound, postURL(post.ID))
		return
	}

	if ctx.Request.Method == http.MethodGet {
		p.renderForm(ctx, postForm{Text: post.Text, Group: post.GroupID, Image: post.Image}, nil, true, post.ID)
		return
	}

	form, errs := p.bindPost(ctx)
	if len(errs) > 0 {
		p.renderForm(ctx, form, errs, true, post.ID)
		return
	}
	post.Text = form.Text
	post.GroupID = form.Group
	if form.Image != "" {
		post.Image = form.Image
	}
	if err := p.posts.Update(ctx.Request.Context(), post); err != nil {
		failure(ctx, 50029, "failed to update post", err)
		return
	}
	ctx.Redirect(http.StatusFound, postURL(post.ID))
}

// DeletePost asks for confirmation on GET and deletes on POST. Only the author or an admin may delete.
func (p *PostController) DeletePost(ctx *gin.Context) {
	post, ok := p.loadPost(ctx)
	if !ok {
		return
	}
	userID, _ := middleware.CurrentUserID(ctx)
	if post.AuthorID != userID && !middleware.IsAdmin(ctx) {
		ctx.Redirect(http.StatusFound, postURL(post.ID))
		return
	}
	if ctx.Request.Method == http.MethodGet {
		utils.Success(ctx, gin.H{"post": post, "confirm": true})
		return
	}
	if err := p.posts.Delete(ctx.Request.Context(), post.ID); err != nil {
		failure(ctx, 50030, "failed to delete post", err)
		return
	}
	utils.Sugar.Infow("post deleted", "post_id", post.ID, "by", middleware.CurrentUsername(ctx))
	ctx.Redirect(http.StatusFound, "/")
}

// AddComment stores a comment by the current user. Invalid input is dropped silently.
func (p *PostController) AddComment(ctx *gin.Context) {
	post, ok := p.loadPost(ctx)
	if !ok {
		return
	}
	var form commentForm
	if err := ctx.ShouldBind(&form); err == nil {
		if text := utils.Sanitize(form.Text); text != "" {
			userID, _ := middleware.CurrentUserID(ctx)
			comment := models.Comment{PostID: post.ID, AuthorID: userID, Text: text}
			if err := p.posts.AddComment(ctx.Request.Context(), &comment); err != nil {
				failure(ctx, 50031, "failed to create comment", err)
				return
			}
		}
	}
	ctx.Redirect(http.StatusFound, postURL(post.ID))
}

// loadPost resolves :id, answering 404 itself when that fails.
func (p *PostController) loadPost(ctx *gin.Context) (*models.Post, bool) {
	id, ok := paramID(ctx, "id")
	if !ok {
		notFound(ctx, 40403, "post not found")
		return nil, false
	}
	post, err := p.posts.ByID(ctx.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		notFound(ctx, 40403, "post not found")
		return nil, false
	}
	if err != nil {
		failure(ctx, 50027, "failed to load post", err)
		return nil, false
	}
	return post, true
}

// bindPost validates the submitted post form and stores an uploaded image when everything else is valid.
func (p *PostController) bindPost(ctx *gin.Context) (postForm, map[string]string) {
	var form postForm
	if err := ctx.ShouldBind(&form); err != nil {
		return form, fieldErrors(err)
	}
	errs := map[string]string{}

	form.Text = utils.Sanitize(form.Text)
	if form.Text == "" {
		errs["text"] = "This field is required."
	}
	if form.Group != nil && *form.Group == 0 {
		form.Group = nil
	}
	if form.Group != nil {
		if _, err := p.posts.GroupByID(ctx.Request.Context(), *form.Group); err != nil {
			errs["group"] = "Select a valid choice."
		}
	}
	if len(errs) > 0 {
		return form, errs
	}

	if fh, err := ctx.FormFile("image"); err == nil {
		rel, err := utils.SaveImage(p.mediaRoot, fh)
		if err != nil {
			if errors.Is(err, utils.ErrNotAnImage) || errors.Is(err, utils.ErrImageTooLarge) {
				errs["image"] = err.Error()
			} else {
				utils.Sugar.Errorw("store image failed", "error", err)
				errs["image"] = "image could not be stored"
			}
			return form, errs
		}
		form.Image = rel
	}
	return form, nil
}

func (p *PostController) renderForm(ctx *gin.Context, form postForm, errs map[string]string, isEdit bool, postID uint) {
	groups, err := p.posts.Groups(ctx.Request.Context())
	if err != nil {
		failure(ctx, 50032, "failed to list groups", err)
		return
	}
	extra := gin.H{"groups": groups, "is_edit": isEdit}
	if isEdit {
		extra["post_id"] = postID
	}
	if len(errs) > 0 {
		utils.FormInvalid(ctx, form, errs, extra)
		return
	}
	extra["form"] = form
	utils.Success(ctx, extra)
}
