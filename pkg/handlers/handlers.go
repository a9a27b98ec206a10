package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"video-share/pkg/assets"
	"video-share/pkg/auth"
	"video-share/pkg/models"
	"video-share/pkg/store"
	"video-share/pkg/youtube"
)

// Identical for unknown email and wrong password so responses cannot be
// used to enumerate accounts.
const badCredentials = "Email or password is incorrect"

// API holds the collaborators every handler needs. No global state; one
// API is built per process against whichever storage backend config
// selected.
type API struct {
	Store   store.Store
	Assets  assets.Store
	Cleaner *assets.Cleaner
	YouTube *youtube.Client
	Backend string
}

func New(st store.Store, as assets.Store, cl *assets.Cleaner, yt *youtube.Client, backend string) *API {
	return &API{Store: st, Assets: as, Cleaner: cl, YouTube: yt, Backend: backend}
}

// Routes registers the REST surface on the router.
func (a *API) Routes(r *gin.Engine) {
	r.POST("/register", a.Register)
	r.POST("/login", a.Login)
	r.GET("/me", a.Me)
	r.POST("/upload", a.Upload)
	r.GET("/videos", a.ListVideos)
	r.POST("/like/:id", a.LikeVideo)
	r.POST("/comment", a.AddComment)
	r.GET("/comments/:videoId", a.ListComments)
	r.DELETE("/videos/:id", a.DeleteVideo)
	r.DELETE("/videos", a.ClearVideos)
	r.POST("/import-youtube", a.ImportYouTube)
	r.GET("/health", a.Health)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) Register(c *gin.Context) {
	var req registerRequest
	if err := c.BindJSON(&req); err != nil || req.Name == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		a.serverError(c, "hash password", err)
		return
	}

	user := models.User{Name: req.Name, Email: req.Email, Password: string(hash)}
	if err := a.Store.CreateUser(&user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
			return
		}
		a.serverError(c, "create user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User registered", "userId": user.ID})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if err := c.BindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing email or password"})
		return
	}

	user, err := a.Store.UserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": badCredentials})
			return
		}
		a.serverError(c, "look up user", err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": badCredentials})
		return
	}

	token, err := auth.GenerateJWT(user.ID)
	if err != nil {
		a.serverError(c, "sign token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  gin.H{"id": user.ID, "name": user.Name, "email": user.Email},
	})
}

func (a *API) Me(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
		return
	}
	claims, err := auth.ValidateJWT(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	user, err := a.Store.UserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		a.serverError(c, "look up user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": user.ID, "name": user.Name, "email": user.Email})
}

func (a *API) Upload(c *gin.Context) {
	title := c.PostForm("title")
	category := c.PostForm("category")
	videoFile, videoErr := c.FormFile("video")
	thumbFile, thumbErr := c.FormFile("thumbnail")
	if title == "" || videoErr != nil || thumbErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	videoName, err := a.Assets.Save(videoFile)
	if err != nil {
		a.serverError(c, "store video file", err)
		return
	}
	thumbName, err := a.Assets.Save(thumbFile)
	if err != nil {
		a.Cleaner.Enqueue(videoName)
		a.serverError(c, "store thumbnail file", err)
		return
	}

	video := models.Video{
		Title:     title,
		Filename:  videoName,
		Category:  category,
		Thumbnail: thumbName,
	}
	if err := a.Store.CreateVideo(&video); err != nil {
		a.Cleaner.Enqueue(videoName, thumbName)
		a.serverError(c, "save video", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Video uploaded", "video": video})
}

func (a *API) ListVideos(c *gin.Context) {
	videos, err := a.Store.ListVideos(c.Query("q"))
	if err != nil {
		a.serverError(c, "list videos", err)
		return
	}
	if videos == nil {
		videos = []models.Video{}
	}
	c.JSON(http.StatusOK, videos)
}

func (a *API) LikeVideo(c *gin.Context) {
	if err := a.Store.LikeVideo(c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
			return
		}
		a.serverError(c, "like video", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Liked"})
}

type commentRequest struct {
	UserID  string `json:"user_id"`
	VideoID string `json:"video_id"`
	Comment string `json:"comment"`
}

// AddComment deliberately does not check that the video exists; comments
// never require a login either.
func (a *API) AddComment(c *gin.Context) {
	var req commentRequest
	if err := c.BindJSON(&req); err != nil || req.VideoID == "" || req.Comment == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	comment := models.Comment{UserID: req.UserID, VideoID: req.VideoID, Text: req.Comment}
	if err := a.Store.AddComment(&comment); err != nil {
		a.serverError(c, "add comment", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Comment added", "comment": comment})
}

func (a *API) ListComments(c *gin.Context) {
	comments, err := a.Store.ListComments(c.Param("videoId"))
	if err != nil {
		a.serverError(c, "list comments", err)
		return
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	c.JSON(http.StatusOK, comments)
}

func (a *API) DeleteVideo(c *gin.Context) {
	video, err := a.Store.DeleteVideo(c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		case errors.Is(err, store.ErrDefaultVideo):
			c.JSON(http.StatusForbidden, gin.H{"error": "Cannot delete default videos"})
		default:
			a.serverError(c, "delete video", err)
		}
		return
	}

	// Only local uploads leave files behind; imported videos carry a
	// YouTube id as their filename and a remote thumbnail, which
	// Enqueue skips.
	if video.PlaybackURL == "" {
		a.Cleaner.Enqueue(video.Filename, video.Thumbnail)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Video deleted successfully"})
}

func (a *API) ClearVideos(c *gin.Context) {
	if err := a.Store.ClearAll(); err != nil {
		a.serverError(c, "clear videos", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All videos deleted"})
}

type importRequest struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

func (a *API) ImportYouTube(c *gin.Context) {
	var req importRequest
	if err := c.BindJSON(&req); err != nil || req.URL == "" || req.Title == "" || req.Category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	videoID := youtube.ExtractVideoID(req.URL)
	if videoID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid YouTube URL"})
		return
	}

	meta := a.YouTube.FetchMetadata(videoID, req.Title)
	video := models.Video{
		Title:       meta.Title,
		Filename:    videoID,
		Category:    req.Category,
		Thumbnail:   meta.Thumbnail,
		PlaybackURL: youtube.EmbedURL(videoID),
		Description: meta.Description,
	}
	if err := a.Store.CreateVideo(&video); err != nil {
		if errors.Is(err, store.ErrDuplicateVideo) {
			c.JSON(http.StatusConflict, gin.H{"error": "This video is already in your collection"})
			return
		}
		a.serverError(c, "save imported video", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Video imported successfully",
		"videoId":   video.ID,
		"videoUrl":  video.PlaybackURL,
		"thumbnail": video.Thumbnail,
	})
}

func (a *API) Health(c *gin.Context) {
	if err := a.Store.Ping(); err != nil {
		log.Printf("health: ping %s: %v", a.Backend, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "backend": a.Backend})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": a.Backend})
}

// serverError logs the failure detail and hides it from the client.
func (a *API) serverError(c *gin.Context, op string, err error) {
	log.Printf("%s %s: %s: %v", c.Request.Method, c.Request.URL.Path, op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
}
