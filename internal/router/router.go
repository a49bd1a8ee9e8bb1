package router

import (
	"time"

	"yatube/internal/handlers"
	"yatube/internal/middleware"
	"yatube/internal/render"
	"yatube/internal/repository"
	"yatube/internal/services"
	"yatube/internal/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// SessionName is the cookie holding the signed session.
const SessionName = "yatube_session"

// Options are the collaborators the routes are built from.
type Options struct {
	Store         repository.Store
	Images        services.ImageStore // nil disables uploads
	Cache         utils.PageCache     // nil disables the index cache
	CacheTTL      time.Duration
	SessionSecret string
	MediaDir      string
	StaticDir     string
}

// Setup installs sessions, the current-user loader and every route on r.
// r.HTMLRender must already be set.
func Setup(r *gin.Engine, opts Options) {
	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, MaxAge: 86400 * 14})
	r.Use(sessions.Sessions(SessionName, store))
	r.Use(middleware.LoadUser(opts.Store))

	if opts.StaticDir != "" {
		r.Static("/static", opts.StaticDir)
	}
	if opts.MediaDir != "" {
		r.Static(render.MediaPrefix, opts.MediaDir)
	}

	// Services
	userService := services.NewUserService(opts.Store)
	groupService := services.NewGroupService(opts.Store)
	postService := services.NewPostService(opts.Store, opts.Images)
	commentService := services.NewCommentService(opts.Store)
	followService := services.NewFollowService(opts.Store)
	feedService := services.NewFeedService(opts.Store)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	groupHandler := handlers.NewGroupHandler(groupService)
	postHandler := handlers.NewPostHandler(postService, groupService, userService, opts.Cache, opts.CacheTTL)
	commentHandler := handlers.NewCommentHandler(postService, commentService)
	followHandler := handlers.NewFollowHandler(feedService, followService, userService)

	// 公共路由 (Public Routes)
	r.GET("/", postHandler.Index)                     // 首页 - 最新帖子
	r.GET("/groups/", groupHandler.List)              // 所有分组
	r.GET("/group/:slug/", postHandler.GroupPosts)    // 分组下的帖子
	r.GET("/profile/:username/", postHandler.Profile) // 作者主页
	r.GET("/posts/:id/", postHandler.Detail)          // 帖子详情页

	auth := r.Group("/auth")
	{
		auth.GET("/signup/", authHandler.ShowSignup) // 注册页面
		auth.POST("/signup/", authHandler.Signup)    // 提交注册
		auth.GET("/login/", authHandler.ShowLogin)   // 登录页面
		auth.POST("/login/", authHandler.Login)      // 提交登录
		auth.GET("/logout/", authHandler.Logout)     // 退出登录
	}

	// 受保护路由 (Protected Routes)
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/create/", postHandler.ShowCreate)                   // 发布帖子页面
		authorized.POST("/create/", postHandler.Create)                      // 提交发布帖子
		authorized.GET("/posts/:id/edit/", postHandler.ShowEdit)             // 编辑帖子页面
		authorized.POST("/posts/:id/edit/", postHandler.Edit)                // 提交帖子更新
		authorized.POST("/posts/:id/delete/", postHandler.Delete)            // 删除帖子
		authorized.POST("/posts/:id/comment/", commentHandler.Add)           // 发表评论
		authorized.POST("/posts/:id/comment/delete/", commentHandler.Delete) // 删除评论, :id 为评论 id

		authorized.GET("/follow/", followHandler.Index)                        // 关注动态
		authorized.GET("/follow/:username/", followHandler.Author)             // 单个作者的动态
		authorized.GET("/profile/:username/follow/", followHandler.Follow)     // 关注
		authorized.GET("/profile/:username/unfollow/", followHandler.Unfollow) // 取消关注
	}

	r.NoRoute(handlers.RenderNotFound)
}
