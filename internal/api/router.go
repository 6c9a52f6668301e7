package api

import (
	"fmt" // Error wrapping

	"feedback_board/internal/auth"       // Session authenticator
	"feedback_board/internal/middleware" // Guards and logging
	"feedback_board/internal/store"      // Identity and feedback stores
	"feedback_board/internal/web"        // Templates

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// Deps are the collaborators the handlers need
type Deps struct {
	DB       *gorm.DB
	Redis    redis.Cmdable
	Users    *store.UserStore
	Feedback *store.FeedbackStore
	Auth     *auth.Authenticator
	Cookie   middleware.SessionCookie
	Secret   string // Signs the flash cookie
}

// NewRouter builds the gin engine with every route
func NewRouter(d Deps) (*gin.Engine, error) {
	if d.Secret == "" {
		return nil, fmt.Errorf("flash secret is empty")
	}
	tmpl, err := web.LoadTemplates()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	setupValidator()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), web.Flashes(d.Secret))
	r.SetHTMLTemplate(tmpl)
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.NoRoute(web.NotFound)

	r.GET("/health", HealthHandler(d.DB, d.Redis))

	// Everything below knows who is calling, if anyone
	site := r.Group("", middleware.LoadSession(d.Auth, d.Cookie))
	site.GET("/", HomeHandler())
	site.GET("/home", HomeHandler())
	site.GET("/register", RegisterPageHandler())
	site.POST("/register", RegisterHandler(d.Auth, d.Cookie))
	site.GET("/login", LoginPageHandler())
	site.POST("/login", LoginHandler(d.Auth, d.Cookie))
	site.GET("/logout", LogoutHandler(d.Auth, d.Cookie))

	// Profile routes: the :username in the path must be the session user
	selfOwner := middleware.PathOwner("username")
	users := site.Group("/users/:username", middleware.RequireSession())
	users.GET("", middleware.RequireOwner(selfOwner, middleware.DeniedView), ProfileHandler(d.Users, d.Feedback))
	users.POST("/delete", middleware.RequireOwner(selfOwner, middleware.DeniedAction), DeleteUserHandler(d.Users, d.Auth, d.Cookie))
	users.GET("/feedback/add", middleware.RequireOwner(selfOwner, middleware.DeniedAction), AddFeedbackPageHandler())
	users.POST("/feedback/add", middleware.RequireOwner(selfOwner, middleware.DeniedAction), AddFeedbackHandler(d.Feedback))

	// Feedback routes: ownership comes from the stored row
	fbOwner := middleware.RequireOwner(FeedbackOwner(d.Feedback), middleware.DeniedAction)
	feedback := site.Group("/feedback/:id", middleware.RequireSession(), fbOwner)
	feedback.GET("/update", EditFeedbackPageHandler())
	feedback.POST("/update", UpdateFeedbackHandler(d.Feedback))
	feedback.POST("/delete", DeleteFeedbackHandler(d.Feedback))

	return r, nil
}
