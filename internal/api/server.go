package api

import (
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/123varunshhhhhh/RealtimeChatApp/internal/auth"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/service"
	"github.com/123varunshhhhhh/RealtimeChatApp/internal/ws"
)

type Server struct {
	app       *fiber.App
	msgs      *service.MessageService
	groups    *service.GroupService
	stories   *service.StoryService
	users     *service.UserService
	router    *ws.Router
	uploadDir string
	log       *zap.SugaredLogger
}

type Deps struct {
	Messages  *service.MessageService
	Groups    *service.GroupService
	Stories   *service.StoryService
	Users     *service.UserService
	Router    *ws.Router
	Gateway   *ws.Gateway
	Validator *auth.Validator
	UploadDir string
	Log       *zap.SugaredLogger
}

func NewServer(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{BodyLimit: 50 * 1024 * 1024})
	app.Use(recover.New())
	app.Use(fiberlogger.New())

	s := &Server{
		app:       app,
		msgs:      d.Messages,
		groups:    d.Groups,
		stories:   d.Stories,
		users:     d.Users,
		router:    d.Router,
		uploadDir: d.UploadDir,
		log:       d.Log,
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", MetricsHandler())

	app.Get("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(d.Gateway.Handler()))

	api := app.Group("/api", JWTAuth(d.Validator))

	user := api.Group("/user")
	user.Get("/current", s.currentUser)
	user.Get("/others", s.otherUsers)
	user.Get("/search", s.searchUsers)
	user.Put("/profile", s.editProfile)

	msg := api.Group("/message")
	msg.Get("/conversations", s.conversations)
	msg.Post("/send/:receiver", s.sendDirect)
	msg.Post("/send-group/:groupId", s.sendGroup)
	msg.Post("/seen", s.markSeen)
	msg.Post("/reaction", s.addReaction)
	msg.Delete("/", s.deleteMessage)
	msg.Get("/:receiver", s.history)

	grp := api.Group("/group")
	grp.Post("/create", s.createGroup)
	grp.Post("/add", s.addGroupMember)
	grp.Post("/remove", s.removeGroupMember)
	grp.Put("/update", s.updateGroup)
	grp.Get("/list", s.listGroups)
	grp.Get("/:groupId/messages", s.groupHistory)

	story := api.Group("/story")
	story.Post("/upload", s.uploadStory)
	story.Get("/feed", s.storyFeed)
	story.Get("/me", s.myStory)
	story.Post("/:storyId/view", s.viewStory)
	story.Post("/:storyId/reaction", s.reactToStory)
	story.Get("/:storyId/viewers", s.storyViewers)

	return app
}
