package api

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/123varunshhhhhh/RealtimeChatApp/internal/apperr"
)

func (s *Server) uploadStory(c *fiber.Ctx) error {
	fh := formFile(c, "media")
	if fh == nil {
		return fail(c, apperr.Validation("media file is required"))
	}
	path, ct, err := s.saveTemp(c, fh)
	if err != nil {
		return fail(c, err)
	}
	story, err := s.stories.Post(c.Context(), userID(c), path, ct, c.FormValue("caption"))
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"story": story})
}

func (s *Server) storyFeed(c *fiber.Ctx) error {
	stories, err := s.stories.Feed(c.Context(), userID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"stories": stories})
}

func (s *Server) myStory(c *fiber.Ctx) error {
	story, err := s.stories.MyStory(c.Context(), userID(c))
	if err != nil {
		return fail(c, err)
	}
	if story == nil {
		return c.JSON(fiber.Map{"story": nil})
	}
	return c.JSON(fiber.Map{"story": story})
}

func (s *Server) viewStory(c *fiber.Ctx) error {
	story, err := s.stories.View(c.Context(), c.Params("storyId"), userID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"story": story})
}

func (s *Server) reactToStory(c *fiber.Ctx) error {
	var body struct {
		Emoji string `json:"emoji"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"message": "invalid body"})
	}
	story, err := s.stories.React(c.Context(), c.Params("storyId"), userID(c), body.Emoji)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"story": story})
}

func (s *Server) storyViewers(c *fiber.Ctx) error {
	viewers, err := s.stories.Viewers(c.Context(), c.Params("storyId"), userID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"viewers": viewers})
}
