package api

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/123varunshhhhhh/RealtimeChatApp/internal/service"
)

func (s *Server) currentUser(c *fiber.Ctx) error {
	u, err := s.users.Current(c.Context(), userID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"user": u})
}

func (s *Server) otherUsers(c *fiber.Ctx) error {
	users, err := s.users.Others(c.Context(), userID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

func (s *Server) searchUsers(c *fiber.Ctx) error {
	users, err := s.users.Search(c.Context(), c.Query("q"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

func (s *Server) editProfile(c *fiber.Ctx) error {
	in := service.EditProfileInput{
		UserID: userID(c),
		Name:   c.FormValue("name"),
		About:  c.FormValue("about"),
	}
	if fh := formFile(c, "image"); fh != nil {
		path, ct, err := s.saveTemp(c, fh)
		if err != nil {
			return fail(c, err)
		}
		in.ImagePath, in.ImageContentType = path, ct
	}
	u, err := s.users.EditProfile(c.Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"user": u})
}
